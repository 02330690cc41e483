package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReadCmd() *cobra.Command {
	var mailboxName string
	var protocol string
	var asHTML bool
	var markRead bool

	cmd := &cobra.Command{
		Use:   "read <index>",
		Short: "Read a message by index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if markRead {
				cfg.Defaults.Peek = false
			}

			col, tr, err := openCollection(cfg, protocol, mailboxName)
			if err != nil {
				return err
			}
			defer tr.Close()

			email, err := col.Message(index)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Index: %d\n", email.Index())
			if email.Header.Subject != "" {
				fmt.Fprintf(out, "Subject: %s\n", email.Header.Subject)
			}
			if email.Header.From != "" {
				fmt.Fprintf(out, "From: %s\n", email.Header.From)
			}
			if email.Header.To != "" {
				fmt.Fprintf(out, "To: %s\n", email.Header.To)
			}
			if email.Header.Cc != "" {
				fmt.Fprintf(out, "Cc: %s\n", email.Header.Cc)
			}
			if !email.Header.Date.IsZero() {
				fmt.Fprintf(out, "Date: %s\n", email.Header.Date.Format("2006-01-02 15:04:05 -0700"))
			}

			attachments, err := email.Attachments()
			if err != nil {
				return err
			}
			for _, att := range attachments {
				fmt.Fprintf(out, "Attachment: %s (%d bytes)\n", att.FileName, len(att.Data))
			}

			body := ""
			if asHTML {
				body, err = email.HTML()
			} else {
				body, err = email.Text()
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(out, "")
			fmt.Fprintln(out, body)

			if parsed, err := email.Body(); err == nil {
				for _, fault := range parsed.Faults {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", fault)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mailboxName, "mailbox", "", "Mailbox name")
	cmd.Flags().StringVar(&protocol, "protocol", "", "Protocol (imap or pop3)")
	cmd.Flags().BoolVar(&asHTML, "html", false, "Print the HTML body instead of plain text")
	cmd.Flags().BoolVar(&markRead, "mark-read", false, "Let the server mark the message as read")

	return cmd
}
