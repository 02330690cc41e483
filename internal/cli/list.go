package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var mailboxName string
	var protocol string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List messages in a mailbox",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			col, tr, err := openCollection(cfg, protocol, mailboxName)
			if err != nil {
				return err
			}
			defer tr.Close()

			emails, err := col.Messages()
			if err != nil {
				return err
			}

			total := len(emails)
			if limit > 0 && limit < total {
				emails = emails[:limit]
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Mailbox: %s (total %d)\n", col.Name(), total)
			printMessages(cmd.OutOrStdout(), emails)
			return nil
		},
	}

	cmd.Flags().StringVar(&mailboxName, "mailbox", "", "Mailbox name")
	cmd.Flags().StringVar(&protocol, "protocol", "", "Protocol (imap or pop3)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most this many messages")

	return cmd
}
