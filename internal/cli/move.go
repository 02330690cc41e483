package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMoveCmd() *cobra.Command {
	var mailboxName string
	var protocol string

	cmd := &cobra.Command{
		Use:   "move <index> <mailbox>",
		Short: "Move a message to another mailbox",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			dest := args[1]

			cfg, err := loadConfig()
			if err != nil {
				return err
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
			if err := col.Move(email, dest); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Moved to %s (index %d).\n", email.Mailbox(), email.Index())
			return nil
		},
	}

	cmd.Flags().StringVar(&mailboxName, "mailbox", "", "Source mailbox")
	cmd.Flags().StringVar(&protocol, "protocol", "", "Protocol (imap or pop3)")

	return cmd
}
