package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMailboxesCmd() *cobra.Command {
	var protocol string

	cmd := &cobra.Command{
		Use:   "mailboxes",
		Short: "List mailboxes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			tr, err := openTransport(cfg, resolveProtocol(cfg, protocol))
			if err != nil {
				return err
			}
			defer tr.Close()

			mailboxes, err := tr.ListMailboxes()
			if err != nil {
				return err
			}

			for _, name := range mailboxes {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&protocol, "protocol", "", "Protocol (imap or pop3)")

	return cmd
}
