package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDeleteCmd() *cobra.Command {
	var mailboxName string
	var protocol string

	cmd := &cobra.Command{
		Use:   "delete <index>",
		Short: "Mark a message as deleted",
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

			col, tr, err := openCollection(cfg, protocol, mailboxName)
			if err != nil {
				return err
			}
			defer tr.Close()

			if err := col.Delete(index); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Deleted. Run expunge to remove permanently.")
			return nil
		},
	}

	cmd.Flags().StringVar(&mailboxName, "mailbox", "", "Mailbox name")
	cmd.Flags().StringVar(&protocol, "protocol", "", "Protocol (imap or pop3)")

	return cmd
}

func newUndeleteCmd() *cobra.Command {
	var mailboxName string
	var protocol string

	cmd := &cobra.Command{
		Use:   "undelete <index>",
		Short: "Remove a message's deleted mark",
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

			col, tr, err := openCollection(cfg, protocol, mailboxName)
			if err != nil {
				return err
			}
			defer tr.Close()

			if err := col.Undelete(index); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Undeleted.")
			return nil
		},
	}

	cmd.Flags().StringVar(&mailboxName, "mailbox", "", "Mailbox name")
	cmd.Flags().StringVar(&protocol, "protocol", "", "Protocol (imap or pop3)")

	return cmd
}

func newExpungeCmd() *cobra.Command {
	var mailboxName string
	var protocol string

	cmd := &cobra.Command{
		Use:   "expunge",
		Short: "Permanently remove deleted messages",
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

			if err := col.Expunge(); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Expunged.")
			return nil
		},
	}

	cmd.Flags().StringVar(&mailboxName, "mailbox", "", "Mailbox name")
	cmd.Flags().StringVar(&protocol, "protocol", "", "Protocol (imap or pop3)")

	return cmd
}
