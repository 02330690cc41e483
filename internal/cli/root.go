package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "mailkit",
		Short:        "mailkit is a CLI for reading IMAP/POP3 mailboxes",
		SilenceUsage: true,
	}

	cmd.AddCommand(newAuthCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newReadCmd())
	cmd.AddCommand(newDeleteCmd())
	cmd.AddCommand(newUndeleteCmd())
	cmd.AddCommand(newExpungeCmd())
	cmd.AddCommand(newMoveCmd())
	cmd.AddCommand(newMailboxesCmd())
	cmd.AddCommand(newAttachmentsCmd())
	cmd.AddCommand(newConfigCmd())

	cmd.SetErr(os.Stderr)
	cmd.SetOut(os.Stdout)

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
