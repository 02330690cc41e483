package cli

import (
	"fmt"

	"mailkit/internal/config"
	"mailkit/internal/imap"
	"mailkit/internal/trace"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [mailbox]",
		Short: "Show mailbox message counts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := config.ValidateIMAP(cfg); err != nil {
				return err
			}

			name := cfg.Defaults.Mailbox
			if len(args) == 1 {
				name = args[0]
			}

			tr, err := imap.Dial(cfg, trace.New(cfg.Log.Level))
			if err != nil {
				return err
			}
			defer tr.Close()

			status, err := tr.Status(name)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d messages, %d unseen\n", status.Name, status.Messages, status.Unseen)
			return nil
		},
	}

	return cmd
}
