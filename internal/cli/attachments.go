package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newAttachmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attachments",
		Short: "Attachment operations",
	}
	cmd.AddCommand(newAttachmentsDownloadCmd())
	return cmd
}

func newAttachmentsDownloadCmd() *cobra.Command {
	var mailboxName string
	var protocol string
	var outputDir string

	cmd := &cobra.Command{
		Use:   "download <index>",
		Short: "Download attachments from a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			if outputDir == "" {
				outputDir = "."
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

			email, err := col.Message(index)
			if err != nil {
				return err
			}

			attachments, err := email.Attachments()
			if err != nil {
				return err
			}
			if len(attachments) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No attachments found.")
				return nil
			}

			if err := os.MkdirAll(outputDir, 0o755); err != nil {
				return err
			}

			for i, att := range attachments {
				name := attachmentFileName(att.FileName, i)
				path := filepath.Join(outputDir, name)
				if err := os.WriteFile(path, att.Data, 0o644); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}

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
	cmd.Flags().StringVar(&outputDir, "output", ".", "Output directory")

	return cmd
}
