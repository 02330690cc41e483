package cli

import (
	"fmt"

	"mailkit/internal/config"
	"mailkit/internal/secrets"

	"github.com/spf13/cobra"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication and config setup",
	}
	cmd.AddCommand(newAuthLoginCmd())
	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var (
		imapHost     string
		imapPort     int
		imapTLS      bool
		imapStartTLS bool
		imapInsecure bool

		pop3Host     string
		pop3Port     int
		pop3TLS      bool
		pop3Insecure bool

		username string
		password string

		defaultMailbox  string
		defaultProtocol string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store mail server credentials and configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("imap-host") {
				cfg.IMAP.Host = imapHost
			}
			if cmd.Flags().Changed("imap-port") {
				cfg.IMAP.Port = imapPort
			}
			if cmd.Flags().Changed("imap-tls") {
				cfg.IMAP.TLS = imapTLS
			}
			if cmd.Flags().Changed("imap-starttls") {
				cfg.IMAP.StartTLS = imapStartTLS
			}
			if cmd.Flags().Changed("imap-insecure") {
				cfg.IMAP.InsecureSkipVerify = imapInsecure
			}

			if cmd.Flags().Changed("pop3-host") {
				cfg.POP3.Host = pop3Host
			}
			if cmd.Flags().Changed("pop3-port") {
				cfg.POP3.Port = pop3Port
			}
			if cmd.Flags().Changed("pop3-tls") {
				cfg.POP3.TLS = pop3TLS
			}
			if cmd.Flags().Changed("pop3-insecure") {
				cfg.POP3.InsecureSkipVerify = pop3Insecure
			}

			if cmd.Flags().Changed("username") {
				cfg.Auth.Username = username
			}
			if cmd.Flags().Changed("mailbox") {
				cfg.Defaults.Mailbox = defaultMailbox
			}
			if cmd.Flags().Changed("protocol") {
				cfg.Defaults.Protocol = defaultProtocol
			}

			// Passwords go to the keyring, never to the config file.
			if cmd.Flags().Changed("password") {
				if err := secrets.SetPassword(cfg.Auth.Username, password); err != nil {
					return err
				}
			}

			cfgToValidate := cfg
			if cfgToValidate.Auth.Password == "" {
				cfgToValidate.Auth.Password = password
			}
			if err := config.Validate(cfgToValidate); err != nil {
				return err
			}

			path, err := config.Save(cfg)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Config saved to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&imapHost, "imap-host", "", "IMAP host")
	cmd.Flags().IntVar(&imapPort, "imap-port", 0, "IMAP port")
	cmd.Flags().BoolVar(&imapTLS, "imap-tls", false, "Use IMAP TLS")
	cmd.Flags().BoolVar(&imapStartTLS, "imap-starttls", false, "Use IMAP STARTTLS")
	cmd.Flags().BoolVar(&imapInsecure, "imap-insecure", false, "Skip IMAP TLS verification")

	cmd.Flags().StringVar(&pop3Host, "pop3-host", "", "POP3 host")
	cmd.Flags().IntVar(&pop3Port, "pop3-port", 0, "POP3 port")
	cmd.Flags().BoolVar(&pop3TLS, "pop3-tls", false, "Use POP3 TLS")
	cmd.Flags().BoolVar(&pop3Insecure, "pop3-insecure", false, "Skip POP3 TLS verification")

	cmd.Flags().StringVar(&username, "username", "", "Username")
	cmd.Flags().StringVar(&password, "password", "", "Password or app password")

	cmd.Flags().StringVar(&defaultMailbox, "mailbox", "", "Default mailbox name")
	cmd.Flags().StringVar(&defaultProtocol, "protocol", "", "Default protocol (imap or pop3)")

	return cmd
}
