package cli

import (
	"fmt"

	"mailkit/internal/config"
	"mailkit/internal/imap"
	"mailkit/internal/mailbox"
	"mailkit/internal/pop3"
	"mailkit/internal/trace"
)

// resolveProtocol returns the protocol a command should use: the --protocol
// flag when given, otherwise the configured default.
func resolveProtocol(cfg config.Config, flag string) string {
	if flag != "" {
		return flag
	}
	return cfg.Defaults.Protocol
}

// openTransport validates the config for the chosen protocol and dials it.
// The caller owns the returned transport and must Close it.
func openTransport(cfg config.Config, protocol string) (mailbox.Transport, error) {
	log := trace.New(cfg.Log.Level)

	switch protocol {
	case "imap":
		if err := config.ValidateIMAP(cfg); err != nil {
			return nil, err
		}
		return imap.Dial(cfg, log)
	case "pop3":
		if err := config.ValidatePOP3(cfg); err != nil {
			return nil, err
		}
		return pop3.Dial(cfg, log)
	default:
		return nil, fmt.Errorf("unknown protocol %q (expected imap or pop3)", protocol)
	}
}

// openCollection dials the transport and binds the mailbox, falling back to
// the configured default mailbox name when none was given.
func openCollection(cfg config.Config, protocol, mailboxName string) (*mailbox.Collection, mailbox.Transport, error) {
	if mailboxName == "" {
		mailboxName = cfg.Defaults.Mailbox
	}

	tr, err := openTransport(cfg, resolveProtocol(cfg, protocol))
	if err != nil {
		return nil, nil, err
	}

	col := mailbox.New(mailboxName, tr, mailbox.Options{
		Descending: cfg.Defaults.Descending,
		Peek:       cfg.Defaults.Peek,
	})
	return col, tr, nil
}
