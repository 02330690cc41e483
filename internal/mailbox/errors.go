package mailbox

import "errors"

var (
	// ErrNotConnected is returned when an operation needs a live server
	// connection and none exists. It is never retried internally.
	ErrNotConnected = errors.New("not connected to mail server")

	// ErrUnknownMailbox is returned when the server rejects a mailbox name.
	ErrUnknownMailbox = errors.New("unknown mailbox")

	// ErrMessageNotFound is returned when a message index or Message-Id
	// cannot be resolved in the selected mailbox.
	ErrMessageNotFound = errors.New("message not found")
)
