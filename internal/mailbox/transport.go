package mailbox

import "mailkit/internal/message"

// SortKey selects the ordering used when listing message indices.
type SortKey string

// SortArrival orders messages by arrival time, which for the supported
// protocols is the order the server assigned their indices.
const SortArrival SortKey = "arrival"

// Transport is the protocol layer a collection drives. One mailbox is
// selected at a time; message indices are positions within the selected
// mailbox and are invalidated by Expunge.
type Transport interface {
	message.PartFetcher

	// SelectMailbox makes the named mailbox current. Selecting a mailbox the
	// server does not know yields ErrUnknownMailbox.
	SelectMailbox(name string) error

	// ListMailboxes enumerates the mailbox names visible to the account.
	ListMailboxes() ([]string, error)

	// ListIndices returns the selected mailbox's message indices in the
	// requested order.
	ListIndices(key SortKey, descending bool) ([]int, error)

	// FetchHeader returns the header-derived fields of one message,
	// including its server flags where the protocol has them.
	FetchHeader(index int) (message.HeaderInfo, error)

	// FetchRawHeader returns the raw header block of one message.
	FetchRawHeader(index int) ([]byte, error)

	// Copy duplicates a message of the selected mailbox into dest.
	Copy(index int, dest string) error

	MarkDeleted(index int) error
	UnmarkDeleted(index int) error

	// Expunge permanently removes the selected mailbox's deleted messages.
	Expunge() error

	Close() error
}
