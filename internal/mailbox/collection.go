package mailbox

import (
	"fmt"

	"mailkit/internal/message"
)

// Options configure how a collection loads its mailbox.
type Options struct {
	// Descending lists newest messages first.
	Descending bool
	// Peek keeps body fetches from marking messages as read.
	Peek bool
}

// Collection is the ordered set of messages in one mailbox. The envelope
// list is loaded lazily on first access and cached; mutation operations
// keep the cache consistent. A collection is not safe for concurrent use.
type Collection struct {
	name string
	tr   Transport
	opts Options

	loaded bool
	emails []*message.Envelope
}

// New binds a mailbox name to a transport. Nothing is fetched until the
// collection is first read.
func New(name string, tr Transport, opts Options) *Collection {
	return &Collection{name: name, tr: tr, opts: opts}
}

// Name returns the mailbox name the collection was bound to.
func (c *Collection) Name() string { return c.name }

// Messages returns the mailbox's envelopes ordered by arrival.
func (c *Collection) Messages() ([]*message.Envelope, error) {
	if err := c.load(); err != nil {
		return nil, err
	}
	return c.emails, nil
}

func (c *Collection) load() error {
	if c.loaded {
		return nil
	}
	if err := c.tr.SelectMailbox(c.name); err != nil {
		return err
	}
	indices, err := c.tr.ListIndices(SortArrival, c.opts.Descending)
	if err != nil {
		return err
	}
	emails := make([]*message.Envelope, 0, len(indices))
	for _, idx := range indices {
		header, err := c.tr.FetchHeader(idx)
		if err != nil {
			return fmt.Errorf("fetch header %d: %w", idx, err)
		}
		emails = append(emails, message.NewEnvelope(c.name, idx, header, c.tr, c.opts.Peek))
	}
	c.emails = emails
	c.loaded = true
	return nil
}

// Message returns the envelope at the given server index.
func (c *Collection) Message(index int) (*message.Envelope, error) {
	if err := c.load(); err != nil {
		return nil, err
	}
	for _, e := range c.emails {
		if e.Index() == index {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: index %d in %s", ErrMessageNotFound, index, c.name)
}

// IndexOf locates a message's current position by its Message-Id. The scan
// is linear; mailboxes are bounded and the envelope list is cached.
func (c *Collection) IndexOf(messageID string) (int, error) {
	if err := c.load(); err != nil {
		return 0, err
	}
	for _, e := range c.emails {
		if e.MessageID() == messageID {
			return e.Index(), nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrMessageNotFound, messageID)
}

// Delete marks the message at index as deleted on the server. The message
// stays listed until the mailbox is expunged.
func (c *Collection) Delete(index int) error {
	if err := c.tr.SelectMailbox(c.name); err != nil {
		return err
	}
	return c.tr.MarkDeleted(index)
}

// Undelete removes the deleted mark from the message at index.
func (c *Collection) Undelete(index int) error {
	if err := c.tr.SelectMailbox(c.name); err != nil {
		return err
	}
	return c.tr.UnmarkDeleted(index)
}

// Expunge permanently removes the mailbox's deleted messages and drops the
// cached envelope list, since remaining indices may have shifted.
func (c *Collection) Expunge() error {
	if err := c.tr.SelectMailbox(c.name); err != nil {
		return err
	}
	if err := c.tr.Expunge(); err != nil {
		return err
	}
	c.loaded = false
	c.emails = nil
	return nil
}

// Move relocates an envelope into another mailbox: copy at the protocol
// layer, mark the source copy deleted, re-resolve the message's index in
// the destination by Message-Id, and unmark the destination copy. A failed
// copy leaves the message untouched; a failed re-resolution rolls the
// source deletion back so the move stays a logical no-op.
func (c *Collection) Move(env *message.Envelope, dest string) error {
	if err := c.tr.SelectMailbox(c.name); err != nil {
		return err
	}
	if err := c.tr.Copy(env.Index(), dest); err != nil {
		return fmt.Errorf("copy to %s: %w", dest, err)
	}
	if err := c.tr.MarkDeleted(env.Index()); err != nil {
		return err
	}

	target := New(dest, c.tr, c.opts)
	newIndex, err := target.IndexOf(env.MessageID())
	if err != nil {
		if selErr := c.tr.SelectMailbox(c.name); selErr == nil {
			_ = c.tr.UnmarkDeleted(env.Index())
		}
		return fmt.Errorf("resolve moved message in %s: %w", dest, err)
	}

	if err := c.tr.SelectMailbox(dest); err != nil {
		return err
	}
	if err := c.tr.UnmarkDeleted(newIndex); err != nil {
		return err
	}

	c.remove(env)
	env.Relocate(dest, newIndex)
	return nil
}

func (c *Collection) remove(env *message.Envelope) {
	for i, e := range c.emails {
		if e == env {
			c.emails = append(c.emails[:i], c.emails[i+1:]...)
			return
		}
	}
}
