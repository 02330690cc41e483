package imap

import (
	"crypto/tls"
	"fmt"
	"io"
	"sort"

	"mailkit/internal/config"
	"mailkit/internal/mailbox"
	"mailkit/internal/message"

	"github.com/emersion/go-imap"
	imapclient "github.com/emersion/go-imap/client"
	"github.com/rs/zerolog"
)

// Client is the subset of the go-imap client the transport drives. Tests
// substitute a fake.
type Client interface {
	Login(username, password string) error
	Logout() error
	StartTLS(config *tls.Config) error
	Select(name string, readOnly bool) (*imap.MailboxStatus, error)
	Status(name string, items []imap.StatusItem) (*imap.MailboxStatus, error)
	List(ref, name string, ch chan *imap.MailboxInfo) error
	Search(criteria *imap.SearchCriteria) ([]uint32, error)
	Fetch(seqset *imap.SeqSet, items []imap.FetchItem, ch chan *imap.Message) error
	Store(seqset *imap.SeqSet, item imap.StoreItem, value interface{}, ch chan *imap.Message) error
	Copy(seqset *imap.SeqSet, dest string) error
	Expunge(ch chan uint32) error
}

// Transport drives one authenticated IMAP connection. Message indices are
// sequence numbers within the selected mailbox. It implements
// mailbox.Transport.
type Transport struct {
	client   Client
	log      zerolog.Logger
	selected string
}

var _ mailbox.Transport = (*Transport)(nil)

// NewTransport wraps an already connected client.
func NewTransport(c Client, log zerolog.Logger) *Transport {
	return &Transport{client: c, log: log}
}

// Dial connects and authenticates using the connection parameters in cfg.
func Dial(cfg config.Config, log zerolog.Logger) (*Transport, error) {
	addr := fmt.Sprintf("%s:%d", cfg.IMAP.Host, cfg.IMAP.Port)
	var c *imapclient.Client
	var err error

	if cfg.IMAP.TLS {
		tlsConfig := &tls.Config{
			ServerName:         cfg.IMAP.Host,
			InsecureSkipVerify: cfg.IMAP.InsecureSkipVerify,
		}
		c, err = imapclient.DialTLS(addr, tlsConfig)
	} else {
		c, err = imapclient.Dial(addr)
		if err == nil && cfg.IMAP.StartTLS {
			tlsConfig := &tls.Config{
				ServerName:         cfg.IMAP.Host,
				InsecureSkipVerify: cfg.IMAP.InsecureSkipVerify,
			}
			if err := c.StartTLS(tlsConfig); err != nil {
				_ = c.Logout()
				return nil, err
			}
		}
	}
	if err != nil {
		return nil, err
	}

	if err := c.Login(cfg.Auth.Username, cfg.Auth.Password); err != nil {
		_ = c.Logout()
		return nil, err
	}

	log.Debug().Str("addr", addr).Msg("imap connected")
	return NewTransport(c, log), nil
}

func (t *Transport) ready() error {
	if t.client == nil {
		return mailbox.ErrNotConnected
	}
	return nil
}

// Close logs the connection out.
func (t *Transport) Close() error {
	if t.client == nil {
		return nil
	}
	err := t.client.Logout()
	t.client = nil
	t.selected = ""
	return err
}

// SelectMailbox makes the named mailbox current. A server rejection is
// reported as ErrUnknownMailbox.
func (t *Transport) SelectMailbox(name string) error {
	if err := t.ready(); err != nil {
		return err
	}
	if t.selected == name {
		return nil
	}
	if _, err := t.client.Select(name, false); err != nil {
		t.selected = ""
		return fmt.Errorf("%w: %s: %v", mailbox.ErrUnknownMailbox, name, err)
	}
	t.selected = name
	t.log.Debug().Str("mailbox", name).Msg("mailbox selected")
	return nil
}

// ListMailboxes enumerates all mailbox names visible to the account.
func (t *Transport) ListMailboxes() ([]string, error) {
	if err := t.ready(); err != nil {
		return nil, err
	}
	ch := make(chan *imap.MailboxInfo, 10)
	done := make(chan error, 1)
	go func() {
		done <- t.client.List("", "*", ch)
	}()
	names := []string{}
	for info := range ch {
		names = append(names, info.Name)
	}
	return names, <-done
}

// ListIndices returns the selected mailbox's sequence numbers ordered by
// arrival. Sequence numbers are assigned in arrival order, so SortArrival
// needs no server-side sort extension.
func (t *Transport) ListIndices(key mailbox.SortKey, descending bool) ([]int, error) {
	if err := t.ready(); err != nil {
		return nil, err
	}
	seqNums, err := t.client.Search(imap.NewSearchCriteria())
	if err != nil {
		return nil, err
	}
	sort.Slice(seqNums, func(i, j int) bool { return seqNums[i] < seqNums[j] })

	indices := make([]int, len(seqNums))
	for i, n := range seqNums {
		if descending {
			indices[len(seqNums)-1-i] = int(n)
		} else {
			indices[i] = int(n)
		}
	}
	return indices, nil
}

func (t *Transport) fetchOne(index int, items []imap.FetchItem) (*imap.Message, error) {
	seqset := new(imap.SeqSet)
	seqset.AddNum(uint32(index))
	ch := make(chan *imap.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- t.client.Fetch(seqset, items, ch)
	}()
	msg := <-ch
	if err := <-done; err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, fmt.Errorf("%w: index %d", mailbox.ErrMessageNotFound, index)
	}
	return msg, nil
}

func headerSection() *imap.BodySectionName {
	return &imap.BodySectionName{
		BodyPartName: imap.BodyPartName{Specifier: imap.HeaderSpecifier},
		Peek:         true,
	}
}

// FetchRawHeader returns the raw header block of one message without
// marking it as read.
func (t *Transport) FetchRawHeader(index int) ([]byte, error) {
	if err := t.ready(); err != nil {
		return nil, err
	}
	section := headerSection()
	msg, err := t.fetchOne(index, []imap.FetchItem{section.FetchItem()})
	if err != nil {
		return nil, err
	}
	body := msg.GetBody(section)
	if body == nil {
		return nil, fmt.Errorf("%w: header of index %d", mailbox.ErrMessageNotFound, index)
	}
	return io.ReadAll(body)
}

// FetchHeader parses one message's header block and attaches its server
// flags.
func (t *Transport) FetchHeader(index int) (message.HeaderInfo, error) {
	if err := t.ready(); err != nil {
		return message.HeaderInfo{}, err
	}
	section := headerSection()
	msg, err := t.fetchOne(index, []imap.FetchItem{imap.FetchFlags, section.FetchItem()})
	if err != nil {
		return message.HeaderInfo{}, err
	}
	body := msg.GetBody(section)
	if body == nil {
		return message.HeaderInfo{}, fmt.Errorf("%w: header of index %d", mailbox.ErrMessageNotFound, index)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return message.HeaderInfo{}, err
	}
	info, err := message.ParseHeader(raw)
	if err != nil {
		return message.HeaderInfo{}, err
	}
	info.Flags = msg.Flags
	return info, nil
}

// FetchStructure returns the message's MIME structure tree.
func (t *Transport) FetchStructure(index int) (*message.PartNode, error) {
	if err := t.ready(); err != nil {
		return nil, err
	}
	msg, err := t.fetchOne(index, []imap.FetchItem{imap.FetchBodyStructure})
	if err != nil {
		return nil, err
	}
	if msg.BodyStructure == nil {
		return nil, fmt.Errorf("%w: structure of index %d", mailbox.ErrMessageNotFound, index)
	}
	return convertStructure(msg.BodyStructure), nil
}

// FetchPartBytes returns the raw bytes of one addressed body part. With
// peek set the fetch does not mark the message as read.
func (t *Transport) FetchPartBytes(index int, addr message.PartAddress, peek bool) ([]byte, error) {
	if err := t.ready(); err != nil {
		return nil, err
	}
	path, err := addr.Path()
	if err != nil {
		return nil, err
	}
	section := &imap.BodySectionName{
		BodyPartName: imap.BodyPartName{Path: path},
		Peek:         peek,
	}
	msg, err := t.fetchOne(index, []imap.FetchItem{section.FetchItem()})
	if err != nil {
		return nil, err
	}
	body := msg.GetBody(section)
	if body == nil {
		return nil, fmt.Errorf("%w: part %s of index %d", mailbox.ErrMessageNotFound, addr, index)
	}
	t.log.Debug().Int("index", index).Str("part", addr.String()).Bool("peek", peek).Msg("fetched body part")
	return io.ReadAll(body)
}

// Copy duplicates a message of the selected mailbox into dest.
func (t *Transport) Copy(index int, dest string) error {
	if err := t.ready(); err != nil {
		return err
	}
	seqset := new(imap.SeqSet)
	seqset.AddNum(uint32(index))
	return t.client.Copy(seqset, dest)
}

func (t *Transport) storeDeleted(index int, op imap.FlagsOp) error {
	if err := t.ready(); err != nil {
		return err
	}
	seqset := new(imap.SeqSet)
	seqset.AddNum(uint32(index))
	item := imap.FormatFlagsOp(op, true)
	return t.client.Store(seqset, item, []interface{}{imap.DeletedFlag}, nil)
}

// MarkDeleted sets the \Deleted flag on one message.
func (t *Transport) MarkDeleted(index int) error {
	return t.storeDeleted(index, imap.AddFlags)
}

// UnmarkDeleted clears the \Deleted flag on one message.
func (t *Transport) UnmarkDeleted(index int) error {
	return t.storeDeleted(index, imap.RemoveFlags)
}

// Expunge permanently removes the selected mailbox's deleted messages.
func (t *Transport) Expunge() error {
	if err := t.ready(); err != nil {
		return err
	}
	ch := make(chan uint32)
	done := make(chan error, 1)
	go func() {
		done <- t.client.Expunge(ch)
	}()
	for range ch {
	}
	return <-done
}

// MailboxStatus reports message counts for one mailbox.
type MailboxStatus struct {
	Name     string
	Messages uint32
	Unseen   uint32
}

// Status queries message counts without selecting the mailbox.
func (t *Transport) Status(name string) (MailboxStatus, error) {
	if err := t.ready(); err != nil {
		return MailboxStatus{}, err
	}
	status, err := t.client.Status(name, []imap.StatusItem{imap.StatusMessages, imap.StatusUnseen})
	if err != nil {
		return MailboxStatus{}, fmt.Errorf("%w: %s: %v", mailbox.ErrUnknownMailbox, name, err)
	}
	return MailboxStatus{Name: status.Name, Messages: status.Messages, Unseen: status.Unseen}, nil
}
