package message

// PartFetcher is the transport capability an envelope needs to build its
// body: the message's structure tree and the raw bytes of one addressed
// part. When peek is set the fetch must not mark the message as read on
// the server.
type PartFetcher interface {
	FetchStructure(index int) (*PartNode, error)
	FetchPartBytes(index int, addr PartAddress, peek bool) ([]byte, error)
}

// Envelope is one message in a mailbox: header-derived metadata plus the
// lazily built body. The structure walk runs at most once; afterwards the
// cached ParsedBody is returned without touching the network. Envelopes are
// not safe for concurrent use.
type Envelope struct {
	mailbox string
	index   int
	peek    bool
	fetcher PartFetcher

	Header HeaderInfo

	built bool
	body  *ParsedBody
}

// NewEnvelope binds the message at the given index of a mailbox to the
// transport that can fetch its content.
func NewEnvelope(mailboxName string, index int, header HeaderInfo, fetcher PartFetcher, peek bool) *Envelope {
	return &Envelope{
		mailbox: mailboxName,
		index:   index,
		peek:    peek,
		fetcher: fetcher,
		Header:  header,
	}
}

// Mailbox returns the name of the mailbox currently holding the message.
func (e *Envelope) Mailbox() string { return e.mailbox }

// Index returns the message's current position within its mailbox.
func (e *Envelope) Index() int { return e.index }

// MessageID returns the globally unique Message-Id header value.
func (e *Envelope) MessageID() string { return e.Header.MessageID }

// Relocate rebinds the envelope after a move to another mailbox. The cached
// body, if already built, stays valid.
func (e *Envelope) Relocate(mailboxName string, index int) {
	e.mailbox = mailboxName
	e.index = index
}

// Body returns the decoded body, walking the structure tree on first call.
func (e *Envelope) Body() (*ParsedBody, error) {
	if e.built {
		return e.body, nil
	}

	root, err := e.fetcher.FetchStructure(e.index)
	if err != nil {
		return nil, err
	}
	body, err := WalkStructure(root, e, func(addr PartAddress) ([]byte, error) {
		return e.fetcher.FetchPartBytes(e.index, addr, e.peek)
	})
	if err != nil {
		return nil, err
	}

	e.built = true
	e.body = body
	return body, nil
}

// Text returns the message's accumulated plain-text body.
func (e *Envelope) Text() (string, error) {
	body, err := e.Body()
	if err != nil {
		return "", err
	}
	return body.Text, nil
}

// HTML returns the message's accumulated HTML body.
func (e *Envelope) HTML() (string, error) {
	body, err := e.Body()
	if err != nil {
		return "", err
	}
	return body.HTML, nil
}

// Attachments returns the message's attachments in discovery order.
func (e *Envelope) Attachments() ([]*Attachment, error) {
	body, err := e.Body()
	if err != nil {
		return nil, err
	}
	return body.Attachments, nil
}
