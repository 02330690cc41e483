package message

import (
	"fmt"
	"strings"
)

// FetchFunc returns the raw, possibly transfer-encoded bytes of the part at
// the given address.
type FetchFunc func(addr PartAddress) ([]byte, error)

// ParsedBody is the decoded content of one message: the accumulated plain
// text, the accumulated HTML, and the attachments in discovery order.
// Faults records attachment parts whose payload could not be decoded; a bad
// attachment does not abort the walk or drop the remaining parts.
type ParsedBody struct {
	Text        string
	HTML        string
	Attachments []*Attachment
	Faults      []error
}

type walker struct {
	fetch FetchFunc
	owner *Envelope

	text strings.Builder
	html strings.Builder
	body ParsedBody
}

// WalkStructure decodes a message's MIME structure tree into plain text,
// HTML and attachments. Text parts land in exactly two buckets: subtype
// "plain" (case-insensitive) accumulates into Text, every other text
// subtype into HTML. A root with no children is a single-part message and
// is fetched whole as part "1".
func WalkStructure(root *PartNode, owner *Envelope, fetch FetchFunc) (*ParsedBody, error) {
	w := &walker{fetch: fetch, owner: owner}

	if len(root.Children) == 0 {
		b, err := fetch(PartAddress("").Child(0))
		if err != nil {
			return nil, err
		}
		w.text.Write(b)
	} else if err := w.walk(root.Children, "", false); err != nil {
		return nil, err
	}

	w.body.Text = w.text.String()
	w.body.HTML = w.html.String()
	return &w.body, nil
}

// walk visits parts in document order. Outside an embedded message a
// child's address extends the base with its 1-based position; inside one,
// addresses chain by incrementing the previous part's last component.
// Only the first embedded message at a level is expanded; once it is, the
// remaining siblings belong to it and the level ends. Embedded messages do
// not nest: a message inside a message is skipped.
func (w *walker) walk(parts []PartNode, base PartAddress, embedded bool) error {
	addr := base
	for i := range parts {
		part := &parts[i]

		var partAddr PartAddress
		if embedded {
			next, err := addr.Next()
			if err != nil {
				return err
			}
			partAddr = next
			addr = partAddr
		} else {
			partAddr = base.Child(i)
		}

		switch part.Kind {
		case KindText:
			b, err := w.fetch(partAddr)
			if err != nil {
				return err
			}
			if strings.EqualFold(part.Subtype, "plain") {
				w.text.Write(b)
			} else {
				w.html.Write(b)
			}
		case KindImage, KindApplication:
			b, err := w.fetch(partAddr)
			if err != nil {
				return err
			}
			att, err := newAttachment(w.owner, part, b)
			if err != nil {
				w.body.Faults = append(w.body.Faults, fmt.Errorf("part %s: %w", partAddr, err))
				continue
			}
			w.body.Attachments = append(w.body.Attachments, att)
		case KindMultipart:
			if err := w.walk(part.Children, partAddr, embedded); err != nil {
				return err
			}
		case KindRFC822:
			if embedded {
				continue
			}
			if err := w.walk(part.Children, partAddr, true); err != nil {
				return err
			}
			return nil
		}
	}
	return nil
}
