package message

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var ErrAttachmentDecode = errors.New("decode attachment")

// Attachment is one binary leaf part of a message body with its base64
// transfer encoding removed.
type Attachment struct {
	owner *Envelope

	Inline    bool
	Data      []byte
	FileName  string
	ContentID string
	Subtype   string
	Size      uint32
}

// Owner returns the envelope the attachment was extracted from.
func (a *Attachment) Owner() *Envelope { return a.owner }

// PlainContentID returns the content id without the angle brackets mail
// agents usually wrap it in.
func (a *Attachment) PlainContentID() string {
	return strings.Trim(a.ContentID, " <>")
}

// newAttachment builds an attachment from a binary leaf part. A part is
// inline unless its disposition is exactly "attachment"; any other value,
// including none at all, yields an inline part. The file name comes from
// the part's "name" parameter, the last occurrence winning if a server
// repeats it.
func newAttachment(owner *Envelope, node *PartNode, encoded []byte) (*Attachment, error) {
	data, err := base64.StdEncoding.DecodeString(string(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAttachmentDecode, err)
	}

	att := &Attachment{
		owner:     owner,
		Inline:    node.Disposition != "attachment",
		Data:      data,
		ContentID: node.ID,
		Subtype:   node.Subtype,
		Size:      node.Size,
	}
	for _, p := range node.Params {
		if p.Attribute == "name" {
			att.FileName = p.Value
		}
	}
	return att, nil
}
