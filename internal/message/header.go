package message

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
)

// Standard IMAP system flags carried on envelopes.
const (
	FlagSeen     = "\\Seen"
	FlagAnswered = "\\Answered"
	FlagFlagged  = "\\Flagged"
	FlagDeleted  = "\\Deleted"
)

// PriorityNormal is the X-Priority value assumed when a message carries no
// priority header.
const PriorityNormal = 3

// HeaderInfo holds the header-derived fields of one message. The transport
// fills it when listing a mailbox; flags come from the server rather than
// the header block and are absent on protocols without flags.
type HeaderInfo struct {
	Subject    string
	From       string
	To         string
	Cc         string
	Date       time.Time
	MessageID  string
	InReplyTo  string
	References []string
	Priority   int
	Flags      []string
}

// Seen reports whether the server marked the message as read.
func (h HeaderInfo) Seen() bool {
	for _, f := range h.Flags {
		if f == FlagSeen {
			return true
		}
	}
	return false
}

// ParseHeader extracts envelope fields from a raw RFC 822 header block.
// Individual fields that fail to decode are left at their zero value; only
// an unreadable header block is an error.
func ParseHeader(raw []byte) (HeaderInfo, error) {
	buf := bytes.NewBuffer(make([]byte, 0, len(raw)+2))
	buf.Write(raw)
	buf.WriteString("\r\n")

	r, err := mail.CreateReader(buf)
	if err != nil {
		return HeaderInfo{}, err
	}
	header := r.Header

	info := HeaderInfo{Priority: PriorityNormal}
	info.Subject, _ = header.Subject()
	info.Date, _ = header.Date()
	info.From = formatAddressField(header, "From")
	info.To = formatAddressField(header, "To")
	info.Cc = formatAddressField(header, "Cc")
	info.MessageID, _ = header.MessageID()

	if ids, err := header.MsgIDList("In-Reply-To"); err == nil && len(ids) > 0 {
		info.InReplyTo = ids[0]
	}
	if refs, err := header.MsgIDList("References"); err == nil {
		info.References = refs
	}
	if p := parsePriority(header.Get("X-Priority")); p != 0 {
		info.Priority = p
	}

	return info, nil
}

func formatAddressField(header mail.Header, field string) string {
	list, err := header.AddressList(field)
	if err != nil || len(list) == 0 {
		return ""
	}
	parts := make([]string, 0, len(list))
	for _, addr := range list {
		if addr == nil {
			continue
		}
		if addr.Name != "" {
			parts = append(parts, addr.Name+" <"+addr.Address+">")
		} else {
			parts = append(parts, addr.Address)
		}
	}
	return strings.Join(parts, ", ")
}

// parsePriority reads the integer prefix of an X-Priority value such as
// "1 (Highest)". Zero means no usable priority.
func parsePriority(value string) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	end := 0
	for end < len(value) && value[end] >= '0' && value[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(value[:end])
	if err != nil {
		return 0
	}
	return n
}
