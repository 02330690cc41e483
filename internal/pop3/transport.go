// Package pop3 implements the mailbox transport over POP3. A POP3 account
// exposes a single maildrop, surfaced here as the one mailbox "INBOX".
package pop3

import (
	"bytes"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/textproto"
	"strconv"
	"strings"

	"mailkit/internal/config"
	"mailkit/internal/mailbox"
	"mailkit/internal/message"

	"github.com/rs/zerolog"
)

// ErrNotSupported marks operations POP3 has no protocol support for.
var ErrNotSupported = errors.New("not supported over pop3")

const inboxName = "INBOX"

// Transport drives one authenticated POP3 session. It implements
// mailbox.Transport. Deletion marks are session-local: Expunge commits them
// by ending the session, and Close discards them.
type Transport struct {
	conn *textproto.Conn
	log  zerolog.Logger
}

var _ mailbox.Transport = (*Transport)(nil)

// Dial connects and authenticates using the connection parameters in cfg.
func Dial(cfg config.Config, log zerolog.Logger) (*Transport, error) {
	addr := fmt.Sprintf("%s:%d", cfg.POP3.Host, cfg.POP3.Port)

	var netConn net.Conn
	var err error
	if cfg.POP3.TLS {
		netConn, err = tls.Dial("tcp", addr, &tls.Config{
			ServerName:         cfg.POP3.Host,
			InsecureSkipVerify: cfg.POP3.InsecureSkipVerify,
		})
	} else {
		netConn, err = net.Dial("tcp", addr)
	}
	if err != nil {
		return nil, err
	}

	conn := textproto.NewConn(netConn)
	if _, err := readStatus(conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("pop3 greeting: %w", err)
	}

	t := &Transport{conn: conn, log: log}
	if _, err := t.cmd("USER %s", cfg.Auth.Username); err != nil {
		_ = conn.Close()
		return nil, err
	}
	if _, err := t.cmd("PASS %s", cfg.Auth.Password); err != nil {
		_ = conn.Close()
		return nil, err
	}

	log.Debug().Str("addr", addr).Msg("pop3 connected")
	return t, nil
}

// NewTransport wraps an already authenticated connection. Used by tests.
func NewTransport(conn *textproto.Conn, log zerolog.Logger) *Transport {
	return &Transport{conn: conn, log: log}
}

func readStatus(conn *textproto.Conn) (string, error) {
	line, err := conn.ReadLine()
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(line, "+OK") {
		return "", fmt.Errorf("pop3: %s", line)
	}
	return line, nil
}

func (t *Transport) cmd(format string, args ...interface{}) (string, error) {
	if t.conn == nil {
		return "", mailbox.ErrNotConnected
	}
	if err := t.conn.PrintfLine(format, args...); err != nil {
		return "", err
	}
	return readStatus(t.conn)
}

// cmdMultiline issues a command whose successful response is a
// dot-terminated block and returns the block's bytes. The dot decoder
// rewrites CRLF line endings to bare newlines.
func (t *Transport) cmdMultiline(format string, args ...interface{}) ([]byte, error) {
	if _, err := t.cmd(format, args...); err != nil {
		return nil, err
	}
	return io.ReadAll(t.conn.DotReader())
}

// SelectMailbox accepts only the maildrop's single mailbox name.
func (t *Transport) SelectMailbox(name string) error {
	if t.conn == nil {
		return mailbox.ErrNotConnected
	}
	if name != inboxName {
		return fmt.Errorf("%w: %s", mailbox.ErrUnknownMailbox, name)
	}
	return nil
}

func (t *Transport) ListMailboxes() ([]string, error) {
	if t.conn == nil {
		return nil, mailbox.ErrNotConnected
	}
	return []string{inboxName}, nil
}

// ListIndices returns the maildrop's message numbers from LIST, which
// skips messages already marked deleted this session.
func (t *Transport) ListIndices(key mailbox.SortKey, descending bool) ([]int, error) {
	block, err := t.cmdMultiline("LIST")
	if err != nil {
		return nil, err
	}

	var indices []int
	for _, line := range strings.Split(strings.TrimRight(string(block), "\n"), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("pop3: malformed LIST line %q", line)
		}
		indices = append(indices, n)
	}
	if descending {
		for i, j := 0, len(indices)-1; i < j; i, j = i+1, j-1 {
			indices[i], indices[j] = indices[j], indices[i]
		}
	}
	return indices, nil
}

// FetchRawHeader returns the header block via TOP, which never marks
// anything read; POP3 has no read state.
func (t *Transport) FetchRawHeader(index int) ([]byte, error) {
	raw, err := t.cmdMultiline("TOP %d 0", index)
	if err != nil {
		if errors.Is(err, mailbox.ErrNotConnected) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: index %d: %v", mailbox.ErrMessageNotFound, index, err)
	}
	return raw, nil
}

func (t *Transport) FetchHeader(index int) (message.HeaderInfo, error) {
	raw, err := t.FetchRawHeader(index)
	if err != nil {
		return message.HeaderInfo{}, err
	}
	return message.ParseHeader(raw)
}

// FetchStructure reports every message as a single text part. POP3 has no
// structure command; the whole decoded payload is surfaced as part 1, with
// the subtype taken from the top-level Content-Type when it is textual.
func (t *Transport) FetchStructure(index int) (*message.PartNode, error) {
	raw, err := t.FetchRawHeader(index)
	if err != nil {
		return nil, err
	}
	subtype := "plain"
	if ct := headerValue(raw, "Content-Type"); ct != "" {
		if mediaType, _, err := mime.ParseMediaType(ct); err == nil {
			if rest, ok := strings.CutPrefix(mediaType, "text/"); ok {
				subtype = rest
			}
		}
	}
	return &message.PartNode{Kind: message.KindText, Subtype: subtype}, nil
}

// FetchPartBytes retrieves the message via RETR and returns the body that
// follows the header block. Only part 1 exists.
func (t *Transport) FetchPartBytes(index int, addr message.PartAddress, peek bool) ([]byte, error) {
	if addr != "" && addr != "1" {
		return nil, fmt.Errorf("%w: part %s of index %d", mailbox.ErrMessageNotFound, addr, index)
	}
	raw, err := t.cmdMultiline("RETR %d", index)
	if err != nil {
		if errors.Is(err, mailbox.ErrNotConnected) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: index %d: %v", mailbox.ErrMessageNotFound, index, err)
	}
	if _, body, found := bytes.Cut(raw, []byte("\n\n")); found {
		return body, nil
	}
	return nil, nil
}

// Copy has no POP3 equivalent; the maildrop is the only mailbox.
func (t *Transport) Copy(index int, dest string) error {
	return fmt.Errorf("copy to %s: %w", dest, ErrNotSupported)
}

func (t *Transport) MarkDeleted(index int) error {
	_, err := t.cmd("DELE %d", index)
	return err
}

// UnmarkDeleted resets the session's deletion marks. POP3 has no per-message
// undelete; RSET clears all of them.
func (t *Transport) UnmarkDeleted(index int) error {
	_, err := t.cmd("RSET")
	return err
}

// Expunge commits the session's deletion marks by ending the session with
// QUIT. The transport is disconnected afterwards.
func (t *Transport) Expunge() error {
	if _, err := t.cmd("QUIT"); err != nil {
		return err
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}

// Close discards pending deletion marks and ends the session.
func (t *Transport) Close() error {
	if t.conn == nil {
		return nil
	}
	_, _ = t.cmd("RSET")
	_, _ = t.cmd("QUIT")
	err := t.conn.Close()
	t.conn = nil
	return err
}

func headerValue(raw []byte, name string) string {
	for _, line := range strings.Split(string(raw), "\n") {
		if len(line) > len(name) && strings.EqualFold(line[:len(name)], name) && line[len(name)] == ':' {
			return strings.TrimSpace(line[len(name)+1:])
		}
	}
	return ""
}
