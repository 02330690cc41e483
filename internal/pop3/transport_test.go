package pop3

import (
	"errors"
	"net"
	"net/textproto"
	"testing"

	"mailkit/internal/mailbox"
	"mailkit/internal/message"

	"github.com/rs/zerolog"
)

type step struct {
	expect string
	reply  string
}

// pipeTransport wires a transport to a scripted in-memory server. Each step
// asserts the next client command and returns a canned reply, multiline
// replies included.
func pipeTransport(t *testing.T, script []step) *Transport {
	t.Helper()
	clientConn, serverConn := net.Pipe()
	t.Cleanup(func() {
		_ = clientConn.Close()
		_ = serverConn.Close()
	})

	go func() {
		server := textproto.NewConn(serverConn)
		for _, s := range script {
			line, err := server.ReadLine()
			if err != nil {
				return
			}
			if line != s.expect {
				t.Errorf("server expected %q, got %q", s.expect, line)
				return
			}
			if _, err := server.W.WriteString(s.reply); err != nil {
				return
			}
			if err := server.W.Flush(); err != nil {
				return
			}
		}
	}()

	return NewTransport(textproto.NewConn(clientConn), zerolog.Nop())
}

func TestListIndices(t *testing.T) {
	tr := pipeTransport(t, []step{
		{"LIST", "+OK 2 messages\r\n1 120\r\n2 333\r\n.\r\n"},
		{"LIST", "+OK 2 messages\r\n1 120\r\n2 333\r\n.\r\n"},
	})

	asc, err := tr.ListIndices(mailbox.SortArrival, false)
	if err != nil {
		t.Fatalf("list indices: %v", err)
	}
	if len(asc) != 2 || asc[0] != 1 || asc[1] != 2 {
		t.Fatalf("unexpected ascending indices: %v", asc)
	}

	desc, err := tr.ListIndices(mailbox.SortArrival, true)
	if err != nil {
		t.Fatalf("list indices desc: %v", err)
	}
	if len(desc) != 2 || desc[0] != 2 || desc[1] != 1 {
		t.Fatalf("unexpected descending indices: %v", desc)
	}
}

func TestFetchHeader(t *testing.T) {
	tr := pipeTransport(t, []step{
		{"TOP 1 0", "+OK\r\nSubject: Hello\r\nMessage-Id: <a@example.com>\r\n\r\n.\r\n"},
	})

	info, err := tr.FetchHeader(1)
	if err != nil {
		t.Fatalf("fetch header: %v", err)
	}
	if info.Subject != "Hello" || info.MessageID != "a@example.com" {
		t.Fatalf("unexpected header: %+v", info)
	}
}

func TestFetchStructureSubtype(t *testing.T) {
	tr := pipeTransport(t, []step{
		{"TOP 3 0", "+OK\r\nContent-Type: text/html; charset=utf-8\r\n\r\n.\r\n"},
	})

	root, err := tr.FetchStructure(3)
	if err != nil {
		t.Fatalf("fetch structure: %v", err)
	}
	if root.Kind != message.KindText || root.Subtype != "html" {
		t.Fatalf("unexpected structure: %+v", root)
	}
	if len(root.Children) != 0 {
		t.Fatalf("pop3 structure must be a single part")
	}
}

func TestFetchPartBytes(t *testing.T) {
	tr := pipeTransport(t, []step{
		{"RETR 2", "+OK\r\nSubject: Hi\r\n\r\nbody line one\r\nbody line two\r\n.\r\n"},
	})

	data, err := tr.FetchPartBytes(2, "1", true)
	if err != nil {
		t.Fatalf("fetch part: %v", err)
	}
	if string(data) != "body line one\nbody line two\n" {
		t.Fatalf("unexpected body: %q", data)
	}
}

func TestFetchUnknownPart(t *testing.T) {
	tr := pipeTransport(t, nil)

	_, err := tr.FetchPartBytes(2, "1.2", true)
	if !errors.Is(err, mailbox.ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound, got %v", err)
	}
}

func TestSelectMailbox(t *testing.T) {
	tr := pipeTransport(t, nil)

	if err := tr.SelectMailbox("INBOX"); err != nil {
		t.Fatalf("select inbox: %v", err)
	}
	if err := tr.SelectMailbox("Archive"); !errors.Is(err, mailbox.ErrUnknownMailbox) {
		t.Fatalf("expected ErrUnknownMailbox, got %v", err)
	}

	names, err := tr.ListMailboxes()
	if err != nil {
		t.Fatalf("list mailboxes: %v", err)
	}
	if len(names) != 1 || names[0] != "INBOX" {
		t.Fatalf("unexpected mailboxes: %v", names)
	}
}

func TestCopyNotSupported(t *testing.T) {
	tr := pipeTransport(t, nil)

	if err := tr.Copy(1, "Archive"); !errors.Is(err, ErrNotSupported) {
		t.Fatalf("expected ErrNotSupported, got %v", err)
	}
}

func TestDeleteAndReset(t *testing.T) {
	tr := pipeTransport(t, []step{
		{"DELE 2", "+OK\r\n"},
		{"RSET", "+OK\r\n"},
	})

	if err := tr.MarkDeleted(2); err != nil {
		t.Fatalf("mark deleted: %v", err)
	}
	if err := tr.UnmarkDeleted(2); err != nil {
		t.Fatalf("unmark deleted: %v", err)
	}
}

func TestExpungeEndsSession(t *testing.T) {
	tr := pipeTransport(t, []step{
		{"QUIT", "+OK bye\r\n"},
	})

	if err := tr.Expunge(); err != nil {
		t.Fatalf("expunge: %v", err)
	}
	if err := tr.SelectMailbox("INBOX"); !errors.Is(err, mailbox.ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected after expunge, got %v", err)
	}
}
