package message

import (
	"testing"
	"time"
)

func TestParseHeader(t *testing.T) {
	raw := []byte("Subject: Quarterly report\r\n" +
		"From: Alice <alice@example.com>\r\n" +
		"To: Bob <bob@example.com>, carol@example.com\r\n" +
		"Cc: Dave <dave@example.com>\r\n" +
		"Date: Mon, 02 Jan 2006 15:04:05 -0700\r\n" +
		"Message-Id: <report-1@example.com>\r\n" +
		"In-Reply-To: <parent@example.com>\r\n" +
		"References: <root@example.com> <parent@example.com>\r\n" +
		"X-Priority: 1 (Highest)\r\n" +
		"\r\n")

	info, err := ParseHeader(raw)
	if err != nil {
		t.Fatalf("parse header: %v", err)
	}

	if info.Subject != "Quarterly report" {
		t.Fatalf("unexpected subject: %q", info.Subject)
	}
	if info.From != "Alice <alice@example.com>" {
		t.Fatalf("unexpected from: %q", info.From)
	}
	if info.To != "Bob <bob@example.com>, carol@example.com" {
		t.Fatalf("unexpected to: %q", info.To)
	}
	if info.Cc != "Dave <dave@example.com>" {
		t.Fatalf("unexpected cc: %q", info.Cc)
	}
	if info.MessageID != "report-1@example.com" {
		t.Fatalf("unexpected message id: %q", info.MessageID)
	}
	if info.InReplyTo != "parent@example.com" {
		t.Fatalf("unexpected in-reply-to: %q", info.InReplyTo)
	}
	if len(info.References) != 2 || info.References[0] != "root@example.com" {
		t.Fatalf("unexpected references: %v", info.References)
	}
	if info.Priority != 1 {
		t.Fatalf("unexpected priority: %d", info.Priority)
	}

	want := time.Date(2006, 1, 2, 15, 4, 5, 0, time.FixedZone("", -7*3600))
	if !info.Date.Equal(want) {
		t.Fatalf("unexpected date: %v", info.Date)
	}
}

func TestParseHeaderDefaults(t *testing.T) {
	info, err := ParseHeader([]byte("Subject: bare\r\n\r\n"))
	if err != nil {
		t.Fatalf("parse header: %v", err)
	}
	if info.Priority != PriorityNormal {
		t.Fatalf("expected normal priority, got %d", info.Priority)
	}
	if info.Seen() {
		t.Fatalf("flags should be empty without a server")
	}
}

func TestSeen(t *testing.T) {
	info := HeaderInfo{Flags: []string{FlagAnswered, FlagSeen}}
	if !info.Seen() {
		t.Fatalf("expected seen")
	}
}
