package message

import (
	"encoding/base64"
	"errors"
	"fmt"
	"testing"
)

// mapFetch serves parts from a fixed address -> payload table and records
// the addresses requested.
func mapFetch(parts map[string]string, requested *[]string) FetchFunc {
	return func(addr PartAddress) ([]byte, error) {
		if requested != nil {
			*requested = append(*requested, string(addr))
		}
		payload, ok := parts[string(addr)]
		if !ok {
			return nil, fmt.Errorf("no part at %q", addr)
		}
		return []byte(payload), nil
	}
}

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func TestWalkSinglePart(t *testing.T) {
	root := &PartNode{Kind: KindText, Subtype: "plain"}
	var requested []string

	body, err := WalkStructure(root, nil, mapFetch(map[string]string{"1": "hello"}, &requested))
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if body.Text != "hello" {
		t.Fatalf("unexpected text: %q", body.Text)
	}
	if len(requested) != 1 || requested[0] != "1" {
		t.Fatalf("expected single fetch of part 1, got %v", requested)
	}
}

func TestWalkMultipartAlternative(t *testing.T) {
	root := &PartNode{
		Kind: KindMultipart, Subtype: "alternative",
		Children: []PartNode{
			{Kind: KindText, Subtype: "plain"},
			{Kind: KindText, Subtype: "HTML"},
		},
	}

	body, err := WalkStructure(root, nil, mapFetch(map[string]string{
		"1": "plain body",
		"2": "<p>html body</p>",
	}, nil))
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if body.Text != "plain body" {
		t.Fatalf("unexpected text: %q", body.Text)
	}
	if body.HTML != "<p>html body</p>" {
		t.Fatalf("unexpected html: %q", body.HTML)
	}
}

func TestWalkNestedMultipartAddresses(t *testing.T) {
	root := &PartNode{
		Kind: KindMultipart, Subtype: "mixed",
		Children: []PartNode{
			{
				Kind: KindMultipart, Subtype: "alternative",
				Children: []PartNode{
					{Kind: KindText, Subtype: "plain"},
					{Kind: KindText, Subtype: "html"},
				},
			},
			{Kind: KindImage, Subtype: "png", Disposition: "attachment"},
		},
	}
	var requested []string

	body, err := WalkStructure(root, nil, mapFetch(map[string]string{
		"1.1": "text",
		"1.2": "<i>html</i>",
		"2":   b64("pngbytes"),
	}, &requested))
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	want := []string{"1.1", "1.2", "2"}
	if len(requested) != len(want) {
		t.Fatalf("unexpected fetches: %v", requested)
	}
	for i := range want {
		if requested[i] != want[i] {
			t.Fatalf("fetch %d: want %q, got %q", i, want[i], requested[i])
		}
	}
	if len(body.Attachments) != 1 || string(body.Attachments[0].Data) != "pngbytes" {
		t.Fatalf("unexpected attachments: %+v", body.Attachments)
	}
}

func TestWalkAttachmentClassification(t *testing.T) {
	root := &PartNode{
		Kind: KindMultipart, Subtype: "mixed",
		Children: []PartNode{
			{Kind: KindText, Subtype: "plain"},
			{Kind: KindImage, Subtype: "png", Disposition: "attachment"},
			{Kind: KindImage, Subtype: "gif", ID: "<logo@example.com>"},
			{Kind: KindApplication, Subtype: "pdf", Disposition: "ATTACHMENT"},
		},
	}

	body, err := WalkStructure(root, nil, mapFetch(map[string]string{
		"1": "text",
		"2": b64("png"),
		"3": b64("gif"),
		"4": b64("pdf"),
	}, nil))
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if len(body.Attachments) != 3 {
		t.Fatalf("expected 3 attachments, got %d", len(body.Attachments))
	}
	if body.Attachments[0].Inline {
		t.Fatalf("disposition attachment should not be inline")
	}
	if !body.Attachments[1].Inline {
		t.Fatalf("part without disposition should be inline")
	}
	// The match is exact: a case variant does not count as "attachment".
	if !body.Attachments[2].Inline {
		t.Fatalf("uppercase disposition should stay inline")
	}
	if body.Attachments[1].PlainContentID() != "logo@example.com" {
		t.Fatalf("unexpected content id: %q", body.Attachments[1].PlainContentID())
	}
}

func TestWalkAttachmentDecodeFault(t *testing.T) {
	root := &PartNode{
		Kind: KindMultipart, Subtype: "mixed",
		Children: []PartNode{
			{Kind: KindApplication, Subtype: "pdf", Disposition: "attachment"},
			{Kind: KindImage, Subtype: "png", Disposition: "attachment"},
		},
	}

	body, err := WalkStructure(root, nil, mapFetch(map[string]string{
		"1": "%%% not base64 %%%",
		"2": b64("png"),
	}, nil))
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if len(body.Faults) != 1 {
		t.Fatalf("expected 1 fault, got %d", len(body.Faults))
	}
	if !errors.Is(body.Faults[0], ErrAttachmentDecode) {
		t.Fatalf("expected ErrAttachmentDecode, got %v", body.Faults[0])
	}
	// The walk keeps going past the bad part.
	if len(body.Attachments) != 1 || string(body.Attachments[0].Data) != "png" {
		t.Fatalf("unexpected attachments: %+v", body.Attachments)
	}
}

func TestWalkEmbeddedMessageAddressing(t *testing.T) {
	// multipart/mixed: text, then message/rfc822 whose inner message is
	// multipart/alternative. Inner parts chain off the embedded message's
	// own address.
	root := &PartNode{
		Kind: KindMultipart, Subtype: "mixed",
		Children: []PartNode{
			{Kind: KindText, Subtype: "plain"},
			{
				Kind: KindRFC822, Subtype: "rfc822",
				Children: []PartNode{
					{Kind: KindText, Subtype: "plain"},
					{Kind: KindText, Subtype: "html"},
				},
			},
		},
	}
	var requested []string

	body, err := WalkStructure(root, nil, mapFetch(map[string]string{
		"1":   "outer",
		"2.1": " inner",
		"2.2": "<b>inner html</b>",
	}, &requested))
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	want := []string{"1", "2.1", "2.2"}
	if len(requested) != len(want) {
		t.Fatalf("unexpected fetches: %v", requested)
	}
	for i := range want {
		if requested[i] != want[i] {
			t.Fatalf("fetch %d: want %q, got %q", i, want[i], requested[i])
		}
	}
	if body.Text != "outer inner" {
		t.Fatalf("unexpected text: %q", body.Text)
	}
	if body.HTML != "<b>inner html</b>" {
		t.Fatalf("unexpected html: %q", body.HTML)
	}
}

func TestWalkOnlyFirstEmbeddedMessageExpands(t *testing.T) {
	root := &PartNode{
		Kind: KindMultipart, Subtype: "mixed",
		Children: []PartNode{
			{
				Kind: KindRFC822, Subtype: "rfc822",
				Children: []PartNode{
					{Kind: KindText, Subtype: "plain"},
				},
			},
			{Kind: KindText, Subtype: "plain"},
		},
	}
	var requested []string

	_, err := WalkStructure(root, nil, mapFetch(map[string]string{
		"1.1": "inner",
	}, &requested))
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	// The sibling after the embedded message is never fetched.
	if len(requested) != 1 || requested[0] != "1.1" {
		t.Fatalf("unexpected fetches: %v", requested)
	}
}

func TestWalkEmbeddedMessagesDoNotNest(t *testing.T) {
	root := &PartNode{
		Kind: KindMultipart, Subtype: "mixed",
		Children: []PartNode{
			{
				Kind: KindRFC822, Subtype: "rfc822",
				Children: []PartNode{
					{Kind: KindText, Subtype: "plain"},
					{
						Kind: KindRFC822, Subtype: "rfc822",
						Children: []PartNode{
							{Kind: KindText, Subtype: "plain"},
						},
					},
					{Kind: KindText, Subtype: "plain"},
				},
			},
		},
	}
	var requested []string

	body, err := WalkStructure(root, nil, mapFetch(map[string]string{
		"1.1": "first",
		"1.3": " third",
	}, &requested))
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	// The inner message/rfc822 is skipped but still consumes an address.
	want := []string{"1.1", "1.3"}
	if len(requested) != len(want) {
		t.Fatalf("unexpected fetches: %v", requested)
	}
	for i := range want {
		if requested[i] != want[i] {
			t.Fatalf("fetch %d: want %q, got %q", i, want[i], requested[i])
		}
	}
	if body.Text != "first third" {
		t.Fatalf("unexpected text: %q", body.Text)
	}
}
