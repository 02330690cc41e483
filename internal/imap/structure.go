package imap

import (
	"sort"
	"strings"

	"mailkit/internal/message"

	"github.com/emersion/go-imap"
)

// convertStructure maps a go-imap body structure onto the part tree the
// body walk consumes.
func convertStructure(bs *imap.BodyStructure) *message.PartNode {
	node := convertNode(bs)
	return &node
}

func convertNode(bs *imap.BodyStructure) message.PartNode {
	node := message.PartNode{
		Subtype:     bs.MIMESubType,
		Disposition: bs.Disposition,
		ID:          bs.Id,
		Size:        bs.Size,
		Params:      convertParams(bs.Params),
	}

	switch strings.ToLower(bs.MIMEType) {
	case "text":
		node.Kind = message.KindText
	case "multipart":
		node.Kind = message.KindMultipart
		for _, part := range bs.Parts {
			node.Children = append(node.Children, convertNode(part))
		}
	case "message":
		if !strings.EqualFold(bs.MIMESubType, "rfc822") {
			node.Kind = message.KindOther
			break
		}
		node.Kind = message.KindRFC822
		// The embedded message's own structure becomes the node's children;
		// a multipart inner structure is flattened one level so the walk
		// sees the embedded parts directly.
		if inner := bs.BodyStructure; inner != nil {
			if strings.EqualFold(inner.MIMEType, "multipart") {
				for _, part := range inner.Parts {
					node.Children = append(node.Children, convertNode(part))
				}
			} else {
				node.Children = append(node.Children, convertNode(inner))
			}
		}
	case "application":
		node.Kind = message.KindApplication
	case "image":
		node.Kind = message.KindImage
	default:
		node.Kind = message.KindOther
	}
	return node
}

func convertParams(params map[string]string) []message.Param {
	if len(params) == 0 {
		return nil
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]message.Param, 0, len(keys))
	for _, k := range keys {
		out = append(out, message.Param{Attribute: k, Value: params[k]})
	}
	return out
}
