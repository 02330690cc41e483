package message

// PartKind classifies one node of a message's MIME structure tree.
type PartKind int

const (
	KindOther PartKind = iota
	KindText
	KindMultipart
	KindRFC822
	KindApplication
	KindImage
)

func (k PartKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindMultipart:
		return "multipart"
	case KindRFC822:
		return "message/rfc822"
	case KindApplication:
		return "application"
	case KindImage:
		return "image"
	default:
		return "other"
	}
}

// Param is one attribute/value pair from a part's Content-Type parameters.
// A slice rather than a map preserves server order and duplicates.
type Param struct {
	Attribute string
	Value     string
}

// PartNode is one node of a message's MIME structure tree as reported by
// the transport. Leaves have no children. The tree is read-only input to
// the body walk.
type PartNode struct {
	Kind        PartKind
	Subtype     string
	Disposition string
	Params      []Param
	ID          string
	Size        uint32
	Children    []PartNode
}
