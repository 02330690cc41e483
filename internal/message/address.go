package message

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrMalformedAddress = errors.New("malformed part address")

// PartAddress identifies a body part's position within a message's MIME
// structure tree as a dotted sequence of 1-based integers, e.g. "1.3.2".
// The empty address is the root. Addresses are immutable; Child and Next
// derive new values.
type PartAddress string

func (a PartAddress) String() string { return string(a) }

// Child returns the address of the child part at 0-based position i.
func (a PartAddress) Child(i int) PartAddress {
	if a == "" {
		return PartAddress(strconv.Itoa(i + 1))
	}
	return a + PartAddress("."+strconv.Itoa(i+1))
}

// Next returns the address following a while walking the parts of an
// embedded message. Only the last dot-delimited component is incremented;
// an address with no dot gains an implicit trailing zero first, so
// Next("5") is "5.1".
func (a PartAddress) Next() (PartAddress, error) {
	s := string(a)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	dot := strings.LastIndex(s, ".")
	last, err := strconv.Atoi(s[dot+1:])
	if err != nil || last < 0 {
		return "", fmt.Errorf("%w: %q", ErrMalformedAddress, a)
	}
	return PartAddress(s[:dot+1] + strconv.Itoa(last+1)), nil
}

// Path converts the address to the 1-based integer path used in IMAP body
// section names. The root address yields an empty path.
func (a PartAddress) Path() ([]int, error) {
	if a == "" {
		return nil, nil
	}
	segments := strings.Split(string(a), ".")
	path := make([]int, len(segments))
	for i, seg := range segments {
		n, err := strconv.Atoi(seg)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: %q", ErrMalformedAddress, a)
		}
		path[i] = n
	}
	return path, nil
}
