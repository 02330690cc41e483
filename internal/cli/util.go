package cli

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

func parseIndex(value string) (int, error) {
	index, err := strconv.Atoi(value)
	if err != nil || index < 1 {
		return 0, fmt.Errorf("invalid message index: %s", value)
	}
	return index, nil
}

// attachmentFileName makes a server-supplied attachment name safe to write
// into the output directory, falling back to a positional name when the
// part carried none.
func attachmentFileName(name string, position int) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == ".." || name == string(filepath.Separator) {
		return fmt.Sprintf("attachment-%d", position+1)
	}
	return name
}
