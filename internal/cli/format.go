package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"mailkit/internal/message"
)

func printMessages(out io.Writer, emails []*message.Envelope) {
	tw := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tDATE\tFROM\tSUBJECT")
	for _, email := range emails {
		date := ""
		if !email.Header.Date.IsZero() {
			date = email.Header.Date.Format(time.RFC3339)
		}
		subject := email.Header.Subject
		if !email.Header.Seen() {
			subject = "* " + subject
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", email.Index(), date, email.Header.From, subject)
	}
	_ = tw.Flush()
}
