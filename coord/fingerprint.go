package coord

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/pagelens/pagelens"
)

// Fingerprint computes a stable hash over the structural content of a
// snapshot, excluding SelectedText and timing fields. Two extractions of
// an unchanged page produce the same fingerprint.
func Fingerprint(snap *pagelens.Snapshot) string {
	var sb strings.Builder
	sb.WriteString(snap.Title)
	sb.WriteByte('\x00')
	sb.WriteString(snap.URL)
	sb.WriteByte('\x00')
	sb.WriteString(snap.MetaDescription)
	sb.WriteByte('\x00')
	for _, h := range snap.Headings {
		fmt.Fprintf(&sb, "h%d:%s\x00", h.Level, h.Text)
	}
	for _, a := range snap.Actions {
		fmt.Fprintf(&sb, "a:%s:%s:%s\x00", a.Kind, a.Text, a.Href)
	}
	for _, f := range snap.Forms {
		fmt.Fprintf(&sb, "f:%s:%s:%d\x00", f.Method, f.ActionURL, len(f.Inputs))
	}

	return fmt.Sprintf("%016x", xxhash.Sum64String(sb.String()))
}
