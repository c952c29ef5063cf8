package src

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"strings"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

const (
	// diffContext is the number of unchanged lines kept around each hunk.
	diffContext = 3
	// maxDiffLines bounds the changed region handed to the edit search,
	// whose memory grows with its square.
	maxDiffLines = 2000
)

// diffLines splits text after each newline, keeping the newlines.
func diffLines(text string) []string {
	if text == "" {
		return nil
	}
	out := strings.SplitAfter(text, "\n")
	if out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

// changedWindow trims the lines both sides share at the start and end and
// returns where the remaining region starts, widened by diffContext.
func changedWindow(oldLines, newLines []string) (start, oldEnd, newEnd int) {
	prefix := 0
	for prefix < len(oldLines) && prefix < len(newLines) && oldLines[prefix] == newLines[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(oldLines)-prefix && suffix < len(newLines)-prefix &&
		oldLines[len(oldLines)-1-suffix] == newLines[len(newLines)-1-suffix] {
		suffix++
	}
	start = max(0, prefix-diffContext)
	tail := max(0, suffix-diffContext)
	return start, len(oldLines) - tail, len(newLines) - tail
}

// UnifiedDiff renders a git-style diff of one output file. It returns ""
// when the contents are equal, and ok is false when the changed region is
// too large to diff.
func UnifiedDiff(name string, oldB, newB []byte) (diff string, ok bool) {
	if bytes.Equal(oldB, newB) {
		return "", true
	}
	oldLines, newLines := diffLines(string(oldB)), diffLines(string(newB))
	start, oldEnd, newEnd := changedWindow(oldLines, newLines)
	if (oldEnd-start)+(newEnd-start) > maxDiffLines {
		return "", false
	}

	before := strings.Join(oldLines[start:oldEnd], "")
	after := strings.Join(newLines[start:newEnd], "")
	edits := myers.ComputeEdits(span.URIFromPath(name), before, after)
	u := gotextdiff.ToUnified("a/"+name, "b/"+name, before, edits)
	// Hunks were numbered within the window.
	for _, h := range u.Hunks {
		h.FromLine += start
		h.ToLine += start
	}

	var out strings.Builder
	fmt.Fprintf(&out, "diff --git a/%s b/%s\n", name, name)
	fmt.Fprintf(&out, "index %s..%s 100644\n", shortSHA(oldB), shortSHA(newB))
	fmt.Fprint(&out, u)
	return out.String(), true
}

// shortSHA is a 6 hex digit content label like git's abbreviated index.
func shortSHA(b []byte) string {
	h := sha1.Sum(b)
	return fmt.Sprintf("%x", h[:3])
}
