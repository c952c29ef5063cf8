package compile

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Profile selects how an output document is highlighted and labelled.
type Profile string

const (
	ProfileVerilog Profile = "verilog"
	ProfileJSON    Profile = "json"
	ProfilePlain   Profile = "plain"
)

// Output is one result file in display order.
type Output struct {
	Name    string
	Text    string
	Profile Profile
}

func IsVerilog(name string) bool {
	return strings.HasSuffix(name, ".v") || strings.HasSuffix(name, ".sv")
}

// Classify maps an output file name to its display profile.
func Classify(name string) Profile {
	switch {
	case IsVerilog(name):
		return ProfileVerilog
	case strings.HasSuffix(name, ".json"):
		return ProfileJSON
	default:
		return ProfilePlain
	}
}

// CompareOutputNames orders Verilog files before everything else, then by
// locale collation. Names the collator considers equal fall back to a byte
// comparison so distinct names never tie.
func CompareOutputNames(a, b string) int {
	return compareWith(collate.New(language.Und), a, b)
}

func compareWith(c *collate.Collator, a, b string) int {
	av, bv := IsVerilog(a), IsVerilog(b)
	switch {
	case av && !bv:
		return -1
	case !av && bv:
		return 1
	}
	if r := c.CompareString(a, b); r != 0 {
		return r
	}
	return strings.Compare(a, b)
}

// SortOutputNames returns a sorted copy of names.
func SortOutputNames(names []string) []string {
	out := append([]string(nil), names...)
	// Collator keeps internal buffers, one per sort.
	c := collate.New(language.Und)
	sort.SliceStable(out, func(i, j int) bool {
		return compareWith(c, out[i], out[j]) < 0
	})
	return out
}

// OrderedOutputs classifies every file of a response and puts them in
// display order.
func OrderedOutputs(files map[string]string) []Output {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	outs := make([]Output, 0, len(names))
	for _, name := range SortOutputNames(names) {
		outs = append(outs, Output{Name: name, Text: files[name], Profile: Classify(name)})
	}
	return outs
}
