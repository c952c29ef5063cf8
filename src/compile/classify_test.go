package compile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyProfiles(t *testing.T) {
	cases := map[string]Profile{
		"top.sv":      ProfileVerilog,
		"top.v":       ProfileVerilog,
		"report.json": ProfileJSON,
		"notes.txt":   ProfilePlain,
		"top.vh":      ProfilePlain,
		"json":        ProfilePlain,
		"a.json.v":    ProfileVerilog,
	}
	for name, want := range cases {
		require.Equal(t, want, Classify(name), name)
	}
}

func TestSortOutputNamesVerilogFirst(t *testing.T) {
	got := SortOutputNames([]string{"b.sv", "a.v", "c.txt"})
	require.Equal(t, []string{"a.v", "b.sv", "c.txt"}, got)
}

func TestSortOutputNamesDoesNotMutateInput(t *testing.T) {
	in := []string{"z.txt", "a.v"}
	_ = SortOutputNames(in)
	require.Equal(t, []string{"z.txt", "a.v"}, in)
}

func TestVerilogAlwaysBeforeOthers(t *testing.T) {
	verilog := []string{"z.v", "zz.sv", "~.v", "Z.sv"}
	others := []string{"a.json", "A.txt", "0", "a.v.txt"}
	for _, a := range verilog {
		for _, b := range others {
			require.Negative(t, CompareOutputNames(a, b), "%s vs %s", a, b)
			require.Positive(t, CompareOutputNames(b, a), "%s vs %s", b, a)
		}
	}
}

func TestCompareOutputNamesIsStrictForDistinctNames(t *testing.T) {
	names := []string{"a.v", "A.v", "b.json", "B.json", "out.json", "top.v", "top.sv", "x"}
	for _, a := range names {
		require.Zero(t, CompareOutputNames(a, a))
		for _, b := range names {
			if a == b {
				continue
			}
			ab, ba := CompareOutputNames(a, b), CompareOutputNames(b, a)
			require.NotZero(t, ab, "%s vs %s", a, b)
			require.Equal(t, -sign(ab), sign(ba), "%s vs %s", a, b)
		}
	}
}

func TestOrderedOutputs(t *testing.T) {
	outs := OrderedOutputs(map[string]string{
		"out.json": "{}",
		"top.v":    "module top; endmodule",
	})
	require.Equal(t, []Output{
		{Name: "top.v", Text: "module top; endmodule", Profile: ProfileVerilog},
		{Name: "out.json", Text: "{}", Profile: ProfileJSON},
	}, outs)
	require.Empty(t, OrderedOutputs(nil))
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
