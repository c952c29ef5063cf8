package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	. "github.com/Protocol-Lattice/alogic-playground/src"
	"github.com/Protocol-Lattice/alogic-playground/src/compile"
)

func TestClosest(t *testing.T) {
	names := []string{"out/top.v", "out/top.json", "out/fsm.v"}
	require.Equal(t, "out/top.v", closest("out/tpo.v", names))
	require.Equal(t, "", closest("something/else.txt", names))
	require.Equal(t, "", closest("x", nil))
}

func TestPrintOneSuggests(t *testing.T) {
	res := &HeadlessResult{Outputs: []compile.Output{
		{Name: "out/top.v", Profile: compile.ProfileVerilog, Text: "module top;\n"},
	}}

	var buf bytes.Buffer
	require.NoError(t, printOne(&buf, res, "out/top.v"))
	require.Equal(t, "module top;\n", buf.String())

	err := printOne(&buf, res, "out/top.vv")
	require.ErrorContains(t, err, `did you mean "out/top.v"`)
}

func TestReadInputsRejectsCollidingBasenames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "b"), 0o755))
	a := filepath.Join(dir, "a", "top.alogic")
	b := filepath.Join(dir, "b", "top.alogic")
	require.NoError(t, os.WriteFile(a, []byte("fsm a {}"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("fsm b {}"), 0o644))

	inputs, err := readInputs([]string{a})
	require.NoError(t, err)
	require.Equal(t, []compile.Input{{Title: "top.alogic", Text: "fsm a {}"}}, inputs)

	_, err = readInputs([]string{a, b})
	require.Error(t, err)
}

func TestPrintPrettyAndJSON(t *testing.T) {
	color.NoColor = true
	res := &HeadlessResult{
		Console: "top.alogic:3: error: oops",
		Outputs: []compile.Output{{Name: "out/top.v", Profile: compile.ProfileVerilog}},
		Actions: []FileAction{{Path: "out/top.v", Action: ActionCreated, Diff: "+++ b/out/top.v\n+module top;\n"}},
	}

	var buf bytes.Buffer
	printPretty(&buf, res)
	require.Contains(t, buf.String(), "top.alogic:3: error: oops")
	require.Contains(t, buf.String(), "created   out/top.v")
	require.Contains(t, buf.String(), "+module top;")

	buf.Reset()
	require.NoError(t, printJSON(&buf, res))
	require.Contains(t, buf.String(), `"profile": "verilog"`)
	require.Contains(t, buf.String(), `"action": "created"`)
}

func TestSetColor(t *testing.T) {
	require.NoError(t, setColor("on", os.Stdout))
	require.False(t, color.NoColor)
	require.NoError(t, setColor("off", os.Stdout))
	require.True(t, color.NoColor)
	require.Error(t, setColor("sometimes", os.Stdout))
}
