package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	. "github.com/Protocol-Lattice/alogic-playground/src"
	"github.com/Protocol-Lattice/alogic-playground/src/compile"
)

var (
	compileArgs  string
	compileOut   string
	compilePrint string
	compileJSON  bool
	compileColor string
)

func init() {
	compileCmd.Flags().StringVar(&compileArgs, "args", "", "compiler argument line (default from config)")
	compileCmd.Flags().StringVarP(&compileOut, "out", "o", "", "write output files into this directory")
	compileCmd.Flags().StringVar(&compilePrint, "print", "", "print only the named output file")
	compileCmd.Flags().BoolVar(&compileJSON, "json", false, "print the result as JSON")
	compileCmd.Flags().StringVar(&compileColor, "color", "auto", "colorize output (auto|on|off)")
}

var compileCmd = &cobra.Command{
	Use:   "compile [files...]",
	Short: "Compile Alogic files without the interactive playground",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCompile,
}

type jsonOutput struct {
	Name    string `json:"name"`
	Profile string `json:"profile"`
	Text    string `json:"text"`
}

type jsonAction struct {
	Path   string `json:"path"`
	Action string `json:"action"`
}

type jsonResult struct {
	Console string       `json:"console"`
	Outputs []jsonOutput `json:"outputs"`
	Actions []jsonAction `json:"actions,omitempty"`
}

func runCompile(cmd *cobra.Command, paths []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := setColor(compileColor, os.Stdout); err != nil {
		return err
	}
	logger, closer, err := stderrLogger(cfg.Log.Level, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closer.Close()

	inputs, err := readInputs(paths)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	transport, err := BuildTransport(ctx, cfg, logger)
	if err != nil {
		return err
	}
	argLine := cfg.Playground.Args
	if cmd.Flags().Changed("args") {
		argLine = compileArgs
	}

	res, err := RunHeadless(ctx, HeadlessOptions{
		Transport: transport,
		Args:      argLine,
		Inputs:    inputs,
		OutDir:    compileOut,
		Logger:    logger,
		Timeout:   cfg.Service.Timeout,
		LockWait: func(wait time.Duration, holder LockOwner) {
			logger.Warn("waiting for output directory lock", "dir", compileOut, "waited", wait, "holder", holder.String())
		},
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case compilePrint != "":
		return printOne(out, res, compilePrint)
	case compileJSON:
		return printJSON(out, res)
	default:
		printPretty(out, res)
		return nil
	}
}

func readInputs(paths []string) ([]compile.Input, error) {
	seen := map[string]string{}
	inputs := make([]compile.Input, 0, len(paths))
	for _, p := range paths {
		title := filepath.Base(p)
		if prev, ok := seen[title]; ok {
			return nil, fmt.Errorf("%s and %s would both be sent as %q", prev, p, title)
		}
		seen[title] = p
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, compile.Input{Title: title, Text: string(data)})
	}
	return inputs, nil
}

func printOne(w io.Writer, res *HeadlessResult, name string) error {
	if o, ok := res.Output(name); ok {
		_, err := io.WriteString(w, o.Text)
		return err
	}
	names := make([]string, len(res.Outputs))
	for i, o := range res.Outputs {
		names[i] = o.Name
	}
	if best := closest(name, names); best != "" {
		return fmt.Errorf("no output named %q (did you mean %q?)", name, best)
	}
	return fmt.Errorf("no output named %q", name)
}

// closest returns the candidate within a third of name's length in edit
// distance, if any.
func closest(name string, candidates []string) string {
	best, bestDist := "", len(name)/3+1
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func printJSON(w io.Writer, res *HeadlessResult) error {
	jr := jsonResult{Console: res.Console, Outputs: []jsonOutput{}}
	for _, o := range res.Outputs {
		jr.Outputs = append(jr.Outputs, jsonOutput{Name: o.Name, Profile: string(o.Profile), Text: o.Text})
	}
	for _, a := range res.Actions {
		jr.Actions = append(jr.Actions, jsonAction{Path: a.Path, Action: a.Action})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jr)
}

var (
	errorText   = color.New(color.FgRed, color.Bold).SprintFunc()
	warnText    = color.New(color.FgYellow).SprintFunc()
	headingText = color.New(color.FgMagenta, color.Bold).SprintFunc()
	addedText   = color.New(color.FgGreen).SprintFunc()
	faintText   = color.New(color.Faint).SprintFunc()
	hunkText    = color.New(color.FgCyan).SprintFunc()
)

func printPretty(w io.Writer, res *HeadlessResult) {
	for _, line := range strings.Split(res.Console, "\n") {
		lower := strings.ToLower(line)
		switch {
		case strings.Contains(lower, "error"):
			fmt.Fprintln(w, errorText(line))
		case strings.Contains(lower, "warning"):
			fmt.Fprintln(w, warnText(line))
		default:
			fmt.Fprintln(w, line)
		}
	}

	if len(res.Actions) == 0 {
		for _, o := range res.Outputs {
			fmt.Fprintf(w, "%s %s\n", headingText(o.Name), faintText("("+string(o.Profile)+")"))
		}
		return
	}
	for _, a := range res.Actions {
		status := a.Action
		switch a.Action {
		case ActionCreated:
			status = addedText(status)
		case ActionUpdated:
			status = warnText(status)
		default:
			status = faintText(status)
		}
		fmt.Fprintf(w, "%-9s %s\n", status, a.Path)
		if a.DiffOmitted {
			fmt.Fprintln(w, faintText("  (diff omitted: change too large)"))
		}
		for _, line := range strings.Split(strings.TrimRight(a.Diff, "\n"), "\n") {
			switch {
			case line == "":
			case strings.HasPrefix(line, "@@"):
				fmt.Fprintln(w, hunkText(line))
			case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
				fmt.Fprintln(w, faintText(line))
			case strings.HasPrefix(line, "+"):
				fmt.Fprintln(w, addedText(line))
			case strings.HasPrefix(line, "-"):
				fmt.Fprintln(w, errorText(line))
			default:
				fmt.Fprintln(w, faintText(line))
			}
		}
	}
}

func setColor(mode string, f *os.File) error {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		color.NoColor = !isTerminal(f)
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return errors.New("invalid --color value (expected auto|on|off)")
	}
	return nil
}
