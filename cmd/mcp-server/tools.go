package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	. "github.com/Protocol-Lattice/alogic-playground/src"
	"github.com/Protocol-Lattice/alogic-playground/src/compile"
)

const (
	toolCompile        = "compile"
	toolClassifyOutput = "classify_output"
)

type tools struct {
	transport compile.Transport
	args      string
	timeout   time.Duration
	logger    *slog.Logger
}

type toolOutput struct {
	Name    string `json:"name"`
	Profile string `json:"profile"`
	Text    string `json:"text"`
}

type compileResult struct {
	Console string       `json:"console"`
	Outputs []toolOutput `json:"outputs"`
}

func (t *tools) register(s *server.MCPServer) {
	s.AddTool(mcp.Tool{
		Name:        toolCompile,
		Description: "Compile Alogic sources with the playground compile service and return the console text and output files",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"files_json": map[string]interface{}{
					"type":        "string",
					"description": `JSON object mapping input file names to their source, e.g. {"top.alogic": "fsm top {...}"}`,
				},
				"args": map[string]interface{}{
					"type":        "string",
					"description": "Compiler argument line (defaults to the configured playground args)",
				},
			},
			Required: []string{"files_json"},
		},
	}, t.handleCompile)

	s.AddTool(mcp.NewTool(toolClassifyOutput,
		mcp.WithDescription("Report how the playground would display an output file: verilog, json or plain"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Output file name, e.g. out/top.v")),
	), t.handleClassifyOutput)
}

func (t *tools) handleCompile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filesJSON := request.GetString("files_json", "")
	argLine := request.GetString("args", t.args)

	var files map[string]string
	if err := json.Unmarshal([]byte(filesJSON), &files); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("files_json must be a JSON object of name to source: %v", err)), nil
	}
	inputs := make([]compile.Input, 0, len(files))
	for _, name := range compile.SortOutputNames(keys(files)) {
		inputs = append(inputs, compile.Input{Title: name, Text: files[name]})
	}

	res, err := RunHeadless(ctx, HeadlessOptions{
		Transport: t.transport,
		Args:      argLine,
		Inputs:    inputs,
		Logger:    t.logger,
		Timeout:   t.timeout,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Compile failed: %v", err)), nil
	}

	out := compileResult{Console: res.Console, Outputs: []toolOutput{}}
	for _, o := range res.Outputs {
		out.Outputs = append(out.Outputs, toolOutput{Name: o.Name, Profile: string(o.Profile), Text: o.Text})
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(b)), nil
}

func (t *tools) handleClassifyOutput(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}
	return mcp.NewToolResultText(string(compile.Classify(name))), nil
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
