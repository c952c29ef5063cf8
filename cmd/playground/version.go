package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version,omitempty"`
	Revision  string `json:"revision,omitempty"`
}

var versionFormat string

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the playground build version",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := collectVersion()
		switch strings.ToLower(versionFormat) {
		case "json":
			return renderVersionJSON(cmd.OutOrStdout(), p)
		case "pretty":
			renderVersionPretty(cmd.OutOrStdout(), p)
			return nil
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", versionFormat)
		}
	},
}

func collectVersion() versionPayload {
	p := versionPayload{Tool: "alogic-playground", Version: version}
	if bi, ok := debug.ReadBuildInfo(); ok {
		p.GoVersion = bi.GoVersion
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				p.Revision = s.Value
			}
		}
	}
	return p
}

func renderVersionJSON(w io.Writer, p versionPayload) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

func renderVersionPretty(w io.Writer, p versionPayload) {
	fmt.Fprintf(w, "%s %s\n", p.Tool, p.Version)
	if p.Revision != "" {
		fmt.Fprintf(w, "  revision: %s\n", p.Revision)
	}
	if p.GoVersion != "" {
		fmt.Fprintf(w, "  go:       %s\n", p.GoVersion)
	}
}
