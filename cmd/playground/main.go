package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	. "github.com/Protocol-Lattice/alogic-playground/src"
	"github.com/Protocol-Lattice/alogic-playground/src/config"
	"github.com/Protocol-Lattice/alogic-playground/src/logs"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "alogic-playground",
	Short: "Edit and compile Alogic sources against the playground compile service",
	Long: `alogic-playground is a terminal front end for the Alogic compile service.
Without a subcommand it opens the interactive playground.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive playground (the default)",
	RunE:  runTUI,
}

var (
	flagTransport string
	flagEndpoint  string
	flagProxy     string
	flagTimeout   time.Duration
	flagLogLevel  string
)

func main() {
	rootCmd.Version = version

	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().StringVar(&flagTransport, "transport", "", "compile transport (http|utcp)")
	rootCmd.PersistentFlags().StringVar(&flagEndpoint, "endpoint", "", "compile service URL")
	rootCmd.PersistentFlags().StringVar(&flagProxy, "proxy", "", "proxy URL for the compile service (socks5:// or http://)")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "per-compile timeout (negative disables)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug|info|warn|error)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file and environment, then applies flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if flagTransport != "" {
		cfg.Service.Transport = flagTransport
	}
	if flagEndpoint != "" {
		cfg.Service.Endpoint = flagEndpoint
	}
	if flagProxy != "" {
		cfg.Service.Proxy = flagProxy
	}
	if flagTimeout != 0 {
		cfg.Service.Timeout = flagTimeout
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	return cfg, cfg.Validate()
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !isTerminal(os.Stdout) {
		return fmt.Errorf("the playground needs a terminal; use %q for scripted compiles", "alogic-playground compile")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The TUI owns the screen, so logs go to a file.
	logger, closer, err := logs.New(logs.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx := context.Background()
	transport, err := BuildTransport(ctx, cfg, logger)
	if err != nil {
		return err
	}

	startDir, _ := os.Getwd()
	m, err := NewModel(ctx, Options{
		Transport: transport,
		Args:      cfg.Playground.Args,
		SeedTitle: cfg.Playground.SeedTitle,
		Timeout:   cfg.Service.Timeout,
		Logger:    logger,
		Version:   version,
		StartDir:  startDir,
	})
	if err != nil {
		return err
	}
	logger.Info("playground started", "transport", cfg.Service.Transport, "endpoint", cfg.Service.Endpoint)

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// stderrLogger is used by the non-interactive commands.
func stderrLogger(level string, w io.Writer) (*slog.Logger, io.Closer, error) {
	return logs.New(logs.Options{Level: level, Writer: w})
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
