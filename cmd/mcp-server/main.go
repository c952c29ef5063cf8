package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/server"

	. "github.com/Protocol-Lattice/alogic-playground/src"
	"github.com/Protocol-Lattice/alogic-playground/src/config"
	"github.com/Protocol-Lattice/alogic-playground/src/logs"
)

func main() {
	cfg, err := config.Load()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// stdout carries the protocol; logs go to stderr.
	logger, closer, err := logs.New(logs.Options{Level: cfg.Log.Level, Writer: os.Stderr})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	transport, err := BuildTransport(context.Background(), cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "transport: %v\n", err)
		os.Exit(1)
	}

	s := server.NewMCPServer("Alogic Playground MCP Server", "1.0.0", server.WithToolCapabilities(true))
	t := &tools{
		transport: transport,
		args:      cfg.Playground.Args,
		timeout:   cfg.Service.Timeout,
		logger:    logger,
	}
	t.register(s)

	if err := server.ServeStdio(s); err != nil {
		if strings.Contains(err.Error(), "broken pipe") {
			logger.Info("client disconnected")
			return
		}
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
