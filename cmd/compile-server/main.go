// compile-server exposes a local Alogic compiler over the playground wire
// protocol, so the playground can be pointed at it with service.endpoint.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Protocol-Lattice/alogic-playground/src/config"
	"github.com/Protocol-Lattice/alogic-playground/src/logs"
	"github.com/Protocol-Lattice/alogic-playground/src/service"
)

var (
	flagAddr     string
	flagCompiler string
)

var rootCmd = &cobra.Command{
	Use:          "compile-server",
	Short:        "Serve a local Alogic compiler over the playground wire protocol",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(flagAddr, flagCompiler)
	},
}

func main() {
	rootCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (overrides server.addr)")
	rootCmd.Flags().StringVar(&flagCompiler, "compiler", "", "compiler binary (overrides server.compiler)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(addr, compiler string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if compiler != "" {
		cfg.Server.Compiler = compiler
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closer, err := logs.New(logs.Options{Level: cfg.Log.Level, Writer: os.Stderr, Journal: true})
	if err != nil {
		return err
	}
	defer closer.Close()

	runner := service.ExecRunner{Command: cfg.Server.Compiler, Timeout: cfg.Server.Timeout}
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           service.NewHandler(runner, service.WithLogger(logger)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Info("compile server listening", "addr", srv.Addr, "compiler", runner.Command)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout+5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
