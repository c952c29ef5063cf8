package src

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Protocol-Lattice/alogic-playground/src/compile"
	"github.com/Protocol-Lattice/alogic-playground/src/config"
)

// BuildTransport initializes the compile transport selected by
// service.transport: the HTTP endpoint, or a UTCP tool resolved from the
// providers file.
func BuildTransport(ctx context.Context, cfg config.Config, logger *slog.Logger) (compile.Transport, error) {
	switch cfg.Service.Transport {
	case config.TransportUTCP:
		client, err := compile.NewUTCPClient(ctx, cfg.UTCP.Providers)
		if err != nil {
			return nil, err
		}
		return &compile.UTCPTransport{Client: client, Tool: cfg.UTCP.Tool}, nil
	case config.TransportHTTP, "":
		return compile.NewHTTPTransport(cfg.Service.Endpoint,
			compile.WithProxy(cfg.Service.Proxy),
			compile.WithLogger(logger),
		)
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Service.Transport)
	}
}
