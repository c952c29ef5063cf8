package compile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/proxy"
)

// DefaultEndpoint is the public Alogic playground compile function.
const DefaultEndpoint = "https://us-central1-ccx-eng-cam.cloudfunctions.net/alogic-playground"

const maxResponseBytes = 32 << 20

// HTTPTransport posts the request as JSON and decodes the JSON reply.
type HTTPTransport struct {
	Endpoint string
	Client   *http.Client
	Logger   *slog.Logger
}

type HTTPOption func(*httpSettings) error

type httpSettings struct {
	proxy  string
	client *http.Client
	logger *slog.Logger
}

// WithProxy routes requests through a socks5:// or http(s):// proxy.
func WithProxy(addr string) HTTPOption {
	return func(s *httpSettings) error {
		s.proxy = strings.TrimSpace(addr)
		return nil
	}
}

// WithHTTPClient replaces the client; WithProxy is ignored when set.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *httpSettings) error {
		s.client = c
		return nil
	}
}

func WithLogger(l *slog.Logger) HTTPOption {
	return func(s *httpSettings) error {
		s.logger = l
		return nil
	}
}

func NewHTTPTransport(endpoint string, opts ...HTTPOption) (*HTTPTransport, error) {
	var s httpSettings
	for _, opt := range opts {
		if err := opt(&s); err != nil {
			return nil, err
		}
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}

	client := s.client
	if client == nil {
		rt, err := proxyRoundTripper(s.proxy)
		if err != nil {
			return nil, err
		}
		// Deadlines come from the request context.
		client = &http.Client{Transport: rt}
	}
	logger := s.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &HTTPTransport{Endpoint: endpoint, Client: client, Logger: logger}, nil
}

func proxyRoundTripper(addr string) (http.RoundTripper, error) {
	base := http.DefaultTransport.(*http.Transport).Clone()
	if addr == "" {
		return base, nil
	}
	u, err := url.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy %q: %w", addr, err)
	}
	switch u.Scheme {
	case "http", "https":
		base.Proxy = http.ProxyURL(u)
		return base, nil
	case "socks":
		u.Scheme = "socks5"
	}
	d, err := proxy.FromURL(u, &net.Dialer{})
	if err != nil {
		return nil, fmt.Errorf("proxy %q: %w", addr, err)
	}
	cd, ok := d.(proxy.ContextDialer)
	if !ok {
		return nil, fmt.Errorf("proxy %q does not support contexts", addr)
	}
	base.Proxy = nil
	base.DialContext = cd.DialContext
	return base, nil
}

// Compile implements Transport.
func (t *HTTPTransport) Compile(ctx context.Context, req Request) (Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Response{}, fmt.Errorf("encode compile request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.Endpoint, bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("build compile request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json; charset=utf-8")
	httpReq.Header.Set("Accept", "application/json")
	id := RequestID(ctx)
	if id == "" {
		id = uuid.NewString()
	}
	httpReq.Header.Set("X-Request-Id", id)

	t.Logger.Debug("compile request", "id", id, "endpoint", t.Endpoint, "files", len(req.Files), "args", req.Args)
	res, err := t.Client.Do(httpReq)
	if err != nil {
		if cerr := contextError(ctx); cerr != nil {
			return Response{}, cerr
		}
		return Response{}, &TransportError{Kind: KindNetwork, Err: err}
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes+1))
	if err != nil {
		if cerr := contextError(ctx); cerr != nil {
			return Response{}, cerr
		}
		return Response{}, &TransportError{Kind: KindNetwork, Err: err}
	}
	t.Logger.Debug("compile response", "id", id, "status", res.StatusCode, "bytes", len(data))

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return Response{}, &TransportError{Kind: KindStatus, Status: res.StatusCode, Err: errors.New(snippet(data))}
	}
	if len(data) > maxResponseBytes {
		return Response{}, malformed(fmt.Errorf("%w: body exceeds %d bytes", ErrMalformedResponse, maxResponseBytes))
	}
	resp, err := DecodeResponse(data)
	if err != nil {
		return Response{}, malformed(err)
	}
	return resp, nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if s == "" {
		return "empty body"
	}
	if len(s) > 200 {
		s = s[:200] + "…"
	}
	return s
}

type requestIDKey struct{}

// WithRequestID attaches the id used for the X-Request-Id header and logs.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
