// Package rpc performs unary calls against a service method.
//
// Two transports are supported and chosen by the address scheme:
// http(s) posts the JSON body to {address}/{service}/{method} the way Connect
// and Twirp servers expect, ws(s) sends a JSON-RPC 2.0 request over a
// WebSocket connection.
package rpc

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ErrUnsupportedScheme is returned for addresses that are neither http(s) nor ws(s)
var ErrUnsupportedScheme = errors.New("unsupported address scheme")

// DefaultTimeout bounds a call when Options.Timeout is zero
const DefaultTimeout = 30 * time.Second

// Request is one unary call
type Request struct {
	Address string
	Service string
	Method  string
	Body    string
	Headers map[string]string
}

// Procedure returns "Service/Method"
func (r Request) Procedure() string {
	return r.Service + "/" + r.Method
}

// Response is the raw result of a successful call
type Response struct {
	Body     string
	Status   string
	Headers  map[string]string
	Duration time.Duration
}

// StatusError is an error reported by the server
type StatusError struct {
	Code    string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Client performs calls
type Client interface {
	Call(ctx context.Context, req Request) (*Response, error)
}

// Options configure the transports
type Options struct {
	Timeout time.Duration
	// CACert is a PEM bundle used to verify the server
	CACert   string
	Insecure bool
}

// Transport is a Client that routes each call by address scheme
type Transport struct {
	http *HTTPClient
	ws   *WSClient
}

// NewTransport builds both transports
func NewTransport(opts Options) (*Transport, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	tlsConfig, err := buildTLSConfig(opts)
	if err != nil {
		return nil, err
	}

	return &Transport{
		http: NewHTTPClient(opts.Timeout, tlsConfig),
		ws:   NewWSClient(opts.Timeout, tlsConfig),
	}, nil
}

// Call sends req over the transport matching its address
func (t *Transport) Call(ctx context.Context, req Request) (*Response, error) {
	address, scheme, err := NormalizeAddress(req.Address)
	if err != nil {
		return nil, err
	}
	req.Address = address

	switch scheme {
	case "http", "https":
		return t.http.Call(ctx, req)
	case "ws", "wss":
		return t.ws.Call(ctx, req)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, scheme)
	}
}

// NormalizeAddress trims the address and defaults a missing scheme to http
func NormalizeAddress(address string) (string, string, error) {
	address = strings.TrimRight(strings.TrimSpace(address), "/")
	if address == "" {
		return "", "", errors.New("address is empty")
	}
	if !strings.Contains(address, "://") {
		address = "http://" + address
	}

	u, err := url.Parse(address)
	if err != nil {
		return "", "", fmt.Errorf("invalid address %q: %w", address, err)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("invalid address %q: missing host", address)
	}
	return address, strings.ToLower(u.Scheme), nil
}

// IsWebSocket reports whether address uses the JSON-RPC over WebSocket transport
func IsWebSocket(address string) bool {
	_, scheme, err := NormalizeAddress(address)
	return err == nil && (scheme == "ws" || scheme == "wss")
}

// FormatDuration formats a duration for the response status line
func FormatDuration(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	return fmt.Sprintf("%.2fs", float64(ms)/1000.0)
}
