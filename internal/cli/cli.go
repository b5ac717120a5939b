// Package cli performs a single call outside the TUI.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/studiowebux/rpccli/internal/catalog"
	"github.com/studiowebux/rpccli/internal/config"
	"github.com/studiowebux/rpccli/internal/editor"
	"github.com/studiowebux/rpccli/internal/filter"
	"github.com/studiowebux/rpccli/internal/rpc"
)

// isInteractive checks if stdin is a terminal (not piped)
func isInteractive() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// CallOptions contains options for a non-interactive call
type CallOptions struct {
	Config *config.Config
	// Method is "Service/Method". Empty opens a picker on a terminal.
	Method string
	// Body is the request JSON, "@path" to read a file or "-" for stdin.
	// Empty uses the method's template.
	Body    string
	Headers []string // "key: value" pairs from -H
	Address string
	Query   string // JMESPath query or $(bash command)
	// OutputFormat is text (default), json or yaml
	OutputFormat string
	ShowFull     bool

	// Client overrides the transport built from Config
	Client rpc.Client
	Stdin  io.Reader
	Out    io.Writer
}

// Call performs one call and writes the response to opts.Out
func Call(opts CallOptions) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}

	cat, err := catalog.Load(cfg.CatalogFiles(), cfg.IncludeDirs())
	if err != nil && !errors.Is(err, catalog.ErrNoServices) {
		return fmt.Errorf("failed to load catalogue: %w", err)
	}

	fullName := opts.Method
	if fullName == "" {
		if !isInteractive() || cat == nil || cat.MethodCount() == 0 {
			return fmt.Errorf("no method given (expected Service/Method)")
		}
		if fullName, err = promptForMethod(cat); err != nil {
			return err
		}
	}

	method, err := resolveMethod(cat, fullName)
	if err != nil {
		return err
	}

	body, err := readBody(opts.Body, method.Request, opts.Stdin)
	if err != nil {
		return err
	}

	headers, err := parseHeaders(opts.Headers)
	if err != nil {
		return err
	}

	address := opts.Address
	if address == "" {
		address = method.Address
	}
	if address == "" {
		address = cfg.Server.DefaultAddress
	}

	client := opts.Client
	if client == nil {
		transport, err := rpc.NewTransport(rpc.Options{
			Timeout:  cfg.Server.Timeout,
			CACert:   cfg.TLS.CustomCert,
			Insecure: cfg.TLS.Insecure,
		})
		if err != nil {
			return fmt.Errorf("failed to create transport: %w", err)
		}
		client = transport
	}

	// Handle Ctrl+C for graceful cancellation
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	req := rpc.Request{
		Address: address,
		Service: method.Service,
		Method:  method.Name,
		Body:    body,
		Headers: headers,
	}
	slog.Info("rpc call", "method", req.Procedure(), "address", address)

	resp, err := client.Call(ctx, req)
	if err != nil {
		return fmt.Errorf("call failed: %w", err)
	}

	result := resp.Body
	if opts.Query != "" {
		filtered, err := filter.Apply(ctx, result, opts.Query)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: query error: %v\n", err)
		} else {
			result = filtered
		}
	}

	output, err := formatOutput(resp, result, opts.OutputFormat, opts.ShowFull)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(opts.Out, output)
	return err
}

// resolveMethod finds fullName in the catalogue. Methods outside the
// catalogue are allowed and get an empty template.
func resolveMethod(cat *catalog.Catalog, fullName string) (catalog.Method, error) {
	if cat != nil {
		if method, ok := cat.Find(fullName); ok {
			return method, nil
		}
	}

	service, name, ok := strings.Cut(fullName, "/")
	if !ok || service == "" || name == "" {
		return catalog.Method{}, fmt.Errorf("invalid method %q (expected Service/Method)", fullName)
	}
	return catalog.Method{Service: service, Name: name}, nil
}

func readBody(flag, template string, stdin io.Reader) (string, error) {
	switch {
	case flag == "":
		return template, nil
	case flag == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read body from stdin: %w", err)
		}
		return string(data), nil
	case strings.HasPrefix(flag, "@"):
		data, err := os.ReadFile(config.ExpandPath(flag[1:]))
		if err != nil {
			return "", fmt.Errorf("failed to read body file: %w", err)
		}
		return string(data), nil
	}
	return flag, nil
}

// parseHeaders turns "key: value" pairs into lower-cased metadata
func parseHeaders(pairs []string) (map[string]string, error) {
	headers := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, ":")
		key = strings.ToLower(strings.TrimSpace(key))
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid header %q (expected key:value)", pair)
		}
		headers[key] = strings.TrimSpace(value)
	}
	return headers, nil
}

type callOutput struct {
	Status     string            `json:"status" yaml:"status"`
	DurationMs int64             `json:"duration_ms" yaml:"duration_ms"`
	Headers    map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body       any               `json:"body" yaml:"body"`
}

// formatOutput formats the response based on the output format
func formatOutput(resp *rpc.Response, body, format string, showFull bool) (string, error) {
	switch format {
	case "json", "yaml":
		out := callOutput{
			Status:     resp.Status,
			DurationMs: resp.Duration.Milliseconds(),
			Headers:    resp.Headers,
			Body:       decodeBody(body),
		}
		if format == "yaml" {
			data, err := yaml.Marshal(out)
			if err != nil {
				return "", fmt.Errorf("failed to marshal YAML: %w", err)
			}
			return strings.TrimRight(string(data), "\n"), nil
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return string(data), nil

	case "", "text":
		if pretty, err := editor.PrettyFormatJSON(body); err == nil {
			body = pretty
		}
		if !showFull {
			return body, nil
		}
		var b strings.Builder
		fmt.Fprintf(&b, "%s (%s)\n", resp.Status, rpc.FormatDuration(resp.Duration))
		for _, key := range sortedKeys(resp.Headers) {
			fmt.Fprintf(&b, "%s: %s\n", key, resp.Headers[key])
		}
		b.WriteString("\n")
		b.WriteString(body)
		return b.String(), nil
	}
	return "", fmt.Errorf("unknown output format %q (expected text, json or yaml)", format)
}

func decodeBody(body string) any {
	var v any
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		return body
	}
	return v
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
