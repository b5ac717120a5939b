package rpc

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPClient posts JSON bodies to {address}/{service}/{method}
type HTTPClient struct {
	client *http.Client
}

// NewHTTPClient returns a client with the given timeout and optional TLS config
func NewHTTPClient(timeout time.Duration, tlsConfig *tls.Config) *HTTPClient {
	transport := &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		TLSClientConfig: tlsConfig,
	}
	return &HTTPClient{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// Endpoint returns the URL a request is posted to
func Endpoint(req Request) string {
	return strings.TrimRight(req.Address, "/") + "/" + req.Service + "/" + req.Method
}

// Call performs one unary call
func (c *HTTPClient) Call(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	body := req.Body
	if strings.TrimSpace(body) == "" {
		body = "{}"
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, Endpoint(req), bytes.NewBufferString(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeHTTPError(resp, data)
	}

	headers := make(map[string]string, len(resp.Header))
	for key, values := range resp.Header {
		headers[key] = strings.Join(values, ", ")
	}

	return &Response{
		Body:     string(data),
		Status:   resp.Status,
		Headers:  headers,
		Duration: time.Since(start),
	}, nil
}

// decodeHTTPError reads a Connect or Twirp style {"code", "message"} body and
// falls back to the HTTP status
func decodeHTTPError(resp *http.Response, data []byte) error {
	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Msg     string `json:"msg"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Code != "" {
		msg := payload.Message
		if msg == "" {
			msg = payload.Msg
		}
		return &StatusError{Code: payload.Code, Message: msg}
	}

	msg := strings.TrimSpace(string(data))
	return &StatusError{Code: resp.Status, Message: msg}
}
