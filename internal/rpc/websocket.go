package rpc

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Envelope is a JSON-RPC 2.0 request
type Envelope struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type envelopeResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data,omitempty"`
	} `json:"error"`
}

// NewEnvelope wraps the request body in a JSON-RPC 2.0 request with a fresh id
func NewEnvelope(req Request) (*Envelope, error) {
	env := &Envelope{
		JSONRPC: "2.0",
		ID:      uuid.NewString(),
		Method:  req.Procedure(),
	}

	body := strings.TrimSpace(req.Body)
	if body != "" {
		if !json.Valid([]byte(body)) {
			return nil, errors.New("request body is not valid JSON")
		}
		env.Params = json.RawMessage(body)
	}
	return env, nil
}

// WSClient sends JSON-RPC 2.0 requests over a WebSocket connection
type WSClient struct {
	dialer  *websocket.Dialer
	timeout time.Duration
}

// NewWSClient returns a client dialing a new connection per call
func NewWSClient(timeout time.Duration, tlsConfig *tls.Config) *WSClient {
	return &WSClient{
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: timeout,
			TLSClientConfig:  tlsConfig,
		},
		timeout: timeout,
	}
}

// Call dials req.Address, sends one request and waits for the response with
// the same id. Notifications received meanwhile are skipped.
func (c *WSClient) Call(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	env, err := NewEnvelope(req)
	if err != nil {
		return nil, err
	}

	headers := http.Header{}
	for key, value := range req.Headers {
		headers.Set(key, value)
	}

	conn, resp, err := c.dialer.DialContext(ctx, req.Address, headers)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("connection failed (HTTP %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("connection failed: %w", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)
	_ = conn.SetReadDeadline(deadline)

	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
	})
	defer stop()

	if err := conn.WriteJSON(env); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		var reply envelopeResponse
		if err := json.Unmarshal(data, &reply); err != nil {
			continue
		}
		if !sameID(reply.ID, env.ID) {
			continue
		}

		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))

		if reply.Error != nil {
			return nil, &StatusError{
				Code:    strconv.Itoa(reply.Error.Code),
				Message: reply.Error.Message,
			}
		}

		return &Response{
			Body:     string(reply.Result),
			Status:   "OK",
			Duration: time.Since(start),
		}, nil
	}
}

func sameID(raw json.RawMessage, id string) bool {
	var got string
	if err := json.Unmarshal(raw, &got); err != nil {
		return false
	}
	return got == id
}
