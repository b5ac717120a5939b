package rpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Curl renders req as an equivalent curl command line
func Curl(req Request) string {
	address, _, err := NormalizeAddress(req.Address)
	if err == nil {
		req.Address = address
	}

	var b strings.Builder
	b.WriteString("curl -X POST")
	b.WriteString(" -H " + shellQuote("Content-Type: application/json"))

	keys := make([]string, 0, len(req.Headers))
	for key := range req.Headers {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		b.WriteString(" -H " + shellQuote(fmt.Sprintf("%s: %s", key, req.Headers[key])))
	}

	body := strings.TrimSpace(req.Body)
	if body == "" {
		body = "{}"
	} else if compact, err := compactJSON(body); err == nil {
		body = compact
	}
	b.WriteString(" -d " + shellQuote(body))
	b.WriteString(" " + shellQuote(Endpoint(req)))
	return b.String()
}

// EnvelopeText renders the JSON-RPC request that would be sent for req
func EnvelopeText(req Request) (string, error) {
	env, err := NewEnvelope(req)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func compactJSON(text string) (string, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(text)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
