package editor

import (
	"bytes"
	"encoding/json"
	"strings"
)

// PrettyFormatJSON re-indents a JSON document with two spaces.
// Key order and number literals are kept exactly as written.
func PrettyFormatJSON(text string) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(strings.TrimSpace(text)), "", "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// IsJSON reports whether text is a single valid JSON document
func IsJSON(text string) bool {
	return json.Valid([]byte(strings.TrimSpace(text)))
}
