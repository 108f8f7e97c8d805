// Package render turns API payloads into the text shown in the detail panel
// and copied to the clipboard.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const indent = "  "

// JSON renders v as 2-space indented JSON without HTML escaping and without a
// trailing newline. A nil value renders as "null".
func JSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to render JSON: %w", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// Text is JSON with a fmt fallback for values that cannot be encoded.
func Text(v any) string {
	out, err := JSON(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return out
}
