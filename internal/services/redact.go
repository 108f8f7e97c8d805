package services

import (
	"bytes"
	"encoding/json"

	"github.com/j-veylop/iiko-checker-tui/internal/models"
)

// Redacted replaces credential values in archived bodies.
const Redacted = "[redacted]"

// secretFields are top-level body fields never written to the archive.
var secretFields = []string{"apiLogin", "token"}

// redactRecord returns a copy of rec safe to write to disk. The in-memory
// activity log keeps the original.
func redactRecord(rec models.CallRecord) models.CallRecord {
	rec.RequestBody = redactBody(rec.RequestBody)
	rec.ResponseBody = redactBody(rec.ResponseBody)
	return rec
}

// redactBody masks secretFields of a JSON object body. Typed request structs
// are normalized to their JSON form first; other values pass through.
func redactBody(body any) any {
	if body == nil {
		return nil
	}

	obj, ok := body.(map[string]any)
	if !ok {
		obj, ok = asObject(body)
		if !ok {
			return body
		}
	}

	out := make(map[string]any, len(obj))
	for k, v := range obj {
		out[k] = v
	}
	for _, field := range secretFields {
		if _, present := out[field]; present {
			out[field] = Redacted
		}
	}
	return out
}

func asObject(body any) (map[string]any, bool) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, false
	}
	return obj, obj != nil
}
