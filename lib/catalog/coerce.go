package catalog

import (
	"encoding/json"
	"strings"
)

// CoerceScalar interprets a string value as an embedded JSON document.
// Non-string values are returned unchanged, they are already
// structured. A string is trimmed and parsed; if it is empty or not
// valid JSON the original string is returned so no information is
// lost. Decoding is best-effort and never fails past this point.
func CoerceScalar(value any) any {
	s, ok := value.(string)
	if !ok {
		return value
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return trimmed
	}

	var parsed any
	if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
		return s
	}
	return parsed
}
