package radicalmart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// OrderedMap is a JSON object that remembers the order its keys were written in.
// JSON arrays decode into it with their indexes as keys.
type OrderedMap struct {
	entries *orderedmap.OrderedMap[string, json.RawMessage]
}

// Keys returns the keys in document order.
func (m OrderedMap) Keys() []string {
	keys := make([]string, 0, m.Len())
	if m.entries == nil {
		return keys
	}
	for pair := m.entries.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

func (m OrderedMap) Len() int {
	if m.entries == nil {
		return 0
	}
	return m.entries.Len()
}

// Raw returns the undecoded JSON value stored at key.
func (m OrderedMap) Raw(key string) (json.RawMessage, bool) {
	if m.entries == nil {
		return nil, false
	}
	return m.entries.Get(key)
}

// String returns the value at key when it is a JSON string.
func (m OrderedMap) String(key string) (string, bool) {
	raw, ok := m.Raw(key)
	if !ok {
		return "", false
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return "", false
	}
	return s, true
}

// Set stores value at key. A new key goes last, an existing key keeps its position.
func (m *OrderedMap) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %q: %w", key, err)
	}
	if m.entries == nil {
		m.entries = orderedmap.New[string, json.RawMessage]()
	}
	m.entries.Set(key, raw)
	return nil
}

func (m *OrderedMap) UnmarshalJSON(data []byte) error {
	m.entries = orderedmap.New[string, json.RawMessage]()

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	switch trimmed[0] {
	case '{':
		if err := m.entries.UnmarshalJSON(trimmed); err != nil {
			return fmt.Errorf("ordered map: %w", err)
		}
		return nil
	case '[':
		// PHP serializes list-shaped arrays as JSON lists; their indexes become keys.
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		for i, item := range items {
			m.entries.Set(strconv.Itoa(i), item)
		}
		return nil
	default:
		return fmt.Errorf("ordered map: expected object, got %s", trimmed[:1])
	}
}

func (m OrderedMap) MarshalJSON() ([]byte, error) {
	if m.entries == nil {
		return []byte("{}"), nil
	}
	return m.entries.MarshalJSON()
}

// Text renders a scalar JSON value as display text. Strings are unquoted,
// true renders as "1", and null, false and composite values render empty.
func Text(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return ""
		}
		return s
	case 't':
		return "1"
	case 'n', 'f', '[', '{':
		return ""
	default:
		return string(trimmed)
	}
}

// IsEmpty reports whether a JSON value counts as blank in order payloads:
// null, false, "", "0", zero numbers and empty collections.
func IsEmpty(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return true
	}
	switch trimmed[0] {
	case 'n', 'f':
		return true
	case 't':
		return false
	case '"':
		s := Text(trimmed)
		return s == "" || s == "0"
	case '[':
		var items []json.RawMessage
		return json.Unmarshal(trimmed, &items) == nil && len(items) == 0
	case '{':
		var obj map[string]json.RawMessage
		return json.Unmarshal(trimmed, &obj) == nil && len(obj) == 0
	default:
		f, err := strconv.ParseFloat(string(trimmed), 64)
		return err == nil && f == 0
	}
}

// numericKeyRe matches decimal numbers the way PHP is_numeric does: optional
// surrounding whitespace, sign, fraction and exponent. NaN, Inf and hex are rejected.
var numericKeyRe = regexp.MustCompile(`^[ \t\n\r\v\f]*[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?[ \t\n\r\v\f]*$`)

// IsNumericKey reports whether a mapping key is a number, as produced by list-shaped payloads.
func IsNumericKey(key string) bool {
	return numericKeyRe.MatchString(key)
}
