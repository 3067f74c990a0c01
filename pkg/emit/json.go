package emit

import (
	"bytes"
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// encodeJSON writes v as tab-indented JSON without HTML escaping, so JSX
// stays readable in the output.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "\t")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// marshalOrdered encodes m as a JSON object in insertion order.
func marshalOrdered[V any](m *orderedmap.OrderedMap[string, V]) ([]byte, error) {
	var raw bytes.Buffer
	raw.WriteByte('{')
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		if raw.Len() > 1 {
			raw.WriteByte(',')
		}
		key, err := encodeJSON(pair.Key)
		if err != nil {
			return nil, err
		}
		value, err := encodeJSON(pair.Value)
		if err != nil {
			return nil, err
		}
		raw.Write(bytes.TrimSpace(key))
		raw.WriteByte(':')
		raw.Write(bytes.TrimSpace(value))
	}
	raw.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, raw.Bytes(), "", "\t"); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}
