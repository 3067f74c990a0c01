package typedesc

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Raw is a prop type record as emitted by a static-analysis collaborator.
//
// The JSON shape follows react-docgen's tsType output so docgen JSON can be
// decoded directly; the tree-sitter scanner builds the same records.
// Every field is optional.
type Raw struct {
	Name      string     `json:"name"`
	Raw       string     `json:"raw,omitempty"`
	Type      string     `json:"type,omitempty"` // "function" or "object" for signatures
	Value     *RawValue  `json:"value,omitempty"`
	Elements  []*Raw     `json:"elements,omitempty"`
	Signature *Signature `json:"signature,omitempty"`
	Required  *bool      `json:"required,omitempty"`
}

// Signature holds the members of a function or object signature.
type Signature struct {
	Properties []SignatureProperty `json:"properties,omitempty"`
	Arguments  []SignatureArgument `json:"arguments,omitempty"`
	Return     *Raw                `json:"return,omitempty"`
}

// SignatureProperty is one member of an object type literal.
// Key is usually a string; computed keys arrive as objects.
type SignatureProperty struct {
	Key   any  `json:"key"`
	Value *Raw `json:"value"`
}

// SignatureArgument is one parameter of a function signature.
type SignatureArgument struct {
	Name string `json:"name"`
	Type *Raw   `json:"type,omitempty"`
}

// RawValue is the polymorphic "value" member: literal text for literal
// types, a field map for prop-types shapes.
type RawValue struct {
	Text   string
	Fields *orderedmap.OrderedMap[string, *Raw]
}

// UnmarshalJSON keeps object members in document order.
func (v *RawValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	switch trimmed[0] {
	case '"':
		return json.Unmarshal(trimmed, &v.Text)
	case '{':
		fields := orderedmap.New[string, *Raw]()
		if err := json.Unmarshal(trimmed, fields); err != nil {
			return fmt.Errorf("decode shape value: %w", err)
		}
		v.Fields = fields
		return nil
	default:
		// Numbers, booleans and prop-types enum arrays keep their source text.
		v.Text = string(trimmed)
		return nil
	}
}

// MarshalJSON writes the field map when present, the text otherwise.
func (v RawValue) MarshalJSON() ([]byte, error) {
	if v.Fields != nil {
		return json.Marshal(v.Fields)
	}
	return json.Marshal(v.Text)
}

// StringValue returns a RawValue holding literal text.
func StringValue(text string) *RawValue {
	return &RawValue{Text: text}
}

// ShapeValue returns a RawValue holding shape fields in the given order.
func ShapeValue(names []string, types []*Raw) *RawValue {
	fields := orderedmap.New[string, *Raw]()
	for i, name := range names {
		if i < len(types) {
			fields.Set(name, types[i])
		}
	}
	return &RawValue{Fields: fields}
}

// ParseRaw decodes a single tsType JSON document.
func ParseRaw(data []byte) (*Raw, error) {
	var r Raw
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode type record: %w", err)
	}
	return &r, nil
}
