package typedesc

import (
	"fmt"
	"strings"
)

// maxDepth bounds nesting so malformed or self-similar records cannot blow
// the stack. Deeper records normalize to KindUnknown.
const maxDepth = 32

// Normalize converts a raw type record into a Descriptor. It never fails:
// nil records, empty names and unrecognized names yield KindUnknown.
func Normalize(raw *Raw) Descriptor {
	return normalize(raw, 0)
}

func normalize(raw *Raw, depth int) Descriptor {
	if raw == nil {
		return Descriptor{Kind: KindUnknown}
	}

	name := strings.TrimSpace(raw.Name)
	d := Descriptor{Name: name, RawText: raw.Raw}
	if name == "" || depth > maxDepth {
		d.Kind = KindUnknown
		return d
	}

	switch name {
	case "any":
		d.Kind = KindAny
	case "number":
		d.Kind = KindNumber
	case "string":
		d.Kind = KindString
	case "boolean", "bool":
		d.Kind = KindBoolean
	case "func", "Function":
		d.Kind = KindFunc
		if raw.Value != nil {
			d.ValueText = strings.TrimSpace(raw.Value.Text)
		}
	case "Array", "array", "arrayOf":
		d.Kind = KindArray
		d.Elements = normalizeElements(raw.Elements, depth)
	case "tuple":
		d.Kind = KindTuple
		d.Elements = normalizeElements(raw.Elements, depth)
	case "union":
		d.Kind = KindUnion
		d.Elements = normalizeElements(raw.Elements, depth)
	case "literal":
		d.Kind = KindLiteral
		if raw.Value != nil && raw.Value.Text != "" {
			d.RawText = raw.Value.Text
		}
	case "shape", "exact":
		if raw.Value == nil || raw.Value.Fields == nil {
			d.Kind = KindUnknown
			return d
		}
		d.Kind = KindShape
		d.Fields = shapeFields(raw.Value, depth)
	case "signature":
		if raw.Type == "object" {
			d.Kind = KindShape
			d.Fields = signatureFields(raw.Signature, depth)
		} else {
			d.Kind = KindSignature
		}
	default:
		if tag, ok := LookupSemantic(name); ok {
			d.Kind = KindSemantic
			d.Semantic = tag
		} else {
			d.Kind = KindUnknown
		}
	}
	return d
}

func normalizeElements(elements []*Raw, depth int) []Descriptor {
	if len(elements) == 0 {
		return nil
	}
	out := make([]Descriptor, 0, len(elements))
	for _, e := range elements {
		if e == nil {
			continue
		}
		out = append(out, normalize(e, depth+1))
	}
	return out
}

func shapeFields(v *RawValue, depth int) []Field {
	fields := make([]Field, 0, v.Fields.Len())
	for pair := v.Fields.Oldest(); pair != nil; pair = pair.Next() {
		fields = append(fields, Field{
			Name:     pair.Key,
			Type:     normalize(pair.Value, depth+1),
			Required: isRequired(pair.Value),
		})
	}
	return fields
}

func signatureFields(sig *Signature, depth int) []Field {
	if sig == nil {
		return []Field{}
	}
	fields := make([]Field, 0, len(sig.Properties))
	for _, p := range sig.Properties {
		key := propertyKey(p.Key)
		if key == "" {
			continue
		}
		fields = append(fields, Field{
			Name:     key,
			Type:     normalize(p.Value, depth+1),
			Required: isRequired(p.Value),
		})
	}
	return fields
}

func isRequired(raw *Raw) bool {
	return raw != nil && raw.Required != nil && *raw.Required
}

// propertyKey stringifies a signature key. Computed keys arrive as objects
// carrying the source text under "raw" or "name".
func propertyKey(key any) string {
	switch k := key.(type) {
	case string:
		return k
	case map[string]any:
		for _, field := range []string{"raw", "name"} {
			if s, ok := k[field].(string); ok && s != "" {
				return s
			}
		}
		return ""
	case nil:
		return ""
	default:
		return fmt.Sprint(k)
	}
}
