package typedesc

import "strings"

// Semantic identifies a framework-specific element type that needs a
// bespoke placeholder.
type Semantic int

const (
	SemanticNone Semantic = iota
	SemanticElementNode
	SemanticNode
	SemanticElementType
	SemanticTextNode
	SemanticRefObject
	SemanticRefCallback
	SemanticDomElement
)

// semanticByName maps canonical type names to their tag. Legacy spellings
// ("ReactReactNode", "React.ReactNode", "ReactRefObject") are folded onto
// these keys by canonicalSemanticName.
var semanticByName = map[string]Semantic{
	"ReactElement":     SemanticElementNode,
	"ReactNode":        SemanticNode,
	"ReactElementType": SemanticElementType,
	"ReactText":        SemanticTextNode,
	"RefObject":        SemanticRefObject,
	"ReactRef":         SemanticRefCallback,
	"HTMLElement":      SemanticDomElement,
}

// String returns the canonical type name of the tag.
func (s Semantic) String() string {
	switch s {
	case SemanticElementNode:
		return "ReactElement"
	case SemanticNode:
		return "ReactNode"
	case SemanticElementType:
		return "ReactElementType"
	case SemanticTextNode:
		return "ReactText"
	case SemanticRefObject:
		return "RefObject"
	case SemanticRefCallback:
		return "ReactRef"
	case SemanticDomElement:
		return "HTMLElement"
	default:
		return "none"
	}
}

// LookupSemantic resolves a type name to its catalog tag.
func LookupSemantic(name string) (Semantic, bool) {
	name = canonicalSemanticName(name)
	if name == "" {
		return SemanticNone, false
	}
	if trimmed := strings.TrimPrefix(name, "React"); trimmed != name {
		if tag, ok := semanticByName[trimmed]; ok {
			return tag, true
		}
	}
	tag, ok := semanticByName[name]
	return tag, ok
}

// canonicalSemanticName drops generic arguments and namespace dots:
// "React.RefObject<HTMLDivElement>" becomes "ReactRefObject".
func canonicalSemanticName(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.IndexByte(name, '<'); i >= 0 {
		name = name[:i]
	}
	return strings.ReplaceAll(name, ".", "")
}
