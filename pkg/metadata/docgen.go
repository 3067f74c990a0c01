package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/iancoleman/strcase"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/gnana997/propgen/pkg/typedesc"
)

// docgenDoc is one component document in react-docgen CLI output.
type docgenDoc struct {
	DisplayName string                                      `json:"displayName"`
	FilePath    string                                      `json:"filePath"`
	Props       *orderedmap.OrderedMap[string, *docgenProp] `json:"props"`
}

type docgenProp struct {
	TSType       *typedesc.Raw  `json:"tsType"`
	FlowType     *typedesc.Raw  `json:"flowType"`
	Type         *typedesc.Raw  `json:"type"`
	Required     bool           `json:"required"`
	Description  string         `json:"description"`
	DefaultValue *docgenDefault `json:"defaultValue"`
}

type docgenDefault struct {
	Value    json.RawMessage `json:"value"`
	Computed bool            `json:"computed"`
}

// text returns the default's source text. Docgen writes it as a string;
// anything else is taken verbatim.
func (d *docgenDefault) text() *string {
	if d == nil || len(d.Value) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(d.Value, &s); err != nil {
		s = string(bytes.TrimSpace(d.Value))
	}
	return &s
}

// LoadDocgen reads react-docgen JSON output and resolves every prop.
func LoadDocgen(path string, ignore []string) ([]Component, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read docgen file: %w", err)
	}
	return ParseDocgen(data, ignore)
}

// ParseDocgen accepts the shapes react-docgen's CLI writes: an object
// keyed by file path whose values are a document or a list of documents,
// or a bare list of documents.
func ParseDocgen(data []byte, ignore []string) ([]Component, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty docgen input")
	}

	var docs []docgenDoc
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &docs); err != nil {
			return nil, fmt.Errorf("failed to parse docgen JSON: %w", err)
		}
	case '{':
		byFile := orderedmap.New[string, json.RawMessage]()
		if err := json.Unmarshal(trimmed, byFile); err != nil {
			return nil, fmt.Errorf("failed to parse docgen JSON: %w", err)
		}
		for pair := byFile.Oldest(); pair != nil; pair = pair.Next() {
			fileDocs, err := decodeDocs(pair.Value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", pair.Key, err)
			}
			for i := range fileDocs {
				if fileDocs[i].FilePath == "" {
					fileDocs[i].FilePath = pair.Key
				}
			}
			docs = append(docs, fileDocs...)
		}
	default:
		return nil, fmt.Errorf("unexpected docgen JSON: must be an object or array")
	}

	components := make([]Component, 0, len(docs))
	for _, doc := range docs {
		components = append(components, docComponent(doc, ignore))
	}
	SortByPath(components)
	return components, nil
}

func decodeDocs(raw json.RawMessage) ([]docgenDoc, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var docs []docgenDoc
		if err := json.Unmarshal(trimmed, &docs); err != nil {
			return nil, fmt.Errorf("failed to parse docgen documents: %w", err)
		}
		return docs, nil
	}
	var doc docgenDoc
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse docgen document: %w", err)
	}
	return []docgenDoc{doc}, nil
}

func docComponent(doc docgenDoc, ignore []string) Component {
	filename := Filename(doc.FilePath)
	c := Component{
		Name:     doc.DisplayName,
		Filename: filename,
		FilePath: doc.FilePath,
		Props:    []Prop{},
	}
	if c.Name == "" {
		c.Name = ComponentName(filename)
	}
	if doc.Props == nil {
		return c
	}
	for pair := doc.Props.Oldest(); pair != nil; pair = pair.Next() {
		if IgnoredProp(pair.Key, ignore) || pair.Value == nil {
			continue
		}
		p := pair.Value
		in := Input{
			Name:        pair.Key,
			Type:        firstType(p.TSType, p.FlowType, p.Type),
			Required:    p.Required,
			Description: p.Description,
		}
		if p.DefaultValue != nil {
			in.Default = p.DefaultValue.text()
			in.Computed = p.DefaultValue.Computed
		}
		c.Props = append(c.Props, ResolveProp(in))
	}
	return c
}

func firstType(types ...*typedesc.Raw) *typedesc.Raw {
	for _, t := range types {
		if t != nil {
			return t
		}
	}
	return nil
}

// Filename returns the base name of path without its extension. An index
// file is named after its directory.
func Filename(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if name == "index" {
		if dir := filepath.Base(filepath.Dir(path)); dir != "." && dir != string(filepath.Separator) {
			return dir
		}
	}
	return name
}

// ComponentName turns a file name such as "date-picker" into "DatePicker".
func ComponentName(filename string) string {
	return strcase.ToCamel(filename)
}

// IgnoredProp reports whether name contains any ignored substring.
func IgnoredProp(name string, ignore []string) bool {
	for _, sub := range ignore {
		if sub != "" && strings.Contains(name, sub) {
			return true
		}
	}
	return false
}

// Names lists component names, sorted.
func Names(components []Component) []string {
	names := make([]string, len(components))
	for i, c := range components {
		names[i] = c.Name
	}
	sort.Strings(names)
	return names
}
