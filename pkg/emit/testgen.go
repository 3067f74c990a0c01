package emit

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/iancoleman/strcase"

	"github.com/gnana997/propgen/pkg/metadata"
	"github.com/gnana997/propgen/templates"
)

// GeneratedTestsDir is where scaffolds land, relative to the component.
const GeneratedTestsDir = "__tests__/Generated"

// TestData is the template input for one component.
type TestData struct {
	metadata.Component
	// PascalFilename is the file name in PascalCase.
	PascalFilename string
	// RelativeFilePath imports the component from the scaffold's directory.
	RelativeFilePath string
	// Attributes are name={value} pairs for every prop except children.
	Attributes []string
	// Children is the children prop, nil when the component has none.
	Children *metadata.Prop
}

// NewTestData builds template input for c.
func NewTestData(c metadata.Component) TestData {
	data := TestData{
		Component:        c,
		PascalFilename:   strcase.ToCamel(c.Filename),
		RelativeFilePath: path.Join("../..", importName(c)),
	}
	if data.Name == "" {
		data.Name = data.PascalFilename
	}
	for i := range c.Props {
		p := c.Props[i]
		if p.PropName == "children" {
			data.Children = &p
			continue
		}
		data.Attributes = append(data.Attributes, fmt.Sprintf("%s={%s}", p.PropName, p.PropDefaultValue))
	}
	return data
}

// importName is the component's module name within its directory; empty
// for index files, which are imported through the directory.
func importName(c metadata.Component) string {
	base := filepath.Base(c.FilePath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "index" {
		return ""
	}
	return name
}

// TestRenderer renders test scaffolds from a text/template.
type TestRenderer struct {
	tmpl *template.Template
}

var templateFuncs = template.FuncMap{
	"pascal": strcase.ToCamel,
	"camel":  strcase.ToLowerCamel,
	"kebab":  strcase.ToKebab,
	"join":   strings.Join,
}

// NewTestRenderer parses the template at path, or the embedded jest
// template when path is empty.
func NewTestRenderer(templatePath string) (*TestRenderer, error) {
	text := templates.JestTest
	name := "jest"
	if templatePath != "" {
		data, err := os.ReadFile(templatePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read template: %w", err)
		}
		text, name = string(data), filepath.Base(templatePath)
	}
	tmpl, err := template.New(name).Funcs(templateFuncs).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	return &TestRenderer{tmpl: tmpl}, nil
}

// Render executes the template for c.
func (r *TestRenderer) Render(c metadata.Component) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, NewTestData(c)); err != nil {
		return nil, fmt.Errorf("execute template for %s: %w", c.Name, err)
	}
	return buf.Bytes(), nil
}

// TestPath returns <dir>/__tests__/Generated/<filename>.test.tsx for c.
func TestPath(c metadata.Component) string {
	dir := filepath.Dir(c.FilePath)
	return filepath.Join(dir, filepath.FromSlash(GeneratedTestsDir), c.Filename+".test.tsx")
}
