// Package prompt holds the fixed set of prompt templates, one per diagram type.
package prompt

import (
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/kdduha/aidiagram/internal/apperrors"
	"github.com/kdduha/aidiagram/internal/models"
)

// Slot is the single substitution point every template carries.
const Slot = "{{ .Description }}"

//go:embed templates/*.tmpl
var templateFS embed.FS

type entry struct {
	file               string
	defaultDescription string
}

var entries = map[models.DiagramType]entry{
	models.Flowchart: {
		file:               "templates/flowchart.tmpl",
		defaultDescription: "A developer pushes code. CI server runs tests. If tests pass, create build artifact and deploy to staging. If staging passes, deploy to production.",
	},
	models.SequenceDiagram: {
		file:               "templates/sequence.tmpl",
		defaultDescription: "A user logs in. The app checks credentials with the database. If valid, the app returns a welcome message.",
	},
	models.ClassDiagram: {
		file:               "templates/class.tmpl",
		defaultDescription: "A Vehicle has a start() method. Car and Bike inherit from Vehicle. Car has a drive() method. Bike has a pedal() method.",
	},
}

// Template is the prompt of one diagram type.
type Template struct {
	Type               models.DiagramType
	Raw                string
	DefaultDescription string

	tmpl *template.Template
}

// Format substitutes description into the slot. The description is inserted
// as data, so braces or backticks inside it are kept literally.
func (t *Template) Format(description string) (string, error) {
	var sb strings.Builder
	if err := t.tmpl.Execute(&sb, struct{ Description string }{description}); err != nil {
		return "", fmt.Errorf("failed to format %s prompt: %w", t.Type, err)
	}
	return sb.String(), nil
}

// Registry is immutable after NewRegistry returns.
type Registry struct {
	templates map[models.DiagramType]*Template
}

func NewRegistry() (*Registry, error) {
	templates := make(map[models.DiagramType]*Template, len(entries))
	for diagramType, e := range entries {
		content, err := templateFS.ReadFile(e.file)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", e.file, err)
		}
		raw := string(content)
		if n := strings.Count(raw, Slot); n != 1 {
			return nil, fmt.Errorf("template %s must have exactly one description slot, has %d", e.file, n)
		}

		tmpl, err := template.New(string(diagramType)).Option("missingkey=error").Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", e.file, err)
		}
		templates[diagramType] = &Template{
			Type:               diagramType,
			Raw:                raw,
			DefaultDescription: e.defaultDescription,
			tmpl:               tmpl,
		}
	}
	return &Registry{templates: templates}, nil
}

// MustNewRegistry panics if the embedded templates are broken.
func MustNewRegistry() *Registry {
	r, err := NewRegistry()
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the template of diagramType. An unknown type is an error,
// never a silent default.
func (r *Registry) Lookup(diagramType models.DiagramType) (*Template, error) {
	t, ok := r.templates[diagramType]
	if !ok {
		return nil, apperrors.NewLookup(string(diagramType), r.supported())
	}
	return t, nil
}

func (r *Registry) DefaultDescription(diagramType models.DiagramType) (string, error) {
	t, err := r.Lookup(diagramType)
	if err != nil {
		return "", err
	}
	return t.DefaultDescription, nil
}

// Types returns the registered types in display order.
func (r *Registry) Types() []models.DiagramType {
	types := make([]models.DiagramType, 0, len(r.templates))
	for _, t := range models.DiagramTypes() {
		if _, ok := r.templates[t]; ok {
			types = append(types, t)
		}
	}
	return types
}

func (r *Registry) supported() []string {
	types := r.Types()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}
