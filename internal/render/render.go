// Package render produces the HTML that hands diagram source to Mermaid in the
// browser. The source is never parsed here; syntax errors surface through
// Mermaid itself.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/kdduha/aidiagram/internal/models"
)

const (
	SVGName       = "diagram.svg"
	PNGName       = "diagram.png"
	PNGScale      = 2
	PNGBackground = "#fff"
)

//go:embed templates/*.html
var templateFS embed.FS

type blockData struct {
	Source        string
	Theme         models.Theme
	MermaidURL    string
	SVGName       string
	PNGName       string
	PNGScale      int
	PNGBackground string
}

// PageData feeds the interactive page.
type PageData struct {
	Types    []models.DiagramType
	Themes   []models.Theme
	Session  *models.Session
	Block    template.HTML
	Rendered bool
	Failed   bool
	Error    string
}

type Renderer struct {
	tmpl       *template.Template
	mermaidURL string
}

func New(mermaidURL string) (*Renderer, error) {
	if mermaidURL == "" {
		return nil, fmt.Errorf("mermaid url is empty")
	}
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse render templates: %w", err)
	}
	return &Renderer{
		tmpl:       tmpl,
		mermaidURL: mermaidURL,
	}, nil
}

// Block renders the embedding block for source with theme applied before the
// first paint.
func (r *Renderer) Block(source string, theme models.Theme) (template.HTML, error) {
	var sb strings.Builder
	err := r.tmpl.ExecuteTemplate(&sb, "block", blockData{
		Source:        source,
		Theme:         theme,
		MermaidURL:    r.mermaidURL,
		SVGName:       SVGName,
		PNGName:       PNGName,
		PNGScale:      PNGScale,
		PNGBackground: PNGBackground,
	})
	if err != nil {
		return "", fmt.Errorf("render block: %w", err)
	}
	return template.HTML(sb.String()), nil
}

// Page renders the full interactive page.
func (r *Renderer) Page(w io.Writer, data PageData) error {
	if data.Session == nil {
		data.Session = &models.Session{}
	}
	if err := r.tmpl.ExecuteTemplate(w, "page", data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

// Standalone writes a self-contained HTML document around block.
func (r *Renderer) Standalone(w io.Writer, title string, block template.HTML) error {
	data := struct {
		Title string
		Block template.HTML
	}{title, block}
	if err := r.tmpl.ExecuteTemplate(w, "standalone", data); err != nil {
		return fmt.Errorf("render standalone page: %w", err)
	}
	return nil
}
