package render

import (
	"strings"
	"testing"

	"github.com/kdduha/aidiagram/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMermaidURL = "https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.esm.min.mjs"

func newTestRenderer(t *testing.T) *Renderer {
	r, err := New(testMermaidURL)
	require.NoError(t, err)
	return r
}

func TestNew_RequiresURL(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}

func TestBlock_Contract(t *testing.T) {
	r := newTestRenderer(t)

	block, err := r.Block("graph LR\nA-->B", models.ThemeDark)
	require.NoError(t, err)
	out := string(block)

	assert.Contains(t, out, `<pre class="mermaid">graph LR`+"\n"+`A--&gt;B</pre>`)
	assert.Contains(t, out, `import mermaid from "`+testMermaidURL+`"`)
	assert.Contains(t, out, `startOnLoad: false, theme: "dark"`)
	assert.Less(t, strings.Index(out, "mermaid.initialize"), strings.Index(out, "mermaid.run"),
		"theme must be set before the first render")

	assert.Contains(t, out, `download("diagram.svg", url)`)
	assert.Contains(t, out, `download("diagram.png", canvas.toDataURL("image/png"))`)
	assert.Regexp(t, `const scale =\s*2\s*;`, out)
	assert.Contains(t, out, `ctx.fillStyle = "#fff"`)
	assert.Less(t, strings.Index(out, "ctx.fillRect"), strings.Index(out, "ctx.drawImage"),
		"background must be filled before drawing")
}

func TestBlock_EscapesSource(t *testing.T) {
	r := newTestRenderer(t)

	block, err := r.Block(`A["</pre><script>alert(1)</script>"]`, models.ThemeDefault)
	require.NoError(t, err)

	assert.NotContains(t, string(block), "<script>alert(1)</script>")
	assert.Contains(t, string(block), "&lt;script&gt;")
}

func TestBlock_EmptySource(t *testing.T) {
	r := newTestRenderer(t)

	block, err := r.Block("", models.ThemeNeutral)
	require.NoError(t, err)
	assert.Contains(t, string(block), `<pre class="mermaid"></pre>`)
}

func TestPage_Rendered(t *testing.T) {
	r := newTestRenderer(t)
	block, err := r.Block("graph LR\nA-->B", models.ThemeForest)
	require.NoError(t, err)

	var sb strings.Builder
	err = r.Page(&sb, PageData{
		Types:  models.DiagramTypes(),
		Themes: models.Themes(),
		Session: &models.Session{
			Type:        models.SequenceDiagram,
			Description: "Alice & Bob",
			Theme:       models.ThemeForest,
		},
		Block:    block,
		Rendered: true,
	})
	require.NoError(t, err)
	out := sb.String()

	assert.Contains(t, out, `<option value="Sequence Diagram" selected>`)
	assert.Contains(t, out, `<option value="forest" selected>`)
	assert.Contains(t, out, "Alice &amp; Bob</textarea>")
	assert.Contains(t, out, "Rendered Diagram:")
	assert.Contains(t, out, `<pre class="mermaid">`)
	assert.Contains(t, out, "Generate Diagram")
}

func TestPage_FailedKeepsInputs(t *testing.T) {
	r := newTestRenderer(t)

	var sb strings.Builder
	err := r.Page(&sb, PageData{
		Types:  models.DiagramTypes(),
		Themes: models.Themes(),
		Session: &models.Session{
			Type:        models.ClassDiagram,
			Description: "my edited text",
			Theme:       models.ThemeDefault,
		},
		Failed: true,
		Error:  "generation endpoint unreachable",
	})
	require.NoError(t, err)
	out := sb.String()

	assert.Contains(t, out, "Diagram generation failed: generation endpoint unreachable")
	assert.Contains(t, out, "my edited text</textarea>")
	assert.NotContains(t, out, `<pre class="mermaid">`)
}

func TestPage_Idle(t *testing.T) {
	r := newTestRenderer(t)

	var sb strings.Builder
	require.NoError(t, r.Page(&sb, PageData{
		Types:   models.DiagramTypes(),
		Themes:  models.Themes(),
		Session: &models.Session{Type: models.Flowchart, Theme: models.ThemeDefault},
	}))
	assert.NotContains(t, sb.String(), "Rendered Diagram:")
}

func TestStandalone(t *testing.T) {
	r := newTestRenderer(t)
	block, err := r.Block("graph TD\nX-->Y", models.ThemeDefault)
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, r.Standalone(&sb, "Flowchart", block))
	assert.Contains(t, sb.String(), "<title>Flowchart</title>")
	assert.Contains(t, sb.String(), "X--&gt;Y")
}
