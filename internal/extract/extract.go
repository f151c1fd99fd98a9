// Package extract pulls diagram source out of free-form model output.
package extract

import (
	"regexp"
	"strings"
)

// fenceRegex captures the first ``` fenced block. The opening line may carry a
// single token (group 1), or a bare "mermaid" tag followed by code on the same
// line (group 2). Group 3 is the content.
var fenceRegex = regexp.MustCompile("(?s)```(?:([\\w+-]+)[ \\t]*\\r?\\n|(mermaid)\\b)?(.*?)```")

// languageTags are the only tokens dropped from the opening line. Any other
// token there is the diagram header (graph, classDiagram-v2, C4Context, ...).
var languageTags = map[string]bool{
	"mermaid": true,
	"mmd":     true,
}

type Result struct {
	Source   string
	Language string
	// Fenced reports whether a fenced block was found. When false Source is
	// the whole trimmed input.
	Fenced bool
}

// Parse never fails: text without a fence is taken to be code already.
func Parse(text string) Result {
	m := fenceRegex.FindStringSubmatch(text)
	if m == nil {
		return Result{Source: strings.TrimSpace(text)}
	}

	lang, content := m[1], m[3]
	if lang == "" {
		lang = m[2]
	}
	if lang != "" && !languageTags[strings.ToLower(lang)] {
		content = lang + "\n" + content
		lang = ""
	}

	return Result{
		Source:   strings.TrimSpace(content),
		Language: lang,
		Fenced:   true,
	}
}

// Extract returns the diagram source of text.
func Extract(text string) string {
	return Parse(text).Source
}
