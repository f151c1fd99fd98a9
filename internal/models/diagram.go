package models

import (
	"fmt"
	"slices"
	"strings"
)

// DiagramType is the label of a supported diagram kind.
type DiagramType string

const (
	Flowchart       DiagramType = "Flowchart"
	SequenceDiagram DiagramType = "Sequence Diagram"
	ClassDiagram    DiagramType = "Class Diagram"
)

// DiagramTypes returns the supported types in display order.
func DiagramTypes() []DiagramType {
	return []DiagramType{Flowchart, SequenceDiagram, ClassDiagram}
}

// Theme is a Mermaid theme name.
type Theme string

const (
	ThemeDefault Theme = "default"
	ThemeDark    Theme = "dark"
	ThemeForest  Theme = "forest"
	ThemeNeutral Theme = "neutral"
)

func Themes() []Theme {
	return []Theme{ThemeDefault, ThemeDark, ThemeForest, ThemeNeutral}
}

// ParseTheme accepts any theme of the fixed set; empty means ThemeDefault.
func ParseTheme(s string) (Theme, error) {
	if s == "" {
		return ThemeDefault, nil
	}
	t := Theme(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Themes(), t) {
		return "", fmt.Errorf("unknown theme %q", s)
	}
	return t, nil
}

// DiagramRequest represents request for the diagrams endpoint
type DiagramRequest struct {
	DiagramType DiagramType `json:"diagram_type" validate:"required" example:"Flowchart"`
	Description string      `json:"description" example:"A developer pushes code. CI runs tests."`
	Theme       Theme       `json:"theme" example:"default"`
}

func (r DiagramRequest) Validate() error {
	if r.DiagramType == "" {
		return fmt.Errorf("diagram_type is empty")
	}
	if _, err := ParseTheme(string(r.Theme)); err != nil {
		return err
	}
	return nil
}

type DiagramResponse struct {
	DiagramType DiagramType `json:"diagram_type"`
	Theme       Theme       `json:"theme"`
	Source      string      `json:"source"`
	// Fenced is false when no code fence was found and the whole reply was used.
	Fenced bool   `json:"fenced"`
	HTML   string `json:"html"`
}

type DiagramTypeInfo struct {
	Name               DiagramType `json:"name"`
	DefaultDescription string      `json:"default_description"`
}

type CatalogResponse struct {
	Types  []DiagramTypeInfo `json:"types"`
	Themes []Theme           `json:"themes"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
