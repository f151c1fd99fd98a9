package main

import "github.com/kdduha/aidiagram/internal/cli"

// @title AI Diagram Generator API
// @version 1.0
// @description Turns natural-language descriptions into Mermaid diagrams via an LLM endpoint.
// @BasePath /
func main() {
	cli.Execute()
}
