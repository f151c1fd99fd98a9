package cli

import (
	"fmt"
	"html/template"
	"os"

	"github.com/fatih/color"
	"github.com/kdduha/aidiagram/internal/config"
	"github.com/kdduha/aidiagram/internal/logger"
	"github.com/kdduha/aidiagram/internal/models"
	"github.com/spf13/cobra"
)

var generateOpts struct {
	diagramType string
	description string
	theme       string
	out         string
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the pipeline once and print the Mermaid source",
	Long: `generate runs a single diagram through the configured generation endpoint.
Without --description the type's default description is used. With --out the
result is written as a standalone HTML page that renders the diagram.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateOpts.diagramType, "type", "t", string(models.Flowchart), "Diagram type (Flowchart, Sequence Diagram, Class Diagram)")
	generateCmd.Flags().StringVarP(&generateOpts.description, "description", "d", "", "Natural-language description of the diagram")
	generateCmd.Flags().StringVar(&generateOpts.theme, "theme", string(models.ThemeDefault), "Mermaid theme (default, dark, forest, neutral)")
	generateCmd.Flags().StringVarP(&generateOpts.out, "out", "o", "", "Write a standalone HTML page to this file")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("logger error: %w", err)
	}
	defer func() { _ = log.Sync() }()

	a, err := newApp(cfg, log)
	if err != nil {
		return err
	}

	diagramType := models.DiagramType(generateOpts.diagramType)
	description := generateOpts.description
	if !cmd.Flags().Changed("description") {
		if description, err = a.registry.DefaultDescription(diagramType); err != nil {
			return err
		}
	}

	status := color.New(color.FgCyan)
	status.Fprintf(os.Stderr, "Generating %s with %s (%s)...\n", diagramType, cfg.Generation.Model, cfg.Generation.Provider)

	resp, err := a.service.Generate(ctx, "", &models.DiagramRequest{
		DiagramType: diagramType,
		Description: description,
		Theme:       models.Theme(generateOpts.theme),
	})
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Diagram generation failed: %v\n", err)
		return err
	}
	if !resp.Fenced {
		color.New(color.FgYellow).Fprintln(os.Stderr, "No code block in the reply, using the whole text")
	}

	if generateOpts.out == "" {
		fmt.Fprintln(cmd.OutOrStdout(), resp.Source)
		return nil
	}

	f, err := os.Create(generateOpts.out)
	if err != nil {
		return fmt.Errorf("create %s: %w", generateOpts.out, err)
	}
	defer f.Close()

	if err := a.renderer.Standalone(f, string(diagramType), template.HTML(resp.HTML)); err != nil {
		return fmt.Errorf("write %s: %w", generateOpts.out, err)
	}

	color.New(color.FgGreen).Fprintf(os.Stderr, "Diagram written to %s\n", generateOpts.out)
	return nil
}
