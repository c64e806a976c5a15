package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/invopop/jsonschema"
	"github.com/rxtech-lab/argo-designer/internal/logger"
	"github.com/rxtech-lab/argo-designer/internal/server"
	"github.com/rxtech-lab/argo-designer/internal/version"
	"github.com/rxtech-lab/argo-designer/pkg/designer"
	"github.com/urfave/cli/v3"
)

// editAction starts the interactive designer TUI.
func editAction(ctx context.Context, cmd *cli.Command) error {
	var editorLogger *logger.Logger

	// The TUI owns the terminal; keep logs silent unless asked for.
	editorLogger = logger.NewNopLogger()
	if cmd.Bool("verbose") {
		debugLogger, err := logger.NewDebugLogger()
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}

		editorLogger = debugLogger
	}

	cfg := designer.Config{
		SaveEndpoint:  cmd.String("endpoint"),
		DefaultName:   cmd.String("name"),
		DefaultFormat: cmd.String("format"),
	}

	editor, err := designer.New(cfg, editorLogger)
	if err != nil {
		return fmt.Errorf("failed to create designer: %w", err)
	}

	// --import loads a strategy file before the TUI starts.
	if path := cmd.String("import"); path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		if err := editor.ImportFile(designer.ImportedFile{Name: path, Content: content}); err != nil {
			return fmt.Errorf("failed to import %s: %w", path, err)
		}
	}

	program := tea.NewProgram(NewModel(editor), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("designer exited with error: %w", err)
	}

	return nil
}

// serveAction runs the demo save service.
func serveAction(ctx context.Context, cmd *cli.Command) error {
	serverLogger, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = serverLogger.Sync() }()

	return server.New(serverLogger).ListenAndServe(cmd.String("addr"))
}

// schemaAction prints the JSON schema of the designer config or the
// save payload.
func schemaAction(ctx context.Context, cmd *cli.Command) error {
	var schema *jsonschema.Schema

	switch target := cmd.String("target"); target {
	case "config":
		schema = jsonschema.Reflect(&designer.Config{})
	case "save-request":
		schema = jsonschema.Reflect(&designer.SaveRequest{})
	default:
		return fmt.Errorf("unknown schema target %q (want config or save-request)", target)
	}

	output, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	fmt.Println(string(output))

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:    "designer",
		Usage:   "Visual strategy designer for the trading dashboard",
		Version: version.Version,
		Commands: []*cli.Command{
			{
				Name:  "edit",
				Usage: "Open the interactive strategy designer",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "endpoint",
						Aliases: []string{"e"},
						Usage:   "Save service endpoint",
						Value:   "http://localhost:8089/strategies/save",
					},
					&cli.StringFlag{
						Name:    "name",
						Aliases: []string{"n"},
						Usage:   "Initial strategy name",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output dialect (yaml or python)",
						Value:   "yaml",
					},
					&cli.StringFlag{
						Name:    "import",
						Aliases: []string{"i"},
						Usage:   "Strategy file to load on startup",
					},
					&cli.BoolFlag{
						Name:  "verbose",
						Usage: "Enable debug logging",
					},
				},
				Action: editAction,
			},
			{
				Name:  "serve",
				Usage: "Run the demo save service",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "addr",
						Aliases: []string{"a"},
						Usage:   "Listen address",
						Value:   ":8089",
					},
				},
				Action: serveAction,
			},
			{
				Name:  "schema",
				Usage: "Print a JSON schema",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "target",
						Aliases: []string{"t"},
						Usage:   "Schema to print (config or save-request)",
						Value:   "config",
					},
				},
				Action: schemaAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
