// Package designer is the public entry point of the strategy designer.
// Hosts hand it a Config, get back an Editor, and drive the editing
// operations from their own event loop.
package designer

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-designer/internal/editor"
	"github.com/rxtech-lab/argo-designer/internal/logger"
	"github.com/rxtech-lab/argo-designer/internal/persist"
	"github.com/rxtech-lab/argo-designer/internal/preset"
	"github.com/rxtech-lab/argo-designer/internal/types"
)

// Editor is the designer state machine.
type Editor = editor.Editor

// KeyStroke is a normalized keyboard event.
type KeyStroke = editor.KeyStroke

// Preset is a ready-made strategy template.
type Preset = preset.Preset

// ImportedFile is a user-picked strategy file.
type ImportedFile = preset.ImportedFile

// SaveRequest is the payload posted to the save endpoint.
type SaveRequest = persist.SaveRequest

// InitialStrategy hydrates the editor from a previously saved strategy.
type InitialStrategy struct {
	Name          string `json:"name,omitempty" yaml:"name,omitempty"`
	Source        string `json:"source,omitempty" yaml:"source,omitempty"`
	SourceFormat  string `json:"source_format,omitempty" yaml:"source_format,omitempty" jsonschema:"enum=yaml,enum=python"`
	Format        string `json:"format,omitempty" yaml:"format,omitempty" jsonschema:"enum=yaml,enum=python"`
	StatusMessage string `json:"status_message,omitempty" yaml:"status_message,omitempty"`
	StatusType    string `json:"status_type,omitempty" yaml:"status_type,omitempty" jsonschema:"enum=idle,enum=saving,enum=success,enum=error"`
}

// Config configures a designer instance. The zero value is usable:
// built-in presets, YAML output, and the default save endpoint.
type Config struct {
	SaveEndpoint    string           `json:"save_endpoint,omitempty" yaml:"save_endpoint,omitempty" jsonschema:"default=/strategies/save"`
	DefaultName     string           `json:"default_name,omitempty" yaml:"default_name,omitempty" jsonschema:"default=Nouvelle stratégie"`
	DefaultFormat   string           `json:"default_format,omitempty" yaml:"default_format,omitempty" jsonschema:"enum=yaml,enum=python,default=yaml"`
	Presets         []Preset         `json:"presets,omitempty" yaml:"presets,omitempty"`
	InitialStrategy *InitialStrategy `json:"initial_strategy,omitempty" yaml:"initial_strategy,omitempty"`
}

// New creates an editor from the given config. A nil logger falls back
// to a no-op logger.
func New(cfg Config, log *logger.Logger) (*Editor, error) {
	opts := editor.Options{
		SaveEndpoint:  cfg.SaveEndpoint,
		DefaultName:   cfg.DefaultName,
		DefaultFormat: types.Format(cfg.DefaultFormat),
		Presets:       cfg.Presets,
		Logger:        log,
	}

	if cfg.InitialStrategy != nil {
		opts.Initial = optional.Some(editor.InitialStrategy{
			Name:          cfg.InitialStrategy.Name,
			Source:        cfg.InitialStrategy.Source,
			SourceFormat:  types.Format(cfg.InitialStrategy.SourceFormat),
			Format:        types.Format(cfg.InitialStrategy.Format),
			StatusMessage: cfg.InitialStrategy.StatusMessage,
			StatusType:    types.Status(cfg.InitialStrategy.StatusType),
		})
	}

	return editor.New(opts)
}
