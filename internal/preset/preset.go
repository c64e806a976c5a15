// Package preset holds the strategy template catalog and the file
// import resolution. Both funnel into the deserializer: a preset or an
// uploaded file resolves to a serialized text plus its dialect.
package preset

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-designer/internal/serialize"
	"github.com/rxtech-lab/argo-designer/internal/types"
	"github.com/rxtech-lab/argo-designer/pkg/errors"
)

// Preset is a ready-made strategy template supplied at editor
// construction time.
type Preset struct {
	ID          string       `json:"id" yaml:"id" validate:"required"`
	Label       string       `json:"label" yaml:"label" validate:"required"`
	Description string       `json:"description" yaml:"description"`
	Format      types.Format `json:"format" yaml:"format" validate:"required,oneof=yaml python"`
	Content     string       `json:"content" yaml:"content" validate:"required"`
}

// Validate validates the preset record.
func (p *Preset) Validate() error {
	if err := validator.New().Struct(p); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, "invalid preset record", err)
	}

	return nil
}

// Catalog is an immutable preset collection keyed by id.
type Catalog struct {
	presets []Preset
	byID    map[string]Preset
}

// NewCatalog validates the records and builds a catalog. Order is
// preserved for display.
func NewCatalog(presets []Preset) (*Catalog, error) {
	byID := make(map[string]Preset, len(presets))

	for i := range presets {
		if err := presets[i].Validate(); err != nil {
			return nil, err
		}

		if _, exists := byID[presets[i].ID]; exists {
			return nil, errors.Newf(errors.ErrCodeInvalidConfig, "duplicate preset id %q", presets[i].ID)
		}

		byID[presets[i].ID] = presets[i]
	}

	return &Catalog{
		presets: append([]Preset{}, presets...),
		byID:    byID,
	}, nil
}

// Get returns the preset with the given id.
func (c *Catalog) Get(id string) (Preset, bool) {
	p, ok := c.byID[id]

	return p, ok
}

// List returns every preset in catalog order.
func (c *Catalog) List() []Preset {
	return append([]Preset{}, c.presets...)
}

// ImportedFile is a user-picked file handed to the editor by the host.
type ImportedFile struct {
	Name     string
	MimeType string
	Content  []byte
}

// Resolve turns an imported file into serialized text plus its dialect.
// A missing file (empty name) is treated by callers as a no-op; an
// empty body is an error.
func Resolve(file ImportedFile) (string, types.Format, error) {
	if strings.TrimSpace(string(file.Content)) == "" {
		return "", "", errors.New(errors.ErrCodeEmptyFile, "Le fichier est vide.")
	}

	return string(file.Content), serialize.DetectFormat(file.Name, file.MimeType), nil
}
