package preset

import (
	"testing"

	"github.com/rxtech-lab/argo-designer/internal/document"
	"github.com/rxtech-lab/argo-designer/internal/serialize"
	"github.com/rxtech-lab/argo-designer/internal/types"
	"github.com/rxtech-lab/argo-designer/internal/validate"
	"github.com/rxtech-lab/argo-designer/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog(t *testing.T) {
	catalog, err := NewCatalog(BuiltinPresets())
	require.NoError(t, err)

	list := catalog.List()
	require.Len(t, list, 2)
	assert.Equal(t, "momentum_breakout", list[0].ID)
	assert.Equal(t, "mean_reversion", list[1].ID)

	p, ok := catalog.Get("momentum_breakout")
	require.True(t, ok)
	assert.Equal(t, types.FormatYAML, p.Format)

	_, ok = catalog.Get("missing")
	assert.False(t, ok)
}

func TestNewCatalogRejectsInvalidRecords(t *testing.T) {
	tests := []struct {
		name    string
		presets []Preset
	}{
		{
			name:    "missing label",
			presets: []Preset{{ID: "x", Format: types.FormatYAML, Content: "name: x"}},
		},
		{
			name:    "bad format",
			presets: []Preset{{ID: "x", Label: "X", Format: "toml", Content: "name: x"}},
		},
		{
			name: "duplicate id",
			presets: []Preset{
				{ID: "x", Label: "X", Format: types.FormatYAML, Content: "name: x"},
				{ID: "x", Label: "Y", Format: types.FormatYAML, Content: "name: y"},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCatalog(tc.presets)
			assert.Error(t, err)
		})
	}
}

// Every built-in preset must parse cleanly and pass validation.
func TestBuiltinPresetsAreValid(t *testing.T) {
	for _, p := range BuiltinPresets() {
		t.Run(p.ID, func(t *testing.T) {
			minter := document.NewMinter()

			result := serialize.Deserialize(p.Content, p.Format, minter)
			require.Empty(t, result.Errors)
			require.True(t, result.Name.IsSome())
			assert.Equal(t, p.Label, result.Name.Unwrap())

			report := validate.Document(result.Document())
			assert.Empty(t, report.Errors)
			assert.True(t, report.Rule.IsSome())
		})
	}
}

func TestResolveFile(t *testing.T) {
	code, format, err := Resolve(ImportedFile{
		Name:    "strategy.py",
		Content: []byte("from argo.designer import Strategy"),
	})
	require.NoError(t, err)
	assert.Equal(t, types.FormatPython, format)
	assert.Contains(t, code, "Strategy")

	_, format, err = Resolve(ImportedFile{
		Name:    "strategy.yaml",
		Content: []byte("name: x"),
	})
	require.NoError(t, err)
	assert.Equal(t, types.FormatYAML, format)
}

func TestResolveEmptyFile(t *testing.T) {
	_, _, err := Resolve(ImportedFile{Name: "empty.yaml", Content: []byte("  \n")})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeEmptyFile))
	assert.Equal(t, "Le fichier est vide.", errors.GetMessage(err))
}
