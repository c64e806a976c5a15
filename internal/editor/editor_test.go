package editor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-designer/internal/document"
	"github.com/rxtech-lab/argo-designer/internal/persist"
	"github.com/rxtech-lab/argo-designer/internal/preset"
	"github.com/rxtech-lab/argo-designer/internal/serialize"
	"github.com/rxtech-lab/argo-designer/internal/types"
	"github.com/rxtech-lab/argo-designer/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEditor(t *testing.T) *Editor {
	t.Helper()

	e, err := New(Options{})
	require.NoError(t, err)

	return e
}

// mustDrop drops a block and returns the id of the created node (the
// drop selects it).
func mustDrop(t *testing.T, e *Editor, section types.Section, targetID string, key types.BlockKey) string {
	t.Helper()

	require.NoError(t, e.Drop(section, targetID, key))
	require.True(t, e.Selection().HasNode())

	return e.Selection().NodeID
}

func TestSaveBlockedOnEmptyDocument(t *testing.T) {
	e := newEditor(t)

	err := e.Save(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeSaveBlocked))
	assert.Equal(t, types.StatusError, e.Status().Kind)
	assert.Equal(t, "Corrigez la configuration avant d'enregistrer.", e.Status().Text)
	assert.False(t, e.Saving())
}

func TestMinimalValidStrategy(t *testing.T) {
	e := newEditor(t)

	conditionID := mustDrop(t, e, types.SectionConditions, "", types.BlockCondition)
	require.NoError(t, e.UpdateNodeConfig(types.SectionConditions, conditionID, types.Config{
		"field":    "close",
		"operator": "gt",
		"value":    100,
	}))

	mustDrop(t, e, types.SectionActions, "", types.BlockAction)

	report := e.Report()
	assert.Empty(t, report.Errors)
	require.True(t, report.Rule.IsSome())
	assert.Equal(t, "close > 100 ⇒ BUY x1", report.Rule.Unwrap())
}

func TestLogicWithIndicatorExpression(t *testing.T) {
	e := newEditor(t)

	logicID := mustDrop(t, e, types.SectionConditions, "", types.BlockLogic)
	conditionID := mustDrop(t, e, types.SectionConditions, logicID, types.BlockCondition)
	mustDrop(t, e, types.SectionConditions, conditionID, types.BlockIndicatorMACD)

	volumeID := mustDrop(t, e, types.SectionConditions, logicID, types.BlockMarketVolume)
	require.NoError(t, e.UpdateNodeConfig(types.SectionConditions, volumeID, types.Config{
		"operator":  "gt",
		"value":     150000,
		"timeframe": "1h",
	}))

	mustDrop(t, e, types.SectionActions, "", types.BlockAction)

	report := e.Report()
	assert.Empty(t, report.Errors)
	require.True(t, report.ConditionExpression.IsSome())
	assert.Equal(t, "(MACD(close, 12, 26, 9) > 0) ET (Volume > 150000)",
		report.ConditionExpression.Unwrap())
}

// Attaching an indicator to a condition blanks the condition's field:
// the indicator becomes the compared series.
func TestIndicatorDropClearsConditionField(t *testing.T) {
	e := newEditor(t)

	conditionID := mustDrop(t, e, types.SectionConditions, "", types.BlockCondition)
	mustDrop(t, e, types.SectionConditions, conditionID, types.BlockIndicatorMACD)

	condition := document.FindByID(e.Document().Conditions, conditionID)
	require.NotNil(t, condition)
	assert.Equal(t, "", condition.Config["field"])
	require.Len(t, condition.Children, 1)
}

func TestDropRejections(t *testing.T) {
	e := newEditor(t)

	conditionID := mustDrop(t, e, types.SectionConditions, "", types.BlockCondition)
	before := e.Document()

	// Action block in the conditions section.
	err := e.Drop(types.SectionConditions, "", types.BlockAction)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeTypeMismatch))
	assert.Equal(t, "Ce bloc ne peut pas être utilisé dans les conditions.", e.Status().Text)
	assert.True(t, before.Equal(e.Document()))

	// Action block onto a condition node: the section mismatch wins
	// over the target check, so the message names the section.
	err = e.Drop(types.SectionConditions, conditionID, types.BlockAction)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeTypeMismatch))
	assert.Equal(t, "Ce bloc ne peut pas être utilisé dans les conditions.", e.Status().Text)
	assert.True(t, before.Equal(e.Document()))

	// Condition block under a condition (only indicators are accepted).
	err = e.Drop(types.SectionConditions, conditionID, types.BlockCondition)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeTypeMismatch))
	assert.Equal(t, "La cible ne peut pas contenir ce type de bloc.", e.Status().Text)
	assert.True(t, before.Equal(e.Document()))

	// Rejections never create history frames beyond the initial drop.
	e.Undo()
	assert.Empty(t, e.Document().Conditions)
	assert.False(t, e.CanUndo())
}

func TestPresetRoundTrip(t *testing.T) {
	e := newEditor(t)

	mustDrop(t, e, types.SectionConditions, "", types.BlockCondition)
	require.True(t, e.CanUndo())

	require.NoError(t, e.ApplyPreset("momentum_breakout"))
	assert.Equal(t, "Momentum breakout", e.Name())
	assert.Equal(t, types.FormatYAML, e.Format())
	assert.Equal(t, types.StatusSuccess, e.Status().Kind)
	assert.Equal(t, "Modèle « Momentum breakout » chargé.", e.Status().Text)

	// Loading a preset resets the undo stack and clears selection.
	assert.False(t, e.CanUndo())
	assert.Nil(t, e.Selection())

	report := e.Report()
	assert.Empty(t, report.Errors)

	// Serializing and re-reading the loaded document yields the same
	// shape.
	source, err := e.Source()
	require.NoError(t, err)

	result := serialize.Deserialize(source, e.Format(), document.NewMinter())
	require.Empty(t, result.Errors)
	assert.True(t, e.Document().ShapeEqual(result.Document()))
}

func TestApplyPresetUnknown(t *testing.T) {
	e := newEditor(t)

	err := e.ApplyPreset("missing")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodePresetNotFound))
	assert.Equal(t, types.StatusError, e.Status().Kind)
}

func TestUndoRedoCopyPaste(t *testing.T) {
	e := newEditor(t)

	logicID := mustDrop(t, e, types.SectionConditions, "", types.BlockLogic)
	conditionID := mustDrop(t, e, types.SectionConditions, logicID, types.BlockCondition)

	// Copy the condition, then paste it under the logic block.
	require.NoError(t, e.Select(types.SectionConditions, conditionID))
	require.NoError(t, e.Copy())
	require.NotNil(t, e.Clipboard())

	require.NoError(t, e.Select(types.SectionConditions, logicID))
	require.NoError(t, e.Paste())

	logic := document.FindByID(e.Document().Conditions, logicID)
	require.NotNil(t, logic)
	require.Len(t, logic.Children, 2)

	// The paste selected the new node and minted a fresh id.
	pastedID := e.Selection().NodeID
	assert.NotEqual(t, conditionID, pastedID)

	// Undo removes the pasted child and drops the dangling selection.
	e.Undo()
	logic = document.FindByID(e.Document().Conditions, logicID)
	require.Len(t, logic.Children, 1)
	assert.Nil(t, e.Selection())

	// Redo restores the exact frame, pasted id included, and the
	// selection resurfaces with its node.
	e.Redo()
	logic = document.FindByID(e.Document().Conditions, logicID)
	require.Len(t, logic.Children, 2)
	assert.Equal(t, pastedID, logic.Children[1].ID)
	require.NotNil(t, e.Selection())
	assert.Equal(t, pastedID, e.Selection().NodeID)

	// The clipboard survives paste and undo.
	assert.NotNil(t, e.Clipboard())
}

// A selection pointing at a node absent from the current frame is
// hidden, not forgotten: undo hides it, redo brings it back.
func TestSelectionSurvivesUndoRedo(t *testing.T) {
	e := newEditor(t)

	conditionID := mustDrop(t, e, types.SectionConditions, "", types.BlockCondition)
	require.NoError(t, e.Select(types.SectionConditions, conditionID))

	e.Undo()
	assert.Nil(t, e.Selection())

	e.Redo()
	require.NotNil(t, e.Selection())
	assert.Equal(t, conditionID, e.Selection().NodeID)

	// While hidden, selection-dependent commands refuse to act.
	e.Undo()
	err := e.Copy()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidSelection))
}

func TestPasteEmptyClipboard(t *testing.T) {
	e := newEditor(t)

	err := e.Paste()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeEmptyClipboard))
	assert.Equal(t, "Le presse-papiers est vide.", e.Status().Text)
}

func TestPasteSectionMismatch(t *testing.T) {
	e := newEditor(t)

	actionID := mustDrop(t, e, types.SectionActions, "", types.BlockAction)
	require.NoError(t, e.Select(types.SectionActions, actionID))
	require.NoError(t, e.Copy())

	require.NoError(t, e.Select(types.SectionConditions, ""))

	err := e.Paste()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeTypeMismatch))
	assert.Equal(t, "Ce bloc ne peut pas être utilisé dans les conditions.", e.Status().Text)

	// Same refusal when a condition node is selected as the target.
	conditionID := mustDrop(t, e, types.SectionConditions, "", types.BlockCondition)
	require.NoError(t, e.Select(types.SectionConditions, conditionID))

	err = e.Paste()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeTypeMismatch))
	assert.Equal(t, "Ce bloc ne peut pas être utilisé dans les conditions.", e.Status().Text)
}

// Pasting with no selection falls back to the clipboard's own section.
func TestPasteWithoutSelection(t *testing.T) {
	e := newEditor(t)

	actionID := mustDrop(t, e, types.SectionActions, "", types.BlockAction)
	require.NoError(t, e.Select(types.SectionActions, actionID))
	require.NoError(t, e.Copy())
	e.ClearSelection()

	require.NoError(t, e.Paste())
	assert.Len(t, e.Document().Actions, 2)
}

func TestDuplicate(t *testing.T) {
	e := newEditor(t)

	logicID := mustDrop(t, e, types.SectionConditions, "", types.BlockLogic)
	conditionID := mustDrop(t, e, types.SectionConditions, logicID, types.BlockCondition)
	mustDrop(t, e, types.SectionConditions, conditionID, types.BlockIndicatorMACD)

	require.NoError(t, e.Select(types.SectionConditions, conditionID))
	require.NoError(t, e.Duplicate())

	logic := document.FindByID(e.Document().Conditions, logicID)
	require.Len(t, logic.Children, 2)

	// The clone sits right after its source, deep-copied with fresh ids.
	original, clone := logic.Children[0], logic.Children[1]
	assert.Equal(t, conditionID, original.ID)
	assert.NotEqual(t, original.ID, clone.ID)
	require.Len(t, clone.Children, 1)
	assert.NotEqual(t, original.Children[0].ID, clone.Children[0].ID)
	assert.True(t, original.ShapeEqual(clone))

	// The duplicate is selected and lands on the clipboard.
	assert.Equal(t, clone.ID, e.Selection().NodeID)
	require.NotNil(t, e.Clipboard())
	assert.Equal(t, types.BlockCondition, e.Clipboard().Type)
}

func TestRemoveSelected(t *testing.T) {
	e := newEditor(t)

	conditionID := mustDrop(t, e, types.SectionConditions, "", types.BlockCondition)
	require.NoError(t, e.Select(types.SectionConditions, conditionID))
	require.NoError(t, e.RemoveSelected())

	assert.Empty(t, e.Document().Conditions)
	assert.Nil(t, e.Selection())

	err := e.RemoveSelected()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidSelection))
}

func TestHandleKey(t *testing.T) {
	e := newEditor(t)

	conditionID := mustDrop(t, e, types.SectionConditions, "", types.BlockCondition)

	// Unmodified strokes are never consumed.
	assert.False(t, e.HandleKey(KeyStroke{Key: "z"}))

	// Undo, then redo through both bindings.
	assert.True(t, e.HandleKey(KeyStroke{Key: "z", Mod: true}))
	assert.Empty(t, e.Document().Conditions)
	assert.False(t, e.HandleKey(KeyStroke{Key: "z", Mod: true}))

	assert.True(t, e.HandleKey(KeyStroke{Key: "z", Mod: true, Shift: true}))
	assert.Len(t, e.Document().Conditions, 1)

	assert.True(t, e.HandleKey(KeyStroke{Key: "z", Mod: true}))
	assert.True(t, e.HandleKey(KeyStroke{Key: "y", Mod: true}))
	assert.Len(t, e.Document().Conditions, 1)

	// Copy requires a selected node, paste a non-empty clipboard.
	assert.False(t, e.HandleKey(KeyStroke{Key: "c", Mod: true}))
	assert.False(t, e.HandleKey(KeyStroke{Key: "v", Mod: true}))

	require.NoError(t, e.Select(types.SectionConditions, conditionID))
	assert.True(t, e.HandleKey(KeyStroke{Key: "c", Mod: true}))

	e.ClearSelection()
	assert.True(t, e.HandleKey(KeyStroke{Key: "v", Mod: true}))
	assert.Len(t, e.Document().Conditions, 2)

	// Duplicate the pasted node (it is selected).
	assert.True(t, e.HandleKey(KeyStroke{Key: "d", Mod: true}))
	assert.Len(t, e.Document().Conditions, 3)
}

func TestSaveFlow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "7"}`))
	}))
	defer server.Close()

	e, err := New(Options{SaveEndpoint: server.URL})
	require.NoError(t, err)

	conditionID := mustDrop(t, e, types.SectionConditions, "", types.BlockCondition)
	require.NoError(t, e.UpdateNodeConfig(types.SectionConditions, conditionID, types.Config{
		"field":    "close",
		"operator": "gt",
		"value":    100,
	}))
	mustDrop(t, e, types.SectionActions, "", types.BlockAction)

	require.NoError(t, e.Save(context.Background()))
	assert.Equal(t, types.StatusSuccess, e.Status().Kind)
	assert.Equal(t, "Stratégie enregistrée avec succès.", e.Status().Text)
	assert.False(t, e.Saving())

	require.True(t, e.LastResponse().IsSome())
	payload, ok := e.LastResponse().Unwrap().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "7", payload["id"])
}

func TestSaveReentrancyGuard(t *testing.T) {
	e := newEditor(t)

	conditionID := mustDrop(t, e, types.SectionConditions, "", types.BlockCondition)
	require.NoError(t, e.UpdateNodeConfig(types.SectionConditions, conditionID, types.Config{
		"field":    "close",
		"operator": "gt",
		"value":    100,
	}))
	mustDrop(t, e, types.SectionActions, "", types.BlockAction)

	_, err := e.PrepareSave()
	require.NoError(t, err)
	assert.True(t, e.Saving())
	assert.Equal(t, types.StatusSaving, e.Status().Kind)

	_, err = e.PrepareSave()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeSaveInFlight))

	e.CompleteSave(persist.SaveResult{
		Status:  types.StatusSuccess,
		Message: "Stratégie enregistrée avec succès.",
	})
	assert.False(t, e.Saving())
}

func TestImportFile(t *testing.T) {
	e := newEditor(t)

	mustDrop(t, e, types.SectionConditions, "", types.BlockCondition)

	content := []byte(`name: Importée
rules:
  - when:
      all:
        - field: close
          operator: lt
          value: 50
    signal:
      action: sell
      size: 2
      steps:
        - type: order
          action: sell
          size: 2
`)

	require.NoError(t, e.ImportFile(preset.ImportedFile{Name: "strategie.yaml", Content: content}))
	assert.Equal(t, "Importée", e.Name())
	assert.Equal(t, types.FormatYAML, e.Format())
	assert.Equal(t, "Fichier « strategie.yaml » importé.", e.Status().Text)
	assert.False(t, e.CanUndo())
	assert.Nil(t, e.Clipboard())

	report := e.Report()
	require.True(t, report.Rule.IsSome())
	assert.Equal(t, "close < 50 ⇒ SELL x2", report.Rule.Unwrap())
}

func TestImportFileErrors(t *testing.T) {
	e := newEditor(t)

	// A zero-value file is a no-op.
	require.NoError(t, e.ImportFile(preset.ImportedFile{}))

	err := e.ImportFile(preset.ImportedFile{Name: "vide.yaml", Content: []byte("   ")})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeEmptyFile))
	assert.Equal(t, "Le fichier est vide.", e.Status().Text)

	err = e.ImportFile(preset.ImportedFile{Name: "casse.py", Content: []byte("def broken(:")})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeImportFailed))
	assert.Equal(t, types.StatusError, e.Status().Kind)
}

func TestInitialStrategyHydration(t *testing.T) {
	source := `name: Reprise
rules:
  - when:
      all:
        - field: close
          operator: gt
          value: 10
    signal:
      action: buy
      size: 1
      steps:
        - type: order
          action: buy
          size: 1
`

	e, err := New(Options{
		Initial: optional.Some(InitialStrategy{
			Source:       source,
			SourceFormat: types.FormatYAML,
			Format:       types.FormatPython,
		}),
	})
	require.NoError(t, err)

	assert.Equal(t, "Reprise", e.Name())
	assert.Equal(t, types.FormatPython, e.Format())
	assert.Len(t, e.Document().Conditions, 1)
	assert.False(t, e.CanUndo())
}

func TestInitialStrategyStatusPassthrough(t *testing.T) {
	e, err := New(Options{
		Initial: optional.Some(InitialStrategy{
			Name:          "Brouillon",
			StatusMessage: "Brouillon restauré.",
			StatusType:    types.StatusSuccess,
		}),
	})
	require.NoError(t, err)

	assert.Equal(t, "Brouillon", e.Name())
	assert.Equal(t, types.StatusSuccess, e.Status().Kind)
	assert.Equal(t, "Brouillon restauré.", e.Status().Text)
}

func TestSetFormat(t *testing.T) {
	e := newEditor(t)

	require.NoError(t, e.SetFormat(types.FormatPython))
	assert.Equal(t, types.FormatPython, e.Format())

	err := e.SetFormat("toml")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeUnsupportedFormat))
}
