// Package editor is the strategy designer state machine. It owns the
// history, selection, clipboard, name, format, and status, and exposes
// the operations the hosts (TUI, demo server) drive: drop, configure,
// remove, copy/paste/duplicate, undo/redo, preset load, file import,
// and save.
//
// The editor is not safe for concurrent use; hosts run it on a single
// loop and perform the save network call off-loop through PrepareSave
// and CompleteSave.
package editor

import (
	"context"
	"fmt"
	"strings"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-designer/internal/catalog"
	"github.com/rxtech-lab/argo-designer/internal/document"
	"github.com/rxtech-lab/argo-designer/internal/history"
	"github.com/rxtech-lab/argo-designer/internal/logger"
	"github.com/rxtech-lab/argo-designer/internal/persist"
	"github.com/rxtech-lab/argo-designer/internal/preset"
	"github.com/rxtech-lab/argo-designer/internal/serialize"
	"github.com/rxtech-lab/argo-designer/internal/types"
	"github.com/rxtech-lab/argo-designer/internal/validate"
	"github.com/rxtech-lab/argo-designer/pkg/errors"
	"go.uber.org/zap"
)

const (
	// DefaultName is the strategy name before the user sets one.
	DefaultName = "Nouvelle stratégie"
	// DefaultSaveEndpoint is the save service path used when the host
	// does not configure one.
	DefaultSaveEndpoint = "/strategies/save"

	messageClipboardEmpty = "Le presse-papiers est vide."
	messageTargetRejected = "La cible ne peut pas contenir ce type de bloc."
	messageSaveBlocked    = "Corrigez la configuration avant d'enregistrer."
	messageSaveInFlight   = "Un enregistrement est déjà en cours."
	messageSaving         = "Enregistrement en cours…"
)

// InitialStrategy hydrates the editor from a previously saved strategy.
type InitialStrategy struct {
	Name          string
	Source        string
	SourceFormat  types.Format
	Format        types.Format
	StatusMessage string
	StatusType    types.Status
}

// Options configures a new editor.
type Options struct {
	SaveEndpoint  string
	DefaultName   string
	DefaultFormat types.Format
	Presets       []preset.Preset
	Initial       optional.Option[InitialStrategy]
	Logger        *logger.Logger
}

// Editor holds the complete designer state.
type Editor struct {
	logger  *logger.Logger
	minter  *document.Minter
	presets *preset.Catalog
	saver   *persist.Client

	name         string
	format       types.Format
	history      history.History
	selection    *types.Selection
	clipboard    *types.ClipboardNode
	status       types.StatusMessage
	lastResponse optional.Option[any]
	presetID     optional.Option[string]
	saving       bool
}

// New creates an editor, loading presets and hydrating the initial
// strategy when one is supplied.
func New(opts Options) (*Editor, error) {
	if opts.Logger == nil {
		opts.Logger = logger.NewNopLogger()
	}

	if opts.SaveEndpoint == "" {
		opts.SaveEndpoint = DefaultSaveEndpoint
	}

	if opts.DefaultName == "" {
		opts.DefaultName = DefaultName
	}

	if opts.DefaultFormat == "" {
		opts.DefaultFormat = types.FormatYAML
	}

	presets := opts.Presets
	if presets == nil {
		presets = preset.BuiltinPresets()
	}

	presetCatalog, err := preset.NewCatalog(presets)
	if err != nil {
		return nil, err
	}

	e := &Editor{
		logger:  opts.Logger,
		minter:  document.NewMinter(),
		presets: presetCatalog,
		saver:   persist.NewClient(opts.SaveEndpoint, opts.Logger),
		name:    opts.DefaultName,
		format:  opts.DefaultFormat,
		history: history.New(types.NewDocument()),
		status:  types.StatusMessage{Kind: types.StatusIdle},
	}

	if opts.Initial.IsSome() {
		e.hydrateInitial(opts.Initial.Unwrap())
	}

	return e, nil
}

// hydrateInitial applies the initial strategy bundle: the source is
// parsed like an import, and the bundle's own status message wins over
// anything the hydration would set.
func (e *Editor) hydrateInitial(initial InitialStrategy) {
	if initial.Name != "" {
		e.name = initial.Name
	}

	if initial.Format != "" {
		e.format = initial.Format
	}

	if initial.Source != "" {
		sourceFormat := initial.SourceFormat
		if sourceFormat == "" {
			sourceFormat = e.format
		}

		result := serialize.Deserialize(initial.Source, sourceFormat, e.minter)
		if result.OK() {
			e.history = history.New(result.Document())

			if initial.Name == "" && result.Name.IsSome() {
				e.name = result.Name.Unwrap()
			}
		} else {
			e.status = types.StatusMessage{Kind: types.StatusError, Text: result.Errors[0]}
			e.logger.Warn("initial strategy failed to parse",
				zap.Strings("errors", result.Errors))
		}
	}

	if initial.StatusMessage != "" {
		kind := initial.StatusType
		if kind == "" {
			kind = types.StatusIdle
		}

		e.status = types.StatusMessage{Kind: kind, Text: initial.StatusMessage}
	}
}

// Document returns the present document.
func (e *Editor) Document() types.Document {
	return e.history.Present
}

// Name returns the strategy name.
func (e *Editor) Name() string {
	return e.name
}

// SetName sets the strategy name. Name edits are not undoable.
func (e *Editor) SetName(name string) {
	e.name = name
}

// Format returns the serialization dialect.
func (e *Editor) Format() types.Format {
	return e.format
}

// SetFormat switches the serialization dialect.
func (e *Editor) SetFormat(format types.Format) error {
	if format != types.FormatYAML && format != types.FormatPython {
		return errors.Newf(errors.ErrCodeUnsupportedFormat, "format « %s » non pris en charge", format)
	}

	e.format = format

	return nil
}

// Selection returns the current selection reconciled against the
// present document: a node selection whose node is absent from the
// present frame reads as nil. The stored selection itself is never
// overwritten by frame changes, so redoing a frame that re-instates
// the node makes the selection visible again.
func (e *Editor) Selection() *types.Selection {
	return history.Reconcile(e.selection, e.history.Present)
}

// Clipboard returns the clipboard payload, nil when empty.
func (e *Editor) Clipboard() *types.ClipboardNode {
	return e.clipboard
}

// Status returns the current status message.
func (e *Editor) Status() types.StatusMessage {
	return e.status
}

// LastResponse returns the last save response payload, if any.
func (e *Editor) LastResponse() optional.Option[any] {
	return e.lastResponse
}

// Presets returns the preset catalog in display order.
func (e *Editor) Presets() []preset.Preset {
	return e.presets.List()
}

// SaveClient returns the save client, so hosts can run the network
// call off their event loop between PrepareSave and CompleteSave.
func (e *Editor) SaveClient() *persist.Client {
	return e.saver
}

// Report validates the present document.
func (e *Editor) Report() validate.Report {
	return validate.Document(e.history.Present)
}

// CanUndo reports whether an undo frame is available.
func (e *Editor) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo reports whether a redo frame is available.
func (e *Editor) CanRedo() bool {
	return e.history.CanRedo()
}

// Saving reports whether a save is in flight.
func (e *Editor) Saving() bool {
	return e.saving
}

// Source serializes the present document in the current dialect.
func (e *Editor) Source() (string, error) {
	return serialize.Serialize(e.history.Present, e.format, serialize.Options{
		Name:   strings.TrimSpace(e.name),
		Preset: e.presetID,
	})
}

// apply pushes the next document onto the history. The stored
// selection is left alone; Selection reconciles it lazily, so a node
// selection hidden by an undo resurfaces when a redo brings the node
// back.
func (e *Editor) apply(next types.Document) {
	e.history = e.history.Push(next)
}

// fail records an error status and returns the matching structured
// error.
func (e *Editor) fail(code errors.ErrorCode, message string) error {
	e.status = types.StatusMessage{Kind: types.StatusError, Text: message}

	return errors.New(code, message)
}

// sectionMismatchMessage names the section the block cannot live in.
func sectionMismatchMessage(section types.Section) string {
	return fmt.Sprintf("Ce bloc ne peut pas être utilisé dans les %s.", section)
}

// Drop inserts a new block of the given type: at the section top level
// when targetID is empty, under the target node otherwise. Category and
// accept-list mismatches leave the document untouched and surface an
// error status.
func (e *Editor) Drop(section types.Section, targetID string, key types.BlockKey) error {
	def, known := catalog.Definition(key)
	if !known {
		return e.fail(errors.ErrCodeUnknownType, fmt.Sprintf("type « %s » inconnu", key))
	}

	forest := e.history.Present.Forest(section)

	var target *types.Node

	// The category check comes first: a block that does not belong to
	// the section is refused before any target is considered.
	if def.Category != section {
		return e.fail(errors.ErrCodeTypeMismatch, sectionMismatchMessage(section))
	}

	if targetID != "" {
		target = document.FindByID(forest, targetID)
		if target == nil {
			return e.fail(errors.ErrCodeNodeNotFound, fmt.Sprintf("bloc « %s » introuvable", targetID))
		}

		if !catalog.Accepts(target.Type, key) {
			return e.fail(errors.ErrCodeTypeMismatch, messageTargetRejected)
		}
	}

	node := document.NewNode(e.minter, key)
	forest = document.AppendChild(forest, targetID, node)
	forest = e.clearIndicatorField(forest, target, key)

	e.apply(e.history.Present.WithForest(section, forest))
	e.selection = &types.Selection{Section: section, NodeID: node.ID}
	e.status = types.StatusMessage{Kind: types.StatusIdle}

	return nil
}

// clearIndicatorField blanks a condition's field when an indicator
// child is attached: the indicator becomes the compared series, and a
// leftover textual field would survive a serialization round trip
// otherwise.
func (e *Editor) clearIndicatorField(forest []*types.Node, parent *types.Node, childKey types.BlockKey) []*types.Node {
	if parent == nil || parent.Type != types.BlockCondition || !catalog.IsIndicator(childKey) {
		return forest
	}

	config := parent.Config.Clone()
	config["field"] = ""

	return document.UpdateConfig(forest, parent.ID, config)
}

// Select points the selection at a node, or at a whole section when
// nodeID is empty.
func (e *Editor) Select(section types.Section, nodeID string) error {
	if nodeID != "" && !document.ContainsID(e.history.Present.Forest(section), nodeID) {
		return errors.Newf(errors.ErrCodeInvalidSelection, "bloc « %s » introuvable", nodeID)
	}

	e.selection = &types.Selection{Section: section, NodeID: nodeID}

	return nil
}

// ClearSelection drops the selection.
func (e *Editor) ClearSelection() {
	e.selection = nil
}

// UpdateNodeConfig replaces the identified node's config.
func (e *Editor) UpdateNodeConfig(section types.Section, nodeID string, config types.Config) error {
	forest := e.history.Present.Forest(section)
	if !document.ContainsID(forest, nodeID) {
		return errors.Newf(errors.ErrCodeNodeNotFound, "bloc « %s » introuvable", nodeID)
	}

	e.apply(e.history.Present.WithForest(section, document.UpdateConfig(forest, nodeID, config)))

	return nil
}

// Remove deletes the identified node and its subtree.
func (e *Editor) Remove(section types.Section, nodeID string) error {
	forest := e.history.Present.Forest(section)
	if !document.ContainsID(forest, nodeID) {
		return errors.Newf(errors.ErrCodeNodeNotFound, "bloc « %s » introuvable", nodeID)
	}

	e.apply(e.history.Present.WithForest(section, document.Remove(forest, nodeID)))

	return nil
}

// RemoveSelected deletes the selected node.
func (e *Editor) RemoveSelected() error {
	sel := e.Selection()
	if !sel.HasNode() {
		return errors.New(errors.ErrCodeInvalidSelection, "aucun bloc sélectionné")
	}

	return e.Remove(sel.Section, sel.NodeID)
}

// Copy captures the selected subtree onto the clipboard.
func (e *Editor) Copy() error {
	sel := e.Selection()
	if !sel.HasNode() {
		return errors.New(errors.ErrCodeInvalidSelection, "aucun bloc sélectionné")
	}

	node := document.FindByID(e.history.Present.Forest(sel.Section), sel.NodeID)
	if node == nil {
		return errors.Newf(errors.ErrCodeNodeNotFound, "bloc « %s » introuvable", sel.NodeID)
	}

	payload := types.CaptureClipboard(node)
	e.clipboard = &payload

	return nil
}

// Paste rehydrates the clipboard with fresh ids and appends it under
// the selected node, or at the selected (or clipboard-implied) section
// top level. The clipboard survives the paste.
func (e *Editor) Paste() error {
	if e.clipboard == nil {
		return e.fail(errors.ErrCodeEmptyClipboard, messageClipboardEmpty)
	}

	def, known := catalog.Definition(e.clipboard.Type)
	if !known {
		return e.fail(errors.ErrCodeUnknownType, fmt.Sprintf("type « %s » inconnu", e.clipboard.Type))
	}

	section := def.Category

	var target *types.Node

	if sel := e.Selection(); sel != nil {
		section = sel.Section

		// The category check comes first: a payload that does not
		// belong to the section is refused before any target is
		// considered.
		if def.Category != section {
			return e.fail(errors.ErrCodeTypeMismatch, sectionMismatchMessage(section))
		}

		if sel.HasNode() {
			target = document.FindByID(e.history.Present.Forest(section), sel.NodeID)
			if target == nil {
				return e.fail(errors.ErrCodeNodeNotFound, fmt.Sprintf("bloc « %s » introuvable", sel.NodeID))
			}

			if !catalog.Accepts(target.Type, e.clipboard.Type) {
				return e.fail(errors.ErrCodeTypeMismatch, messageTargetRejected)
			}
		}
	}

	node := document.Rehydrate(e.minter, *e.clipboard)

	forest := e.history.Present.Forest(section)

	parentID := ""
	if target != nil {
		parentID = target.ID
	}

	forest = document.AppendChild(forest, parentID, node)
	forest = e.clearIndicatorField(forest, target, e.clipboard.Type)

	e.apply(e.history.Present.WithForest(section, forest))
	e.selection = &types.Selection{Section: section, NodeID: node.ID}
	e.status = types.StatusMessage{Kind: types.StatusIdle}

	return nil
}

// Duplicate clones the selected subtree with fresh ids, inserts the
// clone right after its source, and leaves the captured payload on the
// clipboard.
func (e *Editor) Duplicate() error {
	sel := e.Selection()
	if !sel.HasNode() {
		return errors.New(errors.ErrCodeInvalidSelection, "aucun bloc sélectionné")
	}

	section := sel.Section

	node := document.FindByID(e.history.Present.Forest(section), sel.NodeID)
	if node == nil {
		return errors.Newf(errors.ErrCodeNodeNotFound, "bloc « %s » introuvable", sel.NodeID)
	}

	payload := types.CaptureClipboard(node)
	clone := document.Rehydrate(e.minter, payload)

	forest := document.InsertAfterSibling(e.history.Present.Forest(section), node.ID, clone)

	e.apply(e.history.Present.WithForest(section, forest))
	e.selection = &types.Selection{Section: section, NodeID: clone.ID}
	e.clipboard = &payload

	return nil
}

// Undo restores the previous document frame.
func (e *Editor) Undo() {
	e.history = e.history.Undo()
}

// Redo restores the next document frame.
func (e *Editor) Redo() {
	e.history = e.history.Redo()
}

// ApplyPreset loads a template: the document is replaced, the history
// is reset, and selection and clipboard are cleared.
func (e *Editor) ApplyPreset(id string) error {
	p, ok := e.presets.Get(id)
	if !ok {
		return e.fail(errors.ErrCodePresetNotFound, fmt.Sprintf("Modèle « %s » introuvable.", id))
	}

	result := serialize.Deserialize(p.Content, p.Format, e.minter)
	if !result.OK() {
		return e.fail(errors.ErrCodeImportFailed, result.Errors[0])
	}

	e.history = e.history.SetPresent(result.Document(), true)
	e.selection = nil
	e.clipboard = nil
	e.format = p.Format
	e.presetID = optional.Some(p.ID)

	if result.Name.IsSome() {
		e.name = result.Name.Unwrap()
	} else {
		e.name = p.Label
	}

	e.status = types.StatusMessage{
		Kind: types.StatusSuccess,
		Text: fmt.Sprintf("Modèle « %s » chargé.", p.Label),
	}

	e.logger.Info("preset loaded", zap.String("preset", p.ID))

	return nil
}

// ImportFile loads a user-picked strategy file. A zero-value file is a
// no-op.
func (e *Editor) ImportFile(file preset.ImportedFile) error {
	if file.Name == "" && len(file.Content) == 0 {
		return nil
	}

	code, format, err := preset.Resolve(file)
	if err != nil {
		return e.fail(errors.GetCode(err), errors.GetMessage(err))
	}

	result := serialize.Deserialize(code, format, e.minter)
	if !result.OK() {
		return e.fail(errors.ErrCodeImportFailed, result.Errors[0])
	}

	e.history = e.history.SetPresent(result.Document(), true)
	e.selection = nil
	e.clipboard = nil
	e.format = format
	e.presetID = optional.None[string]()

	if result.Name.IsSome() {
		e.name = result.Name.Unwrap()
	}

	e.status = types.StatusMessage{
		Kind: types.StatusSuccess,
		Text: fmt.Sprintf("Fichier « %s » importé.", file.Name),
	}

	e.logger.Info("file imported",
		zap.String("file", file.Name),
		zap.String("format", string(format)))

	return nil
}

// PrepareSave validates and serializes the present document and marks a
// save in flight. The returned request is posted off-loop; the outcome
// is applied with CompleteSave.
func (e *Editor) PrepareSave() (persist.SaveRequest, error) {
	if e.saving {
		return persist.SaveRequest{}, e.fail(errors.ErrCodeSaveInFlight, messageSaveInFlight)
	}

	if !e.Report().IsValid() || strings.TrimSpace(e.name) == "" {
		return persist.SaveRequest{}, e.fail(errors.ErrCodeSaveBlocked, messageSaveBlocked)
	}

	code, err := e.Source()
	if err != nil {
		return persist.SaveRequest{}, e.fail(errors.GetCode(err), errors.GetMessage(err))
	}

	e.saving = true
	e.status = types.StatusMessage{Kind: types.StatusSaving, Text: messageSaving}

	return persist.SaveRequest{
		Name:   strings.TrimSpace(e.name),
		Format: e.format,
		Code:   code,
	}, nil
}

// CompleteSave applies the outcome of a save request.
func (e *Editor) CompleteSave(result persist.SaveResult) {
	e.saving = false
	e.status = types.StatusMessage{Kind: result.Status, Text: result.Message}
	e.lastResponse = result.Response
}

// Save runs the whole save flow synchronously.
func (e *Editor) Save(ctx context.Context) error {
	request, err := e.PrepareSave()
	if err != nil {
		return err
	}

	result := e.saver.Save(ctx, request)
	e.CompleteSave(result)

	if result.Status == types.StatusError {
		return errors.New(errors.ErrCodeServerError, result.Message)
	}

	return nil
}
