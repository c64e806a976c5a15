package main

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rxtech-lab/argo-designer/internal/types"
	"github.com/rxtech-lab/argo-designer/pkg/designer"
)

// Application states.
const (
	StateCanvas = iota
	StatePalette
	StatePresetSelect
	StateNameInput
	StateSourcePreview
)

// Model is the main Bubble Tea model for the strategy designer TUI.
type Model struct {
	editor      *designer.Editor
	state       int
	paletteList list.Model
	presetList  list.Model
	nameInput   textinput.Model
	rows        []canvasRow
	cursor      int
	source      string
	width       int
	height      int
}

// NewModel creates a new Model around the given editor.
func NewModel(editor *designer.Editor) Model {
	m := Model{
		editor:      editor,
		state:       StateCanvas,
		paletteList: NewPaletteList(),
		presetList:  NewPresetList(editor.Presets()),
		nameInput:   NewNameInput(),
	}
	m.refreshRows()

	return m
}

// refreshRows rebuilds the canvas rows and clamps the cursor, then
// mirrors the cursor into the editor selection.
func (m *Model) refreshRows() {
	m.rows = BuildCanvasRows(m.editor.Document())

	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}

	if m.cursor < 0 {
		m.cursor = 0
	}

	m.syncSelection()
}

// syncSelection points the editor selection at the row under the
// cursor.
func (m *Model) syncSelection() {
	if len(m.rows) == 0 {
		m.editor.ClearSelection()

		return
	}

	row := m.rows[m.cursor]
	_ = m.editor.Select(row.section, row.nodeID)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.paletteList.SetSize(msg.Width, msg.Height-4)
		m.presetList.SetSize(msg.Width, msg.Height-4)

		return m, nil

	case SaveResultMsg:
		m.editor.CompleteSave(msg.Result)

		return m, nil
	}

	switch m.state {
	case StatePalette:
		return m.updatePalette(msg)
	case StatePresetSelect:
		return m.updatePresetSelect(msg)
	case StateNameInput:
		return m.updateNameInput(msg)
	case StateSourcePreview:
		return m.updateSourcePreview(msg)
	default:
		return m.updateCanvas(msg)
	}
}

func (m Model) updateCanvas(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "q", "esc":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.syncSelection()
		}

	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.syncSelection()
		}

	case "a":
		m.state = StatePalette

	case "p":
		m.state = StatePresetSelect

	case "n":
		m.nameInput.SetValue(m.editor.Name())
		m.nameInput.Focus()
		m.state = StateNameInput

		return m, textinput.Blink

	case "o":
		source, err := m.editor.Source()
		if err != nil {
			source = err.Error()
		}

		m.source = source
		m.state = StateSourcePreview

	case "f":
		next := types.FormatPython
		if m.editor.Format() == types.FormatPython {
			next = types.FormatYAML
		}

		_ = m.editor.SetFormat(next)

	case "s":
		return m, m.saveCmd()

	case "delete", "backspace", "x":
		if m.editor.Selection().HasNode() {
			_ = m.editor.RemoveSelected()
			m.refreshRows()
		}

	default:
		if stroke, ok := toKeyStroke(keyMsg.String()); ok {
			if m.editor.HandleKey(stroke) {
				m.refreshRows()
			} else if stroke.Key == "c" && stroke.Mod {
				// ctrl+c quits when there is nothing to copy.
				return m, tea.Quit
			}
		}
	}

	return m, nil
}

// toKeyStroke maps Bubble Tea key names onto editor shortcuts.
func toKeyStroke(key string) (designer.KeyStroke, bool) {
	switch key {
	case "ctrl+z":
		return designer.KeyStroke{Key: "z", Mod: true}, true
	case "ctrl+shift+z":
		return designer.KeyStroke{Key: "z", Mod: true, Shift: true}, true
	case "ctrl+y":
		return designer.KeyStroke{Key: "y", Mod: true}, true
	case "ctrl+c":
		return designer.KeyStroke{Key: "c", Mod: true}, true
	case "ctrl+v":
		return designer.KeyStroke{Key: "v", Mod: true}, true
	case "ctrl+d":
		return designer.KeyStroke{Key: "d", Mod: true}, true
	default:
		return designer.KeyStroke{}, false
	}
}

func (m Model) updatePalette(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.state = StateCanvas

			return m, nil

		case "enter":
			if item, ok := m.paletteList.SelectedItem().(listItem); ok {
				m.dropBlock(types.BlockKey(item.id))
				m.state = StateCanvas
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.paletteList, cmd = m.paletteList.Update(msg)

	return m, cmd
}

// dropBlock drops the palette block on the current cursor target: under
// the selected node, or at the top of the focused section. Rejections
// surface through the editor status.
func (m *Model) dropBlock(key types.BlockKey) {
	section := types.SectionConditions
	targetID := ""

	if len(m.rows) > 0 {
		row := m.rows[m.cursor]
		section = row.section
		targetID = row.nodeID
	}

	_ = m.editor.Drop(section, targetID, key)
	m.refreshRows()

	// Move the cursor onto the node the drop selected.
	if selection := m.editor.Selection(); selection.HasNode() {
		for i, row := range m.rows {
			if row.nodeID == selection.NodeID {
				m.cursor = i

				break
			}
		}
	}
}

func (m Model) updatePresetSelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.state = StateCanvas

			return m, nil

		case "enter":
			if item, ok := m.presetList.SelectedItem().(listItem); ok {
				_ = m.editor.ApplyPreset(item.id)
				m.cursor = 0
				m.refreshRows()
				m.state = StateCanvas
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.presetList, cmd = m.presetList.Update(msg)

	return m, cmd
}

func (m Model) updateNameInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.nameInput.Blur()
			m.state = StateCanvas

			return m, nil

		case "enter":
			if value := strings.TrimSpace(m.nameInput.Value()); value != "" {
				m.editor.SetName(value)
			}

			m.nameInput.Blur()
			m.state = StateCanvas

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)

	return m, cmd
}

func (m Model) updateSourcePreview(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc", "enter", "o", "q":
			m.state = StateCanvas
		}
	}

	return m, nil
}

// saveCmd validates and serializes on the event loop, then posts off
// the loop and reports back with a SaveResultMsg.
func (m *Model) saveCmd() tea.Cmd {
	request, err := m.editor.PrepareSave()
	if err != nil {
		return nil
	}

	client := m.editor.SaveClient()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return SaveResultMsg{Result: client.Save(ctx, request)}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var s strings.Builder

	switch m.state {
	case StatePalette:
		s.WriteString(m.paletteList.View())
		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("Entrée: déposer sur la sélection | Échap: retour"))

	case StatePresetSelect:
		s.WriteString(m.presetList.View())
		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("Entrée: charger | Échap: retour"))

	case StateNameInput:
		s.WriteString(TitleStyle.Render("Nom de la stratégie"))
		s.WriteString("\n\n")
		s.WriteString(m.nameInput.View())
		s.WriteString("\n\n")
		s.WriteString(HelpStyle.Render("Entrée: valider | Échap: annuler"))

	case StateSourcePreview:
		s.WriteString(TitleStyle.Render("Source (" + string(m.editor.Format()) + ")"))
		s.WriteString("\n\n")
		s.WriteString(m.source)
		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("Échap: retour"))

	default:
		s.WriteString(TitleStyle.Render("Argo Designer — " + m.editor.Name()))
		s.WriteString("  ")
		s.WriteString(HelpStyle.Render("[" + string(m.editor.Format()) + "]"))
		s.WriteString("\n\n")
		s.WriteString(renderCanvas(m.rows, m.cursor))
		s.WriteString("\n")
		s.WriteString(renderReport(m.editor.Report()))

		status := m.editor.Status()
		if status.Text != "" {
			s.WriteString("\n")
			s.WriteString(StatusStyle(status.Kind).Render(status.Text))
			s.WriteString("\n")
		}

		s.WriteString("\n")
		s.WriteString(HelpStyle.Render(
			"a: ajouter | p: modèles | n: nom | o: source | f: format | s: enregistrer | x: supprimer\n" +
				"ctrl+z/y: annuler/rétablir | ctrl+c/v/d: copier/coller/dupliquer | q: quitter"))
	}

	return s.String()
}
