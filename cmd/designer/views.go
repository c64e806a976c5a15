package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/rxtech-lab/argo-designer/internal/catalog"
	"github.com/rxtech-lab/argo-designer/internal/types"
	"github.com/rxtech-lab/argo-designer/internal/validate"
	"github.com/rxtech-lab/argo-designer/pkg/designer"
)

// listItem implements list.Item for the palette and preset lists.
type listItem struct {
	id          string
	name        string
	description string
}

func (i listItem) Title() string       { return i.name }
func (i listItem) Description() string { return i.description }
func (i listItem) FilterValue() string { return i.name }

// NewPaletteList creates the block palette: condition blocks first,
// action blocks after, in catalog order.
func NewPaletteList() list.Model {
	items := []list.Item{}

	for _, section := range []types.Section{types.SectionConditions, types.SectionActions} {
		for _, bt := range catalog.List(section) {
			items = append(items, listItem{
				id:          string(bt.Key),
				name:        bt.Label,
				description: fmt.Sprintf("section %s", bt.Category),
			})
		}
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true

	l := list.New(items, delegate, 0, 0)
	l.Title = "Ajouter un bloc"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}

// NewPresetList creates the preset picker.
func NewPresetList(presets []designer.Preset) list.Model {
	items := make([]list.Item, 0, len(presets))
	for _, p := range presets {
		items = append(items, listItem{
			id:          p.ID,
			name:        p.Label,
			description: p.Description,
		})
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true

	l := list.New(items, delegate, 0, 0)
	l.Title = "Charger un modèle"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}

// NewNameInput creates the strategy name input.
func NewNameInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "Nouvelle stratégie"
	ti.CharLimit = 120
	ti.Width = 50
	ti.Prompt = "> "

	return ti
}

// canvasRow is one line of the rendered document tree.
type canvasRow struct {
	section types.Section
	nodeID  string
	depth   int
	label   string
}

// BuildCanvasRows flattens both forests into navigable rows. Section
// headers carry an empty node id.
func BuildCanvasRows(doc types.Document) []canvasRow {
	rows := []canvasRow{}

	for _, section := range []types.Section{types.SectionConditions, types.SectionActions} {
		rows = append(rows, canvasRow{section: section})

		for _, node := range doc.Forest(section) {
			rows = appendNodeRows(rows, section, node, 1)
		}
	}

	return rows
}

func appendNodeRows(rows []canvasRow, section types.Section, node *types.Node, depth int) []canvasRow {
	rows = append(rows, canvasRow{
		section: section,
		nodeID:  node.ID,
		depth:   depth,
		label:   nodeLabel(node),
	})

	for _, child := range node.Children {
		rows = appendNodeRows(rows, section, child, depth+1)
	}

	return rows
}

// nodeLabel renders one block as "Label · summary".
func nodeLabel(node *types.Node) string {
	label := catalog.Label(node.Type)

	var summary string

	switch {
	case node.Type == types.BlockAction || node.Type == types.BlockTakeProfit ||
		node.Type == types.BlockStopLoss || node.Type == types.BlockClosePosition ||
		node.Type == types.BlockAlert || node.Type == types.BlockDelay:
		summary = validate.RenderAction(node)
	case catalog.IsIndicator(node.Type):
		summary = validate.RenderIndicator(node)
	default:
		summary = validate.RenderCondition(node)
	}

	if summary == "" || summary == label {
		return label
	}

	return fmt.Sprintf("%s · %s", label, summary)
}

// sectionTitle renders a French section header.
func sectionTitle(section types.Section) string {
	if section == types.SectionActions {
		return "Actions"
	}

	return "Conditions"
}

// renderCanvas renders the document tree with the cursor highlighted.
func renderCanvas(rows []canvasRow, cursor int) string {
	var sb strings.Builder

	for i, row := range rows {
		line := ""

		if row.nodeID == "" {
			line = SectionStyle.Render(sectionTitle(row.section))
		} else {
			line = strings.Repeat("  ", row.depth) + "• " + row.label
		}

		if i == cursor {
			line = SelectedStyle.Render(line)
		}

		sb.WriteString(line)
		sb.WriteString("\n")
	}

	return sb.String()
}

// renderReport renders validation output: errors, warnings, and the
// rule expression.
func renderReport(report validate.Report) string {
	var sb strings.Builder

	for _, message := range report.Errors {
		sb.WriteString(ErrorStyle.Render("✗ " + message))
		sb.WriteString("\n")
	}

	for _, message := range report.Warnings {
		sb.WriteString(WarningStyle.Render("! " + message))
		sb.WriteString("\n")
	}

	if report.Rule.IsSome() {
		sb.WriteString(RuleStyle.Render("Règle: " + report.Rule.Unwrap()))
		sb.WriteString("\n")
	}

	return sb.String()
}
