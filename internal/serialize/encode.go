// Package serialize converts strategy documents to and from their two
// textual dialects (YAML and Python). Both dialects encode the same
// semantic tree; for every document that validates,
// Deserialize(Serialize(doc)) yields the same document up to node ids.
package serialize

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-designer/internal/types"
	"github.com/rxtech-lab/argo-designer/internal/validate"
	"github.com/rxtech-lab/argo-designer/pkg/errors"
)

// entry is one key/value pair of an ordered mapping. Both dialect
// emitters consume []entry trees so key order is identical in YAML and
// Python output.
type entry struct {
	Key   string
	Value any
}

// Options carries serialization inputs beyond the document itself.
type Options struct {
	// Name is the strategy name emitted at the top level.
	Name string
	// Preset is the preset id the document originated from, if any.
	// It is advisory metadata; the save endpoint does not consume it.
	Preset optional.Option[string]
}

// Serialize renders the document in the given dialect.
func Serialize(doc types.Document, format types.Format, opts Options) (string, error) {
	root, err := encodeDocument(doc, opts)
	if err != nil {
		return "", err
	}

	switch format {
	case types.FormatYAML:
		return emitYAML(root)
	case types.FormatPython:
		return emitPython(root), nil
	default:
		return "", errors.Newf(errors.ErrCodeUnsupportedFormat, "unsupported format %q", format)
	}
}

// encodeDocument builds the dialect-independent semantic tree.
func encodeDocument(doc types.Document, opts Options) ([]entry, error) {
	when, err := encodeWhen(doc.Conditions)
	if err != nil {
		return nil, err
	}

	signal := encodeSignal(doc.Actions)

	rule := []entry{
		{Key: "when", Value: when},
		{Key: "signal", Value: signal},
	}

	root := []entry{
		{Key: "name", Value: opts.Name},
		{Key: "rules", Value: []any{rule}},
	}

	if opts.Preset.IsSome() {
		root = append(root, entry{Key: "metadata", Value: []entry{
			{Key: "preset", Value: opts.Preset.Unwrap()},
		}})
	}

	return root, nil
}

// encodeWhen encodes the conditions forest. The combinator is "any"
// only when the forest is a single logic block in any-mode (which is
// flattened); everything else is combined under "all".
func encodeWhen(conditions []*types.Node) ([]entry, error) {
	if len(conditions) == 1 && conditions[0].Type == types.BlockLogic &&
		stringValue(conditions[0].Config["mode"]) == "any" {
		entries, err := encodeConditionList(conditions[0].Children)
		if err != nil {
			return nil, err
		}

		return []entry{{Key: "any", Value: entries}}, nil
	}

	entries, err := encodeConditionList(conditions)
	if err != nil {
		return nil, err
	}

	return []entry{{Key: "all", Value: entries}}, nil
}

func encodeConditionList(nodes []*types.Node) ([]any, error) {
	list := make([]any, 0, len(nodes))

	for _, node := range nodes {
		encoded, err := encodeCondition(node)
		if err != nil {
			return nil, err
		}

		list = append(list, encoded)
	}

	return list, nil
}

// encodeCondition encodes one condition-forest node. Indicators used as
// fields are emitted as their rendered textual form, not as nested
// objects.
func encodeCondition(node *types.Node) (any, error) {
	switch node.Type {
	case types.BlockCondition:
		field := stringValue(node.Config["field"])
		if len(node.Children) > 0 {
			field = validate.RenderIndicator(node.Children[0])
		}

		return []entry{
			{Key: "field", Value: field},
			{Key: "operator", Value: stringValue(node.Config["operator"])},
			{Key: "value", Value: node.Config["value"]},
		}, nil

	case types.BlockMarketVolume:
		return []entry{
			{Key: "field", Value: "volume"},
			{Key: "operator", Value: stringValue(node.Config["operator"])},
			{Key: "value", Value: node.Config["value"]},
			{Key: "timeframe", Value: stringValue(node.Config["timeframe"])},
		}, nil

	case types.BlockMarketCross:
		left, right := "", ""
		if len(node.Children) > 0 {
			left = validate.RenderIndicator(node.Children[0])
		}

		if len(node.Children) > 1 {
			right = validate.RenderIndicator(node.Children[1])
		}

		return []entry{
			{Key: "cross", Value: []entry{
				{Key: "direction", Value: stringValue(node.Config["direction"])},
				{Key: "lookback", Value: node.Config["lookback"]},
				{Key: "left", Value: left},
				{Key: "right", Value: right},
			}},
		}, nil

	case types.BlockLogic:
		key := "all"
		if stringValue(node.Config["mode"]) == "any" {
			key = "any"
		}

		children, err := encodeConditionList(node.Children)
		if err != nil {
			return nil, err
		}

		return []entry{{Key: key, Value: children}}, nil

	case types.BlockNegation:
		children, err := encodeConditionList(node.Children)
		if err != nil {
			return nil, err
		}

		return []entry{{Key: "not", Value: children}}, nil

	case types.BlockGroup:
		children, err := encodeConditionList(node.Children)
		if err != nil {
			return nil, err
		}

		return []entry{{Key: "group", Value: children}}, nil

	default:
		return nil, errors.Newf(errors.ErrCodeUnknownType, "type %q inconnu", node.Type)
	}
}

// encodeSignal encodes the actions forest. The primary action/size pair
// mirrors the first order step; steps mirror the whole forest in order.
func encodeSignal(actions []*types.Node) []entry {
	signal := []entry{}

	for _, node := range actions {
		if node.Type == types.BlockAction {
			signal = append(signal,
				entry{Key: "action", Value: stringValue(node.Config["action"])},
				entry{Key: "size", Value: node.Config["size"]})

			break
		}
	}

	steps := make([]any, 0, len(actions))
	for _, node := range actions {
		steps = append(steps, encodeStep(node))
	}

	return append(signal, entry{Key: "steps", Value: steps})
}

func encodeStep(node *types.Node) []entry {
	switch node.Type {
	case types.BlockAction:
		return []entry{
			{Key: "type", Value: "order"},
			{Key: "action", Value: stringValue(node.Config["action"])},
			{Key: "size", Value: node.Config["size"]},
		}

	case types.BlockTakeProfit:
		step := []entry{
			{Key: "type", Value: "take_profit"},
			{Key: "mode", Value: stringValue(node.Config["mode"])},
			{Key: "value", Value: node.Config["value"]},
			{Key: "size", Value: stringValue(node.Config["size"])},
		}
		if stringValue(node.Config["size"]) == "custom" {
			step = append(step, entry{Key: "customSize", Value: node.Config["customSize"]})
		}

		return step

	case types.BlockStopLoss:
		trailing, _ := node.Config["trailing"].(bool)

		return []entry{
			{Key: "type", Value: "stop_loss"},
			{Key: "mode", Value: stringValue(node.Config["mode"])},
			{Key: "value", Value: node.Config["value"]},
			{Key: "trailing", Value: trailing},
		}

	case types.BlockClosePosition:
		return []entry{
			{Key: "type", Value: "close_position"},
			{Key: "side", Value: stringValue(node.Config["side"])},
		}

	case types.BlockAlert:
		return []entry{
			{Key: "type", Value: "alert"},
			{Key: "channel", Value: stringValue(node.Config["channel"])},
			{Key: "message", Value: stringValue(node.Config["message"])},
		}

	case types.BlockDelay:
		return []entry{
			{Key: "type", Value: "delay"},
			{Key: "seconds", Value: node.Config["seconds"]},
		}

	default:
		return []entry{{Key: "type", Value: string(node.Type)}}
	}
}

func stringValue(v any) string {
	s, _ := v.(string)

	return s
}
