package serialize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-designer/internal/document"
	"github.com/rxtech-lab/argo-designer/internal/types"
	"gopkg.in/yaml.v3"
)

// Result is the deserializer output. Errors is populated on any parse
// or structural failure; a partially built document may still be
// present but must not be applied by the caller.
type Result struct {
	Name       optional.Option[string]
	Conditions []*types.Node
	Actions    []*types.Node
	Format     types.Format
	Errors     []string
}

// OK reports whether deserialization produced no errors.
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

// Document returns the deserialized forests as a document value.
func (r Result) Document() types.Document {
	return types.Document{
		Conditions: r.Conditions,
		Actions:    r.Actions,
	}
}

// Deserialize parses the given dialect into a document, minting fresh
// node ids from the given minter.
func Deserialize(code string, format types.Format, minter *document.Minter) Result {
	result := Result{Format: format}

	var (
		raw map[string]any
		err error
	)

	switch format {
	case types.FormatYAML:
		err = yaml.Unmarshal([]byte(code), &raw)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("YAML invalide: %v", err))

			return result
		}
	case types.FormatPython:
		raw, err = parsePythonStrategy(code)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Python invalide: %v", err))

			return result
		}
	default:
		result.Errors = append(result.Errors, fmt.Sprintf("format « %s » non pris en charge", format))

		return result
	}

	decodeStrategy(raw, minter, &result)

	return result
}

// DetectFormat selects the dialect for an imported file. The .py
// extension or a python MIME type selects Python; .yaml/.yml selects
// YAML; everything else defaults to YAML.
func DetectFormat(filename, mimeType string) types.Format {
	name := strings.ToLower(filename)

	if strings.HasSuffix(name, ".py") || strings.Contains(strings.ToLower(mimeType), "python") {
		return types.FormatPython
	}

	return types.FormatYAML
}

// decodeStrategy walks the generic value tree shared by both dialects.
func decodeStrategy(raw map[string]any, minter *document.Minter, result *Result) {
	if raw == nil {
		result.Errors = append(result.Errors, "document vide")

		return
	}

	if name, ok := raw["name"].(string); ok && strings.TrimSpace(name) != "" {
		result.Name = optional.Some(name)
	}

	when, signal, ok := locateRule(raw, result)
	if !ok {
		return
	}

	result.Conditions = decodeWhen(when, minter, result)
	result.Actions = decodeSignal(signal, minter, result)
}

// locateRule extracts the single rule's when and signal mappings. The
// Python dialect hoists them to top-level keyword arguments; the YAML
// dialect nests them under rules.
func locateRule(raw map[string]any, result *Result) (map[string]any, map[string]any, bool) {
	if when, ok := raw["when"].(map[string]any); ok {
		signal, _ := raw["signal"].(map[string]any)

		return when, signal, true
	}

	rules, ok := raw["rules"].([]any)
	if !ok || len(rules) == 0 {
		result.Errors = append(result.Errors, "aucune règle trouvée")

		return nil, nil, false
	}

	if len(rules) > 1 {
		result.Errors = append(result.Errors, "le fichier contient plusieurs règles; une seule est prise en charge")

		return nil, nil, false
	}

	rule, ok := rules[0].(map[string]any)
	if !ok {
		result.Errors = append(result.Errors, "rules[0] — structure de règle invalide")

		return nil, nil, false
	}

	when, _ := rule["when"].(map[string]any)
	signal, _ := rule["signal"].(map[string]any)

	if when == nil {
		result.Errors = append(result.Errors, "rules[0] — bloc « when » manquant")

		return nil, nil, false
	}

	return when, signal, true
}

// decodeWhen rebuilds the conditions forest. An any-combinator becomes
// a single any-mode logic node; an all-combinator becomes the top-level
// condition list.
func decodeWhen(when map[string]any, minter *document.Minter, result *Result) []*types.Node {
	if entries, ok := when["any"].([]any); ok {
		node := &types.Node{
			ID:       minter.MintID(),
			Type:     types.BlockLogic,
			Config:   types.Config{"mode": "any"},
			Children: decodeConditionList(entries, "when", minter, result),
		}

		return []*types.Node{node}
	}

	entries, ok := when["all"].([]any)
	if !ok {
		result.Errors = append(result.Errors, "when — combinateur « all » ou « any » attendu")

		return nil
	}

	return decodeConditionList(entries, "when", minter, result)
}

func decodeConditionList(entries []any, path string, minter *document.Minter, result *Result) []*types.Node {
	nodes := make([]*types.Node, 0, len(entries))

	for i, raw := range entries {
		entryPath := fmt.Sprintf("%s[%d]", path, i+1)

		m, ok := raw.(map[string]any)
		if !ok {
			result.Errors = append(result.Errors, entryPath+" — entrée de condition invalide")

			continue
		}

		if node := decodeCondition(m, entryPath, minter, result); node != nil {
			nodes = append(nodes, node)
		}
	}

	return nodes
}

func decodeCondition(m map[string]any, path string, minter *document.Minter, result *Result) *types.Node {
	if cross, ok := m["cross"].(map[string]any); ok {
		return decodeCross(cross, path, minter, result)
	}

	for _, combinator := range []string{"all", "any"} {
		if entries, ok := m[combinator].([]any); ok {
			return &types.Node{
				ID:       minter.MintID(),
				Type:     types.BlockLogic,
				Config:   types.Config{"mode": combinator},
				Children: decodeConditionList(entries, path, minter, result),
			}
		}
	}

	if entries, ok := m["not"].([]any); ok {
		return &types.Node{
			ID:       minter.MintID(),
			Type:     types.BlockNegation,
			Config:   types.Config{},
			Children: decodeConditionList(entries, path, minter, result),
		}
	}

	if entries, ok := m["group"].([]any); ok {
		return &types.Node{
			ID:       minter.MintID(),
			Type:     types.BlockGroup,
			Config:   types.Config{},
			Children: decodeConditionList(entries, path, minter, result),
		}
	}

	if _, ok := m["field"]; ok {
		return decodeComparison(m, path, minter, result)
	}

	result.Errors = append(result.Errors, path+" — entrée de condition invalide")

	return nil
}

// decodeComparison rebuilds a condition or market_volume node. A
// comparison on the volume field carrying a timeframe is a
// market_volume block.
func decodeComparison(m map[string]any, path string, minter *document.Minter, result *Result) *types.Node {
	field := stringValue(m["field"])
	operator := stringValue(m["operator"])

	if !types.IsKnownOperator(types.Operator(operator)) {
		result.Errors = append(result.Errors, fmt.Sprintf("%s — opérateur « %s » inconnu", path, operator))

		return nil
	}

	if timeframe, ok := m["timeframe"]; ok && field == "volume" {
		return &types.Node{
			ID:   minter.MintID(),
			Type: types.BlockMarketVolume,
			Config: types.Config{
				"operator":  operator,
				"value":     m["value"],
				"timeframe": stringValue(timeframe),
			},
		}
	}

	node := &types.Node{
		ID:   minter.MintID(),
		Type: types.BlockCondition,
		Config: types.Config{
			"field":    field,
			"operator": operator,
			"value":    m["value"],
		},
	}

	if indicator := parseIndicatorRef(field, minter); indicator != nil {
		node.Config["field"] = ""
		node.Children = []*types.Node{indicator}
	}

	return node
}

func decodeCross(cross map[string]any, path string, minter *document.Minter, result *Result) *types.Node {
	node := &types.Node{
		ID:   minter.MintID(),
		Type: types.BlockMarketCross,
		Config: types.Config{
			"direction": stringValue(cross["direction"]),
			"lookback":  cross["lookback"],
		},
	}

	for _, side := range []string{"left", "right"} {
		ref := stringValue(cross[side])

		indicator := parseIndicatorRef(ref, minter)
		if indicator == nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s — référence d'indicateur invalide: « %s »", path, ref))

			continue
		}

		node.Children = append(node.Children, indicator)
	}

	return node
}

// indicatorRefPattern matches the textual indicator form KIND(arg, …).
var indicatorRefPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\(([^)]*)\)$`)

// parseIndicatorRef rebuilds an indicator node from its rendered form
// (SMA(close, 20), MACD(close, 12, 26, 9), …). Returns nil when the
// string is a plain field reference.
func parseIndicatorRef(ref string, minter *document.Minter) *types.Node {
	match := indicatorRefPattern.FindStringSubmatch(strings.TrimSpace(ref))
	if match == nil {
		return nil
	}

	kind := match[1]

	args := strings.Split(match[2], ",")
	for i := range args {
		args[i] = strings.TrimSpace(args[i])
	}

	arg := func(i int) any {
		if i >= len(args) {
			return nil
		}

		return scalarValue(args[i])
	}

	// A reserved name with the wrong arity is not an error: a generic
	// indicator whose kind happens to be "macd" renders as
	// MACD(source, period) and must come back as a generic indicator.
	switch strings.ToUpper(kind) {
	case "MACD":
		if len(args) == 4 {
			return &types.Node{
				ID:   minter.MintID(),
				Type: types.BlockIndicatorMACD,
				Config: types.Config{
					"source":       args[0],
					"fastPeriod":   arg(1),
					"slowPeriod":   arg(2),
					"signalPeriod": arg(3),
				},
			}
		}

	case "BOLL":
		if len(args) == 3 {
			return &types.Node{
				ID:   minter.MintID(),
				Type: types.BlockIndicatorBollinger,
				Config: types.Config{
					"source":    args[0],
					"period":    arg(1),
					"deviation": arg(2),
				},
			}
		}

	case "ATR":
		if len(args) == 3 {
			return &types.Node{
				ID:   minter.MintID(),
				Type: types.BlockIndicatorATR,
				Config: types.Config{
					"source":    args[0],
					"period":    arg(1),
					"smoothing": arg(2),
				},
			}
		}
	}

	if len(args) != 2 {
		return nil
	}

	return &types.Node{
		ID:   minter.MintID(),
		Type: types.BlockIndicator,
		Config: types.Config{
			"source": args[0],
			"kind":   strings.ToLower(kind),
			"period": arg(1),
		},
	}
}

// scalarValue parses an indicator argument: integers stay integers,
// other numerics become floats, everything else stays a string.
func scalarValue(s string) any {
	d, ok := types.AsDecimal(s)
	if !ok {
		return s
	}

	if d.IsInteger() {
		return int(d.IntPart())
	}

	f, _ := d.Float64()

	return f
}

func decodeSignal(signal map[string]any, minter *document.Minter, result *Result) []*types.Node {
	if signal == nil {
		result.Errors = append(result.Errors, "rules[0] — bloc « signal » manquant")

		return nil
	}

	steps, ok := signal["steps"].([]any)
	if !ok {
		result.Errors = append(result.Errors, "signal — liste « steps » manquante")

		return nil
	}

	nodes := make([]*types.Node, 0, len(steps))

	for i, raw := range steps {
		path := fmt.Sprintf("steps[%d]", i+1)

		m, ok := raw.(map[string]any)
		if !ok {
			result.Errors = append(result.Errors, path+" — entrée d'action invalide")

			continue
		}

		if node := decodeStep(m, path, minter, result); node != nil {
			nodes = append(nodes, node)
		}
	}

	return nodes
}

func decodeStep(m map[string]any, path string, minter *document.Minter, result *Result) *types.Node {
	stepType := stringValue(m["type"])

	node := &types.Node{ID: minter.MintID()}

	switch stepType {
	case "order":
		node.Type = types.BlockAction
		node.Config = types.Config{
			"action": stringValue(m["action"]),
			"size":   m["size"],
		}

	case "take_profit":
		node.Type = types.BlockTakeProfit
		node.Config = types.Config{
			"mode":  stringValue(m["mode"]),
			"value": m["value"],
			"size":  stringValue(m["size"]),
		}
		if customSize, ok := m["customSize"]; ok {
			node.Config["customSize"] = customSize
		}

	case "stop_loss":
		trailing, _ := m["trailing"].(bool)
		node.Type = types.BlockStopLoss
		node.Config = types.Config{
			"mode":     stringValue(m["mode"]),
			"value":    m["value"],
			"trailing": trailing,
		}

	case "close_position":
		node.Type = types.BlockClosePosition
		node.Config = types.Config{
			"side": stringValue(m["side"]),
		}

	case "alert":
		node.Type = types.BlockAlert
		node.Config = types.Config{
			"channel": stringValue(m["channel"]),
			"message": stringValue(m["message"]),
		}

	case "delay":
		node.Type = types.BlockDelay
		node.Config = types.Config{
			"seconds": m["seconds"],
		}

	default:
		result.Errors = append(result.Errors, fmt.Sprintf("%s — type « %s » inconnu", path, stepType))

		return nil
	}

	return node
}
