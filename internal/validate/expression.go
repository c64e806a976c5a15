package validate

import (
	"fmt"
	"strings"

	"github.com/rxtech-lab/argo-designer/internal/types"
)

// ConditionExpression renders the top-level condition list as a human
// readable boolean expression. Multiple entries are parenthesized and
// joined with ET.
func ConditionExpression(forest []*types.Node) string {
	if len(forest) == 1 {
		return RenderCondition(forest[0])
	}

	parts := make([]string, 0, len(forest))
	for _, node := range forest {
		parts = append(parts, "("+RenderCondition(node)+")")
	}

	return strings.Join(parts, " ET ")
}

// ActionSummary renders the actions forest as "A puis B puis …".
func ActionSummary(forest []*types.Node) string {
	parts := make([]string, 0, len(forest))
	for _, node := range forest {
		parts = append(parts, RenderAction(node))
	}

	return strings.Join(parts, " puis ")
}

// RenderCondition renders one condition-forest node as a sub-expression.
func RenderCondition(node *types.Node) string {
	switch node.Type {
	case types.BlockCondition:
		field := stringConfig(node.Config, "field")
		if len(node.Children) > 0 {
			field = RenderIndicator(node.Children[0])
		}

		sign := types.OperatorSigns[types.Operator(stringConfig(node.Config, "operator"))]
		if sign == "" {
			sign = "?"
		}

		return fmt.Sprintf("%s %s %s", field, sign, formatValue(node.Config["value"]))

	case types.BlockMarketCross:
		left, right := "?", "?"
		if len(node.Children) > 0 {
			left = RenderIndicator(node.Children[0])
		}

		if len(node.Children) > 1 {
			right = RenderIndicator(node.Children[1])
		}

		word := "au-dessus"
		if stringConfig(node.Config, "direction") == "below" {
			word = "sous"
		}

		return fmt.Sprintf("%s croise %s %s (fenêtre %s)", left, word, right, formatValue(node.Config["lookback"]))

	case types.BlockMarketVolume:
		sign := types.OperatorSigns[types.Operator(stringConfig(node.Config, "operator"))]
		if sign == "" {
			sign = "?"
		}

		return fmt.Sprintf("Volume %s %s", sign, formatValue(node.Config["value"]))

	case types.BlockLogic:
		word := " ET "
		if stringConfig(node.Config, "mode") == "any" {
			word = " OU "
		}

		parts := make([]string, 0, len(node.Children))
		for _, child := range node.Children {
			parts = append(parts, "("+RenderCondition(child)+")")
		}

		return strings.Join(parts, word)

	case types.BlockNegation:
		if len(node.Children) == 0 {
			return "NON (?)"
		}

		return fmt.Sprintf("NON (%s)", RenderCondition(node.Children[0]))

	case types.BlockGroup:
		parts := make([]string, 0, len(node.Children))
		for _, child := range node.Children {
			parts = append(parts, RenderCondition(child))
		}

		return "(" + strings.Join(parts, " ET ") + ")"

	case types.BlockIndicator, types.BlockIndicatorMACD, types.BlockIndicatorBollinger, types.BlockIndicatorATR:
		return RenderIndicator(node)

	default:
		return string(node.Type)
	}
}

// RenderIndicator renders an indicator block as KIND(source, param, …).
// This textual form is also the serialization contract for indicators
// used as condition fields.
func RenderIndicator(node *types.Node) string {
	source := stringConfig(node.Config, "source")

	switch node.Type {
	case types.BlockIndicatorMACD:
		return fmt.Sprintf("MACD(%s, %s, %s, %s)", source,
			formatValue(node.Config["fastPeriod"]),
			formatValue(node.Config["slowPeriod"]),
			formatValue(node.Config["signalPeriod"]))

	case types.BlockIndicatorBollinger:
		return fmt.Sprintf("BOLL(%s, %s, %s)", source,
			formatValue(node.Config["period"]),
			formatValue(node.Config["deviation"]))

	case types.BlockIndicatorATR:
		return fmt.Sprintf("ATR(%s, %s, %s)", source,
			formatValue(node.Config["period"]),
			formatValue(node.Config["smoothing"]))

	case types.BlockIndicator:
		kind := strings.ToUpper(stringConfig(node.Config, "kind"))

		return fmt.Sprintf("%s(%s, %s)", kind, source, formatValue(node.Config["period"]))

	default:
		return string(node.Type)
	}
}

// RenderAction renders one action node via its type-specific template.
func RenderAction(node *types.Node) string {
	switch node.Type {
	case types.BlockAction:
		return fmt.Sprintf("%s x%s",
			strings.ToUpper(stringConfig(node.Config, "action")),
			formatValue(node.Config["size"]))

	case types.BlockTakeProfit:
		base := fmt.Sprintf("Take-profit %s%%", formatValue(node.Config["value"]))
		if stringConfig(node.Config, "mode") == "price" {
			base = fmt.Sprintf("Take-profit @ %s", formatValue(node.Config["value"]))
		}

		switch stringConfig(node.Config, "size") {
		case "half":
			return base + " (50 %)"
		case "custom":
			return fmt.Sprintf("%s (%s %%)", base, formatValue(node.Config["customSize"]))
		default:
			return base
		}

	case types.BlockStopLoss:
		base := fmt.Sprintf("Stop-loss %s%%", formatValue(node.Config["value"]))
		if stringConfig(node.Config, "mode") == "price" {
			base = fmt.Sprintf("Stop-loss @ %s", formatValue(node.Config["value"]))
		}

		if trailing, _ := node.Config["trailing"].(bool); trailing {
			return base + " (trailing)"
		}

		return base

	case types.BlockClosePosition:
		switch stringConfig(node.Config, "side") {
		case "long":
			return "Fermer les positions longues"
		case "short":
			return "Fermer les positions courtes"
		default:
			return "Fermer toutes les positions"
		}

	case types.BlockAlert:
		return fmt.Sprintf("Alerte %s: %s",
			stringConfig(node.Config, "channel"),
			stringConfig(node.Config, "message"))

	case types.BlockDelay:
		return fmt.Sprintf("Attendre %ss", formatValue(node.Config["seconds"]))

	default:
		return string(node.Type)
	}
}

func stringConfig(config types.Config, key string) string {
	s, _ := config[key].(string)

	return s
}

// formatValue renders a scalar config value: numbers via decimal so
// 100.0 prints as 100, everything else via %v.
func formatValue(v any) string {
	if v == nil {
		return "?"
	}

	if s, ok := v.(string); ok {
		return s
	}

	if d, ok := types.AsDecimal(v); ok {
		return d.String()
	}

	return fmt.Sprintf("%v", v)
}
