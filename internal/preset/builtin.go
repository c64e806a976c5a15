package preset

import "github.com/rxtech-lab/argo-designer/internal/types"

// momentumBreakoutYAML is the built-in YAML template: price and volume
// confirmation with a bracketed exit.
const momentumBreakoutYAML = `name: Momentum breakout
rules:
  - when:
      all:
        - field: close
          operator: gt
          value: 100
        - field: volume
          operator: gt
          value: 150000
          timeframe: 1h
    signal:
      action: buy
      size: 1
      steps:
        - type: order
          action: buy
          size: 1
        - type: take_profit
          mode: percent
          value: 5
          size: half
        - type: stop_loss
          mode: percent
          value: 2
          trailing: true
`

// meanReversionPython is the built-in Python template: oversold entry on
// RSI with a Bollinger confirmation.
const meanReversionPython = `from argo.designer import Strategy

STRATEGY = Strategy(
    name="Mean reversion",
    when={
        "any": [
            {"field": "RSI(close, 14)", "operator": "lt", "value": 30},
            {"field": "BOLL(close, 20, 2)", "operator": "lt", "value": 0},
        ],
    },
    signal={
        "action": "buy",
        "size": 1,
        "steps": [
            {"type": "order", "action": "buy", "size": 1},
            {"type": "take_profit", "mode": "percent", "value": 3, "size": "all"},
            {"type": "stop_loss", "mode": "percent", "value": 1.5, "trailing": False},
        ],
    },
)
`

// BuiltinPresets returns the templates shipped with the designer, in
// display order.
func BuiltinPresets() []Preset {
	return []Preset{
		{
			ID:          "momentum_breakout",
			Label:       "Momentum breakout",
			Description: "Achat sur cassure de prix confirmée par le volume, avec take-profit et stop suiveur.",
			Format:      types.FormatYAML,
			Content:     momentumBreakoutYAML,
		},
		{
			ID:          "mean_reversion",
			Label:       "Mean reversion",
			Description: "Achat en zone de survente (RSI ou bande de Bollinger basse), sortie encadrée.",
			Format:      types.FormatPython,
			Content:     meanReversionPython,
		},
	}
}
