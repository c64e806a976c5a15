// Package catalog enumerates the block types a strategy document can be
// built from: their labels, accepted children, default configurations,
// and validation rules. The catalog is pure data and is not mutable at
// runtime.
package catalog

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-designer/internal/types"
)

// RequiredField names a config field that must be present and non-blank.
type RequiredField struct {
	Field string
	Label string
}

// Validation holds the structural rules enforced for a block type.
type Validation struct {
	Required    []RequiredField
	MinChildren optional.Option[int]
	MaxChildren optional.Option[int]
}

// BlockType is a static block definition.
type BlockType struct {
	Key           types.BlockKey
	Label         string
	Category      types.Section
	Accepts       []types.BlockKey
	DefaultConfig types.Config
	Validation    Validation
}

// conditionLike are the block types usable wherever a boolean
// sub-expression is expected.
var conditionLike = []types.BlockKey{
	types.BlockCondition,
	types.BlockMarketCross,
	types.BlockMarketVolume,
	types.BlockLogic,
	types.BlockNegation,
	types.BlockGroup,
}

// indicatorKeys are the block types usable as a condition's field.
var indicatorKeys = []types.BlockKey{
	types.BlockIndicator,
	types.BlockIndicatorMACD,
	types.BlockIndicatorBollinger,
	types.BlockIndicatorATR,
}

// blockTypes lists every definition in palette order.
var blockTypes = []BlockType{
	{
		Key:      types.BlockCondition,
		Label:    "Condition",
		Category: types.SectionConditions,
		Accepts:  indicatorKeys,
		DefaultConfig: types.Config{
			"field":    "close",
			"operator": "gt",
			"value":    0,
		},
		Validation: Validation{
			Required: []RequiredField{
				{Field: "operator", Label: "Opérateur"},
				{Field: "value", Label: "Valeur"},
			},
			MaxChildren: optional.Some(1),
		},
	},
	{
		Key:      types.BlockMarketCross,
		Label:    "Croisement",
		Category: types.SectionConditions,
		Accepts:  indicatorKeys,
		DefaultConfig: types.Config{
			"direction": "above",
			"lookback":  5,
		},
		Validation: Validation{
			Required: []RequiredField{
				{Field: "direction", Label: "Direction"},
				{Field: "lookback", Label: "Fenêtre"},
			},
			MinChildren: optional.Some(2),
			MaxChildren: optional.Some(2),
		},
	},
	{
		Key:      types.BlockMarketVolume,
		Label:    "Volume",
		Category: types.SectionConditions,
		DefaultConfig: types.Config{
			"operator":  "gt",
			"value":     0,
			"timeframe": "1h",
		},
		Validation: Validation{
			Required: []RequiredField{
				{Field: "operator", Label: "Opérateur"},
				{Field: "timeframe", Label: "Période"},
			},
		},
	},
	{
		Key:      types.BlockIndicator,
		Label:    "Indicateur",
		Category: types.SectionConditions,
		DefaultConfig: types.Config{
			"source": "close",
			"kind":   "sma",
			"period": 20,
		},
		Validation: Validation{
			Required: []RequiredField{
				{Field: "source", Label: "Source"},
				{Field: "kind", Label: "Type"},
				{Field: "period", Label: "Période"},
			},
		},
	},
	{
		Key:      types.BlockIndicatorMACD,
		Label:    "MACD",
		Category: types.SectionConditions,
		DefaultConfig: types.Config{
			"source":       "close",
			"fastPeriod":   12,
			"slowPeriod":   26,
			"signalPeriod": 9,
		},
		Validation: Validation{
			Required: []RequiredField{
				{Field: "source", Label: "Source"},
				{Field: "fastPeriod", Label: "Période rapide"},
				{Field: "slowPeriod", Label: "Période lente"},
				{Field: "signalPeriod", Label: "Période de signal"},
			},
		},
	},
	{
		Key:      types.BlockIndicatorBollinger,
		Label:    "Bandes de Bollinger",
		Category: types.SectionConditions,
		DefaultConfig: types.Config{
			"source":    "close",
			"period":    20,
			"deviation": 2,
		},
		Validation: Validation{
			Required: []RequiredField{
				{Field: "source", Label: "Source"},
				{Field: "period", Label: "Période"},
				{Field: "deviation", Label: "Écart-type"},
			},
		},
	},
	{
		Key:      types.BlockIndicatorATR,
		Label:    "ATR",
		Category: types.SectionConditions,
		DefaultConfig: types.Config{
			"source":    "hlc3",
			"period":    14,
			"smoothing": 14,
		},
		Validation: Validation{
			Required: []RequiredField{
				{Field: "source", Label: "Source"},
				{Field: "period", Label: "Période"},
				{Field: "smoothing", Label: "Lissage"},
			},
		},
	},
	{
		Key:      types.BlockLogic,
		Label:    "Logique",
		Category: types.SectionConditions,
		Accepts:  conditionLike,
		DefaultConfig: types.Config{
			"mode": "all",
		},
		Validation: Validation{
			Required: []RequiredField{
				{Field: "mode", Label: "Mode"},
			},
			MinChildren: optional.Some(2),
		},
	},
	{
		Key:      types.BlockNegation,
		Label:    "Négation",
		Category: types.SectionConditions,
		Accepts: []types.BlockKey{
			types.BlockCondition,
			types.BlockMarketCross,
			types.BlockMarketVolume,
			types.BlockLogic,
			types.BlockGroup,
		},
		DefaultConfig: types.Config{},
		Validation: Validation{
			MinChildren: optional.Some(1),
			MaxChildren: optional.Some(1),
		},
	},
	{
		Key:      types.BlockGroup,
		Label:    "Groupe",
		Category: types.SectionConditions,
		Accepts: []types.BlockKey{
			types.BlockCondition,
			types.BlockMarketCross,
			types.BlockMarketVolume,
			types.BlockLogic,
			types.BlockNegation,
		},
		DefaultConfig: types.Config{},
		Validation: Validation{
			MinChildren: optional.Some(1),
		},
	},
	{
		Key:      types.BlockAction,
		Label:    "Ordre",
		Category: types.SectionActions,
		DefaultConfig: types.Config{
			"action": "buy",
			"size":   1,
		},
		Validation: Validation{
			Required: []RequiredField{
				{Field: "action", Label: "Action"},
				{Field: "size", Label: "Taille"},
			},
		},
	},
	{
		Key:      types.BlockTakeProfit,
		Label:    "Take-profit",
		Category: types.SectionActions,
		DefaultConfig: types.Config{
			"mode":  "percent",
			"value": 5,
			"size":  "full",
		},
		Validation: Validation{
			Required: []RequiredField{
				{Field: "mode", Label: "Mode"},
				{Field: "size", Label: "Taille"},
			},
		},
	},
	{
		Key:      types.BlockStopLoss,
		Label:    "Stop-loss",
		Category: types.SectionActions,
		DefaultConfig: types.Config{
			"mode":     "percent",
			"value":    2,
			"trailing": false,
		},
		Validation: Validation{
			Required: []RequiredField{
				{Field: "mode", Label: "Mode"},
			},
		},
	},
	{
		Key:      types.BlockClosePosition,
		Label:    "Fermeture",
		Category: types.SectionActions,
		DefaultConfig: types.Config{
			"side": "all",
		},
		Validation: Validation{
			Required: []RequiredField{
				{Field: "side", Label: "Côté"},
			},
		},
	},
	{
		Key:      types.BlockAlert,
		Label:    "Alerte",
		Category: types.SectionActions,
		DefaultConfig: types.Config{
			"channel": "email",
			"message": "",
		},
		Validation: Validation{
			Required: []RequiredField{
				{Field: "channel", Label: "Canal"},
				{Field: "message", Label: "Message"},
			},
		},
	},
	{
		Key:      types.BlockDelay,
		Label:    "Délai",
		Category: types.SectionActions,
		DefaultConfig: types.Config{
			"seconds": 60,
		},
		Validation: Validation{
			Required: []RequiredField{
				{Field: "seconds", Label: "Durée"},
			},
		},
	},
}

var blockTypesByKey = func() map[types.BlockKey]BlockType {
	byKey := make(map[types.BlockKey]BlockType, len(blockTypes))
	for _, bt := range blockTypes {
		byKey[bt.Key] = bt
	}

	return byKey
}()

// Definition returns the block type for the given key.
func Definition(key types.BlockKey) (BlockType, bool) {
	bt, ok := blockTypesByKey[key]

	return bt, ok
}

// Label returns the display label for the given key, or the key itself
// when unknown.
func Label(key types.BlockKey) string {
	if bt, ok := blockTypesByKey[key]; ok {
		return bt.Label
	}

	return string(key)
}

// Accepts reports whether a parent block type permits the given child
// type. Unknown parents accept nothing.
func Accepts(parent, child types.BlockKey) bool {
	bt, ok := blockTypesByKey[parent]
	if !ok {
		return false
	}

	for _, key := range bt.Accepts {
		if key == child {
			return true
		}
	}

	return false
}

// CloneDefaults returns a deep copy of the default config for the given
// key. Unknown keys yield an empty config.
func CloneDefaults(key types.BlockKey) types.Config {
	bt, ok := blockTypesByKey[key]
	if !ok {
		return types.Config{}
	}

	return bt.DefaultConfig.Clone()
}

// List returns every block type of the given category in palette order.
func List(category types.Section) []BlockType {
	list := make([]BlockType, 0, len(blockTypes))
	for _, bt := range blockTypes {
		if bt.Category == category {
			list = append(list, bt)
		}
	}

	return list
}

// IsIndicator reports whether the key is one of the indicator blocks.
func IsIndicator(key types.BlockKey) bool {
	for _, k := range indicatorKeys {
		if k == key {
			return true
		}
	}

	return false
}
