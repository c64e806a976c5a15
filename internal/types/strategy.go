package types

// Section identifies one of the two forests of a strategy document.
type Section string

const (
	SectionConditions Section = "conditions"
	SectionActions    Section = "actions"
)

// Format identifies a textual dialect of a strategy document.
type Format string

const (
	FormatYAML   Format = "yaml"
	FormatPython Format = "python"
)

// Status is the user-visible state of the editor.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusSaving  Status = "saving"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// BlockKey identifies a block type in the catalog.
type BlockKey string

const (
	BlockCondition          BlockKey = "condition"
	BlockMarketCross        BlockKey = "market_cross"
	BlockMarketVolume       BlockKey = "market_volume"
	BlockIndicator          BlockKey = "indicator"
	BlockIndicatorMACD      BlockKey = "indicator_macd"
	BlockIndicatorBollinger BlockKey = "indicator_bollinger"
	BlockIndicatorATR       BlockKey = "indicator_atr"
	BlockLogic              BlockKey = "logic"
	BlockNegation           BlockKey = "negation"
	BlockGroup              BlockKey = "group"

	BlockAction        BlockKey = "action"
	BlockTakeProfit    BlockKey = "take_profit"
	BlockStopLoss      BlockKey = "stop_loss"
	BlockClosePosition BlockKey = "close_position"
	BlockAlert         BlockKey = "alert"
	BlockDelay         BlockKey = "delay"
)

// Operator is a comparison operator used by condition blocks.
type Operator string

const (
	OperatorGt  Operator = "gt"
	OperatorGte Operator = "gte"
	OperatorLt  Operator = "lt"
	OperatorLte Operator = "lte"
	OperatorEq  Operator = "eq"
	OperatorNeq Operator = "neq"
)

// OperatorSigns maps comparison operators to their display sign.
var OperatorSigns = map[Operator]string{
	OperatorGt:  ">",
	OperatorGte: "≥",
	OperatorLt:  "<",
	OperatorLte: "≤",
	OperatorEq:  "=",
	OperatorNeq: "≠",
}

// IsKnownOperator reports whether op is one of the comparison operators.
func IsKnownOperator(op Operator) bool {
	_, ok := OperatorSigns[op]

	return ok
}
