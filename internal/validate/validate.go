// Package validate walks a strategy document and computes blocking
// errors, advisory warnings, and the human-readable rule expression.
// It runs after every edit; all functions are pure.
package validate

import (
	"fmt"
	"strings"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-designer/internal/catalog"
	"github.com/rxtech-lab/argo-designer/internal/types"
)

// Report is the validator output for one document.
type Report struct {
	Errors              []string
	Warnings            []string
	ConditionExpression optional.Option[string]
	ActionSummary       optional.Option[string]
	Rule                optional.Option[string]
}

// IsValid reports whether the document has no blocking errors.
func (r Report) IsValid() bool {
	return len(r.Errors) == 0
}

// Document validates the whole document and renders its rule
// expression.
func Document(doc types.Document) Report {
	report := Report{}

	if len(doc.Conditions) == 0 {
		report.Errors = append(report.Errors, "Ajoutez au moins une condition.")
	}

	if len(doc.Actions) == 0 {
		report.Errors = append(report.Errors, "Ajoutez au moins une action.")
	}

	for i, node := range doc.Conditions {
		walk(node, fmt.Sprintf("Condition #%d", i+1), &report)
	}

	for i, node := range doc.Actions {
		walk(node, fmt.Sprintf("Action #%d", i+1), &report)
	}

	if len(doc.Conditions) > 0 {
		report.ConditionExpression = optional.Some(ConditionExpression(doc.Conditions))
	}

	if len(doc.Actions) > 0 {
		report.ActionSummary = optional.Some(ActionSummary(doc.Actions))
	}

	if report.ConditionExpression.IsSome() && report.ActionSummary.IsSome() {
		report.Rule = optional.Some(fmt.Sprintf("%s ⇒ %s",
			report.ConditionExpression.Unwrap(), report.ActionSummary.Unwrap()))
	}

	return report
}

// walk validates one node and recurses into its children with an
// extended path prefix.
func walk(node *types.Node, path string, report *Report) {
	def, known := catalog.Definition(node.Type)
	if !known {
		report.Errors = append(report.Errors,
			fmt.Sprintf("%s — type « %s » inconnu", path, node.Type))

		return
	}

	addError := func(format string, args ...any) {
		report.Errors = append(report.Errors,
			fmt.Sprintf("%s — %s: %s", path, def.Label, fmt.Sprintf(format, args...)))
	}

	for _, required := range def.Validation.Required {
		if isBlank(node.Config[required.Field]) {
			addError("le champ « %s » est requis", required.Label)
		}
	}

	if def.Validation.MinChildren.IsSome() && len(node.Children) < def.Validation.MinChildren.Unwrap() {
		addError("au moins %d bloc(s) enfant(s) requis", def.Validation.MinChildren.Unwrap())
	}

	if def.Validation.MaxChildren.IsSome() && len(node.Children) > def.Validation.MaxChildren.Unwrap() {
		addError("au plus %d bloc(s) enfant(s) autorisé(s)", def.Validation.MaxChildren.Unwrap())
	}

	if len(def.Accepts) == 0 && len(node.Children) > 0 {
		// Leaf-only block: extra children are ignored, not fatal.
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("%s — %s: les blocs enfants sont ignorés", path, def.Label))
	} else {
		for _, child := range node.Children {
			if !catalog.Accepts(node.Type, child.Type) {
				addError("ne peut pas contenir un bloc « %s »", catalog.Label(child.Type))
			}
		}
	}

	checkTyped(node, def, addError)

	for i, child := range node.Children {
		walk(child, fmt.Sprintf("%s > %s > Bloc %d", path, def.Label, i+1), report)
	}
}

// checkTyped applies the per-type numeric and semantic rules.
func checkTyped(node *types.Node, def catalog.BlockType, addError func(string, ...any)) {
	switch node.Type {
	case types.BlockCondition:
		if len(node.Children) == 0 && isBlank(node.Config["field"]) {
			addError("le champ « Champ » est requis")
		}

		if op, ok := node.Config["operator"].(string); ok && op != "" && !types.IsKnownOperator(types.Operator(op)) {
			addError("opérateur « %s » invalide", op)
		}

	case types.BlockMarketCross:
		if !isPositiveInteger(node.Config["lookback"]) {
			addError("la fenêtre doit être un entier strictement positif")
		}

	case types.BlockMarketVolume:
		if d, ok := types.AsDecimal(node.Config["value"]); !ok || d.IsNegative() {
			addError("la valeur doit être un nombre positif ou nul")
		}

	case types.BlockTakeProfit:
		if d, ok := types.AsDecimal(node.Config["value"]); !ok || !d.IsPositive() {
			addError("la valeur doit être strictement positive")
		}

		if size, _ := node.Config["size"].(string); size == "custom" {
			if d, ok := types.AsDecimal(node.Config["customSize"]); !ok || !d.IsPositive() {
				addError("la taille personnalisée doit être strictement positive")
			}
		}

	case types.BlockStopLoss:
		if d, ok := types.AsDecimal(node.Config["value"]); !ok || !d.IsPositive() {
			addError("la valeur doit être strictement positive")
		}

	case types.BlockDelay:
		if d, ok := types.AsDecimal(node.Config["seconds"]); !ok || d.IsNegative() {
			addError("la durée doit être positive ou nulle")
		}
	}
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}

	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}

	return false
}

func isPositiveInteger(v any) bool {
	d, ok := types.AsDecimal(v)

	return ok && d.IsPositive() && d.IsInteger()
}
