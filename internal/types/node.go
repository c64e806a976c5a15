package types

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Config holds a block instance's field values. Values are scalars
// (string, bool, or any numeric type); numeric values are compared
// numerically, not by Go type.
type Config map[string]any

// Node is a block instance inside a strategy document.
type Node struct {
	ID       string   `yaml:"id" json:"id"`
	Type     BlockKey `yaml:"type" json:"type"`
	Config   Config   `yaml:"config" json:"config"`
	Children []*Node  `yaml:"children,omitempty" json:"children,omitempty"`
}

// Document is the editable strategy value: two ordered forests.
type Document struct {
	Conditions []*Node `yaml:"conditions" json:"conditions"`
	Actions    []*Node `yaml:"actions" json:"actions"`
}

// NewDocument returns an empty document.
func NewDocument() Document {
	return Document{
		Conditions: []*Node{},
		Actions:    []*Node{},
	}
}

// Forest returns the forest for the given section.
func (d Document) Forest(section Section) []*Node {
	if section == SectionActions {
		return d.Actions
	}

	return d.Conditions
}

// WithForest returns a copy of the document with the given forest replaced.
func (d Document) WithForest(section Section, forest []*Node) Document {
	if section == SectionActions {
		d.Actions = forest
	} else {
		d.Conditions = forest
	}

	return d
}

// Clone returns a deep copy of the node, ids included.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}

	clone := &Node{
		ID:     n.ID,
		Type:   n.Type,
		Config: n.Config.Clone(),
	}
	for _, child := range n.Children {
		clone.Children = append(clone.Children, child.Clone())
	}

	return clone
}

// Clone returns a deep copy of the config.
func (c Config) Clone() Config {
	if c == nil {
		return Config{}
	}

	clone := make(Config, len(c))
	for k, v := range c {
		clone[k] = v
	}

	return clone
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	return Document{
		Conditions: CloneForest(d.Conditions),
		Actions:    CloneForest(d.Actions),
	}
}

// CloneForest returns a deep copy of a forest.
func CloneForest(forest []*Node) []*Node {
	clone := make([]*Node, 0, len(forest))
	for _, node := range forest {
		clone = append(clone, node.Clone())
	}

	return clone
}

// Equal reports structural equality including node ids. History
// deduplication uses this comparison.
func (d Document) Equal(other Document) bool {
	return forestEqual(d.Conditions, other.Conditions, true) &&
		forestEqual(d.Actions, other.Actions, true)
}

// ShapeEqual reports structural equality ignoring node ids. Round-trip
// checks and clipboard shape comparisons use this comparison.
func (d Document) ShapeEqual(other Document) bool {
	return forestEqual(d.Conditions, other.Conditions, false) &&
		forestEqual(d.Actions, other.Actions, false)
}

// ShapeEqual reports subtree equality ignoring ids.
func (n *Node) ShapeEqual(other *Node) bool {
	return nodeEqual(n, other, false)
}

func forestEqual(a, b []*Node, withIDs bool) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !nodeEqual(a[i], b[i], withIDs) {
			return false
		}
	}

	return true
}

func nodeEqual(a, b *Node, withIDs bool) bool {
	if a == nil || b == nil {
		return a == b
	}

	if withIDs && a.ID != b.ID {
		return false
	}

	if a.Type != b.Type {
		return false
	}

	if !a.Config.Equal(b.Config) {
		return false
	}

	return forestEqual(a.Children, b.Children, withIDs)
}

// Equal compares two configs field by field. Numeric values compare
// numerically regardless of their Go type, so a YAML-decoded int equals
// the float the editor wrote.
func (c Config) Equal(other Config) bool {
	if len(c) != len(other) {
		return false
	}

	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		ov, ok := other[k]
		if !ok {
			return false
		}

		if !ValueEqual(c[k], ov) {
			return false
		}
	}

	return true
}

// ValueEqual compares two scalar config values, coercing numbers
// through decimal so 100, 100.0 and "100" compare equal.
func ValueEqual(a, b any) bool {
	da, aNum := AsDecimal(a)
	db, bNum := AsDecimal(b)

	if aNum && bNum {
		return da.Equal(db)
	}

	if aNum != bNum {
		return false
	}

	return a == b
}

// AsDecimal coerces a scalar config value to a decimal. Returns false
// when the value is not numeric.
func AsDecimal(v any) (decimal.Decimal, bool) {
	switch value := v.(type) {
	case int:
		return decimal.NewFromInt(int64(value)), true
	case int32:
		return decimal.NewFromInt(int64(value)), true
	case int64:
		return decimal.NewFromInt(value), true
	case uint64:
		return decimal.NewFromUint64(value), true
	case float32:
		return decimal.NewFromFloat32(value), true
	case float64:
		return decimal.NewFromFloat(value), true
	case decimal.Decimal:
		return value, true
	case string:
		d, err := decimal.NewFromString(value)
		if err != nil {
			return decimal.Zero, false
		}

		return d, true
	default:
		return decimal.Zero, false
	}
}
