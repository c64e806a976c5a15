package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleDocument() Document {
	return Document{
		Conditions: []*Node{
			{
				ID:     "node-1",
				Type:   BlockCondition,
				Config: Config{"field": "close", "operator": "gt", "value": 100},
				Children: []*Node{
					{
						ID:     "node-2",
						Type:   BlockIndicatorMACD,
						Config: Config{"source": "close", "fastPeriod": 12, "slowPeriod": 26, "signalPeriod": 9},
					},
				},
			},
		},
		Actions: []*Node{
			{
				ID:     "node-3",
				Type:   BlockAction,
				Config: Config{"action": "buy", "size": 1},
			},
		},
	}
}

func TestDocumentClone(t *testing.T) {
	doc := sampleDocument()
	clone := doc.Clone()

	assert.True(t, doc.Equal(clone))

	// Mutating the clone must not touch the original
	clone.Conditions[0].Config["value"] = 200
	assert.False(t, doc.Equal(clone))
	assert.Equal(t, 100, doc.Conditions[0].Config["value"])
}

func TestDocumentEqualIncludesIDs(t *testing.T) {
	doc := sampleDocument()
	other := doc.Clone()
	other.Conditions[0].ID = "node-99"

	assert.False(t, doc.Equal(other))
	assert.True(t, doc.ShapeEqual(other))
}

func TestDocumentEqualNumericCoercion(t *testing.T) {
	doc := sampleDocument()
	other := doc.Clone()
	// A YAML round-trip turns the editor's int into a float
	other.Conditions[0].Config["value"] = 100.0

	assert.True(t, doc.Equal(other))
}

func TestDocumentEqualChildOrder(t *testing.T) {
	a := Document{
		Conditions: []*Node{
			{ID: "node-1", Type: BlockMarketVolume, Config: Config{"operator": "gt", "value": 1, "timeframe": "1h"}},
			{ID: "node-2", Type: BlockCondition, Config: Config{"field": "close", "operator": "gt", "value": 5}},
		},
		Actions: []*Node{},
	}
	b := Document{
		Conditions: []*Node{a.Conditions[1], a.Conditions[0]},
		Actions:    []*Node{},
	}

	assert.False(t, a.Equal(b))
}

func TestConfigEqual(t *testing.T) {
	tests := []struct {
		name     string
		a        Config
		b        Config
		expected bool
	}{
		{
			name:     "identical",
			a:        Config{"field": "close", "value": 100},
			b:        Config{"field": "close", "value": 100},
			expected: true,
		},
		{
			name:     "numeric types differ",
			a:        Config{"value": 100},
			b:        Config{"value": float64(100)},
			expected: true,
		},
		{
			name:     "numeric string",
			a:        Config{"value": "100"},
			b:        Config{"value": 100},
			expected: true,
		},
		{
			name:     "different values",
			a:        Config{"value": 100},
			b:        Config{"value": 101},
			expected: false,
		},
		{
			name:     "missing key",
			a:        Config{"value": 100, "mode": "percent"},
			b:        Config{"value": 100},
			expected: false,
		},
		{
			name:     "string vs number",
			a:        Config{"field": "close"},
			b:        Config{"field": 1},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.Equal(tt.b))
		})
	}
}

func TestCaptureClipboardStripsIDs(t *testing.T) {
	doc := sampleDocument()
	payload := CaptureClipboard(doc.Conditions[0])

	assert.Equal(t, BlockCondition, payload.Type)
	assert.Equal(t, "close", payload.Config["field"])
	assert.Len(t, payload.Children, 1)
	assert.Equal(t, BlockIndicatorMACD, payload.Children[0].Type)

	// Mutating the payload config must not touch the source node
	payload.Config["field"] = "open"
	assert.Equal(t, "close", doc.Conditions[0].Config["field"])
}

func TestSelectionHasNode(t *testing.T) {
	var nilSelection *Selection
	assert.False(t, nilSelection.HasNode())
	assert.False(t, (&Selection{Section: SectionConditions}).HasNode())
	assert.True(t, (&Selection{Section: SectionConditions, NodeID: "node-1"}).HasNode())
}

func TestAsDecimal(t *testing.T) {
	d, ok := AsDecimal(12)
	assert.True(t, ok)
	assert.Equal(t, "12", d.String())

	d, ok = AsDecimal("2.5")
	assert.True(t, ok)
	assert.Equal(t, "2.5", d.String())

	_, ok = AsDecimal("close")
	assert.False(t, ok)

	_, ok = AsDecimal(true)
	assert.False(t, ok)
}
