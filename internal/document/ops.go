// Package document holds the strategy forests and the pure tree
// operations the editor is built on. Every operation returns a new
// forest value and leaves its input untouched; untouched subtrees are
// shared between the input and the result.
package document

import (
	"github.com/rxtech-lab/argo-designer/internal/catalog"
	"github.com/rxtech-lab/argo-designer/internal/types"
)

// NewNode creates a node of the given type with a fresh id and a deep
// copy of the catalog's default config.
func NewNode(minter *Minter, key types.BlockKey) *types.Node {
	return &types.Node{
		ID:     minter.MintID(),
		Type:   key,
		Config: catalog.CloneDefaults(key),
	}
}

// Rehydrate builds a node subtree from a clipboard payload, minting a
// fresh id for every node.
func Rehydrate(minter *Minter, payload types.ClipboardNode) *types.Node {
	node := &types.Node{
		ID:     minter.MintID(),
		Type:   payload.Type,
		Config: payload.Config.Clone(),
	}
	for _, child := range payload.Children {
		node.Children = append(node.Children, Rehydrate(minter, child))
	}

	return node
}

// FindByID locates a node anywhere in the forest. Returns nil when the
// id is absent.
func FindByID(forest []*types.Node, id string) *types.Node {
	for _, node := range forest {
		if node.ID == id {
			return node
		}

		if found := FindByID(node.Children, id); found != nil {
			return found
		}
	}

	return nil
}

// ContainsID reports whether the forest holds a node with the given id.
func ContainsID(forest []*types.Node, id string) bool {
	return FindByID(forest, id) != nil
}

// AppendChild appends the node at the forest top level when parentID is
// empty, or into the located parent's children. Returns the input
// forest unchanged when the parent is missing.
func AppendChild(forest []*types.Node, parentID string, node *types.Node) []*types.Node {
	if parentID == "" {
		next := make([]*types.Node, 0, len(forest)+1)
		next = append(next, forest...)

		return append(next, node)
	}

	if !ContainsID(forest, parentID) {
		return forest
	}

	return mapForest(forest, parentID, func(parent *types.Node) *types.Node {
		updated := shallowClone(parent)
		updated.Children = append(updated.Children, node)

		return updated
	})
}

// UpdateConfig replaces the config of the identified node. Returns the
// input forest unchanged when the id is absent.
func UpdateConfig(forest []*types.Node, id string, config types.Config) []*types.Node {
	if !ContainsID(forest, id) {
		return forest
	}

	return mapForest(forest, id, func(node *types.Node) *types.Node {
		updated := shallowClone(node)
		updated.Config = config.Clone()

		return updated
	})
}

// Remove deletes the identified node and its subtree anywhere in the
// forest. Returns the input forest unchanged when the id is absent.
func Remove(forest []*types.Node, id string) []*types.Node {
	if !ContainsID(forest, id) {
		return forest
	}

	next := make([]*types.Node, 0, len(forest))

	for _, node := range forest {
		if node.ID == id {
			continue
		}

		if ContainsID(node.Children, id) {
			updated := shallowClone(node)
			updated.Children = Remove(node.Children, id)
			node = updated
		}

		next = append(next, node)
	}

	return next
}

// InsertAfterSibling inserts the node immediately after the identified
// sibling, preserving in-place ordering at any depth. Returns the input
// forest unchanged when the sibling is absent.
func InsertAfterSibling(forest []*types.Node, siblingID string, node *types.Node) []*types.Node {
	if !ContainsID(forest, siblingID) {
		return forest
	}

	next := make([]*types.Node, 0, len(forest)+1)

	for _, current := range forest {
		if current.ID == siblingID {
			next = append(next, current, node)

			continue
		}

		if ContainsID(current.Children, siblingID) {
			updated := shallowClone(current)
			updated.Children = InsertAfterSibling(current.Children, siblingID, node)
			current = updated
		}

		next = append(next, current)
	}

	return next
}

// ParentOf locates the parent of the identified node. Returns nil for
// top-level nodes and absent ids.
func ParentOf(forest []*types.Node, id string) *types.Node {
	for _, node := range forest {
		for _, child := range node.Children {
			if child.ID == id {
				return node
			}
		}

		if found := ParentOf(node.Children, id); found != nil {
			return found
		}
	}

	return nil
}

// MaxMintedID returns the largest numeric suffix of any node-<n> id in
// the forest, 0 when none.
func MaxMintedID(forest []*types.Node) uint64 {
	var max uint64

	for _, node := range forest {
		if n, ok := parseNodeID(node.ID); ok && n > max {
			max = n
		}

		if childMax := MaxMintedID(node.Children); childMax > max {
			max = childMax
		}
	}

	return max
}

func parseNodeID(id string) (uint64, bool) {
	const prefix = "node-"
	if len(id) <= len(prefix) || id[:len(prefix)] != prefix {
		return 0, false
	}

	var n uint64

	for _, r := range id[len(prefix):] {
		if r < '0' || r > '9' {
			return 0, false
		}

		n = n*10 + uint64(r-'0')
	}

	return n, true
}

// mapForest rebuilds the path down to the identified node, applying fn
// to it. Subtrees off the path are shared with the input.
func mapForest(forest []*types.Node, id string, fn func(*types.Node) *types.Node) []*types.Node {
	next := make([]*types.Node, 0, len(forest))

	for _, node := range forest {
		switch {
		case node.ID == id:
			next = append(next, fn(node))
		case ContainsID(node.Children, id):
			updated := shallowClone(node)
			updated.Children = mapForest(node.Children, id, fn)
			next = append(next, updated)
		default:
			next = append(next, node)
		}
	}

	return next
}

func shallowClone(node *types.Node) *types.Node {
	clone := &types.Node{
		ID:     node.ID,
		Type:   node.Type,
		Config: node.Config,
	}
	clone.Children = append(clone.Children, node.Children...)

	return clone
}
