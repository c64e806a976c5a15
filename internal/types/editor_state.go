package types

// Selection points either at an entire forest (NodeID empty) or at a
// specific node within it. Selection is editor state, never part of the
// document.
type Selection struct {
	Section Section `json:"section"`
	NodeID  string  `json:"node_id,omitempty"`
}

// HasNode reports whether the selection targets a specific node rather
// than a whole section.
func (s *Selection) HasNode() bool {
	return s != nil && s.NodeID != ""
}

// ClipboardNode is a serialized subtree held by the clipboard: type,
// config, and children, with ids stripped. Pasting rehydrates it with
// fresh ids.
type ClipboardNode struct {
	Type     BlockKey        `json:"type"`
	Config   Config          `json:"config"`
	Children []ClipboardNode `json:"children,omitempty"`
}

// CaptureClipboard serializes a node subtree into a clipboard payload,
// stripping ids.
func CaptureClipboard(node *Node) ClipboardNode {
	payload := ClipboardNode{
		Type:   node.Type,
		Config: node.Config.Clone(),
	}
	for _, child := range node.Children {
		payload.Children = append(payload.Children, CaptureClipboard(child))
	}

	return payload
}

// StatusMessage is the user-visible message surfaced by the editor.
type StatusMessage struct {
	Kind Status `json:"kind"`
	Text string `json:"text"`
}
