package serialize

import (
	"strings"

	"github.com/rxtech-lab/argo-designer/pkg/errors"
	"gopkg.in/yaml.v3"
)

// emitYAML renders the semantic tree as YAML. Mappings are built as
// yaml.Node values so key order is preserved.
func emitYAML(root []entry) (string, error) {
	node, err := yamlNode(root)
	if err != nil {
		return "", err
	}

	var sb strings.Builder

	encoder := yaml.NewEncoder(&sb)
	encoder.SetIndent(2)

	if err := encoder.Encode(node); err != nil {
		return "", errors.Wrap(errors.ErrCodeParseError, "failed to encode YAML", err)
	}

	if err := encoder.Close(); err != nil {
		return "", errors.Wrap(errors.ErrCodeParseError, "failed to encode YAML", err)
	}

	return sb.String(), nil
}

func yamlNode(v any) (*yaml.Node, error) {
	switch value := v.(type) {
	case []entry:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, e := range value {
			keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key}

			valueNode, err := yamlNode(e.Value)
			if err != nil {
				return nil, err
			}

			node.Content = append(node.Content, keyNode, valueNode)
		}

		return node, nil

	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range value {
			itemNode, err := yamlNode(item)
			if err != nil {
				return nil, err
			}

			node.Content = append(node.Content, itemNode)
		}

		return node, nil

	default:
		node := &yaml.Node{}
		if err := node.Encode(v); err != nil {
			return nil, errors.Wrap(errors.ErrCodeParseError, "failed to encode YAML scalar", err)
		}

		return node, nil
	}
}
