package batch

import (
	"github.com/dipdup-io/near-abi/pkg/codec"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Args - positional arguments. Mappings inside keep the key order of the file.
type Args []any

// UnmarshalYAML -
func (a *Args) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return errors.Errorf("args: expected sequence at line %d", node.Line)
	}
	value, err := decodeNode(node)
	if err != nil {
		return err
	}
	*a = Args(value.([]any))
	return nil
}

// Kwargs - keyed arguments in the order they are written in the file
type Kwargs codec.Object

// UnmarshalYAML -
func (k *Kwargs) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return errors.Errorf("kwargs: expected mapping at line %d", node.Line)
	}
	value, err := decodeNode(node)
	if err != nil {
		return err
	}
	*k = Kwargs(value.(codec.Object))
	return nil
}

func decodeNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.MappingNode:
		obj := make(codec.Object, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			var key string
			if err := node.Content[i].Decode(&key); err != nil {
				return nil, err
			}
			value, err := decodeNode(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj = obj.Set(key, value)
		}
		return obj, nil

	case yaml.SequenceNode:
		arr := make([]any, 0, len(node.Content))
		for i := range node.Content {
			value, err := decodeNode(node.Content[i])
			if err != nil {
				return nil, err
			}
			arr = append(arr, value)
		}
		return arr, nil

	case yaml.AliasNode:
		return decodeNode(node.Alias)

	default:
		var value any
		if err := node.Decode(&value); err != nil {
			return nil, err
		}
		return value, nil
	}
}
