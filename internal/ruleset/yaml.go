package ruleset

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/bfv/ruletypes/internal/rules"
)

// ParseYAML decodes a YAML document.
func ParseYAML(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	doc := &Document{}
	if len(root.Content) == 0 {
		return doc, nil
	}

	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: document must be a mapping", top.Line)
	}
	for i := 0; i+1 < len(top.Content); i += 2 {
		key, val := top.Content[i], top.Content[i+1]
		switch key.Value {
		case "name":
			doc.Name = val.Value
		case "namespace":
			doc.Namespace = val.Value
		case "rules":
			set, err := yamlRules(val)
			if err != nil {
				return nil, err
			}
			doc.Rules = set
		}
	}
	return doc, nil
}

func yamlRules(node *yaml.Node) (rules.Set, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: rules must be a mapping", node.Line)
	}
	set := make(rules.Set, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		path, val := node.Content[i].Value, node.Content[i+1]
		spec, err := yamlSpec(val)
		if err != nil {
			return nil, fmt.Errorf("line %d: rules for %q: %w", val.Line, path, err)
		}
		set = append(set, rules.Field{Path: path, Spec: spec})
	}
	return set, nil
}

func yamlSpec(node *yaml.Node) (rules.Spec, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return rules.Spec{}, nil
		}
		return rules.SplitSpec(node.Value), nil
	case yaml.SequenceNode:
		spec := make(rules.Spec, 0, len(node.Content))
		for _, item := range node.Content {
			r, err := yamlRule(item)
			if err != nil {
				return nil, err
			}
			spec = append(spec, r)
		}
		return spec, nil
	default:
		return nil, fmt.Errorf("expected a string or a list")
	}
}

func yamlRule(node *yaml.Node) (rules.Rule, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return rules.StringRule(node.Value), nil
	case yaml.MappingNode:
		var fields map[string]string
		if err := node.Decode(&fields); err != nil {
			return nil, err
		}
		return objectRule(fields)
	default:
		return nil, fmt.Errorf("line %d: rule must be a string or a mapping", node.Line)
	}
}
