package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// StringList accepts either a YAML scalar or a YAML sequence and normalizes
// both to a slice. conda_build_config.yaml pins appear in both forms
// (`pkg: 1.2.3` and `pkg: ['1.2.3']`), so the distinction is resolved here,
// at the parsing boundary, before any value reaches version comparison.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil
	case yaml.SequenceNode:
		var s []string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*l = StringList(s)
		return nil
	default:
		return fmt.Errorf("string or list expected, got yaml kind %d", node.Kind)
	}
}

// First returns the first value, or "" when empty.
func (l StringList) First() string {
	if len(l) == 0 {
		return ""
	}
	return l[0]
}
