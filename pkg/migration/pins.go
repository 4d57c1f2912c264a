package migration

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lerenn/feedsync/pkg/config"
)

// ExtractPins reads the pinned versions of the requested packages from a
// conda_build_config.yaml document. Pinning keys use underscores where
// package names use hyphens, and values appear both as scalars and as
// single-element lists; both are normalized here. Packages without a pin are
// simply absent from the result.
func ExtractPins(doc []byte, packages []string) (map[string]string, error) {
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(doc, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse pinning config: %w", err)
	}

	pins := make(map[string]string)
	for _, pkg := range packages {
		key := strings.ReplaceAll(pkg, "-", "_")
		node, ok := raw[key]
		if !ok {
			continue
		}
		var value config.StringList
		if err := node.Decode(&value); err != nil {
			return nil, fmt.Errorf("pin %s: %w", key, err)
		}
		if value.First() != "" {
			pins[pkg] = value.First()
		}
	}
	return pins, nil
}
