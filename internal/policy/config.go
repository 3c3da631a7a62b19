package policy

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// LoadFile loads and validates a policy from a TOML document
func LoadFile(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}
	return parsePolicy(data, path)
}

// LoadBuiltin loads and validates a named builtin preset. The preset
// documents are embedded by the caller and passed in as raw TOML.
func LoadBuiltin(name string, presets map[string][]byte) (*Policy, error) {
	data, ok := presets[name]
	if !ok {
		names := make([]string, 0, len(presets))
		for n := range presets {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("unknown builtin policy %q (available: %s)", name, strings.Join(names, ", "))
	}
	return parsePolicy(data, "builtin:"+name)
}

// Resolve picks the active policy. An explicit file path wins over an
// explicit builtin name, which wins over the configuration value; the
// configuration value may itself be a builtin name or a file path.
// Returns nil when no policy is configured anywhere.
func Resolve(policyFile, policyName, configPolicy string, presets map[string][]byte) (*Policy, error) {
	switch {
	case policyFile != "":
		return LoadFile(policyFile)
	case policyName != "":
		return LoadBuiltin(policyName, presets)
	case configPolicy != "":
		if _, ok := presets[configPolicy]; ok {
			return LoadBuiltin(configPolicy, presets)
		}
		return LoadFile(configPolicy)
	}
	return nil, nil
}

func parsePolicy(data []byte, origin string) (*Policy, error) {
	var p Policy
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse policy %s: %w", origin, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid policy %s: %w", origin, err)
	}
	return &p, nil
}

// Validate checks the structural invariants a policy must satisfy
// before evaluation. Evaluation itself assumes a valid policy and
// never fails.
func (p *Policy) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("policy name must not be empty")
	}

	for _, set := range []struct {
		label string
		rules RuleSet
	}{
		{"allowed_licenses", p.Allowed},
		{"forbidden_licenses", p.Forbidden},
		{"review_required", p.ReviewRequired},
	} {
		for _, exact := range set.rules.Exact {
			if strings.TrimSpace(exact) == "" {
				return fmt.Errorf("%s.exact contains an empty entry", set.label)
			}
		}
		for _, pattern := range set.rules.Patterns {
			if strings.TrimSpace(pattern) == "" {
				return fmt.Errorf("%s.patterns contains an empty entry", set.label)
			}
		}
	}

	for i, exc := range p.Exceptions {
		if strings.TrimSpace(exc.Name) == "" {
			return fmt.Errorf("exceptions[%d]: name must not be empty", i)
		}
		if strings.TrimSpace(exc.Reason) == "" {
			return fmt.Errorf("exceptions[%d] (%s): reason must not be empty", i, exc.Name)
		}
	}

	return nil
}
