package license

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// AliasTable maps free-text license names to canonical identifiers and
// records which canonical identifiers are OSI approved. It is plain
// data so new license-string variants can be added without code changes.
type AliasTable struct {
	Aliases     map[string]string `yaml:"aliases"`
	OSIApproved []string          `yaml:"osi_approved"`

	// Derived lookup sets (not in YAML)
	canonical map[string]bool
	osi       map[string]bool
}

// LoadAliases loads the alias table with 3-level fallback:
// 1. Explicit path (--aliases-config flag)
// 2. Home directory (~/.licenseguard/aliases.yaml)
// 3. Embedded default (passed as defaultData)
func LoadAliases(path string, defaultData []byte) (*AliasTable, error) {
	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	} else {
		data = defaultData
		if home, err := os.UserHomeDir(); err == nil {
			homeConfig := filepath.Join(home, ".licenseguard", "aliases.yaml")
			if fileData, err := os.ReadFile(homeConfig); err == nil {
				data = fileData
			}
		}
	}

	var table AliasTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse alias table: %w", err)
	}

	table.index()
	return &table, nil
}

// index builds the derived lookup sets. Alias keys are folded to lower
// case so lookups are case-insensitive on the free-text side while the
// canonical side stays case-sensitive.
func (t *AliasTable) index() {
	t.canonical = make(map[string]bool, len(t.Aliases)+len(t.OSIApproved))
	t.osi = make(map[string]bool, len(t.OSIApproved))

	folded := make(map[string]string, len(t.Aliases))
	for alias, canon := range t.Aliases {
		folded[strings.ToLower(alias)] = canon
		t.canonical[canon] = true
	}
	t.Aliases = folded

	for _, canon := range t.OSIApproved {
		t.canonical[canon] = true
		t.osi[canon] = true
	}
}

// Canonical resolves a free-text license name to a canonical identifier.
// A name that already is a canonical identifier resolves to itself.
func (t *AliasTable) Canonical(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	if t.canonical[name] {
		return name, true
	}
	if canon, ok := t.Aliases[strings.ToLower(name)]; ok {
		return canon, true
	}
	return "", false
}

// IsOSIApproved reports whether a canonical identifier is OSI approved
func (t *AliasTable) IsOSIApproved(canon string) bool {
	return t.osi[canon]
}
