package policy

import "github.com/moritamori/licenseguard/internal/license"

// Level represents the per-package evaluation outcome
type Level string

const (
	LevelAllowed        Level = "allowed"
	LevelForbidden      Level = "forbidden"
	LevelReviewRequired Level = "review_required"
)

// RuleSet holds exact license names and glob-style patterns. Exact
// entries compare case-sensitively against the canonical identifier;
// patterns use '*' as "zero or more characters" and nothing else.
type RuleSet struct {
	Exact    []string `toml:"exact" json:"exact"`
	Patterns []string `toml:"patterns" json:"patterns"`
}

// Exception is a per-package override. A matched exception always
// resolves to Allowed regardless of the package's license.
type Exception struct {
	Name    string `toml:"name" json:"name"`
	Version string `toml:"version,omitempty" json:"version,omitempty"`
	Reason  string `toml:"reason" json:"reason"`
}

// Policy is the compliance ruleset a run is evaluated against. It is
// immutable for the duration of a run.
type Policy struct {
	Name             string      `toml:"name" json:"name"`
	Description      string      `toml:"description,omitempty" json:"description,omitempty"`
	Allowed          RuleSet     `toml:"allowed_licenses" json:"allowed_licenses"`
	Forbidden        RuleSet     `toml:"forbidden_licenses" json:"forbidden_licenses"`
	ReviewRequired   RuleSet     `toml:"review_required" json:"review_required"`
	Exceptions       []Exception `toml:"exceptions" json:"exceptions,omitempty"`
	FailOnViolations bool        `toml:"fail_on_violations" json:"fail_on_violations"`
}

// PackageRef identifies the package a verdict belongs to
type PackageRef struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Verdict is the evaluation outcome for one package
type Verdict struct {
	Package     PackageRef         `json:"package"`
	License     license.Identifier `json:"license"`
	Level       Level              `json:"level"`
	MatchedRule string             `json:"matched_rule"`
	Message     string             `json:"message"`
}

// AuditReport is the aggregate of all verdicts for one run
type AuditReport struct {
	RunID       string    `json:"run_id"`
	PolicyName  string    `json:"policy"`
	Verdicts    []Verdict `json:"verdicts"`
	Total       int       `json:"total"`
	Errors      int       `json:"errors"`
	Warnings    int       `json:"warnings"`
	Passed      bool      `json:"passed"`
	GeneratedAt string    `json:"generated_at"`
}
