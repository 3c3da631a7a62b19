package policy

import "testing"

func TestMatches(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		pattern    string
		want       bool
	}{
		{name: "exact equal without wildcard", identifier: "MIT", pattern: "MIT", want: true},
		{name: "exact unequal without wildcard", identifier: "MIT", pattern: "ISC", want: false},
		{name: "prefix wildcard match", identifier: "GPL-3.0", pattern: "GPL-*", want: true},
		{name: "prefix anchored at start", identifier: "LGPL-2.1", pattern: "GPL-*", want: false},
		{name: "substring wildcard both sides", identifier: "AGPL-3.0", pattern: "*GPL*", want: true},
		{name: "suffix wildcard", identifier: "BSD-3-Clause", pattern: "*-Clause", want: true},
		{name: "suffix anchored at end", identifier: "BSD-3-Clause-Modified", pattern: "*-Clause", want: false},
		{name: "wildcard matches zero characters", identifier: "GPL-", pattern: "GPL-*", want: true},
		{name: "lone wildcard matches everything", identifier: "anything", pattern: "*", want: true},
		{name: "lone wildcard matches empty", identifier: "", pattern: "*", want: true},
		{name: "segments must appear in order", identifier: "BSD-3-Clause", pattern: "*3*Clause*", want: true},
		{name: "segments out of order", identifier: "Clause-3-BSD", pattern: "*BSD*3*Clause", want: false},
		{name: "consecutive wildcards collapse", identifier: "GPL-3.0", pattern: "GPL**3.0", want: true},
		{name: "case sensitive", identifier: "gpl-3.0", pattern: "GPL-*", want: false},
		{name: "question mark is literal", identifier: "MIT?", pattern: "MIT?", want: true},
		{name: "question mark is not a wildcard", identifier: "MITX", pattern: "MIT?", want: false},
		{name: "middle segment missing", identifier: "Apache-2.0", pattern: "*GPL*", want: false},
		{name: "suffix needs room after middle segment", identifier: "ab", pattern: "a*b*b", want: false},
		{name: "overlapping middle and suffix", identifier: "abb", pattern: "a*b*b", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(tt.identifier, tt.pattern); got != tt.want {
				t.Errorf("Matches(%q, %q) = %v, want %v", tt.identifier, tt.pattern, got, tt.want)
			}
		})
	}
}

func TestRuleSetFindMatch(t *testing.T) {
	rules := RuleSet{
		Exact:    []string{"MIT", "Apache-2.0"},
		Patterns: []string{"GPL-*", "BSD-*"},
	}

	tests := []struct {
		name       string
		identifier string
		wantRule   string
		wantOK     bool
	}{
		{name: "exact entry", identifier: "MIT", wantRule: "exact: MIT", wantOK: true},
		{name: "pattern entry", identifier: "GPL-3.0", wantRule: "pattern: GPL-*", wantOK: true},
		{name: "exact checked before patterns", identifier: "Apache-2.0", wantRule: "exact: Apache-2.0", wantOK: true},
		{name: "no match", identifier: "Unlicense", wantRule: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, ok := rules.FindMatch(tt.identifier)
			if ok != tt.wantOK {
				t.Fatalf("FindMatch(%q) ok = %v, want %v", tt.identifier, ok, tt.wantOK)
			}
			if rule != tt.wantRule {
				t.Errorf("FindMatch(%q) = %q, want %q", tt.identifier, rule, tt.wantRule)
			}
		})
	}
}
