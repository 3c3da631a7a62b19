package policy

import "strings"

// Matches reports whether a license identifier matches a glob-style
// pattern. '*' matches zero or more characters and is the only wildcard;
// every other character, including '?', matches itself literally. The
// identifier must contain the non-wildcard segments in order, anchored
// at the start unless the pattern begins with '*' and anchored at the
// end unless it ends with '*'. Matching is case-sensitive.
func Matches(identifier, pattern string) bool {
	if !strings.Contains(pattern, "*") {
		return identifier == pattern
	}

	segments := strings.Split(pattern, "*")
	rest := identifier

	if first := segments[0]; first != "" {
		if !strings.HasPrefix(rest, first) {
			return false
		}
		rest = rest[len(first):]
	}

	last := segments[len(segments)-1]
	for _, seg := range segments[1 : len(segments)-1] {
		if seg == "" {
			continue
		}
		idx := strings.Index(rest, seg)
		if idx == -1 {
			return false
		}
		rest = rest[idx+len(seg):]
	}

	if last != "" && !strings.HasSuffix(rest, last) {
		return false
	}

	return true
}

// FindMatch returns a human-readable description of the first rule in
// the set that matches the identifier. Exact entries are checked before
// patterns; both outcomes are equivalent, exact checks are just cheaper.
func (r RuleSet) FindMatch(identifier string) (string, bool) {
	for _, exact := range r.Exact {
		if identifier == exact {
			return "exact: " + exact, true
		}
	}
	for _, pattern := range r.Patterns {
		if Matches(identifier, pattern) {
			return "pattern: " + pattern, true
		}
	}
	return "", false
}

// MatchesAny reports whether any rule in the set matches the identifier
func (r RuleSet) MatchesAny(identifier string) bool {
	_, ok := r.FindMatch(identifier)
	return ok
}
