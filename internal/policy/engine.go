package policy

import (
	"fmt"

	"github.com/moritamori/licenseguard/internal/license"
	"github.com/moritamori/licenseguard/internal/pkgmeta"
)

// Engine evaluates package records against a policy
type Engine struct {
	policy *Policy
}

// NewEngine creates a new policy engine
func NewEngine(policy *Policy) *Engine {
	return &Engine{policy: policy}
}

// Policy returns the policy the engine evaluates against
func (e *Engine) Policy() *Policy {
	return e.policy
}

// Evaluate produces exactly one verdict for a record and never fails.
// Precedence, first applicable wins:
//  1. exception match, always Allowed
//  2. forbidden exact, then forbidden patterns
//  3. allowed exact, then allowed patterns
//  4. review-required exact or patterns
//  5. no rule matched, ReviewRequired
//
// Forbidden outranks allowed so an explicit denial cannot be overridden
// by a broader allow pattern. An unmatched license is never silently
// approved or rejected; it lands in review.
func (e *Engine) Evaluate(rec pkgmeta.PackageRecord, id license.Identifier) Verdict {
	verdict := Verdict{
		Package: PackageRef{Name: rec.Name, Version: rec.Version},
		License: id,
	}

	if exc := ResolveException(rec, e.policy.Exceptions); exc != nil {
		verdict.Level = LevelAllowed
		verdict.MatchedRule = "exception: " + exc.Name
		verdict.Message = fmt.Sprintf("Package %q is excepted from policy: %s", rec.Name, exc.Reason)
		return verdict
	}

	if rule, ok := e.policy.Forbidden.FindMatch(id.ID); ok {
		verdict.Level = LevelForbidden
		verdict.MatchedRule = rule
		verdict.Message = fmt.Sprintf("License %q is forbidden by policy", id.ID)
		return verdict
	}

	if rule, ok := e.policy.Allowed.FindMatch(id.ID); ok {
		verdict.Level = LevelAllowed
		verdict.MatchedRule = rule
		verdict.Message = fmt.Sprintf("License %q is allowed by policy", id.ID)
		return verdict
	}

	if rule, ok := e.policy.ReviewRequired.FindMatch(id.ID); ok {
		verdict.Level = LevelReviewRequired
		verdict.MatchedRule = rule
		verdict.Message = fmt.Sprintf("License %q requires review", id.ID)
		return verdict
	}

	verdict.Level = LevelReviewRequired
	verdict.MatchedRule = "no rule matched"
	verdict.Message = fmt.Sprintf("License %q matched no policy rule and requires review", id.ID)
	return verdict
}

// EvaluateAll evaluates every record against its classified license,
// preserving input order. The two slices must be parallel.
func (e *Engine) EvaluateAll(records []pkgmeta.PackageRecord, ids []license.Identifier) []Verdict {
	verdicts := make([]Verdict, 0, len(records))
	for i, rec := range records {
		verdicts = append(verdicts, e.Evaluate(rec, ids[i]))
	}
	return verdicts
}
