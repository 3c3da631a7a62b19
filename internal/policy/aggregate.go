package policy

import (
	"time"

	"github.com/google/uuid"
)

// Aggregate folds verdicts into an audit report. The verdict order in
// the report mirrors the input order so reports stay reproducible for
// an unchanged environment.
func Aggregate(verdicts []Verdict, policy *Policy) AuditReport {
	report := AuditReport{
		RunID:       uuid.NewString(),
		PolicyName:  policy.Name,
		Verdicts:    verdicts,
		Total:       len(verdicts),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}

	for _, v := range verdicts {
		switch v.Level {
		case LevelForbidden:
			report.Errors++
		case LevelReviewRequired:
			report.Warnings++
		}
	}

	report.Passed = !(policy.FailOnViolations && report.Errors > 0)
	return report
}
