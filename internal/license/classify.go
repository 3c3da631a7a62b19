package license

import (
	"strings"

	"github.com/moritamori/licenseguard/internal/pkgmeta"
)

const (
	classifierPrefix    = "License ::"
	osiApprovedModifier = "OSI Approved"
)

// Classify resolves a package record to a canonical license identifier.
// Resolution order, first hit wins:
//  1. the raw License field, when it maps to a known canonical name
//  2. the first "License ::" classifier, when its trailing name maps to
//     a known canonical name
//  3. the raw License field's literal text, not OSI approved
//  4. the UNKNOWN identifier
//
// Classify is total: it never fails, malformed metadata degrades to
// UNKNOWN.
func (t *AliasTable) Classify(rec pkgmeta.PackageRecord) Identifier {
	raw := strings.TrimSpace(rec.RawLicense)

	if canon, ok := t.Canonical(raw); ok {
		return Identifier{ID: canon, OSIApproved: t.IsOSIApproved(canon), Source: SourceRawField}
	}

	for _, classifier := range rec.Classifiers {
		if !strings.HasPrefix(classifier, classifierPrefix) {
			continue
		}
		name := classifierLicenseName(classifier)
		if canon, ok := t.Canonical(name); ok {
			return Identifier{
				ID:          canon,
				OSIApproved: strings.Contains(classifier, osiApprovedModifier),
				Source:      SourceClassifier,
			}
		}
		// Only the first License classifier is consulted; an
		// unrecognized one falls through to the raw field text.
		break
	}

	if raw != "" {
		return Identifier{ID: raw, OSIApproved: false, Source: SourceRawField}
	}

	return Identifier{ID: Unknown, OSIApproved: false, Source: SourceUnknown}
}

// classifierLicenseName extracts the license name from a classifier by
// stripping the "License :: OSI Approved ::" or "License ::" prefix,
// e.g. "License :: OSI Approved :: MIT License" yields "MIT License".
func classifierLicenseName(classifier string) string {
	name := strings.TrimPrefix(classifier, classifierPrefix)
	name = strings.TrimSpace(name)
	if rest, ok := strings.CutPrefix(name, osiApprovedModifier+" ::"); ok {
		name = rest
	}
	return strings.TrimSpace(name)
}
