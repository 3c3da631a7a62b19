package policy

import (
	"strings"

	"github.com/moritamori/licenseguard/internal/pkgmeta"
)

// AnyVersion marks an exception that applies to every version of a
// package, equivalent to omitting the version field
const AnyVersion = "*"

// ResolveException returns the first exception, in declaration order,
// that matches the record. Names compare case-insensitively; the
// version must be absent, "*", or exactly equal to the record's
// version. First match wins; later candidates are never consulted.
func ResolveException(rec pkgmeta.PackageRecord, exceptions []Exception) *Exception {
	for i := range exceptions {
		if exceptions[i].matches(rec) {
			return &exceptions[i]
		}
	}
	return nil
}

func (e Exception) matches(rec pkgmeta.PackageRecord) bool {
	if !strings.EqualFold(e.Name, rec.Name) &&
		pkgmeta.NormalizeName(e.Name) != pkgmeta.NormalizeName(rec.Name) {
		return false
	}
	if e.Version == "" || e.Version == AnyVersion {
		return true
	}
	return e.Version == rec.Version
}
