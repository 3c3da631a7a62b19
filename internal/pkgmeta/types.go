package pkgmeta

import "strings"

// MetadataSource identifies where a package record was read from
type MetadataSource string

const (
	SourceMetadata MetadataSource = "METADATA"
	SourcePkgInfo  MetadataSource = "PKG-INFO"
	SourceUvLock   MetadataSource = "uv.lock"
)

// PackageRecord represents one installed dependency
type PackageRecord struct {
	Name        string         `json:"name"`
	Version     string         `json:"version"`
	RawLicense  string         `json:"license,omitempty"`
	Classifiers []string       `json:"license_classifiers"`
	Source      MetadataSource `json:"metadata_source"`
}

// String returns a string representation of the package record
func (r PackageRecord) String() string {
	if r.Version == "" {
		return r.Name
	}
	return r.Name + "@" + r.Version
}

// HasLicenseInfo reports whether the record carries any license metadata
func (r PackageRecord) HasLicenseInfo() bool {
	return r.RawLicense != "" || len(r.Classifiers) > 0
}

// NormalizeName lowers a distribution name and folds underscores and dots
// into dashes, matching how installers spell metadata directory names
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "_", "-")
	name = strings.ReplaceAll(name, ".", "-")
	return name
}
