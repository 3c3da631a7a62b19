package pkgmeta

import (
	"os"
	"path/filepath"
	"testing"
)

func writeMetadata(t *testing.T, sitePackages, dirName, fileName, content string) {
	t.Helper()
	dir := filepath.Join(sitePackages, dirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, fileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const requestsMetadata = `Metadata-Version: 2.1
Name: requests
Version: 2.31.0
License: Apache-2.0
Classifier: Development Status :: 5 - Production/Stable
Classifier: License :: OSI Approved :: Apache Software License
Classifier: Programming Language :: Python :: 3

Requests is a simple HTTP library.
License: this line is part of the description and must be ignored.
`

const legacyPkgInfo = `Metadata-Version: 1.0
Name: oldlib
Version: 0.9.1
License: UNKNOWN
Classifier: License :: OSI Approved :: MIT License
`

const bareMetadata = `Metadata-Version: 2.1
Name: barelib
Version: 1.0.0
`

func TestScanSitePackages(t *testing.T) {
	sitePackages := t.TempDir()
	writeMetadata(t, sitePackages, "requests-2.31.0.dist-info", "METADATA", requestsMetadata)
	writeMetadata(t, sitePackages, "oldlib-0.9.1.egg-info", "PKG-INFO", legacyPkgInfo)
	writeMetadata(t, sitePackages, "barelib-1.0.0.dist-info", "METADATA", bareMetadata)
	// A dist-info without a METADATA file is skipped entirely
	if err := os.MkdirAll(filepath.Join(sitePackages, "broken-0.1.dist-info"), 0o755); err != nil {
		t.Fatal(err)
	}

	records, err := ScanSitePackages(sitePackages, false)
	if err != nil {
		t.Fatalf("ScanSitePackages() error = %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2: %+v", len(records), records)
	}

	// Sorted by name
	oldlib, requests := records[0], records[1]

	if oldlib.Name != "oldlib" || oldlib.Version != "0.9.1" {
		t.Errorf("records[0] = %s, want oldlib@0.9.1", oldlib)
	}
	if oldlib.RawLicense != "" {
		t.Errorf("oldlib RawLicense = %q, want empty (UNKNOWN is treated as absent)", oldlib.RawLicense)
	}
	if len(oldlib.Classifiers) != 1 || oldlib.Classifiers[0] != "License :: OSI Approved :: MIT License" {
		t.Errorf("oldlib Classifiers = %v", oldlib.Classifiers)
	}
	if oldlib.Source != SourcePkgInfo {
		t.Errorf("oldlib Source = %v, want %v", oldlib.Source, SourcePkgInfo)
	}

	if requests.Name != "requests" || requests.Version != "2.31.0" {
		t.Errorf("records[1] = %s, want requests@2.31.0", requests)
	}
	if requests.RawLicense != "Apache-2.0" {
		t.Errorf("requests RawLicense = %q, want Apache-2.0", requests.RawLicense)
	}
	if len(requests.Classifiers) != 1 {
		t.Errorf("requests Classifiers = %v, want only the License classifier", requests.Classifiers)
	}
	if requests.Source != SourceMetadata {
		t.Errorf("requests Source = %v, want %v", requests.Source, SourceMetadata)
	}
}

func TestScanSitePackages_IncludeUnknown(t *testing.T) {
	sitePackages := t.TempDir()
	writeMetadata(t, sitePackages, "barelib-1.0.0.dist-info", "METADATA", bareMetadata)

	records, err := ScanSitePackages(sitePackages, true)
	if err != nil {
		t.Fatalf("ScanSitePackages() error = %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].HasLicenseInfo() {
		t.Errorf("HasLicenseInfo() = true for %+v, want false", records[0])
	}
}

func TestFindRecord(t *testing.T) {
	sitePackages := t.TempDir()
	writeMetadata(t, sitePackages, "typing_extensions-4.8.0.dist-info", "METADATA", bareMetadata)

	// Installer spells the name with an underscore; lookups normalize
	rec, err := FindRecord(sitePackages, "typing-extensions")
	if err != nil {
		t.Fatalf("FindRecord() error = %v", err)
	}
	if rec == nil {
		t.Fatal("FindRecord() = nil, want record")
	}
	if rec.Version != "4.8.0" {
		t.Errorf("Version = %q, want 4.8.0", rec.Version)
	}

	missing, err := FindRecord(sitePackages, "nonexistent")
	if err != nil {
		t.Fatalf("FindRecord() error = %v", err)
	}
	if missing != nil {
		t.Errorf("FindRecord(nonexistent) = %+v, want nil", missing)
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Typing_Extensions", "typing-extensions"},
		{"zope.interface", "zope-interface"},
		{"requests", "requests"},
	}

	for _, tt := range tests {
		if got := NormalizeName(tt.input); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
