package pkgmeta

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleUvLock = `
version = 1
revision = 3
requires-python = ">=3.10"

[[package]]
name = "requests"
version = "2.31.0"
source = { registry = "https://pypi.org/simple" }

[[package]]
name = "click"
version = "8.1.7"
source = { registry = "https://pypi.org/simple" }
`

func TestParseUvLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uv.lock")
	if err := os.WriteFile(path, []byte(sampleUvLock), 0o644); err != nil {
		t.Fatal(err)
	}

	lock, err := ParseUvLock(path)
	if err != nil {
		t.Fatalf("ParseUvLock() error = %v", err)
	}

	if lock.Version != 1 {
		t.Errorf("Version = %d, want 1", lock.Version)
	}
	if lock.RequiresPython != ">=3.10" {
		t.Errorf("RequiresPython = %q, want >=3.10", lock.RequiresPython)
	}
	if len(lock.Packages) != 2 {
		t.Fatalf("got %d packages, want 2", len(lock.Packages))
	}
	if lock.Packages[0].Name != "requests" || lock.Packages[0].Version != "2.31.0" {
		t.Errorf("Packages[0] = %+v, want requests 2.31.0", lock.Packages[0])
	}
	if lock.Packages[0].Source == nil || lock.Packages[0].Source.Registry != "https://pypi.org/simple" {
		t.Errorf("Packages[0].Source = %+v", lock.Packages[0].Source)
	}
}

func TestParseUvLock_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uv.lock")
	if err := os.WriteFile(path, []byte("  \n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := ParseUvLock(path); err == nil {
		t.Error("ParseUvLock() error = nil, want error for empty file")
	}
}

func TestRecordsFromUvLock(t *testing.T) {
	sitePackages := t.TempDir()
	writeMetadata(t, sitePackages, "requests-2.31.0.dist-info", "METADATA", requestsMetadata)

	lock := &UvLockFile{
		Version: 1,
		Packages: []UvPackage{
			{Name: "requests", Version: "2.31.0"},
			{Name: "click", Version: "8.1.7"},
			{Name: "  ", Version: "1.0"},
		},
	}

	records, err := RecordsFromUvLock(lock, sitePackages, true)
	if err != nil {
		t.Fatalf("RecordsFromUvLock() error = %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2: %+v", len(records), records)
	}

	click, requests := records[0], records[1]

	// Not installed: locked name/version survive, no license data
	if click.Name != "click" || click.Version != "8.1.7" {
		t.Errorf("records[0] = %s, want click@8.1.7", click)
	}
	if click.HasLicenseInfo() {
		t.Errorf("click HasLicenseInfo() = true, want false")
	}
	if click.Source != SourceUvLock {
		t.Errorf("click Source = %v, want %v", click.Source, SourceUvLock)
	}

	// Installed: license joined from site-packages metadata
	if requests.RawLicense != "Apache-2.0" {
		t.Errorf("requests RawLicense = %q, want Apache-2.0", requests.RawLicense)
	}
	if requests.Source != SourceMetadata {
		t.Errorf("requests Source = %v, want %v", requests.Source, SourceMetadata)
	}
}

func TestRecordsFromUvLock_FiltersUnknown(t *testing.T) {
	lock := &UvLockFile{
		Version:  1,
		Packages: []UvPackage{{Name: "click", Version: "8.1.7"}},
	}

	records, err := RecordsFromUvLock(lock, "", false)
	if err != nil {
		t.Fatalf("RecordsFromUvLock() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0 when unknowns are excluded", len(records))
	}
}
