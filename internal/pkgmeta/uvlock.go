package pkgmeta

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// UvLockFile represents the subset of a uv.lock document this tool reads
type UvLockFile struct {
	Version        int         `toml:"version"`
	Revision       int         `toml:"revision"`
	RequiresPython string      `toml:"requires-python"`
	Packages       []UvPackage `toml:"package"`
}

// UvPackage is one locked distribution entry
type UvPackage struct {
	Name    string    `toml:"name"`
	Version string    `toml:"version"`
	Source  *UvSource `toml:"source"`
}

// UvSource records where a locked package resolves from
type UvSource struct {
	Registry string `toml:"registry"`
	Git      string `toml:"git"`
	Path     string `toml:"path"`
}

// ParseUvLock reads and parses a uv.lock file
func ParseUvLock(path string) (*UvLockFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read uv.lock: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("uv.lock file is empty: %s", path)
	}

	var lock UvLockFile
	if err := toml.Unmarshal(data, &lock); err != nil {
		return nil, fmt.Errorf("failed to parse uv.lock %s: %w", path, err)
	}

	return &lock, nil
}

// FindUvLock searches for a non-empty uv.lock in the working directory
// and its parents. Returns the empty string when none is found.
func FindUvLock() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		path := filepath.Join(dir, "uv.lock")
		if info, err := os.Stat(path); err == nil && !info.IsDir() && info.Size() > 0 {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// RecordsFromUvLock turns locked packages into records, joining each
// entry against site-packages metadata for license information when a
// site-packages directory is available. Lock entries with no installed
// metadata keep the locked name/version and carry no license data.
func RecordsFromUvLock(lock *UvLockFile, sitePackages string, includeUnknown bool) ([]PackageRecord, error) {
	var records []PackageRecord
	for _, pkg := range lock.Packages {
		if strings.TrimSpace(pkg.Name) == "" || strings.TrimSpace(pkg.Version) == "" {
			continue
		}

		rec := PackageRecord{
			Name:        pkg.Name,
			Version:     pkg.Version,
			Classifiers: []string{},
			Source:      SourceUvLock,
		}

		if sitePackages != "" {
			installed, err := FindRecord(sitePackages, pkg.Name)
			if err != nil {
				return nil, err
			}
			if installed != nil {
				rec.RawLicense = installed.RawLicense
				rec.Classifiers = installed.Classifiers
				rec.Source = installed.Source
			}
		}

		if includeUnknown || rec.HasLicenseInfo() {
			records = append(records, rec)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Name < records[j].Name
	})

	return records, nil
}
