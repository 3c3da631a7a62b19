package pkgmeta

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	distInfoSuffix = ".dist-info"
	eggInfoSuffix  = ".egg-info"
)

// ScanSitePackages reads every .dist-info and .egg-info directory under
// sitePackages and returns one record per installed distribution.
// Records without any license metadata are dropped unless includeUnknown
// is set.
func ScanSitePackages(sitePackages string, includeUnknown bool) ([]PackageRecord, error) {
	entries, err := os.ReadDir(sitePackages)
	if err != nil {
		return nil, fmt.Errorf("failed to read site-packages: %w", err)
	}

	var records []PackageRecord
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		var rec *PackageRecord
		switch {
		case strings.HasSuffix(entry.Name(), distInfoSuffix):
			rec, err = readDistInfo(filepath.Join(sitePackages, entry.Name()))
		case strings.HasSuffix(entry.Name(), eggInfoSuffix):
			rec, err = readEggInfo(filepath.Join(sitePackages, entry.Name()))
		default:
			continue
		}
		if err != nil {
			return nil, err
		}
		if rec == nil {
			continue
		}

		if includeUnknown || rec.HasLicenseInfo() {
			records = append(records, *rec)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Name < records[j].Name
	})

	return records, nil
}

// FindRecord locates the metadata for a single distribution by name.
// Returns nil when the distribution is not installed under sitePackages.
func FindRecord(sitePackages, name string) (*PackageRecord, error) {
	entries, err := os.ReadDir(sitePackages)
	if err != nil {
		return nil, fmt.Errorf("failed to read site-packages: %w", err)
	}

	want := NormalizeName(name)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		var suffix string
		switch {
		case strings.HasSuffix(entry.Name(), distInfoSuffix):
			suffix = distInfoSuffix
		case strings.HasSuffix(entry.Name(), eggInfoSuffix):
			suffix = eggInfoSuffix
		default:
			continue
		}

		dirName, _ := splitNameVersion(strings.TrimSuffix(entry.Name(), suffix))
		if NormalizeName(dirName) != want {
			continue
		}

		if suffix == distInfoSuffix {
			return readDistInfo(filepath.Join(sitePackages, entry.Name()))
		}
		return readEggInfo(filepath.Join(sitePackages, entry.Name()))
	}

	return nil, nil
}

func readDistInfo(dir string) (*PackageRecord, error) {
	return readMetadataFile(dir, "METADATA", distInfoSuffix, SourceMetadata)
}

func readEggInfo(dir string) (*PackageRecord, error) {
	return readMetadataFile(dir, "PKG-INFO", eggInfoSuffix, SourcePkgInfo)
}

func readMetadataFile(dir, fileName, suffix string, source MetadataSource) (*PackageRecord, error) {
	path := filepath.Join(dir, fileName)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer f.Close()

	name, version := splitNameVersion(strings.TrimSuffix(filepath.Base(dir), suffix))

	rec := &PackageRecord{
		Name:        name,
		Version:     version,
		Classifiers: []string{},
		Source:      source,
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		// The metadata body (the long description) follows the first
		// blank line; header fields never appear past it.
		if line == "" {
			break
		}
		if value, ok := strings.CutPrefix(line, "License: "); ok {
			value = strings.TrimSpace(value)
			if value != "" && value != "UNKNOWN" {
				rec.RawLicense = value
			}
		} else if value, ok := strings.CutPrefix(line, "Classifier: "); ok {
			if strings.Contains(value, "License") {
				rec.Classifiers = append(rec.Classifiers, strings.TrimSpace(value))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return rec, nil
}

// splitNameVersion splits a metadata directory stem such as
// "requests-2.31.0" on the last dash. Stems without a dash yield an
// empty version.
func splitNameVersion(stem string) (name, version string) {
	if idx := strings.LastIndex(stem, "-"); idx != -1 {
		return stem[:idx], stem[idx+1:]
	}
	return stem, ""
}
