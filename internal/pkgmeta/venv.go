package pkgmeta

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FindSitePackages resolves a site-packages directory. When path is
// non-empty it may point at a site-packages directory directly or at a
// virtual environment root containing one. When path is empty, a .venv
// in the current working directory is probed using both the Unix
// (lib/pythonX.Y/site-packages) and Windows (Lib/site-packages) layouts.
func FindSitePackages(path string) (string, error) {
	if path != "" {
		if dirExists(filepath.Join(path, "site-packages")) {
			return filepath.Join(path, "site-packages"), nil
		}
		if filepath.Base(path) == "site-packages" {
			return path, nil
		}
		if sp := probeVenv(path); sp != "" {
			return sp, nil
		}
		return path, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	venv := filepath.Join(cwd, ".venv")
	if dirExists(venv) {
		if sp := probeVenv(venv); sp != "" {
			return sp, nil
		}
	}

	return "", fmt.Errorf("could not find site-packages directory, specify a path explicitly")
}

// probeVenv looks for a site-packages directory inside a virtual
// environment root
func probeVenv(root string) string {
	libDir := filepath.Join(root, "lib")
	if entries, err := os.ReadDir(libDir); err == nil {
		for _, entry := range entries {
			if !strings.HasPrefix(entry.Name(), "python") {
				continue
			}
			sp := filepath.Join(libDir, entry.Name(), "site-packages")
			if dirExists(sp) {
				return sp
			}
		}
	}

	// Windows layout
	sp := filepath.Join(root, "Lib", "site-packages")
	if dirExists(sp) {
		return sp
	}

	return ""
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
