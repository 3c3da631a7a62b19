// Package report assembles and renders the audit output.
package report

import (
	"sort"

	"github.com/moritamori/licenseguard/internal/license"
	"github.com/moritamori/licenseguard/internal/pkgmeta"
	"github.com/moritamori/licenseguard/internal/policy"
)

// Entry pairs a scanned package with its classified license and, when a
// policy was evaluated, its verdict
type Entry struct {
	Package pkgmeta.PackageRecord `json:"package" toml:"package"`
	License license.Identifier    `json:"license_info" toml:"license_info"`
	Verdict *policy.Verdict       `json:"verdict,omitempty" toml:"verdict,omitempty"`
}

// LicenseCount is one identifier with its occurrence count
type LicenseCount struct {
	License string `json:"license" toml:"license"`
	Count   int    `json:"count" toml:"count"`
}

// Summary aggregates license statistics over all scanned packages
type Summary struct {
	TotalPackages  int            `json:"total_packages" toml:"total_packages"`
	WithLicense    int            `json:"with_license" toml:"with_license"`
	WithoutLicense int            `json:"without_license" toml:"without_license"`
	OSIApproved    []LicenseCount `json:"osi_approved" toml:"osi_approved"`
	NonOSI         []LicenseCount `json:"non_osi" toml:"non_osi"`
}

// Report is the full output of one run
type Report struct {
	Entries []Entry             `json:"packages" toml:"packages"`
	Summary Summary             `json:"summary" toml:"summary"`
	Audit   *policy.AuditReport `json:"audit,omitempty" toml:"audit,omitempty"`
}

// Build assembles a report from parallel slices of records and their
// classifications, plus an optional audit result. Entry order mirrors
// the record order.
func Build(records []pkgmeta.PackageRecord, ids []license.Identifier, audit *policy.AuditReport) *Report {
	entries := make([]Entry, len(records))
	osiCounts := map[string]int{}
	nonOSICounts := map[string]int{}

	summary := Summary{TotalPackages: len(records)}

	for i, rec := range records {
		entries[i] = Entry{Package: rec, License: ids[i]}

		if rec.HasLicenseInfo() {
			summary.WithLicense++
		} else {
			summary.WithoutLicense++
		}

		if ids[i].OSIApproved {
			osiCounts[ids[i].ID]++
		} else {
			nonOSICounts[ids[i].ID]++
		}
	}

	if audit != nil {
		for i := range audit.Verdicts {
			if i < len(entries) {
				entries[i].Verdict = &audit.Verdicts[i]
			}
		}
	}

	summary.OSIApproved = sortedCounts(osiCounts)
	summary.NonOSI = sortedCounts(nonOSICounts)

	return &Report{Entries: entries, Summary: summary, Audit: audit}
}

// sortedCounts orders counts descending, ties broken by name for
// reproducible output
func sortedCounts(counts map[string]int) []LicenseCount {
	out := make([]LicenseCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, LicenseCount{License: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].License < out[j].License
	})
	return out
}
