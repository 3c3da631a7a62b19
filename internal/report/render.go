package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/moritamori/licenseguard/internal/policy"
)

// Format is an output format name
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatTOML  Format = "toml"
	FormatCSV   Format = "csv"
)

// ParseFormat validates a format name
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatTable, FormatJSON, FormatTOML, FormatCSV:
		return Format(name), nil
	}
	return "", fmt.Errorf("unknown output format %q (expected table, json, toml, or csv)", name)
}

// Render serializes the report in the requested format. The verbose
// flag only affects the table format, which lists every package instead
// of issues only.
func Render(r *Report, format Format, verbose bool) (string, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to encode report as JSON: %w", err)
		}
		return string(data) + "\n", nil
	case FormatTOML:
		data, err := toml.Marshal(r)
		if err != nil {
			return "", fmt.Errorf("failed to encode report as TOML: %w", err)
		}
		return string(data), nil
	case FormatCSV:
		return renderCSV(r)
	case FormatTable:
		return renderTable(r, verbose), nil
	}
	return "", fmt.Errorf("unknown output format %q", format)
}

func renderCSV(r *Report) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"name", "version", "license", "osi_approved", "source", "level", "matched_rule", "message"}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("failed to encode report as CSV: %w", err)
	}

	for _, entry := range r.Entries {
		row := []string{
			entry.Package.Name,
			entry.Package.Version,
			entry.License.ID,
			strconv.FormatBool(entry.License.OSIApproved),
			string(entry.License.Source),
		}
		if entry.Verdict != nil {
			row = append(row, string(entry.Verdict.Level), entry.Verdict.MatchedRule, entry.Verdict.Message)
		} else {
			row = append(row, "", "", "")
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to encode report as CSV: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to encode report as CSV: %w", err)
	}
	return buf.String(), nil
}

const (
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
	colorRed    = "\x1b[31m"
	colorReset  = "\x1b[0m"
)

func renderTable(r *Report, verbose bool) string {
	var b strings.Builder

	violations := 0
	if r.Audit != nil {
		violations = r.Audit.Errors + r.Audit.Warnings
	}

	fmt.Fprintf(&b, "License Summary (%d packages)\n", r.Summary.TotalPackages)
	fmt.Fprintf(&b, "%d with licenses, %d unknown, %d violations\n\n",
		r.Summary.WithLicense, r.Summary.WithoutLicense, violations)

	if verbose {
		b.WriteString("All Packages:\n")
		writeTableRows(&b, r.Entries)
	} else {
		issues := issueEntries(r.Entries)
		if len(issues) == 0 {
			b.WriteString("No issues found.\n")
		} else {
			b.WriteString("Issues Found:\n")
			writeTableRows(&b, issues)
		}
		if len(r.Entries) > len(issues) {
			fmt.Fprintf(&b, "\nRun with --verbose to see all %d packages\n", len(r.Entries))
		}
	}

	if r.Audit != nil {
		status := colorGreen + "PASSED" + colorReset
		if !r.Audit.Passed {
			status = colorRed + "FAILED" + colorReset
		}
		fmt.Fprintf(&b, "\nAudit %s: %d errors, %d warnings (policy: %s)\n",
			status, r.Audit.Errors, r.Audit.Warnings, r.Audit.PolicyName)
	}

	return b.String()
}

func issueEntries(entries []Entry) []Entry {
	var issues []Entry
	for _, entry := range entries {
		if entryStatus(entry) != statusOK {
			issues = append(issues, entry)
		}
	}
	return issues
}

type status int

const (
	statusOK status = iota
	statusUnknown
	statusProblem
)

func entryStatus(entry Entry) status {
	if entry.Verdict != nil {
		switch entry.Verdict.Level {
		case policy.LevelForbidden, policy.LevelReviewRequired:
			return statusProblem
		}
	}
	if !entry.Package.HasLicenseInfo() {
		return statusUnknown
	}
	return statusOK
}

func writeTableRows(b *strings.Builder, entries []Entry) {
	b.WriteString("┌──────────────────────┬────────────┬──────────────────┬─────────────────┐\n")
	b.WriteString("│ Package              │ Version    │ License          │ Status          │\n")
	b.WriteString("├──────────────────────┼────────────┼──────────────────┼─────────────────┤\n")

	for _, entry := range entries {
		name := truncate(entry.Package.Name, 20)
		version := entry.Package.Version
		if version == "" {
			version = "unknown"
		}
		version = truncate(version, 10)
		lic := truncate(entry.License.ID, 16)

		var label, colored string
		switch entryStatus(entry) {
		case statusOK:
			label, colored = "OK", colorGreen+"OK"+colorReset
		case statusUnknown:
			label, colored = "Unknown", colorYellow+"Unknown"+colorReset
		case statusProblem:
			label = statusLabel(entry.Verdict)
			colored = colorRed + label + colorReset
		}
		padding := strings.Repeat(" ", 15-len([]rune(label)))

		fmt.Fprintf(b, "│ %-20s │ %-10s │ %-16s │ %s%s │\n", name, version, lic, colored, padding)
	}

	b.WriteString("└──────────────────────┴────────────┴──────────────────┴─────────────────┘\n")
}

func statusLabel(v *policy.Verdict) string {
	if v == nil {
		return "Problem"
	}
	switch v.Level {
	case policy.LevelForbidden:
		return "Forbidden"
	case policy.LevelReviewRequired:
		return "Review required"
	}
	return "Problem"
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
