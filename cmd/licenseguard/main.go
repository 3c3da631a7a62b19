package main

import (
	"embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/moritamori/licenseguard/internal/config"
	"github.com/moritamori/licenseguard/internal/exceptions"
	"github.com/moritamori/licenseguard/internal/license"
	"github.com/moritamori/licenseguard/internal/logger"
	"github.com/moritamori/licenseguard/internal/pkgmeta"
	"github.com/moritamori/licenseguard/internal/policy"
	"github.com/moritamori/licenseguard/internal/report"
)

// デフォルトのエイリアステーブルを埋め込み
//go:embed aliases.yaml
var defaultAliasesYAML []byte

//go:embed policies/*.toml
var builtinPolicyFS embed.FS

var builtinPolicyNames = []string{"permissive", "corporate", "strict"}

var (
	// Global flags
	logLevel      string
	aliasesConfig string
	quiet         bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "licenseguard",
		Short: "License Guard - virtualenv license compliance auditor",
		Long: `License Guard audits the licenses of packages installed in a Python
virtual environment and evaluates them against a compliance policy.`,
		Example: `  licenseguard check
  licenseguard check .venv --policy corporate --format json
  licenseguard init corporate
  licenseguard fix --dry-run`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&aliasesConfig, "aliases-config", "", "Path to license alias table file")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")

	// Subcommands
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newFixCmd())
	rootCmd.AddCommand(newPrintConfigCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *logger.Logger {
	level := logger.LevelInfo
	switch logLevel {
	case "debug":
		level = logger.LevelDebug
	case "warn":
		level = logger.LevelWarn
	case "error":
		level = logger.LevelError
	}
	return logger.NewLogger(os.Stderr, level)
}

// builtinPolicies returns the embedded preset documents keyed by name
func builtinPolicies() map[string][]byte {
	presets := make(map[string][]byte, len(builtinPolicyNames))
	for _, name := range builtinPolicyNames {
		data, err := builtinPolicyFS.ReadFile("policies/" + name + ".toml")
		if err != nil {
			// Embedded files are part of the binary; a miss is a build defect
			panic(err)
		}
		presets[name] = data
	}
	return presets
}

func newCheckCmd() *cobra.Command {
	var (
		policyName     string
		policyFile     string
		format         string
		outputPath     string
		includeUnknown bool
		exitZero       bool
		verbose        bool
	)

	cmd := &cobra.Command{
		Use:   "check [path]",
		Short: "Run a license audit over installed packages",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			includeUnknown = includeUnknown || cfg.IncludeUnknown

			aliases, err := license.LoadAliases(aliasesConfig, defaultAliasesYAML)
			if err != nil {
				return fmt.Errorf("failed to load alias table: %w", err)
			}

			pol, err := policy.Resolve(policyFile, policyName, cfg.Policy, builtinPolicies())
			if err != nil {
				return err
			}

			var path string
			if len(args) == 1 {
				path = args[0]
			}

			records, err := collectRecords(path, includeUnknown)
			if err != nil {
				return err
			}
			log.Debug("scan_complete", fmt.Sprintf("Found %d packages", len(records)), nil)

			ids := make([]license.Identifier, len(records))
			for i, rec := range records {
				ids[i] = aliases.Classify(rec)
			}

			var audit *policy.AuditReport
			if pol != nil {
				if cfg.FailOnViolations {
					pol.FailOnViolations = true
				}

				store, err := exceptions.Load(exceptions.DefaultPath())
				if err != nil {
					return err
				}
				pol.Exceptions = append(pol.Exceptions, store.PolicyExceptions(time.Now())...)

				engine := policy.NewEngine(pol)
				verdicts := engine.EvaluateAll(records, ids)
				result := policy.Aggregate(verdicts, pol)
				audit = &result

				for i, v := range verdicts {
					log.LogVerdict(records[i], v, pol.Name, result.RunID)
				}
			}

			rep := report.Build(records, ids, audit)

			formatName := format
			if formatName == "" {
				formatName = cfg.Format
			}
			outFormat, err := report.ParseFormat(formatName)
			if err != nil {
				return err
			}

			content, err := report.Render(rep, outFormat, verbose)
			if err != nil {
				return err
			}

			if outputPath != "" {
				if err := os.WriteFile(outputPath, []byte(content), 0o644); err != nil {
					return fmt.Errorf("failed to write report: %w", err)
				}
			} else if !quiet {
				fmt.Print(content)
			}

			if audit != nil && !audit.Passed {
				log.Error("audit_failed", "Forbidden licenses found", map[string]interface{}{
					"errors":   audit.Errors,
					"warnings": audit.Warnings,
					"policy":   audit.PolicyName,
				})
				if !exitZero {
					os.Exit(1)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&policyName, "policy", "", "Builtin policy: permissive, corporate, or strict")
	cmd.Flags().StringVar(&policyFile, "policy-file", "", "Path to a TOML policy file")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: table, json, toml, or csv")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&includeUnknown, "include-unknown", false, "Include packages without license metadata")
	cmd.Flags().BoolVar(&exitZero, "exit-zero", false, "Exit with code 0 even when the audit fails")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show all packages, not just issues")
	cmd.MarkFlagsMutuallyExclusive("policy", "policy-file")

	return cmd
}

// collectRecords gathers package records, preferring a uv.lock joined
// against site-packages metadata and falling back to a plain
// site-packages scan
func collectRecords(path string, includeUnknown bool) ([]pkgmeta.PackageRecord, error) {
	if lockPath := pkgmeta.FindUvLock(); lockPath != "" {
		lock, err := pkgmeta.ParseUvLock(lockPath)
		if err != nil {
			return nil, err
		}
		// License data still comes from installed metadata when available
		sitePackages, _ := pkgmeta.FindSitePackages(path)
		return pkgmeta.RecordsFromUvLock(lock, sitePackages, includeUnknown)
	}

	sitePackages, err := pkgmeta.FindSitePackages(path)
	if err != nil {
		return nil, err
	}
	return pkgmeta.ScanSitePackages(sitePackages, includeUnknown)
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "init <policy>",
		Short:     "Add a [tool.licenseguard] section to pyproject.toml",
		Args:      cobra.ExactArgs(1),
		ValidArgs: builtinPolicyNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			preset := args[0]
			if _, err := policy.LoadBuiltin(preset, builtinPolicies()); err != nil {
				return err
			}

			data, err := os.ReadFile("pyproject.toml")
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("pyproject.toml not found, create a project first")
				}
				return err
			}

			if strings.Contains(string(data), "[tool.licenseguard]") {
				return fmt.Errorf("pyproject.toml already has a [tool.licenseguard] section")
			}

			section := fmt.Sprintf("\n[tool.licenseguard]\npolicy = %q\nformat = \"table\"\ninclude_unknown = false\nfail_on_violations = true\n", preset)
			f, err := os.OpenFile("pyproject.toml", os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return err
			}
			defer f.Close()
			if _, err := f.WriteString(section); err != nil {
				return fmt.Errorf("failed to update pyproject.toml: %w", err)
			}

			if !quiet {
				fmt.Printf("Added [tool.licenseguard] section with the %s policy to pyproject.toml\n", preset)
			}
			return nil
		},
	}
}

func newFixCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "fix [path]",
		Short: "Record exceptions for current violations",
		Long: `Fix evaluates the environment against the configured policy and adds
an exception store entry for every package that is not allowed, so a
known-bad baseline can be frozen and reviewed over time.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			pol, err := policy.Resolve("", "", cfg.Policy, builtinPolicies())
			if err != nil {
				return err
			}
			if pol == nil {
				return fmt.Errorf("no policy configured, run 'licenseguard init <policy>' first")
			}

			aliases, err := license.LoadAliases(aliasesConfig, defaultAliasesYAML)
			if err != nil {
				return fmt.Errorf("failed to load alias table: %w", err)
			}

			storePath := exceptions.DefaultPath()
			store, err := exceptions.Load(storePath)
			if err != nil {
				return err
			}
			now := time.Now()
			pol.Exceptions = append(pol.Exceptions, store.PolicyExceptions(now)...)

			var path string
			if len(args) == 1 {
				path = args[0]
			}
			records, err := collectRecords(path, cfg.IncludeUnknown)
			if err != nil {
				return err
			}

			ids := make([]license.Identifier, len(records))
			for i, rec := range records {
				ids[i] = aliases.Classify(rec)
			}

			engine := policy.NewEngine(pol)
			var added []exceptions.Entry
			for i, rec := range records {
				verdict := engine.Evaluate(rec, ids[i])
				if verdict.Level == policy.LevelAllowed {
					continue
				}
				added = append(added, exceptions.Entry{
					Name:      rec.Name,
					Version:   rec.Version,
					Reason:    fmt.Sprintf("Auto-generated exception for %s license", verdict.License.ID),
					AddedDate: now,
					Permanent: false,
				})
			}

			if len(added) == 0 {
				if !quiet {
					fmt.Println("No violations found, nothing to fix")
				}
				return nil
			}

			if dryRun {
				if !quiet {
					fmt.Printf("Would add %d exceptions to %s:\n", len(added), exceptions.FileName)
					for _, e := range added {
						fmt.Printf("  - %s %s (%s)\n", e.Name, orAny(e.Version), e.Reason)
					}
				}
				return nil
			}

			for _, e := range added {
				store.Add(e)
			}
			if err := store.Save(storePath); err != nil {
				return err
			}

			if !quiet {
				fmt.Printf("Added %d exceptions to %s:\n", len(added), exceptions.FileName)
				for _, e := range added {
					fmt.Printf("  - %s %s (%s)\n", e.Name, orAny(e.Version), e.Reason)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show changes without applying them")
	return cmd
}

func orAny(version string) string {
	if version == "" {
		return "*"
	}
	return version
}

func newPrintConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "print-config",
		Short: "Print the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			fmt.Printf("Policy: %s\n", orNone(cfg.Policy))
			fmt.Printf("Format: %s\n", cfg.Format)
			fmt.Printf("Include Unknown: %v\n", cfg.IncludeUnknown)
			fmt.Printf("Fail On Violations: %v\n", cfg.FailOnViolations)
			fmt.Printf("Aliases Config: %s\n", orNone(aliasesConfig))
			fmt.Printf("Log Level: %s\n", logLevel)
			return nil
		},
	}
}

func orNone(s string) string {
	if s == "" {
		return "[not set]"
	}
	return s
}
