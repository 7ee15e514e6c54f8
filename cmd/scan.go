package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Debesyla/dago-domenai/internal/export"
	"github.com/Debesyla/dago-domenai/internal/pipeline"
	"github.com/Debesyla/dago-domenai/internal/profile"
	"github.com/Debesyla/dago-domenai/internal/schema"
	"github.com/Debesyla/dago-domenai/internal/store"
)

var (
	scanDomainsFile string
	scanProfiles    string
	scanTask        string
	scanExports     []string
	scanTimeoutSecs int
)

var scanCmd = &cobra.Command{
	Use:   "scan [domain...]",
	Short: "Scan domains through the configured check profiles",
	Long: `Scan runs each domain through the check pipeline: registration
status, connectivity, then the analysis suite selected by --profiles.
Domains come from the arguments, from --file (one per line, # comments
allowed), or both.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		domains, err := collectDomains(args, scanDomainsFile)
		if err != nil {
			return err
		}
		if len(domains) == 0 {
			return errors.New("no domains to scan (pass arguments or --file)")
		}

		if cmd.Flags().Changed("timeout") {
			cliConfig.Scan.TimeoutSecs = scanTimeoutSecs
		}

		opts := pipeline.Options{
			Task:                    scanTask,
			Checker:                 checkerConfig(),
			AssumeRegisteredOnError: cliConfig.Defaults.AssumeRegisteredOnError,
		}

		// Profile validation happens before any network or database work
		// so a typo fails fast.
		if scanProfiles != "" {
			requested := profile.ParseList(scanProfiles)
			if ok, msg := profile.ValidateCombination(requested); !ok {
				return errors.New(msg)
			}
			plan, err := profile.Plan(requested)
			if err != nil {
				return err
			}
			opts.Profiles = requested
			opts.Plan = plan
			opts.Enabled = pipeline.EnabledFromOrder(plan.Order)
			if opts.Task == "" {
				opts.Task = "profiles:" + strings.Join(requested, ",")
			}
			logger.Infow("resolved profiles",
				"requested", requested, "order", plan.Order, "estimated", plan.EstimatedTime)
		} else {
			opts.Enabled = pipeline.EnabledFromFlags(cliConfig.Scan.Checks)
			if opts.Task == "" {
				opts.Task = "default"
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		db := openStore(ctx)
		if db != nil {
			defer db.Close()
		}
		var ps pipeline.Store
		if db != nil {
			ps = db
		}

		p := pipeline.New(opts, pipeline.DefaultChecks(), ps, logger)
		results, summary := pipeline.NewRunner(p, ps, logger).Run(ctx, domains)

		printBatchSummary(summary)

		return runExports(results, scanExports)
	},
}

// runExports writes the requested export formats. "both" is shorthand
// for json and csv; "none" suppresses exports entirely.
func runExports(results []*schema.Result, formats []string) error {
	exporter := export.New(resultsDir)
	write := func(kind string, fn func([]*schema.Result) (string, error)) error {
		path, err := fn(results)
		if err != nil {
			return fmt.Errorf("export %s: %w", kind, err)
		}
		fmt.Printf("Results written to %s\n", path)
		return nil
	}

	for _, format := range formats {
		switch strings.ToLower(strings.TrimSpace(format)) {
		case "json":
			if err := write("json", exporter.WriteJSON); err != nil {
				return err
			}
		case "csv":
			if err := write("csv", exporter.WriteCSV); err != nil {
				return err
			}
		case "summary":
			if err := write("summary", exporter.WriteSummary); err != nil {
				return err
			}
		case "both":
			if err := write("json", exporter.WriteJSON); err != nil {
				return err
			}
			if err := write("csv", exporter.WriteCSV); err != nil {
				return err
			}
		case "none", "":
		default:
			return fmt.Errorf("unknown export format %q (json, csv, summary, both, none)", format)
		}
	}
	return nil
}

// openStore opens the configured database, degrading to no persistence
// with a warning when it cannot be opened.
func openStore(ctx context.Context) *store.Store {
	if noDatabase {
		return nil
	}
	db, err := store.Open(ctx, databasePath)
	if err != nil {
		logger.Warnw("database unavailable, continuing without persistence",
			"path", databasePath, "error", err)
		return nil
	}
	return db
}

// collectDomains merges positional arguments with the optional domains
// file, preserving order and dropping duplicates.
func collectDomains(args []string, file string) ([]string, error) {
	seen := map[string]bool{}
	var domains []string
	add := func(raw string) {
		d := strings.ToLower(strings.TrimSpace(raw))
		if d == "" || strings.HasPrefix(d, "#") || seen[d] {
			return
		}
		seen[d] = true
		domains = append(domains, d)
	}

	for _, arg := range args {
		add(arg)
	}

	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("open domains file: %w", err)
		}
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			add(scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read domains file: %w", err)
		}
	}
	return domains, nil
}

func printBatchSummary(s pipeline.BatchSummary) {
	fmt.Printf("\nScanned %d domains in %s\n", s.Total, s.Elapsed.Round(10*time.Millisecond))
	fmt.Printf("  %s %d  %s %d  %s %d  %s %d\n",
		colorSuccess("success:"), s.Success,
		colorWarn("partial:"), s.Partial,
		colorError("error:"), s.Errored,
		colorInfo("skipped:"), s.Skipped)
}

func init() {
	scanCmd.Flags().StringVarP(&scanDomainsFile, "file", "f", "", "file with domains, one per line")
	scanCmd.Flags().StringVarP(&scanProfiles, "profiles", "p", "", "comma-separated check profiles (see 'dago profiles list')")
	scanCmd.Flags().StringVar(&scanTask, "task", "", "task name to record results under")
	scanCmd.Flags().StringSliceVar(&scanExports, "export", nil, "export formats: json, csv, summary, both, none")
	scanCmd.Flags().IntVar(&scanTimeoutSecs, "timeout", defaultRequestTimeoutSecs, "per-request timeout in seconds")
}
