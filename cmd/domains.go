package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Debesyla/dago-domenai/internal/schema"
	"github.com/Debesyla/dago-domenai/internal/store"
)

var domainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "Inspect previously scanned domains",
}

func requireStore(cmd *cobra.Command) (*store.Store, error) {
	if noDatabase {
		return nil, errors.New("persistence is disabled (--no-db)")
	}
	db, err := store.Open(cmd.Context(), databasePath)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", databasePath, err)
	}
	return db, nil
}

func flagLabel(v *bool) string {
	if v == nil {
		return "?"
	}
	if *v {
		return "yes"
	}
	return "no"
}

var domainsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all known domains with their flags",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := requireStore(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		domains, err := db.ListDomains(cmd.Context())
		if err != nil {
			return err
		}

		tw := table.NewWriter()
		tw.SetOutputMirror(os.Stdout)
		tw.AppendHeader(table.Row{"Domain", "Registered", "Active", "Source", "Updated"})
		for _, d := range domains {
			tw.AppendRow(table.Row{
				d.Name, flagLabel(d.IsRegistered), flagLabel(d.IsActive),
				d.SourceDomain, d.UpdatedAt.Format("2006-01-02 15:04"),
			})
		}
		tw.Render()
		return nil
	},
}

var resultsLimit int
var resultsJSON bool

var domainsResultsCmd = &cobra.Command{
	Use:   "results [domain]",
	Short: "Show stored scan results, newest first",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := requireStore(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		var results []store.StoredResult
		if len(args) == 1 {
			results, err = db.DomainResults(cmd.Context(), args[0])
		} else {
			results, err = db.LatestResults(cmd.Context(), resultsLimit)
		}
		if err != nil {
			return err
		}

		if resultsJSON {
			out := make([]json.RawMessage, 0, len(results))
			for _, r := range results {
				out = append(out, r.Data)
			}
			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		tw := table.NewWriter()
		tw.SetOutputMirror(os.Stdout)
		tw.AppendHeader(table.Row{"Domain", "Task", "Status", "Grade", "Issues", "Checked"})
		for _, r := range results {
			var record schema.Result
			grade, issues := "", ""
			if err := json.Unmarshal(r.Data, &record); err == nil {
				grade = formatGradeWithColor(record.Summary.Grade)
				issues = fmt.Sprintf("%d", record.Summary.Issues)
			}
			tw.AppendRow(table.Row{
				r.Domain, r.Task, formatStatusWithColor(r.Status), grade, issues,
				r.CheckedAt.Format("2006-01-02 15:04"),
			})
		}
		tw.Render()
		return nil
	},
}

var domainsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate statistics for the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := requireStore(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.Stats(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Domains:    %d (%d registered, %d active)\n",
			stats.Domains, stats.Registered, stats.Active)
		fmt.Printf("Results:    %d\n", stats.Results)
		for _, status := range []string{"success", "partial", "error", "skipped"} {
			if n, ok := stats.ByStatus[status]; ok {
				fmt.Printf("  %s %d\n", formatStatusWithColor(status)+":", n)
			}
		}
		return nil
	},
}

func init() {
	domainsResultsCmd.Flags().IntVar(&resultsLimit, "limit", 20, "maximum rows when no domain is given (0 for all)")
	domainsResultsCmd.Flags().BoolVar(&resultsJSON, "json", false, "print the full result records as JSON")
	domainsCmd.AddCommand(domainsListCmd)
	domainsCmd.AddCommand(domainsResultsCmd)
	domainsCmd.AddCommand(domainsStatsCmd)
}
