package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Debesyla/dago-domenai/internal/profile"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Inspect the available check profiles",
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles grouped by category",
	Run: func(cmd *cobra.Command, args []string) {
		tw := table.NewWriter()
		tw.SetOutputMirror(os.Stdout)
		tw.AppendHeader(table.Row{"Profile", "Category", "Depends On", "Description"})

		byCategory := profile.ByCategory()
		for _, category := range []profile.Category{
			profile.CategoryCore, profile.CategoryAnalysis,
			profile.CategoryIntelligence, profile.CategoryMeta,
		} {
			for _, name := range byCategory[category] {
				info, _ := profile.Lookup(name)
				tw.AppendRow(table.Row{
					name, string(category),
					strings.Join(info.Dependencies, ", "),
					info.Description,
				})
			}
			tw.AppendSeparator()
		}
		tw.Render()
	},
}

var planJSON bool

var profilesPlanCmd = &cobra.Command{
	Use:   "plan <profiles>",
	Short: "Show the execution plan for a profile combination",
	Long: `Plan resolves a comma-separated profile list into its full
execution order without running anything: meta-profiles are expanded,
dependencies pulled in, and the result partitioned into groups that
could run concurrently.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		requested := profile.ParseList(args[0])
		if ok, msg := profile.ValidateCombination(requested); !ok {
			return errors.New(msg)
		}
		plan, err := profile.Plan(requested)
		if err != nil {
			return err
		}

		if planJSON {
			data, err := json.MarshalIndent(plan, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Printf("Requested:  %s\n", strings.Join(plan.Requested, ", "))
		fmt.Printf("Expanded:   %s\n", strings.Join(plan.Expanded, ", "))
		fmt.Printf("Order:      %s\n", strings.Join(plan.Order, " -> "))
		fmt.Printf("Estimated:  %s per domain\n", plan.EstimatedTime)
		fmt.Println()

		tw := table.NewWriter()
		tw.SetOutputMirror(os.Stdout)
		tw.AppendHeader(table.Row{"Group", "Profiles"})
		for i, group := range plan.Groups {
			tw.AppendRow(table.Row{i + 1, strings.Join(group, ", ")})
		}
		tw.Render()
		return nil
	},
}

func init() {
	profilesPlanCmd.Flags().BoolVar(&planJSON, "json", false, "print the plan as JSON")
	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesPlanCmd)
}
