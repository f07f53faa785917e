package cmd

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/openshelf/openshelf/pkg/enrich"
	"github.com/openshelf/openshelf/pkg/store"
)

var enrichFlags struct {
	fields    []string
	overwrite bool
	all       bool
}

var enrichCmd = &cobra.Command{
	Use:   "enrich [item-id...]",
	Short: "Fill gaps in stored records from the configured sources",
	Long: `Enrich looks up source data for each item, diffs it against the
stored record, and patches the store. By default only missing fields
are filled; --overwrite also replaces fields that already have values.

With --all the whole catalog is enriched instead of named items.`,
	Example: `  openshelf enrich 01J8ZQ4X
  openshelf enrich --all --fields subjects,dewey_decimal`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && !enrichFlags.all {
			return fmt.Errorf("name item IDs or pass --all")
		}
		client, err := newClient()
		if err != nil {
			return err
		}

		itemIDs := args
		if enrichFlags.all {
			records, err := client.Store().ListRecords(cmd.Context(), store.ListQuery{})
			if err != nil {
				return err
			}
			itemIDs = itemIDs[:0]
			for _, r := range records {
				itemIDs = append(itemIDs, r.ID)
			}
		}

		opts := []enrich.Option{
			enrich.WithProgress(func(current, total int, itemID string, status enrich.Status) {
				fmt.Printf("  [%d/%d] %s: %s\n", current, total, itemID, status)
			}),
		}
		if len(enrichFlags.fields) > 0 {
			opts = append(opts, enrich.WithFields(enrichFlags.fields))
		}
		if enrichFlags.overwrite {
			opts = append(opts, enrich.WithApprover(enrich.ApproveAll))
		}

		summary, err := client.Enrich(cmd.Context(), itemIDs, opts...)
		if summary != nil {
			renderSummary(summary)
		}
		return err
	},
}

func renderSummary(summary *enrich.Summary) {
	t := newTable()
	t.AppendHeader(table.Row{"Item", "Status", "Detail"})
	for _, outcome := range summary.Outcomes {
		detail := outcome.Reason
		if outcome.Status == enrich.StatusApplied {
			detail = strings.Join(outcome.Fields, ", ")
		}
		t.AppendRow(table.Row{outcome.ItemID, outcome.Status, truncate(detail, 60)})
	}
	t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d applied, %d skipped, %d failed",
		summary.Applied, summary.Skipped, summary.Failed)})
	t.Render()
}

func init() {
	rootCmd.AddCommand(enrichCmd)
	enrichCmd.Flags().StringSliceVar(&enrichFlags.fields, "fields", nil, "restrict enrichment to these fields")
	enrichCmd.Flags().BoolVar(&enrichFlags.overwrite, "overwrite", false, "replace populated fields, not just fill gaps")
	enrichCmd.Flags().BoolVar(&enrichFlags.all, "all", false, "enrich every record in the catalog")
}
