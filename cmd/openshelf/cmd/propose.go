package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/openshelf/openshelf"
)

var proposeFlags struct {
	fields []string
	apply  bool
}

var proposeCmd = &cobra.Command{
	Use:   "propose <item-id>",
	Short: "Show the changes the sources suggest for one record",
	Long: `Propose looks up source data for a stored record and prints the
field-level differences without writing anything. Pass --apply to
patch the record with every proposed change.`,
	Example: `  openshelf propose 01J8ZQ4X
  openshelf propose 01J8ZQ4X --fields subjects,pages --apply`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		proposal, err := client.Propose(cmd.Context(), args[0], proposeFlags.fields)
		if err != nil {
			return err
		}
		if len(proposal.Diffs) == 0 {
			fmt.Println("Nothing to change")
			return nil
		}
		renderDiffs(proposal)
		if !proposeFlags.apply {
			return nil
		}
		if err := client.Apply(cmd.Context(), proposal, proposal.Diffs); err != nil {
			return err
		}
		fmt.Printf("Applied %d changes to %s\n", len(proposal.Diffs), args[0])
		return nil
	},
}

func renderDiffs(proposal *openshelf.Proposal) {
	t := newTable()
	t.AppendHeader(table.Row{"Field", "Current", "Proposed", "New"})
	for _, d := range proposal.Diffs {
		newMark := ""
		if d.NewField {
			newMark = "✓"
		}
		t.AppendRow(table.Row{
			d.Key,
			truncate(renderValue(d.Current), 36),
			truncate(renderValue(d.Candidate), 36),
			newMark,
		})
	}
	t.Render()
}

func renderValue(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func init() {
	rootCmd.AddCommand(proposeCmd)
	proposeCmd.Flags().StringSliceVar(&proposeFlags.fields, "fields", nil, "restrict the proposal to these fields")
	proposeCmd.Flags().BoolVar(&proposeFlags.apply, "apply", false, "apply every proposed change")
}
