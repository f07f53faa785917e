package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openshelf/openshelf/pkg/lookup"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <isbn | query>",
	Short: "Resolve an identifier or free-text query to one record",
	Long: `Lookup cascades over the configured sources in priority order and
returns the first usable record. Identifiers (ISBN, LCCN) hit each
source's direct lookup; anything else falls back to search.`,
	Example: `  openshelf lookup 9780547928227
  openshelf lookup "the hobbit by tolkien"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		orchestrator, err := newOrchestrator(progressLine)
		if err != nil {
			return err
		}
		candidate, err := orchestrator.Lookup(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		renderCandidate(candidate)
		return nil
	},
}

// progressLine writes one status line per source consulted.
func progressLine(current, total int, label string) {
	fmt.Printf("  [%d/%d] %s\n", current, total, label)
}

var _ lookup.ProgressFunc = progressLine

func init() {
	rootCmd.AddCommand(lookupCmd)
}
