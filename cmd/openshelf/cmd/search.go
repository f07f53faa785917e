package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/openshelf/openshelf/pkg/lookup"
)

var searchFlags struct {
	publisher string
	place     string
	year      string
	language  string
	subject   string
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the configured sources and rank the results",
	Long: `Search fans a free-text query over the configured sources and prints
the merged result list, best match first. Hint flags sharpen the
ranking without filtering anything out.`,
	Example: `  openshelf search "left hand of darkness"
  openshelf search "dune" --year 1965 --publisher chilton`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		orchestrator, err := newOrchestrator(progressLine)
		if err != nil {
			return err
		}
		hints := &lookup.Hints{
			Publisher: searchFlags.publisher,
			Place:     searchFlags.place,
			Year:      searchFlags.year,
			Language:  searchFlags.language,
			Subject:   searchFlags.subject,
		}
		results, err := orchestrator.Search(cmd.Context(), strings.Join(args, " "), hints)
		if err != nil {
			return err
		}
		renderCandidates(results)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVar(&searchFlags.publisher, "publisher", "", "publisher hint")
	searchCmd.Flags().StringVar(&searchFlags.place, "place", "", "publication place hint")
	searchCmd.Flags().StringVar(&searchFlags.year, "year", "", "publication year hint")
	searchCmd.Flags().StringVar(&searchFlags.language, "language", "", "language hint")
	searchCmd.Flags().StringVar(&searchFlags.subject, "subject", "", "subject hint")
}
