package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/openshelf/openshelf/pkg/dedupe"
)

var dupesCmd = &cobra.Command{
	Use:   "dupes",
	Short: "Find and resolve duplicate catalog items",
}

var dupesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the store's current duplicate groups",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		groups, err := client.DuplicateGroups(cmd.Context())
		if err != nil {
			return err
		}
		t := newTable()
		t.AppendHeader(table.Row{"#", "Title", "Author", "Copies"})
		for i, g := range groups {
			t.AppendRow(table.Row{i + 1, truncate(g.Title, 48), truncate(g.Author, 28), len(g.Items)})
		}
		t.Render()
		return nil
	},
}

var dupesMergeAllCmd = &cobra.Command{
	Use:   "merge-all",
	Short: "Merge every duplicate group, keeping the store's default survivor",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		result, err := client.MergeAllDuplicates(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Merged %d groups, deleted %d items\n", result.GroupsMerged, result.TotalDeleted)
		return nil
	},
}

var dupesReviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review duplicate groups interactively",
	Long: `Review walks through each duplicate group. Per group:

  k <n>   toggle keep on item n
  m       merge (delete unkept items)
  s       skip this group
  n       not duplicates
  g <n>   jump to group n
  q       quit`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		session, err := client.NewReviewSession(cmd.Context())
		if err != nil {
			return err
		}
		return reviewLoop(cmd, session)
	},
}

func reviewLoop(cmd *cobra.Command, session *dedupe.Session) error {
	ctx := cmd.Context()
	scanner := bufio.NewScanner(os.Stdin)
	for session.State() == dedupe.StateReviewing {
		review, index := session.Current()
		renderGroup(&review, index, session.Len())

		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		var err error
		switch fields[0] {
		case "k":
			if len(fields) < 2 {
				fmt.Println("usage: k <item number>")
				continue
			}
			n, convErr := strconv.Atoi(fields[1])
			if convErr != nil || n < 1 || n > len(review.Group.Items) {
				fmt.Println("no such item")
				continue
			}
			err = session.ToggleKeep(review.Group.Items[n-1].ID)
		case "m":
			_, err = session.Merge(ctx)
		case "s":
			err = session.Skip()
		case "n":
			err = session.NotDuplicates()
		case "g":
			if len(fields) < 2 {
				fmt.Println("usage: g <group number>")
				continue
			}
			n, convErr := strconv.Atoi(fields[1])
			if convErr != nil {
				fmt.Println("no such group")
				continue
			}
			err = session.Goto(n - 1)
		case "q":
			decided, total := session.Progress()
			fmt.Printf("Stopped at %d/%d groups, %d items deleted\n", decided, total, session.DeletedCount())
			return nil
		default:
			fmt.Println("commands: k <n>, m, s, n, g <n>, q")
			continue
		}
		if err != nil {
			fmt.Println(text.FgRed.Sprint(err.Error()))
		}
	}
	decided, total := session.Progress()
	fmt.Printf("Review complete: %d/%d groups, %d items deleted\n", decided, total, session.DeletedCount())
	return nil
}

func renderGroup(review *dedupe.GroupReview, index, total int) {
	fmt.Printf("\nGroup %d/%d: %s", index+1, total, review.Group.Title)
	if review.Group.Author != "" {
		fmt.Printf(" by %s", review.Group.Author)
	}
	fmt.Println()

	t := newTable()
	t.AppendHeader(table.Row{"#", "Keep", "ID", "Format", "Added"})
	for i, item := range review.Group.Items {
		keep := ""
		if review.Keep[item.ID] {
			keep = "✓"
		}
		added := ""
		if !item.AddedAt.IsZero() {
			added = item.AddedAt.Format("2006-01-02")
		}
		t.AppendRow(table.Row{i + 1, keep, item.ID, item.Format, added})
	}
	t.Render()
	if review.LastErr != "" {
		fmt.Println(text.FgYellow.Sprint("last merge failed: " + review.LastErr))
	}
}

func init() {
	rootCmd.AddCommand(dupesCmd)
	dupesCmd.AddCommand(dupesListCmd, dupesMergeAllCmd, dupesReviewCmd)
}
