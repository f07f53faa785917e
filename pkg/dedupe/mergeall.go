package dedupe

import (
	"context"

	"github.com/openshelf/openshelf/pkg/logging"
	"github.com/openshelf/openshelf/pkg/store"
)

// BulkMerger executes the store's merge-everything path.
// *store.Client satisfies it.
type BulkMerger interface {
	MergeAllDuplicates(ctx context.Context) (*store.MergeAllResult, error)
}

// MergeAll merges every duplicate group in one store call, keeping the
// store's default survivor per group. It returns aggregate counts only;
// per-group outcomes exist only in the interactive session flow.
func MergeAll(ctx context.Context, merger BulkMerger) (*store.MergeAllResult, error) {
	result, err := merger.MergeAllDuplicates(ctx)
	if err != nil {
		return nil, err
	}
	logging.Ctx(ctx).Info().
		Int("groups", result.GroupsMerged).
		Int("deleted", result.TotalDeleted).
		Msg("Merged all duplicate groups")
	return result, nil
}
