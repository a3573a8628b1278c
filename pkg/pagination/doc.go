// Package pagination plans and executes paged and per-item fetches against
// the Riot match-v5 API.
//
// match-v5 lists at most 100 match ids per request (start/count query
// parameters). Plan splits a total into (offset, count) windows; FetchAll
// runs one fetch per window through an Executor and concatenates the
// results in plan order, whatever order the fetches complete in.
//
// Example usage:
//
//	plan := pagination.Plan(wins+losses, pagination.MaxPageSize)
//	ids, report := pagination.FetchAll(ctx, pagination.Concurrent{}, plan,
//		func(ctx context.Context, w pagination.Window) ([]string, error) {
//			return fetchIDs(ctx, puuid, w.Offset, w.Count)
//		})
//	if report.Complete() {
//		// safe to cache ids
//	}
//
// Failure policy:
//   - A failed unit contributes nothing and never aborts its siblings
//   - Every failure is logged with its index
//   - There is no batch-wide deadline; per-unit deadlines are the caller's
package pagination
