package score

import (
	"context"
	"fmt"
)

// ResolveMany resolves each activity in order for one user. The first failure
// aborts the whole batch: no partial mapping is returned, even when earlier
// activities resolved cleanly. Callers that committed a side effect before
// asking for scores get a single pass/fail answer.
func (r *Resolver) ResolveMany(ctx context.Context, activityIDs []string, userID string) (map[string]float64, error) {
	scores := make(map[string]float64, len(activityIDs))
	for _, id := range activityIDs {
		s, err := r.Resolve(ctx, id, userID)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", id, err)
		}
		scores[id] = s
	}
	return scores, nil
}
