package activity

import "context"

// ContextLookup adapts a Store to the context-reference resolution the event
// extractor needs: final-path-segment reference in, activity id out.
type ContextLookup struct {
	Store Store
}

func (l ContextLookup) ResolveContext(ctx context.Context, contextRef string) (string, error) {
	a, err := l.Store.GetActivityByContext(ctx, contextRef)
	if err != nil {
		return "", err
	}
	return a.ID, nil
}
