package xapi

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedStatement marks a statement whose object cannot yield a context
// reference. The caller sent a bad payload; nothing external misbehaved.
var ErrMalformedStatement = errors.New("malformed statement")

// ContextResolver maps a context reference (the final path segment of a
// statement's object IRI) to the activity it designates.
type ContextResolver interface {
	ResolveContext(ctx context.Context, contextRef string) (activityID string, err error)
}

// ExtractActivityIDs returns the distinct activity ids referenced by a batch,
// in first-seen order. An empty batch yields an empty result.
func ExtractActivityIDs(ctx context.Context, cr ContextResolver, stmts []Statement) ([]string, error) {
	var ids []string
	seen := make(map[string]struct{}, len(stmts))
	for i, st := range stmts {
		ref, err := contextRef(st)
		if err != nil {
			return nil, fmt.Errorf("statement %d: %w", i, err)
		}
		id, err := cr.ResolveContext(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("statement %d: resolve context %q: %w", i, ref, err)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// contextRef pulls the context reference out of a statement's object IRI:
// the segment after the last "/".
func contextRef(st Statement) (string, error) {
	iri := strings.TrimSpace(st.Object.ID)
	if iri == "" {
		return "", fmt.Errorf("%w: object has no id", ErrMalformedStatement)
	}
	ref := iri[strings.LastIndex(iri, "/")+1:]
	if ref == "" {
		return "", fmt.Errorf("%w: object id %q has no context segment", ErrMalformedStatement, iri)
	}
	return ref, nil
}
