package auth

import "context"

// The verified JWT subject (the learner or staff user id) rides the request
// context from JWTMiddleware down to the score handlers.

type subjectKey struct{}

func WithSubject(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, subjectKey{}, userID)
}

// SubjectFromContext returns the authenticated user id, or "" when the
// request never passed JWTMiddleware.
func SubjectFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(subjectKey{}).(string)
	return userID
}
