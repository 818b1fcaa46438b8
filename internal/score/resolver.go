package score

import (
	"context"
	"errors"
	"fmt"

	"github.com/edulane/scoring-service/internal/activity"
)

// Collaborator surfaces the resolver reads. activity.Store satisfies all of
// them; tests substitute narrow fakes.

type ActivitySource interface {
	GetActivity(ctx context.Context, id string) (activity.Activity, error)
}

type ItemSource interface {
	GetScoreItem(ctx context.Context, activityID string) (activity.ScoreItem, error)
}

type GradeSource interface {
	GradesFor(ctx context.Context, activityID, userID string) ([]activity.Grade, error)
}

type CompletionSource interface {
	CompletionFor(ctx context.Context, activityID, userID string) (activity.CompletionState, error)
}

type EnrollmentSource interface {
	IsEnrolled(ctx context.Context, userID, courseID string) (bool, error)
}

// Resolver derives a normalized score for one (activity, user) pair. It only
// reads collaborator state; resolving is idempotent and side-effect free.
type Resolver struct {
	Activities  ActivitySource
	Items       ItemSource
	Grades      GradeSource
	Completion  CompletionSource
	Enrollments EnrollmentSource
}

// NewResolver wires a resolver over a single backing store.
func NewResolver(store activity.Store) *Resolver {
	return &Resolver{
		Activities:  store,
		Items:       store,
		Grades:      store,
		Completion:  store,
		Enrollments: store,
	}
}

// activityScorer is a resolver bound to one validated (activity, user) pair.
type activityScorer struct {
	r    *Resolver
	act  activity.Activity
	user string
}

// scorerFor validates the activity reference and the user's enrollment, the
// one-time checks that gate every score computation.
func (r *Resolver) scorerFor(ctx context.Context, activityID, userID string) (*activityScorer, error) {
	act, err := r.Activities.GetActivity(ctx, activityID)
	if err != nil {
		if errors.Is(err, activity.ErrActivityNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrBadReference, activityID)
		}
		return nil, fmt.Errorf("activity %q: %w", activityID, err)
	}
	if !act.Source.Valid() {
		return nil, fmt.Errorf("%w: activity %q declares %q", ErrUnknownSource, activityID, act.Source)
	}
	ok, err := r.Enrollments.IsEnrolled(ctx, userID, act.CourseID)
	if err != nil {
		return nil, fmt.Errorf("enrollment check: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: user %q, course %q", ErrNotEnrolled, userID, act.CourseID)
	}
	return &activityScorer{r: r, act: act, user: userID}, nil
}

// Resolve computes the score for one activity and user.
func (r *Resolver) Resolve(ctx context.Context, activityID, userID string) (float64, error) {
	s, err := r.scorerFor(ctx, activityID, userID)
	if err != nil {
		return 0, err
	}
	return s.score(ctx)
}

func (s *activityScorer) score(ctx context.Context) (float64, error) {
	item, err := s.r.Items.GetScoreItem(ctx, s.act.ID)
	if err != nil {
		if errors.Is(err, activity.ErrScoreItemNotFound) {
			return 0, fmt.Errorf("%w: %q", ErrNoScoreItem, s.act.ID)
		}
		return 0, fmt.Errorf("score item %q: %w", s.act.ID, err)
	}

	var achieved float64
	switch s.act.Source {
	case activity.SourceGraded:
		achieved, err = s.gradedPercentage(ctx)
	case activity.SourceCompletion:
		achieved, err = s.completionPercentage(ctx)
	default:
		// Source was validated at construction; reaching here means it
		// changed underneath us.
		err = faultf("activity %q source changed to %q", s.act.ID, s.act.Source)
	}
	if err != nil {
		return 0, err
	}
	return Score(item.Min, item.Max, achieved), nil
}

func (s *activityScorer) gradedPercentage(ctx context.Context) (float64, error) {
	grades, err := s.r.Grades.GradesFor(ctx, s.act.ID, s.user)
	if err != nil {
		return 0, fmt.Errorf("grades for %q: %w", s.act.ID, err)
	}
	if len(grades) != 1 {
		return 0, faultf("expected one grading record for activity %q, user %q, got %d",
			s.act.ID, s.user, len(grades))
	}
	g := grades[0]
	if g.Value == nil {
		// Not attempted yet: defined as 0% regardless of the grade bounds.
		return 0, nil
	}
	return PercentageAchieved(*g.Value, g.Max, g.Min)
}

func (s *activityScorer) completionPercentage(ctx context.Context) (float64, error) {
	st, err := s.r.Completion.CompletionFor(ctx, s.act.ID, s.user)
	if err != nil {
		return 0, fmt.Errorf("completion for %q: %w", s.act.ID, err)
	}
	if st == activity.Complete {
		return 1, nil
	}
	return 0, nil
}
