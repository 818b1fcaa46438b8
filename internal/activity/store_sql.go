package activity

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SQLStore runs against either supported driver; the $N placeholders work
// for both pgx and modernc sqlite.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) PutActivity(ctx context.Context, a Activity) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO activities (id,course_id,title,source,context_id,created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET course_id=EXCLUDED.course_id, title=EXCLUDED.title,
			source=EXCLUDED.source, context_id=EXCLUDED.context_id`,
		a.ID, a.CourseID, a.Title, string(a.Source), a.ContextID, time.Now().Unix())
	return err
}

func (s *SQLStore) GetActivity(ctx context.Context, id string) (Activity, error) {
	return s.scanActivity(s.db.QueryRowContext(ctx,
		`SELECT id,course_id,title,source,context_id FROM activities WHERE id=$1`, id), ErrActivityNotFound)
}

func (s *SQLStore) GetActivityByContext(ctx context.Context, contextID string) (Activity, error) {
	return s.scanActivity(s.db.QueryRowContext(ctx,
		`SELECT id,course_id,title,source,context_id FROM activities WHERE context_id=$1`, contextID), ErrContextNotFound)
}

func (s *SQLStore) scanActivity(row *sql.Row, missing error) (Activity, error) {
	var a Activity
	var src string
	if err := row.Scan(&a.ID, &a.CourseID, &a.Title, &src, &a.ContextID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Activity{}, missing
		}
		return Activity{}, err
	}
	a.Source = Source(src)
	return a, nil
}

func (s *SQLStore) PutScoreItem(ctx context.Context, it ScoreItem) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO score_items (activity_id,score_min,score_max)
		VALUES ($1,$2,$3)
		ON CONFLICT (activity_id) DO UPDATE SET score_min=EXCLUDED.score_min, score_max=EXCLUDED.score_max`,
		it.ActivityID, it.Min, it.Max)
	return err
}

func (s *SQLStore) GetScoreItem(ctx context.Context, activityID string) (ScoreItem, error) {
	var it ScoreItem
	err := s.db.QueryRowContext(ctx,
		`SELECT activity_id,score_min,score_max FROM score_items WHERE activity_id=$1`, activityID).
		Scan(&it.ActivityID, &it.Min, &it.Max)
	if errors.Is(err, sql.ErrNoRows) {
		return ScoreItem{}, ErrScoreItemNotFound
	}
	return it, err
}

func (s *SQLStore) PutGrade(ctx context.Context, g Grade) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO grades (activity_id,user_id,grade,grade_min,grade_max,updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (activity_id,user_id) DO UPDATE SET grade=EXCLUDED.grade,
			grade_min=EXCLUDED.grade_min, grade_max=EXCLUDED.grade_max, updated_at=EXCLUDED.updated_at`,
		g.ActivityID, g.UserID, g.Value, g.Min, g.Max, time.Now().Unix())
	return err
}

func (s *SQLStore) GradesFor(ctx context.Context, activityID, userID string) ([]Grade, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT activity_id,user_id,grade,grade_min,grade_max FROM grades WHERE activity_id=$1 AND user_id=$2`,
		activityID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Grade
	for rows.Next() {
		var g Grade
		if err := rows.Scan(&g.ActivityID, &g.UserID, &g.Value, &g.Min, &g.Max); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *SQLStore) CompletionFor(ctx context.Context, activityID, userID string) (CompletionState, error) {
	var st string
	err := s.db.QueryRowContext(ctx,
		`SELECT state FROM completion_states WHERE activity_id=$1 AND user_id=$2`, activityID, userID).
		Scan(&st)
	if errors.Is(err, sql.ErrNoRows) {
		return Incomplete, nil
	}
	if err != nil {
		return Incomplete, err
	}
	return CompletionState(st), nil
}

func (s *SQLStore) SetCompletion(ctx context.Context, activityID, userID string, st CompletionState) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO completion_states (activity_id,user_id,state,updated_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (activity_id,user_id) DO UPDATE SET state=EXCLUDED.state, updated_at=EXCLUDED.updated_at`,
		activityID, userID, string(st), time.Now().Unix())
	return err
}

func (s *SQLStore) Enroll(ctx context.Context, userID, courseID string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO enrollments (user_id,course_id,created_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (user_id,course_id) DO NOTHING`,
		userID, courseID, time.Now().Unix())
	return err
}

func (s *SQLStore) IsEnrolled(ctx context.Context, userID, courseID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM enrollments WHERE user_id=$1 AND course_id=$2`, userID, courseID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
