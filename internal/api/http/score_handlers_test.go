package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/edulane/scoring-service/internal/activity"
	api "github.com/edulane/scoring-service/internal/api/http"
	authmw "github.com/edulane/scoring-service/internal/auth/middleware"
	"github.com/edulane/scoring-service/internal/ingest"
	"github.com/edulane/scoring-service/internal/rbac"
	"github.com/edulane/scoring-service/internal/score"
)

type fakeEventLog struct {
	appended []ingest.Event
	err      error
}

func (f *fakeEventLog) Append(_ context.Context, e ingest.Event) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.appended = append(f.appended, e)
	return "batch-1", nil
}

// asUser injects an authenticated subject and role, standing in for
// JWTMiddleware + AttachRoleFromDB.
func asUser(sub, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := authmw.WithSubject(r.Context(), sub)
			ctx = rbac.WithRole(ctx, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func seedStore(t *testing.T) activity.Store {
	t.Helper()
	ctx := context.Background()
	st := activity.NewInMemoryStore()

	graded := activity.Activity{ID: "act-g", CourseID: "c1", Source: activity.SourceGraded, ContextID: "101"}
	prim := activity.Activity{ID: "act-p", CourseID: "c1", Source: activity.SourceCompletion, ContextID: "102"}
	for _, a := range []activity.Activity{graded, prim} {
		if err := st.PutActivity(ctx, a); err != nil {
			t.Fatal(err)
		}
	}
	if err := st.PutScoreItem(ctx, activity.ScoreItem{ActivityID: "act-g", Min: 2, Max: 10}); err != nil {
		t.Fatal(err)
	}
	if err := st.PutScoreItem(ctx, activity.ScoreItem{ActivityID: "act-p", Min: 0, Max: 5}); err != nil {
		t.Fatal(err)
	}
	if err := st.Enroll(ctx, "u1", "c1"); err != nil {
		t.Fatal(err)
	}
	v := 7.5
	if err := st.PutGrade(ctx, activity.Grade{ActivityID: "act-g", UserID: "u1", Value: &v, Min: 0, Max: 10}); err != nil {
		t.Fatal(err)
	}
	return st
}

func newRouter(st activity.Store, events api.EventLog, sub, role string) http.Handler {
	resolver := score.NewResolver(st)
	r := chi.NewRouter()
	r.Use(asUser(sub, role))
	r.Get("/activities/{activityID}/score", api.GetScoreHandler(resolver))
	r.Post("/activities/{activityID}/completion", api.SetCompletionHandler(st, resolver))
	r.Post("/xapi/statements", api.ProcessStatementsHandler(events, activity.ContextLookup{Store: st}, resolver))
	return r
}

func TestGetScore(t *testing.T) {
	st := seedStore(t)
	r := newRouter(st, &fakeEventLog{}, "u1", "student")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/activities/act-g/score", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var out map[string]float64
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out["score"] != 8 {
		t.Fatalf("score = %v, want 8", out["score"])
	}
}

func TestGetScoreOtherUserNeedsPermission(t *testing.T) {
	st := seedStore(t)

	student := newRouter(st, &fakeEventLog{}, "u2", "student")
	rec := httptest.NewRecorder()
	student.ServeHTTP(rec, httptest.NewRequest("GET", "/activities/act-g/score?user_id=u1", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("student reading another user: status %d", rec.Code)
	}

	teacher := newRouter(st, &fakeEventLog{}, "t1", "teacher")
	rec = httptest.NewRecorder()
	teacher.ServeHTTP(rec, httptest.NewRequest("GET", "/activities/act-g/score?user_id=u1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("teacher reading another user: status %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGetScoreUnknownActivity(t *testing.T) {
	r := newRouter(seedStore(t), &fakeEventLog{}, "u1", "student")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/activities/nope/score", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestSetCompletionOnGradedActivityConflicts(t *testing.T) {
	r := newRouter(seedStore(t), &fakeEventLog{}, "u1", "student")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/activities/act-g/completion",
		strings.NewReader(`{"completed":true}`)))
	if rec.Code != http.StatusConflict {
		t.Fatalf("status %d, want 409", rec.Code)
	}
}

func TestSetCompletionReturnsFreshScore(t *testing.T) {
	st := seedStore(t)
	r := newRouter(st, &fakeEventLog{}, "u1", "student")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/activities/act-p/completion",
		strings.NewReader(`{"completed":true}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	var out map[string]float64
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	if out["score"] != 5 {
		t.Fatalf("score = %v, want score_max 5", out["score"])
	}

	stt, _ := st.CompletionFor(context.Background(), "act-p", "u1")
	if stt != activity.Complete {
		t.Fatalf("completion state not persisted: %q", stt)
	}
}

func TestSetCompletionReportsCommittedOnScoringFailure(t *testing.T) {
	// act-p is completion-sourced but the user is not enrolled: the state
	// write succeeds, scoring then fails.
	st := seedStore(t)
	r := newRouter(st, &fakeEventLog{}, "outsider", "student")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/activities/act-p/completion",
		strings.NewReader(`{"completed":true}`)))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status %d, want 403", rec.Code)
	}
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("body not json: %s", rec.Body.String())
	}
	if out["recorded"] != true {
		t.Fatalf("expected recorded=true marker: %v", out)
	}
	stt, _ := st.CompletionFor(context.Background(), "act-p", "outsider")
	if stt != activity.Complete {
		t.Fatalf("completion state should have been committed")
	}
}

func batchBody(objectIDs ...string) string {
	var b strings.Builder
	b.WriteString("[")
	for i, id := range objectIDs {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`{"actor":{"name":"u1"},"verb":{"id":"v"},"object":{"id":"` + id + `"}}`)
	}
	b.WriteString("]")
	return b.String()
}

func TestProcessStatements(t *testing.T) {
	st := seedStore(t)
	events := &fakeEventLog{}
	r := newRouter(st, events, "u1", "student")

	body := batchBody(
		"https://lms.example/xapi/activities/101",
		"https://lms.example/xapi/activities/102",
		"https://lms.example/xapi/activities/101",
	)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/xapi/statements", strings.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if len(events.appended) != 1 {
		t.Fatalf("expected 1 ingested batch, got %d", len(events.appended))
	}

	var out struct {
		BatchID string `json:"batch_id"`
		Results []struct {
			ActivityID string  `json:"activity_id"`
			Score      float64 `json:"score"`
		} `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Results) != 2 {
		t.Fatalf("expected 2 deduplicated results, got %+v", out.Results)
	}
	if out.Results[0].ActivityID != "act-g" || out.Results[1].ActivityID != "act-p" {
		t.Fatalf("order not preserved: %+v", out.Results)
	}
	if out.Results[0].Score != 8 {
		t.Fatalf("graded score = %v, want 8", out.Results[0].Score)
	}
}

func TestProcessStatementsMalformedBatchNotIngested(t *testing.T) {
	events := &fakeEventLog{}
	r := newRouter(seedStore(t), events, "u1", "student")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/xapi/statements", strings.NewReader(`{"not":"an array"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
	if len(events.appended) != 0 {
		t.Fatalf("malformed batch must not reach the event log")
	}
}

func TestProcessStatementsScoringFailureAfterIngest(t *testing.T) {
	events := &fakeEventLog{}
	r := newRouter(seedStore(t), events, "u1", "student")

	// Context 999 resolves to nothing: extraction fails after the batch is
	// already in the log.
	body := batchBody("https://lms.example/xapi/activities/999")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/xapi/statements", strings.NewReader(body)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
	if len(events.appended) != 1 {
		t.Fatalf("batch should have been ingested before scoring failed")
	}
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("body not json: %s", rec.Body.String())
	}
	if out["ingested"] != true {
		t.Fatalf("expected ingested=true marker: %v", out)
	}
}

func TestProcessStatementsBlankObjectID(t *testing.T) {
	events := &fakeEventLog{}
	r := newRouter(seedStore(t), events, "u1", "student")

	// A statement without an object id is a bad request, even though the
	// batch itself parses and lands in the log first.
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/xapi/statements", strings.NewReader(batchBody(""))))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
	if len(events.appended) != 1 {
		t.Fatalf("batch should have been ingested before extraction failed")
	}
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("body not json: %s", rec.Body.String())
	}
	if out["ingested"] != true {
		t.Fatalf("expected ingested=true marker: %v", out)
	}
}
