package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/edulane/scoring-service/internal/activity"
	authmw "github.com/edulane/scoring-service/internal/auth/middleware"
	"github.com/edulane/scoring-service/internal/ingest"
	"github.com/edulane/scoring-service/internal/metrics"
	"github.com/edulane/scoring-service/internal/rbac"
	"github.com/edulane/scoring-service/internal/score"
	"github.com/edulane/scoring-service/internal/xapi"
)

// EventLog is the ingestion side effect for statement batches.
type EventLog interface {
	Append(ctx context.Context, e ingest.Event) (string, error)
}

var perms = rbac.NewChecker(nil)

// GET /activities/{activityID}/score?user_id=
// Defaults to the calling subject; reading another user's score needs the
// score:view-any permission.
func GetScoreHandler(resolver *score.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activityID := strings.TrimSpace(chi.URLParam(r, "activityID"))
		if activityID == "" {
			http.Error(w, "activityID required", http.StatusBadRequest)
			return
		}
		sub := authmw.SubjectFromContext(r.Context())
		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			userID = sub
		}
		if userID == "" {
			http.Error(w, "user_id required", http.StatusBadRequest)
			return
		}
		if userID != sub && !perms.Has(rbac.RoleFromContext(r.Context()), "score:view-any") {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		s, err := resolver.Resolve(r.Context(), activityID, userID)
		if err != nil {
			writeScoreErr(w, err)
			return
		}
		metrics.ScoresComputed.Inc()
		_ = json.NewEncoder(w).Encode(map[string]float64{"score": s})
	}
}

// POST /activities/{activityID}/completion  { "completed": bool }
// Writes the completion state first, then computes the fresh score. A scoring
// failure after the write is reported with "recorded": true so the caller
// knows the state change stuck.
func SetCompletionHandler(store activity.Store, resolver *score.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activityID := strings.TrimSpace(chi.URLParam(r, "activityID"))
		if activityID == "" {
			http.Error(w, "activityID required", http.StatusBadRequest)
			return
		}
		var req struct {
			Completed bool `json:"completed"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		userID := authmw.SubjectFromContext(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		act, err := store.GetActivity(r.Context(), activityID)
		if err != nil {
			writeScoreErr(w, err)
			return
		}
		if act.Source != activity.SourceCompletion {
			http.Error(w, "activity is not completion-tracked", http.StatusConflict)
			return
		}

		st := activity.Incomplete
		if req.Completed {
			st = activity.Complete
		}
		if err := store.SetCompletion(r.Context(), activityID, userID, st); err != nil {
			http.Error(w, "set completion: "+err.Error(), http.StatusInternalServerError)
			return
		}

		s, err := resolver.Resolve(r.Context(), activityID, userID)
		if err != nil {
			committed := &score.CommittedError{Op: "completion update", Err: err}
			writeCommitted(w, statusFor(err), map[string]any{
				"recorded": true,
				"error":    committed.Error(),
			})
			return
		}
		metrics.ScoresComputed.Inc()
		_ = json.NewEncoder(w).Encode(map[string]float64{"score": s})
	}
}

type batchResult struct {
	ActivityID string  `json:"activity_id"`
	Score      float64 `json:"score"`
}

// POST /xapi/statements
// The raw batch is appended to the event log before anything is validated
// against scoring configuration; ingestion is never rolled back. Scores are
// then resolved for the calling subject, in first-seen activity order.
func ProcessStatementsHandler(events EventLog, cr xapi.ContextResolver, resolver *score.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
		if err != nil {
			http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
			return
		}
		stmts, err := xapi.ParseBatch(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		batchID, err := events.Append(r.Context(), ingest.Event{
			Actor:    userID,
			Type:     "xapi.statements",
			DataJSON: string(raw),
		})
		if err != nil {
			http.Error(w, "ingest batch: "+err.Error(), http.StatusInternalServerError)
			return
		}
		metrics.BatchesIngested.Inc()

		ids, err := xapi.ExtractActivityIDs(r.Context(), cr, stmts)
		if err == nil {
			var scores map[string]float64
			if scores, err = resolver.ResolveMany(r.Context(), ids, userID); err == nil {
				results := make([]batchResult, 0, len(ids))
				for _, id := range ids {
					results = append(results, batchResult{ActivityID: id, Score: scores[id]})
				}
				metrics.ScoresComputed.Add(float64(len(results)))
				_ = json.NewEncoder(w).Encode(map[string]any{
					"batch_id": batchID,
					"results":  results,
				})
				return
			}
		}

		// The batch is already in the log; surface that alongside the failure.
		metrics.BatchFailures.Inc()
		committed := &score.CommittedError{Op: "event ingestion", Err: err}
		writeCommitted(w, statusFor(err), map[string]any{
			"ingested": true,
			"batch_id": batchID,
			"error":    committed.Error(),
		})
	}
}

func writeCommitted(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
