package http

import (
	"encoding/json"
	"net/http"

	"github.com/edulane/scoring-service/internal/activity"
)

type upsertActivityReq struct {
	ID        string          `json:"id"`
	CourseID  string          `json:"course_id"`
	Title     string          `json:"title,omitempty"`
	Source    activity.Source `json:"source"`
	ContextID string          `json:"context_id"`
	ScoreMin  *float64        `json:"score_min,omitempty"`
	ScoreMax  *float64        `json:"score_max,omitempty"`
}

// PUT /admin/activities
// Upserts an activity and, when bounds are given, its score item.
func UpsertActivityHandler(store activity.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req upsertActivityReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.ID == "" || req.CourseID == "" || req.ContextID == "" {
			http.Error(w, "id, course_id and context_id required", http.StatusBadRequest)
			return
		}
		if !req.Source.Valid() {
			http.Error(w, "source must be graded or completion", http.StatusBadRequest)
			return
		}
		if (req.ScoreMin == nil) != (req.ScoreMax == nil) {
			http.Error(w, "score_min and score_max must be set together", http.StatusBadRequest)
			return
		}
		if req.ScoreMin != nil && *req.ScoreMin > *req.ScoreMax {
			http.Error(w, "score_min must not exceed score_max", http.StatusBadRequest)
			return
		}
		act := activity.Activity{
			ID: req.ID, CourseID: req.CourseID, Title: req.Title,
			Source: req.Source, ContextID: req.ContextID,
		}
		if err := store.PutActivity(r.Context(), act); err != nil {
			http.Error(w, "save activity: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if req.ScoreMin != nil {
			it := activity.ScoreItem{ActivityID: req.ID, Min: *req.ScoreMin, Max: *req.ScoreMax}
			if err := store.PutScoreItem(r.Context(), it); err != nil {
				http.Error(w, "save score item: "+err.Error(), http.StatusInternalServerError)
				return
			}
		}
		_ = json.NewEncoder(w).Encode(act)
	}
}

// PUT /admin/grades
// Upserts one grading record; a null grade means "not attempted yet".
func UpsertGradeHandler(store activity.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var g activity.Grade
		if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if g.ActivityID == "" || g.UserID == "" {
			http.Error(w, "activity_id and user_id required", http.StatusBadRequest)
			return
		}
		if g.Min > g.Max {
			http.Error(w, "grade_min must not exceed grade_max", http.StatusBadRequest)
			return
		}
		if err := store.PutGrade(r.Context(), g); err != nil {
			http.Error(w, "save grade: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(g)
	}
}

// PUT /admin/enrollments  { "user_id": "...", "course_id": "..." }
func EnrollHandler(store activity.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			UserID   string `json:"user_id"`
			CourseID string `json:"course_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.UserID == "" || req.CourseID == "" {
			http.Error(w, "user_id and course_id required", http.StatusBadRequest)
			return
		}
		if err := store.Enroll(r.Context(), req.UserID, req.CourseID); err != nil {
			http.Error(w, "save enrollment: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
