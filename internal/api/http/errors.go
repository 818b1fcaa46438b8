package http

import (
	"errors"
	"net/http"

	"github.com/edulane/scoring-service/internal/activity"
	"github.com/edulane/scoring-service/internal/metrics"
	"github.com/edulane/scoring-service/internal/score"
	"github.com/edulane/scoring-service/internal/xapi"
)

// statusFor maps the scoring error taxonomy onto HTTP statuses. Data faults
// deliberately come out as 500: they indicate a misbehaving collaborator, not
// a bad request.
func statusFor(err error) int {
	switch {
	case errors.Is(err, score.ErrNotEnrolled):
		return http.StatusForbidden
	case errors.Is(err, score.ErrBadReference),
		errors.Is(err, activity.ErrActivityNotFound),
		errors.Is(err, activity.ErrContextNotFound),
		errors.Is(err, xapi.ErrMalformedStatement):
		return http.StatusBadRequest
	case errors.Is(err, score.ErrNoScoreItem),
		errors.Is(err, score.ErrUnknownSource):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func errClass(err error) string {
	switch {
	case errors.Is(err, score.ErrNotEnrolled):
		return "authorization"
	case errors.Is(err, score.ErrBadReference),
		errors.Is(err, activity.ErrActivityNotFound),
		errors.Is(err, activity.ErrContextNotFound),
		errors.Is(err, xapi.ErrMalformedStatement):
		return "input"
	case errors.Is(err, score.ErrNoScoreItem), errors.Is(err, score.ErrUnknownSource):
		return "configuration"
	case score.IsFault(err):
		return "data_fault"
	default:
		return "internal"
	}
}

func writeScoreErr(w http.ResponseWriter, err error) {
	metrics.ScoreFailures.WithLabelValues(errClass(err)).Inc()
	http.Error(w, err.Error(), statusFor(err))
}
