package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fittrack/internal/auth"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=workouts_test

const maxSubmitBodyBytes = 1 << 16

type workoutsService interface {
	Submit(ctx context.Context, userID int, req SubmitRequest) (*SubmitResult, error)
	Streaks(ctx context.Context, userID int) (Streaks, error)
	LastSevenDays(ctx context.Context, userID int) ([]DailyTotal, error)
	WeeklySummary(ctx context.Context, userID int) (*WeeklySummary, error)
	MonthlySummary(ctx context.Context, userID int) ([]MonthlyTotal, error)
}

// ExerciseDayTotal is one entry of the last 7 days of a single exercise.
// Only the field of the requested exercise is set.
type ExerciseDayTotal struct {
	Date         Date `json:"date"`
	TotalPullUps *int `json:"total_pull_ups,omitempty"`
	TotalPushUps *int `json:"total_push_ups,omitempty"`
}

type ExerciseMonthTotal struct {
	Month        string `json:"month"`
	TotalPullUps *int   `json:"total_pull_ups,omitempty"`
	TotalPushUps *int   `json:"total_push_ups,omitempty"`
}

type Handler struct {
	service workoutsService
}

func NewHandler(service workoutsService) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/submit", handler.HandleSubmit).Methods("POST", "OPTIONS").Name("submit")
	router.HandleFunc("/streaks", handler.HandleStreaks).Methods("GET", "OPTIONS").Name("streaks")
	router.HandleFunc("/summary/weekly", handler.HandleWeeklySummary).Methods("GET", "OPTIONS").Name("weekly-summary")
	router.HandleFunc("/{exercise}/last7days", handler.HandleLastSevenDays).Methods("GET", "OPTIONS").Name("last-seven-days")
	router.HandleFunc("/{exercise}/monthly", handler.HandleMonthly).Methods("GET", "OPTIONS").Name("monthly")
}

func (handler *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.submit")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxSubmitBodyBytes))
	if err != nil {
		log.Errorf("submit, read body: %s", err)
		pkg.WriteJSONError(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	req, err := ParseSubmitRequest(body)
	if err != nil {
		log.Debugf("submit, user %d, bad request: %s", userID, err)
		pkg.WriteJSONError(w, submitErrorMessage(err), http.StatusBadRequest)
		return
	}

	result, err := handler.service.Submit(ctx, userID, req)
	if err != nil {
		log.Errorf("submit, user %d: %s", userID, err)
		pkg.WriteJSONError(w, "failed to submit data", http.StatusInternalServerError)
		return
	}

	log.Debugf("user %d submitted %d pull-ups, %d push-ups for %s",
		userID, result.Submission.PullUps, result.Submission.PushUps, result.Submission.Date)

	handler.writeJSON(w, result)
}

func submitErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidPullUps):
		return "Invalid pull_ups value"
	case errors.Is(err, ErrInvalidPushUps):
		return "Invalid push_ups value"
	case errors.Is(err, ErrInvalidDate):
		return "Invalid date format, expected YYYY-MM-DD"
	default:
		return "Invalid request body"
	}
}

func (handler *Handler) HandleStreaks(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.streaks")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	streaks, err := handler.service.Streaks(ctx, userID)
	if err != nil {
		log.Errorf("get streaks, user %d: %s", userID, err)
		pkg.WriteJSONError(w, "failed to get streaks", http.StatusInternalServerError)
		return
	}

	handler.writeJSON(w, streaks)
}

func (handler *Handler) HandleLastSevenDays(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.last-seven-days")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	exercise, err := ParseExercise(mux.Vars(r)["exercise"])
	if err != nil {
		pkg.WriteJSONError(w, err.Error(), http.StatusNotFound)
		return
	}

	totals, err := handler.service.LastSevenDays(ctx, userID)
	if err != nil {
		log.Errorf("last seven days, user %d: %s", userID, err)
		pkg.WriteJSONError(w, "failed to get last seven days", http.StatusInternalServerError)
		return
	}

	resp := make([]ExerciseDayTotal, 0, len(totals))
	for _, t := range totals {
		total := t.Of(exercise)
		entry := ExerciseDayTotal{Date: t.Date}
		if exercise == PushUps {
			entry.TotalPushUps = &total
		} else {
			entry.TotalPullUps = &total
		}
		resp = append(resp, entry)
	}

	handler.writeJSON(w, resp)
}

func (handler *Handler) HandleMonthly(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.monthly")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	exercise, err := ParseExercise(mux.Vars(r)["exercise"])
	if err != nil {
		pkg.WriteJSONError(w, err.Error(), http.StatusNotFound)
		return
	}

	totals, err := handler.service.MonthlySummary(ctx, userID)
	if err != nil {
		log.Errorf("monthly summary, user %d: %s", userID, err)
		pkg.WriteJSONError(w, "failed to get monthly summary", http.StatusInternalServerError)
		return
	}

	resp := make([]ExerciseMonthTotal, 0, len(totals))
	for _, t := range totals {
		total := t.Of(exercise)
		entry := ExerciseMonthTotal{Month: t.Month}
		if exercise == PushUps {
			entry.TotalPushUps = &total
		} else {
			entry.TotalPullUps = &total
		}
		resp = append(resp, entry)
	}

	handler.writeJSON(w, resp)
}

func (handler *Handler) HandleWeeklySummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.weekly-summary")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	summary, err := handler.service.WeeklySummary(ctx, userID)
	if err != nil {
		log.Errorf("weekly summary, user %d: %s", userID, err)
		pkg.WriteJSONError(w, "failed to get weekly summary", http.StatusInternalServerError)
		return
	}

	handler.writeJSON(w, summary)
}

func (handler *Handler) writeJSON(w http.ResponseWriter, v any) {
	respJson, err := json.Marshal(v)
	if err != nil {
		log.Errorf("marshal workouts response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}
