package workouts

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/fittrack/internal/telemetry/metrics"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=workouts_test

const SubmitSuccessMessage = "Data submitted successfully"

type workoutsRepo interface {
	Add(ctx context.Context, submission Submission) (*Submission, error)
	WorkoutDates(ctx context.Context, userID int) ([]Date, error)
	DailyTotals(ctx context.Context, userID int, from, to Date) ([]DailyTotal, error)
	MonthlyTotals(ctx context.Context, userID int) ([]MonthlyTotal, error)
}

type summaryCache interface {
	GetMonthly(userID int) ([]MonthlyTotal, uint64, bool)
	SetMonthly(userID int, generation uint64, totals []MonthlyTotal)
	Invalidate(userID int)
}

type SubmitResult struct {
	Message    string      `json:"message"`
	Submission *Submission `json:"submission"`
	// Streaks is missing only if the recalculation failed after the submission got stored.
	Streaks *Streaks `json:"streaks,omitempty"`
}

type WeeklySummary struct {
	From         Date         `json:"from"`
	To           Date         `json:"to"`
	Days         []DailyTotal `json:"days"`
	TotalPullUps int          `json:"total_pull_ups"`
	TotalPushUps int          `json:"total_push_ups"`
	ActiveDays   int          `json:"active_days"`
}

type Service struct {
	repo           workoutsRepo
	cache          summaryCache
	metricsManager *metrics.Manager
	location       *time.Location
	// Now can be replaced in tests
	Now func() time.Time
}

func NewService(
	repo workoutsRepo,
	cache summaryCache,
	metricsManager *metrics.Manager,
	location *time.Location,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		repo:           repo,
		cache:          cache,
		metricsManager: metricsManager,
		location:       location,
		Now:            time.Now,
	}
}

// Today is the current calendar date in the service's location.
// Callers take it once per request and pass it along.
func (s *Service) Today() Date {
	return DateOf(s.Now().In(s.location))
}

func (s *Service) Submit(ctx context.Context, userID int, req SubmitRequest) (_ *SubmitResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.submit")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	if err := req.Validate(); err != nil {
		return nil, err
	}

	today := s.Today()
	date := today
	if req.Date != nil {
		date = *req.Date
	}

	added, err := s.repo.Add(ctx, Submission{
		UserID:    userID,
		Date:      date,
		PullUps:   req.PullUps,
		PushUps:   req.PushUps,
		CreatedAt: s.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("add submission: %w", err)
	}

	if s.cache != nil {
		s.cache.Invalidate(userID)
	}
	if s.metricsManager != nil {
		s.metricsManager.CounterSubmissions.WithLabelValues("api").Inc()
	}

	result := &SubmitResult{
		Message:    SubmitSuccessMessage,
		Submission: added,
	}

	streaks, err := s.streaks(ctx, userID, today)
	if err != nil {
		// the submission is stored, no need to fail the whole request
		log.Errorf("failed to calculate streaks after submission for user %d: %s", userID, err)
		return result, nil
	}
	result.Streaks = &streaks

	return result, nil
}

func (s *Service) Streaks(ctx context.Context, userID int) (_ Streaks, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.streaks")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	return s.streaks(ctx, userID, s.Today())
}

func (s *Service) streaks(ctx context.Context, userID int, today Date) (Streaks, error) {
	dates, err := s.repo.WorkoutDates(ctx, userID)
	if err != nil {
		return Streaks{}, fmt.Errorf("get workout dates: %w", err)
	}

	if s.metricsManager != nil {
		s.metricsManager.CounterStreakCalculations.Inc()
		s.metricsManager.HistogramWorkoutDates.Observe(float64(len(dates)))
	}

	return CalculateStreaks(dates, today), nil
}

// LastSevenDays returns per-day totals of today and the 6 days before it.
// Only days with submissions are returned, oldest first.
func (s *Service) LastSevenDays(ctx context.Context, userID int) (_ []DailyTotal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.last-seven-days")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	today := s.Today()
	totals, err := s.repo.DailyTotals(ctx, userID, today.AddDays(-6), today)
	if err != nil {
		return nil, fmt.Errorf("get daily totals: %w", err)
	}
	return totals, nil
}

// WeeklySummary is like LastSevenDays, but fills in the days without submissions
// and adds the totals of both exercises.
func (s *Service) WeeklySummary(ctx context.Context, userID int) (_ *WeeklySummary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.weekly-summary")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	today := s.Today()
	from := today.AddDays(-6)
	totals, err := s.repo.DailyTotals(ctx, userID, from, today)
	if err != nil {
		return nil, fmt.Errorf("get daily totals: %w", err)
	}

	byDate := make(map[Date]DailyTotal, len(totals))
	for _, t := range totals {
		byDate[t.Date] = t
	}

	summary := &WeeklySummary{
		From: from,
		To:   today,
		Days: make([]DailyTotal, 0, 7),
	}
	for d := from; !d.After(today); d = d.AddDays(1) {
		total, ok := byDate[d]
		if !ok {
			total = DailyTotal{Date: d}
		}
		if total.PullUps > 0 || total.PushUps > 0 || ok {
			summary.ActiveDays++
		}
		summary.TotalPullUps += total.PullUps
		summary.TotalPushUps += total.PushUps
		summary.Days = append(summary.Days, total)
	}

	return summary, nil
}

// MonthlySummary returns the per-month totals of all the user's submissions, oldest first.
func (s *Service) MonthlySummary(ctx context.Context, userID int) (_ []MonthlyTotal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.monthly-summary")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	var generation uint64
	if s.cache != nil {
		totals, gen, ok := s.cache.GetMonthly(userID)
		if ok {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return totals, nil
		}
		generation = gen
	}

	totals, err := s.repo.MonthlyTotals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get monthly totals: %w", err)
	}

	if s.cache != nil {
		s.cache.SetMonthly(userID, generation, totals)
	}
	return totals, nil
}
