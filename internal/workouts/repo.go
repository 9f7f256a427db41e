package workouts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"
)

var ErrUnknownUser = errors.New("unknown user")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, submission Submission) (_ *Submission, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", submission.UserID))

	if submission.CreatedAt.IsZero() {
		submission.CreatedAt = time.Now()
	}

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO exercise (user_id, date, pull_ups, push_ups, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id;`,
		submission.UserID, submission.Date.Time(), submission.PullUps, submission.PushUps, submission.CreatedAt,
	).Scan(&submission.ID)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, ErrUnknownUser
		}
		if pkg.IsCheckViolationError(err) {
			return nil, checkViolationError(err)
		}
		return nil, fmt.Errorf("insert submission: %w", err)
	}

	span.SetAttributes(attribute.Int("submission.id", submission.ID))
	return &submission, nil
}

// WorkoutDates returns the distinct dates the user has submissions on, most recent first.
func (r *Repo) WorkoutDates(ctx context.Context, userID int) (_ []Date, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.dates")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT DISTINCT date FROM exercise WHERE user_id = $1 ORDER BY date DESC;`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	dates := make([]Date, 0)
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		dates = append(dates, DateOf(t))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	span.SetAttributes(attribute.Int("dates.count", len(dates)))
	return dates, nil
}

// DailyTotals sums the user's submissions per date in [from, to], oldest first.
// Dates without submissions are not returned.
func (r *Repo) DailyTotals(ctx context.Context, userID int, from, to Date) (_ []DailyTotal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.daily-totals")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("user.id", userID),
		attribute.String("from", from.String()),
		attribute.String("to", to.String()),
	)

	rows, err := r.db.Query(
		ctx,
		`SELECT date, SUM(pull_ups), SUM(push_ups)
			FROM exercise
			WHERE user_id = $1 AND date BETWEEN $2 AND $3
			GROUP BY date
			ORDER BY date;`,
		userID, from.Time(), to.Time(),
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	totals := make([]DailyTotal, 0)
	for rows.Next() {
		var t time.Time
		var total DailyTotal
		if err := rows.Scan(&t, &total.PullUps, &total.PushUps); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		total.Date = DateOf(t)
		totals = append(totals, total)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return totals, nil
}

// MonthlyTotals sums all of the user's submissions per YYYY-MM month, oldest first.
func (r *Repo) MonthlyTotals(ctx context.Context, userID int) (_ []MonthlyTotal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.monthly-totals")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT to_char(date, 'YYYY-MM') AS month, SUM(pull_ups), SUM(push_ups)
			FROM exercise
			WHERE user_id = $1
			GROUP BY month
			ORDER BY month;`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	totals := make([]MonthlyTotal, 0)
	for rows.Next() {
		var total MonthlyTotal
		if err := rows.Scan(&total.Month, &total.PullUps, &total.PushUps); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		totals = append(totals, total)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return totals, nil
}

// ListPage returns a page of the user's submissions ordered by id, used by the exporters.
func (r *Repo) ListPage(ctx context.Context, userID, limit, offset int) (_ []Submission, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list-page")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("user.id", userID),
		attribute.Int("limit", limit),
		attribute.Int("offset", offset),
	)

	if limit < 1 {
		return nil, errors.New("limit must be greater than 0")
	}
	if offset < 0 {
		return nil, errors.New("offset must not be negative")
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, date, pull_ups, push_ups, created_at
			FROM exercise
			WHERE user_id = $1
			ORDER BY id
			LIMIT $2
			OFFSET $3;`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	return rows2submissions(rows)
}

func (r *Repo) Count(ctx context.Context, userID int) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	var count int
	if err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM exercise WHERE user_id = $1;`,
		userID,
	).Scan(&count); err != nil {
		return -1, fmt.Errorf("count submissions: %w", err)
	}

	return count, nil
}

// checkViolationError maps the exercise table's CHECK constraints to the validation errors.
func checkViolationError(err error) error {
	if strings.Contains(pkg.PgConstraintName(err), "push_ups") {
		return ErrInvalidPushUps
	}
	return ErrInvalidPullUps
}

func rows2submissions(rows pgx.Rows) ([]Submission, error) {
	submissions := make([]Submission, 0)
	for rows.Next() {
		var s Submission
		var date time.Time
		if err := rows.Scan(&s.ID, &s.UserID, &date, &s.PullUps, &s.PushUps, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		s.Date = DateOf(date)
		submissions = append(submissions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return submissions, nil
}
