package workouts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidPullUps  = errors.New("invalid pull_ups value")
	ErrInvalidPushUps  = errors.New("invalid push_ups value")
	ErrInvalidExercise = errors.New("invalid exercise, expected pullups or pushups")
)

// Submission is a single stored entry: the counts a user did on a given date.
// A user can have any number of submissions for the same date.
type Submission struct {
	ID        int       `json:"id"`
	UserID    int       `json:"-"`
	Date      Date      `json:"date"`
	PullUps   int       `json:"pull_ups"`
	PushUps   int       `json:"push_ups"`
	CreatedAt time.Time `json:"created_at"`
}

// SubmitRequest is a validated submission payload.
// A nil Date means "today", resolved by the service.
type SubmitRequest struct {
	Date    *Date
	PullUps int
	PushUps int
}

func (r SubmitRequest) Validate() error {
	if r.PullUps < 0 {
		return ErrInvalidPullUps
	}
	if r.PushUps < 0 {
		return ErrInvalidPushUps
	}
	return nil
}

type submitPayload struct {
	Date    *string         `json:"date"`
	PullUps json.RawMessage `json:"pull_ups"`
	PushUps json.RawMessage `json:"push_ups"`
}

// ParseSubmitRequest decodes and validates the JSON body of a submission.
// Counts must be present non-negative JSON integers, date is optional.
func ParseSubmitRequest(body []byte) (SubmitRequest, error) {
	var payload submitPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return SubmitRequest{}, fmt.Errorf("invalid json body: %w", err)
	}

	pullUps, ok := parseCount(payload.PullUps)
	if !ok {
		return SubmitRequest{}, ErrInvalidPullUps
	}
	pushUps, ok := parseCount(payload.PushUps)
	if !ok {
		return SubmitRequest{}, ErrInvalidPushUps
	}

	req := SubmitRequest{
		PullUps: pullUps,
		PushUps: pushUps,
	}

	if payload.Date != nil {
		date, err := ParseDate(*payload.Date)
		if err != nil {
			return SubmitRequest{}, ErrInvalidDate
		}
		req.Date = &date
	}

	return req, nil
}

func parseCount(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}

	var count int
	if err := json.Unmarshal(raw, &count); err != nil {
		return 0, false
	}
	return count, count >= 0
}

// Exercise is one of the two tracked exercise types.
type Exercise string

const (
	PullUps Exercise = "pullups"
	PushUps Exercise = "pushups"
)

func ParseExercise(s string) (Exercise, error) {
	switch Exercise(s) {
	case PullUps, PushUps:
		return Exercise(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidExercise, s)
	}
}

// DailyTotal is the sum of all submissions of a user on one date.
type DailyTotal struct {
	Date    Date `json:"date"`
	PullUps int  `json:"pull_ups"`
	PushUps int  `json:"push_ups"`
}

func (t DailyTotal) Of(exercise Exercise) int {
	if exercise == PushUps {
		return t.PushUps
	}
	return t.PullUps
}

// MonthlyTotal is the sum of all submissions of a user in one YYYY-MM month.
type MonthlyTotal struct {
	Month   string `json:"month"`
	PullUps int    `json:"pull_ups"`
	PushUps int    `json:"push_ups"`
}

func (t MonthlyTotal) Of(exercise Exercise) int {
	if exercise == PushUps {
		return t.PushUps
	}
	return t.PullUps
}
