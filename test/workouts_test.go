//go:build integration

package test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/fittrack/internal/workouts"
)

type submitBody struct {
	Date    string `json:"date,omitempty"`
	PullUps int    `json:"pull_ups"`
	PushUps int    `json:"push_ups"`
}

func utcToday() workouts.Date {
	return workouts.DateOf(time.Now().UTC())
}

func (s *IntegrationTestSuite) TestWorkouts_SubmitAndStreaks() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, token := s.registerAndLogin(ctx, t)
	today := utcToday()

	// fresh user has no streaks
	resp, respBytes := s.doRequest(ctx, t, "GET", "/api/streaks", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var streaks workouts.Streaks
	require.NoError(t, json.Unmarshal(respBytes, &streaks))
	assert.Equal(t, workouts.Streaks{}, streaks)

	// an older run of 3, a gap, then 2 days ending today
	for _, d := range []workouts.Date{
		today.AddDays(-10), today.AddDays(-9), today.AddDays(-8),
		today.AddDays(-1),
	} {
		resp, _ = s.doRequest(ctx, t, "POST", "/api/submit", token, submitBody{
			Date:    d.String(),
			PullUps: 10,
			PushUps: 20,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	// no date means today
	resp, respBytes = s.doRequest(ctx, t, "POST", "/api/submit", token, submitBody{PullUps: 5})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result workouts.SubmitResult
	require.NoError(t, json.Unmarshal(respBytes, &result))
	assert.Equal(t, workouts.SubmitSuccessMessage, result.Message)
	require.NotNil(t, result.Submission)
	assert.Equal(t, today, result.Submission.Date)
	assert.Equal(t, 5, result.Submission.PullUps)
	assert.Equal(t, 0, result.Submission.PushUps)
	require.NotNil(t, result.Streaks)
	assert.Equal(t, workouts.Streaks{Current: 2, Longest: 3}, *result.Streaks)

	resp, respBytes = s.doRequest(ctx, t, "GET", "/api/streaks", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(respBytes, &streaks))
	assert.Equal(t, workouts.Streaks{Current: 2, Longest: 3}, streaks)
}

func (s *IntegrationTestSuite) TestWorkouts_SubmitInvalid() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, token := s.registerAndLogin(ctx, t)

	for name, tc := range map[string]struct {
		body    map[string]any
		wantErr string
	}{
		"negative pull ups": {
			body:    map[string]any{"pull_ups": -1, "push_ups": 3},
			wantErr: "Invalid pull_ups value",
		},
		"string push ups": {
			body:    map[string]any{"pull_ups": 1, "push_ups": "many"},
			wantErr: "Invalid push_ups value",
		},
		"bad date": {
			body:    map[string]any{"date": "17/10/2026", "pull_ups": 1, "push_ups": 1},
			wantErr: "Invalid date format, expected YYYY-MM-DD",
		},
	} {
		s.Run(name, func() {
			resp, respBytes := s.doRequest(ctx, t, "POST", "/api/submit", token, tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, string(respBytes), tc.wantErr)
		})
	}

	// nothing stored
	resp, respBytes := s.doRequest(ctx, t, "GET", "/api/summary/weekly", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var weekly workouts.WeeklySummary
	require.NoError(t, json.Unmarshal(respBytes, &weekly))
	assert.Zero(t, weekly.ActiveDays)
}

func (s *IntegrationTestSuite) TestWorkouts_Summaries() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, token := s.registerAndLogin(ctx, t)
	today := utcToday()

	for _, body := range []submitBody{
		{Date: today.String(), PullUps: 10, PushUps: 1},
		{Date: today.String(), PullUps: 5, PushUps: 2},
		{Date: today.AddDays(-3).String(), PullUps: 7, PushUps: 30},
		// outside the 7 day window
		{Date: today.AddDays(-7).String(), PullUps: 100, PushUps: 100},
	} {
		resp, _ := s.doRequest(ctx, t, "POST", "/api/submit", token, body)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, respBytes := s.doRequest(ctx, t, "GET", "/api/pullups/last7days", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pullUpDays []workouts.ExerciseDayTotal
	require.NoError(t, json.Unmarshal(respBytes, &pullUpDays))
	require.Len(t, pullUpDays, 2)
	for _, day := range pullUpDays {
		require.NotNil(t, day.TotalPullUps)
		assert.Nil(t, day.TotalPushUps)
		switch day.Date {
		case today:
			assert.Equal(t, 15, *day.TotalPullUps)
		case today.AddDays(-3):
			assert.Equal(t, 7, *day.TotalPullUps)
		default:
			t.Errorf("unexpected day in last 7 days: %s", day.Date)
		}
	}

	resp, respBytes = s.doRequest(ctx, t, "GET", "/api/pushups/monthly", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var pushUpMonths []workouts.ExerciseMonthTotal
	require.NoError(t, json.Unmarshal(respBytes, &pushUpMonths))
	total := 0
	for _, month := range pushUpMonths {
		require.NotNil(t, month.TotalPushUps)
		assert.Nil(t, month.TotalPullUps)
		total += *month.TotalPushUps
	}
	assert.Equal(t, 133, total)

	resp, respBytes = s.doRequest(ctx, t, "GET", "/api/summary/weekly", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var weekly workouts.WeeklySummary
	require.NoError(t, json.Unmarshal(respBytes, &weekly))
	assert.Len(t, weekly.Days, 7)
	assert.Equal(t, today, weekly.To)
	assert.Equal(t, today.AddDays(-6), weekly.From)
	assert.Equal(t, 22, weekly.TotalPullUps)
	assert.Equal(t, 33, weekly.TotalPushUps)
	assert.Equal(t, 2, weekly.ActiveDays)

	resp, _ = s.doRequest(ctx, t, "GET", "/api/situps/monthly", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// monthly summary is cached, a new submit must be visible right away
	resp, _ = s.doRequest(ctx, t, "POST", "/api/submit", token, submitBody{PushUps: 7})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, respBytes = s.doRequest(ctx, t, "GET", "/api/pushups/monthly", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(respBytes, &pushUpMonths))
	total = 0
	for _, month := range pushUpMonths {
		total += *month.TotalPushUps
	}
	assert.Equal(t, 140, total)
}

func (s *IntegrationTestSuite) TestWorkouts_UsersAreIsolated() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, tokenA := s.registerAndLogin(ctx, t)
	_, tokenB := s.registerAndLogin(ctx, t)

	resp, _ := s.doRequest(ctx, t, "POST", "/api/submit", tokenA, submitBody{PullUps: 3})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, respBytes := s.doRequest(ctx, t, "GET", "/api/streaks", tokenB, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var streaks workouts.Streaks
	require.NoError(t, json.Unmarshal(respBytes, &streaks))
	assert.Equal(t, workouts.Streaks{}, streaks)
}

func (s *IntegrationTestSuite) TestExportCSV() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, token := s.registerAndLogin(ctx, t)
	today := utcToday()

	// more rows than one export page
	for i := 0; i < 5; i++ {
		resp, _ := s.doRequest(ctx, t, "POST", "/api/submit", token, submitBody{
			Date:    today.AddDays(-i).String(),
			PullUps: i + 1,
			PushUps: 10 * (i + 1),
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, respBytes := s.doRequest(ctx, t, "GET", "/api/export", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/csv"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "exercise_data.csv")

	records, err := csv.NewReader(strings.NewReader(string(respBytes))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 6)
	assert.Equal(t, []string{"ID", "Date", "Pull-Ups", "Push-Ups"}, records[0])

	resp, _ = s.doRequest(ctx, t, "GET", "/api/export", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
