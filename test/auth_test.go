//go:build integration

package test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/fittrack/internal/auth"
	"github.com/2beens/fittrack/internal/users"
)

func (s *IntegrationTestSuite) TestRegister() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	username := randomUsername()
	resp, respBytes := s.doRequest(ctx, t, "POST", "/api/register", "", credentials{
		Username: username,
		Password: testPassword,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var user users.User
	require.NoError(t, json.Unmarshal(respBytes, &user))
	assert.Positive(t, user.ID)
	assert.Equal(t, username, user.Username)
	assert.NotContains(t, string(respBytes), "$2a$")

	// same username again
	resp, _ = s.doRequest(ctx, t, "POST", "/api/register", "", credentials{
		Username: username,
		Password: testPassword,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// too short password
	resp, _ = s.doRequest(ctx, t, "POST", "/api/register", "", credentials{
		Username: randomUsername(),
		Password: "short",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// longer than bcrypt accepts
	resp, _ = s.doRequest(ctx, t, "POST", "/api/register", "", credentials{
		Username: randomUsername(),
		Password: strings.Repeat("a", 73),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var count int
	require.NoError(t, s.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM app_user WHERE username = $1", username).Scan(&count))
	assert.Equal(t, 1, count)
}

func (s *IntegrationTestSuite) TestLoginLogout() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	username, token := s.registerAndLogin(ctx, t)

	// wrong password
	resp, _ := s.doRequest(ctx, t, "POST", "/api/login", "", credentials{
		Username: username,
		Password: "bad-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// unknown user
	resp, _ = s.doRequest(ctx, t, "POST", "/api/login", "", credentials{
		Username: randomUsername(),
		Password: testPassword,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// session works
	resp, _ = s.doRequest(ctx, t, "GET", "/api/streaks", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, respBytes := s.doRequest(ctx, t, "GET", "/api/logout", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "logged-out", strings.TrimSpace(string(respBytes)))

	// and not anymore
	resp, _ = s.doRequest(ctx, t, "GET", "/api/streaks", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestSessionStore_ScanAndClean() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redis.NewClient(&redis.Options{Addr: "localhost:" + s.redisPort})
	defer rdb.Close()

	store := auth.NewSessionStore(time.Hour, rdb)
	checker := auth.NewLoginChecker(time.Hour, rdb)

	freshToken, err := store.Login(ctx, 42, time.Now())
	require.NoError(t, err)
	staleToken, err := store.Login(ctx, 43, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	userID, err := checker.UserID(ctx, freshToken)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)

	_, err = checker.UserID(ctx, staleToken)
	assert.ErrorIs(t, err, auth.ErrSessionExpired)

	store.ScanAndClean(ctx)

	_, err = checker.UserID(ctx, staleToken)
	assert.ErrorIs(t, err, auth.ErrSessionNotFound)
	userID, err = checker.UserID(ctx, freshToken)
	require.NoError(t, err)
	assert.Equal(t, 42, userID)

	loggedOut, err := store.Logout(ctx, freshToken)
	require.NoError(t, err)
	assert.True(t, loggedOut)
}
