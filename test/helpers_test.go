//go:build integration

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"

	"github.com/2beens/fittrack/internal/auth"
)

const testPassword = "testpass123"

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func randomUsername() string {
	return gofakeit.Username() + gofakeit.DigitN(6)
}

func (s *IntegrationTestSuite) doRequest(
	ctx context.Context,
	t *testing.T,
	method, path, token string,
	body any,
) (*http.Response, []byte) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(auth.TokenHeader, token)
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, respBytes
}

// registerAndLogin creates a fresh user and returns its session token.
func (s *IntegrationTestSuite) registerAndLogin(ctx context.Context, t *testing.T) (string, string) {
	t.Helper()
	creds := credentials{
		Username: randomUsername(),
		Password: testPassword,
	}

	resp, _ := s.doRequest(ctx, t, "POST", "/api/register", "", creds)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, respBytes := s.doRequest(ctx, t, "POST", "/api/login", "", creds)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var loginResp auth.LoginResponse
	require.NoError(t, json.Unmarshal(respBytes, &loginResp))
	require.NotEmpty(t, loginResp.Token)

	return creds.Username, loginResp.Token
}
