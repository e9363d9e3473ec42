//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/2beens/gymsession/internal/auth"
	"github.com/2beens/gymsession/internal/middleware"

	"github.com/stretchr/testify/require"
)

type loginResponse struct {
	Token  string `json:"token"`
	UserID int    `json:"userId"`
}

func (s *IntegrationTestSuite) newRequest(
	ctx context.Context,
	t *testing.T,
	method, path, token string,
	body any,
) *http.Request {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		bodyJson, err := json.Marshal(body)
		require.NoError(t, err)
		bodyReader = bytes.NewBuffer(bodyJson)
	}

	req, err := http.NewRequestWithContext(ctx, method, fmt.Sprintf("%s%s", serverEndpoint, path), bodyReader)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(middleware.AuthTokenHeader, token)
	}
	return req
}

// do sends the request and decodes a JSON response into dest, when given.
func (s *IntegrationTestSuite) do(
	ctx context.Context,
	t *testing.T,
	method, path, token string,
	body any,
	dest any,
) int {
	t.Helper()

	resp, err := s.httpClient.Do(s.newRequest(ctx, t, method, path, token, body))
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if dest != nil && len(respBytes) > 0 {
		require.NoError(t, json.Unmarshal(respBytes, dest), string(respBytes))
	}
	return resp.StatusCode
}

func (s *IntegrationTestSuite) doLogin(ctx context.Context, t *testing.T) string {
	t.Helper()

	var loginResp loginResponse
	status := s.do(ctx, t, "POST", "/a/login", "", auth.Credentials{
		Email:    testEmail,
		Password: testPassword,
	}, &loginResp)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, loginResp.Token)
	require.Equal(t, s.userID, loginResp.UserID)

	return loginResp.Token
}
