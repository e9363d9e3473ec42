//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/2beens/gymsession/internal/auth"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestLogin() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cases := map[string]struct {
		credentials        auth.Credentials
		expectedStatusCode int
		assertFunc         func(t *testing.T, respBytes []byte)
	}{
		"good creds": {
			credentials:        auth.Credentials{Email: testEmail, Password: testPassword},
			expectedStatusCode: http.StatusOK,
			assertFunc: func(t *testing.T, respBytes []byte) {
				var loginResp loginResponse
				require.NoError(t, json.Unmarshal(respBytes, &loginResp))
				assert.NotEmpty(t, loginResp.Token)
				assert.Equal(t, s.userID, loginResp.UserID)
			},
		},
		"bad password": {
			credentials:        auth.Credentials{Email: testEmail, Password: "bad-password"},
			expectedStatusCode: http.StatusBadRequest,
			assertFunc: func(t *testing.T, respBytes []byte) {
				assert.Equal(t, "error, wrong credentials", strings.TrimSpace(string(respBytes)))
			},
		},
		"unknown email": {
			credentials:        auth.Credentials{Email: gofakeit.Email(), Password: testPassword},
			expectedStatusCode: http.StatusBadRequest,
			assertFunc: func(t *testing.T, respBytes []byte) {
				assert.Equal(t, "error, wrong credentials", strings.TrimSpace(string(respBytes)))
			},
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			req := s.newRequest(ctx, t, "POST", "/a/login", "", tc.credentials)
			resp, err := s.httpClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, tc.expectedStatusCode, resp.StatusCode)

			respBytes, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			tc.assertFunc(t, respBytes)
		})
	}
}

func (s *IntegrationTestSuite) TestLogout() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := s.doLogin(ctx, t)
	assert.Equal(t, http.StatusOK, s.do(ctx, t, "GET", "/stats", token, nil, nil))

	assert.Equal(t, http.StatusOK, s.do(ctx, t, "POST", "/a/logout", token, nil, nil))

	// token is gone
	assert.Equal(t, http.StatusUnauthorized, s.do(ctx, t, "GET", "/stats", token, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, s.do(ctx, t, "GET", "/stats", "", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, s.do(ctx, t, "GET", "/stats", "made-up-token", nil, nil))
}

func (s *IntegrationTestSuite) TestLogin_RateLimiting() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// simulate login requests brute force attack
	loginReqJson, err := json.Marshal(auth.Credentials{
		Email:    testEmail,
		Password: "guessed-password",
	})
	require.NoError(t, err)

	// config allows 10 login attempts per minute, so after the 10th attempt we should get 429
	for i := 1; i <= 15; i++ {
		req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/a/login", serverEndpoint), bytes.NewBuffer(loginReqJson))
		require.NoError(t, err)
		req.Header.Set("User-Agent", "test-agent")
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)

		if i <= 10 {
			require.Equal(t, http.StatusBadRequest, resp.StatusCode, "iteration: %d", i)
			assert.Empty(t, resp.Header.Get("Retry-After"), "iteration: %d", i)
		} else {
			require.Equal(t, http.StatusTooManyRequests, resp.StatusCode, "iteration: %d", i)
			retryAfter, err := strconv.Atoi(resp.Header.Get("Retry-After"))
			require.NoError(t, err, "iteration: %d", i)
			assert.Positive(t, retryAfter, "iteration: %d", i)
		}

		assert.NoError(t, resp.Body.Close())
	}

	// the session endpoints are not limited
	require.NoError(t, s.redisDataCleanup(ctx))
	token := s.doLogin(ctx, t)
	for i := 0; i < 15; i++ {
		assert.Equal(t, http.StatusOK, s.do(ctx, t, "GET", "/session", token, nil, nil))
	}
}
