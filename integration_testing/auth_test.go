package integration_testing

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestAuth() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	username := gofakeit.Username()
	password := "str0ng-enough-pass"
	token := s.registerAndLogin(ctx, username, password)

	t.Run("register with taken username", func(t *testing.T) {
		credsJson, err := json.Marshal(map[string]string{
			"username": username,
			"password": "another-password",
		})
		require.NoError(t, err)

		resp := s.doRequest(ctx, "POST", "/a/register", "", credsJson)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("login with wrong password", func(t *testing.T) {
		credsJson, err := json.Marshal(map[string]string{
			"username": username,
			"password": "bad-password",
		})
		require.NoError(t, err)

		resp := s.doRequest(ctx, "POST", "/a/login", "", credsJson)
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		respBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "error, wrong credentials", strings.TrimSpace(string(respBytes)))
	})

	t.Run("login with unknown user", func(t *testing.T) {
		credsJson, err := json.Marshal(map[string]string{
			"username": "who-is-this",
			"password": password,
		})
		require.NoError(t, err)

		resp := s.doRequest(ctx, "POST", "/a/login", "", credsJson)
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		// unknown user and wrong password are indistinguishable
		respBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "error, wrong credentials", strings.TrimSpace(string(respBytes)))
	})

	t.Run("protected route without token", func(t *testing.T) {
		resp := s.doRequest(ctx, "GET", "/diary/day/2025-06-04", "", nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("logout kills the session", func(t *testing.T) {
		resp := s.doRequest(ctx, "GET", "/a/logout", token, nil)
		require.NoError(t, resp.Body.Close())
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = s.doRequest(ctx, "GET", "/diary/day/2025-06-04", token, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rate limiting", func(t *testing.T) {
		// start with a clean rate limit window
		require.NoError(t, s.redisDataCleanup(ctx))

		credsJson, err := json.Marshal(map[string]string{
			"username": "brute-force-user",
			"password": "brute-force-pass",
		})
		require.NoError(t, err)

		// config allows 30 auth requests per minute
		for i := 1; i <= 35; i++ {
			resp := s.doRequest(ctx, "POST", "/a/login", "", credsJson)

			if i <= 30 {
				require.Equal(t, http.StatusBadRequest, resp.StatusCode, "iteration: %d", i)
			} else {
				require.Equal(t, http.StatusTooManyRequests, resp.StatusCode, "iteration: %d", i)
			}

			assert.NoError(t, resp.Body.Close())
		}

		require.NoError(t, s.redisDataCleanup(ctx))
	})
}
