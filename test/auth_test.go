package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/lclasicoaj/Fitness-app-project-1/internal/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestAuth() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := signUp(ctx, t, "auth-test@example.com", "testpass")

	// duplicate signup is rejected
	credsJson, err := json.Marshal(credentials{
		Email:    "auth-test@example.com",
		Password: "other-pass",
	})
	require.NoError(t, err)
	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/a/signup", serverEndpoint), bytes.NewBuffer(credsJson))
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// gated path without a token
	resp = doRequest(ctx, t, "", "GET", "/routines", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// with the session token
	resp = doRequest(ctx, t, token, "GET", "/routines", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// wrong password
	wrongCredsJson, err := json.Marshal(credentials{
		Email:    "auth-test@example.com",
		Password: "nope",
	})
	require.NoError(t, err)
	req, err = http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/a/login", serverEndpoint), bytes.NewBuffer(wrongCredsJson))
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// logout kills the session
	req, err = http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/a/logout", serverEndpoint), nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set(middleware.AuthTokenHeader, token)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(ctx, t, token, "GET", "/routines", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
