package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/lclasicoaj/Fitness-app-project-1/internal/auth"
	"github.com/lclasicoaj/Fitness-app-project-1/internal/middleware"

	"github.com/stretchr/testify/require"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// signUp registers a fresh user and returns its session token.
func signUp(ctx context.Context, t *testing.T, email, password string) string {
	credsJson, err := json.Marshal(credentials{
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/a/signup", serverEndpoint), bytes.NewBuffer(credsJson))
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var sessionResp auth.SessionResponse
	require.NoError(t, json.Unmarshal(respBytes, &sessionResp))
	require.NotEmpty(t, sessionResp.Token)

	return sessionResp.Token
}

func routinePath(id int) string {
	return fmt.Sprintf("/routines/%d", id)
}

func workoutPath(id int) string {
	return fmt.Sprintf("/workouts/%d", id)
}

// doRequest sends an authenticated JSON request and returns the
// response, with the body decoded into out when out is not nil.
func doRequest(ctx context.Context, t *testing.T, token, method, path string, body, out interface{}) *http.Response {
	var bodyReader io.Reader
	if body != nil {
		bodyJson, err := json.Marshal(body)
		require.NoError(t, err)
		bodyReader = bytes.NewBuffer(bodyJson)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, bodyReader)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(middleware.AuthTokenHeader, token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		respBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		if resp.StatusCode < 300 {
			require.NoError(t, json.Unmarshal(respBytes, out), "body: %s", respBytes)
		}
	}

	return resp
}
