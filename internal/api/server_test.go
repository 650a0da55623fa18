package api

import (
	"bytes"
	"context"
	"encoding/json/jsontext"
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cortexapp/cortex-server/internal/auth"
	"github.com/cortexapp/cortex-server/internal/config"
	"github.com/cortexapp/cortex-server/internal/http/response"
	"github.com/cortexapp/cortex-server/internal/service"
	"github.com/cortexapp/cortex-server/internal/store"
)

// setupTestServer creates a test server with all dependencies.
func setupTestServer(t *testing.T) (server *Server, cleanup func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "cortex-api-test-*")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := store.New(filepath.Join(tmpDir, "test.db"), logger)
	require.NoError(t, err)

	cfg := &config.Config{
		App: config.AppConfig{Environment: "development"},
		Server: config.ServerConfig{
			Port:           "8080",
			AllowedOrigins: []string{"*"},
		},
		Auth: config.AuthConfig{
			AccessTokenDuration: time.Hour,
			SecureCookies:       false,
		},
	}

	testKey := []byte("test-secret-key-for-testing-32bb")
	tokenService, err := auth.NewTokenService(testKey, cfg.Auth.AccessTokenDuration)
	require.NoError(t, err)

	authService := service.NewAuthService(s, tokenService, logger)
	tagService := service.NewTagService(s, logger)
	contentService := service.NewContentService(s, tagService, logger)
	sharingService := service.NewSharingService(s, contentService, logger)

	server = NewServer(cfg, authService, contentService, sharingService, tokenService, logger)

	cleanup = func() {
		server.Close()
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return server, cleanup
}

// signupAndLogin registers a user through the API and returns its token.
func signupAndLogin(t *testing.T, server *Server, username string) string {
	t.Helper()

	resp := doJSON(t, server, http.MethodPost, "/api/v1/auth/signup", map[string]string{
		"username":         username,
		"password":         "a strong password",
		"confirm_password": "a strong password",
	}, "")
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = doJSON(t, server, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": username,
		"password": "a strong password",
	}, "")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.Token)

	return envelope.Data.Token
}

// doJSON performs a request against the test server, optionally with a
// Bearer token, and returns the recorder.
func doJSON(t *testing.T, server *Server, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequestWithContext(context.Background(), method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

// doJSONWithCookie performs a request carrying the token in the auth
// cookie rather than the Authorization header.
func doJSONWithCookie(t *testing.T, server *Server, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequestWithContext(context.Background(), method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.AddCookie(&http.Cookie{Name: authCookieName, Value: token})

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

// parseEnvelope decodes a response envelope, unmarshalling data into dst.
func parseEnvelope(t *testing.T, rec *httptest.ResponseRecorder, dst any) response.Envelope {
	t.Helper()

	var envelope struct {
		Data    jsontext.Value  `json:"data"`
		Error   string          `json:"error"`
		Message string          `json:"message"`
		Success bool            `json:"success"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))

	if dst != nil && len(envelope.Data) > 0 {
		require.NoError(t, json.Unmarshal(envelope.Data, dst))
	}

	return response.Envelope{
		Error:   envelope.Error,
		Message: envelope.Message,
		Success: envelope.Success,
	}
}

func TestHealthCheck(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	resp := doJSON(t, server, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)

	var data map[string]string
	env := parseEnvelope(t, resp, &data)
	require.True(t, env.Success)
	require.Equal(t, "healthy", data["status"])
}
