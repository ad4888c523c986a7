package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"ecomlens/internal/config"
	"ecomlens/internal/localstore"
	"ecomlens/internal/session"
	"ecomlens/internal/studio"
	"ecomlens/internal/users"
	"ecomlens/internal/websocket"

	"github.com/stretchr/testify/require"
)

const testSecret = "api_test_secret"

// resultImage is a base64 PNG signature, enough for download checks.
const resultImage = "data:image/png;base64,iVBORw0KGgo="

type fakeGenerator struct {
	calls atomic.Int32
	fail  map[string]bool
}

func (f *fakeGenerator) Generate(ctx context.Context, source, instruction string) (string, error) {
	f.calls.Add(1)
	if f.fail[instruction] {
		return "", errors.New("model returned no image")
	}
	return resultImage, nil
}

type testEnv struct {
	server  *Server
	handler http.Handler
	gen     *fakeGenerator
	users   *users.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := localstore.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	usersSvc := users.NewService(
		localstore.NewUserRepository(db),
		session.NewLocalStore(localstore.NewKV(db), 0),
		users.Options{Location: time.UTC},
	)

	gen := &fakeGenerator{fail: map[string]bool{}}
	hub := websocket.NewHub(nil)
	done := make(chan struct{})
	go hub.Run(done)
	t.Cleanup(func() { close(done) })

	studioSvc, err := studio.NewService(gen, usersSvc, studio.Options{Notifier: hub})
	require.NoError(t, err)

	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret, TTL: time.Hour}}
	srv := NewServer(cfg, usersSvc, studioSvc, hub, nil)

	return &testEnv{server: srv, handler: srv.Routes(), gen: gen, users: usersSvc}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) signup(t *testing.T, email string) TokenResponse {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/auth/signup", "", CredentialsRequest{Email: email})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var resp TokenResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func (e *testEnv) login(t *testing.T, email string) TokenResponse {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/auth/login", "", CredentialsRequest{Email: email})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var resp TokenResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func (e *testEnv) me(t *testing.T, token string) MeResponse {
	t.Helper()
	rr := e.do(t, http.MethodGet, "/me", token, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var resp MeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}
