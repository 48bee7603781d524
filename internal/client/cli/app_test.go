package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/config"
	"github.com/dmitrijs2005/gophauth/internal/client/credentials"
	"github.com/dmitrijs2005/gophauth/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophauth/internal/client/services"
	"github.com/dmitrijs2005/gophauth/internal/client/session"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// identityServer is an in-memory identity API with a single account.
type identityServer struct {
	mu       sync.Mutex
	token    string
	verified bool
	requests []string
}

func (s *identityServer) record(r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.Method+" "+r.URL.Path)
	s.mu.Unlock()
}

func (s *identityServer) seen() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *identityServer) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "alice" || body["password"] != "correct-pw" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect username or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"access_token": s.token, "refresh_token": "r", "token_type": "bearer"})
	})

	mux.HandleFunc("GET /api/v1/auth/me", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		if r.Header.Get("Authorization") != "Bearer "+s.token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"id": 1, "username": "alice", "email": "alice@example.org",
			"is_active": true, "is_verified_email": s.verified,
			"created_at": "2024-05-01T10:00:00", "updated_at": "2024-05-01T10:00:00",
		})
	})

	mux.HandleFunc("POST /api/v1/auth/register", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["username"] == "alice" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Username already registered"})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"id": 2, "username": body["username"], "email": body["email"], "is_active": true,
			"created_at": "2024-05-01T10:00:00", "updated_at": "2024-05-01T10:00:00",
		})
	})

	mux.HandleFunc("POST /api/v1/auth/request-password-reset", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		writeJSON(w, http.StatusOK, map[string]string{"message": "sent"})
	})

	mux.HandleFunc("POST /api/v1/auth/reset-password", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["token"] != "good-reset" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Invalid or expired password reset token"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})

	mux.HandleFunc("POST /api/v1/auth/request-email-verification", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		writeJSON(w, http.StatusOK, map[string]string{"message": "sent"})
	})

	mux.HandleFunc("GET /api/v1/auth/verify-email/{token}", func(w http.ResponseWriter, r *http.Request) {
		s.record(r)
		if r.PathValue("token") != "good-verify" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Invalid verification token"})
			return
		}
		s.mu.Lock()
		s.verified = true
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"message": "verified"})
	})

	return mux
}

type harness struct {
	app    *App
	out    *bytes.Buffer
	server *identityServer
	store  *credentials.Store
}

func testConfig(t *testing.T, apiURL string) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.APIBaseURL = apiURL
	cfg.DatabasePath = filepath.Join(t.TempDir(), "app.db")
	cfg.RequestTimeout = 2 * time.Second
	return cfg
}

// newHarness wires the real stack against a fake identity server. input is
// what the user types.
func newHarness(t *testing.T, input string) *harness {
	t.Helper()
	stubTerminal(t, false, nil, nil)

	srv := &identityServer{token: "tok-alice"}
	ts := httptest.NewServer(srv.handler())
	t.Cleanup(ts.Close)

	cfg := testConfig(t, ts.URL+"/api/v1")
	ctx := context.Background()
	db, err := client.InitDatabase(ctx, cfg.DatabasePath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logging.Nop()
	headers := client.NewHeaders()
	api := client.NewHTTPClient(cfg.APIBaseURL, headers, cfg.RequestTimeout, log)
	store := credentials.NewStore(metadata.NewSQLiteRepository(db), headers, log)

	out := &bytes.Buffer{}
	app := newApp(cfg, session.New(store, api, log), services.NewAccountService(api, log), log, strings.NewReader(input), out)
	t.Cleanup(app.Close)

	return &harness{app: app, out: out, server: srv, store: store}
}

func TestNavigate_ProtectedRedirectsToLoginAndReplaysIntent(t *testing.T) {
	h := newHarness(t, "alice\ncorrect-pw\n")
	ctx := context.Background()
	h.app.session.Bootstrap(ctx)

	h.app.Navigate(ctx, "/profile")

	out := h.out.String()
	assert.Contains(t, out, "== Login ==")
	assert.Contains(t, out, "Please log in to open /profile.")
	assert.Contains(t, out, "Logged in as alice.")
	assert.Contains(t, out, "== User Profile ==")
	assert.Contains(t, out, "Username: alice")
	assert.Contains(t, out, "Joined:   2024-05-01")
	assert.NotContains(t, out, "== Home ==")
	assert.Equal(t, "(alice) /profile", h.app.getStatus())

	tok, kind, ok := h.store.Get(ctx)
	require.True(t, ok)
	assert.Equal(t, "tok-alice", tok)
	assert.Equal(t, "bearer", kind)
}

func TestNavigate_LoginWithoutIntentGoesHome(t *testing.T) {
	h := newHarness(t, "alice\ncorrect-pw\n")
	ctx := context.Background()
	h.app.session.Bootstrap(ctx)

	h.app.Login(ctx)

	assert.Contains(t, h.out.String(), "== Home ==")
	assert.Contains(t, h.out.String(), "Hello, alice!")
}

func TestNavigate_LoginFailureShowsServerDetail(t *testing.T) {
	h := newHarness(t, "alice\nwrong\n")
	ctx := context.Background()
	h.app.session.Bootstrap(ctx)

	h.app.Login(ctx)

	assert.Contains(t, h.out.String(), "Error: Incorrect username or password")
	assert.False(t, h.app.isLoggedIn())
	assert.Equal(t, "(guest) /login", h.app.getStatus())
	_, _, ok := h.store.Get(ctx)
	assert.False(t, ok)
}

func TestNavigate_LoginEmptyFormMakesNoRequest(t *testing.T) {
	h := newHarness(t, "\n\n")
	ctx := context.Background()
	h.app.session.Bootstrap(ctx)

	h.app.Login(ctx)

	assert.Contains(t, h.out.String(), "Error: username is required; password is required")
	assert.Empty(t, h.server.seen())
}

func TestNavigate_GuestOnlyWhenAuthenticated(t *testing.T) {
	h := newHarness(t, "alice\ncorrect-pw\n")
	ctx := context.Background()
	h.app.session.Bootstrap(ctx)
	h.app.Login(ctx)
	h.out.Reset()

	h.app.Register(ctx)

	assert.NotContains(t, h.out.String(), "== Register ==")
	assert.Contains(t, h.out.String(), "== Home ==")
}

func TestNavigate_NotFound(t *testing.T) {
	h := newHarness(t, "")
	h.app.session.Bootstrap(context.Background())

	h.app.Open(context.Background(), "/nope")

	assert.Contains(t, h.out.String(), "404 - Page Not Found")
	assert.Contains(t, h.out.String(), "/nope")
}

func TestNavigate_PendingWhileLoading(t *testing.T) {
	h := newHarness(t, "")

	h.app.Profile(context.Background())

	assert.Equal(t, "Loading...\n", h.out.String())
	assert.Empty(t, h.server.seen())
}

func TestBootstrap_RestoresStoredSession(t *testing.T) {
	h := newHarness(t, "")
	ctx := context.Background()
	h.store.Set(ctx, "tok-alice", "bearer")

	h.app.session.Bootstrap(ctx)
	h.app.Profile(ctx)

	assert.Contains(t, h.out.String(), "Username: alice")
	assert.Equal(t, []string{"GET /api/v1/auth/me"}, h.server.seen())
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		calls int
	}{
		{name: "ok", input: "bob\nbob@example.org\npw\npw\n", want: "Registration successful!", calls: 1},
		{name: "duplicate", input: "alice\nalice@example.org\npw\npw\n", want: "Error: Username already registered", calls: 1},
		{name: "mismatch", input: "bob\nbob@example.org\npw\nother\n", want: "Error: passwords do not match", calls: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.input)
			h.app.session.Bootstrap(context.Background())

			h.app.Register(context.Background())

			assert.Contains(t, h.out.String(), tt.want)
			assert.Len(t, h.server.seen(), tt.calls)
			assert.False(t, h.app.isLoggedIn(), "registration never logs in")
		})
	}
}

func TestForgotAndReset(t *testing.T) {
	t.Run("request link", func(t *testing.T) {
		h := newHarness(t, "someone@example.org\n")
		h.app.Forgot(context.Background())
		assert.Contains(t, h.out.String(), "If an account with that email exists")
	})

	t.Run("missing token", func(t *testing.T) {
		h := newHarness(t, "")
		h.app.Reset(context.Background(), "")
		assert.Contains(t, h.out.String(), "Error: invalid or missing reset token")
		assert.Empty(t, h.server.seen())
	})

	t.Run("short password", func(t *testing.T) {
		h := newHarness(t, "short\nshort\n")
		h.app.Reset(context.Background(), "good-reset")
		assert.Contains(t, h.out.String(), "new password must be at least 8 characters")
		assert.Empty(t, h.server.seen())
	})

	t.Run("expired token", func(t *testing.T) {
		h := newHarness(t, "longenough\nlongenough\n")
		h.app.Reset(context.Background(), "stale")
		assert.Contains(t, h.out.String(), "Error: Invalid or expired password reset token")
	})

	t.Run("ok", func(t *testing.T) {
		h := newHarness(t, "longenough\nlongenough\n")
		h.app.Reset(context.Background(), "good-reset")
		assert.Contains(t, h.out.String(), "Your password has been reset.")
	})
}

func TestVerifyAndResend(t *testing.T) {
	h := newHarness(t, "alice\ncorrect-pw\n")
	ctx := context.Background()
	h.app.session.Bootstrap(ctx)
	h.app.Login(ctx)

	h.app.Profile(ctx)
	assert.Contains(t, h.out.String(), "Type 'resend' to get a new link.")

	h.app.ResendVerification(ctx)
	assert.Contains(t, h.out.String(), "A verification link has been sent to alice@example.org.")

	h.app.Verify(ctx, "bad")
	assert.Contains(t, h.out.String(), "Error: Invalid verification token")

	h.app.Verify(ctx, "good-verify")
	assert.Contains(t, h.out.String(), "Your email has been successfully verified!")

	h.app.Verify(ctx, "")
	assert.Contains(t, h.out.String(), "No verification token found.")
}

func TestShowToken(t *testing.T) {
	orig := now
	now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = orig })

	h := newHarness(t, "alice\ncorrect-pw\n")
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Date(2025, 1, 1, 1, 0, 0, 0, time.UTC)),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)
	h.server.token = signed

	ctx := context.Background()
	h.app.ShowToken(ctx)
	assert.Contains(t, h.out.String(), "Not logged in.")

	h.app.session.Bootstrap(ctx)
	h.app.Login(ctx)
	h.out.Reset()

	h.app.ShowToken(ctx)
	out := h.out.String()
	assert.Contains(t, out, "Subject: alice")
	assert.Contains(t, out, "Expires: 2025-01-01T01:00:00Z (in 1h0m0s)")
	assert.NotContains(t, out, signed, "token must be masked")
}

func TestLogout(t *testing.T) {
	h := newHarness(t, "alice\ncorrect-pw\n")
	ctx := context.Background()
	h.app.session.Bootstrap(ctx)
	h.app.Login(ctx)

	h.app.Logout(ctx)

	assert.Contains(t, h.out.String(), "Logged out.")
	assert.Equal(t, "(guest)", h.app.getStatus())
	_, _, ok := h.store.Get(ctx)
	assert.False(t, ok)

	h.out.Reset()
	h.app.Logout(ctx)
	assert.Equal(t, "Not logged in.\n", h.out.String())
}

func TestRun_EndToEnd(t *testing.T) {
	var prompts []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		prompts = append(prompts, fmt.Sprint(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })

	h := newHarness(t, strings.Join([]string{
		"alice", "correct-pw",
		"profile",
		"status",
		"logout",
		"status",
		"exit",
	}, "\n")+"\n")

	h.app.Run(context.Background())

	out := h.out.String()
	assert.Contains(t, out, "Welcome to gophauth")
	assert.Contains(t, out, "== Login ==")
	assert.Contains(t, out, "== Home ==")
	assert.Contains(t, out, "Username: alice")
	assert.Contains(t, out, "Session: authenticated")
	assert.Contains(t, out, "Session: anonymous")

	require.NotEmpty(t, prompts)
	assert.Equal(t, "ga (alice) /> ", prompts[0])
	assert.Equal(t, "Bye!", prompts[len(prompts)-1])
}

func TestRun_LoginAndRegisterFromPrompt(t *testing.T) {
	captureOutput(t)

	h := newHarness(t, strings.Join([]string{
		"", "",
		"login", "alice", "correct-pw",
		"status",
		"logout",
		"register", "bob", "bob@example.org", "pw", "pw",
		"status",
		"exit",
	}, "\n")+"\n")

	h.app.Run(context.Background())

	out := h.out.String()
	assert.Contains(t, out, "Error: username is required; password is required")
	assert.Contains(t, out, "Logged in as alice.")
	assert.Contains(t, out, "Hello, alice!")
	assert.Contains(t, out, "Session: authenticated")
	assert.Contains(t, out, "Logged out.")
	assert.Contains(t, out, "== Register ==")
	assert.Contains(t, out, "Registration successful!")
	assert.Contains(t, out, "Session: anonymous")
	assert.NotContains(t, out, "Could not read input.")

	assert.Equal(t, []string{
		"POST /api/v1/auth/login",
		"GET /api/v1/auth/me",
		"POST /api/v1/auth/register",
	}, h.server.seen())
}

func TestNavigate_UsesConfiguredPaths(t *testing.T) {
	h := newHarness(t, "alice\ncorrect-pw\n")
	ctx := context.Background()
	h.app.session.Bootstrap(ctx)

	h.app.Login(ctx)
	assert.Equal(t, "(alice) "+h.app.gate.LandingPath(), h.app.getStatus())

	h.app.Logout(ctx)
	h.app.Profile(ctx)
	assert.Equal(t, "(guest) "+h.app.gate.LoginPath(), h.app.getStatus())
}
