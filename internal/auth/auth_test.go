package auth

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"wg-relay-webui/internal/settings"
)

func init() {
	// Keep bcrypt fast in tests.
	bcryptCost = bcrypt.MinCost
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	sm := settings.NewManager(filepath.Join(t.TempDir(), "settings.json"))
	return NewManager(sm)
}

func TestEnsureDefaultsCreatesCredentials(t *testing.T) {
	m := newTestManager(t)

	if err := m.EnsureDefaults(); err != nil {
		t.Fatalf("EnsureDefaults: %v", err)
	}

	s, err := m.settings.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if s.AuthPasswordHash == "" {
		t.Error("expected password hash to be set")
	}
	if s.AuthToken == "" {
		t.Error("expected token to be set")
	}
}

func TestEnsureDefaultsIdempotent(t *testing.T) {
	m := newTestManager(t)

	if err := m.EnsureDefaults(); err != nil {
		t.Fatalf("first EnsureDefaults: %v", err)
	}
	s1, _ := m.settings.Get()

	if err := m.EnsureDefaults(); err != nil {
		t.Fatalf("second EnsureDefaults: %v", err)
	}
	s2, _ := m.settings.Get()

	if s1.AuthPasswordHash != s2.AuthPasswordHash {
		t.Error("password hash changed on second run")
	}
	if s1.AuthToken != s2.AuthToken {
		t.Error("token changed on second run")
	}
}

func TestCheckPasswordDefault(t *testing.T) {
	m := newTestManager(t)
	if err := m.EnsureDefaults(); err != nil {
		t.Fatalf("EnsureDefaults: %v", err)
	}

	if !m.CheckPassword(defaultPassword) {
		t.Error("default password should validate")
	}
	if m.CheckPassword("wrong") {
		t.Error("wrong password should not validate")
	}
}

func TestSetPassword(t *testing.T) {
	m := newTestManager(t)
	if err := m.EnsureDefaults(); err != nil {
		t.Fatalf("EnsureDefaults: %v", err)
	}

	if err := m.SetPassword("newpass"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if !m.CheckPassword("newpass") {
		t.Error("new password should validate")
	}
	if m.CheckPassword(defaultPassword) {
		t.Error("default password should no longer validate")
	}

	if err := m.SetPassword(""); err == nil {
		t.Error("empty password should be rejected")
	}
}

func TestValidateToken(t *testing.T) {
	m := newTestManager(t)
	if err := m.EnsureDefaults(); err != nil {
		t.Fatalf("EnsureDefaults: %v", err)
	}

	token, err := m.GetToken()
	if err != nil {
		t.Fatalf("GetToken: %v", err)
	}
	if !m.ValidateToken(token) {
		t.Error("stored token should validate")
	}
	if m.ValidateToken("bogus") {
		t.Error("bogus token should not validate")
	}
	if m.ValidateToken("") {
		t.Error("empty token should not validate")
	}
}

func TestMiddleware(t *testing.T) {
	m := newTestManager(t)
	if err := m.EnsureDefaults(); err != nil {
		t.Fatalf("EnsureDefaults: %v", err)
	}
	token, _ := m.GetToken()

	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	cases := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"no token", "/api/status", "", http.StatusUnauthorized},
		{"bad token", "/api/status", "Bearer nope", http.StatusUnauthorized},
		{"good token", "/api/status", "Bearer " + token, http.StatusOK},
		{"login is public", "/api/auth/login", "", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Errorf("%s: status = %d, want %d", tc.path, rec.Code, tc.want)
			}
		})
	}
}
