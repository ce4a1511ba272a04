package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rewear/rewear-backend/pkg/auth"
	"github.com/rewear/rewear-backend/pkg/config"
)

var testJWTConfig = config.JWTConfig{Secret: "secret", Issuer: "rewear", ExpirationMinutes: 60}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthRejectsMissingToken(t *testing.T) {
	handler := Auth(testJWTConfig, stubSessionVerifier{ok: true}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	handler := Auth(testJWTConfig, stubSessionVerifier{ok: true}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	token, _ := mintTestToken(t, testJWTConfig)
	handler := Auth(testJWTConfig, stubSessionVerifier{ok: false}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthSessionLookupFailure(t *testing.T) {
	token, _ := mintTestToken(t, testJWTConfig)
	handler := Auth(testJWTConfig, stubSessionVerifier{err: errors.New("redis down")}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}

func TestAuthAllowsValidToken(t *testing.T) {
	token, userID := mintTestToken(t, testJWTConfig)

	var gotUser uuid.UUID
	var gotAccess string
	handler := Auth(testJWTConfig, stubSessionVerifier{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = UserUUIDFromContext(r.Context())
		gotAccess = AccessIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if gotUser != userID {
		t.Fatalf("expected user %s got %s", userID, gotUser)
	}
	if gotAccess != "session-1" {
		t.Fatalf("expected access id session-1 got %q", gotAccess)
	}
}

func TestBearerTokenAcceptsBareToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "  abc.def  ")
	if got := BearerToken(req); got != "abc.def" {
		t.Fatalf("expected bare token, got %q", got)
	}
	req.Header.Set("Authorization", "bearer xyz")
	if got := BearerToken(req); got != "xyz" {
		t.Fatalf("expected scheme stripped, got %q", got)
	}
}

func mintTestToken(t *testing.T, cfg config.JWTConfig) (string, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	token, err := auth.MintAccessToken(cfg, time.Now(), auth.AccessTokenPayload{UserID: userID, JTI: "session-1"})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token, userID
}

type stubSessionVerifier struct {
	ok  bool
	err error
}

func (s stubSessionVerifier) HasSession(ctx context.Context, accessID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.ok, nil
}

func TestOptionalAuthSeedsCallerOrStaysAnonymous(t *testing.T) {
	token, userID := mintTestToken(t, testJWTConfig)

	var gotUser uuid.UUID
	var seeded bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, seeded = UserUUIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	cases := []struct {
		name     string
		header   string
		verifier stubSessionVerifier
		want     bool
	}{
		{name: "anonymous", verifier: stubSessionVerifier{ok: true}},
		{name: "invalid token", header: "Bearer invalid", verifier: stubSessionVerifier{ok: true}},
		{name: "revoked session", header: "Bearer " + token, verifier: stubSessionVerifier{ok: false}},
		{name: "valid token", header: "Bearer " + token, verifier: stubSessionVerifier{ok: true}, want: true},
	}
	for _, tc := range cases {
		gotUser, seeded = uuid.Nil, false
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		resp := httptest.NewRecorder()
		OptionalAuth(testJWTConfig, tc.verifier, nil)(next).ServeHTTP(resp, req)

		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", tc.name, resp.Code)
		}
		if seeded != tc.want {
			t.Fatalf("%s: expected seeded=%v got %v", tc.name, tc.want, seeded)
		}
		if tc.want && gotUser != userID {
			t.Fatalf("%s: expected user %s got %s", tc.name, userID, gotUser)
		}
	}
}
