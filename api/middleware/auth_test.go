package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/parmaperfumes/catalog-backend/pkg/auth"
	"github.com/parmaperfumes/catalog-backend/pkg/config"
)

func jwtConfig(secret string) config.JWTConfig {
	return config.JWTConfig{
		Secret:            secret,
		Issuer:            "parma-catalog",
		ExpirationMinutes: 60,
	}
}

func protectedProbe(t *testing.T, cfg config.JWTConfig, authorize func(r *http.Request)) (*httptest.ResponseRecorder, string) {
	t.Helper()

	var subject string
	handler := RequireAdmin(cfg, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject = AdminSubjectFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/catalog", nil)
	if authorize != nil {
		authorize(req)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, subject
}

func TestRequireAdminDisabledWithoutSecret(t *testing.T) {
	rec, _ := protectedProbe(t, jwtConfig(""), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("guard must be a no-op without a secret, got %d", rec.Code)
	}
}

func TestRequireAdminRejectsMissingToken(t *testing.T) {
	rec, _ := protectedProbe(t, jwtConfig("secret"), nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRequireAdminRejectsGarbageToken(t *testing.T) {
	rec, _ := protectedProbe(t, jwtConfig("secret"), func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer not-a-jwt")
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRequireAdminAcceptsValidToken(t *testing.T) {
	cfg := jwtConfig("secret")
	signed, err := auth.MintAdminToken(cfg, time.Now(), auth.AdminTokenPayload{Subject: "ops@parma"})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	rec, subject := protectedProbe(t, cfg, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+signed)
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if subject != "ops@parma" {
		t.Fatalf("subject = %q", subject)
	}
}

func TestRequireAdminRejectsTokenFromOtherSecret(t *testing.T) {
	otherSigned, err := auth.MintAdminToken(jwtConfig("other"), time.Now(), auth.AdminTokenPayload{Subject: "ops@parma"})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	rec, _ := protectedProbe(t, jwtConfig("secret"), func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+otherSigned)
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}
