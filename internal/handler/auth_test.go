package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/cineboard/backoffice/internal/config"
	"github.com/cineboard/backoffice/internal/utils"
)

func authCfg(t *testing.T) config.Config {
	t.Helper()
	hash, err := utils.HashPassword("hunter2", 4)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return config.Config{
		JWTSecret:     "test-secret",
		AccessTTLMin:  15,
		OperatorEmail: "desk@example.com",
		OperatorHash:  hash,
	}
}

func TestLoginIssuesToken(t *testing.T) {
	h := NewAuthHandler(authCfg(t))
	e := echo.New()

	c, rec := doJSON(t, e, http.MethodPost, "/v1/auth/login",
		`{"email":"Desk@Example.com","password":"hunter2"}`, 0)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var out struct {
		Access tokenPart `json:"access"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Access.Token == "" || out.Access.Expires == "" {
		t.Fatalf("access token incomplete: %+v", out.Access)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	h := NewAuthHandler(authCfg(t))
	e := echo.New()

	for name, body := range map[string]string{
		"wrong password": `{"email":"desk@example.com","password":"nope"}`,
		"wrong email":    `{"email":"intruder@example.com","password":"hunter2"}`,
	} {
		c, rec := doJSON(t, e, http.MethodPost, "/v1/auth/login", body, 0)
		if err := h.Login(c); err != nil {
			t.Fatalf("%s: Login: %v", name, err)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status = %d, want 401", name, rec.Code)
		}
		if rec.Body.String() == "" {
			t.Fatalf("%s: empty error body", name)
		}
	}
}

func TestLoginRequiresBothFields(t *testing.T) {
	h := NewAuthHandler(authCfg(t))
	e := echo.New()

	c, rec := doJSON(t, e, http.MethodPost, "/v1/auth/login", `{"email":"desk@example.com"}`, 0)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
