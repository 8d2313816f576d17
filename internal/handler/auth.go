package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cineboard/backoffice/internal/config"
	"github.com/cineboard/backoffice/internal/utils"
)

// AuthHandler implements operator authentication.  There is exactly one
// operator account, configured through the environment as an email plus a
// bcrypt password hash; a successful login yields a short-lived HS256
// access token for the protected editing and scheduling routes.
type AuthHandler struct {
	Cfg config.Config
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(cfg config.Config) *AuthHandler {
	return &AuthHandler{Cfg: cfg}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenPart struct {
	Token   string `json:"token"`
	Expires string `json:"expires"`
}

// Login handles POST /v1/auth/login.  Credential mismatches are reported
// uniformly so the response does not reveal which half was wrong.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}
	if req.Email != strings.ToLower(h.Cfg.OperatorEmail) || !utils.VerifyPassword(h.Cfg.OperatorHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, operatorID, RoleOperator, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user":   echo.Map{"id": operatorID, "email": h.Cfg.OperatorEmail, "role": RoleOperator},
		"access": tokenPart{Token: access.Token, Expires: access.Exp.Format(time.RFC3339)},
	})
}

// Me handles GET /v1/me and echoes the authenticated identity.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	role, _ := c.Get("role").(string)
	return c.JSON(http.StatusOK, echo.Map{"id": uid, "email": h.Cfg.OperatorEmail, "role": role})
}
