// Package router defines how HTTP routes are registered for the gateway.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/cineboard/backoffice/internal/handler"
	"github.com/cineboard/backoffice/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check, which
// load balancers and monitoring systems can probe.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication routes.  Login lives under
// /v1/auth and needs no token; /v1/me requires a valid access token and
// the operator role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(handler.RoleOperator))
	auth.GET("/me", a.Me)
}
