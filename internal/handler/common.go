// Package handler contains the HTTP handlers of the back-office gateway.
package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
)

// RoleOperator is the only role the gateway issues; every protected route
// requires it.
const RoleOperator = "OPERATOR"

// operatorID is the subject of the single configured operator account.
// The gateway has no user table — identity lives with the external
// provider in the storefront, and the back-office runs on one credential.
const operatorID uint64 = 1

// getUserID extracts the user_id stored by the JWT middleware and converts
// it to uint64.  JWT numeric claims come back as float64, so several
// representations are accepted.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}
