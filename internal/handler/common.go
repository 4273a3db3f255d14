package handler // handler implements the HTTP endpoints of the Curated API

import (
	"errors"

	"github.com/labstack/echo/v4"
)

// getUserID extracts the user_id injected by the JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
	if id, ok := c.Get("user_id").(uint64); ok {
		return id, nil
	}
	return 0, errors.New("invalid user_id in context")
}
