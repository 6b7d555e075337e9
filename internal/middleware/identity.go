package middleware

// identity.go defines helper functions shared across middleware files.
// currentUserID resolves the identity used in rate limit keys from the
// claims JWTAuth stored in the Echo context. Anonymous requests bucket
// together under "anon".

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// currentUserID returns the authenticated user's id as a string, or
// "anon" when the request carries no usable identity. JWT numeric
// claims arrive as float64.
func currentUserID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case int:
		return strconv.Itoa(v)
	}
	return "anon"
}
