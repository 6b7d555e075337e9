package handler // handler defines http handlers

import (
	"errors"  // errors provides sentinel values used by context helpers
	"strconv" // strconv converts strings to numeric types

	"github.com/labstack/echo/v4" // echo defines request context types
)

// getUserID extracts the user_id from echo.Context and converts it to uint64.
// JWT numeric claims arrive as float64; string subjects are parsed.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
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

// getRestaurantID extracts the restaurant_id claim an agent token carries.
// Same decoding rules as getUserID.
func getRestaurantID(c echo.Context) (uint64, error) {
	v := c.Get("restaurant_id")
	switch t := v.(type) {
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
	return 0, errors.New("invalid restaurant_id in context")
}

// pageParams reads ?page= and ?count= query parameters with defaults and
// converts them into an SQL offset/limit pair. Page numbering is 1-based.
func pageParams(c echo.Context, defCount, maxCount int) (offset, limit int) {
	page := 1
	if n, err := strconv.Atoi(c.QueryParam("page")); err == nil && n > 0 {
		page = n
	}
	limit = defCount
	if n, err := strconv.Atoi(c.QueryParam("count")); err == nil && n > 0 {
		limit = n
	}
	if limit > maxCount {
		limit = maxCount
	}
	return (page - 1) * limit, limit
}
