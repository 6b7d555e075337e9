package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/utils"
)

const testSecret = "unit-test-secret"

func runJWT(t *testing.T, authHeader string) (echo.Context, *httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	err := JWTAuth(testSecret)(next)(c)
	return c, rec, err
}

func TestJWTAuthRejectsMissingAndBadTokens(t *testing.T) {
	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, rec, err := runJWT(t, tc.header)
			if err != nil {
				t.Fatalf("middleware returned error: %v", err)
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
	at, err := utils.NewAccessToken("other-secret", 1, "CUSTOMER", nil, 5)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	_, rec, err := runJWT(t, "Bearer "+at.Token)
	if err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestJWTAuthStoresClaims(t *testing.T) {
	rid := uint64(9)
	at, err := utils.NewAccessToken(testSecret, 4, "AGENT", &rid, 5)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	c, rec, err := runJWT(t, "Bearer "+at.Token)
	if err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got, ok := c.Get("user_id").(float64); !ok || got != 4 {
		t.Fatalf("user_id = %v", c.Get("user_id"))
	}
	if c.Get("role") != "AGENT" {
		t.Fatalf("role = %v", c.Get("role"))
	}
	if got, ok := c.Get("restaurant_id").(float64); !ok || got != 9 {
		t.Fatalf("restaurant_id = %v", c.Get("restaurant_id"))
	}
}

func TestRequireRole(t *testing.T) {
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	mw := RequireRole("AGENT")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("role", "AGENT")
	if err := mw(next)(c); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("allowed role: status=%d err=%v", rec.Code, err)
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.Set("role", "CUSTOMER")
	if err := mw(next)(c); err != nil || rec.Code != http.StatusForbidden {
		t.Fatalf("denied role: status=%d err=%v", rec.Code, err)
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	if err := mw(next)(c); err != nil || rec.Code != http.StatusForbidden {
		t.Fatalf("missing role: status=%d err=%v", rec.Code, err)
	}
}
