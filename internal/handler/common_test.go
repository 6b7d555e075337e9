package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newCtx(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestGetUserIDDecodesClaimTypes(t *testing.T) {
	cases := []struct {
		name    string
		value   interface{}
		want    uint64
		wantErr bool
	}{
		{"uint64", uint64(7), 7, false},
		{"int", int(8), 8, false},
		{"int64", int64(9), 9, false},
		{"float64 from jwt", float64(10), 10, false},
		{"numeric string", "11", 11, false},
		{"garbage string", "abc", 0, true},
		{"missing", nil, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newCtx("/")
			if tc.value != nil {
				c.Set("user_id", tc.value)
			}
			got, err := getUserID(c)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d", got)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Fatalf("getUserID = %d, %v; want %d", got, err, tc.want)
			}
		})
	}
}

func TestGetRestaurantIDDecodesClaimTypes(t *testing.T) {
	c := newCtx("/")
	c.Set("restaurant_id", float64(42))
	got, err := getRestaurantID(c)
	if err != nil || got != 42 {
		t.Fatalf("getRestaurantID = %d, %v; want 42", got, err)
	}

	c = newCtx("/")
	if _, err := getRestaurantID(c); err == nil {
		t.Fatal("expected error for missing restaurant_id")
	}
}

func TestPageParams(t *testing.T) {
	cases := []struct {
		name       string
		target     string
		wantOffset int
		wantLimit  int
	}{
		{"defaults", "/", 0, 20},
		{"explicit page and count", "/?page=3&count=10", 20, 10},
		{"count capped", "/?count=500", 0, 100},
		{"zero page clamps to first", "/?page=0", 0, 20},
		{"garbage ignored", "/?page=x&count=y", 0, 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			offset, limit := pageParams(newCtx(tc.target), 20, 100)
			if offset != tc.wantOffset || limit != tc.wantLimit {
				t.Fatalf("pageParams = (%d, %d); want (%d, %d)", offset, limit, tc.wantOffset, tc.wantLimit)
			}
		})
	}
}

func TestRequestedOrderFoldsDuplicates(t *testing.T) {
	m, ok := requestedOrder([]orderItem{
		{ProductID: 1, Count: 2},
		{ProductID: 2, Count: 1},
		{ProductID: 1, Count: 3},
	})
	if !ok {
		t.Fatal("expected valid order")
	}
	if m[1] != 5 || m[2] != 1 {
		t.Fatalf("unexpected fold result %v", m)
	}

	if m, ok := requestedOrder(nil); !ok || m != nil {
		t.Fatalf("empty order should be valid and nil, got %v %v", m, ok)
	}
	if _, ok := requestedOrder([]orderItem{{ProductID: 0, Count: 1}}); ok {
		t.Fatal("zero product id should be rejected")
	}
	if _, ok := requestedOrder([]orderItem{{ProductID: 1, Count: 0}}); ok {
		t.Fatal("non-positive count should be rejected")
	}
}
