package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

type fakeSender struct {
	calls  int
	tokens []string
	data   interface{}
	ttl    int64
	err    error
}

func (f *fakeSender) Send(_ context.Context, tokens []string, data interface{}, ttl int64) error {
	f.calls++
	f.tokens = tokens
	f.data = data
	f.ttl = ttl
	return f.err
}

func strPtr(s string) *string { return &s }

func TestDispatcherSkipsUnreachableRecipients(t *testing.T) {
	res := &model.Reservation{ID: 1, ReservationAt: time.Now().Add(2 * time.Hour)}

	cases := []struct {
		name  string
		agent *model.User
	}{
		{"nil recipient", nil},
		{"inactive recipient", &model.User{IsActive: false, DeviceTokenAndroid: strPtr("tok")}},
		{"no tokens", &model.User{IsActive: true}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fs := &fakeSender{}
			d := NewDispatcher(fs)
			d.NotifyReservationPlaced(context.Background(), tc.agent, res)
			if fs.calls != 0 {
				t.Fatalf("expected no send, got %d", fs.calls)
			}
		})
	}
}

func TestDispatcherTTLIsSignedSecondsUntilReservation(t *testing.T) {
	now := time.Date(2024, 6, 12, 12, 0, 0, 0, time.UTC)
	d := NewDispatcher(&fakeSender{})
	d.Now = func() time.Time { return now }

	if got := d.TTLSeconds(now.Add(90 * time.Minute)); got != 5400 {
		t.Fatalf("future ttl = %d, want 5400", got)
	}
	if got := d.TTLSeconds(now.Add(-10 * time.Minute)); got != -600 {
		t.Fatalf("past ttl = %d, want -600", got)
	}
}

func TestNotifyReservationPlacedPayloadAndTokens(t *testing.T) {
	fs := &fakeSender{}
	d := NewDispatcher(fs)

	table := 4
	agent := &model.User{
		IsActive:           true,
		DeviceTokenAndroid: strPtr("and"),
		DeviceTokenWeb:     strPtr("web"),
	}
	res := &model.Reservation{
		ID:            77,
		ReservationAt: time.Now().Add(3 * time.Hour),
		TableNumber:   &table,
		Status:        model.StatusWaitingForAcceptance,
	}
	d.NotifyReservationPlaced(context.Background(), agent, res)

	if fs.calls != 1 {
		t.Fatalf("expected one send, got %d", fs.calls)
	}
	if len(fs.tokens) != 2 || fs.tokens[0] != "and" || fs.tokens[1] != "web" {
		t.Fatalf("unexpected tokens %v", fs.tokens)
	}
	p, ok := fs.data.(ReservationPlacedPayload)
	if !ok {
		t.Fatalf("unexpected payload type %T", fs.data)
	}
	if p.ReservationID != 77 || p.TableNumber == nil || *p.TableNumber != 4 {
		t.Fatalf("unexpected payload %+v", p)
	}
}

func TestNotifyStatusChangedCarriesAllNames(t *testing.T) {
	fs := &fakeSender{}
	d := NewDispatcher(fs)

	customer := &model.User{IsActive: true, DeviceTokenIOS: strPtr("ios")}
	res := &model.Reservation{ID: 5, ReservationAt: time.Now().Add(time.Hour), Status: model.StatusAccepted}
	rest := &model.Restaurant{NameHy: "hy", NameEn: "en", NameRu: "ru"}

	d.NotifyStatusChanged(context.Background(), customer, res, rest)

	p, ok := fs.data.(StatusChangedPayload)
	if !ok {
		t.Fatalf("unexpected payload type %T", fs.data)
	}
	if p.NameHy != "hy" || p.NameEn != "en" || p.NameRu != "ru" || p.Status != model.StatusAccepted {
		t.Fatalf("unexpected payload %+v", p)
	}
}

func TestDispatcherSwallowsSenderErrors(t *testing.T) {
	fs := &fakeSender{err: context.DeadlineExceeded}
	d := NewDispatcher(fs)
	agent := &model.User{IsActive: true, DeviceTokenAndroid: strPtr("tok")}
	res := &model.Reservation{ID: 9, ReservationAt: time.Now()}

	// Must not panic or surface the error in any way.
	d.NotifyReservationPlaced(context.Background(), agent, res)
	if fs.calls != 1 {
		t.Fatalf("expected send attempt, got %d", fs.calls)
	}
}

func TestFCMSenderPostsLegacyEnvelope(t *testing.T) {
	var got map[string]interface{}
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewFCMSender(srv.URL, "secret-key")
	err := s.Send(context.Background(), []string{"a", "b"}, map[string]string{"k": "v"}, 120)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if auth != "key=secret-key" {
		t.Fatalf("auth header = %q", auth)
	}
	ids, ok := got["registration_ids"].([]interface{})
	if !ok || len(ids) != 2 {
		t.Fatalf("registration_ids = %v", got["registration_ids"])
	}
	if ttl, _ := got["time_to_live"].(float64); ttl != 120 {
		t.Fatalf("time_to_live = %v", got["time_to_live"])
	}
}

func TestFCMSenderRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	s := NewFCMSender(srv.URL, "bad")
	if err := s.Send(context.Background(), []string{"a"}, nil, 0); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
