package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("chdir back: %v", err)
		}
	})
}

func TestHandleMessageAppendsAuditLine(t *testing.T) {
	chdir(t, t.TempDir())

	sum := 4200
	table := 3
	ev := ReservationStatusEvent{
		ReservationID:  17,
		UserID:         4,
		RestaurantID:   2,
		RestaurantName: "Ttenik",
		ReservationAt:  "2026-09-01T19:00:00Z",
		Status:         2,
		StatusName:     "Accepted",
		SumPrice:       &sum,
		TableNumber:    &table,
		Actor:          "agent",
		ChangedAt:      "2026-08-31T10:00:00Z",
	}
	body, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := handleMessage(body); err != nil {
		t.Fatalf("handle: %v", err)
	}

	data, err := os.ReadFile(filepath.Join("logs", "reservations.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(data)
	for _, want := range []string{"Accepted", "reservation_id=17", `restaurant="Ttenik"`, "sum=4200", "table=3", "actor=agent"} {
		if !strings.Contains(line, want) {
			t.Fatalf("log line missing %q: %s", want, line)
		}
	}
}

func TestHandleMessageRejectsBadPayload(t *testing.T) {
	chdir(t, t.TempDir())
	if err := handleMessage([]byte("{not json")); err == nil {
		t.Fatal("expected unmarshal error")
	}
}

func TestHandleMessageOmitsMissingOptionals(t *testing.T) {
	chdir(t, t.TempDir())
	body, _ := json.Marshal(ReservationStatusEvent{ReservationID: 1, StatusName: "Rejected"})
	if err := handleMessage(body); err != nil {
		t.Fatalf("handle: %v", err)
	}
	data, _ := os.ReadFile(filepath.Join("logs", "reservations.log"))
	if !strings.Contains(string(data), "sum=n/a") || !strings.Contains(string(data), "table=n/a") {
		t.Fatalf("expected n/a placeholders: %s", data)
	}
}
