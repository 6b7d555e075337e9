package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

func strp(s string) *string { return &s }

func TestNoteTooLongCountsCharacters(t *testing.T) {
	cases := []struct {
		name string
		note *string
		want bool
	}{
		{"nil note", nil, false},
		{"exactly at limit", strp(strings.Repeat("a", 500)), false},
		{"one over limit", strp(strings.Repeat("a", 501)), true},
		{"multibyte at limit", strp(strings.Repeat("é", 500)), false},
		{"multibyte over limit", strp(strings.Repeat("é", 501)), true},
		{"surrounding whitespace trimmed", strp("  " + strings.Repeat("a", 500) + "  "), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := noteTooLong(tc.note); got != tc.want {
				t.Fatalf("noteTooLong = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEditRejection(t *testing.T) {
	for _, s := range []model.ReservationStatus{
		model.StatusCancelledByUser,
		model.StatusAccepted,
		model.StatusRejected,
		model.StatusCancelledByUserAfterAcceptance,
		model.StatusCancelledByAgentAfterAcceptance,
		model.StatusDone,
	} {
		if code := editRejection(s); code != http.StatusBadRequest {
			t.Fatalf("editRejection(%v) = %d, want %d", s, code, http.StatusBadRequest)
		}
	}
	if code := editRejection(model.StatusWaitingForAcceptance); code != 0 {
		t.Fatalf("editRejection(waiting) = %d, want 0", code)
	}
}

func TestCancelAlertsAgentOnlyFromAccepted(t *testing.T) {
	for _, s := range []model.ReservationStatus{
		model.StatusWaitingForAcceptance,
		model.StatusCancelledByUser,
		model.StatusRejected,
		model.StatusCancelledByUserAfterAcceptance,
		model.StatusCancelledByAgentAfterAcceptance,
		model.StatusDone,
	} {
		if cancelAlertsAgent(s) {
			t.Fatalf("cancelAlertsAgent(%v) = true, want false", s)
		}
	}
	if !cancelAlertsAgent(model.StatusAccepted) {
		t.Fatal("cancelAlertsAgent(accepted) = false, want true")
	}
}
