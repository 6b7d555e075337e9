package model

import "testing"

func allStatuses() []ReservationStatus {
	return []ReservationStatus{
		StatusWaitingForAcceptance,
		StatusCancelledByUser,
		StatusAccepted,
		StatusRejected,
		StatusCancelledByUserAfterAcceptance,
		StatusCancelledByAgentAfterAcceptance,
		StatusDone,
	}
}

func TestTransitionTable(t *testing.T) {
	cases := []struct {
		name  string
		apply func(ReservationStatus) (ReservationStatus, error)
		// expected maps every allowed source state to its target;
		// all other states must yield ErrInvalidTransition.
		expected map[ReservationStatus]ReservationStatus
	}{
		{
			name:  "customer cancel",
			apply: NextOnCustomerCancel,
			expected: map[ReservationStatus]ReservationStatus{
				StatusWaitingForAcceptance: StatusCancelledByUser,
				StatusAccepted:             StatusCancelledByUserAfterAcceptance,
			},
		},
		{
			name:  "agent accept",
			apply: NextOnAccept,
			expected: map[ReservationStatus]ReservationStatus{
				StatusWaitingForAcceptance: StatusAccepted,
			},
		},
		{
			name:  "agent reject",
			apply: NextOnReject,
			expected: map[ReservationStatus]ReservationStatus{
				StatusWaitingForAcceptance: StatusRejected,
			},
		},
		{
			name:  "agent cancel",
			apply: NextOnAgentCancel,
			expected: map[ReservationStatus]ReservationStatus{
				StatusAccepted: StatusCancelledByAgentAfterAcceptance,
			},
		},
		{
			name:  "agent complete",
			apply: NextOnComplete,
			expected: map[ReservationStatus]ReservationStatus{
				StatusAccepted: StatusDone,
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, from := range allStatuses() {
				got, err := tc.apply(from)
				want, allowed := tc.expected[from]
				if allowed {
					if err != nil {
						t.Fatalf("from %v: unexpected error %v", from, err)
					}
					if got != want {
						t.Fatalf("from %v: expected %v, got %v", from, want, got)
					}
					continue
				}
				if err != ErrInvalidTransition {
					t.Fatalf("from %v: expected ErrInvalidTransition, got status=%v err=%v", from, got, err)
				}
				if got != from {
					t.Fatalf("from %v: status must stay unchanged on rejection, got %v", from, got)
				}
			}
		})
	}
}

func TestAgentCategoryStatuses(t *testing.T) {
	cases := []struct {
		name     string
		category AgentCategory
		expected []ReservationStatus
	}{
		{name: "waiting", category: CategoryWaitingForAcceptance, expected: []ReservationStatus{StatusWaitingForAcceptance}},
		{name: "accepted", category: CategoryAccepted, expected: []ReservationStatus{StatusAccepted}},
		{name: "done", category: CategoryDone, expected: []ReservationStatus{StatusDone}},
		{name: "rejected unions agent cancellations", category: CategoryRejected, expected: []ReservationStatus{StatusRejected, StatusCancelledByAgentAfterAcceptance}},
		{name: "cancelled by user", category: CategoryCancelledByUser, expected: []ReservationStatus{StatusCancelledByUserAfterAcceptance}},
		{name: "unknown falls back to accepted", category: AgentCategory(42), expected: []ReservationStatus{StatusAccepted}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.category.Statuses()
			if len(got) != len(tc.expected) {
				t.Fatalf("expected %v, got %v", tc.expected, got)
			}
			for i := range got {
				if got[i] != tc.expected[i] {
					t.Fatalf("expected %v, got %v", tc.expected, got)
				}
			}
		})
	}
}

func TestAgentVisibleStatuses(t *testing.T) {
	visible := make(map[ReservationStatus]bool)
	for _, s := range AgentVisibleStatuses() {
		if visible[s] {
			t.Fatalf("status %v listed twice", s)
		}
		visible[s] = true
	}
	for _, s := range allStatuses() {
		if s == StatusCancelledByUser {
			if visible[s] {
				t.Fatal("pre-acceptance customer cancellations must stay hidden from agents")
			}
			continue
		}
		if !visible[s] {
			t.Fatalf("status %v missing from agent view", s)
		}
	}
}

func TestStatusString(t *testing.T) {
	for _, s := range allStatuses() {
		if s.String() == "Unknown" {
			t.Fatalf("status %d has no name", int(s))
		}
		if !s.Valid() {
			t.Fatalf("status %d should be valid", int(s))
		}
	}
	if ReservationStatus(7).Valid() {
		t.Fatal("status 7 should be invalid")
	}
}
