package reservation

import (
	"testing"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// now is a fixed Wednesday 12:00 UTC so weekday/weekend selection is
// deterministic across test runs.
var wednesdayNoon = time.Date(2024, time.June, 12, 12, 0, 0, 0, time.UTC)

func dayRestaurant() *model.Restaurant {
	return &model.Restaurant{
		ID:                      1,
		TableCount:              10,
		OpeningMinute:           9 * 60,  // 09:00
		ClosingMinute:           23 * 60, // 23:00
		AdditionalOpeningMinute: 11 * 60, // 11:00 weekends
		AdditionalClosingMinute: 21 * 60, // 21:00 weekends
		IsActive:                true,
	}
}

func TestValidTime(t *testing.T) {
	rest := dayRestaurant()
	cases := []struct {
		name     string
		when     time.Time
		open24   bool
		expected bool
	}{
		{name: "two hours ahead within hours", when: wednesdayNoon.Add(2 * time.Hour), expected: true},
		{name: "thirty minutes ahead rejected", when: wednesdayNoon.Add(30 * time.Minute), expected: false},
		{name: "in the past rejected", when: wednesdayNoon.Add(-2 * time.Hour), expected: false},
		{name: "exactly at the deadline accepted", when: wednesdayNoon.AddDate(0, 0, 7), expected: true},
		{name: "past the seven day deadline rejected", when: wednesdayNoon.AddDate(0, 0, 7).Add(time.Minute), expected: false},
		{name: "before weekday opening rejected", when: wednesdayNoon.Add(20 * time.Hour), expected: false},            // Thursday 08:00
		{name: "after weekday closing rejected", when: wednesdayNoon.Add(11*time.Hour + 30*time.Minute), expected: false}, // 23:30
		{name: "exactly at opening rejected", when: wednesdayNoon.Add(21 * time.Hour), expected: false},                // Thursday 09:00, strict bound
		{name: "open 24 skips hours", when: wednesdayNoon.Add(20 * time.Hour), open24: true, expected: true},
		{name: "open 24 still enforces lead time", when: wednesdayNoon.Add(30 * time.Minute), open24: true, expected: false},
		{name: "saturday uses weekend hours", when: time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC), expected: false},   // before 11:00 weekend opening
		{name: "saturday inside weekend hours", when: time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC), expected: true},
		{name: "sunday uses weekend hours", when: time.Date(2024, time.June, 16, 22, 0, 0, 0, time.UTC), expected: false},     // weekday hours would allow 22:00
		{name: "sunday inside weekend hours", when: time.Date(2024, time.June, 16, 20, 0, 0, 0, time.UTC), expected: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := *rest
			r.IsOpen24 = tc.open24
			if got := ValidTime(&r, tc.when, wednesdayNoon); got != tc.expected {
				t.Fatalf("ValidTime(%v) = %v, expected %v", tc.when, got, tc.expected)
			}
		})
	}
}

func TestValidTimeIsPure(t *testing.T) {
	rest := dayRestaurant()
	when := wednesdayNoon.Add(3 * time.Hour)
	first := ValidTime(rest, when, wednesdayNoon)
	for i := 0; i < 10; i++ {
		if ValidTime(rest, when, wednesdayNoon) != first {
			t.Fatal("identical inputs produced different results")
		}
	}
}

func TestTableInRange(t *testing.T) {
	cases := []struct {
		name     string
		number   int
		count    int
		expected bool
	}{
		{name: "first table", number: 1, count: 10, expected: true},
		{name: "last table", number: 10, count: 10, expected: true},
		{name: "zero", number: 0, count: 10, expected: false},
		{name: "negative", number: -3, count: 10, expected: false},
		{name: "past capacity", number: 11, count: 10, expected: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TableInRange(tc.number, tc.count); got != tc.expected {
				t.Fatalf("TableInRange(%d, %d) = %v, expected %v", tc.number, tc.count, got, tc.expected)
			}
		})
	}
}
