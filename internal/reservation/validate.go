// Package reservation holds the pure validation and pricing rules of
// the reservation core. Nothing here touches the database or the
// clock; callers pass the catalog rows and the current time in, which
// keeps every rule unit-testable.
package reservation

import (
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// MinLeadTime is how far in the future a reservation must be
// requested. Last-minute and past bookings are rejected.
const MinLeadTime = time.Hour

// BookingDeadlineDays caps how far ahead a table can be booked.
const BookingDeadlineDays = 7

// ValidTime reports whether the requested date-time is bookable at the
// restaurant. Both when and now are compared in UTC.
//
// Rules, in order:
//  1. when must be more than MinLeadTime after now.
//  2. when must not be past now plus BookingDeadlineDays.
//  3. A 24-hour venue accepts any time of day.
//  4. Otherwise the time of day must fall strictly between the
//     opening and closing pair for the weekday, where Saturday and
//     Sunday select the "additional" weekend pair.
func ValidTime(rest *model.Restaurant, when, now time.Time) bool {
	when = when.UTC()
	now = now.UTC()

	if when.Sub(now) < MinLeadTime {
		return false
	}
	if when.After(now.AddDate(0, 0, BookingDeadlineDays)) {
		return false
	}
	if rest.IsOpen24 {
		return true
	}

	wd := when.Weekday()
	weekend := wd == time.Saturday || wd == time.Sunday
	opening := rest.OpeningMinute
	closing := rest.ClosingMinute
	if weekend {
		opening = rest.AdditionalOpeningMinute
		closing = rest.AdditionalClosingMinute
	}

	minute := when.Hour()*60 + when.Minute()
	return minute > opening && minute < closing
}

// TableInRange reports whether a requested table number exists at a
// restaurant with the given table count. Table numbers are 1-based.
func TableInRange(tableNumber, tableCount int) bool {
	return tableNumber >= 1 && tableNumber <= tableCount
}

// MaxNoteLength bounds the free-text note a customer may attach.
const MaxNoteLength = 500
