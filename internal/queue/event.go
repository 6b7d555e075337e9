// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationStatusEvent is published on every reservation lifecycle
// transition. It carries enough information for downstream consumers to
// log, notify, or trigger analytics without querying the primary database.
type ReservationStatusEvent struct {
	ReservationID  uint64  `json:"reservation_id"`
	UserID         uint64  `json:"user_id"`
	RestaurantID   uint64  `json:"restaurant_id"`
	RestaurantName string  `json:"restaurant_name"`
	ReservationAt  string  `json:"reservation_at"`
	Status         int     `json:"status"`
	StatusName     string  `json:"status_name"`
	SumPrice       *int    `json:"sum_price"`
	TableNumber    *int    `json:"table_number"`
	PeopleCount    *int    `json:"people_count"`
	Actor          string  `json:"actor"` // "customer" or "agent"
	ChangedAt      string  `json:"changed_at"`
}
