package model

import "time"

// Reservation records a customer's request for a table at a
// restaurant. It carries the requested date and time, an optional
// table number and headcount, an optional note to the staff and the
// pre-ordered products priced at request time. The status drives the
// acceptance lifecycle between the customer and the restaurant agent.
// RowVersion backs optimistic concurrency: every successful save
// increments it, and a save against a stale version fails.
//
// Fields:
//  ID            – primary key identifier.
//  UserID        – customer who made the reservation.
//  RestaurantID  – restaurant the table is requested at.
//  CreatedAt     – creation timestamp (UTC).
//  ReservationAt – requested date and time of the visit (UTC).
//  SumPrice      – total of pre-ordered products; nil when nothing was ordered.
//  TableNumber   – requested table, 1..restaurant.table_count (nullable).
//  PeopleCount   – expected number of guests (nullable).
//  Note          – free-text note to the restaurant, at most 500 characters.
//  Status        – lifecycle state, see ReservationStatus.
//  IsActive      – soft-delete flag; rows are never physically removed.
//  RowVersion    – optimistic concurrency counter.
type Reservation struct {
	ID            uint64            // reservations.id
	UserID        uint64            // reservations.user_id
	RestaurantID  uint64            // reservations.restaurant_id
	CreatedAt     time.Time         // reservations.created_at
	ReservationAt time.Time         // reservations.reservation_at
	SumPrice      *int              // reservations.sum_price (nullable)
	TableNumber   *int              // reservations.table_number (nullable)
	PeopleCount   *int              // reservations.people_count (nullable)
	Note          *string           // reservations.note (nullable)
	Status        ReservationStatus // reservations.status
	IsActive      bool              // reservations.is_active
	RowVersion    int               // reservations.row_version
}

// ReservationProduct is a line item of a reservation's pre-order. The
// unit price is captured when the order is placed so later catalog
// price changes never alter historical reservations. Line items are
// replaced wholesale when a reservation is edited.
//
// Fields:
//  ReservationID – owning reservation.
//  ProductID     – ordered product.
//  Count         – ordered quantity.
//  Price         – unit price snapshot taken at order time.
type ReservationProduct struct {
	ReservationID uint64 // reservation_products.reservation_id
	ProductID     uint64 // reservation_products.product_id
	Count         int    // reservation_products.count
	Price         int    // reservation_products.price
}

// ExternalReservation blocks a table slot for a walk-in guest entered
// directly by the restaurant agent. It has no lifecycle and no owning
// customer.
//
// Fields:
//  ID            – primary key identifier.
//  RestaurantID  – restaurant the block belongs to.
//  TableNumber   – blocked table (nullable).
//  PeopleCount   – party size (nullable).
//  ReservationAt – date and time of the block (UTC).
type ExternalReservation struct {
	ID            uint64    // external_reservations.id
	RestaurantID  uint64    // external_reservations.restaurant_id
	TableNumber   *int      // external_reservations.table_number (nullable)
	PeopleCount   *int      // external_reservations.people_count (nullable)
	ReservationAt time.Time // external_reservations.reservation_at
}
