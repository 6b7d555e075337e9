package model

import "time"

// Restaurant is the catalog entry the reservation core consults. The
// core never mutates restaurants; it reads opening hours, the table
// count and the agent account wired to the venue. Names are stored in
// three languages and all three are returned to clients as-is.
// Opening and closing times are minutes since midnight; the
// "additional" pair applies on weekends. When IsOpen24 is set the
// time-of-day columns are ignored.
//
// Fields:
//  ID                      – primary key identifier.
//  NameHy, NameEn, NameRu  – localized display names.
//  AgentID                 – user account of the restaurant's agent.
//  IsOpen24                – venue never closes.
//  OpeningMinute           – weekday opening, minutes since midnight.
//  ClosingMinute           – weekday closing, minutes since midnight.
//  AdditionalOpeningMinute – weekend opening, minutes since midnight.
//  AdditionalClosingMinute – weekend closing, minutes since midnight.
//  TableCount              – number of tables; valid table numbers are 1..TableCount.
//  IsActive                – venue accepts reservations.
//  CreatedAt               – creation timestamp.
type Restaurant struct {
	ID                      uint64    // restaurants.id
	NameHy                  string    // restaurants.name_hy
	NameEn                  string    // restaurants.name_en
	NameRu                  string    // restaurants.name_ru
	AgentID                 uint64    // restaurants.agent_id
	IsOpen24                bool      // restaurants.is_open_24
	OpeningMinute           int       // restaurants.opening_minute
	ClosingMinute           int       // restaurants.closing_minute
	AdditionalOpeningMinute int       // restaurants.additional_opening_minute
	AdditionalClosingMinute int       // restaurants.additional_closing_minute
	TableCount              int       // restaurants.table_count
	IsActive                bool      // restaurants.is_active
	CreatedAt               time.Time // restaurants.created_at
}

// Product is a catalog menu item customers may pre-order with a
// reservation. Price is an integer amount in the restaurant's
// currency minor unit.
//
// Fields:
//  ID           – primary key identifier.
//  RestaurantID – owning restaurant.
//  Name         – display name.
//  Price        – current unit price.
//  IsActive     – product is orderable.
type Product struct {
	ID           uint64 // products.id
	RestaurantID uint64 // products.restaurant_id
	Name         string // products.name
	Price        int    // products.price
	IsActive     bool   // products.is_active
}
