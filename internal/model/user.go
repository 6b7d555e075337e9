package model

import "time"

// User represents a row in the `users` table. Customers and agents
// share the table; agents carry the restaurant they act for. Points
// is the loyalty balance mutated by the reservation lifecycle
// (completion awards, post-acceptance cancellation penalties). The
// three device token columns hold push delivery endpoints per
// platform; any of them may be null.
//
// Fields:
//  ID               – primary key identifier.
//  Email            – unique email address.
//  PasswordHash     – bcrypt hashed password.
//  Role             – CUSTOMER or AGENT.
//  RestaurantID     – restaurant an agent acts for (null for customers).
//  Points           – loyalty point balance.
//  DeviceTokenAndroid, DeviceTokenIOS, DeviceTokenWeb – push tokens (nullable).
//  IsActive         – whether the account is active.
//  CreatedAt        – timestamp of creation.
//  UpdatedAt        – timestamp of last update.
type User struct {
	ID                 uint64    // users.id
	Email              string    // users.email
	PasswordHash       string    // users.password_hash
	Role               string    // users.role
	RestaurantID       *uint64   // users.restaurant_id (nullable)
	Points             int       // users.points
	DeviceTokenAndroid *string   // users.device_token_android (nullable)
	DeviceTokenIOS     *string   // users.device_token_ios (nullable)
	DeviceTokenWeb     *string   // users.device_token_web (nullable)
	IsActive           bool      // users.is_active
	CreatedAt          time.Time // users.created_at
	UpdatedAt          time.Time // users.updated_at
}

// Application roles as stored in users.role and carried in the JWT
// "role" claim.
const (
	RoleCustomer = "CUSTOMER"
	RoleAgent    = "AGENT"
)

// Loyalty point deltas applied by the reservation lifecycle.
// Registration and profile-completion bonuses live in the account
// flows; the lifecycle engine only applies the last two.
const (
	PointsRegistration      = 300
	PointsProfileData       = 200
	PointsReservationDone   = 750
	PointsCancelReservation = -300
)

// DeviceTokens returns the user's registered push delivery tokens in
// platform preference order (android, ios, web), skipping nulls. An
// empty slice means the user cannot be notified.
func (u *User) DeviceTokens() []string {
	tokens := make([]string, 0, 3)
	if u.DeviceTokenAndroid != nil {
		tokens = append(tokens, *u.DeviceTokenAndroid)
	}
	if u.DeviceTokenIOS != nil {
		tokens = append(tokens, *u.DeviceTokenIOS)
	}
	if u.DeviceTokenWeb != nil {
		tokens = append(tokens, *u.DeviceTokenWeb)
	}
	return tokens
}
