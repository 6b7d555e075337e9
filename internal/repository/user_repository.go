package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/utils"
)

// UserRepo persists customer and agent accounts.
type UserRepo struct{ DB *sql.DB }

// NewUserRepo returns a UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `id, email, password_hash, role, restaurant_id, points,
       device_token_android, device_token_ios, device_token_web, is_active, created_at, updated_at`

func scanUser(scan func(dest ...interface{}) error) (model.User, error) {
	var (
		u        model.User
		restID   sql.NullInt64
		android  sql.NullString
		ios, web sql.NullString
	)
	err := scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &restID, &u.Points,
		&android, &ios, &web, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return u, err
	}
	if restID.Valid {
		v := uint64(restID.Int64)
		u.RestaurantID = &v
	}
	u.DeviceTokenAndroid = nullStr(android)
	u.DeviceTokenIOS = nullStr(ios)
	u.DeviceTokenWeb = nullStr(web)
	return u, nil
}

// Create inserts a user and returns its id. Agents pass the
// restaurant they act for; customers pass nil.
func (r *UserRepo) Create(ctx context.Context, email, password, role string, restaurantID *uint64, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	points := 0
	if role == model.RoleCustomer {
		points = model.PointsRegistration
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, role, restaurant_id, points) VALUES (?, ?, ?, ?, ?)`,
		email, hash, role, restaurantID, points)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		if isFKViolation(err) {
			return 0, ErrInvalidRef
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ? LIMIT 1`, email)
	return scanUser(row.Scan)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ? LIMIT 1`, id)
	return scanUser(row.Scan)
}

// AddPointsTx adjusts a user's loyalty balance inside the caller's
// transaction so the delta commits or rolls back together with the
// reservation status that caused it.
func (r *UserRepo) AddPointsTx(ctx context.Context, tx *sql.Tx, userID uint64, delta int) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE users SET points = points + ? WHERE id = ?`, delta, userID)
	return err
}

// UpdateDeviceTokens replaces the user's push delivery tokens. Nil
// clears a platform's token.
func (r *UserRepo) UpdateDeviceTokens(ctx context.Context, userID uint64, android, ios, web *string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE users SET device_token_android = ?, device_token_ios = ?, device_token_web = ? WHERE id = ?`,
		android, ios, web, userID)
	return err
}
