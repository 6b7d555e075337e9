package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// ExternalReservationRepo persists agent-entered walk-in table blocks.
// These have no lifecycle and no version column; they are created and
// deleted directly.
type ExternalReservationRepo struct {
	db *sql.DB
}

// NewExternalReservationRepo returns a repo bound to the given database.
func NewExternalReservationRepo(db *sql.DB) *ExternalReservationRepo {
	return &ExternalReservationRepo{db: db}
}

// Create inserts a walk-in block and writes the generated id back.
func (r *ExternalReservationRepo) Create(ctx context.Context, ext *model.ExternalReservation) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO external_reservations (restaurant_id, table_number, people_count, reservation_at)
		 VALUES (?, ?, ?, ?)`,
		ext.RestaurantID, ext.TableNumber, ext.PeopleCount, ext.ReservationAt.UTC())
	if err != nil {
		if isFKViolation(err) {
			return ErrInvalidRef
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	ext.ID = uint64(id)
	return nil
}

// GetByID fetches one walk-in block.
func (r *ExternalReservationRepo) GetByID(ctx context.Context, id uint64) (*model.ExternalReservation, error) {
	var (
		ext      model.ExternalReservation
		tableNum sql.NullInt64
		people   sql.NullInt64
		at       time.Time
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, restaurant_id, table_number, people_count, reservation_at FROM external_reservations WHERE id = ?`,
		id).Scan(&ext.ID, &ext.RestaurantID, &tableNum, &people, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if tableNum.Valid {
		v := int(tableNum.Int64)
		ext.TableNumber = &v
	}
	if people.Valid {
		v := int(people.Int64)
		ext.PeopleCount = &v
	}
	ext.ReservationAt = at
	return &ext, nil
}

// ListByRestaurant returns all walk-in blocks of a restaurant ordered
// by their date.
func (r *ExternalReservationRepo) ListByRestaurant(ctx context.Context, restaurantID uint64) ([]model.ExternalReservation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, restaurant_id, table_number, people_count, reservation_at
		 FROM external_reservations WHERE restaurant_id = ? ORDER BY reservation_at`,
		restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ExternalReservation
	for rows.Next() {
		var (
			ext      model.ExternalReservation
			tableNum sql.NullInt64
			people   sql.NullInt64
		)
		if err := rows.Scan(&ext.ID, &ext.RestaurantID, &tableNum, &people, &ext.ReservationAt); err != nil {
			return nil, err
		}
		if tableNum.Valid {
			v := int(tableNum.Int64)
			ext.TableNumber = &v
		}
		if people.Valid {
			v := int(people.Int64)
			ext.PeopleCount = &v
		}
		out = append(out, ext)
	}
	return out, rows.Err()
}

// Delete removes a walk-in block. Deleting an already removed row
// reports ErrNotFound.
func (r *ExternalReservationRepo) Delete(ctx context.Context, id uint64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM external_reservations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
