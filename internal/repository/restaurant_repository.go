package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// RestaurantRepo is the read-only catalog gateway for restaurants.
// The reservation core consults opening hours, the table count and
// the wired agent account; it never writes to this table.
type RestaurantRepo struct {
	db *sql.DB
}

// NewRestaurantRepo returns a RestaurantRepo bound to the given database.
func NewRestaurantRepo(db *sql.DB) *RestaurantRepo { return &RestaurantRepo{db: db} }

const restaurantColumns = `id, name_hy, name_en, name_ru, agent_id, is_open_24,
       opening_minute, closing_minute, additional_opening_minute, additional_closing_minute,
       table_count, is_active, created_at`

func scanRestaurant(row *sql.Row) (*model.Restaurant, error) {
	var r model.Restaurant
	err := row.Scan(
		&r.ID, &r.NameHy, &r.NameEn, &r.NameRu, &r.AgentID, &r.IsOpen24,
		&r.OpeningMinute, &r.ClosingMinute, &r.AdditionalOpeningMinute, &r.AdditionalClosingMinute,
		&r.TableCount, &r.IsActive, &r.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetByID fetches one restaurant. Soft-deleted rows are returned too;
// callers that require an active venue check IsActive themselves so a
// create against a deactivated restaurant can report 400 rather
// than 404.
func (r *RestaurantRepo) GetByID(ctx context.Context, id uint64) (*model.Restaurant, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+restaurantColumns+` FROM restaurants WHERE id = ?`, id)
	return scanRestaurant(row)
}

// ListActive returns a page of active restaurants ordered by id for
// the public browse endpoints.
func (r *RestaurantRepo) ListActive(ctx context.Context, offset, limit int) ([]model.Restaurant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+restaurantColumns+` FROM restaurants WHERE is_active = 1 ORDER BY id LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Restaurant, 0, limit)
	for rows.Next() {
		var rest model.Restaurant
		if err := rows.Scan(
			&rest.ID, &rest.NameHy, &rest.NameEn, &rest.NameRu, &rest.AgentID, &rest.IsOpen24,
			&rest.OpeningMinute, &rest.ClosingMinute, &rest.AdditionalOpeningMinute, &rest.AdditionalClosingMinute,
			&rest.TableCount, &rest.IsActive, &rest.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rest)
	}
	return out, rows.Err()
}
