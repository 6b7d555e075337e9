package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// ProductRepo is the read-only catalog gateway for menu products.
type ProductRepo struct {
	db *sql.DB
}

// NewProductRepo returns a ProductRepo bound to the given database.
func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{db: db} }

// PricedProduct carries the subset of a product the pricing step
// needs: its id and current unit price.
type PricedProduct struct {
	ID    uint64
	Price int
}

// GetPricedByIDs resolves the requested product ids scoped to one
// restaurant. Ids that do not exist, are inactive or belong to a
// different restaurant are simply absent from the result; the caller
// treats missing rows as dropped line items, never as an error.
func (r *ProductRepo) GetPricedByIDs(ctx context.Context, ids []uint64, restaurantID uint64) ([]PricedProduct, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, 0, len(ids)+1)
	for _, id := range ids {
		args = append(args, id)
	}
	args = append(args, restaurantID)

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, price FROM products WHERE id IN (`+placeholders+`) AND restaurant_id = ? AND is_active = 1`,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]PricedProduct, 0, len(ids))
	for rows.Next() {
		var p PricedProduct
		if err := rows.Scan(&p.ID, &p.Price); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListByRestaurant returns the active products of a restaurant for
// the public browse endpoints.
func (r *ProductRepo) ListByRestaurant(ctx context.Context, restaurantID uint64) ([]model.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, restaurant_id, name, price, is_active FROM products WHERE restaurant_id = ? AND is_active = 1 ORDER BY id`,
		restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.RestaurantID, &p.Name, &p.Price, &p.IsActive); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
