package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// ReservationRepo persists reservations and their product line items.
// All timestamps are stored in UTC. Updates are guarded by an
// explicit row_version column: every successful save increments it,
// and a save whose WHERE clause matches no row reports ErrConflict so
// the caller can re-fetch and classify the race.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// that span the reservation save and the loyalty point update.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationColumns = `id, user_id, restaurant_id, created_at, reservation_at,
       sum_price, table_number, people_count, note, status, is_active, row_version`

func scanReservation(scan func(dest ...interface{}) error) (*model.Reservation, error) {
	var (
		res      model.Reservation
		sumPrice sql.NullInt64
		tableNum sql.NullInt64
		people   sql.NullInt64
		note     sql.NullString
	)
	err := scan(
		&res.ID, &res.UserID, &res.RestaurantID, &res.CreatedAt, &res.ReservationAt,
		&sumPrice, &tableNum, &people, &note, &res.Status, &res.IsActive, &res.RowVersion,
	)
	if err != nil {
		return nil, err
	}
	if sumPrice.Valid {
		v := int(sumPrice.Int64)
		res.SumPrice = &v
	}
	if tableNum.Valid {
		v := int(tableNum.Int64)
		res.TableNumber = &v
	}
	if people.Valid {
		v := int(people.Int64)
		res.PeopleCount = &v
	}
	if note.Valid {
		v := note.String
		res.Note = &v
	}
	return &res, nil
}

// Create inserts a reservation and its line items in one transaction.
// The generated id, creation time and initial row version are written
// back onto the entity. A broken restaurant or customer reference is
// reported as ErrInvalidRef.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation, items []model.ReservationProduct) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res.CreatedAt = time.Now().UTC()
	res.IsActive = true
	res.RowVersion = 1
	result, err := tx.ExecContext(ctx,
		`INSERT INTO reservations
		   (user_id, restaurant_id, created_at, reservation_at, sum_price, table_number, people_count, note, status, is_active, row_version)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1, 1)`,
		res.UserID, res.RestaurantID, res.CreatedAt, res.ReservationAt,
		res.SumPrice, res.TableNumber, res.PeopleCount, res.Note, res.Status)
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
	res.ID = uint64(id)

	if err := insertProductsTx(ctx, tx, res.ID, items); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID fetches one reservation without resolving its parties.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id)
	res, err := scanReservation(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return res, err
}

// Parties bundles a reservation with its owning restaurant, the
// customer who made it and the restaurant's agent. Transitions load
// this once and use whichever party the side effects need.
type Parties struct {
	Reservation model.Reservation
	Restaurant  model.Restaurant
	Customer    model.User
	Agent       *model.User
}

// GetWithParties fetches a reservation together with its restaurant,
// customer and the restaurant's agent. The agent join is left outer:
// a venue without a wired agent account yields a nil Agent, which the
// notification path treats as "nobody to notify".
func (r *ReservationRepo) GetWithParties(ctx context.Context, id uint64) (*Parties, error) {
	const q = `SELECT r.id, r.user_id, r.restaurant_id, r.created_at, r.reservation_at,
	                  r.sum_price, r.table_number, r.people_count, r.note, r.status, r.is_active, r.row_version,
	                  rest.id, rest.name_hy, rest.name_en, rest.name_ru, rest.agent_id, rest.is_open_24,
	                  rest.opening_minute, rest.closing_minute, rest.additional_opening_minute, rest.additional_closing_minute,
	                  rest.table_count, rest.is_active,
	                  cust.id, cust.email, cust.role, cust.points,
	                  cust.device_token_android, cust.device_token_ios, cust.device_token_web, cust.is_active,
	                  ag.id, ag.email, ag.device_token_android, ag.device_token_ios, ag.device_token_web, ag.is_active
	           FROM reservations r
	           JOIN restaurants rest ON rest.id = r.restaurant_id
	           JOIN users cust ON cust.id = r.user_id
	           LEFT JOIN users ag ON ag.id = rest.agent_id
	           WHERE r.id = ?`

	var (
		p        Parties
		sumPrice sql.NullInt64
		tableNum sql.NullInt64
		people   sql.NullInt64
		note     sql.NullString

		custAndroid, custIOS, custWeb sql.NullString
		agID                          sql.NullInt64
		agEmail                       sql.NullString
		agAndroid, agIOS, agWeb       sql.NullString
		agActive                      sql.NullBool
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&p.Reservation.ID, &p.Reservation.UserID, &p.Reservation.RestaurantID,
		&p.Reservation.CreatedAt, &p.Reservation.ReservationAt,
		&sumPrice, &tableNum, &people, &note,
		&p.Reservation.Status, &p.Reservation.IsActive, &p.Reservation.RowVersion,
		&p.Restaurant.ID, &p.Restaurant.NameHy, &p.Restaurant.NameEn, &p.Restaurant.NameRu,
		&p.Restaurant.AgentID, &p.Restaurant.IsOpen24,
		&p.Restaurant.OpeningMinute, &p.Restaurant.ClosingMinute,
		&p.Restaurant.AdditionalOpeningMinute, &p.Restaurant.AdditionalClosingMinute,
		&p.Restaurant.TableCount, &p.Restaurant.IsActive,
		&p.Customer.ID, &p.Customer.Email, &p.Customer.Role, &p.Customer.Points,
		&custAndroid, &custIOS, &custWeb, &p.Customer.IsActive,
		&agID, &agEmail, &agAndroid, &agIOS, &agWeb, &agActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if sumPrice.Valid {
		v := int(sumPrice.Int64)
		p.Reservation.SumPrice = &v
	}
	if tableNum.Valid {
		v := int(tableNum.Int64)
		p.Reservation.TableNumber = &v
	}
	if people.Valid {
		v := int(people.Int64)
		p.Reservation.PeopleCount = &v
	}
	if note.Valid {
		v := note.String
		p.Reservation.Note = &v
	}
	p.Customer.DeviceTokenAndroid = nullStr(custAndroid)
	p.Customer.DeviceTokenIOS = nullStr(custIOS)
	p.Customer.DeviceTokenWeb = nullStr(custWeb)
	if agID.Valid {
		p.Agent = &model.User{
			ID:                 uint64(agID.Int64),
			Email:              agEmail.String,
			Role:               model.RoleAgent,
			DeviceTokenAndroid: nullStr(agAndroid),
			DeviceTokenIOS:     nullStr(agIOS),
			DeviceTokenWeb:     nullStr(agWeb),
			IsActive:           agActive.Bool,
		}
	}
	return &p, nil
}

func nullStr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

// ListProducts returns the line items of one reservation.
func (r *ReservationRepo) ListProducts(ctx context.Context, reservationID uint64) ([]model.ReservationProduct, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT reservation_id, product_id, count, price FROM reservation_products WHERE reservation_id = ? ORDER BY product_id`,
		reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ReservationProduct
	for rows.Next() {
		var it model.ReservationProduct
		if err := rows.Scan(&it.ReservationID, &it.ProductID, &it.Count, &it.Price); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// ListByCustomer returns a page of the customer's active reservations,
// newest first, optionally filtered to one status.
func (r *ReservationRepo) ListByCustomer(ctx context.Context, userID uint64, status *model.ReservationStatus, offset, limit int) ([]model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations WHERE user_id = ? AND is_active = 1`
	args := []interface{}{userID}
	if status != nil {
		q += ` AND status = ?`
		args = append(args, *status)
	}
	q += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)
	return r.list(ctx, q, args...)
}

// CountByCustomer returns how many active reservations the customer has.
func (r *ReservationRepo) CountByCustomer(ctx context.Context, userID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations WHERE user_id = ? AND is_active = 1`, userID).Scan(&n)
	return n, err
}

// ListByRestaurant returns a page of a restaurant's reservations in
// the given statuses, ordered by creation time ascending so agents
// work through requests in arrival order.
func (r *ReservationRepo) ListByRestaurant(ctx context.Context, restaurantID uint64, statuses []model.ReservationStatus, offset, limit int) ([]model.Reservation, error) {
	q, args := byRestaurantQuery(`SELECT `+reservationColumns+` FROM reservations`, restaurantID, statuses)
	q += ` ORDER BY created_at ASC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)
	return r.list(ctx, q, args...)
}

// ListByRestaurantAll returns a page of a restaurant's reservations
// across every agent-visible status, ordered by creation time
// ascending. Pre-acceptance customer cancellations are excluded.
func (r *ReservationRepo) ListByRestaurantAll(ctx context.Context, restaurantID uint64, offset, limit int) ([]model.Reservation, error) {
	return r.ListByRestaurant(ctx, restaurantID, model.AgentVisibleStatuses(), offset, limit)
}

// CountByRestaurant counts a restaurant's reservations in the given statuses.
func (r *ReservationRepo) CountByRestaurant(ctx context.Context, restaurantID uint64, statuses []model.ReservationStatus) (int, error) {
	q, args := byRestaurantQuery(`SELECT COUNT(*) FROM reservations`, restaurantID, statuses)
	var n int
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&n)
	return n, err
}

func byRestaurantQuery(prefix string, restaurantID uint64, statuses []model.ReservationStatus) (string, []interface{}) {
	q := prefix + ` WHERE restaurant_id = ? AND is_active = 1`
	args := []interface{}{restaurantID}
	if len(statuses) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(statuses)), ",")
		q += ` AND status IN (` + placeholders + `)`
		for _, s := range statuses {
			args = append(args, s)
		}
	}
	return q, args
}

func (r *ReservationRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Reservation
	for rows.Next() {
		res, err := scanReservation(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

const saveQuery = `UPDATE reservations
	 SET reservation_at = ?, sum_price = ?, table_number = ?, people_count = ?, note = ?,
	     status = ?, row_version = row_version + 1
	 WHERE id = ? AND row_version = ? AND is_active = 1`

// Save writes the reservation back with a compare-and-swap on
// row_version. When the row changed since the read (or was
// deactivated meanwhile) no row matches and ErrConflict is returned;
// on success the entity's RowVersion is advanced.
func (r *ReservationRepo) Save(ctx context.Context, res *model.Reservation) error {
	result, err := r.db.ExecContext(ctx, saveQuery,
		res.ReservationAt, res.SumPrice, res.TableNumber, res.PeopleCount, res.Note,
		res.Status, res.ID, res.RowVersion)
	return finishSave(res, result, err)
}

// SaveTx is Save inside an existing transaction, used when the status
// change and a loyalty point mutation must commit together.
func (r *ReservationRepo) SaveTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	result, err := tx.ExecContext(ctx, saveQuery,
		res.ReservationAt, res.SumPrice, res.TableNumber, res.PeopleCount, res.Note,
		res.Status, res.ID, res.RowVersion)
	return finishSave(res, result, err)
}

func finishSave(res *model.Reservation, result sql.Result, err error) error {
	if err != nil {
		if isFKViolation(err) {
			return ErrInvalidRef
		}
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	res.RowVersion++
	return nil
}

// ReplaceProductsTx deletes and rewrites a reservation's line items.
// Edits replace the order wholesale; there is no partial patch.
func (r *ReservationRepo) ReplaceProductsTx(ctx context.Context, tx *sql.Tx, reservationID uint64, items []model.ReservationProduct) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM reservation_products WHERE reservation_id = ?`, reservationID); err != nil {
		return err
	}
	return insertProductsTx(ctx, tx, reservationID, items)
}

func insertProductsTx(ctx context.Context, tx *sql.Tx, reservationID uint64, items []model.ReservationProduct) error {
	if len(items) == 0 {
		return nil
	}
	q := `INSERT INTO reservation_products (reservation_id, product_id, count, price) VALUES `
	args := make([]interface{}, 0, len(items)*4)
	for i, it := range items {
		if i > 0 {
			q += ","
		}
		q += "(?, ?, ?, ?)"
		args = append(args, reservationID, it.ProductID, it.Count, it.Price)
	}
	_, err := tx.ExecContext(ctx, q, args...)
	if err != nil && isFKViolation(err) {
		return ErrInvalidRef
	}
	return err
}

// Deactivate flips the soft-delete flag with the same row_version
// guard as Save. The row and its line items are preserved for points
// accounting and audit.
func (r *ReservationRepo) Deactivate(ctx context.Context, id uint64, rowVersion int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE reservations SET is_active = 0, row_version = row_version + 1
		 WHERE id = ? AND row_version = ? AND is_active = 1`,
		id, rowVersion)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// Exists reports whether an active reservation row is present.
func (r *ReservationRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM reservations WHERE id = ? AND is_active = 1`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// ExistsInStatus reports whether an active reservation is still in
// the given state. After a lost save race the handlers use this to
// decide between "precondition gone, report not found" and a genuine
// retry-able conflict.
func (r *ReservationRepo) ExistsInStatus(ctx context.Context, id uint64, status model.ReservationStatus) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM reservations WHERE id = ? AND status = ? AND is_active = 1`, id, status).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// isFKViolation matches MySQL error 1452 (foreign key constraint fails).
func isFKViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1452")
}
