package handler

// Customer-facing reservation endpoints: placing, editing, cancelling
// and browsing reservations. Every state change is validated against
// the lifecycle rules, saved with an optimistic version check, and
// followed by fire-and-forget side effects (push notification to the
// restaurant agent and a broker event). Side effect failures never
// fail the request.

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/notify"
	"github.com/iliyamo/restaurant-table-reservation/internal/queue"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
	"github.com/iliyamo/restaurant-table-reservation/internal/reservation"
	queue_publisher "github.com/iliyamo/restaurant-table-reservation/internal/service"
)

// CustomerReservationHandler bundles the dependencies of the customer
// reservation surface.
type CustomerReservationHandler struct {
	Reservations *repository.ReservationRepo
	Restaurants  *repository.RestaurantRepo
	Products     *repository.ProductRepo
	Users        *repository.UserRepo
	Dispatcher   *notify.Dispatcher
	AMQPURL      string
}

// NewCustomerReservationHandler constructs the handler. All repositories
// must be non-nil; Dispatcher may be nil to disable push delivery.
func NewCustomerReservationHandler(res *repository.ReservationRepo, rest *repository.RestaurantRepo, prod *repository.ProductRepo, users *repository.UserRepo, d *notify.Dispatcher, amqpURL string) *CustomerReservationHandler {
	if res == nil || rest == nil || prod == nil || users == nil {
		panic("nil repository passed to NewCustomerReservationHandler")
	}
	return &CustomerReservationHandler{
		Reservations: res,
		Restaurants:  rest,
		Products:     prod,
		Users:        users,
		Dispatcher:   d,
		AMQPURL:      amqpURL,
	}
}

// ----- DTOs -----

type orderItem struct {
	ProductID uint64 `json:"product_id"`
	Count     int    `json:"count"`
}

type reservationReq struct {
	RestaurantID  uint64      `json:"restaurant_id"`
	ReservationAt time.Time   `json:"reservation_at"`
	TableNumber   *int        `json:"table_number"`
	PeopleCount   *int        `json:"people_count"`
	Note          *string     `json:"note"`
	Order         []orderItem `json:"order"`
}

type reservationItem struct {
	ID            uint64                  `json:"id"`
	RestaurantID  uint64                  `json:"restaurant_id"`
	CreatedAt     time.Time               `json:"created_at"`
	ReservationAt time.Time               `json:"reservation_at"`
	SumPrice      *int                    `json:"sum_price"`
	TableNumber   *int                    `json:"table_number"`
	PeopleCount   *int                    `json:"people_count"`
	Note          *string                 `json:"note"`
	Status        model.ReservationStatus `json:"status"`
}

type orderLine struct {
	ProductID uint64 `json:"product_id"`
	Count     int    `json:"count"`
	Price     int    `json:"price"`
}

func toItem(r *model.Reservation) reservationItem {
	return reservationItem{
		ID:            r.ID,
		RestaurantID:  r.RestaurantID,
		CreatedAt:     r.CreatedAt,
		ReservationAt: r.ReservationAt,
		SumPrice:      r.SumPrice,
		TableNumber:   r.TableNumber,
		PeopleCount:   r.PeopleCount,
		Note:          r.Note,
		Status:        r.Status,
	}
}

// noteTooLong bounds the free-text note in characters, not bytes, so
// multibyte text is not penalized.
func noteTooLong(note *string) bool {
	return note != nil && utf8.RuneCountInString(strings.TrimSpace(*note)) > reservation.MaxNoteLength
}

// editRejection maps a reservation state to the response code an edit
// attempt gets, or 0 when editing may proceed. A reservation the
// restaurant already processed makes the edit itself invalid, so the
// answer is a bad request rather than a conflict.
func editRejection(s model.ReservationStatus) int {
	if s != model.StatusWaitingForAcceptance {
		return http.StatusBadRequest
	}
	return 0
}

// cancelAlertsAgent reports whether a customer cancellation out of the
// given state is something the restaurant must hear about. Only an
// accepted reservation was ever on the agent's book.
func cancelAlertsAgent(from model.ReservationStatus) bool {
	return from == model.StatusAccepted
}

// requestedOrder folds the bound order lines into the product->count
// map pricing expects, merging duplicate lines.
func requestedOrder(items []orderItem) (map[uint64]int, bool) {
	if len(items) == 0 {
		return nil, true
	}
	m := make(map[uint64]int, len(items))
	for _, it := range items {
		if it.ProductID == 0 || it.Count <= 0 {
			return nil, false
		}
		m[it.ProductID] += it.Count
	}
	return m, true
}

// priceAgainstCatalog resolves the requested products against the
// restaurant's active catalog and prices the order.
func (h *CustomerReservationHandler) priceAgainstCatalog(ctx context.Context, restaurantID uint64, req map[uint64]int) ([]model.ReservationProduct, *int, error) {
	if len(req) == 0 {
		return nil, nil, nil
	}
	ids := make([]uint64, 0, len(req))
	for id := range req {
		ids = append(ids, id)
	}
	priced, err := h.Products.GetPricedByIDs(ctx, ids, restaurantID)
	if err != nil {
		return nil, nil, err
	}
	catalog := make([]reservation.CatalogPrice, len(priced))
	for i, p := range priced {
		catalog[i] = reservation.CatalogPrice{ProductID: p.ID, Price: p.Price}
	}
	items, sum := reservation.PriceOrder(req, catalog)
	return items, sum, nil
}

// publishStatus emits a broker event for one lifecycle change. Runs on
// the caller's goroutine; callers invoke it via go after commit.
func (h *CustomerReservationHandler) publishStatus(p *repository.Parties, actor string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = queue_publisher.PublishStatusChanged(ctx, h.AMQPURL, queue.ReservationStatusEvent{
		ReservationID:  p.Reservation.ID,
		UserID:         p.Reservation.UserID,
		RestaurantID:   p.Reservation.RestaurantID,
		RestaurantName: p.Restaurant.NameEn,
		ReservationAt:  p.Reservation.ReservationAt.UTC().Format(time.RFC3339),
		Status:         int(p.Reservation.Status),
		StatusName:     p.Reservation.Status.String(),
		SumPrice:       p.Reservation.SumPrice,
		TableNumber:    p.Reservation.TableNumber,
		PeopleCount:    p.Reservation.PeopleCount,
		Actor:          actor,
		ChangedAt:      time.Now().UTC().Format(time.RFC3339),
	})
}

// notifyAgent pushes the reservation to the restaurant's agent.
func (h *CustomerReservationHandler) notifyAgent(p *repository.Parties) {
	if h.Dispatcher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	res := p.Reservation
	h.Dispatcher.NotifyReservationPlaced(ctx, p.Agent, &res)
}

// Create handles POST /v1/reservations.
func (h *CustomerReservationHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if req.RestaurantID == 0 || req.ReservationAt.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "restaurant_id and reservation_at required"})
	}
	if noteTooLong(req.Note) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "note too long"})
	}
	order, ok := requestedOrder(req.Order)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid order"})
	}

	ctx := c.Request().Context()
	rest, err := h.Restaurants.GetByID(ctx, req.RestaurantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "unknown restaurant"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load restaurant failed"})
	}
	if !rest.IsActive {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "restaurant is not accepting reservations"})
	}
	if !reservation.ValidTime(rest, req.ReservationAt, time.Now()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid reservation time"})
	}
	if req.TableNumber != nil && !reservation.TableInRange(*req.TableNumber, rest.TableCount) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "table number out of range"})
	}

	items, sum, err := h.priceAgainstCatalog(ctx, req.RestaurantID, order)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "price order failed"})
	}

	res := &model.Reservation{
		UserID:        uid,
		RestaurantID:  req.RestaurantID,
		ReservationAt: req.ReservationAt.UTC(),
		SumPrice:      sum,
		TableNumber:   req.TableNumber,
		PeopleCount:   req.PeopleCount,
		Note:          req.Note,
		Status:        model.StatusWaitingForAcceptance,
	}
	if err := h.Reservations.Create(ctx, res, items); err != nil {
		if errors.Is(err, repository.ErrInvalidRef) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "unknown restaurant or product"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "create reservation failed"})
	}

	if p, err := h.Reservations.GetWithParties(ctx, res.ID); err == nil {
		go h.notifyAgent(p)
		go h.publishStatus(p, "customer")
	}
	return c.JSON(http.StatusCreated, toItem(res))
}

// Edit handles PUT /v1/reservations/:id. Only a reservation still
// waiting for acceptance can be edited; the edit revalidates the time
// window, reprices the order and replaces line items wholesale.
func (h *CustomerReservationHandler) Edit(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || resID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid reservation id"})
	}
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if req.ReservationAt.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "reservation_at required"})
	}
	if noteTooLong(req.Note) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "note too long"})
	}
	order, ok := requestedOrder(req.Order)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid order"})
	}

	ctx := c.Request().Context()
	p, err := h.Reservations.GetWithParties(ctx, resID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load reservation failed"})
	}
	res := p.Reservation
	if res.UserID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	if !res.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "reservation not found"})
	}
	if code := editRejection(res.Status); code != 0 {
		return c.JSON(code, echo.Map{"message": "reservation already processed"})
	}
	if !reservation.ValidTime(&p.Restaurant, req.ReservationAt, time.Now()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid reservation time"})
	}
	if req.TableNumber != nil && !reservation.TableInRange(*req.TableNumber, p.Restaurant.TableCount) {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "table number out of range"})
	}

	items, sum, err := h.priceAgainstCatalog(ctx, res.RestaurantID, order)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "price order failed"})
	}

	res.ReservationAt = req.ReservationAt.UTC()
	res.TableNumber = req.TableNumber
	res.PeopleCount = req.PeopleCount
	res.Note = req.Note
	res.SumPrice = sum

	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := h.Reservations.SaveTx(ctx, tx, &res); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return h.classifyCustomerConflict(c, resID)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "save reservation failed"})
	}
	if err := h.Reservations.ReplaceProductsTx(ctx, tx, resID, items); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "save order failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to commit transaction"})
	}
	committed = true

	p.Reservation = res
	go h.notifyAgent(p)
	go h.publishStatus(p, "customer")
	return c.NoContent(http.StatusNoContent)
}

// Cancel handles PUT /v1/reservations/:id/cancel. Cancelling an
// accepted reservation costs the customer loyalty points; the penalty
// commits in the same transaction as the status change.
func (h *CustomerReservationHandler) Cancel(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || resID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid reservation id"})
	}

	ctx := c.Request().Context()
	p, err := h.Reservations.GetWithParties(ctx, resID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load reservation failed"})
	}
	res := p.Reservation
	if res.UserID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	if !res.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "reservation not found"})
	}

	from := res.Status
	next, err := model.NextOnCustomerCancel(from)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "reservation cannot be cancelled"})
	}
	res.Status = next

	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := h.Reservations.SaveTx(ctx, tx, &res); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return h.classifyCustomerConflict(c, resID)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "save reservation failed"})
	}
	if from == model.StatusAccepted {
		if err := h.Users.AddPointsTx(ctx, tx, uid, model.PointsCancelReservation); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "apply points failed"})
		}
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to commit transaction"})
	}
	committed = true

	p.Reservation = res
	// A pre-acceptance cancel is nothing the restaurant acted on yet,
	// so only a backed-out acceptance pushes to the agent.
	if cancelAlertsAgent(from) {
		go h.notifyAgent(p)
	}
	go h.publishStatus(p, "customer")
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /v1/reservations/:id: a soft delete that hides
// the reservation from the customer's lists without touching its
// status or line items.
func (h *CustomerReservationHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || resID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid reservation id"})
	}

	ctx := c.Request().Context()
	res, err := h.Reservations.GetByID(ctx, resID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load reservation failed"})
	}
	if res.UserID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	if !res.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "reservation not found"})
	}
	if err := h.Reservations.Deactivate(ctx, resID, res.RowVersion); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return h.classifyCustomerConflict(c, resID)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "delete reservation failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// classifyCustomerConflict decides what a failed version check means
// for the caller: a reservation that vanished (or was soft-deleted)
// reads as 404, anything else as a concurrent update.
func (h *CustomerReservationHandler) classifyCustomerConflict(c echo.Context, resID uint64) error {
	ok, err := h.Reservations.Exists(c.Request().Context(), resID)
	if err == nil && !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "reservation not found"})
	}
	return c.JSON(http.StatusConflict, echo.Map{"message": "reservation was modified concurrently"})
}

// List handles GET /v1/reservations?status=&page=&count=.
func (h *CustomerReservationHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	var status *model.ReservationStatus
	if s := c.QueryParam("status"); s != "" {
		n, err := strconv.Atoi(s)
		st := model.ReservationStatus(n)
		if err != nil || !st.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid status"})
		}
		status = &st
	}
	offset, limit := pageParams(c, 20, 100)

	list, err := h.Reservations.ListByCustomer(c.Request().Context(), uid, status, offset, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load reservations failed"})
	}
	items := make([]reservationItem, len(list))
	for i := range list {
		items[i] = toItem(&list[i])
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// Count handles GET /v1/reservations/count.
func (h *CustomerReservationHandler) Count(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	n, err := h.Reservations.CountByCustomer(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "count reservations failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"count": n})
}

// Get handles GET /v1/reservations/:id and includes the order lines.
func (h *CustomerReservationHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || resID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid reservation id"})
	}

	ctx := c.Request().Context()
	res, err := h.Reservations.GetByID(ctx, resID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load reservation failed"})
	}
	if res.UserID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	if !res.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "reservation not found"})
	}
	products, err := h.Reservations.ListProducts(ctx, resID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load order failed"})
	}
	lines := make([]orderLine, len(products))
	for i, p := range products {
		lines[i] = orderLine{ProductID: p.ProductID, Count: p.Count, Price: p.Price}
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toItem(res), "order": lines})
}
