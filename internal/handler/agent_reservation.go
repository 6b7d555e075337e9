package handler

// Agent-facing reservation endpoints. Agents act for exactly one
// restaurant, carried in the restaurant_id claim of their access
// token. Every mutating endpoint checks that the target reservation
// belongs to that restaurant and fails with 403 when it does not; a
// reservation that lost a version race while leaving its expected
// state reads as 404, matching what a fresh lookup would have seen.

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/notify"
	"github.com/iliyamo/restaurant-table-reservation/internal/queue"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
	"github.com/iliyamo/restaurant-table-reservation/internal/reservation"
	queue_publisher "github.com/iliyamo/restaurant-table-reservation/internal/service"
)

// AgentReservationHandler bundles the dependencies of the agent surface.
type AgentReservationHandler struct {
	Reservations *repository.ReservationRepo
	Externals    *repository.ExternalReservationRepo
	Users        *repository.UserRepo
	Dispatcher   *notify.Dispatcher
	AMQPURL      string
}

// NewAgentReservationHandler constructs the handler. Repositories must
// be non-nil; Dispatcher may be nil to disable push delivery.
func NewAgentReservationHandler(res *repository.ReservationRepo, ext *repository.ExternalReservationRepo, users *repository.UserRepo, d *notify.Dispatcher, amqpURL string) *AgentReservationHandler {
	if res == nil || ext == nil || users == nil {
		panic("nil repository passed to NewAgentReservationHandler")
	}
	return &AgentReservationHandler{
		Reservations: res,
		Externals:    ext,
		Users:        users,
		Dispatcher:   d,
		AMQPURL:      amqpURL,
	}
}

// notifyCustomer pushes the new state to the reservation's customer.
func (h *AgentReservationHandler) notifyCustomer(p *repository.Parties) {
	if h.Dispatcher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	res := p.Reservation
	cust := p.Customer
	h.Dispatcher.NotifyStatusChanged(ctx, &cust, &res, &p.Restaurant)
}

func (h *AgentReservationHandler) publishStatus(p *repository.Parties) {
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
		Actor:          "agent",
		ChangedAt:      time.Now().UTC().Format(time.RFC3339),
	})
}

// loadOwned fetches the reservation with its parties and enforces that
// it belongs to the agent's restaurant and is still active.
func (h *AgentReservationHandler) loadOwned(c echo.Context) (*repository.Parties, uint64, error) {
	restID, err := getRestaurantID(c)
	if err != nil {
		return nil, 0, c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	resID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || resID == 0 {
		return nil, 0, c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid reservation id"})
	}
	p, err := h.Reservations.GetWithParties(c.Request().Context(), resID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, 0, c.JSON(http.StatusNotFound, echo.Map{"message": "reservation not found"})
		}
		return nil, 0, c.JSON(http.StatusInternalServerError, echo.Map{"message": "load reservation failed"})
	}
	if p.Reservation.RestaurantID != restID {
		return nil, 0, c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	if !p.Reservation.IsActive {
		return nil, 0, c.JSON(http.StatusNotFound, echo.Map{"message": "reservation not found"})
	}
	return p, restID, nil
}

// classifyAgentConflict resolves a failed version check the way a
// fresh lookup would: the reservation must still be active in the
// state the operation expected, otherwise it reads as 404.
func (h *AgentReservationHandler) classifyAgentConflict(c echo.Context, resID uint64, expected model.ReservationStatus) error {
	ok, err := h.Reservations.ExistsInStatus(c.Request().Context(), resID, expected)
	if err == nil && !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "reservation not found"})
	}
	return c.JSON(http.StatusConflict, echo.Map{"message": "reservation was modified concurrently"})
}

// saveTransition persists the status change plus an optional customer
// point delta in one transaction.
func (h *AgentReservationHandler) saveTransition(c echo.Context, p *repository.Parties, from model.ReservationStatus, pointsDelta int) error {
	ctx := c.Request().Context()
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
	if err := h.Reservations.SaveTx(ctx, tx, &p.Reservation); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return h.classifyAgentConflict(c, p.Reservation.ID, from)
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "save reservation failed"})
	}
	if pointsDelta != 0 {
		if err := h.Users.AddPointsTx(ctx, tx, p.Reservation.UserID, pointsDelta); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "apply points failed"})
		}
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to commit transaction"})
	}
	committed = true

	go h.notifyCustomer(p)
	go h.publishStatus(p)
	return c.NoContent(http.StatusNoContent)
}

// acceptTable resolves the table an acceptance seats the guests at. A
// table_number supplied on the request wins over whatever the
// reservation already carries; when the parameter is absent the
// reservation's own table stands in, and only a reservation with
// neither is unacceptable.
func acceptTable(param string, current *int, tableCount int) (int, error) {
	if param == "" {
		if current == nil {
			return 0, errors.New("table_number required")
		}
		return *current, nil
	}
	table, err := strconv.Atoi(param)
	if err != nil {
		return 0, errors.New("invalid table_number")
	}
	if !reservation.TableInRange(table, tableCount) {
		return 0, errors.New("table number out of range")
	}
	return table, nil
}

// Accept handles PUT /v1/agent/reservations/:id/accept?table_number=.
// Accepting assigns the table the guests will be seated at.
func (h *AgentReservationHandler) Accept(c echo.Context) error {
	p, _, errResp := h.loadOwned(c)
	if p == nil {
		return errResp
	}
	table, err := acceptTable(c.QueryParam("table_number"), p.Reservation.TableNumber, p.Restaurant.TableCount)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	from := p.Reservation.Status
	next, err := model.NextOnAccept(from)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "reservation cannot be accepted"})
	}
	p.Reservation.Status = next
	p.Reservation.TableNumber = &table
	return h.saveTransition(c, p, from, 0)
}

// Reject handles PUT /v1/agent/reservations/:id/reject.
func (h *AgentReservationHandler) Reject(c echo.Context) error {
	p, _, errResp := h.loadOwned(c)
	if p == nil {
		return errResp
	}
	from := p.Reservation.Status
	next, err := model.NextOnReject(from)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "reservation cannot be rejected"})
	}
	p.Reservation.Status = next
	return h.saveTransition(c, p, from, 0)
}

// Cancel handles PUT /v1/agent/reservations/:id/cancel: the restaurant
// backs out of a reservation it had accepted. The customer keeps their
// points.
func (h *AgentReservationHandler) Cancel(c echo.Context) error {
	p, _, errResp := h.loadOwned(c)
	if p == nil {
		return errResp
	}
	from := p.Reservation.Status
	next, err := model.NextOnAgentCancel(from)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "reservation cannot be cancelled"})
	}
	p.Reservation.Status = next
	return h.saveTransition(c, p, from, 0)
}

// Complete handles PUT /v1/agent/reservations/:id/complete. The
// customer's completion award commits with the status change.
func (h *AgentReservationHandler) Complete(c echo.Context) error {
	p, _, errResp := h.loadOwned(c)
	if p == nil {
		return errResp
	}
	from := p.Reservation.Status
	next, err := model.NextOnComplete(from)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "reservation cannot be completed"})
	}
	p.Reservation.Status = next
	return h.saveTransition(c, p, from, model.PointsReservationDone)
}

// List handles GET /v1/agent/reservations?category=&page=&count=.
// Categories group lifecycle states the way agents work a shift:
// rejected folds in agent cancellations, and the customer-cancelled
// bucket shows post-acceptance cancellations only.
func (h *AgentReservationHandler) List(c echo.Context) error {
	restID, err := getRestaurantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	cat := model.CategoryWaitingForAcceptance
	if s := c.QueryParam("category"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid category"})
		}
		cat = model.AgentCategory(n)
	}
	offset, limit := pageParams(c, 20, 100)

	list, err := h.Reservations.ListByRestaurant(c.Request().Context(), restID, cat.Statuses(), offset, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load reservations failed"})
	}
	items := make([]reservationItem, len(list))
	for i := range list {
		items[i] = toItem(&list[i])
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// ListAll handles GET /v1/agent/reservations/all?page=&count=.
func (h *AgentReservationHandler) ListAll(c echo.Context) error {
	restID, err := getRestaurantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	offset, limit := pageParams(c, 20, 100)

	list, err := h.Reservations.ListByRestaurantAll(c.Request().Context(), restID, offset, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load reservations failed"})
	}
	items := make([]reservationItem, len(list))
	for i := range list {
		items[i] = toItem(&list[i])
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// Count handles GET /v1/agent/reservations/count?category=. Without a
// category it counts every active reservation of the restaurant.
func (h *AgentReservationHandler) Count(c echo.Context) error {
	restID, err := getRestaurantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	var statuses []model.ReservationStatus
	if s := c.QueryParam("category"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid category"})
		}
		statuses = model.AgentCategory(n).Statuses()
	}
	n, err := h.Reservations.CountByRestaurant(c.Request().Context(), restID, statuses)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "count reservations failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"count": n})
}

// Get handles GET /v1/agent/reservations/:id with order lines.
func (h *AgentReservationHandler) Get(c echo.Context) error {
	p, _, errResp := h.loadOwned(c)
	if p == nil {
		return errResp
	}
	products, err := h.Reservations.ListProducts(c.Request().Context(), p.Reservation.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load order failed"})
	}
	lines := make([]orderLine, len(products))
	for i, pr := range products {
		lines[i] = orderLine{ProductID: pr.ProductID, Count: pr.Count, Price: pr.Price}
	}
	res := p.Reservation
	return c.JSON(http.StatusOK, echo.Map{"item": toItem(&res), "order": lines})
}

// ----- external reservations (walk-ins entered by the agent) -----

type externalReq struct {
	TableNumber   *int      `json:"table_number"`
	PeopleCount   *int      `json:"people_count"`
	ReservationAt time.Time `json:"reservation_at"`
}

type externalItem struct {
	ID            uint64    `json:"id"`
	RestaurantID  uint64    `json:"restaurant_id"`
	TableNumber   *int      `json:"table_number"`
	PeopleCount   *int      `json:"people_count"`
	ReservationAt time.Time `json:"reservation_at"`
}

// CreateExternal handles POST /v1/agent/reservations/external.
func (h *AgentReservationHandler) CreateExternal(c echo.Context) error {
	restID, err := getRestaurantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	var req externalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}
	if req.ReservationAt.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "reservation_at required"})
	}
	ext := &model.ExternalReservation{
		RestaurantID:  restID,
		TableNumber:   req.TableNumber,
		PeopleCount:   req.PeopleCount,
		ReservationAt: req.ReservationAt.UTC(),
	}
	if err := h.Externals.Create(c.Request().Context(), ext); err != nil {
		if errors.Is(err, repository.ErrInvalidRef) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "unknown restaurant"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "create external reservation failed"})
	}
	return c.JSON(http.StatusCreated, externalItem{
		ID:            ext.ID,
		RestaurantID:  ext.RestaurantID,
		TableNumber:   ext.TableNumber,
		PeopleCount:   ext.PeopleCount,
		ReservationAt: ext.ReservationAt,
	})
}

// ListExternal handles GET /v1/agent/reservations/external.
func (h *AgentReservationHandler) ListExternal(c echo.Context) error {
	restID, err := getRestaurantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	list, err := h.Externals.ListByRestaurant(c.Request().Context(), restID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load external reservations failed"})
	}
	items := make([]externalItem, len(list))
	for i, e := range list {
		items[i] = externalItem{
			ID:            e.ID,
			RestaurantID:  e.RestaurantID,
			TableNumber:   e.TableNumber,
			PeopleCount:   e.PeopleCount,
			ReservationAt: e.ReservationAt,
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// DeleteExternal handles DELETE /v1/agent/reservations/external/:id.
func (h *AgentReservationHandler) DeleteExternal(c echo.Context) error {
	restID, err := getRestaurantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	extID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || extID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid external reservation id"})
	}
	ctx := c.Request().Context()
	ext, err := h.Externals.GetByID(ctx, extID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "external reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load external reservation failed"})
	}
	if ext.RestaurantID != restID {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}
	if err := h.Externals.Delete(ctx, extID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "external reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "delete external reservation failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
