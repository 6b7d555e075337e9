package handler

// Public, unauthenticated catalog browsing. These endpoints sit behind
// the redis response cache; they only ever read active rows.

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
	"github.com/iliyamo/restaurant-table-reservation/internal/repository"
)

// PublicHandler serves the restaurant catalog to anonymous clients.
type PublicHandler struct {
	Restaurants *repository.RestaurantRepo
	Products    *repository.ProductRepo
}

func NewPublicHandler(rest *repository.RestaurantRepo, prod *repository.ProductRepo) *PublicHandler {
	if rest == nil || prod == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{Restaurants: rest, Products: prod}
}

type restaurantItem struct {
	ID                      uint64 `json:"id"`
	NameHy                  string `json:"name_hy"`
	NameEn                  string `json:"name_en"`
	NameRu                  string `json:"name_ru"`
	IsOpen24                bool   `json:"is_open_24"`
	OpeningMinute           int    `json:"opening_minute"`
	ClosingMinute           int    `json:"closing_minute"`
	AdditionalOpeningMinute int    `json:"additional_opening_minute"`
	AdditionalClosingMinute int    `json:"additional_closing_minute"`
	TableCount              int    `json:"table_count"`
}

type productItem struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
}

func toRestaurantItem(r *model.Restaurant) restaurantItem {
	return restaurantItem{
		ID:                      r.ID,
		NameHy:                  r.NameHy,
		NameEn:                  r.NameEn,
		NameRu:                  r.NameRu,
		IsOpen24:                r.IsOpen24,
		OpeningMinute:           r.OpeningMinute,
		ClosingMinute:           r.ClosingMinute,
		AdditionalOpeningMinute: r.AdditionalOpeningMinute,
		AdditionalClosingMinute: r.AdditionalClosingMinute,
		TableCount:              r.TableCount,
	}
}

// ListRestaurants handles GET /v1/restaurants?page=&count=.
func (h *PublicHandler) ListRestaurants(c echo.Context) error {
	offset, limit := pageParams(c, 20, 100)
	list, err := h.Restaurants.ListActive(c.Request().Context(), offset, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load restaurants failed"})
	}
	items := make([]restaurantItem, len(list))
	for i := range list {
		items[i] = toRestaurantItem(&list[i])
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// GetRestaurant handles GET /v1/restaurants/:id.
func (h *PublicHandler) GetRestaurant(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid restaurant id"})
	}
	rest, err := h.Restaurants.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "restaurant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load restaurant failed"})
	}
	if !rest.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "restaurant not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toRestaurantItem(rest)})
}

// ListProducts handles GET /v1/restaurants/:id/products.
func (h *PublicHandler) ListProducts(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid restaurant id"})
	}
	ctx := c.Request().Context()
	rest, err := h.Restaurants.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "restaurant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load restaurant failed"})
	}
	if !rest.IsActive {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "restaurant not found"})
	}
	list, err := h.Products.ListByRestaurant(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "load products failed"})
	}
	items := make([]productItem, len(list))
	for i, p := range list {
		items[i] = productItem{ID: p.ID, Name: p.Name, Price: p.Price}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}
