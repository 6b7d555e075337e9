package reservation

import "github.com/iliyamo/restaurant-table-reservation/internal/model"

// CatalogPrice is a product id with its current unit price, as
// resolved by the catalog for one restaurant. The catalog only
// returns rows for products that exist, are active and belong to the
// restaurant in question.
type CatalogPrice struct {
	ProductID uint64
	Price     int
}

// PriceOrder resolves a requested product-id to quantity map against
// the catalog rows and produces the line items and their total.
//
// An empty request yields (nil, nil): a reservation without an order
// carries a null sum, not a zero one. Requested ids missing from the
// catalog (wrong restaurant, inactive, nonexistent) are dropped
// silently and do not contribute to the sum; a partial order is not
// an error. The unit price of each line item is captured from the
// catalog row so the order survives later price changes.
func PriceOrder(requested map[uint64]int, catalog []CatalogPrice) ([]model.ReservationProduct, *int) {
	if len(requested) == 0 {
		return nil, nil
	}

	items := make([]model.ReservationProduct, 0, len(catalog))
	sum := 0
	for _, p := range catalog {
		count, ok := requested[p.ProductID]
		if !ok {
			continue
		}
		items = append(items, model.ReservationProduct{
			ProductID: p.ProductID,
			Count:     count,
			Price:     p.Price,
		})
		sum += count * p.Price
	}
	return items, &sum
}
