package reservation

import "testing"

func TestPriceOrder(t *testing.T) {
	catalog := []CatalogPrice{
		{ProductID: 1, Price: 2500},
		{ProductID: 2, Price: 1800},
		{ProductID: 3, Price: 900},
	}

	t.Run("empty request yields nil sum", func(t *testing.T) {
		items, sum := PriceOrder(nil, catalog)
		if items != nil || sum != nil {
			t.Fatalf("expected (nil, nil), got (%v, %v)", items, sum)
		}
		items, sum = PriceOrder(map[uint64]int{}, catalog)
		if items != nil || sum != nil {
			t.Fatalf("expected (nil, nil), got (%v, %v)", items, sum)
		}
	})

	t.Run("fully resolved order", func(t *testing.T) {
		items, sum := PriceOrder(map[uint64]int{1: 2, 3: 1}, catalog)
		if len(items) != 2 {
			t.Fatalf("expected 2 line items, got %d", len(items))
		}
		if sum == nil || *sum != 2*2500+900 {
			t.Fatalf("expected sum %d, got %v", 2*2500+900, sum)
		}
		for _, it := range items {
			switch it.ProductID {
			case 1:
				if it.Count != 2 || it.Price != 2500 {
					t.Fatalf("line item 1 wrong: %+v", it)
				}
			case 3:
				if it.Count != 1 || it.Price != 900 {
					t.Fatalf("line item 3 wrong: %+v", it)
				}
			default:
				t.Fatalf("unexpected line item %+v", it)
			}
		}
	})

	t.Run("unresolved id dropped silently", func(t *testing.T) {
		// id 99 belongs to another restaurant; the catalog simply
		// does not return it.
		items, sum := PriceOrder(map[uint64]int{1: 2, 99: 5}, catalog)
		if len(items) != 1 || items[0].ProductID != 1 {
			t.Fatalf("expected only product 1, got %v", items)
		}
		if sum == nil || *sum != 2*2500 {
			t.Fatalf("expected sum %d, got %v", 2*2500, sum)
		}
	})

	t.Run("nothing resolves yields zero sum", func(t *testing.T) {
		items, sum := PriceOrder(map[uint64]int{99: 1}, nil)
		if len(items) != 0 {
			t.Fatalf("expected no line items, got %v", items)
		}
		if sum == nil || *sum != 0 {
			t.Fatalf("expected zero sum, got %v", sum)
		}
	})
}
