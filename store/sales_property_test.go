package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/Phirakan/go-inventory/errs"
	"github.com/Phirakan/go-inventory/models"
)

// Stock never goes negative and always equals the initial stock minus the
// units of the sales that succeeded.
func TestSaleSequencesConserveStock(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	catalog := NewCatalog(db)
	proc := NewSaleProcessor(db, discard)
	user := createUser(t, db, "staff", models.RoleStaff)
	n := 0

	rapid.Check(t, func(rt *rapid.T) {
		n++
		initial := rapid.IntRange(0, 40).Draw(rt, "initial")
		p := createProduct(t, catalog, fmt.Sprintf("Item %d", n), "Property", "2.50", initial)

		quantities := rapid.SliceOfN(rapid.IntRange(1, 12), 0, 15).Draw(rt, "quantities")
		sold := 0
		for _, q := range quantities {
			_, err := proc.RecordSale(ctx, user.ID, p.ID, q)
			switch {
			case err == nil:
				sold += q
			case errors.Is(err, errs.ErrInsufficientStock):
				if initial-sold >= q {
					rt.Fatalf("sale of %d rejected with %d in stock", q, initial-sold)
				}
			default:
				rt.Fatalf("unexpected error: %v", err)
			}
		}

		got, err := catalog.Get(ctx, p.ID)
		if err != nil {
			rt.Fatal(err)
		}
		if got.StockQuantity < 0 {
			rt.Fatalf("stock went negative: %d", got.StockQuantity)
		}
		if got.StockQuantity != initial-sold {
			rt.Fatalf("stock = %d, want %d", got.StockQuantity, initial-sold)
		}
	})
}
