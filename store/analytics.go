package store

import (
	"cmp"
	"context"
	"slices"
	"time"

	"gorm.io/gorm"

	"github.com/Phirakan/go-inventory/models"
)

const (
	DefaultTopSellersLimit  = 5
	DefaultRestockThreshold = 10

	noData = "No data"
)

// Analytics derives read-only views from order history.
type Analytics struct {
	db               *gorm.DB
	topSellersLimit  int
	restockThreshold int
}

func NewAnalytics(db *gorm.DB, topSellersLimit, restockThreshold int) *Analytics {
	if topSellersLimit <= 0 {
		topSellersLimit = DefaultTopSellersLimit
	}
	if restockThreshold <= 0 {
		restockThreshold = DefaultRestockThreshold
	}
	return &Analytics{db: db, topSellersLimit: topSellersLimit, restockThreshold: restockThreshold}
}

// TopSellingProducts returns the products with the most units sold. Ties keep
// product insertion order.
func (a *Analytics) TopSellingProducts(ctx context.Context, limit int) ([]models.TopSeller, error) {
	if limit <= 0 {
		limit = a.topSellersLimit
	}
	var rows []models.TopSeller
	err := a.db.WithContext(ctx).Table("orders").
		Select("products.name AS name, SUM(orders.quantity) AS total_sold").
		Joins("JOIN products ON products.id = orders.product_id").
		Group("products.id, products.name").
		Order("total_sold DESC, products.id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, internal("top selling products", err)
	}
	if rows == nil {
		rows = []models.TopSeller{}
	}
	return rows, nil
}

// RestockSuggestions names the products with stock below threshold.
func (a *Analytics) RestockSuggestions(ctx context.Context, threshold int) ([]string, error) {
	if threshold <= 0 {
		threshold = a.restockThreshold
	}
	names := []string{}
	err := a.db.WithContext(ctx).Model(&models.Product{}).
		Where("stock_quantity < ?", threshold).
		Order("id").
		Pluck("name", &names).Error
	if err != nil {
		return nil, internal("restock suggestions", err)
	}
	return names, nil
}

type pairRow struct {
	ProductA  uint
	ProductB  uint
	PairCount int64
}

// FrequentlyBoughtTogether counts, for every pair of distinct products, the
// baskets that contained both. Pairs are unordered and reported with the lower
// product id first.
func (a *Analytics) FrequentlyBoughtTogether(ctx context.Context) ([]models.ProductPair, error) {
	var rows []pairRow
	err := a.db.WithContext(ctx).Raw(`
		SELECT a.product_id AS product_a, b.product_id AS product_b, COUNT(DISTINCT a.basket_id) AS pair_count
		FROM orders a
		JOIN orders b ON a.basket_id = b.basket_id AND a.product_id < b.product_id
		GROUP BY a.product_id, b.product_id
		ORDER BY pair_count DESC, product_a ASC, product_b ASC`).
		Scan(&rows).Error
	if err != nil {
		return nil, internal("frequently bought together", err)
	}
	pairs := make([]models.ProductPair, len(rows))
	for i, r := range rows {
		pairs[i] = models.ProductPair{ProductPair: [2]uint{r.ProductA, r.ProductB}, Count: r.PairCount}
	}
	return pairs, nil
}

// CategoryTrends sums units sold per category.
func (a *Analytics) CategoryTrends(ctx context.Context) ([]models.CategoryTrend, error) {
	var rows []models.CategoryTrend
	err := a.db.WithContext(ctx).Table("orders").
		Select("products.category AS category, SUM(orders.quantity) AS total_sold").
		Joins("JOIN products ON products.id = orders.product_id").
		Group("products.category").
		Order("total_sold DESC, products.category ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, internal("category trends", err)
	}
	if len(rows) == 0 {
		return []models.CategoryTrend{{Category: noData, TotalSold: 0}}, nil
	}
	return rows, nil
}

type saleRow struct {
	ProductID uint
	Name      string
	Quantity  int64
	Timestamp time.Time
}

// TimeBasedRecommendations sums units sold per product and calendar month
// (YYYY-MM, UTC), earliest month first and best seller first within a month.
func (a *Analytics) TimeBasedRecommendations(ctx context.Context) ([]models.MonthlyTrend, error) {
	var rows []saleRow
	err := a.db.WithContext(ctx).Table("orders").
		Select("orders.product_id AS product_id, products.name AS name, orders.quantity AS quantity, orders.timestamp AS timestamp").
		Joins("JOIN products ON products.id = orders.product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, internal("time based recommendations", err)
	}
	if len(rows) == 0 {
		return []models.MonthlyTrend{{Name: noData, TotalSold: 0, Month: models.Unknown}}, nil
	}

	type key struct {
		productID uint
		month     string
	}
	type bucket struct {
		productID uint
		trend     models.MonthlyTrend
	}
	buckets := make(map[key]*bucket)
	for _, r := range rows {
		k := key{r.ProductID, r.Timestamp.UTC().Format("2006-01")}
		b, ok := buckets[k]
		if !ok {
			b = &bucket{productID: r.ProductID, trend: models.MonthlyTrend{Name: r.Name, Month: k.month}}
			buckets[k] = b
		}
		b.trend.TotalSold += r.Quantity
	}

	sorted := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		sorted = append(sorted, b)
	}
	slices.SortFunc(sorted, func(x, y *bucket) int {
		return cmp.Or(
			cmp.Compare(x.trend.Month, y.trend.Month),
			cmp.Compare(y.trend.TotalSold, x.trend.TotalSold),
			cmp.Compare(x.productID, y.productID),
		)
	})

	trends := make([]models.MonthlyTrend, len(sorted))
	for i, b := range sorted {
		trends[i] = b.trend
	}
	return trends, nil
}

// Recommendations computes every view with the configured limit and threshold.
func (a *Analytics) Recommendations(ctx context.Context) (models.Recommendations, error) {
	var (
		rec models.Recommendations
		err error
	)
	if rec.TopSellers, err = a.TopSellingProducts(ctx, a.topSellersLimit); err != nil {
		return rec, err
	}
	if rec.RestockSuggestions, err = a.RestockSuggestions(ctx, a.restockThreshold); err != nil {
		return rec, err
	}
	if rec.FrequentlyBoughtTogether, err = a.FrequentlyBoughtTogether(ctx); err != nil {
		return rec, err
	}
	if rec.CategoryTrends, err = a.CategoryTrends(ctx); err != nil {
		return rec, err
	}
	if rec.TimeBasedRecommendations, err = a.TimeBasedRecommendations(ctx); err != nil {
		return rec, err
	}
	return rec, nil
}
