package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Phirakan/go-inventory/models"
)

func TestAnalyticsEmpty(t *testing.T) {
	ctx := context.Background()
	a := NewAnalytics(newTestDB(t), 0, 0)

	rec, err := a.Recommendations(ctx)
	require.NoError(t, err)
	assert.Empty(t, rec.TopSellers)
	assert.NotNil(t, rec.TopSellers)
	assert.Empty(t, rec.RestockSuggestions)
	assert.Empty(t, rec.FrequentlyBoughtTogether)
	assert.Equal(t, []models.CategoryTrend{{Category: "No data", TotalSold: 0}}, rec.CategoryTrends)
	assert.Equal(t, []models.MonthlyTrend{{Name: "No data", TotalSold: 0, Month: "Unknown"}}, rec.TimeBasedRecommendations)
}

func TestAnalyticsTopSellersAndCategories(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	catalog := NewCatalog(db)
	proc := NewSaleProcessor(db, discard)
	user := createUser(t, db, "staff", models.RoleStaff)
	a := NewAnalytics(db, 2, 10)

	phone := createProduct(t, catalog, "Phone", "Electronics", "300", 50)
	cable := createProduct(t, catalog, "Cable", "Electronics", "5", 50)
	chair := createProduct(t, catalog, "Chair", "Furniture", "40", 50)
	createProduct(t, catalog, "Lamp", "Home", "12", 50)

	for _, s := range []struct {
		id  uint
		qty int
	}{{phone.ID, 2}, {cable.ID, 7}, {chair.ID, 2}, {phone.ID, 1}} {
		_, err := proc.RecordSale(ctx, user.ID, s.id, s.qty)
		require.NoError(t, err)
	}

	top, err := a.TopSellingProducts(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []models.TopSeller{{Name: "Cable", TotalSold: 7}, {Name: "Phone", TotalSold: 3}}, top)

	again, err := a.TopSellingProducts(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, top, again)

	all, err := a.TopSellingProducts(ctx, 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Chair", all[2].Name)

	trends, err := a.CategoryTrends(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.CategoryTrend{
		{Category: "Electronics", TotalSold: 10},
		{Category: "Furniture", TotalSold: 2},
	}, trends)
}

func TestAnalyticsRestockSuggestions(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	catalog := NewCatalog(db)
	a := NewAnalytics(db, 0, 0)

	createProduct(t, catalog, "Low", "X", "1", 3)
	createProduct(t, catalog, "Edge", "X", "1", 10)
	createProduct(t, catalog, "Empty", "X", "1", 0)

	names, err := a.RestockSuggestions(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Low", "Empty"}, names)

	names, err = a.RestockSuggestions(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, []string{"Low", "Edge", "Empty"}, names)
}

func TestAnalyticsFrequentlyBoughtTogether(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	catalog := NewCatalog(db)
	proc := NewSaleProcessor(db, discard)
	user := createUser(t, db, "staff", models.RoleStaff)
	a := NewAnalytics(db, 0, 0)

	phone := createProduct(t, catalog, "Phone", "Electronics", "300", 50)
	cover := createProduct(t, catalog, "Cover", "Accessories", "10", 50)
	charger := createProduct(t, catalog, "Charger", "Accessories", "20", 50)

	for _, basket := range [][]models.SaleLine{
		{{ProductID: cover.ID, Quantity: 1}, {ProductID: phone.ID, Quantity: 1}},
		{{ProductID: phone.ID, Quantity: 1}, {ProductID: cover.ID, Quantity: 2}, {ProductID: charger.ID, Quantity: 1}},
		{{ProductID: charger.ID, Quantity: 1}},
	} {
		_, _, err := proc.RecordBasket(ctx, user.ID, basket)
		require.NoError(t, err)
	}
	// Separate sales of the same products are not pairs.
	_, err := proc.RecordSale(ctx, user.ID, phone.ID, 1)
	require.NoError(t, err)
	_, err = proc.RecordSale(ctx, user.ID, charger.ID, 1)
	require.NoError(t, err)

	pairs, err := a.FrequentlyBoughtTogether(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.ProductPair{
		{ProductPair: [2]uint{phone.ID, cover.ID}, Count: 2},
		{ProductPair: [2]uint{phone.ID, charger.ID}, Count: 1},
		{ProductPair: [2]uint{cover.ID, charger.ID}, Count: 1},
	}, pairs)
}

func TestAnalyticsTimeBasedRecommendations(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	catalog := NewCatalog(db)
	proc := NewSaleProcessor(db, discard)
	user := createUser(t, db, "staff", models.RoleStaff)
	a := NewAnalytics(db, 0, 0)

	tea := createProduct(t, catalog, "Tea", "Drinks", "3", 100)
	coffee := createProduct(t, catalog, "Coffee", "Drinks", "4", 100)

	sell := func(at time.Time, id uint, qty int) {
		t.Helper()
		proc.now = func() time.Time { return at }
		_, err := proc.RecordSale(ctx, user.ID, id, qty)
		require.NoError(t, err)
	}
	march := time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)
	sell(march, tea.ID, 2)
	sell(march.AddDate(0, 0, 10), coffee.ID, 5)
	sell(march.AddDate(0, 0, 20), tea.ID, 1)
	sell(time.Date(2024, time.December, 31, 23, 0, 0, 0, time.UTC), tea.ID, 4)

	trends, err := a.TimeBasedRecommendations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.MonthlyTrend{
		{Name: "Tea", TotalSold: 4, Month: "2024-12"},
		{Name: "Coffee", TotalSold: 5, Month: "2025-03"},
		{Name: "Tea", TotalSold: 3, Month: "2025-03"},
	}, trends)
}
