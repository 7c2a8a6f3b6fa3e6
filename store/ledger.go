package store

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Phirakan/go-inventory/errs"
	"github.com/Phirakan/go-inventory/models"
)

// MaxPageSize caps the number of sales returned per page.
const MaxPageSize = 100

// Page selects a window of results. A zero Limit means everything.
type Page struct {
	Page  int
	Limit int
}

// Sales is the read side of recorded orders.
type Sales struct {
	db *gorm.DB
}

func NewSales(db *gorm.DB) *Sales {
	return &Sales{db: db}
}

// List returns orders ordered by id. Users and products that no longer exist
// are rendered as unknown rather than failing the listing.
func (s *Sales) List(ctx context.Context, page Page) ([]models.SaleView, error) {
	q := s.db.WithContext(ctx).Order("id")
	if page.Limit > 0 {
		limit := min(page.Limit, MaxPageSize)
		offset := (max(page.Page, 1) - 1) * limit
		q = q.Limit(limit).Offset(offset)
	}
	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, internal("list sales", err)
	}
	return s.render(ctx, orders)
}

// ListByUser returns the orders recorded by one user, newest first.
func (s *Sales) ListByUser(ctx context.Context, userID uint, page Page) ([]models.SaleView, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id DESC")
	if page.Limit > 0 {
		limit := min(page.Limit, MaxPageSize)
		q = q.Limit(limit).Offset((max(page.Page, 1) - 1) * limit)
	}
	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, internal("list user sales", err)
	}
	return s.render(ctx, orders)
}

func (s *Sales) render(ctx context.Context, orders []models.Order) ([]models.SaleView, error) {
	views := make([]models.SaleView, 0, len(orders))
	if len(orders) == 0 {
		return views, nil
	}

	userIDs := make([]uint, 0, len(orders))
	productIDs := make([]uint, 0, len(orders))
	for _, o := range orders {
		userIDs = append(userIDs, o.UserID)
		productIDs = append(productIDs, o.ProductID)
	}

	var users []models.User
	if err := s.db.WithContext(ctx).Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, internal("load sale users", err)
	}
	var products []models.Product
	if err := s.db.WithContext(ctx).Where("id IN ?", productIDs).Find(&products).Error; err != nil {
		return nil, internal("load sale products", err)
	}

	userByID := make(map[uint]*models.User, len(users))
	for i := range users {
		userByID[users[i].ID] = &users[i]
	}
	productByID := make(map[uint]*models.Product, len(products))
	for i := range products {
		productByID[products[i].ID] = &products[i]
	}

	for _, o := range orders {
		views = append(views, models.NewSaleView(o, userByID[o.UserID], productByID[o.ProductID]))
	}
	return views, nil
}

// Get returns one order rendered for output.
func (s *Sales) Get(ctx context.Context, id uint) (models.SaleView, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, id).Error; err != nil {
		if isNotFound(err) {
			return models.SaleView{}, errs.NotFound("Sale not found")
		}
		return models.SaleView{}, internal("get sale", err)
	}
	views, err := s.render(ctx, []models.Order{order})
	if err != nil {
		return models.SaleView{}, err
	}
	return views[0], nil
}

// TotalRevenue sums the total price of every order.
func (s *Sales) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Select("SUM(total_price)").
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, internal("total sales", err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal.Round(2), nil
}

// CountByCategory returns the number of orders per product category. Orders of
// deleted products are not counted.
func (s *Sales) CountByCategory(ctx context.Context) (map[string]int64, error) {
	var rows []CategoryCount
	err := s.db.WithContext(ctx).Table("orders").
		Select("products.category AS category, COUNT(orders.id) AS count").
		Joins("JOIN products ON products.id = orders.product_id").
		Group("products.category").
		Scan(&rows).Error
	if err != nil {
		return nil, internal("count sales by category", err)
	}
	return categoryMap(rows), nil
}
