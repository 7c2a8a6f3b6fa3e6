package store

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/Phirakan/go-inventory/errs"
	"github.com/Phirakan/go-inventory/models"
)

// SaleProcessor records sales. Each sale creates its orders and decrements
// stock in one transaction; stock is only decremented by a conditional update,
// so concurrent sales of the same product cannot take it below zero.
type SaleProcessor struct {
	db        *gorm.DB
	log       *slog.Logger
	tracer    trace.Tracer
	unitsSold metric.Int64Counter
	now       func() time.Time
}

func NewSaleProcessor(db *gorm.DB, log *slog.Logger) *SaleProcessor {
	counter, err := otel.Meter(instrumentationName).Int64Counter(
		"inventory.sales.units",
		metric.WithDescription("Units sold by committed sales"),
		metric.WithUnit("{unit}"),
	)
	if err != nil {
		log.Warn("sales counter unavailable", "error", err)
		counter = noop.Int64Counter{}
	}
	return &SaleProcessor{
		db:        db,
		log:       log,
		tracer:    otel.Tracer(instrumentationName),
		unitsSold: counter,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// RecordSale sells quantity units of one product to userID.
func (p *SaleProcessor) RecordSale(ctx context.Context, userID, productID uint, quantity int) (models.SaleView, error) {
	views, _, err := p.RecordBasket(ctx, userID, []models.SaleLine{{ProductID: productID, Quantity: quantity}})
	if err != nil {
		return models.SaleView{}, err
	}
	return views[0], nil
}

// RecordBasket sells several products in one transaction. All orders share a
// new basket id; if any line fails nothing is written.
func (p *SaleProcessor) RecordBasket(ctx context.Context, userID uint, lines []models.SaleLine) ([]models.SaleView, string, error) {
	merged, err := mergeLines(lines)
	if err != nil {
		return nil, "", err
	}

	ctx, span := p.tracer.Start(ctx, "SaleProcessor.RecordBasket", trace.WithAttributes(
		attribute.Int("sale.lines", len(merged)),
		attribute.Int64("sale.user_id", int64(userID)),
	))
	defer span.End()

	basketID := uuid.NewString()
	now := p.now()
	var (
		orders   []models.Order
		products []models.Product
	)
	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders, products = orders[:0], products[:0]
		for _, line := range merged {
			order, product, err := sellLine(tx, userID, basketID, line, now)
			if err != nil {
				return err
			}
			orders = append(orders, order)
			products = append(products, product)
		}
		return nil
	})
	if err != nil {
		err = internal("record sale", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, errs.KindOf(err).String())
		p.log.WarnContext(ctx, "sale rolled back",
			"user_id", userID, "basket_id", basketID, "kind", errs.KindOf(err).String(), "error", err)
		return nil, "", err
	}

	var user *models.User
	var u models.User
	if err := p.db.WithContext(ctx).First(&u, userID).Error; err == nil {
		user = &u
	} else if !isNotFound(err) {
		p.log.WarnContext(ctx, "load sale user", "user_id", userID, "error", err)
	}

	views := make([]models.SaleView, len(orders))
	var units int64
	total := decimal.Zero
	for i, o := range orders {
		views[i] = models.NewSaleView(o, user, &products[i])
		units += int64(o.Quantity)
		total = total.Add(o.TotalPrice)
	}

	p.unitsSold.Add(ctx, units)
	span.SetAttributes(attribute.String("sale.basket_id", basketID), attribute.Int64("sale.units", units))
	p.log.InfoContext(ctx, "sale recorded",
		"user_id", userID, "basket_id", basketID, "lines", len(orders), "units", units, "total", total.String())
	return views, basketID, nil
}

func sellLine(tx *gorm.DB, userID uint, basketID string, line models.SaleLine, now time.Time) (models.Order, models.Product, error) {
	var product models.Product
	if line.Quantity < 1 || line.Quantity > MaxQuantity {
		return models.Order{}, product, errs.Validation("Quantity must be a valid number")
	}
	if err := tx.First(&product, line.ProductID).Error; err != nil {
		if isNotFound(err) {
			return models.Order{}, product, errs.NotFound("Product not found")
		}
		return models.Order{}, product, err
	}
	if product.StockQuantity < line.Quantity {
		return models.Order{}, product, errs.InsufficientStock("Not enough stock available")
	}

	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", product.ID, line.Quantity).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", line.Quantity))
	if res.Error != nil {
		return models.Order{}, product, res.Error
	}
	if res.RowsAffected == 0 {
		return models.Order{}, product, errs.InsufficientStock("Not enough stock available")
	}
	product.StockQuantity -= line.Quantity

	order := models.Order{
		UserID:      userID,
		ProductID:   product.ID,
		BasketID:    basketID,
		Quantity:    line.Quantity,
		PriceAtSale: product.Price,
		TotalPrice:  product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))),
		Timestamp:   now,
	}
	if err := tx.Create(&order).Error; err != nil {
		return models.Order{}, product, err
	}
	return order, product, nil
}

// mergeLines validates lines, sums quantities per product and orders them by
// product id so concurrent baskets lock rows in the same order. The summed
// quantity of a product may not exceed MaxQuantity.
func mergeLines(lines []models.SaleLine) ([]models.SaleLine, error) {
	if len(lines) == 0 {
		return nil, errs.Validation("No items to sell")
	}
	byProduct := make(map[uint]int, len(lines))
	for _, l := range lines {
		if l.ProductID == 0 {
			return nil, errs.Validation("Invalid product or quantity")
		}
		if l.Quantity < 1 || l.Quantity > MaxQuantity-byProduct[l.ProductID] {
			return nil, errs.Validation("Quantity must be a valid number")
		}
		byProduct[l.ProductID] += l.Quantity
	}
	merged := make([]models.SaleLine, 0, len(byProduct))
	for id, q := range byProduct {
		merged = append(merged, models.SaleLine{ProductID: id, Quantity: q})
	}
	slices.SortFunc(merged, func(a, b models.SaleLine) int {
		return cmp.Compare(a.ProductID, b.ProductID)
	})
	return merged, nil
}
