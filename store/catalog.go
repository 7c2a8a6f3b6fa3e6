package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Phirakan/go-inventory/errs"
	"github.com/Phirakan/go-inventory/models"
)

// Catalog stores products.
type Catalog struct {
	db *gorm.DB
}

func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{db: db}
}

// CategoryCount is the number of rows in one category.
type CategoryCount struct {
	Category string
	Count    int64
}

// UpsertStock adds stock to the product identified by name, brand and category,
// creating it when it does not exist. The price of an existing product is not
// changed. created reports whether a new product was inserted.
func (c *Catalog) UpsertStock(ctx context.Context, in models.ProductInput) (product models.Product, created bool, err error) {
	name := strings.TrimSpace(in.Name)
	brand := strings.TrimSpace(in.Brand)
	category := strings.TrimSpace(in.Category)
	if name == "" || brand == "" || category == "" || in.Price == nil {
		return product, false, errs.Validation("Missing required fields")
	}
	if in.Price.IsNegative() {
		return product, false, errs.Validation("Price cannot be negative")
	}
	if in.StockQuantity < 0 {
		return product, false, errs.Validation("Stock quantity cannot be negative")
	}
	if in.StockQuantity > MaxQuantity {
		return product, false, errs.Validation("Invalid stock quantity value")
	}

	err = c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("name = ? AND brand = ? AND category = ?", name, brand, category).First(&product).Error
		if err != nil && !isNotFound(err) {
			return err
		}
		if err != nil {
			product = models.Product{
				Name:          name,
				Brand:         brand,
				Category:      category,
				Price:         *in.Price,
				StockQuantity: in.StockQuantity,
				Image:         normalizeImage(in.Image),
			}
			// A concurrent add_product may insert the same product between the
			// lookup and the insert; then fall through to adding stock.
			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}, {Name: "brand"}, {Name: "category"}},
				DoNothing: true,
			}).Create(&product)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 1 {
				created = true
				return nil
			}
			var existing models.Product
			if err := tx.Where("name = ? AND brand = ? AND category = ?", name, brand, category).First(&existing).Error; err != nil {
				return err
			}
			product = existing
		}

		if product.StockQuantity > MaxQuantity-in.StockQuantity {
			return errs.Validation("Invalid stock quantity value")
		}
		if err := tx.Model(&models.Product{}).
			Where("id = ?", product.ID).
			UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", in.StockQuantity)).Error; err != nil {
			return err
		}
		return tx.First(&product, product.ID).Error
	})
	if err != nil {
		return models.Product{}, false, internal("upsert product", err)
	}
	return product, created, nil
}

// Get returns one product.
func (c *Catalog) Get(ctx context.Context, id uint) (models.Product, error) {
	var product models.Product
	err := c.db.WithContext(ctx).First(&product, id).Error
	if isNotFound(err) {
		return product, errs.NotFound("Product not found")
	}
	return product, internal("get product", err)
}

// Update applies a partial update. Only the fields present in the patch are
// written, so a concurrent sale's stock decrement is not overwritten.
func (c *Catalog) Update(ctx context.Context, id uint, patch models.ProductPatch) (models.Product, error) {
	var product models.Product
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, id).Error; err != nil {
			if isNotFound(err) {
				return errs.NotFound("Product not found")
			}
			return err
		}

		if patch.Empty() {
			return nil
		}
		changes, err := patchColumns(patch)
		if err != nil {
			return err
		}
		if err := checkIdentityFree(tx, product, changes); err != nil {
			return err
		}
		if err := tx.Model(&models.Product{}).Where("id = ?", id).Updates(changes).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errs.Validation("A product with this name, brand and category already exists")
			}
			return err
		}
		return tx.First(&product, id).Error
	})
	if err != nil {
		return models.Product{}, internal("update product", err)
	}
	return product, nil
}

// checkIdentityFree rejects a rename onto the name, brand and category of
// another product.
func checkIdentityFree(tx *gorm.DB, current models.Product, changes map[string]any) error {
	name, brand, category := current.Name, current.Brand, current.Category
	if v, ok := changes["name"].(string); ok {
		name = v
	}
	if v, ok := changes["brand"].(string); ok {
		brand = v
	}
	if v, ok := changes["category"].(string); ok {
		category = v
	}
	var n int64
	err := tx.Model(&models.Product{}).
		Where("name = ? AND brand = ? AND category = ? AND id <> ?", name, brand, category, current.ID).
		Count(&n).Error
	if err != nil {
		return err
	}
	if n > 0 {
		return errs.Validation("A product with this name, brand and category already exists")
	}
	return nil
}

func patchColumns(p models.ProductPatch) (map[string]any, error) {
	changes := make(map[string]any)
	text := []struct {
		column string
		value  *string
		label  string
	}{
		{"name", p.Name, "Name"},
		{"brand", p.Brand, "Brand"},
		{"category", p.Category, "Category"},
	}
	for _, f := range text {
		if f.value == nil {
			continue
		}
		v := strings.TrimSpace(*f.value)
		if v == "" {
			return nil, errs.Validation(f.label + " cannot be empty")
		}
		changes[f.column] = v
	}
	if p.Price != nil {
		if p.Price.IsNegative() {
			return nil, errs.Validation("Price cannot be negative")
		}
		changes["price"] = *p.Price
	}
	if p.StockQuantity != nil {
		if *p.StockQuantity < 0 {
			return nil, errs.Validation("Stock quantity cannot be negative")
		}
		if *p.StockQuantity > MaxQuantity {
			return nil, errs.Validation("Invalid stock quantity value")
		}
		changes["stock_quantity"] = *p.StockQuantity
	}
	if p.Image != nil {
		changes["image"] = normalizeImage(p.Image)
	}
	return changes, nil
}

func normalizeImage(image *string) *string {
	if image == nil {
		return nil
	}
	v := strings.TrimSpace(*image)
	if v == "" {
		return nil
	}
	return &v
}

// Delete removes a product. Orders that reference it are kept.
func (c *Catalog) Delete(ctx context.Context, id uint) error {
	res := c.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return internal("delete product", res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NotFound("Product not found")
	}
	return nil
}

// ListAll returns every product ordered by id.
func (c *Catalog) ListAll(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	if err := c.db.WithContext(ctx).Order("id").Find(&products).Error; err != nil {
		return nil, internal("list products", err)
	}
	return products, nil
}

// CountTotal returns the number of products.
func (c *Catalog) CountTotal(ctx context.Context) (int64, error) {
	var count int64
	if err := c.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error; err != nil {
		return 0, internal("count products", err)
	}
	return count, nil
}

// CountByCategory returns the number of products per category.
func (c *Catalog) CountByCategory(ctx context.Context) (map[string]int64, error) {
	var rows []CategoryCount
	err := c.db.WithContext(ctx).Model(&models.Product{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, internal("count products by category", err)
	}
	return categoryMap(rows), nil
}

func categoryMap(rows []CategoryCount) map[string]int64 {
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Category] = r.Count
	}
	return counts
}
