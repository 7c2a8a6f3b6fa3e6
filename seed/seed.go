// Package seed loads bootstrap accounts and products from a YAML file.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/Phirakan/go-inventory/models"
	"github.com/Phirakan/go-inventory/store"
)

// File is the layout of a seed file.
type File struct {
	Users    []User    `yaml:"users"`
	Products []Product `yaml:"products"`
}

type User struct {
	Username string      `yaml:"username"`
	Email    string      `yaml:"email"`
	Password string      `yaml:"password"`
	Role     models.Role `yaml:"role"`
}

type Product struct {
	Name          string  `yaml:"name"`
	Brand         string  `yaml:"brand"`
	Category      string  `yaml:"category"`
	Price         string  `yaml:"price"`
	StockQuantity int     `yaml:"stock_quantity"`
	Image         *string `yaml:"image"`
}

// LoadFile reads and parses a seed file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses YAML seed data.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed YAML: %w", err)
	}
	return &f, nil
}

// Apply creates the users that do not exist yet. Products are only loaded into
// an empty catalog, so restarting never adds stock twice.
func Apply(ctx context.Context, f *File, accounts *store.Accounts, catalog *store.Catalog, log *slog.Logger) error {
	for _, u := range f.Users {
		user, created, err := accounts.Ensure(ctx, models.NewUser{
			Username: u.Username,
			Email:    u.Email,
			Password: u.Password,
			Role:     u.Role,
		})
		if err != nil {
			return fmt.Errorf("seed user %q: %w", u.Email, err)
		}
		if created {
			log.InfoContext(ctx, "seeded user", "user_id", user.ID, "email", user.Email, "role", user.Role)
		}
	}

	if len(f.Products) == 0 {
		return nil
	}
	n, err := catalog.CountTotal(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		log.InfoContext(ctx, "catalog not empty, skipping product seed", "products", n)
		return nil
	}
	for _, p := range f.Products {
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return fmt.Errorf("seed product %q: invalid price %q", p.Name, p.Price)
		}
		product, _, err := catalog.UpsertStock(ctx, models.ProductInput{
			Name:          p.Name,
			Brand:         p.Brand,
			Category:      p.Category,
			Price:         &price,
			StockQuantity: p.StockQuantity,
			Image:         p.Image,
		})
		if err != nil {
			return fmt.Errorf("seed product %q: %w", p.Name, err)
		}
		log.InfoContext(ctx, "seeded product", "product_id", product.ID, "name", product.Name)
	}
	return nil
}
