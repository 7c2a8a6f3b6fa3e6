package seed

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Phirakan/go-inventory/initializers"
	"github.com/Phirakan/go-inventory/models"
	"github.com/Phirakan/go-inventory/store"
)

const sample = `
users:
  - username: admin
    email: admin@example.com
    password: admin123
    role: admin
  - username: staff
    email: staff@example.com
    password: staff123
products:
  - name: Laptop
    brand: Dell
    category: Electronics
    price: "899.99"
    stock_quantity: 15
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)
	require.Len(t, f.Users, 2)
	assert.Equal(t, models.RoleAdmin, f.Users[0].Role)
	assert.Empty(t, f.Users[1].Role)
	require.Len(t, f.Products, 1)
	assert.Equal(t, "899.99", f.Products[0].Price)

	_, err = Parse([]byte("users: ["))
	assert.Error(t, err)
}

func TestApplyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := initializers.OpenSQLite(filepath.Join(t.TempDir(), "seed.db"), log)
	require.NoError(t, err)
	require.NoError(t, initializers.Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))
	f, err := LoadFile(path)
	require.NoError(t, err)

	accounts := store.NewAccounts(db).WithCost(4)
	catalog := store.NewCatalog(db)

	require.NoError(t, Apply(ctx, f, accounts, catalog, log))
	require.NoError(t, Apply(ctx, f, accounts, catalog, log))

	admin, err := accounts.Authenticate(ctx, "admin@example.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	staff, err := accounts.Authenticate(ctx, "staff@example.com", "staff123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, staff.Role)

	products, err := catalog.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 15, products[0].StockQuantity)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
