// Package store holds the persistence-backed components: the product catalog,
// user accounts, the sale processor, the sales ledger and the analytics queries.
package store

import (
	"errors"
	"math"

	"gorm.io/gorm"

	"github.com/Phirakan/go-inventory/errs"
)

const instrumentationName = "github.com/Phirakan/go-inventory/store"

// MaxQuantity bounds stock levels and sale quantities.
const MaxQuantity = math.MaxInt32

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// internal passes typed errors through and wraps anything else as internal.
func internal(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *errs.Error
	if errors.As(err, &e) {
		return err
	}
	return errs.Internal(op, err)
}
