package handlers

import (
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Phirakan/go-inventory/errs"
	"github.com/Phirakan/go-inventory/middleware"
	"github.com/Phirakan/go-inventory/store"
	"github.com/Phirakan/go-inventory/utils"
)

// Handler serves the HTTP API.
type Handler struct {
	DB          *gorm.DB
	Catalog     *store.Catalog
	Accounts    *store.Accounts
	Sales       *store.SaleProcessor
	Ledger      *store.Sales
	Analytics   *store.Analytics
	Tokens      *utils.TokenManager
	Revocations store.RevocationList
	Log         *slog.Logger
}

// respondError writes err as {"error": message} with the status for its kind.
func respondError(c *gin.Context, err error) {
	middleware.Abort(c, err)
}

func idParam(c *gin.Context, name, what string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errs.Validation("Invalid " + what + " ID")
	}
	return uint(id), nil
}
