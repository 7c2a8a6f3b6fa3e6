package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Phirakan/go-inventory/errs"
	"github.com/Phirakan/go-inventory/store"
)

// GetSales lists sales, optionally one page at a time with ?page=&limit=.
func (h *Handler) GetSales(c *gin.Context) {
	page, err := pageQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}
	sales, err := h.Ledger.List(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sales": sales})
}

func pageQuery(c *gin.Context) (store.Page, error) {
	var page store.Page
	for _, q := range []struct {
		name string
		dst  *int
	}{{"page", &page.Page}, {"limit", &page.Limit}} {
		raw, ok := c.GetQuery(q.name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return page, errs.Validation("Invalid " + q.name + " value")
		}
		*q.dst = n
	}
	return page, nil
}

// GetSale returns one sale.
func (h *Handler) GetSale(c *gin.Context) {
	id, err := idParam(c, "id", "sale")
	if err != nil {
		respondError(c, err)
		return
	}
	sale, err := h.Ledger.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sale": sale})
}

// TotalSales returns the revenue of all sales.
func (h *Handler) TotalSales(c *gin.Context) {
	total, err := h.Ledger.TotalRevenue(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_sales": total})
}

// CountSalesByCategory returns {category: number of sales}.
func (h *Handler) CountSalesByCategory(c *gin.Context) {
	counts, err := h.Ledger.CountByCategory(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

// Recommendations returns every analytics view in one response.
func (h *Handler) Recommendations(c *gin.Context) {
	rec, err := h.Analytics.Recommendations(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}
