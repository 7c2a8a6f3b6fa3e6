package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Phirakan/go-inventory/errs"
	"github.com/Phirakan/go-inventory/middleware"
	"github.com/Phirakan/go-inventory/models"
)

type saleRequest struct {
	ProductID uint            `json:"product_id"`
	Quantity  json.RawMessage `json:"quantity"`
}

// line accepts the quantity as a JSON number or a numeric string. A missing
// quantity is left at zero for the sale to reject.
func (r saleRequest) line() (models.SaleLine, error) {
	l := models.SaleLine{ProductID: r.ProductID}
	if r.Quantity == nil {
		return l, nil
	}
	q, err := strconv.Atoi(rawScalar(r.Quantity))
	if err != nil {
		return l, errs.Validation("Quantity must be a valid number")
	}
	l.Quantity = q
	return l, nil
}

// MakeSale sells one product to the authenticated user
func (h *Handler) MakeSale(c *gin.Context) {
	session, _ := middleware.SessionFrom(c)

	var input saleRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, errs.Validation("Invalid product or quantity"))
		return
	}
	line, err := input.line()
	if err != nil {
		respondError(c, err)
		return
	}

	sale, err := h.Sales.RecordSale(c.Request.Context(), session.SubjectID, line.ProductID, line.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Sale successful!", "sale": sale})
}

type checkoutRequest struct {
	Items []saleRequest `json:"items"`
}

// Checkout sells several products in one basket; either every line is sold or
// none is.
func (h *Handler) Checkout(c *gin.Context) {
	session, _ := middleware.SessionFrom(c)

	var input checkoutRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, errs.Validation("Invalid product or quantity"))
		return
	}
	lines := make([]models.SaleLine, 0, len(input.Items))
	for _, item := range input.Items {
		line, err := item.line()
		if err != nil {
			respondError(c, err)
			return
		}
		lines = append(lines, line)
	}

	sales, basketID, err := h.Sales.RecordBasket(c.Request.Context(), session.SubjectID, lines)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":   "Checkout successful!",
		"basket_id": basketID,
		"sales":     sales,
	})
}
