package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Phirakan/go-inventory/errs"
	"github.com/Phirakan/go-inventory/models"
)

// GetAllProducts retrieves all products
func (h *Handler) GetAllProducts(c *gin.Context) {
	products, err := h.Catalog.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// GetProduct retrieves a specific product by ID
func (h *Handler) GetProduct(c *gin.Context) {
	id, err := idParam(c, "id", "product")
	if err != nil {
		respondError(c, err)
		return
	}
	product, err := h.Catalog.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// AddProduct creates a product, or adds stock to the product with the same
// name, brand and category.
func (h *Handler) AddProduct(c *gin.Context) {
	var input models.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, errs.Validation("Invalid JSON format"))
		return
	}

	product, created, err := h.Catalog.UpsertStock(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	if created {
		c.JSON(http.StatusCreated, gin.H{"message": "Product added successfully!", "product": product})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock updated successfully!", "product": product})
}

// productUpdate is the body of PUT /products/:id. Price and stock are kept raw
// so that numbers and numeric strings are both accepted.
type productUpdate struct {
	Name          *string         `json:"name"`
	Brand         *string         `json:"brand"`
	Category      *string         `json:"category"`
	Price         json.RawMessage `json:"price"`
	StockQuantity json.RawMessage `json:"stock_quantity"`
	Image         *string         `json:"image"`
}

func (u productUpdate) patch() (models.ProductPatch, error) {
	patch := models.ProductPatch{
		Name:     u.Name,
		Brand:    u.Brand,
		Category: u.Category,
		Image:    u.Image,
	}
	if u.Price != nil {
		price, err := decimal.NewFromString(rawScalar(u.Price))
		if err != nil {
			return patch, errs.Validation("Invalid price value")
		}
		patch.Price = &price
	}
	if u.StockQuantity != nil {
		stock, err := strconv.Atoi(rawScalar(u.StockQuantity))
		if err != nil {
			return patch, errs.Validation("Invalid stock quantity value")
		}
		patch.StockQuantity = &stock
	}
	return patch, nil
}

// rawScalar returns a JSON number as written, or the contents of a JSON string.
func rawScalar(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// UpdateProduct applies a partial update to a product
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := idParam(c, "id", "product")
	if err != nil {
		respondError(c, err)
		return
	}

	var input productUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, errs.Validation("Invalid JSON format"))
		return
	}
	patch, err := input.patch()
	if err != nil {
		respondError(c, err)
		return
	}

	product, err := h.Catalog.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully!", "product": product})
}

// DeleteProduct deletes a product. Its sales are kept.
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := idParam(c, "id", "product")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.Catalog.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// CountProducts returns the number of products.
func (h *Handler) CountProducts(c *gin.Context) {
	n, err := h.Catalog.CountTotal(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_count": n})
}

// CountProductsByCategory returns {category: count}.
func (h *Handler) CountProductsByCategory(c *gin.Context) {
	counts, err := h.Catalog.CountByCategory(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}
