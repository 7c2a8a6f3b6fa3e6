package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Phirakan/go-inventory/middleware"
)

// MySales retrieves the sales recorded by the authenticated user, newest first
func (h *Handler) MySales(c *gin.Context) {
	session, _ := middleware.SessionFrom(c)

	page, err := pageQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	sales, err := h.Ledger.ListByUser(c.Request.Context(), session.SubjectID, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sales": sales})
}
