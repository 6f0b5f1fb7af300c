package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tally/internal/models"
)

// CategoryHandler serves the suggested category list
type CategoryHandler struct{}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// List handles listing suggested categories
// @Summary     List suggested categories
// @Description Suggested transaction categories; clients may still submit free-form categories
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Suggested categories"
// @Router      /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": models.SuggestedCategories})
}
