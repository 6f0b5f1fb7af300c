package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "tally/internal/errors"
	"tally/internal/models"
	"tally/internal/pagination"
	"tally/internal/services"
)

// TransactionHandler handles transaction-related requests
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the create transaction payload
type CreateTransactionRequest struct {
	Type        string `json:"type" binding:"required,transaction_type"`
	Category    string `json:"category" binding:"required,max=100"`
	Amount      int64  `json:"amount" binding:"min=0"`
	Description string `json:"description" binding:"max=500"`
	Date        string `json:"date" binding:"required"`
}

// UpdateTransactionRequest represents the update transaction payload.
// All fields are optional; only provided fields are changed.
type UpdateTransactionRequest struct {
	Type        *string `json:"type" binding:"omitempty,transaction_type"`
	Category    *string `json:"category" binding:"omitempty,max=100"`
	Amount      *int64  `json:"amount" binding:"omitempty,min=0"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	Date        *string `json:"date"`
}

// ListTransactionsQuery represents the list filter query parameters
type ListTransactionsQuery struct {
	pagination.PageRequest
	FromDate string `form:"from_date"`
	ToDate   string `form:"to_date"`
	Type     string `form:"type" binding:"omitempty,transaction_type"`
	Category string `form:"category"`
}

// Create handles creating a new transaction
// @Summary     Create transaction
// @Description Record a new income or expense transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction data"
// @Success     201 {object} map[string]interface{} "Transaction created"
// @Failure     400 {object} map[string]interface{} "Invalid input"
// @Router      /transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := parseFlexibleTime(req.Date)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid date format"))
		return
	}

	transaction, err := h.transactionService.CreateTransaction(
		actor,
		models.TransactionType(req.Type),
		req.Category,
		req.Amount,
		req.Description,
		date,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// List handles listing the user's transactions with filters and pagination
// @Summary     List transactions
// @Description List the authenticated user's transactions, newest first
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Param       from_date query string false "Inclusive start date (YYYY-MM-DD)"
// @Param       to_date query string false "Inclusive end date (YYYY-MM-DD)"
// @Param       type query string false "Filter by type (income|expense)"
// @Param       category query string false "Filter by category"
// @Success     200 {object} map[string]interface{} "Paginated transactions"
// @Router      /transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query ListTransactionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	query.Defaults()

	filter, err := buildTransactionFilter(query)
	if err != nil {
		respondWithError(c, err)
		return
	}

	page, err := h.transactionService.GetUserTransactions(userID, query.PageRequest, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// Get handles fetching a single transaction
// @Summary     Get transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} map[string]interface{} "Transaction"
// @Failure     404 {object} map[string]interface{} "Not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// Update handles partial updates to a transaction
// @Summary     Update transaction
// @Description Update one or more fields of an existing transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Fields to update"
// @Success     200 {object} map[string]interface{} "Updated transaction"
// @Failure     404 {object} map[string]interface{} "Not found"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fields := services.TransactionFields{
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
	}
	if req.Type != nil {
		txType := models.TransactionType(*req.Type)
		fields.Type = &txType
	}
	if req.Date != nil {
		date, err := parseFlexibleTime(*req.Date)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid date format"))
			return
		}
		fields.Date = &date
	}

	transaction, err := h.transactionService.UpdateTransaction(actor, transactionID, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// Delete handles deleting a transaction
// @Summary     Delete transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} map[string]interface{} "Deleted"
// @Failure     404 {object} map[string]interface{} "Not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(actor, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

func buildTransactionFilter(query ListTransactionsQuery) (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	if query.FromDate != "" {
		from, err := parseFlexibleTime(query.FromDate)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid from_date format")
		}
		filter.FromDate = &from
	}
	if query.ToDate != "" {
		to, err := parseFlexibleTime(query.ToDate)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid to_date format")
		}
		filter.ToDate = &to
	}
	if query.Type != "" {
		txType := models.TransactionType(query.Type)
		filter.Type = &txType
	}
	if query.Category != "" {
		category := query.Category
		filter.Category = &category
	}

	return filter, nil
}
