package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "tally/internal/errors"
	"tally/internal/models"
	"tally/internal/pagination"
)

// auditResource is the resource name transactions are audited under.
const auditResource = "transaction"

// transactionSnapshot is the serialized form of a transaction's mutable
// fields stored in audit entries. Dates are YYYY-MM-DD.
type transactionSnapshot struct {
	Type        models.TransactionType `json:"type"`
	Category    string                 `json:"category"`
	Amount      int64                  `json:"amount"`
	Description string                 `json:"description"`
	Date        string                 `json:"date"`
}

func snapshotOf(tx *models.Transaction) transactionSnapshot {
	return transactionSnapshot{
		Type:        tx.Type,
		Category:    tx.Category,
		Amount:      tx.Amount,
		Description: tx.Description,
		Date:        tx.Date.Format("2006-01-02"),
	}
}

// transactionService handles transaction-related business logic.
type transactionService struct {
	db      *gorm.DB
	auditor AuditServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, auditor AuditServicer) TransactionServicer {
	return &transactionService{db: db, auditor: auditor}
}

// CreateTransaction creates a new transaction for the acting user. The
// attempt is audited whether or not the insert succeeds; a failed insert is
// recorded with a failure outcome and no resource ID before the error is
// returned to the caller.
func (s *transactionService) CreateTransaction(
	actor Actor,
	transactionType models.TransactionType,
	category string,
	amount int64,
	description string,
	date time.Time,
) (*models.Transaction, error) {
	if amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}
	if category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	switch transactionType {
	case models.TransactionTypeIncome, models.TransactionTypeExpense:
	default:
		return nil, apperrors.ErrInvalidTransactionType
	}

	if date.IsZero() {
		date = time.Now()
	}

	transaction := &models.Transaction{
		UserID:      actor.ID,
		Type:        transactionType,
		Category:    category,
		Amount:      amount,
		Description: description,
		Date:        date,
	}

	if err := s.db.Create(transaction).Error; err != nil {
		s.auditor.Record(actor, models.AuditEventCreate, auditResource, nil,
			nil, snapshotOf(transaction), models.AuditOutcomeFailure)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.auditor.Record(actor, models.AuditEventCreate, auditResource, &transaction.ID,
		nil, snapshotOf(transaction), models.AuditOutcomeSuccess)
	return transaction, nil
}

// GetUserTransactions retrieves a paginated, filtered list of the user's
// transactions ordered by date descending.
func (s *transactionService) GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAllUserTransactions retrieves the user's full transaction set, optionally
// bounded by an inclusive date range, ordered by date descending. The
// dashboard and report exports aggregate over this flat list in memory.
func (s *transactionService) GetAllUserTransactions(userID uint, from, to *time.Time) ([]models.Transaction, error) {
	q := s.db.Where("user_id = ?", userID)
	if from != nil {
		q = q.Where("date >= ?", *from)
	}
	if to != nil {
		q = q.Where("date <= ?", *to)
	}

	var transactions []models.Transaction
	if err := q.Order("date DESC").Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// UpdateTransaction applies a partial field replacement. The current row is
// read before mutating so the audit entry can carry the prior state; if that
// read fails the update is aborted (fail closed) and a failure entry is
// recorded. After the update call an entry is written with the outcome.
func (s *transactionService) UpdateTransaction(actor Actor, transactionID uint, fields TransactionFields) (*models.Transaction, error) {
	if fields.Amount != nil && *fields.Amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
	}
	if fields.Type != nil {
		switch *fields.Type {
		case models.TransactionTypeIncome, models.TransactionTypeExpense:
		default:
			return nil, apperrors.ErrInvalidTransactionType
		}
	}
	if fields.Category != nil && *fields.Category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category must not be empty")
	}

	current, err := s.GetTransactionByID(actor.ID, transactionID)
	if err != nil {
		s.auditor.Record(actor, models.AuditEventUpdate, auditResource, &transactionID,
			nil, nil, models.AuditOutcomeFailure)
		return nil, err
	}
	previous := snapshotOf(current)

	updates := make(map[string]interface{})
	if fields.Type != nil {
		updates["type"] = *fields.Type
	}
	if fields.Category != nil {
		updates["category"] = *fields.Category
	}
	if fields.Amount != nil {
		updates["amount"] = *fields.Amount
	}
	if fields.Description != nil {
		updates["description"] = *fields.Description
	}
	if fields.Date != nil {
		updates["date"] = *fields.Date
	}

	if len(updates) > 0 {
		if err := s.db.Model(current).Updates(updates).Error; err != nil {
			s.auditor.Record(actor, models.AuditEventUpdate, auditResource, &transactionID,
				previous, nil, models.AuditOutcomeFailure)
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	s.auditor.Record(actor, models.AuditEventUpdate, auditResource, &transactionID,
		previous, snapshotOf(current), models.AuditOutcomeSuccess)
	return current, nil
}

// DeleteTransaction removes a transaction. Symmetric to update: the row is
// read first to capture the prior state, a failed read aborts the delete,
// and the entry's new state is nil.
func (s *transactionService) DeleteTransaction(actor Actor, transactionID uint) error {
	current, err := s.GetTransactionByID(actor.ID, transactionID)
	if err != nil {
		s.auditor.Record(actor, models.AuditEventDelete, auditResource, &transactionID,
			nil, nil, models.AuditOutcomeFailure)
		return err
	}
	previous := snapshotOf(current)

	if err := s.db.Delete(current).Error; err != nil {
		s.auditor.Record(actor, models.AuditEventDelete, auditResource, &transactionID,
			previous, nil, models.AuditOutcomeFailure)
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.auditor.Record(actor, models.AuditEventDelete, auditResource, &transactionID,
		previous, nil, models.AuditOutcomeSuccess)
	return nil
}
