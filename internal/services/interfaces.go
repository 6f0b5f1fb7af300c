package services

import (
	"io"
	"time"

	"tally/internal/models"
	"tally/internal/pagination"
	"tally/internal/reporting"
)

// Actor is the acting identity resolved from the current session, passed
// explicitly to every audited operation. Name is best-effort display
// attribution and falls back to UnknownActorName rather than failing.
type Actor struct {
	ID   uint
	Name string
	IP   string
}

// UnknownActorName is used when no display name can be resolved.
const UnknownActorName = "Unknown"

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, displayName string, role models.Role) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
	ListUsers(page pagination.PageRequest) (*pagination.PageResponse[models.User], error)
	SetUserRole(actor Actor, userID uint, role models.Role) (*models.User, error)
	SetUserActive(actor Actor, userID uint, active bool) (*models.User, error)
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate *time.Time
	ToDate   *time.Time
	Type     *models.TransactionType
	Category *string
}

// TransactionFields holds the mutable transaction fields for updates.
// Nil fields are left unchanged (partial replacement).
type TransactionFields struct {
	Type        *models.TransactionType
	Category    *string
	Amount      *int64
	Description *string
	Date        *time.Time
}

// TransactionServicer defines the contract for transaction-related business
// logic. Create, update, and delete are wrapped with best-effort audit
// recording: mutations capture before/after snapshots, update and delete
// fail closed when the prior state cannot be read, and audit-write failures
// never change the reported outcome of the primary operation.
type TransactionServicer interface {
	CreateTransaction(actor Actor, transactionType models.TransactionType, category string, amount int64, description string, date time.Time) (*models.Transaction, error)
	GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetAllUserTransactions(userID uint, from, to *time.Time) ([]models.Transaction, error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	UpdateTransaction(actor Actor, transactionID uint, fields TransactionFields) (*models.Transaction, error)
	DeleteTransaction(actor Actor, transactionID uint) error
}

// AuditServicer defines the contract for audit logging. Record never returns
// an error; failures are retried, spilled to the durable queue when one is
// configured, and otherwise logged and dropped.
type AuditServicer interface {
	Record(actor Actor, eventType models.AuditEventType, resource string, resourceID *uint, previousState, newState interface{}, outcome models.AuditOutcome)
	GetAuditLogs(page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error)
}

// Dashboard is the aggregated payload rendered by the dashboard page.
type Dashboard struct {
	Period           reporting.PeriodKey       `json:"period"`
	Summary          reporting.Summary         `json:"summary"`
	ExpenseBreakdown []reporting.CategoryTotal `json:"expense_breakdown"`
	MonthlySeries    []reporting.MonthPoint    `json:"monthly_series"`
	RecentActivity   []reporting.ActivityItem  `json:"recent_activity"`
}

// DashboardServicer defines the contract for dashboard aggregation.
type DashboardServicer interface {
	GetDashboard(userID uint, key reporting.PeriodKey, now time.Time) (*Dashboard, error)
}

// ReportServicer defines the contract for report export.
type ReportServicer interface {
	ExportTransactionsCSV(w io.Writer, userID uint, key reporting.PeriodKey, now time.Time) error
}
