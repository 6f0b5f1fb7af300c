package models

import "time"

// TransactionType represents the type of transaction
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// Transaction represents a financial transaction in the system.
// Amount is stored in minor currency units (cents); the sign of a
// transaction is always carried by Type, never by a negative amount.
type Transaction struct {
	Base
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	Type        TransactionType `gorm:"not null" json:"type"`
	Category    string          `gorm:"not null" json:"category"`
	Amount      int64           `gorm:"type:bigint;not null" json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
}

// SuggestedCategories is the fixed list offered to clients when creating a
// transaction. Categories remain free-form strings; this list is advisory.
var SuggestedCategories = []string{
	"Client Payment",
	"Consulting",
	"Product Sales",
	"Other Income",
	"Rent",
	"Salaries",
	"Utilities",
	"Software",
	"Marketing",
	"Travel",
	"Office Supplies",
	"Insurance",
	"Taxes",
	"Other Expense",
}
