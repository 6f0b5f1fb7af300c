// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"tally/internal/models"
	"tally/internal/reporting"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("period_key", validatePeriodKey)
		_ = v.RegisterValidation("user_role", validateUserRole)
	}
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch models.TransactionType(fl.Field().String()) {
	case models.TransactionTypeIncome, models.TransactionTypeExpense:
		return true
	}
	return false
}

func validatePeriodKey(fl validator.FieldLevel) bool {
	_, ok := reporting.ParsePeriodKey(fl.Field().String())
	return ok
}

func validateUserRole(fl validator.FieldLevel) bool {
	_, ok := models.ParseRole(fl.Field().String())
	return ok
}
