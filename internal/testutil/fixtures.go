package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"tally/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a standard user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a standard user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	return createUser(t, db, email, models.RoleStandard)
}

// CreateTestAdmin creates an admin user with a unique email.
func CreateTestAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("admin%d@test.com", nextID())
	return createUser(t, db, email, models.RoleAdmin)
}

func createUser(t *testing.T, db *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:       email,
		Password:    string(hash),
		DisplayName: fmt.Sprintf("Test User %d", nextID()),
		Role:        role,
		IsActive:    true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestTransaction creates a transaction of the given type and amount (in cents).
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID uint, txType models.TransactionType, category string, amount int64, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:   userID,
		Type:     txType,
		Category: category,
		Amount:   amount,
		Date:     date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}
