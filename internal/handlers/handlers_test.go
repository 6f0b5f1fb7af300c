package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"tally/internal/middleware"
	"tally/internal/models"
	"tally/internal/pagination"
	"tally/internal/reporting"
	"tally/internal/services"
	"tally/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

// injectIdentity simulates the auth middleware for handler tests.
func injectIdentity(userID uint, email, displayName string, role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextEmail, email)
		c.Set(middleware.ContextDisplayName, displayName)
		c.Set(middleware.ContextRole, string(role))
		c.Next()
	}
}

func performRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body
}

// mockUserService implements services.UserServicer with overridable funcs.
type mockUserService struct {
	createUserFn            func(email, password, displayName string, role models.Role) (*models.User, error)
	getUserByIDFn           func(id uint) (*models.User, error)
	attemptLoginFn          func(email, password string) (*models.User, error)
	getRefreshTokenHashFn   func(userID uint) (string, error)
	storeRefreshTokenHashFn func(userID uint, tokenHash string) error
	listUsersFn             func(page pagination.PageRequest) (*pagination.PageResponse[models.User], error)
	setUserRoleFn           func(actor services.Actor, userID uint, role models.Role) (*models.User, error)
	setUserActiveFn         func(actor services.Actor, userID uint, active bool) (*models.User, error)
}

func (m *mockUserService) CreateUser(email, password, displayName string, role models.Role) (*models.User, error) {
	return m.createUserFn(email, password, displayName, role)
}

func (m *mockUserService) GetUserByEmail(email string) (*models.User, error) {
	return nil, nil
}

func (m *mockUserService) GetUserByID(id uint) (*models.User, error) {
	return m.getUserByIDFn(id)
}

func (m *mockUserService) VerifyPassword(user *models.User, password string) bool {
	return true
}

func (m *mockUserService) AttemptLogin(email, password string) (*models.User, error) {
	return m.attemptLoginFn(email, password)
}

func (m *mockUserService) StoreRefreshTokenHash(userID uint, tokenHash string) error {
	if m.storeRefreshTokenHashFn != nil {
		return m.storeRefreshTokenHashFn(userID, tokenHash)
	}
	return nil
}

func (m *mockUserService) GetRefreshTokenHash(userID uint) (string, error) {
	return m.getRefreshTokenHashFn(userID)
}

func (m *mockUserService) ListUsers(page pagination.PageRequest) (*pagination.PageResponse[models.User], error) {
	return m.listUsersFn(page)
}

func (m *mockUserService) SetUserRole(actor services.Actor, userID uint, role models.Role) (*models.User, error) {
	return m.setUserRoleFn(actor, userID, role)
}

func (m *mockUserService) SetUserActive(actor services.Actor, userID uint, active bool) (*models.User, error) {
	return m.setUserActiveFn(actor, userID, active)
}

// mockTransactionService implements services.TransactionServicer.
type mockTransactionService struct {
	createFn  func(actor services.Actor, transactionType models.TransactionType, category string, amount int64, description string, date time.Time) (*models.Transaction, error)
	listFn    func(userID uint, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	listAllFn func(userID uint, from, to *time.Time) ([]models.Transaction, error)
	getFn     func(userID, transactionID uint) (*models.Transaction, error)
	updateFn  func(actor services.Actor, transactionID uint, fields services.TransactionFields) (*models.Transaction, error)
	deleteFn  func(actor services.Actor, transactionID uint) error
}

func (m *mockTransactionService) CreateTransaction(actor services.Actor, transactionType models.TransactionType, category string, amount int64, description string, date time.Time) (*models.Transaction, error) {
	return m.createFn(actor, transactionType, category, amount, description, date)
}

func (m *mockTransactionService) GetUserTransactions(userID uint, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	return m.listFn(userID, page, filter)
}

func (m *mockTransactionService) GetAllUserTransactions(userID uint, from, to *time.Time) ([]models.Transaction, error) {
	return m.listAllFn(userID, from, to)
}

func (m *mockTransactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	return m.getFn(userID, transactionID)
}

func (m *mockTransactionService) UpdateTransaction(actor services.Actor, transactionID uint, fields services.TransactionFields) (*models.Transaction, error) {
	return m.updateFn(actor, transactionID, fields)
}

func (m *mockTransactionService) DeleteTransaction(actor services.Actor, transactionID uint) error {
	return m.deleteFn(actor, transactionID)
}

// mockDashboardService implements services.DashboardServicer.
type mockDashboardService struct {
	getDashboardFn func(userID uint, key reporting.PeriodKey, now time.Time) (*services.Dashboard, error)
}

func (m *mockDashboardService) GetDashboard(userID uint, key reporting.PeriodKey, now time.Time) (*services.Dashboard, error) {
	return m.getDashboardFn(userID, key, now)
}

// mockReportService implements services.ReportServicer.
type mockReportService struct {
	exportFn func(w io.Writer, userID uint, key reporting.PeriodKey, now time.Time) error
}

func (m *mockReportService) ExportTransactionsCSV(w io.Writer, userID uint, key reporting.PeriodKey, now time.Time) error {
	return m.exportFn(w, userID, key, now)
}

// mockAuditService implements services.AuditServicer.
type mockAuditService struct {
	getAuditLogsFn func(page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error)
}

func (m *mockAuditService) Record(actor services.Actor, eventType models.AuditEventType, resource string, resourceID *uint, previousState, newState interface{}, outcome models.AuditOutcome) {
}

func (m *mockAuditService) GetAuditLogs(page pagination.PageRequest) (*pagination.PageResponse[models.AuditLog], error) {
	return m.getAuditLogsFn(page)
}
