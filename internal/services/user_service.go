package services

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "tally/internal/errors"
	"tally/internal/models"
	"tally/internal/pagination"
)

const (
	maxFailedLogins = 5
	lockoutDuration = 15 * time.Minute
)

// userSnapshot is the serialized form of the user fields that appear in
// audit entries for role and activation changes. Credentials never appear.
type userSnapshot struct {
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
	IsActive bool        `json:"is_active"`
}

func userSnapshotOf(user *models.User) userSnapshot {
	return userSnapshot{Email: user.Email, Role: user.Role, IsActive: user.IsActive}
}

// userService handles user-related business logic.
type userService struct {
	db      *gorm.DB
	auditor AuditServicer
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB, auditor AuditServicer) UserServicer {
	return &userService{db: db, auditor: auditor}
}

// CreateUser registers a new user
func (s *userService) CreateUser(email, password, displayName string, role models.Role) (*models.User, error) {
	// Validate input
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}

	// Check if user with email exists
	var count int64
	s.db.Model(&models.User{}).Where("email = ?", strings.ToLower(email)).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateEmail
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Email:       strings.ToLower(email),
		Password:    string(hashedPassword),
		DisplayName: displayName,
		Role:        role,
		IsActive:    true,
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return user, nil
}

// GetUserByEmail retrieves an active user by email
func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ? AND is_active = ?", strings.ToLower(email), true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// VerifyPassword checks if the provided password matches the stored hash
func (s *userService) VerifyPassword(user *models.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	return err == nil
}

// AttemptLogin verifies credentials with lockout handling. Failed attempts
// increment a counter; exceeding the limit locks the account temporarily.
func (s *userService) AttemptLogin(email, password string) (*models.User, error) {
	user, err := s.GetUserByEmail(email)
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.LockedUntil != nil && user.LockedUntil.After(time.Now()) {
		return nil, apperrors.ErrAccountLocked
	}

	if !s.VerifyPassword(user, password) {
		updates := map[string]interface{}{
			"failed_login_attempts": user.FailedLoginAttempts + 1,
		}
		if user.FailedLoginAttempts+1 >= maxFailedLogins {
			lockedUntil := time.Now().Add(lockoutDuration)
			updates["locked_until"] = lockedUntil
		}
		s.db.Model(user).Updates(updates)
		return nil, apperrors.ErrInvalidCredentials
	}

	now := time.Now()
	s.db.Model(user).Updates(map[string]interface{}{
		"failed_login_attempts": 0,
		"locked_until":          nil,
		"last_login_at":         now,
	})
	return user, nil
}

// StoreRefreshTokenHash persists the hash of the user's current refresh token.
func (s *userService) StoreRefreshTokenHash(userID uint, tokenHash string) error {
	if err := s.db.Model(&models.User{}).Where("id = ?", userID).
		Update("refresh_token_hash", tokenHash).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetRefreshTokenHash returns the stored refresh token hash for a user.
func (s *userService) GetRefreshTokenHash(userID uint) (string, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return "", err
	}
	return user.RefreshTokenHash, nil
}

// ListUsers returns a paginated list of all users, newest first.
func (s *userService) ListUsers(page pagination.PageRequest) (*pagination.PageResponse[models.User], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.User{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var users []models.User
	if err := s.db.Scopes(pagination.Paginate(page)).
		Order("created_at DESC").
		Find(&users).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(users, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// SetUserRole changes a user's role. Administrators cannot demote themselves;
// the change is audited with before/after snapshots.
func (s *userService) SetUserRole(actor Actor, userID uint, role models.Role) (*models.User, error) {
	if actor.ID == userID && role != models.RoleAdmin {
		return nil, apperrors.ErrSelfDemotion
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	previous := userSnapshotOf(user)

	if err := s.db.Model(user).Update("role", role).Error; err != nil {
		s.auditor.Record(actor, models.AuditEventUpdate, "user", &userID,
			previous, nil, models.AuditOutcomeFailure)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.auditor.Record(actor, models.AuditEventUpdate, "user", &userID,
		previous, userSnapshotOf(user), models.AuditOutcomeSuccess)
	return user, nil
}

// SetUserActive activates or deactivates a user. Administrators cannot
// deactivate themselves.
func (s *userService) SetUserActive(actor Actor, userID uint, active bool) (*models.User, error) {
	if actor.ID == userID && !active {
		return nil, apperrors.ErrSelfDemotion
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	previous := userSnapshotOf(user)

	if err := s.db.Model(user).Update("is_active", active).Error; err != nil {
		s.auditor.Record(actor, models.AuditEventUpdate, "user", &userID,
			previous, nil, models.AuditOutcomeFailure)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.auditor.Record(actor, models.AuditEventUpdate, "user", &userID,
		previous, userSnapshotOf(user), models.AuditOutcomeSuccess)
	return user, nil
}
