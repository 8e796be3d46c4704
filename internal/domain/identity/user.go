package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a user account
type UserStatus string

const (
	UserStatusPending     UserStatus = "pending"
	UserStatusActive      UserStatus = "active"
	UserStatusLocked      UserStatus = "locked"
	UserStatusDeactivated UserStatus = "deactivated"
)

// UserRole represents the platform role of a user
type UserRole string

const (
	RolePlatformAdmin UserRole = "platform_admin"
	RoleSupplierUser  UserRole = "supplier_user"
	RoleCustomerUser  UserRole = "customer_user"
)

// IsValid checks if the role is a valid UserRole
func (r UserRole) IsValid() bool {
	switch r {
	case RolePlatformAdmin, RoleSupplierUser, RoleCustomerUser:
		return true
	}
	return false
}

// Password cost for bcrypt
const bcryptCost = 12

// Account lockout policy
const (
	MaxFailedAttempts = 5
	LockoutDuration   = 15 * time.Minute
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9._-]{3,50}$`)
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// User represents a platform user. Supplier users are scoped to a supplier,
// customer users to a hierarchy node; platform admins have neither scope.
type User struct {
	shared.BaseAggregateRoot
	Username       string     `gorm:"not null;size:50;uniqueIndex"`
	Email          string     `gorm:"size:200;index"`
	PasswordHash   string     `gorm:"not null;size:100"`
	DisplayName    string     `gorm:"size:200"`
	Role           UserRole   `gorm:"not null;size:30"`
	Status         UserStatus `gorm:"not null;size:20;index"`
	SupplierID     *uuid.UUID `gorm:"type:uuid;index"`
	NodeID         *uuid.UUID `gorm:"type:uuid;index"`
	LastLoginAt    *time.Time
	LastLoginIP    string `gorm:"size:45"`
	FailedAttempts int    `gorm:"not null;default:0"`
	LockedUntil    *time.Time
}

// TableName returns the database table name
func (User) TableName() string {
	return "users"
}

// NewUser creates a new user in pending status
func NewUser(username, password string, role UserRole) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if !usernamePattern.MatchString(username) {
		return nil, shared.NewDomainError("INVALID_USERNAME",
			"Username must be 3-50 characters of lowercase letters, digits, dot, dash or underscore")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown user role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          username,
		PasswordHash:      string(hash),
		Role:              role,
		Status:            UserStatusPending,
	}

	user.AddDomainEvent(NewUserCreatedEvent(user))

	return user, nil
}

// NewActiveUser creates a new user that is immediately active
func NewActiveUser(username, password string, role UserRole) (*User, error) {
	user, err := NewUser(username, password, role)
	if err != nil {
		return nil, err
	}
	user.Status = UserStatusActive
	return user, nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 128 characters")
	}
	return nil
}

// SetEmail sets the user's email
func (u *User) SetEmail(email string) error {
	if email != "" {
		email = strings.ToLower(strings.TrimSpace(email))
		if !emailPattern.MatchString(email) {
			return shared.NewDomainError("INVALID_EMAIL", "Email is not a valid address")
		}
	}

	u.Email = email
	u.UpdatedAt = time.Now()

	return nil
}

// SetDisplayName sets the user's display name
func (u *User) SetDisplayName(name string) error {
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_DISPLAY_NAME", "Display name cannot exceed 200 characters")
	}

	u.DisplayName = strings.TrimSpace(name)
	u.UpdatedAt = time.Now()

	return nil
}

// ScopeToSupplier binds the user to a supplier account
func (u *User) ScopeToSupplier(supplierID uuid.UUID) error {
	if u.Role != RoleSupplierUser {
		return shared.NewDomainError("INVALID_SCOPE", "Only supplier users can be scoped to a supplier")
	}
	if supplierID == uuid.Nil {
		return shared.NewDomainError("INVALID_SCOPE", "Supplier ID cannot be empty")
	}

	u.SupplierID = &supplierID
	u.NodeID = nil
	u.UpdatedAt = time.Now()

	return nil
}

// ScopeToNode binds the user to a customer hierarchy node
func (u *User) ScopeToNode(nodeID uuid.UUID) error {
	if u.Role != RoleCustomerUser {
		return shared.NewDomainError("INVALID_SCOPE", "Only customer users can be scoped to a hierarchy node")
	}
	if nodeID == uuid.Nil {
		return shared.NewDomainError("INVALID_SCOPE", "Node ID cannot be empty")
	}

	u.NodeID = &nodeID
	u.SupplierID = nil
	u.UpdatedAt = time.Now()

	return nil
}

// ChangePassword changes the password after verifying the current one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// SetPassword sets a new password without checking the old one (admin reset)
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now()
	u.AddDomainEvent(NewUserPasswordChangedEvent(u))

	return nil
}

// VerifyPassword checks the provided password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// RecordLogin records a successful login and clears failure state
func (u *User) RecordLogin(ip string) {
	now := time.Now()
	u.LastLoginAt = &now
	u.LastLoginIP = ip
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.UpdatedAt = now
}

// RecordFailedAttempt increments the failure counter and locks the account
// once the lockout threshold is reached.
func (u *User) RecordFailedAttempt() {
	u.FailedAttempts++
	u.UpdatedAt = time.Now()

	if u.FailedAttempts >= MaxFailedAttempts && u.Status == UserStatusActive {
		until := time.Now().Add(LockoutDuration)
		u.Status = UserStatusLocked
		u.LockedUntil = &until
		u.AddDomainEvent(NewUserLockedEvent(u))
	}
}

// CanLogin returns true if the account can authenticate right now.
// A locked account whose lockout window has passed may log in again.
func (u *User) CanLogin() bool {
	switch u.Status {
	case UserStatusActive:
		return true
	case UserStatusLocked:
		return u.LockedUntil != nil && time.Now().After(*u.LockedUntil)
	}
	return false
}

// Activate activates the user account
func (u *User) Activate() error {
	if u.Status == UserStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "User is already active")
	}

	u.Status = UserStatusActive
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.UpdatedAt = time.Now()
	u.AddDomainEvent(NewUserStatusChangedEvent(u))

	return nil
}

// Deactivate deactivates the user account
func (u *User) Deactivate() error {
	if u.Status == UserStatusDeactivated {
		return shared.NewDomainError("ALREADY_DEACTIVATED", "User is already deactivated")
	}

	u.Status = UserStatusDeactivated
	u.UpdatedAt = time.Now()
	u.AddDomainEvent(NewUserStatusChangedEvent(u))

	return nil
}

// Unlock clears a lockout before its window expires
func (u *User) Unlock() error {
	if u.Status != UserStatusLocked {
		return shared.NewDomainError("NOT_LOCKED", "User is not locked")
	}

	u.Status = UserStatusActive
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.UpdatedAt = time.Now()
	u.AddDomainEvent(NewUserStatusChangedEvent(u))

	return nil
}
