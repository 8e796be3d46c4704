// Package identity contains the application services for user management
// and authentication.
package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/identity"
	"github.com/orderhub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserService orchestrates user account management
type UserService struct {
	users     identity.UserRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(users identity.UserRepository, publisher shared.EventPublisher, logger *zap.Logger) *UserService {
	return &UserService{
		users:     users,
		publisher: publisher,
		logger:    logger,
	}
}

// Create creates a new user with the requested role and scope
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	role := identity.UserRole(req.Role)
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown user role")
	}

	exists, err := s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A user with this username already exists")
	}

	var user *identity.User
	if req.Active {
		user, err = identity.NewActiveUser(req.Username, req.Password, role)
	} else {
		user, err = identity.NewUser(req.Username, req.Password, role)
	}
	if err != nil {
		return nil, err
	}

	if req.Email != "" {
		if err := user.SetEmail(req.Email); err != nil {
			return nil, err
		}
	}
	if req.DisplayName != "" {
		if err := user.SetDisplayName(req.DisplayName); err != nil {
			return nil, err
		}
	}

	switch role {
	case identity.RoleSupplierUser:
		if req.SupplierID == nil {
			return nil, shared.NewDomainError("INVALID_SCOPE", "Supplier users require a supplier scope")
		}
		if err := user.ScopeToSupplier(*req.SupplierID); err != nil {
			return nil, err
		}
	case identity.RoleCustomerUser:
		if req.NodeID == nil {
			return nil, shared.NewDomainError("INVALID_SCOPE", "Customer users require a hierarchy node scope")
		}
		if err := user.ScopeToNode(*req.NodeID); err != nil {
			return nil, err
		}
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, user)

	s.logger.Info("user created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)

	resp := ToUserResponse(user)
	return &resp, nil
}

// GetByID returns a user by ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// List returns users matching the filter, optionally scoped to a supplier
// or hierarchy node
func (s *UserService) List(ctx context.Context, filter UserListFilter) (*shared.Paginated[UserResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	f.Search = filter.Search

	var (
		users []identity.User
		total int64
		err   error
	)
	switch {
	case filter.SupplierID != nil:
		users, total, err = s.users.FindBySupplier(ctx, *filter.SupplierID, f)
	case filter.NodeID != nil:
		users, total, err = s.users.FindByNode(ctx, *filter.NodeID, f)
	default:
		users, err = s.users.FindAll(ctx, f)
		if err == nil {
			total, err = s.users.Count(ctx, f)
		}
	}
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToUserResponses(users), total, f.Page, f.PageSize)
	return &result, nil
}

// Update changes user profile fields
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		if err := user.SetEmail(*req.Email); err != nil {
			return nil, err
		}
	}
	if req.DisplayName != nil {
		if err := user.SetDisplayName(*req.DisplayName); err != nil {
			return nil, err
		}
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// Activate activates a user account
func (s *UserService) Activate(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	return s.transition(ctx, id, (*identity.User).Activate)
}

// Deactivate deactivates a user account
func (s *UserService) Deactivate(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	return s.transition(ctx, id, (*identity.User).Deactivate)
}

// Unlock clears a lockout before its window expires
func (s *UserService) Unlock(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	return s.transition(ctx, id, (*identity.User).Unlock)
}

// ResetPassword sets a new password on behalf of an administrator
func (s *UserService) ResetPassword(ctx context.Context, id uuid.UUID, req ResetPasswordRequest) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}
	s.publishEvents(ctx, user)
	return nil
}

func (s *UserService) transition(ctx context.Context, id uuid.UUID, apply func(*identity.User) error) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(user); err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, user)

	resp := ToUserResponse(user)
	return &resp, nil
}

func (s *UserService) publishEvents(ctx context.Context, user *identity.User) {
	events := user.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish user events",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
	}
	user.ClearDomainEvents()
}
