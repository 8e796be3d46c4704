package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/identity"
	"github.com/orderhub/backend/internal/domain/shared"
	"github.com/orderhub/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// ErrInvalidCredentials is returned for unknown users and wrong passwords
// alike, so login probes cannot tell accounts apart.
var ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")

// ErrAccountLocked is returned while a lockout window is open
var ErrAccountLocked = shared.NewDomainError("ACCOUNT_LOCKED", "Account is temporarily locked")

// AuthService handles login, token refresh and logout
type AuthService struct {
	users     identity.UserRepository
	tokens    *auth.JWTService
	blacklist auth.TokenBlacklist
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users identity.UserRepository, tokens *auth.JWTService, blacklist auth.TokenBlacklist, publisher shared.EventPublisher, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		blacklist: blacklist,
		publisher: publisher,
		logger:    logger,
	}
}

// Login authenticates a user and issues a token pair
func (s *AuthService) Login(ctx context.Context, req LoginRequest, ip string) (*LoginResponse, error) {
	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.CanLogin() {
		if user.Status == identity.UserStatusLocked {
			return nil, ErrAccountLocked
		}
		return nil, ErrInvalidCredentials
	}

	if !user.VerifyPassword(req.Password) {
		user.RecordFailedAttempt()
		if saveErr := s.users.Save(ctx, user); saveErr != nil {
			s.logger.Error("failed to record login failure", zap.Error(saveErr))
		}
		s.publishEvents(ctx, user)
		return nil, ErrInvalidCredentials
	}

	// An expired lockout clears on successful login.
	if user.Status == identity.UserStatusLocked {
		if err := user.Unlock(); err != nil {
			return nil, err
		}
	}
	user.RecordLogin(ip)
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, user)

	pair, err := s.tokens.GenerateTokenPair(tokenInput(user))
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("ip", ip),
	)

	return &LoginResponse{Tokens: pair, User: ToUserResponse(user)}, nil
}

// Refresh rotates a token pair. The new tokens carry the user's current
// role and scope, so scope changes take effect on refresh.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*auth.TokenPair, error) {
	claims, err := s.tokens.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, err
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, auth.ErrInvalidClaims
	}

	if blacklisted, err := s.blacklist.IsBlacklisted(ctx, claims.ID); err != nil {
		return nil, err
	} else if blacklisted {
		return nil, auth.ErrTokenBlacklisted
	}
	if invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, userID.String(), claims.GetIssuedAtTime()); err != nil {
		return nil, err
	} else if invalidated {
		return nil, auth.ErrTokenBlacklisted
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.CanLogin() {
		return nil, shared.ErrUnauthorized
	}

	return s.tokens.RefreshTokenPair(req.RefreshToken, tokenInput(user))
}

// Logout revokes the presented access token for its remaining lifetime
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	ttl := claims.GetRemainingTTL()
	if ttl <= 0 {
		return nil
	}
	return s.blacklist.AddToBlacklist(ctx, claims.ID, ttl)
}

// LogoutAll revokes every token issued to the user before now
func (s *AuthService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	return s.blacklist.AddUserTokensToBlacklist(ctx, userID.String(), s.tokens.GetRefreshTokenExpiration())
}

// ChangePassword changes the caller's password and revokes outstanding
// tokens
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}
	s.publishEvents(ctx, user)

	return s.LogoutAll(ctx, userID)
}

func tokenInput(user *identity.User) auth.GenerateTokenInput {
	return auth.GenerateTokenInput{
		UserID:     user.ID,
		Username:   user.Username,
		Role:       user.Role,
		SupplierID: user.SupplierID,
		NodeID:     user.NodeID,
	}
}

func (s *AuthService) publishEvents(ctx context.Context, user *identity.User) {
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
