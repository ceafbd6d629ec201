package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/authz"
	"github.com/ikkim/storefront-backend/pkg/logger"
	"github.com/ikkim/storefront-backend/pkg/util"
	"gorm.io/gorm"
)

// TokenBlacklist revokes refresh tokens by their jti.
type TokenBlacklist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// UserInput is the admin create/update payload. Empty fields keep their
// current value on update.
type UserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type AuthService interface {
	Register(name, email, password string) (*model.User, *util.TokenPair, error)
	Login(email, password string) (*model.User, *util.TokenPair, error)
	GetUserByID(id uint) (*model.User, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*util.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error

	ListUsers(actor authz.Actor) ([]model.User, error)
	CreateUser(actor authz.Actor, input UserInput) (*model.User, error)
	UpdateUser(actor authz.Actor, id uint, input UserInput) (*model.User, error)
	DeleteUser(actor authz.Actor, id uint) error
}

type authService struct {
	userRepo      repository.UserRepository
	blacklist     TokenBlacklist
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewAuthService builds the account service. blacklist may be nil, in which
// case logout is a client-side operation only.
func NewAuthService(
	userRepo repository.UserRepository,
	blacklist TokenBlacklist,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		blacklist:     blacklist,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

func (s *authService) Register(name, email, password string) (*model.User, *util.TokenPair, error) {
	logger.Info("Attempting user registration", map[string]interface{}{
		"email": email,
		"name":  name,
	})

	user, err := s.createUser(name, email, password, model.RoleCustomer)
	if err != nil {
		return nil, nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return user, tokens, nil
}

func (s *authService) Login(email, password string) (*model.User, *util.TokenPair, error) {
	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			return nil, nil, ErrInvalidCredentials
		}
		logger.Error("Failed to find user", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
		"role":    user.Role,
	})
	return user, tokens, nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("User not found", map[string]interface{}{
				"user_id": id,
			})
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}
	return user, nil
}

// RefreshTokens rotates a refresh token: the presented token is revoked and
// a fresh pair is issued for the current state of the user.
func (s *authService) RefreshTokens(ctx context.Context, refreshToken string) (*util.TokenPair, error) {
	claims, err := s.parseRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	if s.blacklist != nil {
		revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			logger.Warn("Revoked refresh token presented", map[string]interface{}{
				"user_id": claims.UserID,
			})
			return nil, ErrTokenRevoked
		}
	}

	user, err := s.GetUserByID(claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}

	if s.blacklist != nil {
		if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingValidity()); err != nil {
			logger.Error("Failed to revoke rotated refresh token", err, map[string]interface{}{
				"user_id": user.ID,
			})
		}
	}

	logger.Info("Tokens refreshed", map[string]interface{}{
		"user_id": user.ID,
	})
	return tokens, nil
}

// Logout revokes the refresh token. An invalid or expired token is already
// unusable, so it is not reported.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if s.blacklist == nil || refreshToken == "" {
		return nil
	}
	claims, err := s.parseRefreshToken(refreshToken)
	if err != nil {
		return nil
	}
	if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingValidity()); err != nil {
		logger.Error("Failed to revoke refresh token on logout", err, map[string]interface{}{
			"user_id": claims.UserID,
		})
		return err
	}

	logger.Info("User logged out", map[string]interface{}{
		"user_id": claims.UserID,
	})
	return nil
}

func (s *authService) ListUsers(actor authz.Actor) ([]model.User, error) {
	if !authz.Can(actor, authz.ActionManageUsers, nil) {
		return nil, ErrAdminOnly
	}
	return s.userRepo.FindAll()
}

func (s *authService) CreateUser(actor authz.Actor, input UserInput) (*model.User, error) {
	if !authz.Can(actor, authz.ActionManageUsers, nil) {
		return nil, ErrAdminOnly
	}

	role := model.RoleCustomer
	if input.Role != "" {
		parsed, err := parseRole(input.Role)
		if err != nil {
			return nil, err
		}
		role = parsed
	}

	user, err := s.createUser(input.Name, input.Email, input.Password, role)
	if err != nil {
		return nil, err
	}

	logger.Info("User created by admin", map[string]interface{}{
		"user_id":  user.ID,
		"role":     user.Role,
		"admin_id": actor.UserID,
	})
	return user, nil
}

func (s *authService) UpdateUser(actor authz.Actor, id uint, input UserInput) (*model.User, error) {
	if !authz.Can(actor, authz.ActionManageUsers, nil) {
		return nil, ErrAdminOnly
	}

	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		user.Name = strings.TrimSpace(input.Name)
	}
	if input.Email != "" {
		email := normalizeEmail(input.Email)
		if email != user.Email {
			if err := s.ensureEmailFree(email); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}
	if input.Role != "" {
		role, err := parseRole(input.Role)
		if err != nil {
			return nil, err
		}
		user.Role = role
	}

	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to update user", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}

	logger.Info("User updated by admin", map[string]interface{}{
		"user_id":  id,
		"admin_id": actor.UserID,
	})
	return user, nil
}

func (s *authService) DeleteUser(actor authz.Actor, id uint) error {
	if !authz.Can(actor, authz.ActionManageUsers, nil) {
		return ErrAdminOnly
	}
	if err := s.userRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		logger.Error("Failed to delete user", err, map[string]interface{}{
			"user_id": id,
		})
		return err
	}

	logger.Info("User deleted by admin", map[string]interface{}{
		"user_id":  id,
		"admin_id": actor.UserID,
	})
	return nil
}

func (s *authService) createUser(name, email, password string, role model.UserRole) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}

	if err := s.ensureEmailFree(email); err != nil {
		return nil, err
	}

	hashedPassword, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         role,
	}
	if err := s.userRepo.Create(user); err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}
	return user, nil
}

func (s *authService) ensureEmailFree(email string) error {
	existing, err := s.userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"email": email,
		})
		return err
	}
	if existing != nil {
		logger.Warn("Email already registered", map[string]interface{}{
			"email": email,
		})
		return ErrEmailAlreadyExists
	}
	return nil
}

func (s *authService) issueTokens(user *model.User) (*util.TokenPair, error) {
	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.Role),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}
	return tokens, nil
}

func (s *authService) parseRefreshToken(token string) (*util.Claims, error) {
	claims, err := util.ValidateToken(token, s.jwtSecret)
	if err != nil {
		if errors.Is(err, util.ErrExpiredToken) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if claims.TokenType != util.TokenTypeRefresh {
		return nil, ErrInvalidToken.WithMessage("Not a refresh token")
	}
	return claims, nil
}

func parseRole(role string) (model.UserRole, error) {
	switch model.UserRole(strings.ToLower(strings.TrimSpace(role))) {
	case model.RoleCustomer:
		return model.RoleCustomer, nil
	case model.RoleAdmin:
		return model.RoleAdmin, nil
	}
	return "", ErrInvalidRole
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
