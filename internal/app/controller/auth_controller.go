package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/service"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/middleware"
	"github.com/ikkim/storefront-backend/pkg/util"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type UserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,min=6"`
	Role     string `json:"role"`
}

type authResponse struct {
	User   *model.User     `json:"user"`
	Tokens *util.TokenPair `json:"tokens"`
}

// Register handles user registration
// POST /api/users/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err, "Name, valid email and a password of at least 6 characters are required")
		return
	}

	user, tokens, err := ctrl.authService.Register(req.Name, req.Email, req.Password)
	if err != nil {
		apperrors.Respond(c, err, "register user")
		return
	}

	log.Info("User registered", map[string]interface{}{
		"user_id": user.ID,
	})
	c.JSON(http.StatusCreated, authResponse{User: user, Tokens: tokens})
}

// Login handles user login
// POST /api/users/login
func (ctrl *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err, "Email and password are required")
		return
	}

	user, tokens, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		apperrors.Respond(c, err, "login")
		return
	}

	c.JSON(http.StatusOK, authResponse{User: user, Tokens: tokens})
}

// GetProfile returns the authenticated user
// GET /api/users/profile
func (ctrl *AuthController) GetProfile(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	user, err := ctrl.authService.GetUserByID(actor.UserID)
	if err != nil {
		apperrors.Respond(c, err, "get user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// RefreshToken rotates a refresh token
// POST /api/users/refresh-token
func (ctrl *AuthController) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err, "Refresh token is required")
		return
	}

	tokens, err := ctrl.authService.RefreshTokens(c.Request.Context(), req.RefreshToken)
	if err != nil {
		apperrors.Respond(c, err, "refresh token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// Logout revokes the refresh token when one is given
// POST /api/users/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	var req LogoutRequest
	// an empty body is a valid logout
	_ = c.ShouldBindJSON(&req)

	if err := ctrl.authService.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		apperrors.Respond(c, err, "logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// ListUsers GET /api/admin/users
func (ctrl *AuthController) ListUsers(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	users, err := ctrl.authService.ListUsers(actor)
	if err != nil {
		apperrors.Respond(c, err, "list users")
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

// CreateUser POST /api/admin/users
func (ctrl *AuthController) CreateUser(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err, "Invalid user data")
		return
	}

	user, err := ctrl.authService.CreateUser(actor, service.UserInput(req))
	if err != nil {
		apperrors.Respond(c, err, "create user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// UpdateUser PUT /api/admin/users/:id
func (ctrl *AuthController) UpdateUser(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err, "Invalid user data")
		return
	}

	user, err := ctrl.authService.UpdateUser(actor, id, service.UserInput(req))
	if err != nil {
		apperrors.Respond(c, err, "update user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DeleteUser DELETE /api/admin/users/:id
func (ctrl *AuthController) DeleteUser(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.authService.DeleteUser(actor, id); err != nil {
		apperrors.Respond(c, err, "delete user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
