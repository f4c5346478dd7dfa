package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quizzy-api/internal/handler/dto"
	"github.com/yourusername/quizzy-api/internal/service"
	"github.com/yourusername/quizzy-api/pkg/auth/manager"
)

// UserHandler handles signup, login, logout and profile requests.
type UserHandler struct {
	authService   *service.AuthService
	cookieManager *manager.SessionCookieManager
}

// NewUserHandler creates a new user handler.
func NewUserHandler(authService *service.AuthService, cookieManager *manager.SessionCookieManager) *UserHandler {
	return &UserHandler{
		authService:   authService,
		cookieManager: cookieManager,
	}
}

// SignupRequest is the registration payload.
type SignupRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=50"`
}

// LoginRequest carries the identity token obtained from the external
// verifier's client SDK.
type LoginRequest struct {
	Token string `json:"token" binding:"required"`
}

// Signup handles user registration.
func (h *UserHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Signup(c.Request.Context(), service.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	log.Printf("[UserHandler] User ID=%d (%s) registered", user.ID, user.Email)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User created successfully",
		"user_id": user.ID,
	})
}

// Login verifies an identity token and starts a session via cookie.
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Token)
	if err != nil {
		respondError(c, err)
		return
	}

	h.cookieManager.SetSessionCookie(c.Writer, token)

	log.Printf("[UserHandler] User ID=%d logged in", user.ID)
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"user_id": user.ID,
	})
}

// Logout clears the session cookie. Tokens are stateless, so this does not
// revoke outstanding copies of the token.
func (h *UserHandler) Logout(c *gin.Context) {
	h.cookieManager.ClearSessionCookie(c.Writer)
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Logged out",
	})
}

// Health reports service liveness.
func (h *UserHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Me returns the authenticated user's profile.
func (h *UserHandler) Me(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	user, err := h.authService.GetUserByID(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserDTO(user))
}

// UpdateProfileRequest is the profile update payload.
type UpdateProfileRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
}

// UpdateProfile changes the authenticated user's username.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.UpdateUserProfile(userID, req.Username); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Profile updated"})
}
