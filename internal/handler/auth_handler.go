package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizportal/quizportal-backend/internal/config"
	"github.com/quizportal/quizportal-backend/internal/middleware"
	"github.com/quizportal/quizportal-backend/internal/model"
	"github.com/quizportal/quizportal-backend/internal/response"
	"github.com/quizportal/quizportal-backend/internal/service"
	"github.com/quizportal/quizportal-backend/internal/validator"
)

// AuthHandler handles signup, login, logout, and session verification.
type AuthHandler struct {
	authService *service.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

// Signup godoc
// POST /api/v1/auth/signup
// Creates an account and starts a session immediately.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.authService.Signup(c.Request.Context(), &req)
	if err != nil {
		failFromError(c, err)
		return
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	h.setSessionCookie(c, token)
	response.Success(c, http.StatusOK, gin.H{"user": user.Summary()})
}

// Login godoc
// POST /api/v1/auth/login
// Verifies credentials and sets the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, err := h.authService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		failFromError(c, err)
		return
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	h.setSessionCookie(c, token)
	response.Success(c, http.StatusOK, gin.H{"user": user.Summary()})
}

// Logout godoc
// POST /api/v1/auth/logout
// Clears the session cookie. Always succeeds.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", h.cfg.CookieSecure, true)
	response.Success(c, http.StatusOK, gin.H{"message": "logged out"})
}

// Verify godoc
// GET /api/v1/auth/verify
// Returns the current session's user, re-read from the database so a
// deleted account invalidates the session even before token expiry.
func (h *AuthHandler) Verify(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetByID(c.Request.Context(), userID)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user.Summary()})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(
		middleware.SessionCookieName,
		token,
		int(h.authService.TokenExpiry().Seconds()),
		"/",
		"",
		h.cfg.CookieSecure,
		true,
	)
}
