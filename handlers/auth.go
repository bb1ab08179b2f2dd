package handlers

import (
	"errors"
	"net/http"

	"mindnest/middleware"
	"mindnest/services/identity"
	"mindnest/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler signs users in and out through the configured identity provider.
type AuthHandler struct {
	Provider identity.Provider
	// Registrar is nil when accounts are managed by an external provider.
	Registrar identity.Registrar
}

func NewAuthHandler(provider identity.Provider) *AuthHandler {
	h := &AuthHandler{Provider: provider}
	if r, ok := provider.(identity.Registrar); ok {
		h.Registrar = r
	}
	return h
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	IDToken  string `json:"idToken"`
}

// LoginHandler writes the session cookies on success.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	logger := getLogger(c)

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, logger, utils.NewAppError(utils.CodeValidation, "Invalid request body", http.StatusBadRequest, err))
		return
	}

	session, cookies, err := h.Provider.Login(c.Request.Context(), identity.Credentials{
		Email:    req.Email,
		Password: req.Password,
		IDToken:  req.IDToken,
	})
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			utils.RespondError(c, logger, utils.NewAppError(utils.CodeUnauthorized, "Invalid credentials", http.StatusUnauthorized, err))
			return
		}
		utils.RespondError(c, logger, utils.NewAppError(utils.CodeInternal, "Login failed", http.StatusInternalServerError, err))
		return
	}

	for _, cookie := range cookies {
		http.SetCookie(c.Writer, cookie)
	}
	logger.Info("User signed in", zap.String("userId", session.UserID))
	c.JSON(http.StatusOK, gin.H{"userId": session.UserID, "email": session.Email})
}

type registerRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterHandler creates a patient account and signs it in.
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	logger := getLogger(c)

	if h.Registrar == nil {
		utils.RespondError(c, logger, utils.NewAppError(utils.CodeNotFound, "Registration is handled by the sign-in provider", http.StatusNotFound, nil))
		return
	}

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, logger, utils.NewAppError(utils.CodeValidation, "Invalid request: "+err.Error(), http.StatusBadRequest, err))
		return
	}

	session, cookies, err := h.Registrar.Register(c.Request.Context(), req.FullName, identity.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		if errors.Is(err, identity.ErrInvalidRegistration) {
			utils.RespondError(c, logger, utils.NewAppError(utils.CodeValidation, err.Error(), http.StatusBadRequest, err))
			return
		}
		utils.RespondError(c, logger, utils.NewAppError(utils.CodeInternal, "Registration failed", http.StatusInternalServerError, err))
		return
	}

	for _, cookie := range cookies {
		http.SetCookie(c.Writer, cookie)
	}
	c.JSON(http.StatusCreated, gin.H{"userId": session.UserID, "email": session.Email})
}

func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	logger := getLogger(c)

	cookies, err := h.Provider.Logout(c.Request.Context(), c.Request)
	for _, cookie := range cookies {
		http.SetCookie(c.Writer, cookie)
	}
	if err != nil {
		logger.Warn("Logout did not revoke session", zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// MeHandler returns the principal resolved by the access guard.
func (h *AuthHandler) MeHandler(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.RespondError(c, getLogger(c), utils.NewAppError(utils.CodeUnauthorized, "Authentication required", http.StatusUnauthorized, nil))
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": p.UserID, "email": p.Email})
}
