package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cytutor/backend/internal/model"
	"github.com/cytutor/backend/internal/service"
)

// CookieConfig describes the HTTP-only session cookie that mirrors the token.
type CookieConfig struct {
	Name   string
	Path   string
	Domain string
	Secure bool
}

type AuthHandler struct {
	svc    *service.AuthService
	cookie CookieConfig
	log    logrus.FieldLogger
}

func NewAuthHandler(svc *service.AuthService, cookie CookieConfig, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{svc: svc, cookie: cookie, log: log}
}

// Register godoc
// @Summary Register a new student account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "Account details"
// @Success 201 {object} model.AuthResponse
// @Failure 400 {object} model.ValidationErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	account, token, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	h.log.WithFields(logrus.Fields{"user_id": account.ID, "username": account.Username}).Info("account registered")
	h.setTokenCookie(c, token)
	c.JSON(http.StatusCreated, model.AuthResponse{
		Message: "User registered successfully",
		User:    model.NewUserResponse(*account),
		Token:   token,
	})
}

// Login godoc
// @Summary Login with username or email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Username or email and password"
// @Success 200 {object} model.AuthResponse
// @Failure 400 {object} model.ValidationErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	account, token, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	h.setTokenCookie(c, token)
	c.JSON(http.StatusOK, model.AuthResponse{
		Message: "Login successful",
		User:    model.NewUserResponse(*account),
		Token:   token,
	})
}

// Profile godoc
// @Summary Current account with solve statistics
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.ProfileResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/auth/profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	user, err := h.svc.Profile(c.Request.Context(), GetIdentity(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, model.ProfileResponse{User: user})
}

// Logout godoc
// @Summary Logout
// @Description Revokes the presented token until its expiry and clears the cookie.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.MessageResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	identity := GetIdentity(c)
	if err := h.svc.Logout(c.Request.Context(), identity); err != nil {
		writeError(c, h.log, err)
		return
	}

	h.log.WithField("user_id", identity.Account.ID).Info("account logged out")
	h.clearTokenCookie(c)
	c.JSON(http.StatusOK, model.MessageResponse{Message: "Logout successful"})
}

// Verify godoc
// @Summary Check that the presented token is still valid
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.VerifyResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/auth/verify [get]
func (h *AuthHandler) Verify(c *gin.Context) {
	identity := GetIdentity(c)
	if identity == nil {
		writeError(c, h.log, service.ErrNoAuth)
		return
	}
	c.JSON(http.StatusOK, model.VerifyResponse{
		Message: "Token is valid",
		User:    model.NewUserResponse(identity.Account),
	})
}

// AccountStatus godoc
// @Summary Activate or deactivate an account
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Param request body model.AccountStatusRequest true "Target state"
// @Success 200 {object} model.AccountStatusResponse
// @Failure 400 {object} model.ValidationErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 403 {object} model.PermissionErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/admin/users/{id}/status [patch]
func (h *AuthHandler) AccountStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, h.log, service.ErrUserNotFound)
		return
	}

	var req model.AccountStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	account, err := h.svc.SetAccountActive(c.Request.Context(), id, *req.Active)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	message := "User deactivated"
	if account.IsActive {
		message = "User activated"
	}
	h.log.WithFields(logrus.Fields{
		"user_id":  account.ID,
		"active":   account.IsActive,
		"admin_id": GetIdentity(c).Account.ID,
	}).Info("account status changed")
	c.JSON(http.StatusOK, model.AccountStatusResponse{
		Message: message,
		User:    model.NewUserResponse(*account),
	})
}

func (h *AuthHandler) setTokenCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cookie.Name, token, int(h.svc.TokenTTL().Seconds()), h.cookie.Path, h.cookie.Domain, h.cookie.Secure, true)
}

func (h *AuthHandler) clearTokenCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cookie.Name, "", -1, h.cookie.Path, h.cookie.Domain, h.cookie.Secure, true)
}
