package accounts

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resume-matcher/internal/shared/server/middleware"
	"resume-matcher/internal/shared/server/respond"
	"resume-matcher/internal/shared/telemetry"
)

type Handler struct {
	Svc        *Service
	SessionTTL time.Duration
	Secure     bool
}

func NewHandler(svc *Service, sessionTTL time.Duration, secureCookie bool) *Handler {
	return &Handler{Svc: svc, SessionTTL: sessionTTL, Secure: secureCookie}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.register)
	rg.POST("/login", h.login)
	rg.POST("/logout", h.logout)
	rg.GET("/logout", h.logout)
	rg.GET("/me", middleware.RequireAuth(), h.me)
	rg.DELETE("/account", middleware.RequireAuth(), h.deleteAccount)
}

type accountResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

type sessionResponse struct {
	Account accountResponse `json:"account"`
	Token   string          `json:"token"`
}

func toResponse(acct Account) accountResponse {
	return accountResponse{
		ID:        acct.ID,
		Username:  acct.Username,
		Email:     acct.Email,
		FullName:  acct.FullName(),
		IsAdmin:   acct.IsAdmin,
		CreatedAt: acct.CreatedAt,
	}
}

func (h *Handler) register(c *gin.Context) {
	var in RegisterInput
	if err := c.ShouldBind(&in); err != nil {
		respond.Validation(c, "invalid request body")
		return
	}

	acct, err := h.Svc.Register(c.Request.Context(), in)
	switch {
	case err == nil:
	case errors.Is(err, ErrHookFailed):
		// The upload path provisions lazily, so the account is still usable.
		telemetry.Warn("accounts.register.partial", map[string]any{
			"account_id": acct.ID,
			"err":        err,
		})
	case errors.Is(err, ErrInvalidInput):
		respond.Invalid(c, err)
		return
	case errors.Is(err, ErrUsernameTaken):
		respond.Error(c, http.StatusConflict, "username_taken", "username already taken", nil)
		return
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to register", nil)
		return
	}

	token, err := h.Svc.Issue(acct)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue token", nil)
		return
	}
	h.setSession(c, token)
	respond.JSON(c, http.StatusCreated, sessionResponse{Account: toResponse(acct), Token: token})
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil || req.Username == "" || req.Password == "" {
		respond.Validation(c, "username and password are required")
		return
	}

	acct, token, err := h.Svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			respond.Error(c, http.StatusUnauthorized, "invalid_credentials", "invalid username or password", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to log in", nil)
		return
	}
	h.setSession(c, token)
	respond.JSON(c, http.StatusOK, sessionResponse{Account: toResponse(acct), Token: token})
}

func (h *Handler) logout(c *gin.Context) {
	if _, claims, ok := middleware.SessionFromContext(c); ok {
		if err := h.Svc.Logout(c.Request.Context(), claims); err != nil {
			respond.Error(c, http.StatusServiceUnavailable, "unavailable", "failed to end session", nil)
			return
		}
	}
	h.clearSession(c)
	c.Status(http.StatusNoContent)
}

func (h *Handler) me(c *gin.Context) {
	acct, err := h.Svc.Get(c.Request.Context(), middleware.AccountIDFromContext(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "account not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load account", nil)
		return
	}
	respond.OK(c, toResponse(acct))
}

func (h *Handler) deleteAccount(c *gin.Context) {
	err := h.Svc.Delete(c.Request.Context(), middleware.AccountIDFromContext(c))
	if err != nil && !errors.Is(err, ErrHookFailed) {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "account not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete account", nil)
		return
	}
	if err != nil {
		telemetry.Error("accounts.delete.partial", map[string]any{
			"account_id": middleware.AccountIDFromContext(c),
			"err":        err,
		})
	}
	if _, claims, ok := middleware.SessionFromContext(c); ok {
		_ = h.Svc.Logout(c.Request.Context(), claims)
	}
	h.clearSession(c)
	c.Status(http.StatusNoContent)
}

func (h *Handler) setSession(c *gin.Context, token string) {
	maxAge := int(h.SessionTTL.Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", h.Secure, true)
}

func (h *Handler) clearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.Secure, true)
}
