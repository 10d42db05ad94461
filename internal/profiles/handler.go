package profiles

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-matcher/internal/shared/server/middleware"
	"resume-matcher/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/profile", middleware.RequireAuth(), h.get)
	rg.PUT("/profile", middleware.RequireAuth(), h.update)
}

// OwnerFromContext builds the profile owner from the session identity.
func OwnerFromContext(c *gin.Context) Owner {
	return Owner{
		AccountID: middleware.AccountIDFromContext(c),
		Username:  middleware.UsernameFromContext(c),
		FullName:  middleware.UserNameFromContext(c),
		Email:     middleware.UserEmailFromContext(c),
	}
}

type profileResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	College *string `json:"collegeId"`
	Label   string  `json:"college,omitempty"`
	Display string  `json:"label"`
}

func (h *Handler) toResponse(c *gin.Context, p Profile) profileResponse {
	resp := profileResponse{
		ID:      p.ID,
		Name:    p.Name,
		Email:   p.Email,
		College: p.CollegeID,
		Display: p.Label(middleware.UsernameFromContext(c)),
	}
	if p.CollegeID != nil && h.Svc.Colleges != nil {
		if college, err := h.Svc.Colleges.Get(c.Request.Context(), *p.CollegeID); err == nil {
			resp.Label = college.String()
		}
	}
	return resp
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.Svc.GetOrCreate(c.Request.Context(), OwnerFromContext(c))
	if err != nil {
		profileLoadFailed(c, err)
		return
	}
	c.Set(middleware.ProfileIDKey, p.ID)
	respond.OK(c, h.toResponse(c, p))
}

func (h *Handler) update(c *gin.Context) {
	var in UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Validation(c, "invalid request body")
		return
	}

	ctx := c.Request.Context()
	// Make sure there is something to update for accounts created before provisioning.
	if _, err := h.Svc.GetOrCreate(ctx, OwnerFromContext(c)); err != nil {
		profileLoadFailed(c, err)
		return
	}

	p, err := h.Svc.Update(ctx, middleware.AccountIDFromContext(c), in)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Invalid(c, err)
		case errors.Is(err, ErrUnknownCollege):
			respond.Validation(c, "college not found", respond.FieldIssue{Field: "collegeId", Issue: "not_found"})
		case errors.Is(err, ErrEmailTaken):
			respond.Error(c, http.StatusConflict, "email_taken", "email already used by another profile", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update profile", nil)
		}
		return
	}
	c.Set(middleware.ProfileIDKey, p.ID)
	respond.OK(c, h.toResponse(c, p))
}

func profileLoadFailed(c *gin.Context, err error) {
	if errors.Is(err, ErrNoAccount) {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "account no longer exists", nil)
		return
	}
	respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load profile", nil)
}
