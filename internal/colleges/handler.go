package colleges

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
	rg.GET("/colleges", h.list)

	admin := rg.Group("/admin", middleware.RequireAdmin())
	admin.POST("/colleges", h.create)
	admin.DELETE("/colleges/:id", h.delete)
}

type collegeResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Label      string `json:"label"`
}

func toResponse(college College) collegeResponse {
	return collegeResponse{
		ID:         college.ID,
		Name:       college.Name,
		Department: college.Department,
		Label:      college.String(),
	}
}

func (h *Handler) list(c *gin.Context) {
	colleges, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list colleges", nil)
		return
	}
	resp := make([]collegeResponse, 0, len(colleges))
	for _, college := range colleges {
		resp = append(resp, toResponse(college))
	}
	respond.OK(c, resp)
}

type createRequest struct {
	Name       string `json:"name" form:"name"`
	Department string `json:"department" form:"department"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBind(&req); err != nil {
		respond.Validation(c, "invalid request body")
		return
	}
	college, err := h.Svc.Create(c.Request.Context(), req.Name, req.Department)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Invalid(c, err)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create college", nil)
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(college))
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "college not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete college", nil)
		return
	}
	c.Status(http.StatusNoContent)
}
