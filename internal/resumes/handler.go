package resumes

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-matcher/internal/profiles"
	"resume-matcher/internal/shared/server/middleware"
	"resume-matcher/internal/shared/server/respond"
	"resume-matcher/internal/shared/storage/object"
	"resume-matcher/internal/shared/telemetry"
)

const readBackNotice = "Could not read your PDF."

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
	// ServeMedia exposes stored resume bytes through the app. Debug only.
	ServeMedia bool
}

func NewHandler(svc *Service, serveMedia bool) *Handler {
	return &Handler{Svc: svc, ServeMedia: serveMedia}
}

// RegisterRoutes attaches resume routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	authed := rg.Group("", middleware.RequireAuth())
	authed.GET("/upload", h.form)
	authed.POST("/upload", h.upload)
	authed.GET("/resumes", h.list)
	authed.POST("/uploads/presign", h.presign)
	authed.POST("/resumes/from-storage", h.fromStorage)
	if h.ServeMedia {
		authed.GET("/media/resumes/:id", h.media)
	}
}

func (h *Handler) form(c *gin.Context) {
	respond.OK(c, uploadFormResponse{
		Field:    "file",
		Accept:   PDFContentType,
		MaxBytes: h.Svc.MaxBytes,
		Notice:   c.Query("error"),
	})
}

func (h *Handler) upload(c *gin.Context) {
	if h.Svc.MaxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Svc.MaxBytes)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds upload limit", nil)
			return
		}
		respond.Validation(c, "file is required", respond.FieldIssue{Field: "file", Issue: "required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Validation(c, "unable to read file", respond.FieldIssue{Field: "file", Issue: "unreadable"})
		return
	}
	defer file.Close()

	owner := profiles.OwnerFromContext(c)
	report, err := h.Svc.Analyze(c.Request.Context(), owner, File{
		Name:        fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Body:        file,
	})
	if report.Resume.ID != "" {
		c.Set(middleware.ResumeIDKey, report.Resume.ID)
		c.Set(middleware.ProfileIDKey, report.Resume.ProfileID)
	}
	if err != nil {
		switch {
		case errors.Is(err, ErrWrongExtension), errors.Is(err, ErrWrongContentType):
			issue, msg := issueFor(err)
			respond.Validation(c, msg, respond.FieldIssue{Field: "file", Issue: issue})
		case errors.Is(err, profiles.ErrNoAccount):
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "account no longer exists", nil)
		case errors.Is(err, ErrReadBack):
			// The resume stays saved; send the user back to the form with a notice.
			c.Redirect(http.StatusSeeOther, "/upload?error="+url.QueryEscape(readBackNotice))
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store resume", nil)
		}
		return
	}

	respond.OK(c, toReportResponse(report, owner.Username))
}

func (h *Handler) list(c *gin.Context) {
	profile, items, err := h.Svc.List(c.Request.Context(), middleware.AccountIDFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list resumes", nil)
		return
	}
	if profile.ID != "" {
		c.Set(middleware.ProfileIDKey, profile.ID)
	}
	username := middleware.UsernameFromContext(c)
	resp := make([]resumeResponse, 0, len(items))
	for _, res := range items {
		resp = append(resp, toResumeResponse(res, username))
	}
	respond.OK(c, resp)
}

func (h *Handler) presign(c *gin.Context) {
	var req presignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Validation(c, "invalid request body")
		return
	}

	out, err := h.Svc.PresignUpload(c.Request.Context(),
		middleware.AccountIDFromContext(c),
		strings.TrimSpace(req.FileName),
		strings.TrimSpace(req.ContentType),
		req.SizeBytes,
	)
	if err != nil {
		switch {
		case errors.Is(err, ErrWrongExtension), errors.Is(err, ErrWrongContentType):
			issue, msg := issueFor(err)
			respond.Validation(c, msg, respond.FieldIssue{Field: "fileName", Issue: issue})
		case errors.Is(err, ErrTooLarge):
			respond.Validation(c, "sizeBytes exceeds limit", respond.FieldIssue{Field: "sizeBytes", Issue: "too_large"})
		case errors.Is(err, ErrInvalidInput):
			respond.Validation(c, err.Error())
		case errors.Is(err, ErrPresignUnsupported):
			respond.Error(c, http.StatusNotImplemented, "not_supported", "direct uploads are not enabled", nil)
		default:
			telemetry.Error("resumes.presign_failed", map[string]any{
				"request_id": c.GetString("requestId"),
				"err":        err,
			})
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to generate upload url", nil)
		}
		return
	}

	respond.OK(c, presignResponse{
		UploadURL:        out.UploadURL,
		StorageKey:       out.StorageKey,
		ExpiresInSeconds: int64(out.Expires.Seconds()),
	})
}

func (h *Handler) fromStorage(c *gin.Context) {
	var req fromStorageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Validation(c, "invalid request body")
		return
	}
	req.StorageKey = strings.TrimSpace(req.StorageKey)
	if req.StorageKey == "" {
		respond.Validation(c, "storageKey is required", respond.FieldIssue{Field: "storageKey", Issue: "required"})
		return
	}

	owner := profiles.OwnerFromContext(c)
	report, err := h.Svc.RegisterStored(c.Request.Context(), owner, req.StorageKey, strings.TrimSpace(req.FileName), strings.TrimSpace(req.ContentType))
	if err != nil {
		switch {
		case errors.Is(err, ErrWrongExtension), errors.Is(err, ErrWrongContentType):
			issue, msg := issueFor(err)
			respond.Validation(c, msg, respond.FieldIssue{Field: "fileName", Issue: issue})
		case errors.Is(err, profiles.ErrNoAccount):
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "account no longer exists", nil)
		case errors.Is(err, ErrForeignKey):
			respond.Error(c, http.StatusForbidden, "forbidden", "storage key does not belong to caller", nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "uploaded object not found", nil)
		case errors.Is(err, ErrTooLarge):
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds upload limit", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to record resume", nil)
		}
		return
	}
	c.Set(middleware.ResumeIDKey, report.Resume.ID)
	c.Set(middleware.ProfileIDKey, report.Resume.ProfileID)
	respond.JSON(c, http.StatusCreated, toReportResponse(report, owner.Username))
}

func (h *Handler) media(c *gin.Context) {
	res, body, err := h.Svc.Open(c.Request.Context(), middleware.AccountIDFromContext(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, object.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to open resume", nil)
		return
	}
	defer body.Close()

	c.Set(middleware.ResumeIDKey, res.ID)
	c.Header("Content-Disposition", "inline; filename="+strconv.Quote(res.FileName))
	c.DataFromReader(http.StatusOK, res.SizeBytes, res.ContentType, body, nil)
}
