package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-matcher/internal/accounts"
	googleauth "resume-matcher/internal/auth"
	"resume-matcher/internal/colleges"
	"resume-matcher/internal/profiles"
	"resume-matcher/internal/resumes"
	"resume-matcher/internal/shared/auth"
	"resume-matcher/internal/shared/config"
	"resume-matcher/internal/shared/metrics"
	"resume-matcher/internal/shared/server/middleware"
	"resume-matcher/internal/shared/server/respond"
)

// RouterDeps carries the handlers and session plumbing the router mounts.
type RouterDeps struct {
	Config         config.Config
	Signer         *auth.Signer
	Revoker        auth.Revoker
	AccountHandler *accounts.Handler
	CollegeHandler *colleges.Handler
	ProfileHandler *profiles.Handler
	ResumeHandler  *resumes.Handler
	GoogleAuth     *googleauth.GoogleService
	RateLimiter    *middleware.RateLimiter
}

var defaultRateLimits = map[string]middleware.RateLimitRule{
	"DEFAULT":                       {Rate: 10, Burst: 40},
	middleware.UploadRateLimitGroup: {Rate: 0.2, Burst: 5},
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Signer, deps.Revoker),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:    defaultRateLimits,
			Limiter:  deps.RateLimiter,
			GroupFor: uploadGroup,
		}),
	)

	r.GET("/", landing)
	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())

	root := r.Group("")
	if deps.AccountHandler != nil {
		deps.AccountHandler.RegisterRoutes(root)
	}
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(root)
	}
	if deps.CollegeHandler != nil {
		deps.CollegeHandler.RegisterRoutes(root)
	}
	if deps.ProfileHandler != nil {
		deps.ProfileHandler.RegisterRoutes(root)
	}
	if deps.ResumeHandler != nil {
		deps.ResumeHandler.RegisterRoutes(root)
	}

	return r
}

func uploadGroup(c *gin.Context) string {
	if c.Request.Method == http.MethodPost && c.Request.URL.Path == "/upload" {
		return middleware.UploadRateLimitGroup
	}
	return ""
}

type landingResponse struct {
	Service       string            `json:"service"`
	Authenticated bool              `json:"authenticated"`
	Username      string            `json:"username,omitempty"`
	Links         map[string]string `json:"links"`
}

func landing(c *gin.Context) {
	username := middleware.UsernameFromContext(c)
	respond.OK(c, landingResponse{
		Service:       "resume-matcher",
		Authenticated: middleware.AccountIDFromContext(c) != "",
		Username:      username,
		Links: map[string]string{
			"upload": "/upload",
			"login":  "/login",
			"logout": "/logout",
		},
	})
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
