package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"talentflow-backend/internal/account"
	"talentflow-backend/internal/applications"
	googleauth "talentflow-backend/internal/auth"
	"talentflow-backend/internal/onboarding"
	"talentflow-backend/internal/resumes"
	"talentflow-backend/internal/shared/config"
	"talentflow-backend/internal/shared/metrics"
	"talentflow-backend/internal/shared/server/middleware"
	"talentflow-backend/internal/shared/server/respond"
	"talentflow-backend/internal/signin"
	"talentflow-backend/internal/uploads"
	"talentflow-backend/internal/video"
)

// RouterDeps carries the constructed handlers the router wires up.
type RouterDeps struct {
	Config              config.Config
	OnboardingHandler   *onboarding.Handler
	ResumesHandler      *resumes.Handler
	VideoHandler        *video.Handler
	ApplicationsHandler *applications.Handler
	SigninHandler       *signin.Handler
	AccountHandler      *account.Handler
	GoogleAuth          *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Auth(cfg.Env),
		middleware.RateLimit(submissionRateLimits()),
	)

	r.GET("/metrics", metrics.Handler())
	if cfg.ObjectStoreType == "local" {
		r.Static("/files", cfg.LocalStoreDir)
	}

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	deps.GoogleAuth.RegisterRoutes(api)
	registerMeRoutes(api)
	deps.OnboardingHandler.RegisterRoutes(api)
	deps.ResumesHandler.RegisterRoutes(api)
	deps.VideoHandler.RegisterRoutes(api)
	deps.ApplicationsHandler.RegisterRoutes(api)
	deps.SigninHandler.RegisterRoutes(api)
	deps.AccountHandler.RegisterRoutes(api)
	uploads.RegisterRoutes(api)

	staff := api.Group("/staff", middleware.RequireStaff())
	deps.ApplicationsHandler.RegisterStaffRoutes(staff)

	return r
}

// submissionRateLimits throttles the endpoints that fan out to external
// services. Everything else passes through untouched.
func submissionRateLimits() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"SUBMIT": {Rate: 0.2, Burst: 3},
			"SIGNIN": {Rate: 0.1, Burst: 2},
		},
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method != http.MethodPost {
				return ""
			}
			switch c.FullPath() {
			case "/api/v1/applications":
				return "SUBMIT"
			case "/api/v1/signin/request":
				return "SIGNIN"
			}
			return ""
		},
	}
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
