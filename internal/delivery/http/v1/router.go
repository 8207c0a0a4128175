package v1

import (
	"net/http"
	"time"

	"topjob-gateway/config"
	"topjob-gateway/internal/delivery/http/middleware"
	"topjob-gateway/internal/delivery/http/response"
	"topjob-gateway/internal/domain"
	"topjob-gateway/internal/usecase"

	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	Sessions middleware.SessionResolver
	Avatars  *usecase.AvatarCache
	Audit    domain.SessionEventRepository // nil when DATABASE_URL is unset
	Config   *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SessionContext(deps.Sessions))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.CSRFMiddleware())
	r.Use(middleware.RateLimitMiddleware(middleware.GlobalRateLimitConfig()))
	r.Use(middleware.ErrorHandler())

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	loginLimiter := middleware.RateLimitMiddleware(middleware.LoginRateLimitConfig(
		deps.Config.RateLimitLoginThreshold,
		time.Duration(deps.Config.RateLimitWindowSeconds)*time.Second,
	))

	NewSessionHandler(v1, deps.Avatars, deps.Audit, deps.Config, loginLimiter)
	NewAreaHandler(v1, deps.Config)

	return r
}
