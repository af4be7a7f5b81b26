package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobs-in-germany/internal/auth"
	"github.com/justsurfingit/jobs-in-germany/internal/middleware"
)

// RouterDeps are the handlers and middleware the API is assembled from.
type RouterDeps struct {
	Tokens        *auth.TokenIssuer
	Forms         *FormHandler
	Auth          *AuthHandler
	Catalog       *CatalogHandler
	Jobs          *JobHandler
	Ping          func(ctx context.Context) error
	SubmitLimiter *middleware.RateLimiter
	CORSOrigins   []string

	// TrustedProxies may set X-Forwarded-For. Empty trusts no one, so
	// clients are keyed by their socket address.
	TrustedProxies []string
	Logger         *slog.Logger
}

func NewRouter(d RouterDeps) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(middleware.RequestID(), middleware.Logger(d.Logger), gin.Recovery())

	config := cors.DefaultConfig()
	if len(d.CORSOrigins) == 0 || slices.Contains(d.CORSOrigins, "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = d.CORSOrigins
	}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Request-ID"}
	r.Use(cors.New(config))

	api := r.Group("/api/v1", auth.Optional(d.Tokens))
	{
		api.GET("/health", HealthCheck(d.Ping))
		api.GET("/stats", d.Catalog.Banner)
		api.GET("/courses", d.Catalog.ListCourses)
		api.GET("/jobs", d.Jobs.ListJobs)

		api.POST("/auth/register", d.Auth.Register)

		// Form lifecycle
		api.GET("/forms", d.Forms.ListForms)
		api.POST("/forms/:form", d.Forms.Mount)
		api.GET("/attempts/:id", d.Forms.Get)
		api.PATCH("/attempts/:id", d.Forms.Input)
		api.PUT("/attempts/:id/files/:field", d.Forms.Upload)
		api.DELETE("/attempts/:id", d.Forms.Unmount)
		submit := []gin.HandlerFunc{d.Forms.Submit}
		if d.SubmitLimiter != nil {
			submit = append([]gin.HandlerFunc{d.SubmitLimiter.Handler()}, submit...)
		}
		api.POST("/attempts/:id/submit", submit...)
	}

	protected := api.Group("", auth.Required(d.Tokens))
	{
		protected.GET("/auth/me", d.Auth.Me)
		protected.GET("/resumes", d.Catalog.ListResumes)
		protected.POST("/jobs", d.Jobs.CreateJob)
		protected.POST("/jobs/extract", d.Jobs.ParseJob)
	}
	return r, nil
}
