package devbackend

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const DefaultAllowOrigin = "http://localhost:3000"

// Config holds the dependencies of the dev backend router.
type Config struct {
	Store    *Store
	Sessions *SessionManager
	Hasher   PasswordHasher

	AllowOrigins  []string
	SecureCookies bool

	// HistoryDelay is how long an annotation history export stays "Not ready".
	HistoryDelay time.Duration

	// Registry receives the server metrics and backs /metrics. Nil creates a private one.
	Registry *prometheus.Registry
	Logger   *slog.Logger
}

// NewRouter assembles middleware (CORS, logging, metrics, session, CSRF) and registers routes.
func NewRouter(cfg Config) *gin.Engine {
	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.Use(requestLogger(logger), gin.Recovery(), newServerMetrics(reg).middleware())

	// Credentialed CORS needs explicit origins.
	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{DefaultAllowOrigin}
	}
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = origins
	corsCfg.AllowCredentials = true
	corsCfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", CSRFHeaderName, "X-Request-ID"}
	r.Use(cors.New(corsCfg))

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	h := NewHandler(cfg.Store, cfg.Sessions, cfg.Hasher, cfg.HistoryDelay, cfg.SecureCookies)
	staff := RequireStaff(cfg.Store)

	v1 := r.Group("/v1")
	v1.POST("/auth/login/", h.Login)

	authed := v1.Group("")
	authed.Use(SessionRequired(cfg.Sessions, cfg.Store), CSRFRequired())
	{
		authed.POST("/auth/logout/", h.Logout)
		authed.GET("/me", h.Me)

		users := authed.Group("/users")
		users.GET("", h.ListUsers)
		users.GET("/:id", h.GetUser)
		users.POST("", staff, h.CreateUser)
		users.PATCH("/:id", staff, h.UpdateUser)
		users.PATCH("/:id/", staff, h.UpdateUser)
		users.DELETE("/:id", staff, h.DeleteUser)

		project := authed.Group("/projects/:project_id")

		project.GET("/comments", h.ListComments)
		project.POST("/comments", h.CreateComment)
		project.DELETE("/comments", h.BulkDeleteComments)
		project.GET("/comments/:id", h.GetComment)
		project.PUT("/comments/:id", h.UpdateComment)
		project.DELETE("/comments/:id", h.DeleteComment)

		project.GET("/annotations", h.ListAnnotations)

		project.GET("/votingsessions", h.ListSessions)
		project.POST("/votingsessions", staff, h.CreateSession)
		project.PUT("/votingsessions/:session_id/", staff, h.UpdateSession)
		project.GET("/votingsessions/:session_id/answers", h.ListVoteAnswers)
		project.POST("/votingsessions/:session_id/answers", h.CreateVoteAnswer)

		project.POST("/annotation-history", h.PrepareHistory)
		project.GET("/annotation-history", h.DownloadHistory)
		project.GET("/annotation-history-data", h.HistoryData)
	}

	return r
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", c.GetHeader("X-Request-ID"),
		)
	}
}
