package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"sandra-backend/internal/activity"
	"sandra-backend/internal/archive"
	"sandra-backend/internal/associations"
	googleauth "sandra-backend/internal/auth"
	"sandra-backend/internal/candidates"
	"sandra-backend/internal/jobs"
	"sandra-backend/internal/meetings"
	"sandra-backend/internal/notes"
	"sandra-backend/internal/shared/config"
	"sandra-backend/internal/shared/metrics"
	"sandra-backend/internal/shared/server/middleware"
	"sandra-backend/internal/shared/server/respond"
	"sandra-backend/internal/uploads"
	"sandra-backend/internal/users"
	"sandra-backend/internal/ws"
)

// RouterDeps carries the handlers the router wires up. Everything is
// constructed by bootstrap and injected here.
type RouterDeps struct {
	Config       config.Config
	GoogleAuth   *googleauth.GoogleService
	Users        *users.Handler
	Jobs         *jobs.Handler
	Candidates   *candidates.Handler
	Associations *associations.Handler
	Archive      *archive.Handler
	Activity     *activity.Handler
	Meetings     *meetings.Handler
	Notes        *notes.Handler
	Uploads      *uploads.Handler
	WS           *ws.Handler
}

// lifecycleRate bounds archive engine mutations per principal. Normal use
// is a handful of clicks; sustained bursts are either bugs or abuse.
var lifecycleRate = middleware.RateLimitRule{Rate: 5, Burst: 10}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}

	api.Use(
		middleware.Auth(deps.Config.Env),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:    map[string]middleware.RateLimitRule{"LIFECYCLE": lifecycleRate},
			GroupFor: lifecycleGroup,
		}),
	)

	for _, h := range []interface {
		RegisterRoutes(rg *gin.RouterGroup)
	}{
		deps.Users,
		deps.Jobs,
		deps.Candidates,
		deps.Associations,
		deps.Archive,
		deps.Activity,
		deps.Meetings,
		deps.Notes,
		deps.Uploads,
		deps.WS,
	} {
		h.RegisterRoutes(api)
	}

	return r
}

// lifecycleGroup tags archive engine mutations for rate limiting.
func lifecycleGroup(c *gin.Context) string {
	p := c.FullPath()
	for _, suffix := range []string{"/archive", "/restore", "/close", "/permanent"} {
		if strings.HasSuffix(p, suffix) {
			return "LIFECYCLE"
		}
	}
	return ""
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
