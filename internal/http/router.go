package httpserver

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"review_app/internal/apierr"
	"review_app/internal/auth"
	"review_app/internal/config"
	"review_app/internal/http/middleware"
	"review_app/internal/logger"
	"review_app/internal/ranking"
)

// Deps is everything the router hands to handlers.
type Deps struct {
	DB       *gorm.DB
	Sessions *auth.Sessions
	Rankings ranking.Store
	Config   config.Config
	Log      *logger.Logger
	// Now overrides the clock used in feed timestamps.
	Now func() time.Time
}

func NewRouter(d Deps) *gin.Engine {
	if d.Rankings == nil {
		d.Rankings = ranking.GormStore{DB: d.DB}
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}

	r := gin.New()
	// "/rss-json/" is an explicit alias; nothing else gets slash redirects.
	r.RedirectTrailingSlash = false

	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(d.Log),
		gin.CustomRecovery(func(c *gin.Context, rec any) {
			apierr.Abort(c, apierr.Internal(fmt.Errorf("panic: %v", rec)))
		}),
		middleware.CORS(d.Config.AllowedOrigins),
		auth.Resolve(d.Sessions),
	)

	api := r.Group(d.Config.BasePath)
	for _, rt := range Routes(d) {
		h := guard(rt)
		for _, p := range rt.Paths() {
			api.Any(p, h)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		apierr.Abort(c, apierr.NotFound("Page not found"))
	})

	return r
}
