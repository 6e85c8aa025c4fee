// Package server wires handlers and middleware into the HTTP router.
package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mergington/activities/internal/activities"
	"github.com/mergington/activities/internal/middleware"
	"github.com/mergington/activities/internal/registrations"
	"github.com/mergington/activities/internal/store"
	"github.com/mergington/activities/pkg/response"
)

// LandingPage is where GET / redirects.
const LandingPage = "/static/index.html"

// Deps are the collaborators the router needs.
type Deps struct {
	Store              store.Store
	Logger             *zap.Logger
	StaticDir          string
	CORSAllowedOrigins string
}

// NewRouter builds the gin engine serving the activities API.
func NewRouter(d Deps) *gin.Engine {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	activityHandler := activities.NewHandler(d.Store, logger)
	registrationHandler := registrations.NewHandler(registrations.NewService(d.Store), logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(d.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	router.GET("/", func(c *gin.Context) { c.Redirect(http.StatusTemporaryRedirect, LandingPage) })
	if d.StaticDir != "" {
		files := staticFiles(d.StaticDir)
		router.GET("/static/*filepath", files)
		router.HEAD("/static/*filepath", files)
	}

	router.GET("/health", health(d.Store))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/activities", activityHandler.List)
	router.POST("/activities/:activity_name/signup", registrationHandler.Signup)
	router.DELETE("/activities/:activity_name/unregister", registrationHandler.Unregister)

	return router
}

// staticFiles serves files under dir as they are named, so index.html is
// answered directly rather than redirected to its directory. A directory
// path serves its index.html.
func staticFiles(dir string) gin.HandlerFunc {
	fs := gin.Dir(dir, false)
	return func(c *gin.Context) {
		name := c.Param("filepath")
		if strings.HasSuffix(name, "/") {
			name += "index.html"
		}
		f, err := fs.Open(name)
		if err != nil {
			response.NotFound(c, "Not Found")
			return
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil || info.IsDir() {
			response.NotFound(c, "Not Found")
			return
		}
		http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
	}
}

func health(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := st.Ping(ctx); err != nil {
			response.ServiceUnavailable(c, "database unavailable")
			return
		}
		response.OK(c, gin.H{"status": "ok"})
	}
}
