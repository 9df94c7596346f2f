// Package router builds the gin engine from the composed App.
package router

import (
	"context"
	"net/http"
	"path"
	"strings"
	"time"

	apphttp "github.com/ASEODA/narashop-estimate/internal/http"
	"github.com/ASEODA/narashop-estimate/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// publicAssetExts are served without a session so the login page can render.
var publicAssetExts = map[string]bool{
	".css": true, ".js": true, ".png": true, ".jpg": true, ".svg": true, ".ico": true, ".woff2": true,
}

// New wires global middleware, the health endpoint, every module's routes and
// the optional static front-end.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	if app.Config.GetCORSAllowAll() || len(app.Config.GetCORSOrigins()) > 0 {
		engine.Use(cors.New(corsConfig(app.Config)))
	}

	api := engine.Group("/api")
	api.GET("/health", healthHandler(app))

	rc := &apphttp.RouterContext{
		Engine:          engine,
		API:             api,
		Protected:       api.Group("", httpkit.SessionRequired(app.Config)),
		Pages:           engine.Group("", httpkit.PageSessionRequired(app.Config)),
		Config:          app.Config,
		AuthRateLimiter: httpkit.NewAuthRateLimiter(app.Logger),
	}

	for _, module := range app.Modules {
		module.RegisterRoutes(rc)
		app.Logger.Debug("module routes registered", "module", module.Name())
	}

	if dir := app.Config.GetStaticDir(); dir != "" {
		engine.NoRoute(staticHandler(dir, app.Config))
	}

	return engine
}

func corsConfig(cfg apphttp.RouterConfig) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", httpkit.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Disposition", httpkit.RequestIDHeader},
		AllowCredentials: cfg.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}
	if cfg.GetCORSAllowAll() {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.GetCORSOrigins()
	}
	return c
}

func healthHandler(app *apphttp.App) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{
			"status":       "OK",
			"message":      "서버가 정상적으로 실행 중입니다.",
			"apiKeySet":    app.Config.GetCatalogServiceKey() != "",
			"historyStore": historyStoreState(c.Request.Context(), app.Health),
		}
		c.JSON(http.StatusOK, body)
	}
}

// historyStoreState reports the history backend without failing the health check;
// quotations are still generated while it is down.
func historyStoreState(ctx context.Context, health apphttp.HealthChecker) string {
	if health == nil {
		return "memory"
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := health.Ping(ctx); err != nil {
		return "unavailable"
	}
	return "ok"
}

// staticHandler serves the front-end. The login page and plain assets are
// public; every other page requires a session.
func staticHandler(dir string, cfg apphttp.RouterConfig) gin.HandlerFunc {
	fs := gin.Dir(dir, false)
	guard := httpkit.PageSessionRequired(cfg)
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, httpkit.ErrorResponse{Error: "not found"})
			return
		}
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, httpkit.ErrorResponse{Error: "not found"})
			return
		}

		// http.FileServer redirects explicit index.html requests, so the
		// directory root is served instead.
		name := path.Clean("/" + c.Request.URL.Path)
		if name == "/index.html" {
			name = "/"
		}

		if name != httpkit.LoginPagePath && !publicAssetExts[path.Ext(name)] {
			guard(c)
			if c.IsAborted() {
				return
			}
		}
		c.FileFromFS(name, fs)
	}
}
