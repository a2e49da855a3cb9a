package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oggyb/skilllink/internal/app"
	"github.com/oggyb/skilllink/internal/config"
	"github.com/oggyb/skilllink/internal/middleware"
	"github.com/oggyb/skilllink/internal/utils/response"
)

const shutdownTimeout = 10 * time.Second

type bannerResponse struct {
	Message string `json:"message"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

// NewRouter builds the gin engine with common middleware, the banner and
// health routes, and every registrar's routes.
func NewRouter(cfg *config.Config, appCtx *app.AppContext, registrars ...Registrar) *gin.Engine {
	if cfg.App.ENV != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.RegisterValidators(); err != nil {
		appCtx.Logger.Error("custom validators unavailable", "err", err)
	}

	router := gin.New()
	router.Use(middleware.InjectTrace())
	router.Use(middleware.LogRequest(appCtx.Logger))
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.HTTP.CORSOrigins,
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Accept", "Authorization", "Content-Type", "Origin"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "X-Trace-Id", "X-Next-Cursor"},
		MaxAge:        12 * time.Hour,
	}))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, bannerResponse{Message: "SkillLink Backend is running!"})
	})
	router.GET("/health", health(appCtx))

	for _, r := range registrars {
		r.Register(router)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, response.ErrorBody{Detail: "Not Found"})
	})

	return router
}

// health reports 200 while the database answers a ping. Redis is reported
// but is not required: every cached read has a DB fallback.
func health(appCtx *app.AppContext) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		res := healthResponse{Status: "ok", Database: "up", Redis: "up"}
		status := http.StatusOK

		if err := pingDB(ctx, appCtx); err != nil {
			appCtx.Logger.Warn("database ping failed", "err", err)
			res.Status, res.Database = "unavailable", "down"
			status = http.StatusServiceUnavailable
		}
		if appCtx.RedisCache == nil {
			res.Redis = "disabled"
		} else if err := appCtx.RedisCache.Ping(ctx); err != nil {
			appCtx.Logger.Warn("redis ping failed", "err", err)
			res.Redis = "down"
		}
		c.JSON(status, res)
	}
}

func pingDB(ctx context.Context, appCtx *app.AppContext) error {
	sqlDB, err := appCtx.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// StartHTTPServer serves the router until ctx is cancelled, then drains
// in-flight requests.
func StartHTTPServer(ctx context.Context, cfg *config.Config, router http.Handler) error {
	addr := fmt.Sprintf("%s:%s", cfg.HTTP.Host, cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to serve http on %s: %w", addr, err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return <-errCh
}
