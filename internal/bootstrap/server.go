package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/Domenick1991/eventbooking/api"
	"github.com/Domenick1991/eventbooking/config"
	"github.com/Domenick1991/eventbooking/internal/service/booking"
	"github.com/Domenick1991/eventbooking/internal/service/events"
	"github.com/Domenick1991/eventbooking/internal/service/favourites"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

const shutdownTimeout = 5 * time.Second

// Deps are the services the HTTP layer is built from. Checks are probed by
// /healthz; a failing check turns the response into 503.
type Deps struct {
	Events     events.EventUseCase
	Bookings   booking.BookingUseCase
	Favourites favourites.FavouriteUseCase
	Tokens     api.TokenParser
	Checks     map[string]func(context.Context) error
}

// Run serves HTTP and blocks until ctx is canceled or the server fails.
func Run(ctx context.Context, cfg *config.Config, deps Deps) error {
	srv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           NewRouter(cfg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("http server listening addr=%s", cfg.HTTP.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		log.Printf("http server stopped")
		return nil
	}
}

func NewRouter(cfg *config.Config, deps Deps) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), api.RequestLogger())
	if len(cfg.HTTP.AllowedOrigins) > 0 {
		engine.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.HTTP.AllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if deps.Tokens != nil {
		engine.Use(api.Identity(deps.Tokens))
	}

	engine.GET("/healthz", healthz(deps.Checks))

	eventsGroup := engine.Group("/events")
	api.NewEventHandler(deps.Events, deps.Favourites).Register(eventsGroup)
	api.NewBookingHandler(deps.Bookings, deps.Events).Register(eventsGroup)
	api.NewUserHandler(deps.Events).Register(engine.Group("/users"))

	if cfg.HTTP.SwaggerDir != "" {
		engine.StaticFile("/swagger/openapi.json", filepath.Join(cfg.HTTP.SwaggerDir, "openapi.json"))
		engine.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/openapi.json"))))
	}

	return engine
}

func healthz(checks map[string]func(context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		report := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				log.Printf("health check failed name=%s: %v", name, err)
				report[name] = "down"
				status = http.StatusServiceUnavailable
				continue
			}
			report[name] = "up"
		}
		c.JSON(status, gin.H{"status": http.StatusText(status), "checks": report})
	}
}
