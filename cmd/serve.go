package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/config"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/controllers"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/middleware"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/services"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	conf, err := loadConfig()
	if err != nil {
		return err
	}
	if conf.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := validation.Register(); err != nil {
		return err
	}

	db, err := openDatabase(conf)
	if err != nil {
		return err
	}

	deps, err := buildDependencies(db, conf)
	if err != nil {
		return err
	}

	router := setupRouter(deps, conf)
	srv := &http.Server{
		Addr:              fmt.Sprintf("%v:%d", conf.Host, conf.Port),
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	closeDatabase(db)
	return nil
}

// buildDependencies wires the services on top of the database
func buildDependencies(db *gorm.DB, conf *config.Config) (controllers.Dependencies, error) {
	tags, err := services.NewTagService(db, conf.CatalogCacheSize)
	if err != nil {
		return controllers.Dependencies{}, err
	}
	ingredients, err := services.NewIngredientService(db, conf.CatalogCacheSize)
	if err != nil {
		return controllers.Dependencies{}, err
	}

	return controllers.Dependencies{
		Users:         services.NewUserService(db),
		Tags:          tags,
		Ingredients:   ingredients,
		Recipes:       services.NewRecipeService(db, tags, ingredients),
		Favorites:     services.NewFavoriteService(db),
		Carts:         services.NewShoppingCartService(db),
		Subscriptions: services.NewSubscriptionService(db),
	}, nil
}

// setupRouter initializes the Gin router and sets up the routes
func setupRouter(deps controllers.Dependencies, conf *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(log.StandardLogger()),
		middleware.PrometheusMetrics(),
	)

	router.GET("/health", healthCheckHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	controllers.RegisterRoutes(router, deps, []byte(conf.JWTSecret))
	return router
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "gin-foodgram-api",
	})
}
