package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"vibestation/internal/domain"
	"vibestation/internal/metrics"
	"vibestation/internal/navigation"
)

// Pinger reports whether the backing record store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CatalogService is the slice of the catalog the handlers need.
type CatalogService interface {
	Initialized() bool
	Categories() []domain.Category
	AppCount() int
	CategoryName(id string) (string, bool)
	SubCategoryName(categoryID, subCategoryID string) (string, bool)
	CountByCategory() map[string]int
	FilteredApps(view navigation.ViewState, term string) []domain.AppEntry
	AddCategory(ctx context.Context, name string) (domain.Category, error)
	AddSubCategory(ctx context.Context, categoryID, name string) (domain.SubCategory, error)
	AddApp(ctx context.Context, draft domain.AppDraft) (domain.AppEntry, error)
}

// SessionService toggles the launcher session flag.
type SessionService interface {
	Status(ctx context.Context) (bool, error)
	Login(ctx context.Context, user, password string) error
	Logout(ctx context.Context) error
}

// Deps wires the services behind the HTTP surface.
type Deps struct {
	Store       Pinger
	Catalog     CatalogService `validate:"required"`
	Session     SessionService `validate:"required"`
	CORSOrigins []string
}

var validate = validator.New()

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, deps Deps) (*gin.Engine, error) {
	if err := validate.Struct(deps); err != nil {
		return nil, fmt.Errorf("validate router deps: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(accessLog(logger), gin.Recovery())
	if len(deps.CORSOrigins) > 0 {
		router.Use(cors.New(corsConfig(deps.CORSOrigins)))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Store, deps.Catalog))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	h := &handlers{catalog: deps.Catalog, session: deps.Session, logger: logger}

	api := router.Group("/api")
	api.GET("/session", h.sessionStatus)
	api.POST("/session/login", h.login)
	api.POST("/session/logout", h.logout)

	gated := api.Group("", requireSession(deps.Session, logger))
	gated.GET("/categories", h.listCategories)
	gated.POST("/categories", h.createCategory)
	gated.POST("/categories/:categoryId/subcategories", h.createSubCategory)
	gated.GET("/apps", h.listApps)
	gated.POST("/apps", h.createApp)

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
