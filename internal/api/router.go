package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/tbp-ucsd/membership-api/docs"
	"github.com/tbp-ucsd/membership-api/internal/api/handler"
	"github.com/tbp-ucsd/membership-api/internal/api/middleware"
	"github.com/tbp-ucsd/membership-api/internal/core/domain"
	"github.com/tbp-ucsd/membership-api/internal/core/ports"
	"github.com/tbp-ucsd/membership-api/internal/infrastructure/http/handlers"
)

// Services groups the application services the router exposes.
type Services struct {
	Auth     ports.AuthService
	Accounts ports.AccountService
	Events   ports.EventService
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, checks map[string]handlers.Check, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echoprometheus.NewMiddleware("membership"))

	authHandler := handler.NewAuthHandler(svc.Auth)
	accountHandler := handler.NewAccountHandler(svc.Accounts)
	eventHandler := handler.NewEventHandler(svc.Events)
	authMiddleware := middleware.Auth(jwtSecret)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/me", authHandler.Me, authMiddleware)

	// --- Users ---
	e.GET("/users", accountHandler.Index)
	e.GET("/users/:id", accountHandler.Show)
	e.PATCH("/users/:id", accountHandler.Update, authMiddleware, middleware.OwnerOrRole("id", domain.RoleAdmin))
	e.DELETE("/users/:id", accountHandler.Delete, authMiddleware, middleware.RBAC(domain.RoleAdmin))

	// --- Events ---
	e.GET("/event-types", eventHandler.ListTypes)
	e.GET("/events/:id", eventHandler.Show)
	e.POST("/events/:id/attendance", eventHandler.CheckIn, authMiddleware, middleware.RBAC(domain.RoleOfficer, domain.RoleAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(checks)

	e.GET("/health", healthHandler.Liveness)            // liveness: is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: are dependencies up?

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
