package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/cityfeedback/portal/docs"
	"github.com/cityfeedback/portal/internal/api/handler"
	"github.com/cityfeedback/portal/internal/api/middleware"
	"github.com/cityfeedback/portal/internal/core/domain"
	"github.com/cityfeedback/portal/internal/core/ports"
	"github.com/cityfeedback/portal/internal/core/service"
)

// Backend is the feedback backend as the portal sees it.
type Backend interface {
	ports.Backend
	handler.Pinger
}

// Options carries everything the router wires together.
type Options struct {
	Backend       Backend
	Profiles      middleware.ProfileStorage
	Redis         redis.Cmdable
	Schema        domain.StatusSchema
	SessionSecret string
	SessionTTL    time.Duration
	Log           zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Log)

	validator := service.NewFormValidator()
	e.Validator = validator

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("cityfeedback_portal"))

	// --- Ops (no profile required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(opts.Backend, opts.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are backend and redis up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Pages: every request runs inside a browser profile ---
	portal := handler.NewPortal(opts.Backend, opts.Schema, validator, opts.Log)
	pages := e.Group("",
		middleware.Profile(opts.SessionSecret, opts.SessionTTL),
		middleware.Session(opts.Profiles, opts.Backend, opts.Log),
	)

	pages.GET(service.RouteHome, portal.Public)
	pages.GET(service.RoutePublic, portal.Public)
	pages.GET("/public/feedbacks/:id/comments", portal.PublicComments)

	pages.POST(service.RouteLogin, portal.Login)
	pages.POST(service.RouteSignup, portal.Signup)
	pages.POST("/logout", portal.Logout)

	pages.GET(service.RouteDashboard, portal.Dashboard, middleware.Gate(service.RouteDashboard))
	pages.GET(service.RouteWelcome, portal.Welcome, middleware.Gate(service.RouteWelcome))
	pages.POST(service.RouteCreate, portal.CreateFeedback, middleware.Gate(service.RouteCreate))

	staff := pages.Group("/dashboard/staff", middleware.Gate(service.RouteStaffFeedbacks))
	staff.GET("/feedbacks", portal.Staff)
	staff.GET("/statistics", portal.Statistics)
	staff.PUT("/feedbacks/:id/status", portal.ChangeStatus)
	staff.PUT("/feedbacks/:id/publish", portal.Publish)
	staff.PUT("/feedbacks/:id/unpublish", portal.Unpublish)
	staff.POST("/feedbacks/:id/comments", portal.AddComment)
	staff.DELETE("/feedbacks/:id", portal.DeleteFeedback)

	admin := pages.Group("/dashboard/admin", middleware.Gate(service.RouteAdminUsers))
	admin.GET("/users", portal.Users)
	admin.POST("/users", portal.CreateUser)
	admin.PUT("/users/:id/role", portal.ChangeRole)
	admin.PUT("/users/:id/password", portal.ChangePassword)
	admin.DELETE("/users/:id", portal.DeleteUser)
	admin.DELETE("/demo-data", portal.DeleteDemoData)

	return e
}
