package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/addisbites/ordering-system/internal/api/handler"
	apimiddleware "github.com/addisbites/ordering-system/internal/api/middleware"
	"github.com/addisbites/ordering-system/internal/core/domain"
	"github.com/addisbites/ordering-system/internal/core/ports"
)

// Deps carries everything the router needs. The caller owns construction and
// lifecycle (in particular the dispatcher's worker pool); the router only
// wires HTTP.
type Deps struct {
	Log          zerolog.Logger
	JWTSecret    string
	AuthService  ports.AuthService
	OrderService ports.OrderService
	StaffService ports.StaffService
	StaffRepo    ports.StaffRepository
	Dispatcher   handler.EventDispatcher

	// Mongo and Redis back the readiness probe; either may be nil.
	Mongo *mongo.Database
	Redis *redis.Client
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("ordering"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	orderHandler := handler.NewOrderHandler(deps.OrderService)
	eventHandler := handler.NewEventHandler(deps.Dispatcher)
	adminHandler := handler.NewAdminHandler(deps.StaffService)

	// --- Route-level middleware ---
	session := apimiddleware.Session(deps.AuthService)
	courier := apimiddleware.CourierOnly(deps.StaffRepo)
	staffJWT := apimiddleware.StaffJWT(deps.JWTSecret)

	// --- Operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/api/v1")

	// --- Telegram mini-app auth ---
	v1.POST("/auth/telegram", authHandler.Telegram)
	v1.POST("/auth/logout", authHandler.Logout, session)
	v1.GET("/me", authHandler.Me, session)

	// --- Orders ---
	orders := v1.Group("/orders", session)
	orders.POST("", orderHandler.Create)
	orders.GET("/ready", orderHandler.ListReady, courier)
	orders.GET("/:id", orderHandler.Get)
	orders.POST("/:id/claim", orderHandler.Claim, courier)
	orders.POST("/:id/release", orderHandler.Release, courier)

	// --- Delivery events (courier app only) ---
	events := v1.Group("/events", session, courier)
	events.POST("", eventHandler.Receive)
	events.POST("/batch", eventHandler.ReceiveBatch)

	// --- Admin panel ---
	admin := v1.Group("/admin")
	admin.POST("/login", adminHandler.Login)
	admin.POST("/staff", adminHandler.CreateStaff, staffJWT, apimiddleware.RBAC(domain.RoleAdmin))

	return e
}
