package api

import (
	"fmt"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/tastybite/food-ordering/internal/api/handler"
	"github.com/tastybite/food-ordering/internal/api/middleware"
	"github.com/tastybite/food-ordering/internal/core/domain"
	"github.com/tastybite/food-ordering/internal/core/ports"
	"github.com/tastybite/food-ordering/internal/infrastructure/http/handlers"
)

// Deps groups everything the router needs.
type Deps struct {
	Logger zerolog.Logger
	Tokens ports.TokenVerifier
	Users  ports.AuthService
	Admins ports.AuthService
	Orders ports.OrderService
	Foods  ports.FoodService

	// Readiness defaults to a probe without dependency checks.
	Readiness *handlers.HealthDependenciesHandler

	UploadDir             string
	MaxUploadBytes        int64
	RequestTimeout        time.Duration
	AllOrdersRequireAdmin bool

	// Default to the global Prometheus registry.
	MetricsRegisterer prometheus.Registerer
	MetricsGatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	if d.MetricsRegisterer == nil {
		d.MetricsRegisterer = prometheus.DefaultRegisterer
	}
	if d.MetricsGatherer == nil {
		d.MetricsGatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "food_ordering",
		Registerer: d.MetricsRegisterer,
	}))
	if d.RequestTimeout > 0 {
		e.Use(echomiddleware.ContextTimeout(d.RequestTimeout))
	}
	if d.MaxUploadBytes > 0 {
		// room for the other form fields on top of the file itself
		e.Use(echomiddleware.BodyLimit(fmt.Sprintf("%dK", d.MaxUploadBytes/1024+64)))
	}

	guard := middleware.Auth(d.Tokens)

	authHandler := handler.NewAuthHandler(d.Users, d.Admins)
	orderHandler := handler.NewOrderHandler(d.Orders)
	foodHandler := handler.NewFoodHandler(d.Foods)

	// --- Catalog ---
	e.GET("/food-items", foodHandler.List)
	e.POST("/food-items", foodHandler.Create)
	e.DELETE("/food-items/:id", foodHandler.Delete)

	// --- Identity ---
	e.POST("/signup", authHandler.SignUp)
	e.POST("/adminsignup", authHandler.AdminSignUp)
	e.POST("/signin", authHandler.SignIn)
	e.POST("/adminsignin", authHandler.AdminSignIn)
	e.GET("/profile", authHandler.Profile, guard)

	// --- Orders ---
	e.POST("/orders", orderHandler.Place)
	e.GET("/orders", orderHandler.Mine, guard)
	e.PUT("/orders/:id", orderHandler.UpdateStatus)
	e.DELETE("/orders/:id", orderHandler.Remove)
	if d.AllOrdersRequireAdmin {
		e.GET("/allorders", orderHandler.All, guard, middleware.RequireKind(domain.KindAdmin))
	} else {
		e.GET("/allorders", orderHandler.All)
	}

	// --- Health probes (no auth required) ---
	readiness := d.Readiness
	if readiness == nil {
		readiness = handlers.NewHealthChecks(nil)
	}
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", readiness.Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.MetricsGatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if d.UploadDir != "" {
		e.Static("/uploads", d.UploadDir)
	}

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
