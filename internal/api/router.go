package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/shipsphere/logistics-api/docs"
	"github.com/shipsphere/logistics-api/internal/api/handler"
	"github.com/shipsphere/logistics-api/internal/api/middleware"
	"github.com/shipsphere/logistics-api/internal/core/ports"
	"github.com/shipsphere/logistics-api/internal/infrastructure/http/handlers"
)

// Deps carries everything the router needs. Limiter, Redis and the
// Prometheus registry are optional.
type Deps struct {
	Logger      zerolog.Logger
	Production  bool
	FrontendURL string
	BodyLimit   string

	AuthService ports.AuthService
	CityService ports.CityService
	UserService ports.UserService
	Tokens      ports.TokenManager

	StoreName string
	Store     handlers.Pinger
	Redis     *redis.Client
	Limiter   middleware.Limiter

	// Registerer and Gatherer default to the Prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger, !d.Production)

	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	if d.BodyLimit == "" {
		d.BodyLimit = "10M"
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(middleware.SecureHeaders())
	if d.FrontendURL != "" {
		e.Use(middleware.CORS(d.FrontendURL))
	}
	e.Use(echomiddleware.BodyLimit(d.BodyLimit))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "logistics",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	healthHandler := handlers.NewHealthHandler()
	api.GET("/health", healthHandler.Liveness)
	if d.Store != nil {
		readiness := handlers.NewReadinessHandler(d.StoreName, d.Store, d.Redis)
		api.GET("/health/ready", readiness.Readiness)
	}

	authGate := middleware.Auth(d.Tokens)
	adminOnly := middleware.RequireAdmin()

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.AuthService)
	var throttled []echo.MiddlewareFunc
	if d.Limiter != nil {
		throttled = append(throttled, middleware.RateLimit(d.Limiter, d.Logger))
	}

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register, throttled...)
	auth.POST("/login", authHandler.Login, throttled...)
	auth.GET("/profile", authHandler.Profile, authGate)
	auth.PUT("/profile", authHandler.UpdateProfile, authGate)

	// --- City routes ---
	cityHandler := handler.NewCityHandler(d.CityService)

	cities := api.Group("/cities")
	cities.GET("", cityHandler.ListActive)
	cities.GET("/admin", cityHandler.ListAll, authGate, adminOnly)
	cities.GET("/:id", cityHandler.Get)
	cities.POST("", cityHandler.Create, authGate, adminOnly)
	cities.PUT("/:id", cityHandler.Update, authGate, adminOnly)
	cities.DELETE("/:id", cityHandler.Delete, authGate, adminOnly)

	// --- User routes (admin only) ---
	userHandler := handler.NewUserHandler(d.UserService)

	users := api.Group("/users", authGate, adminOnly)
	users.GET("", userHandler.List)
	users.GET("/stats/overview", userHandler.Stats)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id/role", userHandler.UpdateRole)
	users.DELETE("/:id", userHandler.Delete)

	return e
}

// requestLogger feeds Echo's access log into zerolog. Query strings and
// bodies are not logged.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("path", v.URIPath).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
