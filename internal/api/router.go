package api

import (
	"net"
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/massage-portal/client-portal/docs"
	"github.com/massage-portal/client-portal/internal/api/handler"
	"github.com/massage-portal/client-portal/internal/api/middleware"
	"github.com/massage-portal/client-portal/internal/core/domain"
	"github.com/massage-portal/client-portal/internal/core/ports"
	"github.com/massage-portal/client-portal/internal/infrastructure/http/handlers"
)

// Version is reported by GET /.
const Version = "1.0.0"

// Deps carries everything the router wires into handlers and middleware.
type Deps struct {
	Log     zerolog.Logger
	Auth    ports.AuthService
	Clients ports.ClientService
	Users   ports.UserService
	Limiter ports.RateLimiter
	Checks  map[string]handlers.Check

	// TrustedProxies lists the proxy ranges whose X-Forwarded-For is honoured.
	// Empty means the peer address is the client address.
	TrustedProxies []*net.IPNet

	FrontendURL    string
	SwaggerEnabled bool
	// ExposeErrors includes internal error detail in 500 responses.
	ExposeErrors bool
}

type rootResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Version string `json:"version"`
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, d.ExposeErrors)
	e.IPExtractor = ipExtractor(d.TrustedProxies)

	// HTTP metrics get their own registry so routers built in tests do not
	// collide; /metrics serves it alongside the default registry.
	registry := prometheus.NewRegistry()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{d.FrontendURL},
		AllowCredentials: true,
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization,
		},
	}))
	e.Use(echomiddleware.Secure())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "portal",
		Registerer: registry,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.Auth)
	clientHandler := handler.NewClientHandler(d.Clients)
	userHandler := handler.NewUserHandler(d.Users)
	authenticate := middleware.Authenticate(d.Auth)
	adminOnly := middleware.RequireRoles(domain.RoleAdmin)

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, rootResponse{
			Message: "Welcome to Massage Therapy Client Portal API",
			Status:  "online",
			Version: Version,
		})
	})

	v1 := e.Group("/api/v1", middleware.RateLimit(d.Limiter, d.Log))

	// --- Auth routes ---
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)
	v1.GET("/auth/me", authHandler.Me, authenticate)

	// --- Client profiles (ownership enforced by the service) ---
	clients := v1.Group("/clients", authenticate)
	clients.GET("", clientHandler.List, adminOnly)
	clients.POST("", clientHandler.Create)
	clients.GET("/:id", clientHandler.Get)
	clients.PUT("/:id", clientHandler.Update)
	clients.DELETE("/:id", clientHandler.Delete)

	// --- Account administration ---
	users := v1.Group("/users", authenticate, adminOnly)
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.PATCH("/:id/status", userHandler.SetStatus)
	users.GET("/:id/activity", userHandler.Activity)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{registry, prometheus.DefaultGatherer},
	}))

	if d.SwaggerEnabled {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	return e
}

// requestLogger feeds Echo's request logger into zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

// ipExtractor reads the client address from the connection unless trusted
// proxies are configured. Forwarded hops are only accepted from those ranges.
func ipExtractor(trusted []*net.IPNet) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, n := range trusted {
		opts = append(opts, echo.TrustIPRange(n))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}
