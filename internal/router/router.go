package router

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-contrib/pprof"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	docs "github.com/twobolsos/backend/api"
	"github.com/twobolsos/backend/internal/auth"
	"github.com/twobolsos/backend/internal/controllers"
	"github.com/twobolsos/backend/internal/httputil"
	"github.com/twobolsos/backend/internal/models"
)

// This is set at build time with -ldflags.
var version = "0.0.0"

var errMethodNotAllowed = models.Validation("this HTTP method is not allowed for the endpoint you called")

// Config sets up the engine and its middlewares. The returned teardown
// function must be called when the engine is not used anymore.
func Config(url *url.URL, allowOrigins []string) (*gin.Engine, func(), error) {
	// Amounts are sent as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// Set up the router and middlewares
	r := gin.New()

	// Don’t process X-Forwarded-For header as we do not do anything with
	// client IPs
	r.ForwardedByClientIP = false

	// Send a HTTP 405 (Method not allowed) for all paths where there is
	// a handler, but not for the specific method used
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(URLMiddleware(url))
	r.NoMethod(func(c *gin.Context) {
		httputil.NewError(c, http.StatusMethodNotAllowed, errMethodNotAllowed)
	})
	r.Use(logger.SetLogger(
		logger.WithDefaultLevel(zerolog.InfoLevel),
		logger.WithClientErrorLevel(zerolog.InfoLevel),
		logger.WithServerErrorLevel(zerolog.ErrorLevel),
		logger.WithSkipPath([]string{"/healthz", "/metrics"}),
		logger.WithLogger(func(c *gin.Context, logger zerolog.Logger) zerolog.Logger {
			return logger.With().
				Str("request-id", requestid.Get(c)).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Int("status", c.Writer.Status()).
				Int("size", c.Writer.Size()).
				Str("user-agent", c.Request.UserAgent()).
				Logger()
		})))

	// CORS settings
	if len(allowOrigins) > 0 {
		log.Debug().Strs("CORS Allowed Origins", allowOrigins).Msg("Router")

		r.Use(cors.New(cors.Config{
			AllowOriginFunc:  AllowOrigin(allowOrigins),
			AllowMethods:     []string{"OPTIONS", "GET", "POST", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
			AllowCredentials: true,
		}))
	}

	err := registerPrometheusMetrics()
	if err != nil {
		return nil, func() {}, err
	}
	r.Use(MetricsMiddleware())

	// Disable the gin debug route printing as it clutters logs (and test logs)
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, numHandlers int) {}

	// Don’t trust any proxy. We do not process any client IPs,
	// therefore we don’t need to trust anyone here.
	_ = r.SetTrustedProxies([]string{})

	log.Debug().Str("API Base URL", url.String()).Str("Host", url.Host).Str("Path", url.Path).Msg("Router")
	log.Info().Str("version", version).Msg("Router")

	teardown := func() {
		unregisterPrometheusMetrics()
	}

	return r, teardown, nil
}

// AttachRoutes attaches the API routes to the router group that is passed in
// Separating this from Config() allows us to attach it to different
// paths for different use cases.
func AttachRoutes(co controllers.Controller, group *gin.RouterGroup, enablePprof bool) {
	group.GET("", GetRoot)
	group.OPTIONS("", httputil.OptionsGet)
	group.GET("/version", GetVersion)
	group.OPTIONS("/version", httputil.OptionsGet)
	group.GET("/metrics", gin.WrapH(promhttp.Handler()))

	docs.SwaggerInfo.Title = "TwoBolsos"
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Description = "The backend for TwoBolsos, shared wallets with live updates for every member."

	group.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// pprof performance profiles
	if enablePprof {
		pprof.RouteRegister(group, "debug/pprof")
	}

	co.RegisterHealthzRoutes(group.Group("/healthz"))
	co.RegisterAuthRoutes(group.Group("/auth"))
	co.RegisterRealtimeRoutes(group.Group("/ws"))

	authenticated := group.Group("", auth.Middleware(co.Issuer))
	co.RegisterWalletRoutes(authenticated.Group("/negocios"))
	co.RegisterTransactionRoutes(authenticated.Group("/transacoes"))
	co.RegisterFixedExpenseRoutes(authenticated.Group("/fixas"))
}

type RootResponse struct {
	Links RootLinks `json:"links"`
}

type RootLinks struct {
	Docs     string `json:"docs" example:"https://example.com/api/docs/index.html"` // Swagger API documentation
	Version  string `json:"version" example:"https://example.com/api/version"`      // Endpoint returning the version of the backend
	Healthz  string `json:"healthz" example:"https://example.com/api/healthz"`      // Health check
	Auth     string `json:"auth" example:"https://example.com/api/auth/token"`      // Token endpoint
	Wallets  string `json:"negocios" example:"https://example.com/api/negocios"`    // Wallet list
	Realtime string `json:"ws" example:"wss://example.com/api/ws"`                  // Change hints, append the user ID
}

// GetRoot returns the link list for the API root.
func GetRoot(c *gin.Context) {
	base := c.GetString(string(models.DBContextURL))

	links := RootLinks{
		Docs:    base + "/docs/index.html",
		Version: base + "/version",
		Healthz: base + "/healthz",
		Auth:    base + "/auth/token",
		Wallets: base + "/negocios",
	}

	if ws, err := url.Parse(base + "/ws"); err == nil {
		ws.Scheme = "ws"
		if strings.HasPrefix(base, "https") {
			ws.Scheme = "wss"
		}
		links.Realtime = ws.String()
	}

	c.JSON(http.StatusOK, RootResponse{Links: links})
}

type VersionResponse struct {
	Data VersionObject `json:"data"` // Data object for the version endpoint
}
type VersionObject struct {
	Version string `json:"version" example:"1.1.0"` // the running version of the TwoBolsos backend
}

// GetVersion returns the API version object.
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, VersionResponse{
		Data: VersionObject{
			Version: version,
		},
	})
}
