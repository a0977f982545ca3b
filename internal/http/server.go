package http

import (
	"context"
	"net/http"
	"time"

	"github.com/jmehdipour/order-service/internal/config"
	"github.com/jmehdipour/order-service/internal/events"
	"github.com/jmehdipour/order-service/internal/http/middleware"
	"github.com/jmehdipour/order-service/internal/logger"
	"github.com/jmehdipour/order-service/internal/metrics"
	"github.com/jmehdipour/order-service/internal/repository"
	"github.com/jmehdipour/order-service/internal/service/orders"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const welcome = "If your are Lost welcome to the Sauce!"

// maxBody caps request bodies; every payload here is a handful of fields.
const maxBody = "64K"

// Deps is everything the routes need. Redis may be nil (no rate limiting).
type Deps struct {
	Customers repository.CustomersRepository
	Products  repository.ProductsRepository
	Orders    *orders.Service

	Redis        *redis.Client
	RateLimitRPS int

	// ProductDeleteAlwaysOK keeps the legacy 200 for unknown product ids.
	ProductDeleteAlwaysOK bool
}

type Server struct{ e *echo.Echo }

func NewServer(cfg config.Config, mysqlDB *sqlx.DB, rds *redis.Client, publisher events.Publisher) *Server {
	// repos (MySQL)
	customersRepo := repository.NewCustomersRepository(mysqlDB)
	productsRepo := repository.NewProductsRepository(mysqlDB)
	ordersRepo := repository.NewOrdersRepository(mysqlDB)

	// services
	ordersSvc := orders.New(ordersRepo, productsRepo, customersRepo, publisher)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	e := NewRouter(Deps{
		Customers:             customersRepo,
		Products:              productsRepo,
		Orders:                ordersSvc,
		Redis:                 rds,
		RateLimitRPS:          cfg.RateLimit.RPS,
		ProductDeleteAlwaysOK: cfg.Compat.ProductDeleteAlwaysOK,
	})
	e.Logger.SetLevel(echoLevel(logger.ParseLevel(cfg.Log.Level)))

	return &Server{e: e}
}

// NewRouter wires middleware and routes onto a fresh Echo instance.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echoMid.Recover(), echoMid.RequestID(), requestLogger(), echoMid.BodyLimit(maxBody))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// health
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	e.Use(middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Redis:          d.Redis,
		RPS:            d.RateLimitRPS,
		KeyPrefix:      "rl:ip:",
		Window:         time.Second,
		RetryAfterHint: true,
		Skip:           []string{"/metrics", "/healthz"},
	}))

	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, welcome) })

	e.GET("/customers", listCustomersHandler(d.Customers))
	e.POST("/customers", createCustomerHandler(d.Customers))
	e.GET("/customers/:id", getCustomerHandler(d.Customers))
	e.PUT("/customers/:id", updateCustomerHandler(d.Customers))
	e.DELETE("/customers/:id", deleteCustomerHandler(d.Customers))

	e.GET("/products", listProductsHandler(d.Products))
	e.POST("/products", createProductHandler(d.Products))
	e.GET("/products/:id", getProductHandler(d.Products))
	e.PUT("/products/:id", updateProductHandler(d.Products))
	e.DELETE("/products/:id", deleteProductHandler(d.Products, d.ProductDeleteAlwaysOK))

	// order ids are always named :id so the router shares one param node
	e.GET("/orders", listOrdersHandler(d.Orders))
	e.POST("/orders", createOrderHandler(d.Orders))
	e.GET("/orders/user/:customer_id", customerOrdersHandler(d.Orders))
	e.GET("/orders/:id", getOrderHandler(d.Orders))
	e.PUT("/orders/:id", updateOrderHandler(d.Orders))
	e.DELETE("/orders/:id", deleteOrderHandler(d.Orders))
	e.GET("/orders/:id/products", orderProductsHandler(d.Orders))
	e.PUT("/orders/:id/add_product/:product_id", addProductHandler(d.Orders))
	e.DELETE("/orders/:id/remove_product/:product_id", removeProductHandler(d.Orders))

	return e
}

func requestLogger() echo.MiddlewareFunc {
	return echoMid.RequestLoggerWithConfig(echoMid.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echoMid.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("request_id", v.RequestID),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				logger.Log.Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Log.Info("request", fields...)
			return nil
		},
	})
}

func echoLevel(l zapcore.Level) log.Lvl {
	switch l {
	case zapcore.DebugLevel:
		return log.DEBUG
	case zapcore.WarnLevel:
		return log.WARN
	case zapcore.ErrorLevel:
		return log.ERROR
	default:
		return log.INFO
	}
}

func (s *Server) Start(addr string) error {
	logger.Log.Info("http: listening", zap.String("addr", addr))
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }
