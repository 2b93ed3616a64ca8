package server

import (
	"billing-checkout/internal/handler"
	"billing-checkout/internal/middleware"
	"billing-checkout/internal/service"
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Server struct {
	echo         *echo.Echo
	cartHandler  *handler.CartHandler
	orderHandler *handler.OrderHandler
	jwtSecret    string
}

func NewServer(
	cartService service.CartService,
	orderService service.OrderService,
	checkoutService service.CheckoutService,
	jwtSecret string,
	logger *zap.Logger,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRequestID: true,
		LogLatency:   true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("request_id", v.RequestID),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.Error(v.Error),
			)
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	s := &Server{
		echo:         e,
		cartHandler:  handler.NewCartHandler(cartService),
		orderHandler: handler.NewOrderHandler(orderService, checkoutService),
		jwtSecret:    jwtSecret,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	api.GET("/products", s.cartHandler.ListProducts)

	authed := api.Group("", middleware.AuthMiddleware(s.jwtSecret))

	// -------- cart --------
	authed.GET("/cart", s.cartHandler.GetCart)
	authed.POST("/cart/items", s.cartHandler.AddItem)

	// -------- orders --------
	authed.POST("/orders", s.orderHandler.PlaceOrder)
	authed.GET("/orders/:id", s.orderHandler.GetOrder)
	authed.POST("/orders/:id/checkout", s.orderHandler.Checkout)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
