package server

import (
	"context"
	"net/http"

	"shopease-backend/internal/config"
	"shopease-backend/internal/handler"
	"shopease-backend/internal/middleware"
	"shopease-backend/internal/repository"
	"shopease-backend/internal/service"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Server struct {
	echo            *echo.Echo
	productHandler  *handler.ProductHandler
	cartHandler     *handler.CartHandler
	checkoutHandler *handler.CheckoutHandler
	orderHandler    *handler.OrderHandler
	adminHandler    *handler.AdminHandler
	studentHandler  *handler.StudentHandler
	adminToken      string
}

func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	productRepo repository.ProductRepository,
	cartService service.CartService,
	checkoutService service.CheckoutService,
	studentService service.StudentService,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
				logger.Warn("request", fields...)
			} else {
				logger.Info("request", fields...)
			}
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	s := &Server{
		echo:            e,
		productHandler:  handler.NewProductHandler(productRepo),
		cartHandler:     handler.NewCartHandler(cartService),
		checkoutHandler: handler.NewCheckoutHandler(checkoutService),
		orderHandler:    handler.NewOrderHandler(checkoutService, cartService, logger),
		adminHandler:    handler.NewAdminHandler(checkoutService),
		studentHandler:  handler.NewStudentHandler(studentService),
		adminToken:      cfg.Admin.Token,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api.GET("/products", s.productHandler.List)
	api.GET("/products/:id", s.productHandler.Get)

	// -------- storefront (session scoped) --------
	shop := api.Group("", middleware.Session())
	shop.GET("/cart", s.cartHandler.GetCart)
	shop.POST("/cart/add/:id", s.cartHandler.Add)
	shop.POST("/cart/update/:id", s.cartHandler.Update)
	shop.POST("/cart/remove/:id", s.cartHandler.Remove)

	shop.GET("/checkout/quote", s.checkoutHandler.Quote)
	shop.POST("/checkout/session", s.checkoutHandler.CreateSession)
	shop.GET("/checkout/cancel", s.checkoutHandler.Cancel)
	shop.GET("/orders/confirm", s.orderHandler.Confirm)

	// -------- provider webhook (raw body, no session) --------
	api.POST("/checkout/webhook", s.checkoutHandler.Webhook)

	// -------- admin --------
	admin := api.Group("/admin", middleware.AdminAuth(s.adminToken))
	admin.GET("/orders", s.adminHandler.Orders)

	// -------- course registration --------
	students := api.Group("/students")
	students.POST("/register", s.studentHandler.Register)
	students.POST("/login", s.studentHandler.Login)
	students.POST("/courses", s.studentHandler.SaveCourses)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
