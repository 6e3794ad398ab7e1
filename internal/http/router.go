package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/monline/billing/internal/config"
	"github.com/monline/billing/internal/models"
	"github.com/monline/billing/internal/service"
)

type Server struct {
	router      *gin.Engine
	handler     *Handler
	authService *service.AuthService
	cfg         *config.Config
	db          *pgxpool.Pool
}

// Login and registration rate limiter: per IP, keeps credential stuffing
// from hammering bcrypt.
var authRateLimiter = NewRateLimiter(10, time.Minute)

// Global API rate limiter: per authenticated user.
var userRateLimiter = NewRateLimiter(120, time.Minute)

func NewServer(
	cfg *config.Config,
	db *pgxpool.Pool,
	authService *service.AuthService,
	userService *service.UserService,
	packageService *service.PackageService,
	customerService *service.CustomerService,
	billingService *service.BillingService,
) *Server {
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	handler := NewHandler(authService, userService, packageService, customerService, billingService)

	s := &Server{
		router:      router,
		handler:     handler,
		authService: authService,
		cfg:         cfg,
		db:          db,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "monline-billing",
		})
	})

	// Public auth endpoints
	public := s.router.Group("/api/v1")
	public.Use(RateLimitMiddleware(authRateLimiter))
	{
		public.POST("/users/login", s.handler.Login)
		public.POST("/users/login/refresh", s.handler.Refresh)
		public.POST("/users/register", s.handler.Register)
	}

	// Everything else requires a valid access token
	api := s.router.Group("/api/v1")
	api.Use(JWTAuthMiddleware(s.authService))
	api.Use(RateLimitMiddleware(userRateLimiter))

	adminOnly := RequireKinds(models.KindSuperAdmin, models.KindAdmin)
	managerUp := RequireKinds(models.KindSuperAdmin, models.KindAdmin, models.KindManager)
	staffUp := RequireKinds(models.KindSuperAdmin, models.KindAdmin, models.KindManager, models.KindStaff)

	// Own profile, any authenticated kind
	api.GET("/users/me", s.handler.Me)
	api.PUT("/users/me", s.handler.UpdateMe)

	// User administration
	users := api.Group("/users", adminOnly)
	{
		users.GET("", s.handler.ListUsers)
		users.POST("", s.handler.CreateUser)
		users.GET("/:uid", s.handler.GetUser)
		users.PUT("/:uid", s.handler.UpdateUser)
		users.DELETE("/:uid", s.handler.DeleteUser)
	}

	// Packages: staff can read, only admins change pricing
	packages := api.Group("/packages")
	{
		packages.GET("", staffUp, s.handler.ListPackages)
		packages.GET("/:uid", staffUp, s.handler.GetPackage)
		packages.GET("/:uid/customers", staffUp, s.handler.ListPackageCustomers)
		packages.POST("", adminOnly, s.handler.CreatePackage)
		packages.PUT("/:uid", adminOnly, s.handler.UpdatePackage)
		packages.DELETE("/:uid", adminOnly, s.handler.DeletePackage)
	}

	// Customers
	customers := api.Group("/customers")
	{
		customers.GET("", staffUp, s.handler.ListCustomers)
		customers.GET("/:uid", staffUp, s.handler.GetCustomer)
		customers.GET("/:uid/payments", staffUp, s.handler.ListCustomerPayments)
		customers.POST("/:uid/payments", staffUp, s.handler.CreateCustomerPayment)
		customers.POST("", managerUp, s.handler.CreateCustomer)
		customers.PUT("/:uid", managerUp, s.handler.UpdateCustomer)
		customers.DELETE("/:uid", adminOnly, s.handler.DeleteCustomer)
		customers.POST("/status/toggle", managerUp, s.handler.ToggleStatus)
		customers.POST("/bills/generate", adminOnly, s.handler.GenerateBills)
	}

	// Payments
	payments := api.Group("/payments")
	{
		payments.GET("", staffUp, s.handler.ListPayments)
		payments.GET("/:uid", staffUp, s.handler.GetPayment)
		payments.POST("", staffUp, s.handler.CreatePayment)
		payments.PUT("/:uid", managerUp, s.handler.UpdatePayment)
		payments.DELETE("/:uid", adminOnly, s.handler.DeletePayment)
	}

	// Dashboard
	api.GET("/dashboard", managerUp, s.handler.Dashboard)
}

func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Router exposes the underlying engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
