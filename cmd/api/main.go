package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/monline/billing/internal/config"
	"github.com/monline/billing/internal/db"
	"github.com/monline/billing/internal/http"
	"github.com/monline/billing/internal/repository"
	"github.com/monline/billing/internal/service"
)

func main() {
	log.Println("Starting M_Online Billing API...")

	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize database
	pool, err := db.NewPool(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Migrate(migrateCtx, pool); err != nil {
		cancel()
		log.Fatalf("Failed to run migrations: %v", err)
	}
	cancel()

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool)
	packageRepo := repository.NewPackageRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)

	// Initialize services
	authService := service.NewAuthService(cfg, userRepo)
	userService := service.NewUserService(userRepo)
	packageService := service.NewPackageService(packageRepo)
	customerService := service.NewCustomerService(customerRepo, packageRepo)
	billingService := service.NewBillingService(paymentRepo, customerRepo, userRepo)

	// Initialize HTTP server
	server := http.NewServer(cfg, pool, authService, userService, packageService, customerService, billingService)

	// Start server in goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		log.Printf("Server starting on %s", addr)
		if err := server.Run(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	log.Println("Server exited")
}
