package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bookbite/bookbite/config"
	"github.com/bookbite/bookbite/controllers"
	"github.com/bookbite/bookbite/gateway"
	"github.com/bookbite/bookbite/ledger"
	"github.com/bookbite/bookbite/routes"
	"github.com/bookbite/bookbite/utils"
)

func main() {
	// Initialize logger
	if err := utils.InitLogger(); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	// Load environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.LogError("Error loading config: %v", err)
		log.Fatal("Error loading config:", err)
	}

	// Initialize database
	config.InitDB()

	// Seed the admin account so payout review works out of the box
	if err := controllers.CreateSampleAdmin(); err != nil {
		utils.LogError("Failed to create sample admin: %v", err)
		log.Fatal("Failed to create sample admin:", err)
	}

	// Wire the ledger engine: injected DB handle and Paystack client.
	// Nothing outside the ledger writes wallet balances.
	paystackClient := gateway.NewClient()
	controllers.Init(ledger.New(config.DB, paystackClient), paystackClient)

	// Set up router (middleware is attached inside SetupRouter)
	router := routes.SetupRouter()

	port := cfg.Port
	if port == "" {
		port = "8080"
	}
	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		utils.LogInfo("Server starting on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.LogError("Error starting server: %v", err)
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown: stop accepting requests, then close the DB.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.LogInfo("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		utils.LogError("Server shutdown failed: %v", err)
	}
	if err := config.CloseDB(); err != nil {
		utils.LogError("Database close failed: %v", err)
	}
	utils.LogInfo("Server stopped")
}
