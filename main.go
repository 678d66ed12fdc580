package main

import (
	"circounter/cli"
	"circounter/config"
	"circounter/core"
	"circounter/counter"
	"circounter/database"
	"circounter/handlers"
	"circounter/service"
	"circounter/version"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load environment variables, config file and CLI flags
	config.ParseFlags()

	logFile, err := setupLogging(config.Settings.LogFilePath)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if config.Settings.CLIMode {
		mainCLI()
		return
	}

	log.Printf("circounter %s starting up...", version.GetFullVersion())

	if err := database.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// The first range written to the database wins when pinning is on,
	// so integers keep coercing the same way across restarts.
	rng, err := database.ResolveCounterRange(database.DB, config.Settings.CounterRange(), config.Settings.CounterPinDefaults)
	if err != nil {
		log.Fatalf("Invalid counter default range: %v", err)
	}
	log.Printf("Counter default range: start=%d cycle_len=%d", rng.Start, rng.CycleLen)

	codec, err := counter.NewCodec(rng)
	if err != nil {
		log.Fatalf("Invalid counter codec: %v", err)
	}

	core.ErrorLoggerInstance.SetMaxLogs(config.Settings.MaxErrorLogs)
	service.InitServices(database.DB, codec)

	if config.Settings.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Direct Gin logs to the configured log file
	gin.DefaultWriter = log.Writer()
	gin.DefaultErrorWriter = log.Writer()
	gin.DisableConsoleColor()

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))
	handlers.RegisterRoutes(r)

	port, err := nextFreePort(config.Settings.Port)
	if err != nil {
		log.Fatalf("Failed to find a port: %v", err)
	}
	if port != config.Settings.Port {
		log.Printf("Default port %d is busy. Switched to %d", config.Settings.Port, port)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://127.0.0.1:%d", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Received interrupt signal, shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if err := database.CloseDB(); err != nil {
		log.Printf("Error closing database: %v", err)
	}

	log.Println("Server exited")
}

// mainCLI runs the interactive client; it needs no database
func mainCLI() {
	serverURL := config.Settings.CLIServer
	fmt.Printf("circounter CLI - Connecting to %s\n", serverURL)

	cliInstance, err := cli.NewCLIHttp(serverURL)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		fmt.Println("\nTips:")
		fmt.Println("  1. Make sure the server is running:")
		fmt.Println("     ./circounter")
		fmt.Println("  2. Or specify a different server:")
		fmt.Println("     ./circounter --cli --server http://your-server:7790")
		os.Exit(1)
	}

	cliInstance.Start()
}
