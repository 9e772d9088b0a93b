package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/RonoHenry/Design-Synapse-sub002/internal/infrastructure/config"
	"github.com/RonoHenry/Design-Synapse-sub002/internal/server"
)

func main() {
	// Parse flags
	port := flag.String("port", "", "Server port (overrides PORT)")
	servicesFile := flag.String("services", "", "Services file path (overrides SERVICES_FILE)")
	flag.Parse()

	// Load configuration, flags win over environment
	cfg := config.LoadOrDefault()
	if *port != "" {
		cfg.Server.Port = *port
	}
	if *servicesFile != "" {
		cfg.Peers.File = *servicesFile
	}

	// Create server
	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-sigChan:
		log.Println("Shutting down gracefully...")
		if err := srv.Close(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	case err := <-errChan:
		log.Fatalf("Server error: %v", err)
	}
}
