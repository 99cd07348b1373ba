package main

import (
	"os"

	"github.com/nacosng/feeclearance/internal/pkg/logger"
	"github.com/nacosng/feeclearance/internal/server"
)

// @title NACOS Fee Clearance API
// @version 1.0
// @description API for the NACOS student fee clearance portal

// @host localhost:8080
// @BasePath /api
// @schemes http https

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
