package main

import (
	"realite-api/core/logger"
	"realite-api/core/server"
)

// @title Realite API
// @version 1.0
// @description Backend for Realite - shared calendar recommendations and smart meeting negotiation

// @contact.name API Support
// @contact.email support@realite.app

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
