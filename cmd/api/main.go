package main

import (
	_ "agency_estimate/docs"
	"agency_estimate/config"
	"agency_estimate/internal/adapter/http/routes"
	"agency_estimate/internal/infrastructure/logging"

	_ "github.com/joho/godotenv/autoload"
)

// @title           Agency Estimate API
// @version         1.0
// @description     Estimate wizard sessions, saved estimates, deposit payments and proposal drafts.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.swagger.io/support
// @contact.email  support@swagger.io

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080

// @BasePath  /v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("invalid configuration", "err", err)
	}
	logging.Setup(cfg.App.LogLevel)

	if err := routes.Run(cfg); err != nil {
		logging.Fatal("server stopped", "err", err)
	}
}
