package main

import (
	"fmt"
	"os"

	"github.com/DRSN-tech/inventory-backend/internal/app"
	config "github.com/DRSN-tech/inventory-backend/internal/cfg"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/joho/godotenv"
)

//	@title			Inventory API
//	@version		1.0
//	@description	Складской учёт: справочники, товары с партиями, закупки и остатки.
//	@host			localhost:8080
//	@BasePath		/api/v1
func main() {
	// .env необязателен: в контейнере переменные приходят из окружения
	_ = godotenv.Load()

	log, err := logger.NewZapLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf(err, "failed to load config")
		os.Exit(1)
	}

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Errorf(err, "failed to initialize app")
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		log.Sync()
		os.Exit(1)
	}
}
