// @title Shikkha Platform API
// @version 1.0
// @description Content progression and exam engine for the Shikkha learning platform.

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"log"

	"shikkha_backend/internal/app"
	"shikkha_backend/internal/config"
	"shikkha_backend/pkg/configwatcher"
	"shikkha_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(newCfg interface{}) {
		if parsed, ok := newCfg.(*config.Config); ok {
			application.ReloadConfig(parsed)
		}
	})

	application.Run()
}
