package main

import (
	"log"

	"github.com/labstack/echo/v4"

	"chatapp/internal/media"
	"chatapp/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := media.NewStore(cfg.MediaDataDir)
	if err != nil {
		log.Fatalf("Failed to prepare media directories: %v", err)
	}

	server := media.NewServer(store, cfg.MediaMaxSize)

	e := echo.New()
	server.RegisterRoutes(e)

	log.Printf("Media relay listening on http://%s:%s", media.LocalAddr(), cfg.MediaPort)
	e.Logger.Fatal(e.Start(":" + cfg.MediaPort))
}
