package main

import (
	"fmt"
	"log"

	"github.com/YenChengLai/constellation-backend/internal/config"
	"github.com/YenChengLai/constellation-backend/internal/database"
	"github.com/YenChengLai/constellation-backend/internal/router"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	// run migrations and make sure the shared default categories exist
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}
	if err := database.SeedDefaultCategories(db); err != nil {
		log.Fatalf("seed default categories: %v", err)
	}

	// start server
	r := router.Setup(cfg, db)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Printf("listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}
