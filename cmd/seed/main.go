package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/YenChengLai/constellation-backend/internal/config"
	"github.com/YenChengLai/constellation-backend/internal/database"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	dbPath := fs.String("db", "", "Path to database file (defaults to the configured path)")
	configPath := fs.String("config", "config.yaml", "Path to config file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	dbCfg := cfg.Database
	if *dbPath != "" {
		dbCfg.Path = *dbPath
	}

	db, err := database.Init(dbCfg)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	if err := database.SeedDefaultCategories(db); err != nil {
		return err
	}

	fmt.Printf("Seeded %d default categories into %s\n", len(database.DefaultCategories), dbCfg.Path)
	return nil
}
