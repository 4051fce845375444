package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"crm/internal/config"
	httpapi "crm/internal/http"
	"crm/internal/http/handlers"
	"crm/internal/repos"
)

func main() {
	// .env is optional; real env vars win
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[warn] .env: %v", err)
	}
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if cfg.SeedDemo {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := repos.Seed(ctx, db)
		cancel()
		if err != nil {
			log.Fatalf("seed: %v", err)
		}
		log.Printf("[seed] demo data ready")
	}

	deps := handlers.NewDeps(db, cfg)
	app := httpapi.NewApp(deps, cfg)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Printf("[shutdown] draining connections")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
