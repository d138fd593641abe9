package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/commhub/community-settings/config"
	"github.com/commhub/community-settings/internal/bootstrap"
	"github.com/commhub/community-settings/internal/maintenance"
	"github.com/commhub/community-settings/internal/projects/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{Config: &cfg.Database, Migrate: true})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.Printf("Redis unavailable, AI fill answers will not be cached: %v", err)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	filler := bootstrap.BuildAIFill(ctx, cfg.AI, rdb)
	settings := bootstrap.BuildSettings(db, filler)

	scheduler := maintenance.NewScheduler(repository.NewGlobalVariableRepository(db))
	if err := scheduler.Start(cfg.App.CleanupSchedule); err != nil {
		log.Printf("Cleanup job disabled: %v", err)
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:     "community-settings-api",
		Version:         cfg.App.Version,
		CORSOrigins:     cfg.Server.CORSOrigins,
		DB:              db,
		Redis:           rdb,
		Settings:        settings,
		AIFillPerMinute: cfg.AI.PerMinute,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("listening on :%s (env=%s)", cfg.Server.Port, cfg.App.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	scheduler.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
