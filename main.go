package main

import (
	"context"
	"time"
	_ "time/tzdata"

	"ns-advisor/applog"
	"ns-advisor/config"
	"ns-advisor/di"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := applog.Init(cfg.Debug); err != nil {
		panic(err)
	}
	defer applog.Sync()

	container, err := di.NewContainer(cfg)
	if err != nil {
		applog.Fatalf("Failed to build container: %v", err)
	}
	defer container.RedisClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := container.SummaryRefresherService.RefreshTodaySummary(ctx); err != nil {
		applog.Warnf("Initial summary refresh failed: %v", err)
	}
	container.SummaryRefresherService.StartPeriodicJob(ctx, time.Duration(cfg.RefreshMinutes)*time.Minute)

	if err := container.AdvisorHttpServer.Start(); err != nil {
		applog.Errorf("Server stopped with error: %v", err)
	}
}
