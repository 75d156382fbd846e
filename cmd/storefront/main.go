package main

import (
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"storefront/internal/config"
	"storefront/internal/http/handlers"
	applog "storefront/internal/log"
	"storefront/internal/repos"
)

func main() {
	cfg := config.Load()

	l, err := applog.Init(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		l.Warn("log file unavailable, logging to stdout only", zap.Error(err))
	}
	defer func() { _ = l.Sync() }()
	l.Info("config.loaded", cfg.Fields()...)

	db, err := repos.OpenDB(cfg.DBDSN, cfg.SeedDemo)
	if err != nil {
		l.Fatal("db.open", zap.Error(err))
	}
	defer db.Close()

	app := handlers.NewApp(cfg, db)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		l.Info("server.shutdown")
		_ = app.Shutdown()
	}()

	l.Info("server.listen", zap.String("addr", ":"+cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		l.Error("server.listen", zap.Error(err))
	}
}
