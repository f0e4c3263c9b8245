package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notion-sync-backend/cmd/notion-sync/apis"
	"notion-sync-backend/cmd/notion-sync/applog"
	"notion-sync-backend/cmd/notion-sync/notion"
	"notion-sync-backend/cmd/notion-sync/repository"
	syncpkg "notion-sync-backend/cmd/notion-sync/sync"

	"github.com/kelseyhightower/envconfig"
	"github.com/labstack/echo/v4"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type EnvCfg struct {
	NotionToken string `envconfig:"NOTION_TOKEN" required:"true"`
	EventsDBID  string `envconfig:"EVENTS_DB_ID" required:"true"`
	MembersDBID string `envconfig:"MEMBERS_DB_ID"`
	DBHost      string `envconfig:"DB_HOST" required:"true"`
	DBPort      int    `envconfig:"DB_PORT" required:"true"`
	DBUser      string `envconfig:"DB_USER" required:"true"`
	DBPassword  string `envconfig:"DB_PASSWORD" required:"true"`
	DBName      string `envconfig:"DB_NAME" required:"true"`
	SyncCron    string `envconfig:"SYNC_CRON" default:"0 * * * *"`
	ListenPort  int    `envconfig:"LISTEN_PORT" default:"8080"`
}

func main() {

	err := os.Setenv("TZ", "UTC")
	if err != nil {
		panic(err)
	}

	var cfg EnvCfg
	err = envconfig.Process("NOTION_SYNC", &cfg)
	if err != nil {
		panic(err)
	}

	db, err := gorm.Open(
		postgres.Open(
			fmt.Sprintf(
				"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
				cfg.DBHost,
				cfg.DBPort,
				cfg.DBUser,
				cfg.DBPassword,
				cfg.DBName,
			),
		),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		},
	)

	if err != nil {
		panic(err)
	}

	// Small shared pool: sync statements run sequentially, the HTTP
	// surface only reads.
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(10)

	docStore := notion.NewClient(cfg.NotionToken)

	eventRepo := repository.NewEventRepo(db)
	memberRepo := repository.NewMemberRepo(db)

	driver := syncpkg.NewDriver(
		syncpkg.NewEventReconciler(docStore, eventRepo, cfg.EventsDBID),
		syncpkg.NewMemberReconciler(docStore, memberRepo, cfg.MembersDBID),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scheduler, err := driver.Start(ctx, cfg.SyncCron)
	if err != nil {
		panic(err)
	}

	e := echo.New()
	e.HideBanner = true

	rootg := e.Group("")
	v1g := rootg.Group("/api/v1")

	apis.
		NewHealthCheckAPI(db).
		Setup(rootg)

	apis.
		NewEventAPI(eventRepo).
		Setup(v1g)

	apis.
		NewMemberAPI(memberRepo).
		Setup(v1g)

	apis.
		NewSyncAPI(driver).
		Setup(v1g)

	go func() {
		err := e.Start(fmt.Sprintf(":%d", cfg.ListenPort))
		if err != nil && err != http.ErrServerClosed {
			applog.Error("http server stopped", err)
		}
	}()

	applog.Info("notion-sync started", "cron", cfg.SyncCron, "port", cfg.ListenPort)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	applog.Info("signal received, shutting down", "signal", sig.String())

	// Let an in-flight cycle finish; stop new triggers first.
	<-scheduler.Stop().Done()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	err = e.Shutdown(shutdownCtx)
	if err != nil {
		applog.Error("http shutdown failed", err)
	}

	applog.Info("notion-sync exiting")
}
