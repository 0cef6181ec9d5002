package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/Skotchmaster/inventory/internal/config"
	"github.com/Skotchmaster/inventory/internal/events"
	"github.com/Skotchmaster/inventory/internal/httpserver"
	"github.com/Skotchmaster/inventory/internal/repo"
	"github.com/Skotchmaster/inventory/internal/service"
	"github.com/Skotchmaster/inventory/internal/uploads"
	"github.com/Skotchmaster/inventory/internal/watermark"
	pkgdb "github.com/Skotchmaster/inventory/pkg/db"
	"github.com/Skotchmaster/inventory/pkg/logging"
	authmw "github.com/Skotchmaster/inventory/pkg/middleware/auth"
	loggingmw "github.com/Skotchmaster/inventory/pkg/middleware/logging"
)

func main() {
	config.LoadEnvFile(".env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Mode: cfg.LogMode, File: cfg.LogFile})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	logger = logger.With("service", cfg.ServiceName)
	zap.ReplaceGlobals(logger.Desugar())
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		cancel()
		logger.Fatalw("db_open_failed", "driver", cfg.DBDriver, "error", err)
	}

	store := &repo.GormRepo{DB: db}
	if err := store.Bootstrap(ctx, repo.DefaultAccounts); err != nil {
		cancel()
		logger.Fatalw("db_bootstrap_failed", "error", err)
	}
	cancel()

	files, err := uploads.NewStore(cfg.UploadDir)
	if err != nil {
		logger.Fatalw("upload_dir_failed", "dir", cfg.UploadDir, "error", err)
	}

	publisher := events.New(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warnw("kafka_close_failed", "error", err)
		}
	}()

	catalog := &service.CatalogService{
		Repo:      store,
		Uploads:   files,
		Watermark: watermark.New(cfg.WatermarkLabel, watermark.DefaultFonts(cfg.FontPaths)),
		Events:    publisher,
	}
	auth := &service.AuthService{Repo: store, SessionSecret: cfg.SessionSecret, SessionTTL: cfg.SessionTTL}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.BodyLimit("32M"))

	httpserver.Register(e, &httpserver.Deps{
		CatalogHandler: &httpserver.CatalogHTTP{Svc: catalog},
		AuthHandler:    &httpserver.AuthHTTP{Svc: auth, CookieSecure: cfg.CookieSecure},
		Sessions:       authmw.NewSessionMiddleware(cfg.SessionSecret, "/", cfg.CookieSecure),
		NoticeStore:    httpserver.NewNoticeStore(cfg.SessionSecret, cfg.CookieSecure),
		UploadDir:      files.Dir,
		Ready:          func(ctx context.Context) error { return pkgdb.Ping(ctx, db) },
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Infow("inventory listening", "addr", srv.Addr, "db_driver", cfg.DBDriver, "kafka", len(cfg.KafkaBrokers) > 0)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalw("listen_failed", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnw("shutdown_failed", "error", err)
	}
	pkgdb.Close(db)

	logger.Infow("inventory stopped")
}
