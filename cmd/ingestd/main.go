// Command ingestd is the process entrypoint: load config, connect to
// PostgreSQL, seed the taxa tables, start the ingest controller, and serve
// the minimal status API until signaled to stop.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v4/stdlib" // registers the "pgx" database/sql driver
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"ingestd/internal/api"
	"ingestd/internal/chronicler"
	"ingestd/internal/config"
	"ingestd/internal/ingest"
	"ingestd/internal/model"
	"ingestd/internal/repository"
	"ingestd/internal/writer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading configuration: %v", err)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		logger.WithError(err).Fatal("connecting to PostgreSQL")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.WithError(err).Fatal("unwrapping database/sql handle")
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// Fail fast: the controller acquires one connection per in-flight game,
	// so the pool must be able to cover the configured parallelism plus
	// headroom for the status API's own queries.
	if cfg.Database.MaxOpenConns <= cfg.Ingest.Parallelism() {
		logger.Fatalf("database.max_open_conns (%d) must exceed ingest parallelism (%d)",
			cfg.Database.MaxOpenConns, cfg.Ingest.Parallelism())
	}

	if err := autoMigrate(db); err != nil {
		logger.WithError(err).Fatal("migrating schema")
	}
	if err := model.Seed(db); err != nil {
		logger.WithError(err).Fatal("seeding taxa tables")
	}

	chronClient, err := chronicler.New(cfg.Chronicler, logger)
	if err != nil {
		logger.WithError(err).Fatal("constructing chronicler client")
	}

	w := writer.New(db, logger)
	controller := ingest.New(db, chronClient, w, logger, cfg.Ingest)

	ingestRepo := repository.NewIngestRepository(db)
	gameRepo := repository.NewGameRepository(db)
	server := api.New(cfg.Server, ingestRepo, gameRepo, controller, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := server.ListenAndServe(); err != nil {
			logger.WithError(err).Error("status API server exited")
		}
	}()

	go runPeriodically(ctx, controller, logger, cfg.Ingest.PeriodSeconds, cfg.Ingest.StartEveryLaunch)

	<-ctx.Done()
	logger.Info("shutdown signal received, stopping ingest controller")
	controller.Stop()
}

// runPeriodically runs the controller every period_seconds, measured from the
// end of the previous run, until ctx is cancelled; with runAtLaunch the first
// run starts immediately, otherwise after one period — the scheduling policy
// named in SPEC_FULL.md §4.5.
func runPeriodically(ctx context.Context, controller *ingest.Controller, logger *logrus.Logger, periodSeconds int, runAtLaunch bool) {
	if !runAtLaunch {
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(periodSeconds) * time.Second):
		}
	}
	for {
		if err := controller.RunOnce(ctx); err != nil {
			logger.WithError(err).Error("ingest run aborted")
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(periodSeconds) * time.Second):
		}
	}
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.FielderLocationTaxon{},
		&model.EventTypeTaxon{},
		&model.FairBallTypeTaxon{},
		&model.BaseTaxon{},
		&model.BaseDescriptionFormatTaxon{},
		&model.FieldingErrorTypeTaxon{},
		&model.PitchTypeTaxon{},
		&model.SlotTaxon{},
		&model.PitcherChangeSourceTaxon{},
		&model.HandednessTaxon{},

		&model.Weather{},
		&model.Game{},
		&model.Event{},
		&model.EventBaserunner{},
		&model.EventFielder{},
		&model.PitcherChange{},
		&model.Ejection{},
		&model.AuroraPhoto{},
		&model.DoorPrize{},
		&model.DoorPrizeItem{},
		&model.Wither{},
		&model.Efflorescence{},
		&model.Party{},
		&model.ConsumptionContest{},
		&model.RawEvent{},

		&model.Ingest{},
		&model.EventIngestLog{},
		&model.IngestTimings{},
		&model.IngestCounts{},
	)
}
