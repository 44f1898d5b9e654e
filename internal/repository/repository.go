// Package repository provides query/write helpers over internal/model beyond
// what internal/writer needs inline: status queries, the issues list, and
// ingest history, backing internal/api. Grounded on the teacher's
// CanonicalRepository (interface + struct + constructor, paginated list
// queries via gorm.DB).
package repository

import (
	"context"

	"gorm.io/gorm"

	"ingestd/internal/model"
)

// IngestRepository reads the per-run bookkeeping rows the controller writes.
type IngestRepository interface {
	ListRuns(ctx context.Context, page, pageSize int) ([]*model.Ingest, int64, error)
	LatestRun(ctx context.Context) (*model.Ingest, bool, error)
	RunCounts(ctx context.Context, ingestID int64) (*model.IngestCounts, error)
	RunTimings(ctx context.Context, ingestID int64) (*model.IngestTimings, error)
}

// GameRepository reads the game-scoped data the status API surfaces.
type GameRepository interface {
	GameByMmolbID(ctx context.Context, mmolbGameID string) (*model.Game, bool, error)
	ListIssues(ctx context.Context, maxSeverity, limit int) ([]*model.EventIngestLog, error)
	GamesWithFatalIssues(ctx context.Context, limit int) ([]int64, error)
}

type ingestRepository struct {
	db *gorm.DB
}

func NewIngestRepository(db *gorm.DB) IngestRepository {
	return &ingestRepository{db: db}
}

func (r *ingestRepository) ListRuns(ctx context.Context, page, pageSize int) ([]*model.Ingest, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 50
	}

	db := r.db.WithContext(ctx).Model(&model.Ingest{})
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var runs []*model.Ingest
	if err := db.Order("started_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&runs).Error; err != nil {
		return nil, 0, err
	}
	return runs, total, nil
}

func (r *ingestRepository) LatestRun(ctx context.Context) (*model.Ingest, bool, error) {
	var run model.Ingest
	err := r.db.WithContext(ctx).Order("started_at DESC").First(&run).Error
	if err == gorm.ErrRecordNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &run, true, nil
}

func (r *ingestRepository) RunCounts(ctx context.Context, ingestID int64) (*model.IngestCounts, error) {
	var counts model.IngestCounts
	if err := r.db.WithContext(ctx).Where("ingest_id = ?", ingestID).First(&counts).Error; err != nil {
		return nil, err
	}
	return &counts, nil
}

func (r *ingestRepository) RunTimings(ctx context.Context, ingestID int64) (*model.IngestTimings, error) {
	var timings model.IngestTimings
	if err := r.db.WithContext(ctx).Where("ingest_id = ?", ingestID).First(&timings).Error; err != nil {
		return nil, err
	}
	return &timings, nil
}

type gameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) GameRepository {
	return &gameRepository{db: db}
}

func (r *gameRepository) GameByMmolbID(ctx context.Context, mmolbGameID string) (*model.Game, bool, error) {
	var g model.Game
	err := r.db.WithContext(ctx).Where("mmolb_game_id = ?", mmolbGameID).First(&g).Error
	if err == gorm.ErrRecordNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &g, true, nil
}

// ListIssues returns the most recent log rows at or below maxSeverity (lower
// is more severe — SPEC_FULL.md §7's Critical=0..Trace=5 scale).
func (r *gameRepository) ListIssues(ctx context.Context, maxSeverity, limit int) ([]*model.EventIngestLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 200
	}
	var rows []*model.EventIngestLog
	err := r.db.WithContext(ctx).
		Where("log_level <= ?", maxSeverity).
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// GamesWithFatalIssues returns distinct game ids carrying a Critical or
// Error severity log entry, most recent first.
func (r *gameRepository) GamesWithFatalIssues(ctx context.Context, limit int) ([]int64, error) {
	if limit <= 0 || limit > 500 {
		limit = 200
	}
	var ids []int64
	err := r.db.WithContext(ctx).Model(&model.EventIngestLog{}).
		Distinct("game_id").
		Where("log_level <= ?", 1).
		Order("game_id DESC").
		Limit(limit).
		Pluck("game_id", &ids).Error
	return ids, err
}
