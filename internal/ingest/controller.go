// Package ingest implements the Ingest Controller (component E): it drives
// one run end to end — fetch, parse, fold, write — bounding concurrency with
// a weighted semaphore and persisting per-run bookkeeping, per SPEC_FULL.md
// §4.5.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"gorm.io/gorm"

	"ingestd/internal/chronicler"
	"ingestd/internal/config"
	"ingestd/internal/fold"
	"ingestd/internal/model"
	"ingestd/internal/parsing"
	"ingestd/internal/rawgame"
	"ingestd/internal/writer"
)

// State is the controller's own lifecycle, separate from the run row
// persisted to info.ingests.
type State int

const (
	Idle State = iota
	Starting
	Running
	Stopping
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	default:
		return "failed"
	}
}

// Controller owns the ingest lifecycle state machine
// (Idle -> Starting -> Running -> (Stopping -> Idle) | Failed).
type Controller struct {
	db         *gorm.DB
	chronicler *chronicler.Client
	writer     *writer.Writer
	logger     *logrus.Logger
	cfg        config.IngestConfig

	state  atomic.Int32
	cancel context.CancelFunc

	countsMu sync.Mutex
}

func New(db *gorm.DB, client *chronicler.Client, w *writer.Writer, logger *logrus.Logger, cfg config.IngestConfig) *Controller {
	return &Controller{db: db, chronicler: client, writer: w, logger: logger, cfg: cfg}
}

func (c *Controller) State() State {
	return State(c.state.Load())
}

// Stop requests a graceful stop: in-flight games finish, no new page is
// fetched. It is a no-op if no run is active.
func (c *Controller) Stop() {
	if c.cancel != nil && c.state.CompareAndSwap(int32(Running), int32(Stopping)) {
		c.cancel()
	}
}

// RunOnce executes exactly one ingest run to completion (or abort) and
// returns once it has finished. The caller (a periodic scheduler or
// cmd/ingestd's startup hook) decides cadence; RunOnce itself is a single
// shot, matching the "fail-fast on bad config, then periodic" shape named in
// SPEC_FULL.md §6.
func (c *Controller) RunOnce(parent context.Context) error {
	if !c.state.CompareAndSwap(int32(Idle), int32(Starting)) {
		return fmt.Errorf("ingest run already active (state=%s)", c.State())
	}

	ctx, cancel := context.WithCancel(parent)
	c.cancel = cancel
	defer cancel()
	defer c.state.Store(int32(Idle))

	run := model.Ingest{RunUUID: uuid.NewString(), StartedAt: time.Now()}
	if err := c.db.Create(&run).Error; err != nil {
		c.state.Store(int32(Failed))
		return fmt.Errorf("recording ingest run start: %w", err)
	}

	c.state.Store(int32(Running))
	counts := model.IngestCounts{IngestID: run.ID}
	timings := model.IngestTimings{IngestID: run.ID}

	startCursor := ""
	if !c.cfg.ReimportAll {
		startCursor = c.lastCheckpoint()
	}

	err := c.runPages(ctx, startCursor, &counts, &timings)

	now := time.Now()
	run.FinishedAt = &now
	if err != nil {
		reason := err.Error()
		run.AbortedAt = &now
		run.AbortReason = &reason
		c.state.Store(int32(Failed))
		if errors.Is(err, chronicler.ErrFetchAborted) {
			c.logger.WithError(err).Error("ingest run aborted: chronicler fetch retries exhausted")
		}
	}
	if saveErr := c.db.Save(&run).Error; saveErr != nil {
		c.logger.WithError(saveErr).Error("failed to persist ingest run completion")
	}
	if saveErr := c.db.Save(&timings).Error; saveErr != nil {
		c.logger.WithError(saveErr).Error("failed to persist ingest timings")
	}
	if saveErr := c.db.Save(&counts).Error; saveErr != nil {
		c.logger.WithError(saveErr).Error("failed to persist ingest counts")
	}

	return err
}

// runPages streams pages from the chronicler and, for each page, fans its
// games out across the concurrency ceiling before moving to the next page —
// the checkpoint-after-full-page-commit discipline in SPEC_FULL.md §5(iii).
func (c *Controller) runPages(ctx context.Context, startCursor string, counts *model.IngestCounts, timings *model.IngestTimings) error {
	pages, errc := c.chronicler.Stream(ctx, "game", startCursor)
	sem := semaphore.NewWeighted(int64(c.cfg.Parallelism()))

	for page := range pages {
		g, gctx := errgroup.WithContext(ctx)
		var acquireErr error
		for _, entity := range page.Items {
			entity := entity
			if acquireErr = sem.Acquire(gctx, 1); acquireErr != nil {
				break
			}
			g.Go(func() error {
				defer sem.Release(1)
				return c.processGame(gctx, entity, counts, timings)
			})
		}
		if err := g.Wait(); err != nil {
			return fmt.Errorf("page starting at %q: %w", page.Token, err)
		}
		if acquireErr != nil {
			// Some of the page's games were never started; do not checkpoint.
			return fmt.Errorf("page starting at %q: %w", page.Token, acquireErr)
		}
		if err := c.checkpoint(page.NextToken); err != nil {
			return fmt.Errorf("checkpointing after page %q: %w", page.Token, err)
		}
	}

	if err := <-errc; err != nil {
		return err
	}

	if c.cfg.FetchKnownMissingGames {
		if err := c.retryKnownMissingGames(ctx, counts, timings); err != nil {
			return err
		}
	}
	return nil
}

// retryKnownMissingGames implements the fetch_known_missing_games flag
// (SPEC_FULL.md §4.5 "Supplemental controller responsibilities"): after
// normal page exhaustion, re-request the small fixed list of previously-
// failed game ids recorded in info.event_ingest_log (GameID=0 rows: the
// write transaction rolled back, so no game row exists for them).
func (c *Controller) retryKnownMissingGames(ctx context.Context, counts *model.IngestCounts, timings *model.IngestTimings) error {
	var ids []string
	if err := c.db.Model(&model.EventIngestLog{}).
		Where("game_id = 0 AND mmolb_game_id <> ''").
		Distinct().Pluck("mmolb_game_id", &ids).Error; err != nil {
		return fmt.Errorf("listing known-missing games: %w", err)
	}

	for _, id := range ids {
		entity, err := c.chronicler.FetchByID(ctx, "game", id)
		if err != nil {
			c.logger.WithError(err).WithField("mmolb_game_id", id).
				Warn("fetch_known_missing_games: refetch failed")
			continue
		}
		if err := c.processGame(ctx, entity, counts, timings); err != nil {
			return err
		}
	}
	return nil
}

// processGame runs one game through parse, fold, write. A single game's
// failure is recorded as an issue and counted, but never aborts the run
// (SPEC_FULL.md §7 "per-game fault isolation").
func (c *Controller) processGame(ctx context.Context, entity rawgame.Entity, counts *model.IngestCounts, timings *model.IngestTimings) error {
	// Season-0 games that never finish are never ingested (spec.md §... /
	// SPEC_FULL.md §4.3 edge cases): they are scratch/preseason data with no
	// stable final state to reconstruct.
	if entity.Data.Season == 0 && entity.Data.IsOngoing() {
		c.countsMu.Lock()
		counts.NumOngoingGamesSkipped++
		c.countsMu.Unlock()
		return nil
	}

	t0 := time.Now()
	header, entries, issues := parsing.Parse(entity.Data)
	atomic.AddInt64(&timings.ParseNanos, int64(time.Since(t0)))

	fatal := false
	for _, iss := range issues {
		if iss.LogLevel <= 0 {
			fatal = true
		}
		if errors.Is(iss.Err, parsing.ErrUnparsed) {
			c.logger.WithField("mmolb_game_id", header.MmolbGameID).
				WithField("game_event_index", iss.GameEventIndex).
				Debug("unparsed event-log line")
		}
	}

	t1 := time.Now()
	result := fold.FoldGame(entries)
	atomic.AddInt64(&timings.FoldNanos, int64(time.Since(t1)))

	for _, iss := range result.Issues {
		if errors.Is(iss.Err, fold.ErrFoldInconsistent) {
			fatal = true
			c.logger.WithField("mmolb_game_id", header.MmolbGameID).
				WithField("game_event_index", iss.GameEventIndex).
				Error("fold inconsistency detected")
		}
	}

	t2 := time.Now()
	err := c.writer.WriteGame(ctx, header, entity.ValidFrom, result, issues, entity.Data.EventLog)
	atomic.AddInt64(&timings.WriteNanos, int64(time.Since(t2)))

	c.countsMu.Lock()
	defer c.countsMu.Unlock()
	if entity.Data.IsOngoing() {
		counts.NumOngoingGamesSkipped++
	}
	if fatal {
		counts.NumGamesWithFatalErrors++
	}
	if err != nil {
		counts.NumBuggedGamesSkipped++
		c.logger.WithError(err).WithField("mmolb_game_id", header.MmolbGameID).
			Error("game write failed; continuing with next game")
		failure := model.EventIngestLog{
			MmolbGameID: header.MmolbGameID,
			LogLevel:    1, // Error
			LogText:     fmt.Sprintf("game write failed: %v", err),
		}
		if logErr := c.db.Create(&failure).Error; logErr != nil {
			c.logger.WithError(logErr).Error("failed to record write failure for fetch_known_missing_games")
		}
		return nil
	}
	counts.NumGamesImported++
	return nil
}

// checkpoint persists the cursor to resume from on the next run, alongside
// the active run row, so the next run resumes from the last fully committed
// page rather than from the beginning. lastCheckpoint reads only runs that
// recorded finished_at (aborted runs included); a run whose process exited
// before recording it is not resumed from.
func (c *Controller) checkpoint(nextToken string) error {
	if nextToken == "" {
		return nil
	}
	return c.db.Model(&model.Ingest{}).
		Where("finished_at IS NULL AND aborted_at IS NULL").
		Update("start_next_ingest_at_page", nextToken).Error
}

// lastCheckpoint returns the cursor the most recently finished run left off
// at, or "" to start from the beginning.
func (c *Controller) lastCheckpoint() string {
	var run model.Ingest
	if err := c.db.Where("finished_at IS NOT NULL").
		Order("finished_at DESC").First(&run).Error; err != nil {
		return ""
	}
	if run.StartNextIngestAtPage == nil {
		return ""
	}
	return *run.StartNextIngestAtPage
}
