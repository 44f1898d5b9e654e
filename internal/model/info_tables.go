package model

import "time"

// Ingest is one row per controller run (component E), SPEC_FULL.md §4.5.
type Ingest struct {
	ID                     int64      `gorm:"column:id;primaryKey"`
	RunUUID                string     `gorm:"column:run_uuid;uniqueIndex;size:36"`
	StartedAt              time.Time  `gorm:"column:started_at"`
	FinishedAt             *time.Time `gorm:"column:finished_at"`
	AbortedAt              *time.Time `gorm:"column:aborted_at"`
	AbortReason            *string    `gorm:"column:abort_reason;size:512"`
	StartNextIngestAtPage  *string    `gorm:"column:start_next_ingest_at_page;size:256"`
}

func (Ingest) TableName() string { return "info.ingests" }

// EventIngestLog is the per-event/per-game log sink described in
// SPEC_FULL.md §7: game-wide entries carry GameEventIndex=nil. A row with
// GameID=0 means no game row exists for it (the game's write transaction
// itself failed and rolled back); MmolbGameID is how fetch_known_missing_games
// finds those games again on a later run.
type EventIngestLog struct {
	ID             int64  `gorm:"column:id;primaryKey"`
	GameID         int64  `gorm:"column:game_id;index"`
	MmolbGameID    string `gorm:"column:mmolb_game_id;size:32;index"`
	GameEventIndex *int   `gorm:"column:game_event_index"`
	LogIndex       int    `gorm:"column:log_index"`
	LogLevel       int    `gorm:"column:log_level"` // 0=Critical .. 5=Trace
	LogText        string `gorm:"column:log_text;size:1024"`
}

func (EventIngestLog) TableName() string { return "info.event_ingest_log" }

// IngestTimings is the per-run time breakdown named in SPEC_FULL.md §4.5's
// supplemental controller responsibilities: parse, fold and write time summed
// across the run's games. The controller never writes FetchNanos, so it
// stays 0.
type IngestTimings struct {
	IngestID     int64         `gorm:"column:ingest_id;primaryKey"`
	FetchNanos   int64         `gorm:"column:fetch_nanos"`
	ParseNanos   int64         `gorm:"column:parse_nanos"`
	FoldNanos    int64         `gorm:"column:fold_nanos"`
	WriteNanos   int64         `gorm:"column:write_nanos"`
}

func (IngestTimings) TableName() string { return "info.ingest_timings" }

// IngestCounts mirrors the original implementation's IngestStats shape
// exactly (SPEC_FULL.md §4.5).
type IngestCounts struct {
	IngestID                  int64 `gorm:"column:ingest_id;primaryKey"`
	NumOngoingGamesSkipped    int   `gorm:"column:num_ongoing_games_skipped"`
	NumBuggedGamesSkipped     int   `gorm:"column:num_bugged_games_skipped"`
	NumGamesWithFatalErrors   int   `gorm:"column:num_games_with_fatal_errors"`
	NumGamesImported          int   `gorm:"column:num_games_imported"`
}

func (IngestCounts) TableName() string { return "info.ingest_counts" }
