// Package ingestlog implements the severity-leveled error taxonomy in
// SPEC_FULL.md §7: every classified event is simultaneously a durable
// info.event_ingest_log row and a structured logrus line.
package ingestlog

import (
	"github.com/sirupsen/logrus"
)

// Level mirrors the original implementation's severity scale exactly:
// 0=Critical is the most severe, 5=Trace the least.
type Level int

const (
	Critical Level = 0
	Error    Level = 1
	Warning  Level = 2
	Info     Level = 3
	Debug    Level = 4
	Trace    Level = 5
)

// HasIssue reports whether level is severe enough to mark a game as "having
// issues" (SPEC_FULL.md §7: severity <= Warning).
func (l Level) HasIssue() bool {
	return l <= Warning
}

func (l Level) logrusLevel() logrus.Level {
	switch l {
	case Critical, Error:
		return logrus.ErrorLevel
	case Warning:
		return logrus.WarnLevel
	case Info:
		return logrus.InfoLevel
	case Debug:
		return logrus.DebugLevel
	default:
		return logrus.TraceLevel
	}
}

// Record is one entry ready to be dual-written: an info.event_ingest_log
// row (by the caller, which owns the transaction) and a logrus line (here).
type Record struct {
	GameID         int64
	MmolbGameID    string
	GameEventIndex *int
	LogIndex       int
	Level          Level
	Text           string
}

// Emit writes r as a structured logrus line. The caller is separately
// responsible for persisting r as an info.event_ingest_log row inside the
// game's transaction — the two writes are independent so a logging failure
// never blocks the durable record.
func Emit(logger *logrus.Logger, r Record) {
	entry := logger.WithFields(logrus.Fields{
		"game_id":      r.GameID,
		"mmolb_game_id": r.MmolbGameID,
		"log_index":    r.LogIndex,
	})
	if r.GameEventIndex != nil {
		entry = entry.WithField("game_event_index", *r.GameEventIndex)
	}
	entry.Log(r.Level.logrusLevel(), r.Text)
}
