package parsing

import (
	"errors"

	"ingestd/internal/rawgame"
)

// ErrUnparsed is wrapped into an Issue for an event-log line the closed
// grammar could not match. The line is never dropped — it still gets a
// Framing entry — the controller checks it with errors.Is to log the line
// at Debug level.
var ErrUnparsed = errors.New("parsing: event-log line did not match the grammar")

// Header is the game-level data extracted once, up front, from the raw
// document's structured fields rather than from event-log text.
type Header struct {
	MmolbGameID     string
	Season          int
	Day             *int
	SuperstarDay    *int
	Weather         rawgame.Weather
	StadiumName     *string
	AwayTeam        rawgame.TeamRef
	HomeTeam        rawgame.TeamRef
	AwayFinalScore  *int
	HomeFinalScore  *int
	IsOngoing       bool
}

func headerFrom(g rawgame.Game) Header {
	return Header{
		MmolbGameID:    g.ID,
		Season:         g.Season,
		Day:            g.Day,
		SuperstarDay:   g.SuperstarDay,
		Weather:        g.Weather,
		StadiumName:    g.Stadium,
		AwayTeam:       g.AwayTeam,
		HomeTeam:       g.HomeTeam,
		AwayFinalScore: g.AwayScore,
		HomeFinalScore: g.HomeScore,
		IsOngoing:      g.IsOngoing(),
	}
}

// Issue is a parser-level log record; Parse emits one for each unmatched
// message (approximate fielder slots are reported by the folder). It is
// carried up to the writer unchanged, matching the severity taxonomy in
// SPEC_FULL.md §7. Err is set for sentinel-checkable conditions and never
// persisted; LogText is what reaches the database.
type Issue struct {
	GameEventIndex *int
	LogLevel       int
	LogText        string
	Err            error
}
