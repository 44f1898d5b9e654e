// Package parsing turns one raw game's free-text event log into a typed
// sequence of entries (component B, SPEC_FULL.md §4.2). The grammar is
// closed: every matcher either claims a line or it falls through to the
// next, and an unclaimed line becomes a logged, non-material Framing entry
// — it never aborts the game.
package parsing

import "ingestd/internal/taxa"

// Entry is implemented by Framing, FairBallDeclaration, and MaterialEvent —
// a closed set, checked by type switch wherever an Entry is consumed (the
// same one-constructor-per-concrete-shape idiom the adapter package uses
// for platform payloads, generalized from "one type per platform" to "one
// type per entry kind").
type Entry interface {
	Index() int
	Text() string
}

// Framing is a non-material entry: inning headers, game start/end,
// batter-up announcements, mound visits, weather messages, falling-star
// announcements, and home-run-challenge wrappers. It carries no row of its
// own but may attach information to the next or enclosing material event.
type Framing struct {
	Idx  int
	Raw  string
	Kind FramingKind

	// Cheer is a slot for commentary text (e.g. from a home-run-challenge
	// wrapper). No matcher sets it and the folder does not read it.
	Cheer *string

	// PitcherName is set on FramingPitchingChange: the name of the pitcher
	// now coming in, as captured from the line itself.
	PitcherName *string

	// The remaining fields are populated only for their matching
	// FramingKind, one per supplemental side table in SPEC_FULL.md §3.
	EjectedName  *string  // FramingEjection
	ReasonText   *string  // FramingEjection
	PlayerName   *string  // FramingAuroraPhoto, FramingDoorPrize
	ItemText     *string  // FramingDoorPrize
	Participants []string // FramingParty, FramingConsumptionContest
	WinnerName   *string  // FramingConsumptionContest
}

func (f Framing) Index() int  { return f.Idx }
func (f Framing) Text() string { return f.Raw }

type FramingKind int

const (
	FramingOther FramingKind = iota
	FramingInningHeader
	FramingGameStart
	FramingGameEnd
	FramingNowBatting
	FramingMoundVisit
	FramingPitchingChange
	FramingWeatherMessage
	FramingFallingStar
	FramingHomeRunChallenge
	FramingEjection
	FramingAuroraPhoto
	FramingDoorPrize
	FramingWither
	FramingEfflorescence
	FramingParty
	FramingConsumptionContest
)

// FairBallDeclaration announces a fair ball's trajectory and direction. It
// is paired with the following outcome entry; its index becomes that
// entry's FairBallEventIndex.
type FairBallDeclaration struct {
	Idx       int
	Raw       string
	Type      taxa.FairBallType
	Direction string
	Cheer     *string
}

func (f FairBallDeclaration) Index() int  { return f.Idx }
func (f FairBallDeclaration) Text() string { return f.Raw }

// RunnerMovement is one runner mentioned in a material event's text.
type RunnerMovement struct {
	Name                string
	BaseBefore          *taxa.Base // nil for the batter-runner
	BaseAfter            taxa.Base // Home(0) if scored
	IsOut                bool
	DescriptionFormat    taxa.BaseDescriptionFormat
	Steal                bool
	IsAutomaticRunner    bool // extra-innings placement, no pitch produced it
}

// FielderCredit is one fielder mentioned in a material event's text.
type FielderCredit struct {
	Name        string
	Best        taxa.BestEffortSlot
	Approximate bool // not set by the parser; the folder derives approximation from ResolveBestEffortSlot
}

// MaterialEvent is every pitch, plus balk, caught-stealing, pickoff, and the
// small set of non-pitch outcomes named in SPEC_FULL.md §4.2.
type MaterialEvent struct {
	Idx                  int
	Raw                  string
	EventType            taxa.EventType
	PitchType            *taxa.PitchType
	PitchSpeed           *float64
	PitchZone            *string
	HitBase              *taxa.Base
	FieldingErrorType    *taxa.FieldingErrorType
	Fielders             []FielderCredit
	Runners              []RunnerMovement
	BatterName           string
	DescribedAsSacrifice *bool
	IsToasty             *bool
	Cheer                *string
	FairBallEventIndex   *int // set by the parser when paired with a preceding declaration
}

func (m MaterialEvent) Index() int  { return m.Idx }
func (m MaterialEvent) Text() string { return m.Raw }
