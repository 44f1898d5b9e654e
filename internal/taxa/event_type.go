// Package taxa holds the closed enumerations the engine folds and writes
// against: event outcomes, fielder positions, roster slots, and the other
// small, stable vocabularies seeded into the taxa schema at startup. Each
// enum is the in-code source of truth; the database row is a materialized
// mirror kept in sync by Seed.
package taxa

// EventType is the outcome of a pitch or non-pitch action. Every flag here
// is load-bearing: the state folder reads these, never a hardcoded switch
// on the event's name.
type EventType int

const (
	Ball EventType = iota
	CalledStrike
	SwingingStrike
	FoulTip
	FoulBall
	Hit
	ForceOut
	CaughtOut
	GroundedOut
	Walk
	HomeRun
	FieldingError
	HitByPitch
	DoublePlay
	FieldersChoice
	ErrorOnFieldersChoice
	Balk
	CalledStrikeout
	SwingingStrikeout
	FoulTipStrikeout
	CaughtStealing
	Pickoff
	Scores
)

// EventTypeAttrs carries the boolean columns attached to an event_type
// taxon. Field names mirror the data dictionary in SPEC_FULL.md §3.
type EventTypeAttrs struct {
	Name               string
	DisplayName        string
	EndsPlateAppearance bool
	IsInPlay           bool
	IsHit              bool
	IsError            bool
	IsBall             bool
	IsStrike           bool
	IsStrikeout        bool
	IsBasicStrike      bool
	IsFoul             bool
	IsFoulTip          bool
	BatterSwung        bool
}

// eventTypeAttrs is indexed by EventType; it is the single place the
// historic HitByPitch bug (is_ball=true, is_in_play=false) and every other
// flag combination lives.
var eventTypeAttrs = map[EventType]EventTypeAttrs{
	Ball:                  {Name: "ball", DisplayName: "Ball", IsBall: true},
	CalledStrike:          {Name: "called_strike", DisplayName: "Called Strike", IsStrike: true, IsBasicStrike: true},
	SwingingStrike:        {Name: "swinging_strike", DisplayName: "Swinging Strike", IsStrike: true, IsBasicStrike: true, BatterSwung: true},
	FoulTip:               {Name: "foul_tip", DisplayName: "Foul Tip", IsStrike: true, IsFoul: true, IsFoulTip: true, BatterSwung: true},
	FoulBall:              {Name: "foul_ball", DisplayName: "Foul Ball", IsStrike: true, IsFoul: true, BatterSwung: true},
	Hit:                   {Name: "hit", DisplayName: "Hit", EndsPlateAppearance: true, IsInPlay: true, IsHit: true, BatterSwung: true},
	ForceOut:              {Name: "force_out", DisplayName: "Force Out", EndsPlateAppearance: true, IsInPlay: true, BatterSwung: true},
	CaughtOut:             {Name: "caught_out", DisplayName: "Caught Out", EndsPlateAppearance: true, IsInPlay: true, BatterSwung: true},
	GroundedOut:           {Name: "grounded_out", DisplayName: "Grounded Out", EndsPlateAppearance: true, IsInPlay: true, BatterSwung: true},
	Walk:                  {Name: "walk", DisplayName: "Walk", EndsPlateAppearance: true, IsBall: true},
	HomeRun:               {Name: "home_run", DisplayName: "Home Run", EndsPlateAppearance: true, IsInPlay: true, IsHit: true, BatterSwung: true},
	FieldingError:         {Name: "fielding_error", DisplayName: "Fielding Error", EndsPlateAppearance: true, IsInPlay: true, IsError: true, BatterSwung: true},
	HitByPitch:            {Name: "hit_by_pitch", DisplayName: "Hit By Pitch", EndsPlateAppearance: true, IsInPlay: false, IsBall: true},
	DoublePlay:            {Name: "double_play", DisplayName: "Double Play", EndsPlateAppearance: true, IsInPlay: true, BatterSwung: true},
	FieldersChoice:        {Name: "fielders_choice", DisplayName: "Fielder's Choice", EndsPlateAppearance: true, IsInPlay: true, BatterSwung: true},
	ErrorOnFieldersChoice: {Name: "error_on_fielders_choice", DisplayName: "Error on Fielder's Choice", EndsPlateAppearance: true, IsInPlay: true, IsError: true, BatterSwung: true},
	Balk:                  {Name: "balk", DisplayName: "Balk"},
	CalledStrikeout:       {Name: "called_strikeout", DisplayName: "Strikeout (Looking)", EndsPlateAppearance: true, IsStrike: true, IsStrikeout: true, IsBasicStrike: true},
	SwingingStrikeout:     {Name: "swinging_strikeout", DisplayName: "Strikeout (Swinging)", EndsPlateAppearance: true, IsStrike: true, IsStrikeout: true, IsBasicStrike: true, BatterSwung: true},
	FoulTipStrikeout:      {Name: "foul_tip_strikeout", DisplayName: "Strikeout (Foul Tip)", EndsPlateAppearance: true, IsStrike: true, IsStrikeout: true, IsFoul: true, IsFoulTip: true, BatterSwung: true},
	CaughtStealing:        {Name: "caught_stealing", DisplayName: "Caught Stealing"},
	Pickoff:               {Name: "pickoff", DisplayName: "Pickoff"},
	Scores:                {Name: "scores", DisplayName: "Scores"},
}

// Attrs returns the taxon row for e. Panics on an unregistered EventType,
// since this table is closed and exhaustive by construction.
func (e EventType) Attrs() EventTypeAttrs {
	a, ok := eventTypeAttrs[e]
	if !ok {
		panic("taxa: unregistered EventType")
	}
	return a
}

// AllEventTypes returns every taxon in id order, used by Seed.
func AllEventTypes() []EventType {
	out := make([]EventType, 0, len(eventTypeAttrs))
	for i := Ball; i <= Scores; i++ {
		out = append(out, i)
	}
	return out
}
