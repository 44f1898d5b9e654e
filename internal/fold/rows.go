package fold

import "ingestd/internal/taxa"

// EjectionRow is one data.ejections row.
type EjectionRow struct {
	GameEventIndex int
	Team           Team
	EjectedName    string
	ReasonText     string
}

// AuroraPhotoRow is one data.aurora_photos row.
type AuroraPhotoRow struct {
	GameEventIndex int
	PlayerName     string
}

// DoorPrizeRow is one data.door_prizes row; ItemText becomes its single
// door_prize_items row once the writer has the parent's id.
type DoorPrizeRow struct {
	GameEventIndex int
	PlayerName     string
	ItemText       string
}

// WitherRow is one data.wither row.
type WitherRow struct {
	GameEventIndex int
	Team           Team
}

// EfflorescenceRow is one data.efflorescence row.
type EfflorescenceRow struct {
	GameEventIndex int
	Team           Team
}

// PartyRow is one data.parties row.
type PartyRow struct {
	GameEventIndex int
	Participants   []string
}

// ConsumptionContestRow is one data.consumption_contests row.
type ConsumptionContestRow struct {
	GameEventIndex int
	Participants   []string
	WinnerName     *string
}

// EventRow is the folder's materialization of one data.events row. It is
// the fold package's own shape, kept decoupled from internal/model so the
// fold step never needs to know about GORM — the writer is responsible for
// the EventRow -> model.Event translation.
type EventRow struct {
	GameEventIndex       int
	FairBallEventIndex   *int
	Inning               int
	TopOfInning          bool
	EventType            taxa.EventType
	HitBase              *taxa.Base
	FairBallType         *taxa.FairBallType
	FairBallDirection    *string
	FieldingErrorType    *taxa.FieldingErrorType
	PitchType            *taxa.PitchType
	PitchSpeed           *float64
	PitchZone            *string
	DescribedAsSacrifice *bool
	IsToasty             *bool
	BallsBefore, BallsAfter     int
	StrikesBefore, StrikesAfter int
	OutsBefore, OutsAfter       int
	ErrorsBefore, ErrorsAfter   int
	AwayScoreBefore, AwayScoreAfter int
	HomeScoreBefore, HomeScoreAfter int
	PitcherName    string
	BatterName     string
	PitcherCount   int
	BatterCount    int
	BatterSubcount int
	Cheer          *string

	Baserunners []BaserunnerRow
	Fielders    []FielderRow
}

// BaserunnerRow is one event_baserunners row, keyed by PlayOrder within its
// event.
type BaserunnerRow struct {
	PlayOrder         int
	BaserunnerName    string
	BaseBefore        *taxa.Base
	BaseAfter         taxa.Base
	IsOut             bool
	DescriptionFormat taxa.BaseDescriptionFormat
	Steal             bool
	SourceEventIndex  *int
	IsEarned          bool
}

// FielderRow is one event_fielders row.
type FielderRow struct {
	PlayOrder   int
	FielderName string
	Slot        taxa.Slot
	Approximate bool
}

// PitcherChangeRow is one data.pitcher_changes row emitted by the
// pitcher-turnover step.
type PitcherChangeRow struct {
	GameEventIndex int
	Team           Team
	Slot           taxa.Slot
	Source         taxa.PitcherChangeSource
}

// Issue is a fold-level log record (fold inconsistency or approximate-slot
// warning, SPEC_FULL.md §7). Err is set for sentinel-checkable conditions
// and never persisted; LogText is what reaches the database.
type Issue struct {
	GameEventIndex *int
	LogLevel       int
	LogText        string
	Err            error
}

// Result is everything FoldGame produces for one game.
type Result struct {
	Events              []EventRow
	PitcherChanges      []PitcherChangeRow
	Ejections           []EjectionRow
	AuroraPhotos        []AuroraPhotoRow
	DoorPrizes          []DoorPrizeRow
	Withers             []WitherRow
	Efflorescences      []EfflorescenceRow
	Parties             []PartyRow
	ConsumptionContests []ConsumptionContestRow
	Issues              []Issue
}
