package model

import "gorm.io/datatypes"

// The per-game side tables below carry observed facts with no effect on
// count/score/baserunner reconstruction (SPEC_FULL.md §3 "Supplemental
// per-game side tables"). Each is inserted in the same transaction as its
// game, in writer step 4.

type PitcherChange struct {
	ID                    int64  `gorm:"column:id;primaryKey"`
	GameID                int64  `gorm:"column:game_id;index"`
	GameEventIndex        int    `gorm:"column:game_event_index"`
	Team                  string `gorm:"column:team;size:8"` // "home" | "away"
	SlotID                int64  `gorm:"column:slot_id"`
	SourceID              int64  `gorm:"column:pitcher_change_source_id"`
}

func (PitcherChange) TableName() string { return "data.pitcher_changes" }

type Ejection struct {
	ID             int64  `gorm:"column:id;primaryKey"`
	GameID         int64  `gorm:"column:game_id;index"`
	GameEventIndex int    `gorm:"column:game_event_index"`
	Team           string `gorm:"column:team;size:8"`
	EjectedName    string `gorm:"column:ejected_name;size:128"`
	ReasonText     string `gorm:"column:reason_text;size:512"`
}

func (Ejection) TableName() string { return "data.ejections" }

type AuroraPhoto struct {
	ID             int64  `gorm:"column:id;primaryKey"`
	GameID         int64  `gorm:"column:game_id;index"`
	GameEventIndex int    `gorm:"column:game_event_index"`
	PlayerName     string `gorm:"column:player_name;size:128"`
}

func (AuroraPhoto) TableName() string { return "data.aurora_photos" }

type DoorPrize struct {
	ID             int64  `gorm:"column:id;primaryKey"`
	GameID         int64  `gorm:"column:game_id;index"`
	GameEventIndex int    `gorm:"column:game_event_index"`
	PlayerName     string `gorm:"column:player_name;size:128"`
}

func (DoorPrize) TableName() string { return "data.door_prizes" }

// DoorPrizeItem uses a single JSON payload column rather than a dedicated
// narrow table for the item's varying attribute set, the same tradeoff the
// teacher makes for platform-specific option/odds payloads
// (gorm.io/datatypes.JSON), generalized here.
type DoorPrizeItem struct {
	ID          int64          `gorm:"column:id;primaryKey"`
	DoorPrizeID int64          `gorm:"column:door_prize_id;index"`
	ItemPayload datatypes.JSON `gorm:"column:item_payload"`
}

func (DoorPrizeItem) TableName() string { return "data.door_prize_items" }

type Wither struct {
	ID             int64  `gorm:"column:id;primaryKey"`
	GameID         int64  `gorm:"column:game_id;index"`
	GameEventIndex int    `gorm:"column:game_event_index"`
	Team           string `gorm:"column:team;size:8"`
}

func (Wither) TableName() string { return "data.wither" }

type Efflorescence struct {
	ID             int64  `gorm:"column:id;primaryKey"`
	GameID         int64  `gorm:"column:game_id;index"`
	GameEventIndex int    `gorm:"column:game_event_index"`
	Team           string `gorm:"column:team;size:8"`
}

func (Efflorescence) TableName() string { return "data.efflorescence" }

type Party struct {
	ID             int64          `gorm:"column:id;primaryKey"`
	GameID         int64          `gorm:"column:game_id;index"`
	GameEventIndex int            `gorm:"column:game_event_index"`
	Participants   datatypes.JSON `gorm:"column:participants"` // []string
}

func (Party) TableName() string { return "data.parties" }

type ConsumptionContest struct {
	ID             int64          `gorm:"column:id;primaryKey"`
	GameID         int64          `gorm:"column:game_id;index"`
	GameEventIndex int            `gorm:"column:game_event_index"`
	Participants   datatypes.JSON `gorm:"column:participants"`
	WinnerName     *string        `gorm:"column:winner_name;size:128"`
}

func (ConsumptionContest) TableName() string { return "data.consumption_contests" }

// RawEvent is the projection view over a game's raw event-log text (row,
// not a true SQL view, inserted alongside the game for simplicity — it is
// always kept in sync because it is written in the same transaction as its
// game and deleted by the same cascade).
type RawEvent struct {
	GameID         int64  `gorm:"column:game_id;primaryKey"`
	GameEventIndex int    `gorm:"column:game_event_index;primaryKey"`
	Text           string `gorm:"column:text;size:1024"`
}

func (RawEvent) TableName() string { return "data.raw_events" }
