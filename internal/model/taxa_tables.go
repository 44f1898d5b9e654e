package model

// The taxa schema mirrors the internal/taxa enums as database rows so the
// data/info tables can carry plain integer foreign keys and downstream SQL
// reporting can join by name. Rows are seeded once at startup by Seed; the
// in-code enum in internal/taxa remains the single source of truth for what
// id means what.

type EventTypeTaxon struct {
	ID                  int64  `gorm:"column:id;primaryKey"`
	Name                string `gorm:"column:name;uniqueIndex;size:64"`
	DisplayName         string `gorm:"column:display_name;size:128"`
	EndsPlateAppearance bool   `gorm:"column:ends_plate_appearance"`
	IsInPlay            bool   `gorm:"column:is_in_play"`
	IsHit               bool   `gorm:"column:is_hit"`
	IsError             bool   `gorm:"column:is_error"`
	IsBall              bool   `gorm:"column:is_ball"`
	IsStrike            bool   `gorm:"column:is_strike"`
	IsStrikeout         bool   `gorm:"column:is_strikeout"`
	IsBasicStrike       bool   `gorm:"column:is_basic_strike"`
	IsFoul              bool   `gorm:"column:is_foul"`
	IsFoulTip           bool   `gorm:"column:is_foul_tip"`
	BatterSwung         bool   `gorm:"column:batter_swung"`
}

func (EventTypeTaxon) TableName() string { return "taxa.event_type" }

type FielderLocationTaxon struct {
	ID           int64  `gorm:"column:id;primaryKey"`
	Name         string `gorm:"column:name;uniqueIndex;size:64"`
	Abbreviation string `gorm:"column:abbreviation;size:8"`
	Area         string `gorm:"column:area;size:16"`
}

func (FielderLocationTaxon) TableName() string { return "taxa.fielder_location" }

type FairBallTypeTaxon struct {
	ID   int64  `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name;uniqueIndex;size:64"`
}

func (FairBallTypeTaxon) TableName() string { return "taxa.fair_ball_type" }

type SlotTaxon struct {
	ID          int64  `gorm:"column:id;primaryKey"`
	Name        string `gorm:"column:name;uniqueIndex;size:64"`
	Role        string `gorm:"column:role;size:16"`
	PitcherType string `gorm:"column:pitcher_type;size:16"`
	SlotNumber  int    `gorm:"column:slot_number"`
	LocationID  *int64 `gorm:"column:fielder_location_id"`
}

func (SlotTaxon) TableName() string { return "taxa.slot" }

type BaseTaxon struct {
	ID            int64  `gorm:"column:id;primaryKey"`
	Name          string `gorm:"column:name;uniqueIndex;size:32"`
	BasesAchieved int    `gorm:"column:bases_achieved"`
}

func (BaseTaxon) TableName() string { return "taxa.base" }

type BaseDescriptionFormatTaxon struct {
	ID   int64  `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name;uniqueIndex;size:32"`
}

func (BaseDescriptionFormatTaxon) TableName() string { return "taxa.base_description_format" }

type FieldingErrorTypeTaxon struct {
	ID   int64  `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name;uniqueIndex;size:32"`
}

func (FieldingErrorTypeTaxon) TableName() string { return "taxa.fielding_error_type" }

type PitchTypeTaxon struct {
	ID           int64  `gorm:"column:id;primaryKey"`
	Name         string `gorm:"column:name;uniqueIndex;size:32"`
	Abbreviation string `gorm:"column:abbreviation;size:8"`
}

func (PitchTypeTaxon) TableName() string { return "taxa.pitch_type" }

type PitcherChangeSourceTaxon struct {
	ID   int64  `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name;uniqueIndex;size:32"`
}

func (PitcherChangeSourceTaxon) TableName() string { return "taxa.pitcher_change_source" }

type HandednessTaxon struct {
	ID   int64  `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name;uniqueIndex;size:16"`
}

func (HandednessTaxon) TableName() string { return "taxa.handedness" }
