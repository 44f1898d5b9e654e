package model

import "time"

// Weather is deduplicated on (Name, Emoji, Tooltip); ids are not stable
// across rebuilds (SPEC_FULL.md §3, §9).
type Weather struct {
	ID      int64  `gorm:"column:id;primaryKey"`
	Name    string `gorm:"column:name;size:64;uniqueIndex:idx_weather_natural_key"`
	Emoji   string `gorm:"column:emoji;size:16;uniqueIndex:idx_weather_natural_key"`
	Tooltip string `gorm:"column:tooltip;size:256;uniqueIndex:idx_weather_natural_key"`
}

func (Weather) TableName() string { return "data.weather" }

// Game is the root aggregate for one observed contest. On re-observation the
// row and every descendant are deleted and re-inserted as a unit (the
// delete-then-insert idempotence pattern, SPEC_FULL.md §3 lifecycle / §4.4).
type Game struct {
	ID              int64  `gorm:"column:id;primaryKey"`
	MmolbGameID     string `gorm:"column:mmolb_game_id;uniqueIndex;size:64"`
	Season          int    `gorm:"column:season"`
	Day             *int   `gorm:"column:day"`
	SuperstarDay    *int   `gorm:"column:superstar_day"`
	WeatherID       int64  `gorm:"column:weather_id"`
	AwayTeamEmoji   string `gorm:"column:away_team_emoji;size:16"`
	AwayTeamName    string `gorm:"column:away_team_name;size:128"`
	AwayTeamExtID   string `gorm:"column:away_team_external_id;size:64"`
	HomeTeamEmoji   string `gorm:"column:home_team_emoji;size:16"`
	HomeTeamName    string `gorm:"column:home_team_name;size:128"`
	HomeTeamExtID   string `gorm:"column:home_team_external_id;size:64"`
	AwayFinalScore  *int   `gorm:"column:away_final_score"`
	HomeFinalScore  *int   `gorm:"column:home_final_score"`
	IsOngoing       bool   `gorm:"column:is_ongoing"`
	StadiumName     *string `gorm:"column:stadium_name;size:128"`
	HasPhotoContest bool   `gorm:"column:has_photo_contest"`
	CoinsEarned     *int   `gorm:"column:coins_earned"`
	FromVersion     time.Time `gorm:"column:from_version"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (Game) TableName() string { return "data.games" }

// Event is one row per material event in a game's log.
type Event struct {
	ID                   int64   `gorm:"column:id;primaryKey"`
	GameID                int64   `gorm:"column:game_id;index"`
	GameEventIndex        int     `gorm:"column:game_event_index"`
	FairBallEventIndex    *int    `gorm:"column:fair_ball_event_index"`
	Inning                int     `gorm:"column:inning"`
	TopOfInning           bool    `gorm:"column:top_of_inning"`
	EventTypeID           int64   `gorm:"column:event_type_id"`
	HitBaseID             *int64  `gorm:"column:hit_base_id"`
	FairBallTypeID        *int64  `gorm:"column:fair_ball_type_id"`
	FairBallDirection     *string `gorm:"column:fair_ball_direction;size:32"`
	FieldingErrorTypeID   *int64  `gorm:"column:fielding_error_type_id"`
	PitchTypeID           *int64  `gorm:"column:pitch_type_id"`
	PitchSpeed            *float64 `gorm:"column:pitch_speed"`
	PitchZone             *string `gorm:"column:pitch_zone;size:16"`
	DescribedAsSacrifice  *bool   `gorm:"column:described_as_sacrifice"`
	IsToasty              *bool   `gorm:"column:is_toasty"`
	BallsBefore           int     `gorm:"column:balls_before"`
	BallsAfter            int     `gorm:"column:balls_after"`
	StrikesBefore         int     `gorm:"column:strikes_before"`
	StrikesAfter          int     `gorm:"column:strikes_after"`
	OutsBefore            int     `gorm:"column:outs_before"`
	OutsAfter             int     `gorm:"column:outs_after"`
	ErrorsBefore          int     `gorm:"column:errors_before"`
	ErrorsAfter           int     `gorm:"column:errors_after"`
	AwayScoreBefore       int     `gorm:"column:away_score_before"`
	AwayScoreAfter        int     `gorm:"column:away_score_after"`
	HomeScoreBefore       int     `gorm:"column:home_score_before"`
	HomeScoreAfter        int     `gorm:"column:home_score_after"`
	PitcherName           string  `gorm:"column:pitcher_name;size:128"`
	BatterName            string  `gorm:"column:batter_name;size:128"`
	PitcherCount          int     `gorm:"column:pitcher_count"`
	BatterCount           int     `gorm:"column:batter_count"`
	BatterSubcount        int     `gorm:"column:batter_subcount"`
	Cheer                 *string `gorm:"column:cheer;size:512"`
}

func (Event) TableName() string { return "data.events" }

// EventBaserunner is one row per runner-observation on an event, keyed by
// (EventID, PlayOrder).
type EventBaserunner struct {
	ID                      int64  `gorm:"column:id;primaryKey"`
	EventID                 int64  `gorm:"column:event_id;index"`
	PlayOrder               int    `gorm:"column:play_order"`
	BaserunnerName          string `gorm:"column:baserunner_name;size:128"`
	BaseBeforeID            *int64 `gorm:"column:base_before_id"`
	BaseAfterID             int64  `gorm:"column:base_after_id"`
	IsOut                   bool   `gorm:"column:is_out"`
	BaseDescriptionFormatID int64  `gorm:"column:base_description_format_id"`
	Steal                   bool   `gorm:"column:steal"`
	SourceEventIndex        *int   `gorm:"column:source_event_index"`
	IsEarned                bool   `gorm:"column:is_earned"`
}

func (EventBaserunner) TableName() string { return "data.event_baserunners" }

// EventFielder is one row per fielder-credit on an event.
type EventFielder struct {
	ID           int64  `gorm:"column:id;primaryKey"`
	EventID      int64  `gorm:"column:event_id;index"`
	PlayOrder    int    `gorm:"column:play_order"`
	FielderName  string `gorm:"column:fielder_name;size:128"`
	FielderSlotID int64 `gorm:"column:fielder_slot_id"`
	Approximate  bool   `gorm:"column:approximate"` // true when the slot was resolved best-effort (SPEC_FULL.md §7)
}

func (EventFielder) TableName() string { return "data.event_fielders" }
