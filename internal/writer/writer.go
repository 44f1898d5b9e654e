// Package writer implements the Versioned Writer (component D): it applies
// one game's fold output to the store inside a single transaction,
// preserving the delete-then-insert idempotence pattern and temporal
// invariants described in SPEC_FULL.md §4.4.
package writer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ingestd/internal/fold"
	"ingestd/internal/ingestlog"
	"ingestd/internal/model"
	"ingestd/internal/parsing"
)

// Writer applies fold output to PostgreSQL.
type Writer struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func New(db *gorm.DB, logger *logrus.Logger) *Writer {
	return &Writer{db: db, logger: logger}
}

// WriteGame runs the full write sequence from SPEC_FULL.md §4.4 for one
// game, inside a single transaction. Any error rolls back that game only;
// the caller (the ingest controller) continues the run regardless.
func (w *Writer) WriteGame(ctx context.Context, header parsing.Header, validFrom time.Time, result fold.Result, issues []parsing.Issue, rawLines []string) error {
	// Each game's transaction runs under a 30-minute statement ceiling.
	ctx, cancel := context.WithTimeout(ctx, 30*time.Minute)
	defer cancel()
	return w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Step 1: delete any existing game with the same natural key,
		// cascading to every descendant table (FK ON DELETE CASCADE is
		// assumed on the schema side; this call is what triggers it).
		if err := tx.Where("mmolb_game_id = ?", header.MmolbGameID).Delete(&model.Game{}).Error; err != nil {
			return fmt.Errorf("deleting prior game row: %w", err)
		}

		// Step 2: upsert weather by its natural key.
		weather := model.Weather{Name: header.Weather.Name, Emoji: header.Weather.Emoji, Tooltip: header.Weather.Tooltip}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}, {Name: "emoji"}, {Name: "tooltip"}},
			DoNothing: true,
		}).Create(&weather).Error; err != nil {
			return fmt.Errorf("upserting weather: %w", err)
		}
		if weather.ID == 0 {
			if err := tx.Where("name = ? AND emoji = ? AND tooltip = ?", weather.Name, weather.Emoji, weather.Tooltip).
				First(&weather).Error; err != nil {
				return fmt.Errorf("re-reading weather row: %w", err)
			}
		}

		// Step 3: insert the game row.
		game := model.Game{
			MmolbGameID:    header.MmolbGameID,
			Season:         header.Season,
			Day:            header.Day,
			SuperstarDay:   header.SuperstarDay,
			WeatherID:      weather.ID,
			AwayTeamEmoji:  header.AwayTeam.Emoji,
			AwayTeamName:   header.AwayTeam.Name,
			AwayTeamExtID:  header.AwayTeam.ExternalID,
			HomeTeamEmoji:  header.HomeTeam.Emoji,
			HomeTeamName:   header.HomeTeam.Name,
			HomeTeamExtID:  header.HomeTeam.ExternalID,
			AwayFinalScore: header.AwayFinalScore,
			HomeFinalScore: header.HomeFinalScore,
			IsOngoing:      header.IsOngoing,
			StadiumName:    header.StadiumName,
			FromVersion:    validFrom,
			CreatedAt:      time.Now(),
		}
		if err := tx.Create(&game).Error; err != nil {
			return fmt.Errorf("inserting game row: %w", err)
		}

		// Step 4: bulk-insert events, baserunners, fielders, and the
		// per-game side tables.
		if err := w.writeEvents(tx, game.ID, result); err != nil {
			return err
		}
		if err := w.writePitcherChanges(tx, game.ID, result.PitcherChanges); err != nil {
			return err
		}
		if err := w.writeRawEvents(tx, game.ID, rawLines); err != nil {
			return err
		}
		if err := w.writeSideTables(tx, game.ID, result); err != nil {
			return err
		}

		if iss := checkFinalScore(header, result); iss != nil {
			result.Issues = append(result.Issues, *iss)
		}

		// Step 5: persist log records accumulated during parse and fold.
		return w.writeLogs(tx, game.ID, header.MmolbGameID, issues, result.Issues)
	})
}

func (w *Writer) writeEvents(tx *gorm.DB, gameID int64, result fold.Result) error {
	for _, row := range result.Events {
		ev := model.Event{
			GameID:               gameID,
			GameEventIndex:       row.GameEventIndex,
			FairBallEventIndex:   row.FairBallEventIndex,
			Inning:               row.Inning,
			TopOfInning:          row.TopOfInning,
			EventTypeID:          int64(row.EventType),
			FairBallDirection:    row.FairBallDirection,
			PitchSpeed:           row.PitchSpeed,
			PitchZone:            row.PitchZone,
			DescribedAsSacrifice: row.DescribedAsSacrifice,
			IsToasty:             row.IsToasty,
			BallsBefore:          row.BallsBefore,
			BallsAfter:           row.BallsAfter,
			StrikesBefore:        row.StrikesBefore,
			StrikesAfter:         row.StrikesAfter,
			OutsBefore:           row.OutsBefore,
			OutsAfter:            row.OutsAfter,
			ErrorsBefore:         row.ErrorsBefore,
			ErrorsAfter:          row.ErrorsAfter,
			AwayScoreBefore:      row.AwayScoreBefore,
			AwayScoreAfter:       row.AwayScoreAfter,
			HomeScoreBefore:      row.HomeScoreBefore,
			HomeScoreAfter:       row.HomeScoreAfter,
			PitcherName:          row.PitcherName,
			BatterName:           row.BatterName,
			PitcherCount:         row.PitcherCount,
			BatterCount:          row.BatterCount,
			BatterSubcount:       row.BatterSubcount,
			Cheer:                row.Cheer,
		}
		if row.HitBase != nil {
			id := int64(*row.HitBase)
			ev.HitBaseID = &id
		}
		if row.FairBallType != nil {
			id := int64(*row.FairBallType)
			ev.FairBallTypeID = &id
		}
		if row.FieldingErrorType != nil {
			id := int64(*row.FieldingErrorType)
			ev.FieldingErrorTypeID = &id
		}
		if row.PitchType != nil {
			id := int64(*row.PitchType)
			ev.PitchTypeID = &id
		}

		if err := tx.Create(&ev).Error; err != nil {
			return fmt.Errorf("inserting event row %d: %w", row.GameEventIndex, err)
		}

		for _, br := range row.Baserunners {
			runner := model.EventBaserunner{
				EventID:                 ev.ID,
				PlayOrder:               br.PlayOrder,
				BaserunnerName:          br.BaserunnerName,
				BaseAfterID:             int64(br.BaseAfter),
				IsOut:                   br.IsOut,
				BaseDescriptionFormatID: int64(br.DescriptionFormat),
				Steal:                   br.Steal,
				SourceEventIndex:        br.SourceEventIndex,
				IsEarned:                br.IsEarned,
			}
			if br.BaseBefore != nil {
				id := int64(*br.BaseBefore)
				runner.BaseBeforeID = &id
			}
			if err := tx.Create(&runner).Error; err != nil {
				return fmt.Errorf("inserting baserunner row: %w", err)
			}
		}

		for _, fr := range row.Fielders {
			fielder := model.EventFielder{
				EventID:       ev.ID,
				PlayOrder:     fr.PlayOrder,
				FielderName:   fr.FielderName,
				FielderSlotID: int64(fr.Slot),
				Approximate:   fr.Approximate,
			}
			if err := tx.Create(&fielder).Error; err != nil {
				return fmt.Errorf("inserting fielder row: %w", err)
			}
		}
	}
	return nil
}

func (w *Writer) writePitcherChanges(tx *gorm.DB, gameID int64, rows []fold.PitcherChangeRow) error {
	for _, row := range rows {
		rec := model.PitcherChange{
			GameID:         gameID,
			GameEventIndex: row.GameEventIndex,
			Team:           teamString(row.Team),
			SlotID:         int64(row.Slot),
			SourceID:       int64(row.Source),
		}
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("inserting pitcher_changes row: %w", err)
		}
	}
	return nil
}

// teamString renders a fold.Team as the "home"/"away" string the side
// tables' team column stores.
func teamString(t fold.Team) string {
	if t == fold.Home {
		return "home"
	}
	return "away"
}

// writeSideTables inserts the seven supplemental per-game tables
// (SPEC_FULL.md §3 "Supplemental per-game side tables"). None of them
// affect count/score/baserunner reconstruction; they are written for their
// own sake, in the same transaction and with the same delete-then-insert
// lifecycle as everything else in this game.
func (w *Writer) writeSideTables(tx *gorm.DB, gameID int64, result fold.Result) error {
	for _, row := range result.Ejections {
		rec := model.Ejection{
			GameID: gameID, GameEventIndex: row.GameEventIndex,
			Team: teamString(row.Team), EjectedName: row.EjectedName, ReasonText: row.ReasonText,
		}
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("inserting ejections row: %w", err)
		}
	}

	for _, row := range result.AuroraPhotos {
		rec := model.AuroraPhoto{GameID: gameID, GameEventIndex: row.GameEventIndex, PlayerName: row.PlayerName}
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("inserting aurora_photos row: %w", err)
		}
	}

	for _, row := range result.DoorPrizes {
		rec := model.DoorPrize{GameID: gameID, GameEventIndex: row.GameEventIndex, PlayerName: row.PlayerName}
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("inserting door_prizes row: %w", err)
		}
		payload, err := json.Marshal(row.ItemText)
		if err != nil {
			return fmt.Errorf("marshaling door prize item: %w", err)
		}
		item := model.DoorPrizeItem{DoorPrizeID: rec.ID, ItemPayload: datatypes.JSON(payload)}
		if err := tx.Create(&item).Error; err != nil {
			return fmt.Errorf("inserting door_prize_items row: %w", err)
		}
	}

	for _, row := range result.Withers {
		rec := model.Wither{GameID: gameID, GameEventIndex: row.GameEventIndex, Team: teamString(row.Team)}
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("inserting wither row: %w", err)
		}
	}

	for _, row := range result.Efflorescences {
		rec := model.Efflorescence{GameID: gameID, GameEventIndex: row.GameEventIndex, Team: teamString(row.Team)}
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("inserting efflorescence row: %w", err)
		}
	}

	for _, row := range result.Parties {
		payload, err := json.Marshal(row.Participants)
		if err != nil {
			return fmt.Errorf("marshaling party participants: %w", err)
		}
		rec := model.Party{GameID: gameID, GameEventIndex: row.GameEventIndex, Participants: datatypes.JSON(payload)}
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("inserting parties row: %w", err)
		}
	}

	for _, row := range result.ConsumptionContests {
		payload, err := json.Marshal(row.Participants)
		if err != nil {
			return fmt.Errorf("marshaling consumption contest participants: %w", err)
		}
		rec := model.ConsumptionContest{
			GameID: gameID, GameEventIndex: row.GameEventIndex,
			Participants: datatypes.JSON(payload), WinnerName: row.WinnerName,
		}
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("inserting consumption_contests row: %w", err)
		}
	}

	return nil
}

// checkFinalScore cross-references the fold's derived final score against
// the upstream boxscore (SPEC_FULL.md §7 "fold inconsistency"). A mismatch
// means a message the grammar silently mis-folded, not a genuine upstream
// discrepancy — the two numbers are computed from entirely independent
// sources.
func checkFinalScore(header parsing.Header, result fold.Result) *fold.Issue {
	if header.AwayFinalScore == nil || header.HomeFinalScore == nil || len(result.Events) == 0 {
		return nil
	}
	last := result.Events[len(result.Events)-1]
	if last.AwayScoreAfter == *header.AwayFinalScore && last.HomeScoreAfter == *header.HomeFinalScore {
		return nil
	}
	gi := last.GameEventIndex
	return &fold.Issue{
		GameEventIndex: &gi,
		LogLevel:       1,
		LogText: fmt.Sprintf("folded final score %d-%d disagrees with upstream boxscore %d-%d",
			last.AwayScoreAfter, last.HomeScoreAfter, *header.AwayFinalScore, *header.HomeFinalScore),
		Err: fold.ErrFoldInconsistent,
	}
}

func (w *Writer) writeRawEvents(tx *gorm.DB, gameID int64, rawLines []string) error {
	for i, line := range rawLines {
		rec := model.RawEvent{GameID: gameID, GameEventIndex: i, Text: line}
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("inserting raw_events row: %w", err)
		}
	}
	return nil
}

func (w *Writer) writeLogs(tx *gorm.DB, gameID int64, mmolbGameID string, parseIssues []parsing.Issue, foldIssues []fold.Issue) error {
	idx := 0
	write := func(gameEventIndex *int, level int, text string) error {
		rec := model.EventIngestLog{GameID: gameID, MmolbGameID: mmolbGameID, GameEventIndex: gameEventIndex, LogIndex: idx, LogLevel: level, LogText: text}
		ingestlog.Emit(w.logger, ingestlog.Record{
			GameID: gameID, MmolbGameID: mmolbGameID, GameEventIndex: gameEventIndex,
			LogIndex: idx, Level: ingestlog.Level(level), Text: text,
		})
		idx++
		return tx.Create(&rec).Error
	}

	for _, iss := range parseIssues {
		if err := write(iss.GameEventIndex, iss.LogLevel, iss.LogText); err != nil {
			return err
		}
	}
	for _, iss := range foldIssues {
		if err := write(iss.GameEventIndex, iss.LogLevel, iss.LogText); err != nil {
			return err
		}
	}
	return nil
}
