package model

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ingestd/internal/taxa"
)

// Seed upserts every closed enumeration in internal/taxa into its mirror
// table, keyed on the enum's id (a conflicting row only has its name
// refreshed), so re-running it on every boot is idempotent — the same
// Taxa::new/make_id_mapping pattern the original implementation uses,
// expressed here as a GORM upsert instead of a Diesel insert-or-select.
func Seed(db *gorm.DB) error {
	locationIDs := map[taxa.FielderLocation]int64{}
	for _, loc := range taxa.AllFielderLocations() {
		a := loc.Attrs()
		row := FielderLocationTaxon{ID: int64(loc), Name: a.Name, Abbreviation: a.Abbreviation, Area: string(a.Area)}
		if err := upsertByName(db, &row); err != nil {
			return fmt.Errorf("seeding fielder_location: %w", err)
		}
		locationIDs[loc] = row.ID
	}

	for _, et := range taxa.AllEventTypes() {
		a := et.Attrs()
		row := EventTypeTaxon{
			ID: int64(et), Name: a.Name, DisplayName: a.DisplayName,
			EndsPlateAppearance: a.EndsPlateAppearance, IsInPlay: a.IsInPlay, IsHit: a.IsHit,
			IsError: a.IsError, IsBall: a.IsBall, IsStrike: a.IsStrike, IsStrikeout: a.IsStrikeout,
			IsBasicStrike: a.IsBasicStrike, IsFoul: a.IsFoul, IsFoulTip: a.IsFoulTip, BatterSwung: a.BatterSwung,
		}
		if err := upsertByName(db, &row); err != nil {
			return fmt.Errorf("seeding event_type: %w", err)
		}
	}

	for _, t := range taxa.AllFairBallTypes() {
		row := FairBallTypeTaxon{ID: int64(t), Name: t.Name()}
		if err := upsertByName(db, &row); err != nil {
			return fmt.Errorf("seeding fair_ball_type: %w", err)
		}
	}

	for _, b := range taxa.AllBases() {
		row := BaseTaxon{ID: int64(b), Name: b.Name(), BasesAchieved: b.BasesAchieved()}
		if err := upsertByName(db, &row); err != nil {
			return fmt.Errorf("seeding base: %w", err)
		}
	}

	for _, f := range taxa.AllBaseDescriptionFormats() {
		row := BaseDescriptionFormatTaxon{ID: int64(f), Name: f.TaxonName()}
		if err := upsertByName(db, &row); err != nil {
			return fmt.Errorf("seeding base_description_format: %w", err)
		}
	}

	for _, f := range taxa.AllFieldingErrorTypes() {
		row := FieldingErrorTypeTaxon{ID: int64(f), Name: f.Name()}
		if err := upsertByName(db, &row); err != nil {
			return fmt.Errorf("seeding fielding_error_type: %w", err)
		}
	}

	for _, p := range taxa.AllPitchTypes() {
		a := p.Attrs()
		row := PitchTypeTaxon{ID: int64(p), Name: a.Name, Abbreviation: a.Abbreviation}
		if err := upsertByName(db, &row); err != nil {
			return fmt.Errorf("seeding pitch_type: %w", err)
		}
	}

	for _, s := range taxa.AllSlots() {
		a := s.Attrs()
		row := SlotTaxon{ID: int64(s), Name: a.Name, Role: string(a.Role), PitcherType: string(a.PitcherType), SlotNumber: a.SlotNumber}
		if a.HasLocation {
			id := locationIDs[a.Location]
			row.LocationID = &id
		}
		if err := upsertByName(db, &row); err != nil {
			return fmt.Errorf("seeding slot: %w", err)
		}
	}

	for _, s := range taxa.AllPitcherChangeSources() {
		row := PitcherChangeSourceTaxon{ID: int64(s), Name: s.Name()}
		if err := upsertByName(db, &row); err != nil {
			return fmt.Errorf("seeding pitcher_change_source: %w", err)
		}
	}

	for _, h := range taxa.AllHandedness() {
		row := HandednessTaxon{ID: int64(h), Name: h.Name()}
		if err := upsertByName(db, &row); err != nil {
			return fmt.Errorf("seeding handedness: %w", err)
		}
	}

	return nil
}

func upsertByName(db *gorm.DB, row interface{}) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(row).Error
}
