// Package versioning implements the temporal-versioning contract described
// in SPEC_FULL.md §4.4 application-side, in one transaction, rather than via
// database triggers — an equivalent design explicitly sanctioned by
// SPEC_FULL.md §9: "the contract is identical ... not the mechanism."
//
// No in-scope entity currently drives this end-to-end through the writer
// (games use delete-then-reinsert; weather uses a simple natural-key
// upsert); this package is the documented interface to the out-of-scope
// versioned-entity mirror (players, teams, modifications, ...) and is
// exercised by its own tests.
package versioning

import (
	"time"

	"gorm.io/gorm"
)

// Versioned is implemented by any row type this package can apply the
// contract to.
type Versioned interface {
	// NaturalKey returns the column/value pairs identifying this row's
	// entity across versions (e.g. {"player_id": 7}).
	NaturalKey() map[string]interface{}
	// ValidFrom is this row's snapshot timestamp.
	ValidFrom() time.Time
	// Equal reports whether other carries the same observed data as this
	// row (ignoring surrogate id, valid_from/valid_until, and duplicates).
	Equal(other Versioned) bool
}

// ColValidUntil is the column every versioned table uses to mark its one
// currently-valid row per natural key (valid_until IS NULL); ColDuplicates
// counts identical re-observations of that row.
const (
	ColValidUntil  = "valid_until"
	ColDuplicates  = "duplicates"
)

// Apply implements the pre-insert trigger contract for one incoming row: if
// the currently-valid row for its natural key is identical, increment
// duplicates and suppress the insert; otherwise close out the old row and
// insert the new one. Both branches run inside tx, which the caller is
// responsible for committing.
func Apply(tx *gorm.DB, tableName string, incoming Versioned, scanCurrent func(*gorm.DB) (Versioned, bool, error)) error {
	q := tx.Table(tableName)
	for col, val := range incoming.NaturalKey() {
		q = q.Where(col+" = ?", val)
	}
	q = q.Where(ColValidUntil + " IS NULL")

	current, exists, err := scanCurrent(q)
	if err != nil {
		return err
	}

	if exists && current.Equal(incoming) {
		upd := tx.Table(tableName)
		for col, val := range incoming.NaturalKey() {
			upd = upd.Where(col+" = ?", val)
		}
		return upd.Where(ColValidUntil + " IS NULL").
			UpdateColumn(ColDuplicates, gorm.Expr(ColDuplicates+" + 1")).Error
	}

	if exists {
		closeout := tx.Table(tableName)
		for col, val := range incoming.NaturalKey() {
			closeout = closeout.Where(col+" = ?", val)
		}
		if err := closeout.Where(ColValidUntil + " IS NULL").
			UpdateColumn(ColValidUntil, incoming.ValidFrom()).Error; err != nil {
			return err
		}
	}

	return tx.Table(tableName).Create(incoming).Error
}

// CloseoutChildren closes out every child row belonging to parentKey that
// is not in survivingChildKeys — the parent-insert closure policy named
// in SPEC_FULL.md §4.4 ("modifications past the new list length, equipment
// in now-unoccupied slots, reports no longer included").
func CloseoutChildren(tx *gorm.DB, childTable, parentKeyColumn string, parentKeyValue interface{}, childKeyColumn string, survivingChildKeys []interface{}, newValidFrom time.Time) error {
	q := tx.Table(childTable).
		Where(parentKeyColumn+" = ?", parentKeyValue).
		Where(ColValidUntil + " IS NULL")
	if len(survivingChildKeys) > 0 {
		q = q.Where(childKeyColumn+" NOT IN ?", survivingChildKeys)
	}
	return q.UpdateColumn(ColValidUntil, newValidFrom).Error
}
