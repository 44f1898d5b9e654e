package fold

// The two named compatibility quirks in SPEC_FULL.md §4.3 — skipped
// "now batting" announcements after mound visits at the start of season 3,
// and duplicated "now batting" announcements on one specific day — concern
// the FramingNowBatting entry, which this folder never reads: batter
// turnover (step 3) is driven entirely by whether a material event's own
// BatterName differs from LastBatter[batting]. A missing or duplicated
// announcement changes nothing about that comparison, so both quirks are
// quirks_test.go regression cases confirming the folder's indifference to
// announcement framing, not special-cased branches here.
