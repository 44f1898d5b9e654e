package fold

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFoldGame_SkippedNowBattingDoesNotAffectTurnover reproduces the
// upstream quirk where a "now batting" announcement is skipped entirely
// after a mound visit. Batter turnover must still fire on the next material
// event naming a new batter, regardless of whether its announcement exists.
func TestFoldGame_SkippedNowBattingDoesNotAffectTurnover(t *testing.T) {
	entries := parseLines(
		"Top of 1st.",
		"Mound visit.",
		// No "Now batting" line here — the quirk this reproduces.
		"Nora Delgado strikes out looking.",
	)

	result := FoldGame(entries)

	require.Len(t, result.Events, 1)
	assert.Equal(t, "Nora Delgado", result.Events[0].BatterName)
	assert.Equal(t, 1, result.Events[0].BatterCount)
}

// TestFoldGame_DuplicatedNowBattingDoesNotDoubleCountTurnover reproduces the
// other named quirk: the same "now batting" announcement appears twice in a
// row. Since the folder never reads FramingNowBatting at all, a duplicate
// announcement changes nothing about batter-turnover counting.
func TestFoldGame_DuplicatedNowBattingDoesNotDoubleCountTurnover(t *testing.T) {
	entries := parseLines(
		"Top of 1st.",
		"Now batting: Nora Delgado.",
		"Now batting: Nora Delgado.",
		"Nora Delgado strikes out looking.",
	)

	result := FoldGame(entries)

	require.Len(t, result.Events, 1)
	assert.Equal(t, 1, result.Events[0].BatterCount)
}
