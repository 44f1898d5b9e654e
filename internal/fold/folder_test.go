package fold

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ingestd/internal/parsing"
	"ingestd/internal/rawgame"
	"ingestd/internal/taxa"
)

func parseLines(lines ...string) []parsing.Entry {
	g := rawgame.Game{
		ID:       "game-1",
		State:    "Complete",
		AwayTeam: rawgame.TeamRef{Name: "Moontowers"},
		HomeTeam: rawgame.TeamRef{Name: "Crabs"},
		EventLog: lines,
	}
	_, entries, _ := parsing.Parse(g)
	return entries
}

func TestFoldGame_ThreePitchStrikeout(t *testing.T) {
	entries := parseLines(
		"Top of 1st.",
		"Called strike.",
		"Swinging strike.",
		"Nora Delgado strikes out swinging.",
	)

	result := FoldGame(entries)

	require.Len(t, result.Events, 3)
	last := result.Events[2]
	assert.Equal(t, taxa.SwingingStrikeout, last.EventType)
	assert.Equal(t, 2, last.StrikesAfter)
	assert.Equal(t, 1, last.OutsAfter)
}

func TestFoldGame_SoloHomeRunScores(t *testing.T) {
	entries := parseLines("Top of 1st.", "Dell Ramirez homers!")

	result := FoldGame(entries)

	require.Len(t, result.Events, 1)
	homer := result.Events[0]
	assert.Equal(t, 1, homer.AwayScoreAfter)
	assert.Equal(t, 0, homer.HomeScoreAfter)
	require.Len(t, homer.Baserunners, 1)
	assert.True(t, homer.Baserunners[0].IsEarned)
}

func TestFoldGame_ReachedOnErrorThenScored_RunIsUnearned(t *testing.T) {
	entries := parseLines(
		"Top of 1st.",
		"Alou Vance reaches on a fielding error by Ng.",
		"Alou Vance scores.",
	)

	result := FoldGame(entries)

	require.Len(t, result.Events, 2)
	errRow := result.Events[0]
	require.Len(t, errRow.Baserunners, 1)
	assert.False(t, errRow.Baserunners[0].IsEarned, "the run started on an error; it must not be earned")

	scoreRow := result.Events[1]
	assert.Equal(t, 1, scoreRow.AwayScoreAfter)
	require.Len(t, scoreRow.Baserunners, 1)
	assert.False(t, scoreRow.Baserunners[0].IsEarned, "earned status is carried forward from the originating event")
}

func TestFoldGame_ExtraInningsPlacesAutomaticRunnerOnSecond(t *testing.T) {
	s := NewState()
	for i := 0; i < 18; i++ { // walk from top of 1st to top of 10th
		advanceInning(s)
	}

	assert.Equal(t, 10, s.Inning)
	assert.True(t, s.TopOfInning)
	require.NotNil(t, s.Bases[baseIndex(taxa.Second)])
	assert.Equal(t, "", s.Bases[baseIndex(taxa.Second)].Name)
	assert.False(t, s.Bases[baseIndex(taxa.Second)].IsEarned)
}

func TestFoldGame_UnmatchedLineDoesNotAbortFold(t *testing.T) {
	entries := parseLines(
		"Top of 1st.",
		"A wizard wanders onto the field and nobody reacts.",
		"Called strike.",
	)

	result := FoldGame(entries)

	require.Len(t, result.Events, 1)
	assert.Equal(t, taxa.CalledStrike, result.Events[0].EventType)
}

func TestFoldGame_PitcherChangeIncrementsCountOnNewName(t *testing.T) {
	entries := parseLines(
		"Top of 1st.",
		"Pitching change: Mika Reyes comes in to pitch.",
		"Called strike.",
		"Pitching change: Dell Ramirez comes in to pitch.",
		"Called strike.",
	)

	result := FoldGame(entries)

	require.Len(t, result.PitcherChanges, 2)
	require.Len(t, result.Events, 2)
	assert.Equal(t, "Mika Reyes", result.Events[0].PitcherName)
	assert.Equal(t, 1, result.Events[0].PitcherCount)
	assert.Equal(t, "Dell Ramirez", result.Events[1].PitcherName)
	assert.Equal(t, 2, result.Events[1].PitcherCount, "a genuinely new pitcher name must increment the count")
}

func TestFoldGame_SamePitcherNameDoesNotDoubleCount(t *testing.T) {
	entries := parseLines(
		"Top of 1st.",
		"Pitching change: Mika Reyes comes in to pitch.",
		"Mound visit.",
		"Pitching change: Mika Reyes comes in to pitch.",
		"Called strike.",
	)

	result := FoldGame(entries)

	require.Len(t, result.Events, 1)
	assert.Equal(t, 1, result.Events[0].PitcherCount)
}

func TestFoldGame_CaughtStealingRemovesRunnerFromBase(t *testing.T) {
	entries := parseLines(
		"Top of 1st.",
		"Alou Vance walks.",
		"Alou Vance is caught stealing second base.",
	)

	result := FoldGame(entries)

	require.Len(t, result.Events, 2)
	steal := result.Events[1]
	assert.Equal(t, taxa.CaughtStealing, steal.EventType)
	require.Len(t, steal.Baserunners, 1)
	assert.True(t, steal.Baserunners[0].IsOut)
	assert.True(t, steal.Baserunners[0].Steal)
	assert.Equal(t, 1, steal.OutsAfter)
}

func TestFoldGame_PickoffRemovesRunnerFromBase(t *testing.T) {
	entries := parseLines(
		"Top of 1st.",
		"Alou Vance walks.",
		"Alou Vance is picked off at first base.",
	)

	result := FoldGame(entries)

	require.Len(t, result.Events, 2)
	pickoff := result.Events[1]
	assert.Equal(t, taxa.Pickoff, pickoff.EventType)
	require.Len(t, pickoff.Baserunners, 1)
	assert.True(t, pickoff.Baserunners[0].IsOut)
	assert.False(t, pickoff.Baserunners[0].Steal)
	assert.Equal(t, 1, pickoff.OutsAfter)
}

func TestFoldGame_EjectionEmitsSideTableRow(t *testing.T) {
	entries := parseLines(
		"Top of 1st.",
		"Nora Delgado has been ejected from the game for arguing a call.",
	)

	result := FoldGame(entries)

	require.Len(t, result.Ejections, 1)
	assert.Equal(t, "Nora Delgado", result.Ejections[0].EjectedName)
	assert.Equal(t, "arguing a call", result.Ejections[0].ReasonText)
	assert.Equal(t, Home, result.Ejections[0].Team)
}

func TestFoldGame_DoorPrizeEmitsSideTableRow(t *testing.T) {
	entries := parseLines(
		"Top of 1st.",
		"Dell Ramirez opens a door prize and finds a rubber chicken.",
	)

	result := FoldGame(entries)

	require.Len(t, result.DoorPrizes, 1)
	assert.Equal(t, "Dell Ramirez", result.DoorPrizes[0].PlayerName)
	assert.Equal(t, "a rubber chicken", result.DoorPrizes[0].ItemText)
}

func TestFoldGame_ConsumptionContestEmitsParticipantsAndWinner(t *testing.T) {
	entries := parseLines(
		"Top of 1st.",
		"Dell Ramirez, Nora Delgado, and Alou Vance hold a hot dog eating contest, and Alou Vance wins.",
	)

	result := FoldGame(entries)

	require.Len(t, result.ConsumptionContests, 1)
	row := result.ConsumptionContests[0]
	assert.Equal(t, []string{"Dell Ramirez", "Nora Delgado", "Alou Vance"}, row.Participants)
	require.NotNil(t, row.WinnerName)
	assert.Equal(t, "Alou Vance", *row.WinnerName)
}

func TestFoldGame_ApproximateFielderSlotEmitsWarningIssue(t *testing.T) {
	entries := parseLines(
		"Top of 1st.",
		"Quinn Ortega grounds out, unusual-text-123.",
	)

	result := FoldGame(entries)

	require.Len(t, result.Events, 1)
	require.Len(t, result.Events[0].Fielders, 1)
	assert.True(t, result.Events[0].Fielders[0].Approximate)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, 2, result.Issues[0].LogLevel)
}
