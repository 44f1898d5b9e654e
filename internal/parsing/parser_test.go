package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ingestd/internal/rawgame"
	"ingestd/internal/taxa"
)

func gameWithLog(lines ...string) rawgame.Game {
	return rawgame.Game{
		ID:       "68123abc",
		Season:   3,
		State:    "Complete",
		Weather:  rawgame.Weather{Name: "Sunny", Emoji: "☀️"},
		AwayTeam: rawgame.TeamRef{Name: "Moontowers"},
		HomeTeam: rawgame.TeamRef{Name: "Crabs"},
		EventLog: lines,
	}
}

func TestParse_ThreePitchStrikeout(t *testing.T) {
	g := gameWithLog(
		"Now batting: Rivera Martinez.",
		"Called strike.",
		"Swinging strike.",
		"Rivera Martinez strikes out swinging.",
	)

	header, entries, issues := Parse(g)

	require.Empty(t, issues)
	assert.Equal(t, "68123abc", header.MmolbGameID)
	require.Len(t, entries, 4)

	strikeout, ok := entries[3].(MaterialEvent)
	require.True(t, ok)
	assert.Equal(t, taxa.SwingingStrikeout, strikeout.EventType)
	assert.Equal(t, "Rivera Martinez", strikeout.BatterName)
}

func TestParse_SoloHomer(t *testing.T) {
	g := gameWithLog("Dell Ramirez homers! It's a toasty dinger.")

	_, entries, issues := Parse(g)

	require.Empty(t, issues)
	require.Len(t, entries, 1)
	homer := entries[0].(MaterialEvent)
	assert.Equal(t, taxa.HomeRun, homer.EventType)
	assert.Equal(t, "Dell Ramirez", homer.BatterName)
	require.NotNil(t, homer.HitBase)
	assert.Equal(t, taxa.Home, *homer.HitBase)
	require.NotNil(t, homer.IsToasty)
	assert.True(t, *homer.IsToasty)
}

func TestParse_ReachedOnErrorThenScored(t *testing.T) {
	g := gameWithLog(
		"Alou Vance reaches on a fielding error by Ng.",
		"Alou Vance scores.",
	)

	_, entries, issues := Parse(g)

	require.Empty(t, issues)
	require.Len(t, entries, 2)
	errEvent := entries[0].(MaterialEvent)
	assert.Equal(t, taxa.FieldingError, errEvent.EventType)
	require.NotNil(t, errEvent.FieldingErrorType)
	assert.Equal(t, taxa.Fielding, *errEvent.FieldingErrorType)
	require.Len(t, errEvent.Fielders, 1)
	assert.Equal(t, "Ng", errEvent.Fielders[0].Name)
}

func TestParse_FairBallPairsWithFollowingMaterialEvent(t *testing.T) {
	g := gameWithLog(
		"Ground ball, to short.",
		"Quinn Ortega grounds out, 6-3.",
	)

	_, entries, issues := Parse(g)

	require.Empty(t, issues)
	require.Len(t, entries, 2)

	decl, ok := entries[0].(FairBallDeclaration)
	require.True(t, ok)
	assert.Equal(t, taxa.GroundBall, decl.Type)
	assert.Equal(t, "to short", decl.Direction)

	out := entries[1].(MaterialEvent)
	require.NotNil(t, out.FairBallEventIndex)
	assert.Equal(t, 0, *out.FairBallEventIndex)
}

func TestParse_UnrecognizedLineBecomesIssueAndFraming(t *testing.T) {
	g := gameWithLog("A wizard wanders onto the field and nobody reacts.")

	_, entries, issues := Parse(g)

	require.Len(t, issues, 1)
	assert.Equal(t, 1, issues[0].LogLevel)
	require.Len(t, entries, 1)
	framing, ok := entries[0].(Framing)
	require.True(t, ok)
	assert.Equal(t, FramingOther, framing.Kind)
}

func TestParse_WalkoffBalkIsLeftUnmatched(t *testing.T) {
	g := gameWithLog("Balk. Ruiz Delgado scores.")

	_, entries, issues := Parse(g)

	require.Len(t, issues, 1)
	require.Len(t, entries, 1)
	_, isFraming := entries[0].(Framing)
	assert.True(t, isFraming, "a scoring balk should fall back to an unmatched Framing entry")
}

func TestParse_InningRolloverHeaderBecomesFraming(t *testing.T) {
	g := gameWithLog("Top of 1st.", "Bottom of 1st.", "Top of 2nd.")

	_, entries, issues := Parse(g)

	require.Empty(t, issues)
	for _, e := range entries {
		framing, ok := e.(Framing)
		require.True(t, ok)
		assert.Equal(t, FramingInningHeader, framing.Kind)
	}
}

func TestParse_CaughtStealingSecondBase(t *testing.T) {
	g := gameWithLog("Alou Vance is caught stealing second base.")

	_, entries, issues := Parse(g)

	require.Empty(t, issues)
	require.Len(t, entries, 1)
	ev := entries[0].(MaterialEvent)
	assert.Equal(t, taxa.CaughtStealing, ev.EventType)
	require.Len(t, ev.Runners, 1)
	assert.Equal(t, "Alou Vance", ev.Runners[0].Name)
	require.NotNil(t, ev.Runners[0].BaseBefore)
	assert.Equal(t, taxa.First, *ev.Runners[0].BaseBefore)
	assert.Equal(t, taxa.Second, ev.Runners[0].BaseAfter)
	assert.True(t, ev.Runners[0].IsOut)
	assert.True(t, ev.Runners[0].Steal)
}

func TestParse_PickoffAtFirstBase(t *testing.T) {
	g := gameWithLog("Dell Ramirez is picked off at first base.")

	_, entries, issues := Parse(g)

	require.Empty(t, issues)
	require.Len(t, entries, 1)
	ev := entries[0].(MaterialEvent)
	assert.Equal(t, taxa.Pickoff, ev.EventType)
	require.Len(t, ev.Runners, 1)
	assert.True(t, ev.Runners[0].IsOut)
	assert.False(t, ev.Runners[0].Steal)
	assert.Equal(t, taxa.First, ev.Runners[0].BaseAfter)
}

func TestParse_StandaloneScoreLine(t *testing.T) {
	g := gameWithLog("Nora Delgado scores.")

	_, entries, issues := Parse(g)

	require.Empty(t, issues)
	require.Len(t, entries, 1)
	ev := entries[0].(MaterialEvent)
	assert.Equal(t, taxa.Scores, ev.EventType)
	require.Len(t, ev.Runners, 1)
	assert.Equal(t, "Nora Delgado", ev.Runners[0].Name)
	assert.Equal(t, taxa.Home, ev.Runners[0].BaseAfter)
	assert.Nil(t, ev.Runners[0].BaseBefore)
}

func TestParse_PitchingChangeCapturesIncomingPitcherName(t *testing.T) {
	g := gameWithLog("Pitching change: Mika Reyes comes in to pitch.")

	_, entries, issues := Parse(g)

	require.Empty(t, issues)
	require.Len(t, entries, 1)
	framing := entries[0].(Framing)
	assert.Equal(t, FramingPitchingChange, framing.Kind)
	require.NotNil(t, framing.PitcherName)
	assert.Equal(t, "Mika Reyes", *framing.PitcherName)
}

func TestParse_EjectionCapturesNameAndReason(t *testing.T) {
	g := gameWithLog("Nora Delgado has been ejected from the game for arguing a call.")

	_, entries, issues := Parse(g)

	require.Empty(t, issues)
	require.Len(t, entries, 1)
	framing := entries[0].(Framing)
	assert.Equal(t, FramingEjection, framing.Kind)
	require.NotNil(t, framing.EjectedName)
	assert.Equal(t, "Nora Delgado", *framing.EjectedName)
	require.NotNil(t, framing.ReasonText)
	assert.Equal(t, "arguing a call", *framing.ReasonText)
}

func TestParse_PartySplitsParticipantList(t *testing.T) {
	g := gameWithLog("Dell Ramirez, Nora Delgado, and Alou Vance throw a party in the dugout.")

	_, entries, issues := Parse(g)

	require.Empty(t, issues)
	require.Len(t, entries, 1)
	framing := entries[0].(Framing)
	assert.Equal(t, FramingParty, framing.Kind)
	assert.Equal(t, []string{"Dell Ramirez", "Nora Delgado", "Alou Vance"}, framing.Participants)
}

func TestParse_HitByPitchIsBallNotInPlay(t *testing.T) {
	g := gameWithLog("Ollie Park is hit by the pitch.")

	_, entries, _ := Parse(g)

	require.Len(t, entries, 1)
	ev := entries[0].(MaterialEvent)
	assert.Equal(t, taxa.HitByPitch, ev.EventType)
	attrs := ev.EventType.Attrs()
	assert.True(t, attrs.IsBall)
	assert.False(t, attrs.IsInPlay)
}
