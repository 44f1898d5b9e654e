package fold

import (
	"strings"

	"ingestd/internal/parsing"
	"ingestd/internal/taxa"
)

// foldEntry is one step in the per-entry dispatch table: given the current
// entry kind, decide whether this step applies and, if so, mutate state and
// possibly emit rows. This is the same declarative "types -> fold function"
// shape used for per-aggregate folding elsewhere in this lineage, adapted
// here to dispatch on entry kind rather than on an aggregate's sub-state,
// since a game fold has exactly one running accumulator, not several
// entity-keyed ones.
type foldEntry struct {
	applies func(parsing.Entry) bool
	fold    func(s *State, entries []parsing.Entry, idx int, out *Result)
}

func foldEntries() []foldEntry {
	return []foldEntry{
		{applies: isFraming, fold: foldFraming},
		{applies: isFairBallDeclaration, fold: foldFairBallDeclaration},
		{applies: isMaterialEvent, fold: foldMaterialEvent},
	}
}

func isFraming(e parsing.Entry) bool {
	_, ok := e.(parsing.Framing)
	return ok
}
func isFairBallDeclaration(e parsing.Entry) bool {
	_, ok := e.(parsing.FairBallDeclaration)
	return ok
}
func isMaterialEvent(e parsing.Entry) bool {
	_, ok := e.(parsing.MaterialEvent)
	return ok
}

// FoldGame folds one game's parsed entries in index order (SPEC_FULL.md §5
// ordering guarantee (i)) into materialized rows. It runs synchronously on
// the caller's goroutine with no I/O — the only suspension-free CPU work in
// the pipeline.
func FoldGame(entries []parsing.Entry) Result {
	s := NewState()
	out := Result{}
	steps := foldEntries()

	for idx := range entries {
		for _, step := range steps {
			if step.applies(entries[idx]) {
				step.fold(s, entries, idx, &out)
				break
			}
		}
	}

	return out
}

func foldFraming(s *State, entries []parsing.Entry, idx int, out *Result) {
	f := entries[idx].(parsing.Framing)
	switch f.Kind {
	case parsing.FramingInningHeader:
		// NewState already sits in the top of the 1st, so the game's opening
		// "Top of 1st." names the current half-inning; only a header for the
		// other half advances the state.
		if strings.HasPrefix(f.Raw, "Top") != s.TopOfInning {
			advanceInning(s)
		}
	case parsing.FramingPitchingChange:
		recordPitcherChange(s, idx, out, taxa.PitchingChange, f.PitcherName)
	case parsing.FramingMoundVisit:
		recordPitcherChange(s, idx, out, taxa.MoundVisit, nil)
	case parsing.FramingEjection:
		defending := defendingTeam(s.TopOfInning)
		out.Ejections = append(out.Ejections, EjectionRow{
			GameEventIndex: idx, Team: defending,
			EjectedName: strVal(f.EjectedName), ReasonText: strVal(f.ReasonText),
		})
	case parsing.FramingAuroraPhoto:
		out.AuroraPhotos = append(out.AuroraPhotos, AuroraPhotoRow{
			GameEventIndex: idx, PlayerName: strVal(f.PlayerName),
		})
	case parsing.FramingDoorPrize:
		out.DoorPrizes = append(out.DoorPrizes, DoorPrizeRow{
			GameEventIndex: idx, PlayerName: strVal(f.PlayerName), ItemText: strVal(f.ItemText),
		})
	case parsing.FramingWither:
		defending := defendingTeam(s.TopOfInning)
		out.Withers = append(out.Withers, WitherRow{GameEventIndex: idx, Team: defending})
	case parsing.FramingEfflorescence:
		defending := defendingTeam(s.TopOfInning)
		out.Efflorescences = append(out.Efflorescences, EfflorescenceRow{GameEventIndex: idx, Team: defending})
	case parsing.FramingParty:
		out.Parties = append(out.Parties, PartyRow{GameEventIndex: idx, Participants: f.Participants})
	case parsing.FramingConsumptionContest:
		out.ConsumptionContests = append(out.ConsumptionContests, ConsumptionContestRow{
			GameEventIndex: idx, Participants: f.Participants, WinnerName: f.WinnerName,
		})
	}
}

func strVal(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// advanceInning implements step 1's half-inning transition: the first half
// flips TopOfInning; the second half (bottom -> next top) also increments
// Inning. Either way, half-inning-scoped counters reset, and entering extra
// innings (inning > 9 moving to the top) places the automatic runner on
// second with no source event and no earned-run credit.
func advanceInning(s *State) {
	wasTop := s.TopOfInning
	if wasTop {
		s.TopOfInning = false
	} else {
		s.TopOfInning = true
		s.Inning++
	}
	s.resetHalfInning()

	if s.Inning > 9 && s.TopOfInning {
		s.Bases[baseIndex(taxa.Second)] = &RunnerSlot{Name: "", SourceEventIndex: nil, IsEarned: false}
	}
}

// recordPitcherChange implements step 2's pitcher turnover (SPEC_FULL.md
// §4.3): a pitching-change framing names the incoming pitcher directly, so
// turnover is counted here rather than waiting for a per-pitch line that
// never actually repeats the current pitcher's name. A mound visit carries
// no name and never changes the count.
func recordPitcherChange(s *State, idx int, out *Result, source taxa.PitcherChangeSource, newPitcherName *string) {
	defending := defendingTeam(s.TopOfInning)
	var slot taxa.Slot
	if newPitcherName != nil && *newPitcherName != "" {
		resolved, _ := taxa.ResolveBestEffortSlot(taxa.BestEffortSlot{Role: taxa.RolePitcher})
		if prev, ok := s.LastPitcherName[defending]; !ok || prev != *newPitcherName {
			s.PitcherCount[defending]++
			s.LastPitcherName[defending] = *newPitcherName
			s.LastPitcherSlot[defending] = resolved
		}
		slot = s.LastPitcherSlot[defending]
	}
	out.PitcherChanges = append(out.PitcherChanges, PitcherChangeRow{
		GameEventIndex: idx,
		Team:           defending,
		Slot:           slot,
		Source:         source,
	})
}

func foldFairBallDeclaration(s *State, entries []parsing.Entry, idx int, out *Result) {
	i := idx
	s.PendingFairBallIndex = &i
}

// foldMaterialEvent implements steps 2-10 of SPEC_FULL.md §4.3 for one
// material event.
func foldMaterialEvent(s *State, entries []parsing.Entry, idx int, out *Result) {
	m := entries[idx].(parsing.MaterialEvent)
	attrs := m.EventType.Attrs()
	defending := defendingTeam(s.TopOfInning)
	batting := battingTeam(s.TopOfInning)

	row := EventRow{
		GameEventIndex:       idx,
		Inning:               s.Inning,
		TopOfInning:          s.TopOfInning,
		EventType:            m.EventType,
		HitBase:              m.HitBase,
		FieldingErrorType:    m.FieldingErrorType,
		PitchType:            m.PitchType,
		PitchSpeed:           m.PitchSpeed,
		PitchZone:            m.PitchZone,
		DescribedAsSacrifice: m.DescribedAsSacrifice,
		IsToasty:             m.IsToasty,
		BatterName:           m.BatterName,
		Cheer:                m.Cheer,
		BallsBefore:          s.Balls,
		StrikesBefore:        s.Strikes,
		OutsBefore:           s.Outs,
		ErrorsBefore:         s.Errors,
		AwayScoreBefore:      s.AwayScore,
		HomeScoreBefore:      s.HomeScore,
	}

	// Step 3: batter turnover.
	if m.BatterName != "" && m.BatterName != s.LastBatter[batting] {
		s.BatterCount[batting]++
		s.BatterSubcount = 0
		s.LastBatter[batting] = m.BatterName
	} else if startsNewPAForSameBatter(entries, idx) {
		s.BatterSubcount++
	}
	row.BatterCount = s.BatterCount[batting]
	row.BatterSubcount = s.BatterSubcount

	// Step 2: pitcher turnover is counted when the pitching-change framing
	// entry is folded (recordPitcherChange); this just snapshots the running
	// count and the pitcher of record for the row.
	row.PitcherCount = s.PitcherCount[defending]
	row.PitcherName = s.LastPitcherName[defending]

	// Step 4: counts.
	applyCount(s, attrs)
	row.BallsAfter = s.Balls
	row.StrikesAfter = s.Strikes

	// Step 9: fair-ball pairing.
	if s.PendingFairBallIndex != nil {
		row.FairBallEventIndex = s.PendingFairBallIndex
		if decl, ok := entries[*s.PendingFairBallIndex].(parsing.FairBallDeclaration); ok {
			t := decl.Type
			row.FairBallType = &t
			d := decl.Direction
			row.FairBallDirection = &d
		}
		s.PendingFairBallIndex = nil
	}

	// Step 5: baserunner roll-forward.
	runnerRows, scored, putOut := rollForwardBases(s, idx, m)
	row.Baserunners = runnerRows

	// Step 6: scores.
	for _, sc := range scored {
		if batting == Away {
			s.AwayScore++
		} else {
			s.HomeScore++
		}
		_ = sc
	}
	row.AwayScoreAfter = s.AwayScore
	row.HomeScoreAfter = s.HomeScore

	// Step 7: outs.
	s.Outs += putOut
	if attrs.EndsPlateAppearance && attrs.IsStrikeout {
		s.Outs++
	}
	row.OutsAfter = s.Outs
	if s.Outs > 3 {
		gi := idx
		out.Issues = append(out.Issues, Issue{GameEventIndex: &gi, LogLevel: 1,
			LogText: "more than three outs recorded in a half-inning", Err: ErrFoldInconsistent})
	}

	// Step 8: errors.
	if attrs.IsError {
		s.Errors++
	}
	row.ErrorsAfter = s.Errors

	// Fielders (best-effort slot resolution, SPEC_FULL.md §4.2/§7).
	for i, fc := range m.Fielders {
		slot, exact := taxa.ResolveBestEffortSlot(fc.Best)
		row.Fielders = append(row.Fielders, FielderRow{PlayOrder: i, FielderName: fc.Name, Slot: slot, Approximate: !exact})
		if !exact {
			gi := idx
			out.Issues = append(out.Issues, Issue{GameEventIndex: &gi, LogLevel: 2,
				LogText: "approximate fielder slot for " + fc.Name})
		}
	}

	if attrs.EndsPlateAppearance {
		s.Balls = 0
		s.Strikes = 0
	}
	if s.Outs >= 3 {
		// Next material event belongs to the next half-inning; the
		// controller relies on an explicit inning-header framing entry to
		// actually flip state (SPEC_FULL.md §4.3 step 1), so nothing more
		// happens here.
		_ = defending
	}

	out.Events = append(out.Events, row)
}

// applyCount computes balls_after/strikes_after from the event-type flags,
// per SPEC_FULL.md §4.3 step 4 and the two-strike special case: neither a
// foul nor the strikeout itself takes the strike count past two.
func applyCount(s *State, attrs taxa.EventTypeAttrs) {
	if attrs.IsBall {
		s.Balls++
	}
	if attrs.IsStrike {
		if (attrs.IsFoul || attrs.IsStrikeout) && s.Strikes >= 2 {
			return // a foul or strikeout with two strikes does not increment
		}
		s.Strikes++
	}
}

// startsNewPAForSameBatter detects the §4.3 step 3 "else" branch: the same
// batter resumes a PA that was interrupted by a caught-stealing (an out on
// the bases, not on the batter).
func startsNewPAForSameBatter(entries []parsing.Entry, idx int) bool {
	if idx == 0 {
		return false
	}
	prev, ok := entries[idx-1].(parsing.MaterialEvent)
	if !ok {
		return false
	}
	return prev.EventType == taxa.CaughtStealing
}

// rollForwardBases diffs the parsed runner movements against the occupied
// bases, emitting a stationary row for anyone not mentioned, per SPEC_FULL.md
// §4.3 step 5. It returns the emitted rows plus which runners scored/were
// put out, for the caller's score/out bookkeeping.
func rollForwardBases(s *State, idx int, m parsing.MaterialEvent) (rows []BaserunnerRow, scored []string, putOut int) {
	order := 0
	mentioned := map[int]bool{}

	for _, mv := range m.Runners {
		row := BaserunnerRow{
			PlayOrder:         order,
			BaserunnerName:    mv.Name,
			BaseAfter:         mv.BaseAfter,
			IsOut:             mv.IsOut,
			DescriptionFormat: mv.DescriptionFormat,
			Steal:             mv.Steal,
		}
		order++

		isFreshBatterRunner := mv.BaseBefore == nil && !mv.IsAutomaticRunner && m.BatterName != "" && mv.Name == m.BatterName

		switch {
		case isFreshBatterRunner:
			row.BaseBefore = nil
			src := idx
			row.SourceEventIndex = &src
			if m.EventType.Attrs().IsError {
				s.ErrorsInChain[idx] = true
			}
			row.IsEarned = !s.ErrorsInChain[idx]
		case mv.BaseBefore != nil:
			row.BaseBefore = mv.BaseBefore
			bi := baseIndex(*mv.BaseBefore)
			if bi >= 0 && s.Bases[bi] != nil {
				slot := s.Bases[bi]
				row.SourceEventIndex = slot.SourceEventIndex
				row.IsEarned = slot.IsEarned
				mentioned[bi] = true
			}
		default:
			// A runner named without an explicit prior base in the text
			// itself (a standalone "<Name> scores." line, or anything else
			// naming a runner already on base): resolve their occupied
			// base, and the earned-run status they carry, by name lookup.
			if bi, slot := findRunnerBase(s, mv.Name); bi >= 0 {
				row.SourceEventIndex = slot.SourceEventIndex
				row.IsEarned = slot.IsEarned
				mentioned[bi] = true
				b := baseFromIndex(bi)
				row.BaseBefore = &b
			} else {
				src := idx
				row.SourceEventIndex = &src
				row.IsEarned = true
			}
		}

		switch {
		case mv.IsOut:
			putOut++
			clearBase(s, row.BaseBefore)
		case mv.BaseAfter == taxa.Home:
			scored = append(scored, mv.Name)
			clearBase(s, row.BaseBefore)
		default:
			placeRunner(s, mv.BaseAfter, RunnerSlot{Name: mv.Name, SourceEventIndex: row.SourceEventIndex, IsEarned: row.IsEarned})
			clearBase(s, row.BaseBefore)
			// The runner now on BaseAfter already has this movement row.
			if ai := baseIndex(mv.BaseAfter); ai >= 0 {
				mentioned[ai] = true
			}
		}

		rows = append(rows, row)
	}

	// Stationary runners: anyone left occupying a base who wasn't mentioned
	// in this event's movement set.
	for i, slot := range s.Bases {
		if slot == nil || mentioned[i] {
			continue
		}
		b := baseFromIndex(i)
		rows = append(rows, BaserunnerRow{
			PlayOrder: order, BaserunnerName: slot.Name,
			BaseBefore: &b, BaseAfter: b,
			DescriptionFormat: taxa.Name,
			SourceEventIndex:  slot.SourceEventIndex,
			IsEarned:          slot.IsEarned,
		})
		order++
	}

	return rows, scored, putOut
}

// findRunnerBase looks up an occupied base by the runner's name.
func findRunnerBase(s *State, name string) (int, *RunnerSlot) {
	for i, slot := range s.Bases {
		if slot != nil && slot.Name == name {
			return i, slot
		}
	}
	return -1, nil
}

func clearBase(s *State, b *taxa.Base) {
	if b == nil {
		return
	}
	if i := baseIndex(*b); i >= 0 {
		s.Bases[i] = nil
	}
}

func placeRunner(s *State, b taxa.Base, slot RunnerSlot) {
	if i := baseIndex(b); i >= 0 {
		cp := slot
		s.Bases[i] = &cp
	}
}

func baseFromIndex(i int) taxa.Base {
	switch i {
	case 0:
		return taxa.First
	case 1:
		return taxa.Second
	default:
		return taxa.Third
	}
}
