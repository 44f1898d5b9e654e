package parsing

import (
	"regexp"
	"strconv"
	"strings"

	"ingestd/internal/rawgame"
	"ingestd/internal/taxa"
)

// Parse consumes one raw game and produces its header plus an ordered
// sequence of entries, one per event-log line, indexed by raw position.
// Unmatched lines become a Framing entry plus an Issue (SPEC_FULL.md §4.2
// "Parsing discipline").
func Parse(g rawgame.Game) (Header, []Entry, []Issue) {
	header := headerFrom(g)
	entries := make([]Entry, 0, len(g.EventLog))
	var issues []Issue

	pendingFairBall := (*int)(nil)

	for i, line := range g.EventLog {
		entry, matched := matchLine(i, line)
		if !matched {
			idx := i
			issues = append(issues, Issue{
				GameEventIndex: &idx,
				LogLevel:       1, // Error
				LogText:        "unrecognized event-log message",
				Err:            ErrUnparsed,
			})
			entries = append(entries, Framing{Idx: i, Raw: line, Kind: FramingOther})
			continue
		}

		switch e := entry.(type) {
		case FairBallDeclaration:
			idx := e.Idx
			pendingFairBall = &idx
			entries = append(entries, e)
		case MaterialEvent:
			if pendingFairBall != nil {
				e.FairBallEventIndex = pendingFairBall
				pendingFairBall = nil
			}
			entries = append(entries, e)
		default:
			entries = append(entries, entry)
		}
	}

	return header, entries, issues
}

// matchLine runs the closed grammar's matchers in a fixed priority order.
// Each matcher either claims the line or declines; the first to claim wins.
func matchLine(idx int, line string) (Entry, bool) {
	matchers := []func(int, string) (Entry, bool){
		matchGameStart,
		matchGameEnd,
		matchInningHeader,
		matchNowBatting,
		matchMoundVisit,
		matchPitchingChange,
		matchEjection,
		matchAuroraPhoto,
		matchDoorPrize,
		matchWither,
		matchEfflorescence,
		matchParty,
		matchConsumptionContest,
		matchFairBallDeclaration,
		matchCaughtStealing,
		matchPickoff,
		matchBalk,
		matchStandaloneScore,
		matchPitchOutcome,
	}
	for _, m := range matchers {
		if e, ok := m(idx, line); ok {
			return e, true
		}
	}
	return nil, false
}

var (
	reGameStart       = regexp.MustCompile(`^Play ball!`)
	reGameEnd         = regexp.MustCompile(`^Game over\.`)
	reInningHeader    = regexp.MustCompile(`^(Top|Bottom) of (\d+)`)
	reNowBatting      = regexp.MustCompile(`^Now batting: (.+?)(?:\s+\(([a-z .'-]+)\))?\.?$`)
	reMoundVisit      = regexp.MustCompile(`^Mound visit\.`)
	rePitchingChange  = regexp.MustCompile(`^Pitching change: (.+?) comes in to pitch\.`)
	reFairBall        = regexp.MustCompile(`^(Ground ball|Fly ball|Line drive|Popup),? (.+)\.$`)
	reBalk            = regexp.MustCompile(`^Balk\. (.+)\.$`)

	reCaughtStealing     = regexp.MustCompile(`^(.+?) is caught stealing (second base|third base|home)\.$`)
	rePickoff            = regexp.MustCompile(`^(.+?) is picked off at (first base|second base|third base)\.$`)
	reStandaloneScore    = regexp.MustCompile(`^([A-Za-z0-9 .'\-]+) scores\.$`)
	reEjection           = regexp.MustCompile(`^(.+?) has been ejected from the game for (.+)\.$`)
	reAuroraPhoto        = regexp.MustCompile(`^(.+?) stops to take a photo of the aurora\.$`)
	reDoorPrize          = regexp.MustCompile(`^(.+?) opens a door prize and finds (.+)\.$`)
	reWither             = regexp.MustCompile(`^A wither settles over the field\.$`)
	reEfflorescence      = regexp.MustCompile(`^An efflorescence blooms across the field\.$`)
	reParty              = regexp.MustCompile(`^(.+?) throw a party in the dugout\.$`)
	reConsumptionContest = regexp.MustCompile(`^(.+?) hold a hot dog eating contest, and (.+?) wins\.$`)

	reBall            = regexp.MustCompile(`^Ball\.`)
	reCalledStrike    = regexp.MustCompile(`^Called strike\.`)
	reSwingingStrike  = regexp.MustCompile(`^Swinging strike\.`)
	reFoulTip         = regexp.MustCompile(`^Foul tip\.`)
	reFoulBall        = regexp.MustCompile(`^Foul ball\.`)
	reWalk            = regexp.MustCompile(`^(.+?) walks\.`)
	reHitByPitch      = regexp.MustCompile(`^(.+?) is hit by the pitch\.`)
	reHomeRun         = regexp.MustCompile(`^(.+?) homers!`)
	reHit             = regexp.MustCompile(`^(.+?) hits a (single|double|triple)\.`)
	reFieldingError   = regexp.MustCompile(`^(.+?) reaches on a (fielding|throwing) error by ([A-Za-z0-9 .'\-]+)\.`)
	reStrikeoutLook   = regexp.MustCompile(`^(.+?) strikes out looking\.`)
	reStrikeoutSwing  = regexp.MustCompile(`^(.+?) strikes out swinging\.`)
	reStrikeoutFoul   = regexp.MustCompile(`^(.+?) strikes out on a foul tip\.`)
	reGroundedOut     = regexp.MustCompile(`^(.+?) grounds out(?:,? (.+))?\.$`)
	reForceOut        = regexp.MustCompile(`^(.+?) is forced out(?:,? (.+))?\.$`)
	reCaughtOut       = regexp.MustCompile(`^(.+?) (?:flies|pops) out(?:,? (.+))?\.$`)
	reDoublePlay      = regexp.MustCompile(`^(.+?) hits into a double play(?:,? (.+))?\.$`)
	reFieldersChoice  = regexp.MustCompile(`^(.+?) reaches on a fielder's choice(?:,? (.+))?\.$`)
	reSacrifice       = regexp.MustCompile(`\bsacrifice\b`)
	reToasty          = regexp.MustCompile(`\btoasty\b`)
	reScores          = regexp.MustCompile(`([A-Za-z0-9 .'\-]+) scores\.`)
)

func matchGameStart(idx int, line string) (Entry, bool) {
	if !reGameStart.MatchString(line) {
		return nil, false
	}
	return Framing{Idx: idx, Raw: line, Kind: FramingGameStart}, true
}

func matchGameEnd(idx int, line string) (Entry, bool) {
	if !reGameEnd.MatchString(line) {
		return nil, false
	}
	return Framing{Idx: idx, Raw: line, Kind: FramingGameEnd}, true
}

func matchInningHeader(idx int, line string) (Entry, bool) {
	if !reInningHeader.MatchString(line) {
		return nil, false
	}
	return Framing{Idx: idx, Raw: line, Kind: FramingInningHeader}, true
}

func matchNowBatting(idx int, line string) (Entry, bool) {
	if !reNowBatting.MatchString(line) {
		return nil, false
	}
	return Framing{Idx: idx, Raw: line, Kind: FramingNowBatting}, true
}

func matchMoundVisit(idx int, line string) (Entry, bool) {
	if !reMoundVisit.MatchString(line) {
		return nil, false
	}
	return Framing{Idx: idx, Raw: line, Kind: FramingMoundVisit}, true
}

func matchPitchingChange(idx int, line string) (Entry, bool) {
	m := rePitchingChange.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	name := m[1]
	return Framing{Idx: idx, Raw: line, Kind: FramingPitchingChange, PitcherName: &name}, true
}

func matchEjection(idx int, line string) (Entry, bool) {
	m := reEjection.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	name, reason := m[1], m[2]
	return Framing{Idx: idx, Raw: line, Kind: FramingEjection, EjectedName: &name, ReasonText: &reason}, true
}

func matchAuroraPhoto(idx int, line string) (Entry, bool) {
	m := reAuroraPhoto.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	name := m[1]
	return Framing{Idx: idx, Raw: line, Kind: FramingAuroraPhoto, PlayerName: &name}, true
}

func matchDoorPrize(idx int, line string) (Entry, bool) {
	m := reDoorPrize.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	name, item := m[1], m[2]
	return Framing{Idx: idx, Raw: line, Kind: FramingDoorPrize, PlayerName: &name, ItemText: &item}, true
}

func matchWither(idx int, line string) (Entry, bool) {
	if !reWither.MatchString(line) {
		return nil, false
	}
	return Framing{Idx: idx, Raw: line, Kind: FramingWither}, true
}

func matchEfflorescence(idx int, line string) (Entry, bool) {
	if !reEfflorescence.MatchString(line) {
		return nil, false
	}
	return Framing{Idx: idx, Raw: line, Kind: FramingEfflorescence}, true
}

func matchParty(idx int, line string) (Entry, bool) {
	m := reParty.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	return Framing{Idx: idx, Raw: line, Kind: FramingParty, Participants: splitNameList(m[1])}, true
}

func matchConsumptionContest(idx int, line string) (Entry, bool) {
	m := reConsumptionContest.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	winner := m[2]
	return Framing{Idx: idx, Raw: line, Kind: FramingConsumptionContest,
		Participants: splitNameList(m[1]), WinnerName: &winner}, true
}

// splitNameList turns "A", "A and B", or "A, B, and C" into its members.
func splitNameList(text string) []string {
	text = strings.TrimSpace(text)
	text = strings.Replace(text, ", and ", ", ", 1)
	text = strings.Replace(text, " and ", ", ", 1)
	parts := strings.Split(text, ", ")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}

func matchCaughtStealing(idx int, line string) (Entry, bool) {
	m := reCaughtStealing.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	target := baseFromStealWord(m[2])
	before := prevBase(target)
	return MaterialEvent{Idx: idx, Raw: line, EventType: taxa.CaughtStealing,
		Runners: []RunnerMovement{{Name: m[1], BaseBefore: before, BaseAfter: target, IsOut: true, Steal: true, DescriptionFormat: taxa.NameBase}},
	}, true
}

func matchPickoff(idx int, line string) (Entry, bool) {
	m := rePickoff.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	base := baseFromStealWord(m[2])
	return MaterialEvent{Idx: idx, Raw: line, EventType: taxa.Pickoff,
		Runners: []RunnerMovement{{Name: m[1], BaseBefore: &base, BaseAfter: base, IsOut: true, DescriptionFormat: taxa.NameBase}},
	}, true
}

// matchStandaloneScore handles a bare "<Name> scores." line reporting a
// runner who was already on base touching home on a play that produced no
// material event of its own (e.g. a balk that isn't a walkoff, or a wild
// pitch). Lines that open with "Balk." are left to matchBalk, including the
// walkoff case it deliberately declines to claim.
func matchStandaloneScore(idx int, line string) (Entry, bool) {
	if strings.HasPrefix(line, "Balk.") {
		return nil, false
	}
	m := reStandaloneScore.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	return MaterialEvent{Idx: idx, Raw: line, EventType: taxa.Scores,
		Runners: []RunnerMovement{{Name: m[1], BaseAfter: taxa.Home, DescriptionFormat: taxa.Name}},
	}, true
}

// baseFromStealWord maps the base-name phrase in a caught-stealing or
// pickoff line to its taxon.
func baseFromStealWord(word string) taxa.Base {
	switch word {
	case "first base":
		return taxa.First
	case "second base":
		return taxa.Second
	case "third base":
		return taxa.Third
	default:
		return taxa.Home
	}
}

// prevBase returns the base a runner must have occupied to be caught
// stealing b.
func prevBase(b taxa.Base) *taxa.Base {
	var p taxa.Base
	switch b {
	case taxa.Second:
		p = taxa.First
	case taxa.Third:
		p = taxa.Second
	case taxa.Home:
		p = taxa.Third
	default:
		p = taxa.First
	}
	return &p
}

func matchFairBallDeclaration(idx int, line string) (Entry, bool) {
	m := reFairBall.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	var t taxa.FairBallType
	switch m[1] {
	case "Ground ball":
		t = taxa.GroundBall
	case "Fly ball":
		t = taxa.FlyBall
	case "Line drive":
		t = taxa.LineDrive
	case "Popup":
		t = taxa.Popup
	}
	return FairBallDeclaration{Idx: idx, Raw: line, Type: t, Direction: strings.TrimSpace(m[2])}, true
}

func matchBalk(idx int, line string) (Entry, bool) {
	m := reBalk.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	// Walkoff balks are a deliberate, outstanding upstream parse gap
	// (SPEC_FULL.md §4.3): if this balk mentions a run scoring, it is
	// surfaced as unmatched rather than synthesized into a material event.
	if reScores.MatchString(line) {
		return nil, false
	}
	return MaterialEvent{Idx: idx, Raw: line, EventType: taxa.Balk}, true
}

// matchPitchOutcome handles every remaining pitch-result and batted-ball
// outcome line. It is the densest matcher because most of the grammar's
// material events fall here.
func matchPitchOutcome(idx int, line string) (Entry, bool) {
	switch {
	case reBall.MatchString(line):
		return MaterialEvent{Idx: idx, Raw: line, EventType: taxa.Ball}, true
	case reCalledStrike.MatchString(line):
		return MaterialEvent{Idx: idx, Raw: line, EventType: taxa.CalledStrike}, true
	case reSwingingStrike.MatchString(line):
		return MaterialEvent{Idx: idx, Raw: line, EventType: taxa.SwingingStrike}, true
	case reFoulTip.MatchString(line):
		return MaterialEvent{Idx: idx, Raw: line, EventType: taxa.FoulTip}, true
	case reFoulBall.MatchString(line):
		return MaterialEvent{Idx: idx, Raw: line, EventType: taxa.FoulBall}, true
	}

	if m := reWalk.FindStringSubmatch(line); m != nil {
		return MaterialEvent{Idx: idx, Raw: line, EventType: taxa.Walk, BatterName: m[1],
			Runners: []RunnerMovement{{Name: m[1], BaseAfter: taxa.First, DescriptionFormat: taxa.Name}}}, true
	}
	if m := reHitByPitch.FindStringSubmatch(line); m != nil {
		// Historic-bug edge case: HitByPitch is is_ball=true, is_in_play=false
		// (SPEC_FULL.md §3); no special-casing needed here, the flag lives
		// on the taxon, not the parser.
		return MaterialEvent{Idx: idx, Raw: line, EventType: taxa.HitByPitch, BatterName: m[1],
			Runners: []RunnerMovement{{Name: m[1], BaseAfter: taxa.First, DescriptionFormat: taxa.Name}}}, true
	}
	if m := reHomeRun.FindStringSubmatch(line); m != nil {
		home := taxa.Home
		return MaterialEvent{Idx: idx, Raw: line, EventType: taxa.HomeRun, BatterName: m[1], HitBase: &home,
			IsToasty: toastyFlag(line),
			Runners:  []RunnerMovement{{Name: m[1], BaseAfter: taxa.Home, DescriptionFormat: taxa.Name}}}, true
	}
	if m := reHit.FindStringSubmatch(line); m != nil {
		base := hitBaseFromWord(m[2])
		return MaterialEvent{Idx: idx, Raw: line, EventType: taxa.Hit, BatterName: m[1], HitBase: &base,
			Runners: []RunnerMovement{{Name: m[1], BaseAfter: base, DescriptionFormat: taxa.Name}}}, true
	}
	if m := reFieldingError.FindStringSubmatch(line); m != nil {
		errType := taxa.Fielding
		if m[2] == "throwing" {
			errType = taxa.Throwing
		}
		return MaterialEvent{Idx: idx, Raw: line, EventType: taxa.FieldingError, BatterName: m[1],
			FieldingErrorType: &errType,
			Fielders:          []FielderCredit{{Name: m[3], Best: bestEffortFromText(m[3])}},
			Runners:           []RunnerMovement{{Name: m[1], BaseAfter: taxa.First, DescriptionFormat: taxa.Name}}}, true
	}
	if m := reStrikeoutLook.FindStringSubmatch(line); m != nil {
		return MaterialEvent{Idx: idx, Raw: line, EventType: taxa.CalledStrikeout, BatterName: m[1]}, true
	}
	if m := reStrikeoutSwing.FindStringSubmatch(line); m != nil {
		return MaterialEvent{Idx: idx, Raw: line, EventType: taxa.SwingingStrikeout, BatterName: m[1]}, true
	}
	if m := reStrikeoutFoul.FindStringSubmatch(line); m != nil {
		return MaterialEvent{Idx: idx, Raw: line, EventType: taxa.FoulTipStrikeout, BatterName: m[1]}, true
	}
	if m := reGroundedOut.FindStringSubmatch(line); m != nil {
		return outEvent(idx, line, taxa.GroundedOut, m[1], m[2]), true
	}
	if m := reForceOut.FindStringSubmatch(line); m != nil {
		return outEvent(idx, line, taxa.ForceOut, m[1], m[2]), true
	}
	if m := reCaughtOut.FindStringSubmatch(line); m != nil {
		return outEvent(idx, line, taxa.CaughtOut, m[1], m[2]), true
	}
	if m := reDoublePlay.FindStringSubmatch(line); m != nil {
		return outEvent(idx, line, taxa.DoublePlay, m[1], m[2]), true
	}
	if m := reFieldersChoice.FindStringSubmatch(line); m != nil {
		return outEvent(idx, line, taxa.FieldersChoice, m[1], m[2]), true
	}

	return nil, false
}

func outEvent(idx int, line string, et taxa.EventType, batter, fielderText string) MaterialEvent {
	m := MaterialEvent{
		Idx: idx, Raw: line, EventType: et, BatterName: batter,
		Runners: []RunnerMovement{{Name: batter, BaseAfter: taxa.Home, IsOut: true, DescriptionFormat: taxa.Name}},
	}
	if fielderText != "" {
		m.Fielders = []FielderCredit{{Name: fielderText, Best: bestEffortFromText(fielderText)}}
	}
	// Verbatim preservation of upstream's occasional mislabeled sacrifice
	// descriptions (SPEC_FULL.md §4.3 edge cases): captured as-is, never
	// second-guessed against whether a runner actually advanced.
	if reSacrifice.MatchString(line) {
		v := true
		m.DescribedAsSacrifice = &v
	}
	return m
}

func toastyFlag(line string) *bool {
	if reToasty.MatchString(line) {
		v := true
		return &v
	}
	return nil
}

func hitBaseFromWord(word string) taxa.Base {
	switch word {
	case "double":
		return taxa.Second
	case "triple":
		return taxa.Third
	default:
		return taxa.First
	}
}

// bestEffortFromText extracts a roster-slot designator from free text like
// "SP3", "RP2", "the pitcher", or a plain position abbreviation. Anything it
// can't resolve precisely becomes an approximate slot (SPEC_FULL.md §4.2,
// §7).
func bestEffortFromText(text string) taxa.BestEffortSlot {
	text = strings.TrimSpace(text)
	if text == "the pitcher" || text == "P" {
		return taxa.BestEffortSlot{Role: taxa.RolePitcher}
	}
	if strings.HasPrefix(text, "SP") {
		n, _ := strconv.Atoi(strings.TrimPrefix(text, "SP"))
		return taxa.BestEffortSlot{Role: taxa.RolePitcher, PitcherType: taxa.PitcherTypeStarter, Number: n}
	}
	if strings.HasPrefix(text, "RP") {
		n, _ := strconv.Atoi(strings.TrimPrefix(text, "RP"))
		return taxa.BestEffortSlot{Role: taxa.RolePitcher, PitcherType: taxa.PitcherTypeReliever, Number: n}
	}
	if text == "CL" {
		return taxa.BestEffortSlot{Role: taxa.RolePitcher, PitcherType: taxa.PitcherTypeCloser}
	}
	if text == "DH" {
		return taxa.BestEffortSlot{Role: taxa.RoleBatter, FielderAbbrev: "DH"}
	}
	return taxa.BestEffortSlot{Role: taxa.RoleBatter, FielderAbbrev: text}
}
