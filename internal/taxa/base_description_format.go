package taxa

// BaseDescriptionFormat records which linguistic variant an event-log
// message used to name a base, so the original text can be reconstructed
// byte-for-byte (SPEC_FULL.md §8 round-trip law). It carries no semantic
// weight beyond that.
type BaseDescriptionFormat int

const (
	NumberB BaseDescriptionFormat = iota + 1 // "1B"
	Name                                     // "first"
	NameBase                                 // "first base"
)

var baseDescriptionFormatNames = map[BaseDescriptionFormat]string{
	NumberB:  "number_b",
	Name:     "name",
	NameBase: "name_base",
}

func (f BaseDescriptionFormat) TaxonName() string {
	n, ok := baseDescriptionFormatNames[f]
	if !ok {
		panic("taxa: unregistered BaseDescriptionFormat")
	}
	return n
}

func AllBaseDescriptionFormats() []BaseDescriptionFormat {
	return []BaseDescriptionFormat{NumberB, Name, NameBase}
}

// Describe renders base b in format f, the inverse of the parser's
// base-and-format extraction.
func Describe(b Base, f BaseDescriptionFormat) string {
	switch f {
	case NumberB:
		switch b {
		case First:
			return "1B"
		case Second:
			return "2B"
		case Third:
			return "3B"
		default:
			return "HOME"
		}
	case NameBase:
		return b.Name() + " base"
	default:
		return b.Name()
	}
}
