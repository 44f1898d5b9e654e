package taxa

// FielderLocation is a defensive position, 1-9 in the standard scorekeeping
// numbering.
type FielderLocation int

const (
	Pitcher FielderLocation = iota + 1
	Catcher
	FirstBase
	SecondBase
	ThirdBase
	Shortstop
	LeftField
	CenterField
	RightField
)

// Area groups fielder locations into infield/outfield.
type Area string

const (
	Infield  Area = "Infield"
	Outfield Area = "Outfield"
)

type FielderLocationAttrs struct {
	Name         string
	Abbreviation string
	Area         Area
}

var fielderLocationAttrs = map[FielderLocation]FielderLocationAttrs{
	Pitcher:     {Name: "pitcher", Abbreviation: "P", Area: Infield},
	Catcher:     {Name: "catcher", Abbreviation: "C", Area: Infield},
	FirstBase:   {Name: "first_base", Abbreviation: "1B", Area: Infield},
	SecondBase:  {Name: "second_base", Abbreviation: "2B", Area: Infield},
	ThirdBase:   {Name: "third_base", Abbreviation: "3B", Area: Infield},
	Shortstop:   {Name: "shortstop", Abbreviation: "SS", Area: Infield},
	LeftField:   {Name: "left_field", Abbreviation: "LF", Area: Outfield},
	CenterField: {Name: "center_field", Abbreviation: "CF", Area: Outfield},
	RightField:  {Name: "right_field", Abbreviation: "RF", Area: Outfield},
}

func (f FielderLocation) Attrs() FielderLocationAttrs {
	a, ok := fielderLocationAttrs[f]
	if !ok {
		panic("taxa: unregistered FielderLocation")
	}
	return a
}

func AllFielderLocations() []FielderLocation {
	out := make([]FielderLocation, 0, len(fielderLocationAttrs))
	for i := Pitcher; i <= RightField; i++ {
		out = append(out, i)
	}
	return out
}

// FielderLocationByAbbreviation resolves a scorekeeping abbreviation ("SS",
// "LF", ...) to its taxon, as produced by the parser from raw event text.
func FielderLocationByAbbreviation(abbr string) (FielderLocation, bool) {
	for loc, attrs := range fielderLocationAttrs {
		if attrs.Abbreviation == abbr {
			return loc, true
		}
	}
	return 0, false
}
