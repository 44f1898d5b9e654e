package taxa

// FieldingErrorType distinguishes how a fielding error occurred.
type FieldingErrorType int

const (
	Fielding FieldingErrorType = iota + 1
	Throwing
)

var fieldingErrorTypeNames = map[FieldingErrorType]string{
	Fielding: "fielding",
	Throwing: "throwing",
}

func (f FieldingErrorType) Name() string {
	n, ok := fieldingErrorTypeNames[f]
	if !ok {
		panic("taxa: unregistered FieldingErrorType")
	}
	return n
}

func AllFieldingErrorTypes() []FieldingErrorType {
	return []FieldingErrorType{Fielding, Throwing}
}
