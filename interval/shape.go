package interval

// Shape describes how a query interval lies relative to a DB interval it
// overlaps.  The values are the single-letter codes written to match output.
type Shape byte

const (
	// Contained: the query lies within the DB interval.
	Contained Shape = 'B'
	// StartOverlap: the query starts inside the DB interval and runs past its
	// end.
	StartOverlap Shape = 'S'
	// EndOverlap: the query starts before the DB interval and ends inside it.
	EndOverlap Shape = 'E'
	// Containing: the query covers the DB interval on both sides.
	Containing Shape = 'C'
)

func (s Shape) String() string {
	switch s {
	case Contained:
		return "Contained"
	case StartOverlap:
		return "StartOverlap"
	case EndOverlap:
		return "EndOverlap"
	case Containing:
		return "Containing"
	}
	return "Unknown"
}

// Overlaps reports whether the closed intervals [dbStart, dbEnd] and
// [qStart, qEnd] share at least one position.  The test is applied as is to
// inverted intervals.
func Overlaps(dbStart, dbEnd, qStart, qEnd PosType) bool {
	return !(dbEnd < qStart || dbStart > qEnd)
}

// Classify returns the shape of the overlap between a DB interval and a query
// interval on the same chromosome, or false if they do not overlap.
func Classify(dbStart, dbEnd, qStart, qEnd PosType) (Shape, bool) {
	if !Overlaps(dbStart, dbEnd, qStart, qEnd) {
		return 0, false
	}
	startsAfterOrAt := qStart >= dbStart
	endsBeforeOrAt := qEnd <= dbEnd
	switch {
	case startsAfterOrAt && endsBeforeOrAt:
		return Contained, true
	case startsAfterOrAt:
		return StartOverlap, true
	case endsBeforeOrAt:
		return EndOverlap, true
	}
	return Containing, true
}
