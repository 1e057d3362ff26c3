package osm2sidewalk

// Line helpers never modify their input: each returns a new slice.

// InsertPoint adds point at the beginning or at the end of line
func InsertPoint(line []Location, pt Location, atEnd bool) []Location {
	output := make([]Location, 0, len(line)+1)
	if !atEnd {
		output = append(output, pt)
	}
	output = append(output, line...)
	if atEnd {
		output = append(output, pt)
	}
	return output
}

// SetPoint replaces first or last point of line
func SetPoint(line []Location, pt Location, atEnd bool) []Location {
	output := copyLine(line)
	if len(output) == 0 {
		return output
	}
	if atEnd {
		output[len(output)-1] = pt
	} else {
		output[0] = pt
	}
	return output
}

// CutLine trims line at position (counted from 0).
// With fromBehind set points after position are dropped, otherwise points before position are dropped.
func CutLine(line []Location, position int, fromBehind bool) []Location {
	if position < 0 {
		position = 0
	}
	if position > len(line)-1 {
		position = len(line) - 1
	}
	if fromBehind {
		return copyLine(line[:position+1])
	}
	return copyLine(line[position:])
}

// Densify adds points to line so that no chord is longer than step (kilometers)
func Densify(line []Location, step float64) []Location {
	if step <= 0 || len(line) < 2 {
		return copyLine(line)
	}
	output := make([]Location, 0, len(line))
	for i := 1; i < len(line); i++ {
		output = append(output, line[i-1])
		output = append(output, Subdivide(line[i-1], line[i], step)...)
	}
	return append(output, line[len(line)-1])
}

// copyLine returns copy of given line
func copyLine(pts []Location) []Location {
	output := make([]Location, len(pts))
	copy(output, pts)
	return output
}
