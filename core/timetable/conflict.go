package timetable

// Overlaps reports whether two slots clash: same day, same room, and
// intersecting [Start, End) intervals. Touching intervals do not overlap.
func Overlaps(a, b TimeSlot) bool {
	return a.Day == b.Day && a.Room == b.Room && a.Start < b.End && b.Start < a.End
}

// CheckConflict reports whether the candidate overlaps any of the existing
// slots. It is an existence check: the scan stops at the first overlap.
func CheckConflict(candidate TimeSlot, existing []TimeSlot) bool {
	for _, slot := range existing {
		if Overlaps(candidate, slot) {
			return true
		}
	}
	return false
}
