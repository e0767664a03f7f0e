package timetable

import "sort"

// DayClasses is one day's entry in the week view.
type DayClasses struct {
	Time    string `json:"time"`
	Subject string `json:"subject"`
	Teacher string `json:"teacher"`
	Room    string `json:"room"`
}

// WeekView maps lowercase day names to that day's class.
type WeekView map[string]DayClasses

var noClass = DayClasses{Time: "N/A", Subject: "No Class", Teacher: "N/A", Room: "N/A"}

// BuildWeekView derives the week grid: all five days start out as "No Class"
// and each slot overwrites its day's entry. When a day holds several slots
// (different rooms), the last one in (day, start) order wins; the grid is
// single-slot-per-day by construction.
func BuildWeekView(slots []TimeSlot) WeekView {
	view := make(WeekView, len(Days))
	for _, day := range Days {
		view[day.Key()] = noClass
	}
	for _, slot := range BuildFullList(slots) {
		view[slot.Day.Key()] = DayClasses{
			Time:    slot.Start.String() + " - " + slot.End.String(),
			Subject: slot.Subject,
			Teacher: slot.Teacher,
			Room:    slot.Room,
		}
	}
	return view
}

// BuildTeacherView returns the given teacher's slots ordered by (day, start).
func BuildTeacherView(slots []TimeSlot, teacherName string) []TimeSlot {
	matched := make([]TimeSlot, 0, len(slots))
	for _, slot := range slots {
		if slot.Teacher == teacherName {
			matched = append(matched, slot)
		}
	}
	return sortSlots(matched)
}

// BuildStudentView returns the slots for the given subject ordered by (day, start).
func BuildStudentView(slots []TimeSlot, subject string) []TimeSlot {
	matched := make([]TimeSlot, 0, len(slots))
	for _, slot := range slots {
		if slot.Subject == subject {
			matched = append(matched, slot)
		}
	}
	return sortSlots(matched)
}

// BuildFullList returns all slots ordered by (day, start).
func BuildFullList(slots []TimeSlot) []TimeSlot {
	all := make([]TimeSlot, len(slots))
	copy(all, slots)
	return sortSlots(all)
}

// sortSlots orders slots by day ordinal then start time, in place.
func sortSlots(slots []TimeSlot) []TimeSlot {
	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Day != slots[j].Day {
			return slots[i].Day < slots[j].Day
		}
		return slots[i].Start < slots[j].Start
	})
	return slots
}
