package timetable

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/ratiba/core"
)

// Day is a school day, Monday through Friday. The zero value is Monday;
// the ordinal doubles as the sort key for schedule views.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
)

var dayNames = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// Days lists all school days in week order.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday}

func ParseDay(s string) (Day, error) {
	for i, name := range dayNames {
		if strings.EqualFold(s, name) {
			return Day(i), nil
		}
	}
	return 0, fmt.Errorf("invalid day %q", s)
}

func (d Day) Valid() bool {
	return d >= Monday && d <= Friday
}

func (d Day) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return dayNames[d]
}

// Key is the lowercase day name used as week view key.
func (d Day) Key() string {
	return strings.ToLower(d.String())
}

func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Day) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	day, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = day
	return nil
}

// Clock is a wall-clock time normalized to minutes since midnight.
// Comparisons are numeric; "HH:MM" conversion happens only at the boundary.
type Clock int

var clockRegex = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

func ParseClock(s string) (Clock, error) {
	if !clockRegex.MatchString(s) {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	parts := strings.SplitN(s, ":", 2)
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	return Clock(h*60 + m), nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Clock) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	clock, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = clock
	return nil
}

// TimeSlot is one scheduled class occurrence. The [Start, End) interval is
// half-open: back-to-back slots in the same room do not conflict.
type TimeSlot struct {
	ID        string    `json:"id"`
	Day       Day       `json:"day"`
	Start     Clock     `json:"start_time"`
	End       Clock     `json:"end_time"`
	Subject   string    `json:"subject"`
	Teacher   string    `json:"teacher"`
	Room      string    `json:"room"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewSlot contains information needed to create a new TimeSlot.
type NewSlot struct {
	Day       string `json:"day" validate:"required,weekday"`
	StartTime string `json:"start_time" validate:"required,clock"`
	EndTime   string `json:"end_time" validate:"required,clock"`
	Subject   string `json:"subject" validate:"required"`
	Teacher   string `json:"teacher" validate:"required"`
	Room      string `json:"room" validate:"required"`

	day        Day
	start, end Clock
}

func (ns *NewSlot) Validate(validate *validator.Validate) error {
	ns.Subject = core.CleanString(ns.Subject)
	ns.Teacher = core.CleanString(ns.Teacher)
	ns.Room = core.CleanString(ns.Room)

	if err := validate.Struct(ns); err != nil {
		return err
	}

	// tags passed; parsing cannot fail now
	ns.day, _ = ParseDay(ns.Day)
	ns.start, _ = ParseClock(ns.StartTime)
	ns.end, _ = ParseClock(ns.EndTime)
	return validateWindow(ns.start, ns.end)
}

// Slot converts validated input into a TimeSlot. Validate must have been called.
func (ns NewSlot) Slot() TimeSlot {
	return TimeSlot{
		Day:     ns.day,
		Start:   ns.start,
		End:     ns.end,
		Subject: ns.Subject,
		Teacher: ns.Teacher,
		Room:    ns.Room,
	}
}

// UpdateSlot defines what information may be provided to modify an existing
// TimeSlot; empty fields keep the stored value.
type UpdateSlot struct {
	Day       string `json:"day" validate:"omitempty,weekday"`
	StartTime string `json:"start_time" validate:"omitempty,clock"`
	EndTime   string `json:"end_time" validate:"omitempty,clock"`
	Subject   string `json:"subject"`
	Teacher   string `json:"teacher"`
	Room      string `json:"room"`

	merged TimeSlot
}

func (us *UpdateSlot) Validate(orig TimeSlot, validate *validator.Validate) error {
	us.Subject = core.CleanString(us.Subject)
	us.Teacher = core.CleanString(us.Teacher)
	us.Room = core.CleanString(us.Room)

	if err := validate.Struct(us); err != nil {
		return err
	}

	us.merged = orig
	if us.Day != "" {
		us.merged.Day, _ = ParseDay(us.Day)
	}
	if us.StartTime != "" {
		us.merged.Start, _ = ParseClock(us.StartTime)
	}
	if us.EndTime != "" {
		us.merged.End, _ = ParseClock(us.EndTime)
	}
	if us.Subject != "" {
		us.merged.Subject = us.Subject
	}
	if us.Teacher != "" {
		us.merged.Teacher = us.Teacher
	}
	if us.Room != "" {
		us.merged.Room = us.Room
	}
	return validateWindow(us.merged.Start, us.merged.End)
}

// Slot returns the stored slot with validated updates applied.
// Validate must have been called.
func (us UpdateSlot) Slot() TimeSlot {
	return us.merged
}

func validateWindow(start, end Clock) error {
	if start >= end {
		return core.NewValidationError(
			errEndBeforeStart,
			core.FieldError{Field: "end_time", Error: errEndBeforeStart.Error()},
		)
	}
	return nil
}
