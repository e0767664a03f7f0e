package timetable

import "testing"

func slot(day Day, start, end string, room string) TimeSlot {
	s, _ := ParseClock(start)
	e, _ := ParseClock(end)
	return TimeSlot{Day: day, Start: s, End: e, Subject: "Mathematics", Teacher: "John Smith", Room: room}
}

func TestOverlaps(t *testing.T) {
	booked := slot(Monday, "09:00", "10:30", "Room 101")

	tests := []struct {
		name      string
		candidate TimeSlot
		want      bool
	}{
		{name: "overlapping interval", candidate: slot(Monday, "10:00", "11:00", "Room 101"), want: true},
		{name: "equal interval", candidate: slot(Monday, "09:00", "10:30", "Room 101"), want: true},
		{name: "contained interval", candidate: slot(Monday, "09:30", "10:00", "Room 101"), want: true},
		{name: "containing interval", candidate: slot(Monday, "08:00", "12:00", "Room 101"), want: true},
		{name: "overlapping start", candidate: slot(Monday, "08:00", "09:01", "Room 101"), want: true},
		{name: "touching after does not conflict", candidate: slot(Monday, "10:30", "11:30", "Room 101"), want: false},
		{name: "touching before does not conflict", candidate: slot(Monday, "08:00", "09:00", "Room 101"), want: false},
		{name: "disjoint interval", candidate: slot(Monday, "11:00", "12:00", "Room 101"), want: false},
		{name: "different room", candidate: slot(Monday, "09:00", "10:30", "Room 102"), want: false},
		{name: "different day", candidate: slot(Tuesday, "09:00", "10:30", "Room 101"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.candidate, booked); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			// symmetric
			if got := Overlaps(booked, tt.candidate); got != tt.want {
				t.Errorf("Overlaps() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckConflict(t *testing.T) {
	existing := []TimeSlot{
		slot(Monday, "09:00", "10:30", "Room 101"),
		slot(Monday, "11:00", "12:30", "Room 101"),
		slot(Tuesday, "09:00", "10:30", "Room 102"),
	}

	tests := []struct {
		name      string
		candidate TimeSlot
		want      bool
	}{
		{name: "clashes with first", candidate: slot(Monday, "10:00", "11:00", "Room 101"), want: true},
		{name: "clashes with second", candidate: slot(Monday, "12:00", "13:00", "Room 101"), want: true},
		{name: "fits between", candidate: slot(Monday, "10:30", "11:00", "Room 101"), want: false},
		{name: "free room", candidate: slot(Monday, "09:00", "17:00", "Room 103"), want: false},
		{name: "free day", candidate: slot(Friday, "09:00", "10:30", "Room 101"), want: false},
		{name: "no existing slots", candidate: slot(Monday, "09:00", "10:30", "Room 101"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := existing
			if tt.name == "no existing slots" {
				slots = nil
			}
			if got := CheckConflict(tt.candidate, slots); got != tt.want {
				t.Errorf("CheckConflict() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    Clock
		wantErr bool
	}{
		{in: "09:00", want: 540},
		{in: "9:00", want: 540},
		{in: "00:00", want: 0},
		{in: "23:59", want: 23*60 + 59},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseClock(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseDay(t *testing.T) {
	for i, name := range dayNames {
		day, err := ParseDay(name)
		if err != nil {
			t.Fatalf("ParseDay(%q): %v", name, err)
		}
		if int(day) != i {
			t.Errorf("ParseDay(%q) = %d, want %d", name, day, i)
		}
	}
	if _, err := ParseDay("Saturday"); err == nil {
		t.Error("ParseDay(Saturday) expected error")
	}
	if day, err := ParseDay("monday"); err != nil || day != Monday {
		t.Errorf("ParseDay(monday) = %v, %v; want Monday", day, err)
	}
}
