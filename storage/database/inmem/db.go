package inmemdb

import (
	"sync"

	"github.com/trezcool/ratiba/core/timetable"
	"github.com/trezcool/ratiba/core/user"
)

type (
	DB struct {
		user     *userTable
		timeSlot *timeSlotTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	timeSlotTable struct {
		sync.RWMutex
		table map[string]*timetable.TimeSlot
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:     &userTable{table: make(map[string]*user.User)},
		timeSlot: &timeSlotTable{table: make(map[string]*timetable.TimeSlot)},
	}
	return db, nil
}
