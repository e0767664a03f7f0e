package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/ratiba/core/timetable"
)

type timeSlotRepository struct {
	db *timeSlotTable
}

var _ timetable.Repository = (*timeSlotRepository)(nil) // interface compliance check

func NewTimeSlotRepository(db *DB) *timeSlotRepository {
	return &timeSlotRepository{db: db.timeSlot}
}

func (repo *timeSlotRepository) query() []timetable.TimeSlot {
	slots := make([]timetable.TimeSlot, 0, len(repo.db.table))
	for _, slot := range repo.db.table {
		slots = append(slots, *slot)
	}
	return timetable.BuildFullList(slots)
}

func (repo *timeSlotRepository) CreateSlot(ctx context.Context, slot timetable.TimeSlot) (timetable.TimeSlot, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, existing := range repo.db.table {
		if timetable.Overlaps(slot, *existing) {
			return timetable.TimeSlot{}, timetable.ErrSlotConflict
		}
	}

	slot.ID = uuid.New().String()
	repo.db.table[slot.ID] = &slot
	return slot, nil
}

func (repo *timeSlotRepository) QueryAllSlots(ctx context.Context) ([]timetable.TimeSlot, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *timeSlotRepository) GetSlotByID(ctx context.Context, id string) (timetable.TimeSlot, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if slot, ok := repo.db.table[id]; ok {
		return *slot, nil
	}
	return timetable.TimeSlot{}, timetable.ErrNotFound
}

func (repo *timeSlotRepository) FindSlotsByDayAndRoom(ctx context.Context, day timetable.Day, room string) ([]timetable.TimeSlot, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var slots []timetable.TimeSlot
	for _, slot := range repo.query() {
		if slot.Day == day && slot.Room == room {
			slots = append(slots, slot)
		}
	}
	return slots, nil
}

func (repo *timeSlotRepository) UpdateSlot(ctx context.Context, slot timetable.TimeSlot) (timetable.TimeSlot, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[slot.ID]
	if !ok {
		return timetable.TimeSlot{}, timetable.ErrNotFound
	}
	for _, existing := range repo.db.table {
		if existing.ID != slot.ID && timetable.Overlaps(slot, *existing) {
			return timetable.TimeSlot{}, timetable.ErrSlotConflict
		}
	}

	slot.CreatedAt = orig.CreatedAt
	repo.db.table[slot.ID] = &slot
	return slot, nil
}

func (repo *timeSlotRepository) DeleteSlotsByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
