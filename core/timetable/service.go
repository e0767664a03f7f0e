package timetable

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
)

var (
	// errors
	ErrNotFound     = errors.New("time slot not found")
	ErrSlotConflict = errors.New("time slot conflicts with existing schedule")

	errEndBeforeStart = errors.New("end time must be after start time")
	errNoSubject      = errors.New("no subject assigned to user")
)

type (
	Repository interface {
		CreateSlot(ctx context.Context, slot TimeSlot) (TimeSlot, error)
		QueryAllSlots(ctx context.Context) ([]TimeSlot, error)
		GetSlotByID(ctx context.Context, id string) (TimeSlot, error)
		FindSlotsByDayAndRoom(ctx context.Context, day Day, room string) ([]TimeSlot, error)
		UpdateSlot(ctx context.Context, slot TimeSlot) (TimeSlot, error)
		DeleteSlotsByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		Create(ctx context.Context, ns NewSlot) (TimeSlot, error)
		Update(ctx context.Context, orig TimeSlot, us UpdateSlot) (TimeSlot, error)
		Delete(ctx context.Context, ids ...string) error
		GetByID(ctx context.Context, id string) (TimeSlot, error)
		QueryAll(ctx context.Context) ([]TimeSlot, error)
		WeekView(ctx context.Context) (WeekView, error)
		TeacherSchedule(ctx context.Context, teacherName string) ([]TimeSlot, error)
		StudentSchedule(ctx context.Context, subject string) ([]TimeSlot, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Create persists a validated slot after checking it against the slots
// already booked for its day and room. The check is advisory against current
// state; the storage layer enforces the same invariant so that two
// concurrent creations cannot both slip through (see storage migrations).
func (svc *service) Create(ctx context.Context, ns NewSlot) (TimeSlot, error) {
	slot := ns.Slot()

	existing, err := svc.repo.FindSlotsByDayAndRoom(ctx, slot.Day, slot.Room)
	if err != nil {
		return TimeSlot{}, errors.Wrap(err, "finding slots by day and room")
	}
	if CheckConflict(slot, existing) {
		return TimeSlot{}, conflictError()
	}

	now := time.Now().UTC()
	slot.CreatedAt = now
	slot.UpdatedAt = now

	created, err := svc.repo.CreateSlot(ctx, slot)
	if err != nil {
		if errors.Cause(err) == ErrSlotConflict {
			return TimeSlot{}, conflictError()
		}
		return TimeSlot{}, err
	}
	return created, nil
}

func (svc *service) Update(ctx context.Context, orig TimeSlot, us UpdateSlot) (TimeSlot, error) {
	slot := us.Slot()

	existing, err := svc.repo.FindSlotsByDayAndRoom(ctx, slot.Day, slot.Room)
	if err != nil {
		return TimeSlot{}, errors.Wrap(err, "finding slots by day and room")
	}
	others := existing[:0]
	for _, s := range existing {
		if s.ID != orig.ID {
			others = append(others, s)
		}
	}
	if CheckConflict(slot, others) {
		return TimeSlot{}, conflictError()
	}

	slot.UpdatedAt = time.Now().UTC()
	updated, err := svc.repo.UpdateSlot(ctx, slot)
	if err != nil {
		if errors.Cause(err) == ErrSlotConflict {
			return TimeSlot{}, conflictError()
		}
		return TimeSlot{}, err
	}
	return updated, nil
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteSlotsByID(ctx, ids...)
}

func (svc *service) GetByID(ctx context.Context, id string) (TimeSlot, error) {
	return svc.repo.GetSlotByID(ctx, id)
}

func (svc *service) QueryAll(ctx context.Context) ([]TimeSlot, error) {
	slots, err := svc.repo.QueryAllSlots(ctx)
	if err != nil {
		return nil, err
	}
	return BuildFullList(slots), nil
}

func (svc *service) WeekView(ctx context.Context) (WeekView, error) {
	slots, err := svc.repo.QueryAllSlots(ctx)
	if err != nil {
		return nil, err
	}
	return BuildWeekView(slots), nil
}

func (svc *service) TeacherSchedule(ctx context.Context, teacherName string) ([]TimeSlot, error) {
	slots, err := svc.repo.QueryAllSlots(ctx)
	if err != nil {
		return nil, err
	}
	return BuildTeacherView(slots, teacherName), nil
}

func (svc *service) StudentSchedule(ctx context.Context, subject string) ([]TimeSlot, error) {
	if subject == "" {
		return nil, core.NewValidationError(errNoSubject)
	}
	slots, err := svc.repo.QueryAllSlots(ctx)
	if err != nil {
		return nil, err
	}
	return BuildStudentView(slots, subject), nil
}

func conflictError() error {
	return core.NewValidationError(
		ErrSlotConflict,
		core.FieldError{Field: "room", Error: ErrSlotConflict.Error()},
	)
}
