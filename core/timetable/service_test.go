package timetable_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/timetable"
	inmemdb "github.com/trezcool/ratiba/storage/database/inmem"
)

func newTestService(t *testing.T) (timetable.Service, *validator.Validate) {
	t.Helper()

	db, err := inmemdb.Open()
	require.NoError(t, err)

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	timetable.InitValidators(validate, translator)

	return timetable.NewService(inmemdb.NewTimeSlotRepository(db)), validate
}

func newSlot(t *testing.T, validate *validator.Validate, day, start, end, subject, teacher, room string) timetable.NewSlot {
	t.Helper()
	ns := timetable.NewSlot{
		Day:       day,
		StartTime: start,
		EndTime:   end,
		Subject:   subject,
		Teacher:   teacher,
		Room:      room,
	}
	require.NoError(t, ns.Validate(validate))
	return ns
}

func TestService_Create(t *testing.T) {
	svc, validate := newTestService(t)
	ctx := context.Background()

	slot, err := svc.Create(ctx, newSlot(t, validate, "Monday", "09:00", "10:30", "Mathematics", "John Smith", "Room 101"))
	require.NoError(t, err)
	assert.NotEmpty(t, slot.ID)
	assert.Equal(t, timetable.Monday, slot.Day)
	assert.Equal(t, timetable.Clock(540), slot.Start)
	assert.Equal(t, timetable.Clock(630), slot.End)
	assert.False(t, slot.CreatedAt.IsZero())

	t.Run("overlap in same room conflicts", func(t *testing.T) {
		_, err := svc.Create(ctx, newSlot(t, validate, "Monday", "10:00", "11:00", "Art", "Sue Ray", "Room 101"))
		require.Error(t, err)
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "room", vErr.Fields[0].Field)
	})

	t.Run("same time other room is fine", func(t *testing.T) {
		_, err := svc.Create(ctx, newSlot(t, validate, "Monday", "09:00", "10:30", "Art", "Sue Ray", "Room 102"))
		assert.NoError(t, err)
	})

	t.Run("same room other day is fine", func(t *testing.T) {
		_, err := svc.Create(ctx, newSlot(t, validate, "Tuesday", "09:00", "10:30", "Mathematics", "John Smith", "Room 101"))
		assert.NoError(t, err)
	})

	t.Run("touching boundaries do not conflict", func(t *testing.T) {
		_, err := svc.Create(ctx, newSlot(t, validate, "Monday", "10:30", "11:30", "History", "Max Payne", "Room 101"))
		assert.NoError(t, err)
	})
}

func TestService_Update(t *testing.T) {
	svc, validate := newTestService(t)
	ctx := context.Background()

	math, err := svc.Create(ctx, newSlot(t, validate, "Monday", "09:00", "10:30", "Mathematics", "John Smith", "Room 101"))
	require.NoError(t, err)
	physics, err := svc.Create(ctx, newSlot(t, validate, "Monday", "11:00", "12:30", "Physics", "Jane Doe", "Room 101"))
	require.NoError(t, err)

	t.Run("no self conflict", func(t *testing.T) {
		us := timetable.UpdateSlot{Subject: "Advanced Mathematics"}
		require.NoError(t, us.Validate(math, validate))

		updated, err := svc.Update(ctx, math, us)
		require.NoError(t, err)
		assert.Equal(t, math.ID, updated.ID)
		assert.Equal(t, "Advanced Mathematics", updated.Subject)
		assert.Equal(t, math.Start, updated.Start)
	})

	t.Run("moving onto another slot conflicts", func(t *testing.T) {
		us := timetable.UpdateSlot{StartTime: "10:00", EndTime: "11:30"}
		require.NoError(t, us.Validate(physics, validate))

		_, err := svc.Update(ctx, physics, us)
		require.Error(t, err)
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "room", vErr.Fields[0].Field)
	})
}

func TestService_views(t *testing.T) {
	svc, validate := newTestService(t)
	ctx := context.Background()

	// create out of order on purpose
	thu, err := svc.Create(ctx, newSlot(t, validate, "Thursday", "11:00", "12:30", "Mathematics", "John Smith", "Room 101"))
	require.NoError(t, err)
	mon, err := svc.Create(ctx, newSlot(t, validate, "Monday", "09:00", "10:30", "Mathematics", "John Smith", "Room 101"))
	require.NoError(t, err)
	tue, err := svc.Create(ctx, newSlot(t, validate, "Tuesday", "09:00", "10:30", "Physics", "Jane Doe", "Room 102"))
	require.NoError(t, err)

	t.Run("QueryAll is ordered by day then start", func(t *testing.T) {
		slots, err := svc.QueryAll(ctx)
		require.NoError(t, err)
		require.Len(t, slots, 3)
		assert.Equal(t, []string{mon.ID, tue.ID, thu.ID}, []string{slots[0].ID, slots[1].ID, slots[2].ID})
	})

	t.Run("WeekView fills empty days", func(t *testing.T) {
		view, err := svc.WeekView(ctx)
		require.NoError(t, err)
		assert.Equal(t, "09:00 - 10:30", view["monday"].Time)
		assert.Equal(t, "No Class", view["wednesday"].Subject)
		assert.Equal(t, "No Class", view["friday"].Subject)
	})

	t.Run("TeacherSchedule", func(t *testing.T) {
		slots, err := svc.TeacherSchedule(ctx, "John Smith")
		require.NoError(t, err)
		require.Len(t, slots, 2)
		assert.Equal(t, mon.ID, slots[0].ID)
		assert.Equal(t, thu.ID, slots[1].ID)
	})

	t.Run("StudentSchedule", func(t *testing.T) {
		slots, err := svc.StudentSchedule(ctx, "Physics")
		require.NoError(t, err)
		require.Len(t, slots, 1)
		assert.Equal(t, tue.ID, slots[0].ID)
	})

	t.Run("StudentSchedule without subject", func(t *testing.T) {
		_, err := svc.StudentSchedule(ctx, "")
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
	})
}
