package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core/timetable"
)

type timeSlotRow struct {
	ID        string    `db:"id"`
	Day       int       `db:"day"`
	StartMin  int       `db:"start_min"`
	EndMin    int       `db:"end_min"`
	Subject   string    `db:"subject"`
	Teacher   string    `db:"teacher"`
	Room      string    `db:"room"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r timeSlotRow) slot() timetable.TimeSlot {
	return timetable.TimeSlot{
		ID:        r.ID,
		Day:       timetable.Day(r.Day),
		Start:     timetable.Clock(r.StartMin),
		End:       timetable.Clock(r.EndMin),
		Subject:   r.Subject,
		Teacher:   r.Teacher,
		Room:      r.Room,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

type timeSlotRepository struct {
	db *sqlx.DB
}

var _ timetable.Repository = (*timeSlotRepository)(nil) // interface compliance check

func NewTimeSlotRepository(db *sql.DB) *timeSlotRepository {
	return &timeSlotRepository{db: sqlx.NewDb(db, "postgres")}
}

func (repo timeSlotRepository) CreateSlot(ctx context.Context, slot timetable.TimeSlot) (timetable.TimeSlot, error) {
	slot.ID = uuid.New().String()

	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO time_slot (id, day, start_min, end_min, subject, teacher, room, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		slot.ID, int(slot.Day), int(slot.Start), int(slot.End),
		slot.Subject, slot.Teacher, slot.Room, slot.CreatedAt, slot.UpdatedAt,
	)
	if err != nil {
		return timetable.TimeSlot{}, repo.trapConflictErr(err, "inserting time slot")
	}
	return slot, nil
}

func (repo timeSlotRepository) QueryAllSlots(ctx context.Context) ([]timetable.TimeSlot, error) {
	var rows []timeSlotRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM time_slot ORDER BY day, start_min`)
	if err != nil {
		return nil, errors.Wrap(err, "querying time slots")
	}
	return repo.slots(rows), nil
}

func (repo timeSlotRepository) GetSlotByID(ctx context.Context, id string) (timetable.TimeSlot, error) {
	var row timeSlotRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM time_slot WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return timetable.TimeSlot{}, timetable.ErrNotFound
		}
		return timetable.TimeSlot{}, errors.Wrap(err, "getting time slot by id")
	}
	return row.slot(), nil
}

func (repo timeSlotRepository) FindSlotsByDayAndRoom(ctx context.Context, day timetable.Day, room string) ([]timetable.TimeSlot, error) {
	var rows []timeSlotRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM time_slot WHERE day = $1 AND room = $2 ORDER BY start_min`, int(day), room)
	if err != nil {
		return nil, errors.Wrap(err, "finding time slots by day and room")
	}
	return repo.slots(rows), nil
}

func (repo timeSlotRepository) UpdateSlot(ctx context.Context, slot timetable.TimeSlot) (timetable.TimeSlot, error) {
	var row timeSlotRow
	err := repo.db.GetContext(ctx, &row,
		`UPDATE time_slot
		 SET day = $2, start_min = $3, end_min = $4, subject = $5, teacher = $6, room = $7, updated_at = $8
		 WHERE id = $1
		 RETURNING *`,
		slot.ID, int(slot.Day), int(slot.Start), int(slot.End),
		slot.Subject, slot.Teacher, slot.Room, slot.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return timetable.TimeSlot{}, timetable.ErrNotFound
		}
		return timetable.TimeSlot{}, repo.trapConflictErr(err, "updating time slot")
	}
	return row.slot(), nil
}

func (repo timeSlotRepository) DeleteSlotsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM time_slot WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "expanding time slot ids")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting time slots")
	}
	return nil
}

func (repo timeSlotRepository) slots(rows []timeSlotRow) []timetable.TimeSlot {
	slots := make([]timetable.TimeSlot, 0, len(rows))
	for _, r := range rows {
		slots = append(slots, r.slot())
	}
	return slots
}

// trapConflictErr maps a violation of the room overlap exclusion constraint
// to timetable.ErrSlotConflict.
func (repo timeSlotRepository) trapConflictErr(err error, msg string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23P01" {
		return timetable.ErrSlotConflict
	}
	return errors.Wrap(err, msg)
}
