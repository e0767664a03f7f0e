package sqlxrepos

import (
	"database/sql"
	"testing"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core/timetable"
	"github.com/trezcool/ratiba/core/user"
)

func TestUserRepository_trapUniqueErr(t *testing.T) {
	repo := userRepository{}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "unique violation", err: &pq.Error{Code: "23505"}, want: user.ErrEmailExists},
		{name: "wrapped unique violation", err: errors.Wrap(&pq.Error{Code: "23505"}, "inserting user"), want: user.ErrEmailExists},
		{name: "other pq error", err: &pq.Error{Code: "42601"}},
		{name: "other error", err: sql.ErrConnDone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repo.trapUniqueErr(tt.err, "oops")
			if tt.want != nil {
				if got != tt.want {
					t.Errorf("trapUniqueErr() = %v, want %v", got, tt.want)
				}
			} else if errors.Cause(got) != errors.Cause(tt.err) {
				t.Errorf("trapUniqueErr() = %v, want wrapped %v", got, tt.err)
			}
		})
	}
}

func TestTimeSlotRepository_trapConflictErr(t *testing.T) {
	repo := timeSlotRepository{}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "exclusion violation", err: &pq.Error{Code: "23P01"}, want: timetable.ErrSlotConflict},
		{name: "wrapped exclusion violation", err: errors.Wrap(&pq.Error{Code: "23P01"}, "inserting time slot"), want: timetable.ErrSlotConflict},
		{name: "other pq error", err: &pq.Error{Code: "23505"}},
		{name: "other error", err: sql.ErrConnDone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repo.trapConflictErr(tt.err, "oops")
			if tt.want != nil {
				if got != tt.want {
					t.Errorf("trapConflictErr() = %v, want %v", got, tt.want)
				}
			} else if errors.Cause(got) != errors.Cause(tt.err) {
				t.Errorf("trapConflictErr() = %v, want wrapped %v", got, tt.err)
			}
		})
	}
}
