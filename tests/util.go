package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/timetable"
	"github.com/trezcool/ratiba/core/user"
)

func NewTestConfig() *core.Config {
	conf := core.NewConfig()
	conf.Env = "TEST"
	conf.TestMode = true
	conf.Debug = false
	return conf
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd string,
	role user.Role,
	subject string,
	isActive bool,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	usr := user.User{
		Name:      name,
		Email:     email,
		Role:      role,
		Subject:   subject,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	usr.SetActive(isActive)
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateSlot(
	t *testing.T,
	repo timetable.Repository,
	day timetable.Day,
	start, end timetable.Clock,
	subject, teacher, room string,
) timetable.TimeSlot {
	t.Helper()

	tstamp := time.Now().UTC()
	slot := timetable.TimeSlot{
		Day:       day,
		Start:     start,
		End:       end,
		Subject:   subject,
		Teacher:   teacher,
		Room:      room,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	slot, err := repo.CreateSlot(context.Background(), slot)
	if err != nil {
		t.Fatalf("CreateSlot() failed: %v", err)
	}
	return slot
}
