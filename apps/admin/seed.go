package main

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core/timetable"
	"github.com/trezcool/ratiba/core/user"
)

type seedUser struct {
	name    string
	email   string
	role    user.Role
	subject string
}

var (
	seedUsers = []seedUser{
		{name: "Admin", email: "admin@ratiba.cd", role: user.RoleAdmin},
		{name: "John Smith", email: "jsmith@ratiba.cd", role: user.RoleTeacher, subject: "Mathematics"},
		{name: "Jane Doe", email: "jdoe@ratiba.cd", role: user.RoleTeacher, subject: "Physics"},
		{name: "Bob Wilson", email: "bwilson@ratiba.cd", role: user.RoleTeacher, subject: "Computer Science"},
		{name: "Alice Brown", email: "abrown@ratiba.cd", role: user.RoleStudent, subject: "Mathematics"},
		{name: "Carol White", email: "cwhite@ratiba.cd", role: user.RoleStudent, subject: "Physics"},
	}
	seedPassword = "ChangeMe!123"

	seedSlots = []timetable.TimeSlot{
		{Day: timetable.Monday, Start: 540, End: 630, Subject: "Mathematics", Teacher: "John Smith", Room: "Room 101"},
		{Day: timetable.Tuesday, Start: 540, End: 630, Subject: "Physics", Teacher: "Jane Doe", Room: "Room 102"},
		{Day: timetable.Wednesday, Start: 540, End: 630, Subject: "Computer Science", Teacher: "Bob Wilson", Room: "Room 103"},
		{Day: timetable.Thursday, Start: 660, End: 750, Subject: "Mathematics", Teacher: "John Smith", Room: "Room 101"},
		{Day: timetable.Friday, Start: 540, End: 630, Subject: "Physics", Teacher: "Jane Doe", Room: "Room 102"},
	}
)

// seed loads the demo users and the demo week. Existing users and a
// non-empty timetable are left untouched.
func (cli *commandLine) seed() error {
	ctx := context.Background()
	now := time.Now().UTC()

	for _, su := range seedUsers {
		if _, err := cli.usrRepo.GetUserByEmail(ctx, su.email); err == nil {
			continue
		} else if errors.Cause(err) != user.ErrNotFound {
			return err
		}

		usr := user.User{
			Name:      su.name,
			Email:     su.email,
			Role:      su.role,
			Subject:   su.subject,
			CreatedAt: now,
			UpdatedAt: now,
		}
		usr.SetActive(true)
		if err := usr.SetPassword(seedPassword); err != nil {
			return err
		}
		if _, err := cli.usrRepo.CreateUser(ctx, usr); err != nil {
			return err
		}
		logger.Printf("created %s (%s)", su.email, su.role)
	}

	existing, err := cli.slotRepo.QueryAllSlots(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Print("timetable not empty, skipping slot seeding")
		return nil
	}

	for _, slot := range seedSlots {
		slot.CreatedAt = now
		slot.UpdatedAt = now
		if _, err := cli.slotRepo.CreateSlot(ctx, slot); err != nil {
			return err
		}
		logger.Printf("created %s %s slot (%s)", slot.Day, slot.Subject, slot.Room)
	}
	return nil
}
