package main

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/VenusCh001/studytracker/core"
	"github.com/VenusCh001/studytracker/core/user"
)

// addUser creates an active user, or reactivates the one owning the username and sets its password.
func (cli *commandLine) addUser(name, uname, email, pwd string) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)
	now := time.Now().UTC()

	acc, err := cli.usrRepo.FindOne(ctx, core.Unscoped().Where("username", core.OpEq, uname))
	exists := err == nil
	if err != nil {
		if !core.IsNotFound(err) {
			return err
		}
		acc = user.Account{User: user.User{
			ID:        uuid.NewString(),
			Username:  uname,
			Email:     email,
			CreatedAt: now,
		}}
	}
	if name != "" {
		acc.Name = core.CleanString(name)
	}
	acc.IsActive = true
	acc.UpdatedAt = now
	if err := acc.SetPassword(pwd); err != nil {
		return err
	}

	if exists {
		_, err = cli.usrRepo.Replace(ctx, core.Unscoped().ByID(acc.ID), acc)
	} else {
		_, err = cli.usrRepo.Insert(ctx, acc)
	}
	return err
}
