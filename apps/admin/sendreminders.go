package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// sendReminders dispatches the due reminders of every active user.
func (cli *commandLine) sendReminders() error {
	ctx := context.Background()
	users, err := cli.usrSvc.QueryActive(ctx)
	if err != nil {
		return errors.Wrap(err, "querying active users")
	}

	var total int
	for _, usr := range users {
		n, err := cli.taskSvc.DispatchReminders(ctx, usr.ID, usr.Address())
		if err != nil {
			return errors.Wrapf(err, "dispatching reminders of %s", usr.Username)
		}
		total += n
	}
	fmt.Printf("sent %d reminder(s) to %d user(s)\n", total, len(users))
	return nil
}
