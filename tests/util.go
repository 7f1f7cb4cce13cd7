package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/VenusCh001/studytracker/core/user"
)

// CreateUser inserts an account straight into repo, bypassing the registration policy.
func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, uname, email, pwd string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	acc := user.Account{User: user.User{
		ID:        uuid.NewString(),
		Name:      name,
		Username:  uname,
		Email:     email,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}}
	if pwd != "" {
		if err := acc.SetPassword(pwd); err != nil {
			t.Fatalf("createUser() failed: %v", err)
		}
	}
	acc, err := repo.Insert(context.Background(), acc)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return acc.User
}
