package main

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VenusCh001/studytracker/core"
	"github.com/VenusCh001/studytracker/core/task"
	"github.com/VenusCh001/studytracker/core/user"
	"github.com/VenusCh001/studytracker/storage"
	inmemdb "github.com/VenusCh001/studytracker/storage/database/inmem"
	"github.com/VenusCh001/studytracker/tests"
)

const strongPwd = "Gr3en-Tea&Biscuits"

var conf = &core.Config{AppName: "StudyTracker", TestMode: true}

// recordingMailer keeps messages as handed over, rendered or not.
type recordingMailer struct {
	sent []core.EmailMessage
}

func (m *recordingMailer) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		m.sent = append(m.sent, *msg)
	}
}

var mailer *recordingMailer

func setup(t *testing.T) (*commandLine, *storage.Collections) {
	t.Helper()

	// set up DB & repos
	cols := storage.NewMemory(inmemdb.New())

	// set up services
	mailer = new(recordingMailer)

	// start CLI
	return &commandLine{
		usrRepo: cols.Users,
		usrSvc:  user.NewService(cols.Users, mailer, conf),
		taskSvc: task.NewService(cols.Tasks, mailer),
		runMigration: func(command string, args ...string) error {
			switch command {
			case "up", "up-by-one", "down", "redo", "reset", "status", "version": // pass
			case "up-to", "down-to":
				if len(args) == 0 {
					return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
				}
				if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
					return fmt.Errorf("version must be a number (got '%s')", args[0])
				}
			default:
				return fmt.Errorf("%q: no such command", command)
			}
			return nil
		},
	}, cols
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	pwd        string
}

func mockPassword(pwd string) {
	readPasswordFunc = func(fd int) ([]byte, error) {
		return []byte(pwd), nil
	}
}

func runCLITests(t *testing.T, cli *commandLine, tests []cliTest, check func(t *testing.T, tt cliTest)) {
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		mockPassword(tt.pwd)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantErrStr != "":
				assert.EqualError(t, err, tt.wantErrStr)
			default:
				require.NoError(t, err)
				if check != nil {
					check(t, tt)
				}
			}
		})
	}
}

func Test_commandLine_run(t *testing.T) {
	cli, _ := setup(t)

	runCLITests(t, cli, []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
	}, nil)
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t)

	runCLITests(t, cli, []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-by-one", args: []string{"migrate", "up-by-one"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
	}, nil)
}

func Test_commandLine_addUser(t *testing.T) {
	cli, cols := setup(t)
	ctx := context.Background()
	existing := testutil.CreateUser(t, cols.Users, "Old", "old", "old@test.io", strongPwd, false)

	runCLITests(t, cli, []cliTest{
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "no email", args: []string{"adduser", "-username", "neo"}, wantErr: errHelp},
		{name: "no password", args: []string{"adduser", "-username", "neo", "-email", "neo@test.io"}, wantErr: errHelp},
		{name: "new user", args: []string{"adduser", "-username", "Neo", "-email", "NEO@test.io", "-name", "Thomas"}, pwd: "hunter2"},
		{name: "existing user", args: []string{"adduser", "-username", "old", "-email", "old@test.io"}, pwd: "hunter3"},
	}, func(t *testing.T, tt cliTest) {
		usr, err := cli.usrSvc.Authenticate(ctx, tt.args[2], tt.pwd)
		require.NoError(t, err)
		assert.True(t, usr.IsActive)
	})

	usr, err := cli.usrSvc.GetByUsernameOrEmail(ctx, "neo@test.io")
	require.NoError(t, err)
	assert.Equal(t, "neo", usr.Username)
	assert.Equal(t, "Thomas", usr.Name)

	usr, err = cli.usrSvc.GetByID(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Old", usr.Name)
	n, err := cols.Users.Count(ctx, core.Unscoped())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, cols := setup(t)
	ctx := context.Background()
	usr := testutil.CreateUser(t, cols.Users, "User", "awe", "awe@test.cd", strongPwd, true)

	hashOf := func() []byte {
		acc, err := cols.Users.FindOne(ctx, core.Unscoped().ByID(usr.ID))
		require.NoError(t, err)
		return acc.PasswordHash
	}
	prevHash := hashOf()

	runCLITests(t, cli, []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "username but no password", args: []string{"resetpassword", "-username", "awe"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-username", "lol"}, pwd: strongPwd, wantErr: core.ErrNotFound},
		{name: "reset with username", args: []string{"resetpassword", "-username", usr.Username}, pwd: "Bl4ck-Coffee&Toast"},
		{name: "reset with email", args: []string{"resetpassword", "-username", usr.Email}, pwd: "R3d-Wine&Cheese!"},
	}, func(t *testing.T, tt cliTest) {
		hash := hashOf()
		assert.False(t, bytes.Equal(prevHash, hash), "password hash should have changed")
		prevHash = hash
	})

	t.Run("weak password", func(t *testing.T) {
		mockPassword("password")
		err := cli.run([]string{"admin", "resetpassword", "-username", usr.Username})
		var verr *core.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func Test_commandLine_sendReminders(t *testing.T) {
	cli, cols := setup(t)
	ctx := context.Background()
	usr := testutil.CreateUser(t, cols.Users, "Ada", "ada", "ada@test.io", strongPwd, true)
	testutil.CreateUser(t, cols.Users, "Idle", "idle", "idle@test.io", strongPwd, true)

	past, future := time.Now().Add(-time.Hour), time.Now().Add(48*time.Hour)
	_, err := cli.taskSvc.Create(ctx, usr.ID, task.NewTask{
		Title:     "Essay draft",
		DueDate:   &future,
		Reminders: []task.Reminder{{Date: past, Type: task.ReminderEmail}, {Date: future}},
	})
	require.NoError(t, err)

	require.NoError(t, cli.run([]string{"admin", "sendreminders"}))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, usr.Email, mailer.sent[0].To[0].Address)
	assert.Equal(t, "Reminder: Essay draft", mailer.sent[0].Subject)

	// already sent
	require.NoError(t, cli.run([]string{"admin", "sendreminders"}))
	assert.Len(t, mailer.sent, 1)
}
