package main

import (
	"context"
)

func (cli *commandLine) resetPassword(login, pwd string) error {
	return cli.usrSvc.SetPassword(context.Background(), login, pwd)
}
