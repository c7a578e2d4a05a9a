package main

import (
	"github.com/surveyops/respops/core"
)

func (cli *commandLine) resetPassword(uname, pwd string) error {
	usr, err := cli.usrRepo.GetUserByUsernameOrEmail(core.CleanString(uname, true /* lower */))
	if err != nil {
		return err
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	usr.UpdatedAt = cli.clock.Now()
	_, err = cli.usrRepo.UpdateUser(usr, nil)
	return err
}
