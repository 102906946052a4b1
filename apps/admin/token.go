package main

import (
	"fmt"

	"github.com/pkg/errors"

	echoapi "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core/user"
)

var errInvalidRole = errors.New("invalid role")

func (cli *commandLine) token(usr user.User) error {
	if !user.IsRole(usr.Role) {
		return errors.Wrapf(errInvalidRole, "%q", usr.Role)
	}
	token, err := echoapi.GenerateToken(echoapi.GetUserClaims(usr, cli.conf), cli.conf)
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, token)
	return nil
}
