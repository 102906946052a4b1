package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/poll"
	"github.com/trezcool/darasa/core/user"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db      *sql.DB
	conf    *core.Config
	pollSvc *poll.Service
	out     io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command (up, down, status, ...) against the database")
	fmt.Fprintln(cli.out, "  token -id ID -role ROLE [-name NAME] [-institution ID] - print an API token")
	fmt.Fprintln(cli.out, "  summary -form ID - print the summary of a form's responses")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	tokenCmd := flag.NewFlagSet("token", flag.ExitOnError)
	tokenID := tokenCmd.String("id", "", "The user's ID.")
	tokenName := tokenCmd.String("name", "", "The user's display name.")
	tokenRole := tokenCmd.String("role", "", fmt.Sprintf("The user's role, one of %v.", user.AllRoles))
	tokenInstitution := tokenCmd.String("institution", "", "The institution the user belongs to; none for admins of every institution.")

	summaryCmd := flag.NewFlagSet("summary", flag.ExitOnError)
	summaryForm := summaryCmd.String("form", "", "The form's ID.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "token":
		if err := tokenCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *tokenID == "" || *tokenRole == "" {
			tokenCmd.Usage()
			return errHelp
		}
		usr := user.User{
			ID:          *tokenID,
			Name:        *tokenName,
			Role:        *tokenRole,
			Institution: *tokenInstitution,
		}
		return cli.token(usr)
	case "summary":
		if err := summaryCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *summaryForm == "" {
			summaryCmd.Usage()
			return errHelp
		}
		return cli.summary(*summaryForm)
	default:
		cli.printUsage()
		return errHelp
	}
}
