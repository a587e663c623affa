package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/shkola/core/calendar"
	"github.com/trezcool/shkola/core/class"
	"github.com/trezcool/shkola/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")

	defaultClasses = []string{"1А", "2Б", "3В", "4Г"}
)

type commandLine struct {
	db       *sql.DB
	usrRepo  user.Repository
	classSvc *class.Service
	eventSvc *calendar.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS...]                      - run a goose command (up, down, status, ...)")
	fmt.Println("  adduser -email EMAIL -name NAME -role ROLE     - create or update a user")
	fmt.Println("  resetpassword -email EMAIL                     - reset user's password")
	fmt.Println("  seedclasses [NAME...]                          - create the missing classes (default: 1А 2Б 3В 4Г)")
	fmt.Println("  addevent -title TITLE -date YYYY-MM-DD         - add a calendar event")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserEmail := addUserCmd.String("email", "", "The user's email. The password will be prompted next.")
	addUserName := addUserCmd.String("name", "", "The user's full name.")
	addUserRole := addUserCmd.String("role", "student", "One of student, teacher, sysadmin, superadmin (or 0-3).")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The user's email. The password will be prompted next.")

	addEventCmd := flag.NewFlagSet("addevent", flag.ContinueOnError)
	addEventTitle := addEventCmd.String("title", "", "The event title.")
	addEventDesc := addEventCmd.String("description", "", "The event description (markdown).")
	addEventDate := addEventCmd.String("date", "", "The event day (YYYY-MM-DD).")
	addEventBy := addEventCmd.String("by", "", "Email of the creator. Defaults to the first super admin.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		role, err := parseRole(*addUserRole)
		if *addUserEmail == "" || err != nil {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserEmail, *addUserName, pwd, role)
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordEmail, pwd)
	case "seedclasses":
		names := args[2:]
		if len(names) == 0 {
			names = defaultClasses
		}
		return cli.seedClasses(names)
	case "addevent":
		if err := addEventCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *addEventTitle == "" || *addEventDate == "" {
			addEventCmd.Usage()
			return errHelp
		}
		return cli.addEvent(*addEventTitle, *addEventDesc, *addEventDate, *addEventBy)
	default:
		cli.printUsage()
		return errHelp
	}
}

func promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}
