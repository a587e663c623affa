package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shkola/core"
	"github.com/trezcool/shkola/core/calendar"
	"github.com/trezcool/shkola/core/user"
)

var (
	errNoSuperAdmin = errors.New("no super admin found; pass -by EMAIL")
	errBadDate      = errors.New("date must be formatted as YYYY-MM-DD or RFC3339")
)

func (cli *commandLine) seedClasses(names []string) error {
	classes, err := cli.classSvc.EnsureClasses(context.Background(), names...)
	if err != nil {
		return err
	}
	for _, cls := range classes {
		fmt.Printf("%s\t%s\n", cls.ID, cls.Name)
	}
	return nil
}

func (cli *commandLine) addEvent(title, description, date, byEmail string) error {
	ctx := context.Background()

	date = core.CleanString(date)
	if _, err := calendar.ParseDate(date); err != nil {
		return errBadDate
	}
	creator, err := cli.eventCreator(ctx, byEmail)
	if err != nil {
		return err
	}
	evt, err := cli.eventSvc.Create(ctx, creator, calendar.EventData{
		Title:       core.CleanString(title),
		Description: core.CleanString(description),
		Date:        date,
	})
	if err != nil {
		return err
	}
	fmt.Printf("%s\t%s\t%s\n", evt.ID, evt.DateKey(), evt.Title)
	return nil
}

func (cli *commandLine) eventCreator(ctx context.Context, byEmail string) (user.User, error) {
	if byEmail != "" {
		return cli.usrRepo.GetUser(ctx, user.GetFilter{Email: core.CleanString(byEmail, true /* lower */)})
	}

	admins, err := cli.usrRepo.QueryUsers(
		ctx,
		&user.QueryFilter{Roles: []user.Role{user.RoleSuperAdmin}, IsActive: null.BoolFrom(true).Ptr()},
		[]core.DBOrdering{{Field: "created_at", Ascending: true}},
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "querying super admins")
	}
	if len(admins) == 0 {
		return user.User{}, errNoSuperAdmin
	}
	return admins[0], nil
}
