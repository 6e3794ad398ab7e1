package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/monline/billing/internal/client"
	"github.com/monline/billing/internal/models"
)

func (a *App) users(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("users: subcommand required (list|get|create|update|delete)")
	}

	switch args[0] {
	case "list":
		return a.usersList(ctx, args[1:])
	case "get":
		return a.usersGet(ctx, args[1:])
	case "create":
		return a.usersCreate(ctx, args[1:])
	case "update":
		return a.usersUpdate(ctx, args[1:])
	case "delete":
		return a.usersDelete(ctx, args[1:])
	default:
		return fmt.Errorf("users: unknown subcommand %q", args[0])
	}
}

func (a *App) usersList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("users list", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	page := fs.Int("page", 1, "Page number")
	pageSize := fs.Int("page-size", 10, "Rows per page")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := a.client.ListUsers(ctx, client.ListOptions{Page: *page, PageSize: *pageSize})
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(result.Results))
	for _, u := range result.Results {
		rows = append(rows, []string{
			u.UID, orDash(u.FullName()), u.Phone, orDash(u.Email), u.Kind,
		})
	}
	a.table([]string{"UID", "NAME", "PHONE", "EMAIL", "KIND"}, rows)
	a.pageFooter(len(result.Results), result.Count)
	return nil
}

func (a *App) usersGet(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("users get: usage: users get <uid>")
	}

	u, err := a.client.GetUser(ctx, args[0])
	if err != nil {
		return err
	}

	a.table([]string{"FIELD", "VALUE"}, [][]string{
		{"UID", u.UID},
		{"Name", orDash(u.FullName())},
		{"Phone", u.Phone},
		{"Email", orDash(u.Email)},
		{"Gender", u.Gender},
		{"Kind", u.Kind},
	})
	return nil
}

func userInputFlags(fs *flag.FlagSet) map[string]*string {
	return map[string]*string{
		"first-name": fs.String("first-name", "", "First name"),
		"last-name":  fs.String("last-name", "", "Last name"),
		"phone":      fs.String("phone", "", "Phone number"),
		"email":      fs.String("email", "", "Email address"),
		"gender":     fs.String("gender", "", "MALE, FEMALE or UNKNOWN"),
		"kind":       fs.String("kind", "", "User kind (ADMIN, MANAGER, STAFF, CUSTOMER...)"),
		"password":   fs.String("password", "", "Password"),
	}
}

func userInput(set map[string]bool, str map[string]*string) models.UserInput {
	return models.UserInput{
		FirstName: strPtr(set, "first-name", *str["first-name"]),
		LastName:  strPtr(set, "last-name", *str["last-name"]),
		Phone:     strPtr(set, "phone", *str["phone"]),
		Email:     strPtr(set, "email", *str["email"]),
		Gender:    strPtr(set, "gender", *str["gender"]),
		Kind:      strPtr(set, "kind", *str["kind"]),
		Password:  strPtr(set, "password", *str["password"]),
	}
}

func (a *App) usersCreate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("users create", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	str := userInputFlags(fs)
	set, err := parseFlags(fs, args)
	if err != nil {
		return err
	}

	u, err := a.client.CreateUser(ctx, userInput(set, str))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "User created: %s (%s, %s)\n", orDash(u.FullName()), u.Phone, u.Kind)
	return nil
}

func (a *App) usersUpdate(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("users update: usage: users update <uid> [flags]")
	}
	uid := args[0]

	fs := flag.NewFlagSet("users update", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	str := userInputFlags(fs)
	set, err := parseFlags(fs, args[1:])
	if err != nil {
		return err
	}
	if len(set) == 0 {
		return errors.New("users update: no fields given")
	}

	u, err := a.client.UpdateUser(ctx, uid, userInput(set, str))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "User updated: %s (%s)\n", orDash(u.FullName()), u.UID)
	return nil
}

func (a *App) usersDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("users delete", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	yes := fs.Bool("yes", false, "Skip confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("users delete: usage: users delete [-yes] <uid>")
	}
	uid := fs.Arg(0)

	if !*yes && !a.confirm(fmt.Sprintf("Delete user %s?", uid)) {
		fmt.Fprintln(a.out, "Aborted.")
		return nil
	}

	if err := a.client.DeleteUser(ctx, uid); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "User %s deleted.\n", uid)
	return nil
}
