package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/monline/billing/internal/models"
)

func (a *App) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	phone := fs.String("phone", "", "Account phone number")
	password := fs.String("password", "", "Password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *phone == "" {
		return errors.New("login: -phone is required")
	}
	if *password == "" {
		fmt.Fprint(a.out, "Password: ")
		line, err := a.in.ReadString('\n')
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		*password = strings.TrimSpace(line)
	}

	resp, err := a.client.Login(ctx, *phone, *password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Signed in as %s (%s)\n", resp.User.FullName(), resp.User.Kind)
	return nil
}

func (a *App) logout() error {
	if err := a.client.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

// me shows the profile; `me update` edits it.
func (a *App) me(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "update" {
		return a.updateMe(ctx, args[1:])
	}

	user, err := a.client.Me(ctx)
	if err != nil {
		return err
	}

	a.table([]string{"FIELD", "VALUE"}, [][]string{
		{"Name", orDash(user.FullName())},
		{"Phone", user.Phone},
		{"Email", orDash(user.Email)},
		{"Gender", user.Gender},
		{"Kind", user.Kind},
	})
	return nil
}

func (a *App) updateMe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("me update", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	firstName := fs.String("first-name", "", "First name")
	lastName := fs.String("last-name", "", "Last name")
	email := fs.String("email", "", "Email address")
	gender := fs.String("gender", "", "MALE, FEMALE or UNKNOWN")
	image := fs.String("image", "", "Profile image URL")
	password := fs.String("password", "", "New password")
	set, err := parseFlags(fs, args)
	if err != nil {
		return err
	}
	if len(set) == 0 {
		return errors.New("me update: no fields given")
	}

	user, err := a.client.UpdateMe(ctx, models.UserInput{
		FirstName: strPtr(set, "first-name", *firstName),
		LastName:  strPtr(set, "last-name", *lastName),
		Email:     strPtr(set, "email", *email),
		Gender:    strPtr(set, "gender", *gender),
		Image:     strPtr(set, "image", *image),
		Password:  strPtr(set, "password", *password),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Profile updated for %s\n", user.FullName())
	return nil
}

func (a *App) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	firstName := fs.String("first-name", "", "First name")
	lastName := fs.String("last-name", "", "Last name")
	phone := fs.String("phone", "", "Phone number")
	email := fs.String("email", "", "Email address")
	gender := fs.String("gender", "", "MALE, FEMALE or UNKNOWN")
	password := fs.String("password", "", "Password")
	confirm := fs.String("confirm-password", "", "Password confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := a.client.Register(ctx, models.RegisterRequest{
		FirstName:       *firstName,
		LastName:        *lastName,
		Phone:           *phone,
		Email:           *email,
		Gender:          *gender,
		Password:        *password,
		ConfirmPassword: *confirm,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Account created for %s. Run `monline login` to sign in.\n", user.Phone)
	return nil
}
