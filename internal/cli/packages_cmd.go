package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/monline/billing/internal/client"
	"github.com/monline/billing/internal/models"
)

func (a *App) packages(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("packages: subcommand required (list|get|create|update|delete|customers)")
	}

	switch args[0] {
	case "list":
		return a.packagesList(ctx, args[1:])
	case "get":
		return a.packagesGet(ctx, args[1:])
	case "create":
		return a.packagesCreate(ctx, args[1:])
	case "update":
		return a.packagesUpdate(ctx, args[1:])
	case "delete":
		return a.packagesDelete(ctx, args[1:])
	case "customers":
		return a.packagesCustomers(ctx, args[1:])
	default:
		return fmt.Errorf("packages: unknown subcommand %q", args[0])
	}
}

func (a *App) packagesList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("packages list", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	page := fs.Int("page", 1, "Page number")
	pageSize := fs.Int("page-size", 10, "Rows per page")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := a.client.ListPackages(ctx, client.ListOptions{Page: *page, PageSize: *pageSize})
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(result.Results))
	for _, p := range result.Results {
		rows = append(rows, []string{
			p.UID, p.Name, itoa(p.SpeedMbps), p.Price, orDash(p.Description),
		})
	}
	a.table([]string{"UID", "NAME", "MBPS", "PRICE", "DESCRIPTION"}, rows)
	a.pageFooter(len(result.Results), result.Count)
	return nil
}

func (a *App) packagesGet(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("packages get: usage: packages get <uid>")
	}

	p, err := a.client.GetPackage(ctx, args[0])
	if err != nil {
		return err
	}

	a.table([]string{"FIELD", "VALUE"}, [][]string{
		{"UID", p.UID},
		{"ID", fmt.Sprintf("%d", p.ID)},
		{"Name", p.Name},
		{"Speed", itoa(p.SpeedMbps) + " Mbps"},
		{"Price", p.Price},
		{"Description", orDash(p.Description)},
	})
	return nil
}

func (a *App) packagesCreate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("packages create", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	name := fs.String("name", "", "Package name")
	speed := fs.Int("speed", 0, "Speed in Mbps")
	price := fs.String("price", "", "Monthly price")
	description := fs.String("description", "", "Description")
	set, err := parseFlags(fs, args)
	if err != nil {
		return err
	}

	p, err := a.client.CreatePackage(ctx, models.PackageInput{
		Name:        strPtr(set, "name", *name),
		SpeedMbps:   intPtr(set, "speed", *speed),
		Price:       strPtr(set, "price", *price),
		Description: strPtr(set, "description", *description),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Package created: %s (%s)\n", p.Name, p.UID)
	return nil
}

func (a *App) packagesUpdate(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("packages update: usage: packages update <uid> [flags]")
	}
	uid := args[0]

	fs := flag.NewFlagSet("packages update", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	name := fs.String("name", "", "Package name")
	speed := fs.Int("speed", 0, "Speed in Mbps")
	price := fs.String("price", "", "Monthly price")
	description := fs.String("description", "", "Description")
	set, err := parseFlags(fs, args[1:])
	if err != nil {
		return err
	}
	if len(set) == 0 {
		return errors.New("packages update: no fields given")
	}

	p, err := a.client.UpdatePackage(ctx, uid, models.PackageInput{
		Name:        strPtr(set, "name", *name),
		SpeedMbps:   intPtr(set, "speed", *speed),
		Price:       strPtr(set, "price", *price),
		Description: strPtr(set, "description", *description),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Package updated: %s (%s)\n", p.Name, p.UID)
	return nil
}

func (a *App) packagesDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("packages delete", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	yes := fs.Bool("yes", false, "Skip confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("packages delete: usage: packages delete [-yes] <uid>")
	}
	uid := fs.Arg(0)

	if !*yes && !a.confirm(fmt.Sprintf("Delete package %s?", uid)) {
		fmt.Fprintln(a.out, "Aborted.")
		return nil
	}

	if err := a.client.DeletePackage(ctx, uid); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Package %s deleted.\n", uid)
	return nil
}

func (a *App) packagesCustomers(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("packages customers: usage: packages customers <uid> [flags]")
	}
	uid := args[0]

	fs := flag.NewFlagSet("packages customers", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	page := fs.Int("page", 1, "Page number")
	pageSize := fs.Int("page-size", 10, "Rows per page")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	result, err := a.client.PackageCustomers(ctx, uid,
		client.ListOptions{Page: *page, PageSize: *pageSize})
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(result.Results))
	for _, c := range result.Results {
		rows = append(rows, []string{
			c.UID, c.Name, c.Phone, orDash(c.Username), yesNo(c.IsActive),
		})
	}
	a.table([]string{"UID", "NAME", "PHONE", "USERNAME", "ACTIVE"}, rows)
	a.pageFooter(len(result.Results), result.Count)
	return nil
}
