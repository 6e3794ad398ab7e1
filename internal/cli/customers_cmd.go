package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/monline/billing/internal/client"
	"github.com/monline/billing/internal/models"
)

func (a *App) customers(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("customers: subcommand required (list|get|create|update|delete|payments|pay|bills|toggle)")
	}

	switch args[0] {
	case "list":
		return a.customersList(ctx, args[1:])
	case "get":
		return a.customersGet(ctx, args[1:])
	case "create":
		return a.customersCreate(ctx, args[1:])
	case "update":
		return a.customersUpdate(ctx, args[1:])
	case "delete":
		return a.customersDelete(ctx, args[1:])
	case "payments":
		return a.customersPayments(ctx, args[1:])
	case "pay":
		return a.customersPay(ctx, args[1:])
	case "bills":
		return a.customersBills(ctx, args[1:])
	case "toggle":
		return a.customersToggle(ctx, args[1:])
	default:
		return fmt.Errorf("customers: unknown subcommand %q", args[0])
	}
}

func (a *App) customersList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("customers list", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	page := fs.Int("page", 1, "Page number")
	pageSize := fs.Int("page-size", 10, "Rows per page")
	name := fs.String("name", "", "Filter by name (substring)")
	username := fs.String("username", "", "Filter by PPPoE username (substring)")
	phone := fs.String("phone", "", "Filter by exact phone")
	pkg := fs.String("package", "", "Filter by package uid")
	pkgID := fs.Int64("package-id", 0, "Filter by package numeric id")
	active := fs.Bool("active", false, "Filter by connection state")
	free := fs.Bool("free", false, "Filter by free connections")
	set, err := parseFlags(fs, args)
	if err != nil {
		return err
	}

	result, err := a.client.ListCustomers(ctx,
		client.ListOptions{Page: *page, PageSize: *pageSize},
		client.CustomerListFilter{
			Name:       *name,
			Username:   *username,
			Phone:      *phone,
			PackageUID: *pkg,
			PackageID:  *pkgID,
			IsActive:   boolPtr(set, "active", *active),
			IsFree:     boolPtr(set, "free", *free),
		})
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(result.Results))
	for _, c := range result.Results {
		pkgName := "-"
		if c.Package != nil {
			pkgName = c.Package.Name
		}
		rows = append(rows, []string{
			c.UID, c.Name, c.Phone, orDash(c.Username), pkgName,
			yesNo(c.IsActive), yesNo(c.IsFree),
		})
	}
	a.table([]string{"UID", "NAME", "PHONE", "USERNAME", "PACKAGE", "ACTIVE", "FREE"}, rows)
	a.pageFooter(len(result.Results), result.Count)
	return nil
}

func (a *App) customersGet(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("customers get: usage: customers get <uid>")
	}

	c, err := a.client.GetCustomer(ctx, args[0])
	if err != nil {
		return err
	}

	pkgName := "-"
	if c.Package != nil {
		pkgName = fmt.Sprintf("%s (%s Mbps, %s)", c.Package.Name, itoa(c.Package.SpeedMbps), c.Package.Price)
	}
	a.table([]string{"FIELD", "VALUE"}, [][]string{
		{"UID", c.UID},
		{"Name", c.Name},
		{"Phone", c.Phone},
		{"Email", orDash(c.Email)},
		{"Address", orDash(c.Address)},
		{"NID", orDash(c.NID)},
		{"Package", pkgName},
		{"Connection", c.ConnectionType},
		{"Username", orDash(c.Username)},
		{"IP address", orDash(c.IPAddress)},
		{"MAC address", orDash(c.MACAddress)},
		{"Started", orDash(c.ConnectionStartDate)},
		{"Active", yesNo(c.IsActive)},
		{"Free", yesNo(c.IsFree)},
	})
	return nil
}

func customerFlags(fs *flag.FlagSet) map[string]*string {
	return map[string]*string{
		"name":       fs.String("name", "", "Customer name"),
		"phone":      fs.String("phone", "", "Phone number"),
		"email":      fs.String("email", "", "Email address"),
		"address":    fs.String("address", "", "Street address"),
		"nid":        fs.String("nid", "", "National ID"),
		"start-date": fs.String("start-date", "", "Connection start date (YYYY-MM-DD)"),
		"ip":         fs.String("ip", "", "IP address"),
		"mac":        fs.String("mac", "", "MAC address"),
		"username":   fs.String("username", "", "PPPoE username"),
		"password":   fs.String("password", "", "PPPoE password"),
		"conn-type":  fs.String("conn-type", "", "DHCP, STATIC or PPPoE"),
	}
}

func customerInput(set map[string]bool, str map[string]*string, packageID int64, active, free bool) models.CustomerInput {
	return models.CustomerInput{
		Name:                strPtr(set, "name", *str["name"]),
		Phone:               strPtr(set, "phone", *str["phone"]),
		Email:               strPtr(set, "email", *str["email"]),
		Address:             strPtr(set, "address", *str["address"]),
		NID:                 strPtr(set, "nid", *str["nid"]),
		PackageID:           int64Ptr(set, "package-id", packageID),
		ConnectionStartDate: strPtr(set, "start-date", *str["start-date"]),
		IsActive:            boolPtr(set, "active", active),
		IsFree:              boolPtr(set, "free", free),
		IPAddress:           strPtr(set, "ip", *str["ip"]),
		MACAddress:          strPtr(set, "mac", *str["mac"]),
		Username:            strPtr(set, "username", *str["username"]),
		Password:            strPtr(set, "password", *str["password"]),
		ConnectionType:      strPtr(set, "conn-type", *str["conn-type"]),
	}
}

func (a *App) customersCreate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("customers create", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	str := customerFlags(fs)
	packageID := fs.Int64("package-id", 0, "Package numeric id")
	active := fs.Bool("active", true, "Connection enabled")
	free := fs.Bool("free", false, "Free connection")
	set, err := parseFlags(fs, args)
	if err != nil {
		return err
	}

	c, err := a.client.CreateCustomer(ctx, customerInput(set, str, *packageID, *active, *free))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Customer created: %s (%s)\n", c.Name, c.UID)
	return nil
}

func (a *App) customersUpdate(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("customers update: usage: customers update <uid> [flags]")
	}
	uid := args[0]

	fs := flag.NewFlagSet("customers update", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	str := customerFlags(fs)
	packageID := fs.Int64("package-id", 0, "Package numeric id")
	active := fs.Bool("active", true, "Connection enabled")
	free := fs.Bool("free", false, "Free connection")
	set, err := parseFlags(fs, args[1:])
	if err != nil {
		return err
	}
	if len(set) == 0 {
		return errors.New("customers update: no fields given")
	}

	c, err := a.client.UpdateCustomer(ctx, uid, customerInput(set, str, *packageID, *active, *free))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Customer updated: %s (%s)\n", c.Name, c.UID)
	return nil
}

func (a *App) customersDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("customers delete", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	yes := fs.Bool("yes", false, "Skip confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("customers delete: usage: customers delete [-yes] <uid>")
	}
	uid := fs.Arg(0)

	if !*yes && !a.confirm(fmt.Sprintf("Delete customer %s?", uid)) {
		fmt.Fprintln(a.out, "Aborted.")
		return nil
	}

	if err := a.client.DeleteCustomer(ctx, uid); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Customer %s deleted.\n", uid)
	return nil
}

func (a *App) customersPayments(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("customers payments: usage: customers payments <uid> [flags]")
	}
	uid := args[0]

	fs := flag.NewFlagSet("customers payments", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	page := fs.Int("page", 1, "Page number")
	pageSize := fs.Int("page-size", 10, "Rows per page")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	result, err := a.client.CustomerPayments(ctx, uid,
		client.ListOptions{Page: *page, PageSize: *pageSize})
	if err != nil {
		return err
	}

	a.printPaymentsTable(result.Results)
	a.pageFooter(len(result.Results), result.Count)
	return nil
}

func (a *App) customersPay(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("customers pay: usage: customers pay <uid> -month <MONTH> [flags]")
	}
	uid := args[0]

	fs := flag.NewFlagSet("customers pay", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	month := fs.String("month", "", "Billing month (e.g. AUGUST)")
	amount := fs.String("amount", "", "Collected amount")
	method := fs.String("method", "", "Payment method (default CASH)")
	note := fs.String("note", "", "Payment note")
	set, err := parseFlags(fs, args[1:])
	if err != nil {
		return err
	}

	p, err := a.client.CreateCustomerPayment(ctx, uid, models.PaymentInput{
		BillingMonth:  strPtr(set, "month", *month),
		Amount:        strPtr(set, "amount", *amount),
		PaymentMethod: strPtr(set, "method", *method),
		Note:          strPtr(set, "note", *note),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Payment recorded: %s %s for %s (paid: %s)\n",
		p.Amount, p.BillingMonth, p.Customer.Name, yesNo(p.Paid))
	return nil
}

func (a *App) customersBills(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("customers bills", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	month := fs.String("month", "", "Billing month (default: current month)")
	yes := fs.Bool("yes", false, "Skip confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}

	label := *month
	if label == "" {
		label = "the current month"
	}
	if !*yes && !a.confirm(fmt.Sprintf("Generate bills for %s?", label)) {
		fmt.Fprintln(a.out, "Aborted.")
		return nil
	}

	resp, err := a.client.GenerateBills(ctx, *month)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, resp.Message)
	return nil
}

func (a *App) customersToggle(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("customers toggle", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	enable := fs.Bool("enable", false, "Enable the connection (default disables)")
	yes := fs.Bool("yes", false, "Skip confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("customers toggle: usage: customers toggle [-enable] [-yes] <username>")
	}
	username := fs.Arg(0)

	verb := "Disable"
	if *enable {
		verb = "Enable"
	}
	if !*yes && !a.confirm(fmt.Sprintf("%s connection for %s?", verb, username)) {
		fmt.Fprintln(a.out, "Aborted.")
		return nil
	}

	resp, err := a.client.ToggleStatus(ctx, username, *enable)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, resp.Message)
	return nil
}
