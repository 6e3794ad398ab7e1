package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/monline/billing/internal/client"
	"github.com/monline/billing/internal/models"
)

func (a *App) payments(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("payments: subcommand required (list|get|create|update|delete)")
	}

	switch args[0] {
	case "list":
		return a.paymentsList(ctx, args[1:])
	case "get":
		return a.paymentsGet(ctx, args[1:])
	case "create":
		return a.paymentsCreate(ctx, args[1:])
	case "update":
		return a.paymentsUpdate(ctx, args[1:])
	case "delete":
		return a.paymentsDelete(ctx, args[1:])
	default:
		return fmt.Errorf("payments: unknown subcommand %q", args[0])
	}
}

func (a *App) printPaymentsTable(payments []models.Payment) {
	rows := make([][]string, 0, len(payments))
	for _, p := range payments {
		customer := "-"
		if p.Customer != nil {
			customer = p.Customer.Name
		}
		rows = append(rows, []string{
			p.UID, customer, p.BillingMonth, p.BillAmount, p.Amount,
			p.PaymentMethod, yesNo(p.Paid), userName(p.EntryBy),
		})
	}
	a.table([]string{"UID", "CUSTOMER", "MONTH", "BILL", "PAID AMT", "METHOD", "PAID", "COLLECTED BY"}, rows)
}

func (a *App) paymentsList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("payments list", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	page := fs.Int("page", 1, "Page number")
	pageSize := fs.Int("page-size", 10, "Rows per page")
	customerName := fs.String("customer-name", "", "Filter by customer name (substring)")
	customerPhone := fs.String("customer-phone", "", "Filter by exact customer phone")
	collectedBy := fs.String("collected-by", "", "Filter by collector first name (substring)")
	month := fs.String("month", "", "Filter by billing month")
	paid := fs.Bool("paid", false, "Filter by paid state")
	set, err := parseFlags(fs, args)
	if err != nil {
		return err
	}

	result, err := a.client.ListPayments(ctx,
		client.ListOptions{Page: *page, PageSize: *pageSize},
		client.PaymentListFilter{
			CustomerName:  *customerName,
			CustomerPhone: *customerPhone,
			CollectedBy:   *collectedBy,
			Month:         *month,
			Paid:          boolPtr(set, "paid", *paid),
		})
	if err != nil {
		return err
	}

	a.printPaymentsTable(result.Results)
	a.pageFooter(len(result.Results), result.Count)
	return nil
}

func (a *App) paymentsGet(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("payments get: usage: payments get <uid>")
	}

	p, err := a.client.GetPayment(ctx, args[0])
	if err != nil {
		return err
	}

	customer := "-"
	if p.Customer != nil {
		customer = fmt.Sprintf("%s (%s)", p.Customer.Name, p.Customer.Phone)
	}
	paymentDate := "-"
	if p.PaymentDate != nil {
		paymentDate = p.PaymentDate.Format("2006-01-02 15:04")
	}
	a.table([]string{"FIELD", "VALUE"}, [][]string{
		{"UID", p.UID},
		{"Customer", customer},
		{"Month", p.BillingMonth},
		{"Bill amount", p.BillAmount},
		{"Amount", p.Amount},
		{"Method", p.PaymentMethod},
		{"Paid", yesNo(p.Paid)},
		{"Transaction", orDash(p.TransactionID)},
		{"Payment date", paymentDate},
		{"Collected by", userName(p.EntryBy)},
		{"Note", orDash(p.Note)},
	})
	return nil
}

func (a *App) paymentsCreate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("payments create", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	customerID := fs.Int64("customer-id", 0, "Customer numeric id")
	month := fs.String("month", "", "Billing month (e.g. AUGUST)")
	billAmount := fs.String("bill-amount", "", "Invoiced amount (default: package price)")
	amount := fs.String("amount", "", "Collected amount")
	method := fs.String("method", "", "Payment method (default CASH)")
	note := fs.String("note", "", "Payment note")
	set, err := parseFlags(fs, args)
	if err != nil {
		return err
	}

	p, err := a.client.CreatePayment(ctx, models.PaymentInput{
		CustomerID:    int64Ptr(set, "customer-id", *customerID),
		BillingMonth:  strPtr(set, "month", *month),
		BillAmount:    strPtr(set, "bill-amount", *billAmount),
		Amount:        strPtr(set, "amount", *amount),
		PaymentMethod: strPtr(set, "method", *method),
		Note:          strPtr(set, "note", *note),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Payment recorded: %s (paid: %s)\n", p.UID, yesNo(p.Paid))
	return nil
}

func (a *App) paymentsUpdate(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("payments update: usage: payments update <uid> [flags]")
	}
	uid := args[0]

	fs := flag.NewFlagSet("payments update", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	month := fs.String("month", "", "Billing month")
	billAmount := fs.String("bill-amount", "", "Invoiced amount")
	amount := fs.String("amount", "", "Collected amount")
	method := fs.String("method", "", "Payment method")
	note := fs.String("note", "", "Payment note")
	paid := fs.Bool("paid", false, "Explicit paid state")
	set, err := parseFlags(fs, args[1:])
	if err != nil {
		return err
	}
	if len(set) == 0 {
		return errors.New("payments update: no fields given")
	}

	p, err := a.client.UpdatePayment(ctx, uid, models.PaymentInput{
		BillingMonth:  strPtr(set, "month", *month),
		BillAmount:    strPtr(set, "bill-amount", *billAmount),
		Amount:        strPtr(set, "amount", *amount),
		PaymentMethod: strPtr(set, "method", *method),
		Note:          strPtr(set, "note", *note),
		Paid:          boolPtr(set, "paid", *paid),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Payment updated: %s (paid: %s)\n", p.UID, yesNo(p.Paid))
	return nil
}

func (a *App) paymentsDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("payments delete", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	yes := fs.Bool("yes", false, "Skip confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("payments delete: usage: payments delete [-yes] <uid>")
	}
	uid := fs.Arg(0)

	if !*yes && !a.confirm(fmt.Sprintf("Delete payment %s?", uid)) {
		fmt.Fprintln(a.out, "Aborted.")
		return nil
	}

	if err := a.client.DeletePayment(ctx, uid); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Payment %s deleted.\n", uid)
	return nil
}
