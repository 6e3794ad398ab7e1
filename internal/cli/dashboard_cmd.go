package cli

import "context"

func (a *App) dashboard(ctx context.Context) error {
	stats, err := a.client.Dashboard(ctx)
	if err != nil {
		return err
	}

	a.table([]string{"METRIC", "VALUE"}, [][]string{
		{"Total customers", itoa(stats.TotalCustomers)},
		{"Active customers", itoa(stats.ActiveCustomers)},
		{"Total packages", itoa(stats.TotalPackages)},
		{"Paid payments", itoa(stats.TotalPayments)},
		{"Total revenue", stats.TotalRevenue},
		{"Pending payments", itoa(stats.PendingPayments)},
		{"Paid this month", itoa(stats.CurrentMonthPayments)},
	})
	return nil
}
