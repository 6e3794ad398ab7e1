package cli

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/monline/billing/internal/models"
)

// table renders rows under headers with aligned columns.
func (a *App) table(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
}

// pageFooter prints the count line under a listing.
func (a *App) pageFooter(shown, total int) {
	fmt.Fprintf(a.out, "\nShowing %d of %d\n", shown, total)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func userName(u *models.UserLite) string {
	if u == nil {
		return "-"
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return orDash(u.Phone)
	}
	return name
}

// parseFlags parses args and reports which flags were explicitly set, so
// update commands send only the fields the operator touched.
func parseFlags(fs *flag.FlagSet, args []string) (map[string]bool, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set, nil
}

func strPtr(set map[string]bool, name string, value string) *string {
	if set[name] {
		return &value
	}
	return nil
}

func boolPtr(set map[string]bool, name string, value bool) *bool {
	if set[name] {
		return &value
	}
	return nil
}

func intPtr(set map[string]bool, name string, value int) *int {
	if set[name] {
		return &value
	}
	return nil
}

func int64Ptr(set map[string]bool, name string, value int64) *int64 {
	if set[name] {
		return &value
	}
	return nil
}
