// Package cli implements the monline admin terminal: one subcommand per
// screen of the billing back office.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/monline/billing/internal/client"
	"github.com/monline/billing/internal/config"
)

const usage = `monline - M_Online ISP billing administration

Usage:
  monline <command> [subcommand] [flags]

Commands:
  login       Sign in with phone and password
  logout      Clear the stored session
  me          Show or update your own profile
  register    Create a customer account
  dashboard   Show the billing summary
  customers   Manage customers (list|get|create|update|delete|payments|pay|bills|toggle)
  packages    Manage packages (list|get|create|update|delete|customers)
  payments    Manage payments (list|get|create|update|delete)
  users       Manage user accounts (list|get|create|update|delete)
  contact     Show M_Online contact information

Environment:
  MONLINE_API_URL       Backend base URL (default http://localhost:8080/api/v1)
  MONLINE_SESSION_FILE  Session file path (default ~/.config/monline/session.json)
`

// App wires the API client to terminal input and output.
type App struct {
	client *client.Client
	store  client.Store
	out    io.Writer
	errOut io.Writer
	in     *bufio.Reader
}

// Run parses args (excluding the program name) and executes one command.
// The returned code is the process exit status.
func Run(args []string, stdout, stderr io.Writer, stdin io.Reader) int {
	cfg := config.Load()

	store := client.NewFileStore(cfg.Client.SessionFile)
	api := client.New(cfg.Client.BaseURL, store)

	app := &App{
		client: api,
		store:  store,
		out:    stdout,
		errOut: stderr,
		in:     bufio.NewReader(stdin),
	}
	api.OnSessionExpired = func() {
		fmt.Fprintln(stderr, "Session expired. Run `monline login` to sign in again.")
	}

	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	ctx := context.Background()
	var err error
	switch args[0] {
	case "login":
		err = app.login(ctx, args[1:])
	case "logout":
		err = app.logout()
	case "me":
		err = app.me(ctx, args[1:])
	case "register":
		err = app.register(ctx, args[1:])
	case "dashboard":
		err = app.dashboard(ctx)
	case "customers":
		err = app.customers(ctx, args[1:])
	case "packages":
		err = app.packages(ctx, args[1:])
	case "payments":
		err = app.payments(ctx, args[1:])
	case "users":
		err = app.users(ctx, args[1:])
	case "contact":
		err = app.contact()
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		fmt.Fprint(stderr, usage)
		return 2
	}

	if err != nil {
		app.printError(err)
		return 1
	}
	return 0
}

// printError writes the failure, listing per-field validation errors so a
// rejected form is never silently dropped.
func (a *App) printError(err error) {
	if apiErr, ok := err.(*client.APIError); ok {
		fmt.Fprintf(a.errOut, "Error: %s\n", apiErr.Message)
		for field, msgs := range apiErr.Fields {
			for _, msg := range msgs {
				fmt.Fprintf(a.errOut, "  %s: %s\n", field, msg)
			}
		}
		return
	}
	fmt.Fprintf(a.errOut, "Error: %v\n", err)
}

// confirm asks a y/N question and returns the answer. Only "y" and "yes"
// accept.
func (a *App) confirm(prompt string) bool {
	fmt.Fprintf(a.out, "%s [y/N]: ", prompt)
	line, err := a.in.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
