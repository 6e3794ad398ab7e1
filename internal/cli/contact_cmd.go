package cli

import "fmt"

// contact prints the public-facing contact details. Needs no session.
func (a *App) contact() error {
	fmt.Fprintln(a.out, `M_Online Internet Service Provider

  Hotline:  +880 1700-000000
  Email:    support@monline.net.bd
  Address:  House 12, Road 5, Dhanmondi, Dhaka

  Office hours: Saturday - Thursday, 9:00 - 21:00
  Bill payments accepted via bKash, Nagad, Rocket and cash.`)
	return nil
}
