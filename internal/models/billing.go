package models

import "time"

// Package represents an internet package sold to customers.
// Price is a decimal string ("500.00") to avoid float rounding on money.
type Package struct {
	ID          int64     `json:"id"`
	UID         string    `json:"uid"`
	Name        string    `json:"name"`
	SpeedMbps   int       `json:"speed_mbps"`
	Price       string    `json:"price"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Customer represents a subscriber connection.
type Customer struct {
	ID      int64  `json:"id"`
	UID     string `json:"uid"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	NID     string `json:"nid"`

	Package             *Package  `json:"package,omitempty"`
	User                *UserLite `json:"user,omitempty"`
	ConnectionStartDate string    `json:"connection_start_date,omitempty"`
	IsActive            bool      `json:"is_active"`
	IsFree              bool      `json:"is_free"`

	// Connection credentials
	IPAddress      string         `json:"ip_address"`
	MACAddress     string         `json:"mac_address"`
	Username       string         `json:"username"`
	Password       string         `json:"password,omitempty"`
	ConnectionType string         `json:"connection_type"`
	Credentials    map[string]any `json:"credentials,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Payment represents one month's bill for a customer, paid or pending.
// BillAmount is the invoiced total; Amount is what was actually collected
// and may be a partial payment or an overpayment.
type Payment struct {
	ID            int64      `json:"id"`
	UID           string     `json:"uid"`
	Customer      *Customer  `json:"customer,omitempty"`
	EntryBy       *UserLite  `json:"entry_by,omitempty"`
	BillAmount    string     `json:"bill_amount"`
	Amount        string     `json:"amount"`
	BillingMonth  string     `json:"billing_month"`
	PaymentMethod string     `json:"payment_method"`
	Paid          bool       `json:"paid"`
	TransactionID string     `json:"transaction_id"`
	PaymentDate   *time.Time `json:"payment_date,omitempty"`
	Note          string     `json:"note"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
