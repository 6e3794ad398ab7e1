package models

import "time"

// ==================== Auth DTOs ====================

// LoginRequest carries the credentials for POST /users/login.
type LoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	AccessToken     string `json:"access_token"`
	RefreshToken    string `json:"refresh_token"`
	AccessTokenExp  int64  `json:"access_token_exp"`
	RefreshTokenExp int64  `json:"refresh_token_exp"`
	User            *User  `json:"user"`
}

// RefreshRequest carries the refresh token for POST /users/login/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshResponse is returned by a successful token refresh.
// Only the access token rotates; the refresh token stays as issued at login.
type RefreshResponse struct {
	AccessToken    string `json:"access_token"`
	AccessTokenExp int64  `json:"access_token_exp"`
}

// RegisterRequest carries the public self-registration payload.
type RegisterRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone" binding:"required"`
	Email           string `json:"email"`
	Gender          string `json:"gender"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// ==================== Write payloads ====================
//
// All write payloads use pointer fields: a nil field was not supplied by the
// caller and must be left untouched on update, while a present zero value
// ("", false, 0) is an explicit assignment.

// UserInput is the write payload for user create/update and PUT /users/me.
type UserInput struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty"`
	Gender    *string `json:"gender,omitempty"`
	Image     *string `json:"image,omitempty"`
	Kind      *string `json:"kind,omitempty"`
	Password  *string `json:"password,omitempty"`
}

// PackageInput is the write payload for package create/update.
type PackageInput struct {
	Name        *string `json:"name,omitempty"`
	SpeedMbps   *int    `json:"speed_mbps,omitempty"`
	Price       *string `json:"price,omitempty"`
	Description *string `json:"description,omitempty"`
}

// CustomerInput is the write payload for customer create/update.
// PackageID references the package by its numeric id, as foreign keys do in
// every write payload; uid is only ever used in URL paths.
type CustomerInput struct {
	Name                *string        `json:"name,omitempty"`
	Email               *string        `json:"email,omitempty"`
	Phone               *string        `json:"phone,omitempty"`
	Address             *string        `json:"address,omitempty"`
	NID                 *string        `json:"nid,omitempty"`
	PackageID           *int64         `json:"package_id,omitempty"`
	ConnectionStartDate *string        `json:"connection_start_date,omitempty"`
	IsActive            *bool          `json:"is_active,omitempty"`
	IsFree              *bool          `json:"is_free,omitempty"`
	IPAddress           *string        `json:"ip_address,omitempty"`
	MACAddress          *string        `json:"mac_address,omitempty"`
	Username            *string        `json:"username,omitempty"`
	Password            *string        `json:"password,omitempty"`
	ConnectionType      *string        `json:"connection_type,omitempty"`
	Credentials         map[string]any `json:"credentials,omitempty"`
}

// PaymentInput is the write payload for payment create/update.
type PaymentInput struct {
	CustomerID    *int64     `json:"customer_id,omitempty"`
	BillAmount    *string    `json:"bill_amount,omitempty"`
	Amount        *string    `json:"amount,omitempty"`
	BillingMonth  *string    `json:"billing_month,omitempty"`
	PaymentMethod *string    `json:"payment_method,omitempty"`
	Paid          *bool      `json:"paid,omitempty"`
	TransactionID *string    `json:"transaction_id,omitempty"`
	PaymentDate   *time.Time `json:"payment_date,omitempty"`
	Note          *string    `json:"note,omitempty"`
}

// ==================== Special operation DTOs ====================

// StatusToggleRequest flips a customer's active flag by PPPoE username.
// IsActive is a pointer so that an explicit false survives binding.
type StatusToggleRequest struct {
	Username string `json:"username" binding:"required"`
	IsActive *bool  `json:"is_active" binding:"required"`
}

// StatusToggleResponse is returned after a status toggle.
type StatusToggleResponse struct {
	Message string `json:"message"`
}

// GenerateBillsResponse is returned by POST /customers/bills/generate.
type GenerateBillsResponse struct {
	Message              string `json:"message"`
	CreatedPaymentsCount int    `json:"created_payments_count"`
}

// DashboardStats is the aggregate summary for GET /dashboard.
type DashboardStats struct {
	TotalCustomers       int    `json:"total_customers"`
	ActiveCustomers      int    `json:"active_customers"`
	TotalPackages        int    `json:"total_packages"`
	TotalPayments        int    `json:"total_payments"`
	TotalRevenue         string `json:"total_revenue"`
	PendingPayments      int    `json:"pending_payments"`
	CurrentMonthPayments int    `json:"current_month_payments"`
}
