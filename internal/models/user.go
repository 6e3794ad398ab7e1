package models

import "time"

// User represents an account in the system. Customers, staff, managers and
// admins are all users distinguished by Kind.
type User struct {
	ID        int64     `json:"id"`
	UID       string    `json:"uid"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Gender    string    `json:"gender"`
	Image     string    `json:"image"`
	Kind      string    `json:"kind"`
	Status    string    `json:"status,omitempty"`
	IsStaff   bool      `json:"is_staff,omitempty"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName returns "First Last" with surrounding spaces trimmed.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// UserLite is the compact user shape embedded in other resources
// (payment entry_by, customer user).
type UserLite struct {
	ID        int64  `json:"id"`
	UID       string `json:"uid"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// Lite projects the compact shape of a user.
func (u *User) Lite() *UserLite {
	if u == nil {
		return nil
	}
	return &UserLite{
		ID:        u.ID,
		UID:       u.UID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Email:     u.Email,
	}
}
