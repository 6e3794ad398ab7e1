package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidMonth(t *testing.T) {
	assert.Len(t, Months, 12)
	assert.True(t, ValidMonth("JANUARY"))
	assert.True(t, ValidMonth("DECEMBER"))
	assert.False(t, ValidMonth("january"))
	assert.False(t, ValidMonth(""))
}

func TestValidPaymentMethod(t *testing.T) {
	assert.True(t, ValidPaymentMethod(MethodBkash))
	assert.True(t, ValidPaymentMethod(MethodCash))
	assert.False(t, ValidPaymentMethod("CHEQUE"))
}

func TestValidConnectionType(t *testing.T) {
	assert.True(t, ValidConnectionType(ConnectionPPPoE))
	assert.False(t, ValidConnectionType("VPN"))
}

func TestValidUserKind(t *testing.T) {
	assert.True(t, ValidUserKind(KindSuperAdmin))
	assert.False(t, ValidUserKind("ROOT"))
}

func TestUserFullName(t *testing.T) {
	assert.Equal(t, "Rahim Uddin", (&User{FirstName: "Rahim", LastName: "Uddin"}).FullName())
	assert.Equal(t, "Rahim", (&User{FirstName: "Rahim"}).FullName())
	assert.Equal(t, "Uddin", (&User{LastName: "Uddin"}).FullName())
	assert.Equal(t, "", (&User{}).FullName())
}
