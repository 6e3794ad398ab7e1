package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monline/billing/internal/models"
)

func TestResolvePaid(t *testing.T) {
	s := &BillingService{}
	explicitTrue := true
	explicitFalse := false

	tests := []struct {
		name       string
		explicit   *bool
		amount     string
		billAmount string
		want       bool
	}{
		{"explicit true wins", &explicitTrue, "0", "500.00", true},
		{"explicit false wins", &explicitFalse, "500.00", "500.00", false},
		{"full amount covers the bill", nil, "500.00", "500.00", true},
		{"overpayment covers the bill", nil, "600.00", "500.00", true},
		{"partial payment stays pending", nil, "300.00", "500.00", false},
		{"zero bill never auto-pays", nil, "0", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paid, err := s.resolvePaid(tt.explicit, tt.amount, tt.billAmount)
			require.NoError(t, err)
			assert.Equal(t, tt.want, paid)
		})
	}
}

func TestResolvePaid_RejectsNonDecimal(t *testing.T) {
	s := &BillingService{}

	_, err := s.resolvePaid(nil, "five hundred", "500.00")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.resolvePaid(nil, "500.00", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestApplyPaymentInput_NoteOnlyUpdateKeepsPaid(t *testing.T) {
	s := &BillingService{}
	payment := &models.Payment{
		BillAmount:   "500.00",
		Amount:       "300.00",
		BillingMonth: "AUGUST",
		Paid:         true,
	}
	note := "Collected at the customer's shop"

	err := s.applyPaymentInput(payment, &models.PaymentInput{Note: &note})
	require.NoError(t, err)

	assert.True(t, payment.Paid, "a note-only update must not flip the paid flag")
	assert.Equal(t, note, payment.Note)
}

func TestApplyPaymentInput_AmountUpdateRecomputesPaid(t *testing.T) {
	s := &BillingService{}
	payment := &models.Payment{
		BillAmount:   "500.00",
		Amount:       "300.00",
		BillingMonth: "AUGUST",
		Paid:         false,
	}
	amount := "500.00"

	err := s.applyPaymentInput(payment, &models.PaymentInput{Amount: &amount})
	require.NoError(t, err)

	assert.True(t, payment.Paid)
	require.NotNil(t, payment.PaymentDate)
}

func TestApplyPaymentInput_ExplicitPaidWins(t *testing.T) {
	s := &BillingService{}
	payment := &models.Payment{
		BillAmount:   "500.00",
		Amount:       "500.00",
		BillingMonth: "AUGUST",
		Paid:         true,
	}
	unpaid := false

	err := s.applyPaymentInput(payment, &models.PaymentInput{Paid: &unpaid})
	require.NoError(t, err)

	assert.False(t, payment.Paid)
}

func TestCurrentBillingMonth(t *testing.T) {
	month := CurrentBillingMonth()
	assert.True(t, models.ValidMonth(month), "got %q", month)
}
