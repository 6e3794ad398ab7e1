package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/monline/billing/internal/models"
	"github.com/monline/billing/internal/repository"
)

var (
	// ErrValidation marks caller mistakes that should surface as 400s.
	ErrValidation = errors.New("validation failed")
	// ErrFreeCustomer is returned when a payment is attempted for a
	// customer on a free connection.
	ErrFreeCustomer = errors.New("customer is on a free connection")
	// ErrAlreadyPaid is returned when the billing month already has a
	// completed payment.
	ErrAlreadyPaid = errors.New("billing month is already paid")
)

// BillingService handles payments, monthly bill generation, connection
// status toggling and the dashboard summary.
type BillingService struct {
	paymentRepo  *repository.PaymentRepository
	customerRepo *repository.CustomerRepository
	userRepo     *repository.UserRepository
}

func NewBillingService(
	paymentRepo *repository.PaymentRepository,
	customerRepo *repository.CustomerRepository,
	userRepo *repository.UserRepository,
) *BillingService {
	return &BillingService{
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
		userRepo:     userRepo,
	}
}

// ==================== Payments ====================

// ListPayments returns one page of payments matching the filter.
func (s *BillingService) ListPayments(ctx context.Context, f repository.PaymentFilter, page, pageSize int) ([]*models.Payment, int, error) {
	return s.paymentRepo.List(ctx, f, page, pageSize)
}

// GetPayment retrieves a single payment by uid.
func (s *BillingService) GetPayment(ctx context.Context, uid string) (*models.Payment, error) {
	return s.paymentRepo.GetByUID(ctx, uid)
}

// ListCustomerPayments returns the payment history of one customer.
func (s *BillingService) ListCustomerPayments(ctx context.Context, customerUID string, page, pageSize int) ([]*models.Payment, int, error) {
	// 404 for an unknown customer instead of a silent empty page
	if _, err := s.customerRepo.GetByUID(ctx, customerUID); err != nil {
		return nil, 0, err
	}
	return s.paymentRepo.List(ctx, repository.PaymentFilter{CustomerUID: customerUID}, page, pageSize)
}

// CreatePayment records a collection against a customer's bill.
//
// If an unpaid bill already exists for the billing month it is completed in
// place rather than duplicated. A payment that covers the bill amount marks
// the row paid and reactivates a disconnected customer.
func (s *BillingService) CreatePayment(ctx context.Context, input *models.PaymentInput, entryByID int64) (*models.Payment, error) {
	if input.CustomerID == nil {
		return nil, fmt.Errorf("%w: customer_id is required", ErrValidation)
	}
	if input.BillingMonth == nil || !models.ValidMonth(*input.BillingMonth) {
		return nil, fmt.Errorf("%w: billing_month must be a valid month name", ErrValidation)
	}

	customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer.IsFree {
		return nil, ErrFreeCustomer
	}

	billAmount := ""
	if input.BillAmount != nil {
		billAmount = *input.BillAmount
	} else if customer.Package != nil {
		billAmount = customer.Package.Price
	}
	if billAmount == "" {
		return nil, fmt.Errorf("%w: bill_amount is required when the customer has no package", ErrValidation)
	}

	amount := "0"
	if input.Amount != nil {
		amount = *input.Amount
	}

	method := models.MethodCash
	if input.PaymentMethod != nil {
		method = *input.PaymentMethod
	}
	if !models.ValidPaymentMethod(method) {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, method)
	}

	paid, err := s.resolvePaid(input.Paid, amount, billAmount)
	if err != nil {
		return nil, err
	}

	entryBy, err := s.userRepo.GetByID(ctx, entryByID)
	if err != nil {
		return nil, fmt.Errorf("look up collector: %w", err)
	}

	payment := &models.Payment{
		BillAmount:    billAmount,
		Amount:        amount,
		BillingMonth:  *input.BillingMonth,
		PaymentMethod: method,
		Paid:          paid,
	}
	if input.TransactionID != nil && *input.TransactionID != "" {
		payment.TransactionID = *input.TransactionID
	} else {
		payment.TransactionID = uuid.New().String()
	}
	if input.PaymentDate != nil {
		payment.PaymentDate = input.PaymentDate
	} else if paid {
		now := time.Now()
		payment.PaymentDate = &now
	}
	if input.Note != nil && *input.Note != "" {
		payment.Note = *input.Note
	} else {
		payment.Note = "Payment received by " + entryBy.FullName()
	}

	existing, err := s.paymentRepo.GetByCustomerAndMonth(ctx, customer.ID, payment.BillingMonth)
	switch {
	case err == nil && existing.Paid:
		return nil, ErrAlreadyPaid
	case err == nil:
		// Complete the pending bill instead of stacking a second row.
		payment.ID = existing.ID
		payment.UID = existing.UID
		if err := s.paymentRepo.Update(ctx, payment, &entryBy.ID); err != nil {
			return nil, err
		}
	case errors.Is(err, repository.ErrNotFound):
		payment.UID = uuid.New().String()
		if err := s.paymentRepo.Create(ctx, payment, customer.ID, &entryBy.ID); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if paid && !customer.IsActive {
		if err := s.customerRepo.SetActive(ctx, customer.ID, true); err != nil {
			log.Printf("[BillingService] Failed to reactivate customer %s after payment: %v", customer.UID, err)
		}
	}

	return s.paymentRepo.GetByUID(ctx, payment.UID)
}

// UpdatePayment applies the supplied fields to an existing payment. The
// paid flag is recomputed only when the input touches it, so a note-only
// update never flips a payment back to unpaid.
func (s *BillingService) UpdatePayment(ctx context.Context, uid string, input *models.PaymentInput, entryByID int64) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	if err := s.applyPaymentInput(payment, input); err != nil {
		return nil, err
	}

	if err := s.paymentRepo.Update(ctx, payment, &entryByID); err != nil {
		return nil, err
	}
	return s.paymentRepo.GetByUID(ctx, uid)
}

// applyPaymentInput copies the non-nil input fields onto payment. The paid
// flag is recomputed when the input carries paid, amount or bill_amount;
// anything else leaves it untouched.
func (s *BillingService) applyPaymentInput(payment *models.Payment, input *models.PaymentInput) error {
	if input.BillAmount != nil {
		payment.BillAmount = *input.BillAmount
	}
	if input.Amount != nil {
		payment.Amount = *input.Amount
	}
	if input.BillingMonth != nil {
		if !models.ValidMonth(*input.BillingMonth) {
			return fmt.Errorf("%w: billing_month must be a valid month name", ErrValidation)
		}
		payment.BillingMonth = *input.BillingMonth
	}
	if input.PaymentMethod != nil {
		if !models.ValidPaymentMethod(*input.PaymentMethod) {
			return fmt.Errorf("%w: unknown payment method %q", ErrValidation, *input.PaymentMethod)
		}
		payment.PaymentMethod = *input.PaymentMethod
	}
	if input.TransactionID != nil {
		payment.TransactionID = *input.TransactionID
	}
	if input.PaymentDate != nil {
		payment.PaymentDate = input.PaymentDate
	}
	if input.Note != nil {
		payment.Note = *input.Note
	}

	if input.Paid != nil || input.Amount != nil || input.BillAmount != nil {
		paid, err := s.resolvePaid(input.Paid, payment.Amount, payment.BillAmount)
		if err != nil {
			return err
		}
		payment.Paid = paid
		if payment.Paid && payment.PaymentDate == nil {
			now := time.Now()
			payment.PaymentDate = &now
		}
	}
	return nil
}

// DeletePayment soft-deletes a payment.
func (s *BillingService) DeletePayment(ctx context.Context, uid string) error {
	return s.paymentRepo.Delete(ctx, uid)
}

// ==================== Bill generation ====================

// GenerateBills creates pending payment rows for every billable customer
// who does not yet have one for the month. Month defaults to the current
// calendar month.
func (s *BillingService) GenerateBills(ctx context.Context, month string) (*models.GenerateBillsResponse, error) {
	if month == "" {
		month = CurrentBillingMonth()
	}
	month = strings.ToUpper(month)
	if !models.ValidMonth(month) {
		return nil, fmt.Errorf("%w: unknown billing month %q", ErrValidation, month)
	}

	customers, err := s.customerRepo.ListUnbilled(ctx, month)
	if err != nil {
		return nil, err
	}

	payments := make([]*models.Payment, 0, len(customers))
	customerIDs := make([]int64, 0, len(customers))
	for _, c := range customers {
		payments = append(payments, &models.Payment{
			UID:           uuid.New().String(),
			BillAmount:    c.Package.Price,
			Amount:        "0",
			BillingMonth:  month,
			PaymentMethod: models.MethodOther,
			Paid:          false,
			Note:          "Auto-generated bill for " + month,
		})
		customerIDs = append(customerIDs, c.ID)
	}

	if len(payments) > 0 {
		if err := s.paymentRepo.CreateBatch(ctx, payments, customerIDs); err != nil {
			return nil, err
		}
	}

	log.Printf("[BillingService] Generated %d bills for %s", len(payments), month)
	return &models.GenerateBillsResponse{
		Message:              fmt.Sprintf("Generated %d bills for %s", len(payments), month),
		CreatedPaymentsCount: len(payments),
	}, nil
}

// ==================== Status toggle ====================

// ToggleStatus flips a customer's connection by PPPoE username.
func (s *BillingService) ToggleStatus(ctx context.Context, req *models.StatusToggleRequest) (*models.StatusToggleResponse, error) {
	customer, err := s.customerRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	if err := s.customerRepo.SetActive(ctx, customer.ID, *req.IsActive); err != nil {
		return nil, err
	}

	state := "deactivated"
	if *req.IsActive {
		state = "activated"
	}
	log.Printf("[BillingService] Connection %s for customer %s", state, customer.UID)
	return &models.StatusToggleResponse{
		Message: fmt.Sprintf("Customer %s %s", req.Username, state),
	}, nil
}

// ==================== Dashboard ====================

// Dashboard returns the aggregate summary counters.
func (s *BillingService) Dashboard(ctx context.Context) (*models.DashboardStats, error) {
	return s.paymentRepo.DashboardStats(ctx, CurrentBillingMonth())
}

// CurrentBillingMonth returns the current calendar month in the uppercase
// form billing months use ("AUGUST").
func CurrentBillingMonth() string {
	return strings.ToUpper(time.Now().Month().String())
}

// resolvePaid decides the paid flag. An explicit flag wins; otherwise the
// collected amount must cover the bill.
func (s *BillingService) resolvePaid(explicit *bool, amount, billAmount string) (bool, error) {
	if explicit != nil {
		return *explicit, nil
	}

	amt, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return false, fmt.Errorf("%w: amount must be a decimal number", ErrValidation)
	}
	bill, err := strconv.ParseFloat(billAmount, 64)
	if err != nil {
		return false, fmt.Errorf("%w: bill_amount must be a decimal number", ErrValidation)
	}
	return amt >= bill && bill > 0, nil
}
