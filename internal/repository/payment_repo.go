package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/monline/billing/internal/models"
)

// PaymentFilter holds the optional list filters for payments.
type PaymentFilter struct {
	CustomerName  string
	CustomerPhone string
	CustomerUID   string
	CollectedBy   string
	Month         string
	Paid          *bool
}

const paymentSelect = `
	SELECT pay.id, pay.uid, pay.bill_amount::text, pay.amount::text,
		pay.billing_month, pay.payment_method, pay.paid, pay.transaction_id,
		pay.payment_date, pay.note, pay.created_at, pay.updated_at,
		c.id, c.uid, c.name, c.email, c.phone, c.address, c.nid, c.is_free,
		u.id, u.uid, u.first_name, u.last_name, u.phone, u.email
	FROM payments pay
	JOIN customers c ON c.id = pay.customer_id
	LEFT JOIN users u ON u.id = pay.entry_by_id
`

type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

// Create inserts a new payment and fills in its generated id.
func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment, customerID int64, entryByID *int64) error {
	query := `
		INSERT INTO payments (uid, customer_id, entry_by_id, bill_amount, amount,
			billing_month, payment_method, paid, transaction_id, payment_date, note)
		VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		p.UID, customerID, entryByID, p.BillAmount, p.Amount,
		p.BillingMonth, p.PaymentMethod, p.Paid, p.TransactionID, p.PaymentDate, p.Note,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	return nil
}

// GetByUID retrieves an active payment with its customer and collector by uid
func (r *PaymentRepository) GetByUID(ctx context.Context, uid string) (*models.Payment, error) {
	query := paymentSelect + ` WHERE pay.uid = $1 AND pay.status = 'ACTIVE'`
	return r.scanPayment(r.pool.QueryRow(ctx, query, uid))
}

// GetByCustomerAndMonth retrieves the latest active payment row for one
// customer and billing month, creation order descending.
func (r *PaymentRepository) GetByCustomerAndMonth(ctx context.Context, customerID int64, month string) (*models.Payment, error) {
	query := paymentSelect + `
		WHERE pay.customer_id = $1 AND pay.billing_month = $2 AND pay.status = 'ACTIVE'
		ORDER BY pay.created_at DESC
		LIMIT 1`
	return r.scanPayment(r.pool.QueryRow(ctx, query, customerID, month))
}

// List returns one page of active payments matching the filter, plus the
// unpaged total for the same filter set.
func (r *PaymentRepository) List(ctx context.Context, f PaymentFilter, page, pageSize int) ([]*models.Payment, int, error) {
	conds := []string{"pay.status = 'ACTIVE'"}
	args := []any{}

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.CustomerName != "" {
		add("c.name ILIKE '%%' || $%d || '%%'", f.CustomerName)
	}
	if f.CustomerPhone != "" {
		add("c.phone = $%d", f.CustomerPhone)
	}
	if f.CustomerUID != "" {
		add("c.uid = $%d", f.CustomerUID)
	}
	if f.CollectedBy != "" {
		add("u.first_name ILIKE '%%' || $%d || '%%'", f.CollectedBy)
	}
	if f.Month != "" {
		add("pay.billing_month = $%d", f.Month)
	}
	if f.Paid != nil {
		add("pay.paid = $%d", *f.Paid)
	}

	where := " WHERE " + strings.Join(conds, " AND ")

	var total int
	countQuery := `
		SELECT COUNT(*) FROM payments pay
		JOIN customers c ON c.id = pay.customer_id
		LEFT JOIN users u ON u.id = pay.entry_by_id` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}

	limit, offset := limitOffset(page, pageSize)
	args = append(args, limit, offset)
	query := paymentSelect + where + fmt.Sprintf(
		" ORDER BY pay.created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	payments := []*models.Payment{}
	for rows.Next() {
		p, err := r.scanPayment(rows)
		if err != nil {
			return nil, 0, err
		}
		payments = append(payments, p)
	}

	return payments, total, rows.Err()
}

// Update persists all mutable fields of a payment
func (r *PaymentRepository) Update(ctx context.Context, p *models.Payment, entryByID *int64) error {
	query := `
		UPDATE payments SET
			bill_amount = $1::numeric, amount = $2::numeric, billing_month = $3,
			payment_method = $4, paid = $5, transaction_id = $6,
			payment_date = $7, note = $8, entry_by_id = COALESCE($9, entry_by_id),
			updated_at = now()
		WHERE id = $10
	`

	_, err := r.pool.Exec(ctx, query,
		p.BillAmount, p.Amount, p.BillingMonth,
		p.PaymentMethod, p.Paid, p.TransactionID,
		p.PaymentDate, p.Note, entryByID, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}

	return nil
}

// Delete soft-deletes a payment by uid
func (r *PaymentRepository) Delete(ctx context.Context, uid string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE payments SET status = 'REMOVED', updated_at = now() WHERE uid = $1 AND status = 'ACTIVE'`, uid)
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateBatch inserts generated bill rows in one transaction.
func (r *PaymentRepository) CreateBatch(ctx context.Context, payments []*models.Payment, customerIDs []int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO payments (uid, customer_id, bill_amount, amount,
			billing_month, payment_method, paid, note)
		VALUES ($1, $2, $3::numeric, $4::numeric, $5, $6, $7, $8)
	`

	for i, p := range payments {
		_, err := tx.Exec(ctx, query,
			p.UID, customerIDs[i], p.BillAmount, p.Amount,
			p.BillingMonth, p.PaymentMethod, p.Paid, p.Note,
		)
		if err != nil {
			return fmt.Errorf("insert bill payment: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// DashboardStats aggregates the summary counters in one round-trip.
func (r *PaymentRepository) DashboardStats(ctx context.Context, currentMonth string) (*models.DashboardStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM customers WHERE status = 'ACTIVE'),
			(SELECT COUNT(*) FROM customers WHERE status = 'ACTIVE' AND is_active),
			(SELECT COUNT(*) FROM packages WHERE status = 'ACTIVE'),
			(SELECT COUNT(*) FROM payments WHERE status = 'ACTIVE' AND paid),
			(SELECT COALESCE(SUM(amount), 0)::numeric(12,2)::text FROM payments WHERE status = 'ACTIVE' AND paid),
			(SELECT COUNT(*) FROM payments WHERE status = 'ACTIVE' AND NOT paid),
			(SELECT COUNT(*) FROM payments WHERE status = 'ACTIVE' AND paid AND billing_month = $1)
	`

	stats := &models.DashboardStats{}
	err := r.pool.QueryRow(ctx, query, currentMonth).Scan(
		&stats.TotalCustomers, &stats.ActiveCustomers, &stats.TotalPackages,
		&stats.TotalPayments, &stats.TotalRevenue, &stats.PendingPayments,
		&stats.CurrentMonthPayments,
	)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}

	return stats, nil
}

func (r *PaymentRepository) scanPayment(row pgx.Row) (*models.Payment, error) {
	p := &models.Payment{}
	cust := &models.Customer{}
	var usrID *int64
	var usrUID, usrFirst, usrLast, usrPhone, usrEmail *string

	err := row.Scan(
		&p.ID, &p.UID, &p.BillAmount, &p.Amount,
		&p.BillingMonth, &p.PaymentMethod, &p.Paid, &p.TransactionID,
		&p.PaymentDate, &p.Note, &p.CreatedAt, &p.UpdatedAt,
		&cust.ID, &cust.UID, &cust.Name, &cust.Email, &cust.Phone, &cust.Address, &cust.NID, &cust.IsFree,
		&usrID, &usrUID, &usrFirst, &usrLast, &usrPhone, &usrEmail,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan payment: %w", err)
	}

	p.Customer = cust
	if usrID != nil {
		p.EntryBy = &models.UserLite{
			ID:        *usrID,
			UID:       deref(usrUID),
			FirstName: deref(usrFirst),
			LastName:  deref(usrLast),
			Phone:     deref(usrPhone),
			Email:     deref(usrEmail),
		}
	}

	return p, nil
}
