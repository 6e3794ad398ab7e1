package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/monline/billing/internal/models"
)

// CustomerFilter holds the optional list filters. Zero-valued fields are not
// applied; boolean filters are pointers so false is still a real constraint.
type CustomerFilter struct {
	Name       string
	Username   string
	Phone      string
	UserID     int64
	PackageID  int64
	PackageUID string
	IsActive   *bool
	IsFree     *bool
}

const customerSelect = `
	SELECT c.id, c.uid, c.name, c.email, c.phone, c.address, c.nid,
		c.connection_start_date, c.is_active, c.is_free,
		c.ip_address, c.mac_address, c.username, c.password,
		c.connection_type, c.credentials, c.created_at, c.updated_at,
		p.id, p.uid, p.name, p.speed_mbps, p.price::text, p.description,
		u.id, u.uid, u.first_name, u.last_name, u.phone, u.email
	FROM customers c
	LEFT JOIN packages p ON p.id = c.package_id
	LEFT JOIN users u ON u.id = c.user_id
`

type CustomerRepository struct {
	pool *pgxpool.Pool
}

func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

// Create inserts a new customer and fills in its generated id.
func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer, userID, packageID *int64) error {
	startDate, err := parseStartDate(c.ConnectionStartDate)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO customers (uid, name, email, phone, address, nid,
			user_id, package_id, connection_start_date, is_active, is_free,
			ip_address, mac_address, username, password, connection_type, credentials)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at, updated_at
	`

	err = r.pool.QueryRow(ctx, query,
		c.UID, c.Name, c.Email, c.Phone, c.Address, c.NID,
		userID, packageID, startDate, c.IsActive, c.IsFree,
		c.IPAddress, c.MACAddress, c.Username, c.Password, c.ConnectionType, c.Credentials,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}

	return nil
}

// GetByUID retrieves an active customer with its package and user by uid
func (r *CustomerRepository) GetByUID(ctx context.Context, uid string) (*models.Customer, error) {
	query := customerSelect + ` WHERE c.uid = $1 AND c.status = 'ACTIVE'`
	return r.scanCustomer(r.pool.QueryRow(ctx, query, uid))
}

// GetByID retrieves an active customer by numeric id
func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	query := customerSelect + ` WHERE c.id = $1 AND c.status = 'ACTIVE'`
	return r.scanCustomer(r.pool.QueryRow(ctx, query, id))
}

// GetByUsername retrieves an active customer by PPPoE username
func (r *CustomerRepository) GetByUsername(ctx context.Context, username string) (*models.Customer, error) {
	query := customerSelect + ` WHERE c.username = $1 AND c.status = 'ACTIVE'`
	return r.scanCustomer(r.pool.QueryRow(ctx, query, username))
}

// List returns one page of active customers matching the filter, plus the
// unpaged total for the same filter set.
func (r *CustomerRepository) List(ctx context.Context, f CustomerFilter, page, pageSize int) ([]*models.Customer, int, error) {
	conds := []string{"c.status = 'ACTIVE'"}
	args := []any{}

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Name != "" {
		add("c.name ILIKE '%%' || $%d || '%%'", f.Name)
	}
	if f.Username != "" {
		add("c.username ILIKE '%%' || $%d || '%%'", f.Username)
	}
	if f.Phone != "" {
		add("c.phone = $%d", f.Phone)
	}
	if f.UserID != 0 {
		add("c.user_id = $%d", f.UserID)
	}
	if f.PackageID != 0 {
		add("c.package_id = $%d", f.PackageID)
	}
	if f.PackageUID != "" {
		add("p.uid = $%d", f.PackageUID)
	}
	if f.IsActive != nil {
		add("c.is_active = $%d", *f.IsActive)
	}
	if f.IsFree != nil {
		add("c.is_free = $%d", *f.IsFree)
	}

	where := " WHERE " + strings.Join(conds, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM customers c LEFT JOIN packages p ON p.id = c.package_id` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	limit, offset := limitOffset(page, pageSize)
	args = append(args, limit, offset)
	query := customerSelect + where + fmt.Sprintf(
		" ORDER BY c.created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	customers := []*models.Customer{}
	for rows.Next() {
		c, err := r.scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		customers = append(customers, c)
	}

	return customers, total, rows.Err()
}

// ListUnbilled returns active, non-free customers on a priced package that
// have no payment row for the given billing month.
func (r *CustomerRepository) ListUnbilled(ctx context.Context, month string) ([]*models.Customer, error) {
	query := customerSelect + `
		WHERE c.status = 'ACTIVE' AND c.is_active AND NOT c.is_free
		  AND p.id IS NOT NULL AND p.price > 0
		  AND NOT EXISTS (
			SELECT 1 FROM payments pay
			WHERE pay.customer_id = c.id AND pay.billing_month = $1 AND pay.status = 'ACTIVE'
		  )
		ORDER BY c.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, month)
	if err != nil {
		return nil, fmt.Errorf("query unbilled customers: %w", err)
	}
	defer rows.Close()

	customers := []*models.Customer{}
	for rows.Next() {
		c, err := r.scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}

	return customers, rows.Err()
}

// Update persists all mutable fields of a customer
func (r *CustomerRepository) Update(ctx context.Context, c *models.Customer, userID, packageID *int64) error {
	startDate, err := parseStartDate(c.ConnectionStartDate)
	if err != nil {
		return err
	}

	query := `
		UPDATE customers SET
			name = $1, email = $2, phone = $3, address = $4, nid = $5,
			user_id = $6, package_id = $7, connection_start_date = $8,
			is_active = $9, is_free = $10, ip_address = $11, mac_address = $12,
			username = $13, password = $14, connection_type = $15, credentials = $16,
			updated_at = now()
		WHERE id = $17
	`

	_, err = r.pool.Exec(ctx, query,
		c.Name, c.Email, c.Phone, c.Address, c.NID,
		userID, packageID, startDate,
		c.IsActive, c.IsFree, c.IPAddress, c.MACAddress,
		c.Username, c.Password, c.ConnectionType, c.Credentials,
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}

	return nil
}

// SetActive updates only the active flag
func (r *CustomerRepository) SetActive(ctx context.Context, id int64, active bool) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE customers SET is_active = $1, updated_at = now() WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("set customer active: %w", err)
	}
	return nil
}

// Delete soft-deletes a customer. Customers with payment history refuse
// deletion with ErrInUse.
func (r *CustomerRepository) Delete(ctx context.Context, uid string) error {
	var payments int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM payments pay
		JOIN customers c ON c.id = pay.customer_id
		WHERE c.uid = $1 AND pay.status = 'ACTIVE'
	`, uid).Scan(&payments)
	if err != nil {
		return fmt.Errorf("count customer payments: %w", err)
	}
	if payments > 0 {
		return ErrInUse
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE customers SET status = 'REMOVED', updated_at = now() WHERE uid = $1 AND status = 'ACTIVE'`, uid)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CustomerRepository) scanCustomer(row pgx.Row) (*models.Customer, error) {
	c := &models.Customer{}
	var startDate *time.Time
	var pkgID *int64
	var pkgUID, pkgName, pkgPrice, pkgDesc *string
	var pkgSpeed *int
	var usrID *int64
	var usrUID, usrFirst, usrLast, usrPhone, usrEmail *string

	err := row.Scan(
		&c.ID, &c.UID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.NID,
		&startDate, &c.IsActive, &c.IsFree,
		&c.IPAddress, &c.MACAddress, &c.Username, &c.Password,
		&c.ConnectionType, &c.Credentials, &c.CreatedAt, &c.UpdatedAt,
		&pkgID, &pkgUID, &pkgName, &pkgSpeed, &pkgPrice, &pkgDesc,
		&usrID, &usrUID, &usrFirst, &usrLast, &usrPhone, &usrEmail,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan customer: %w", err)
	}

	if startDate != nil {
		c.ConnectionStartDate = startDate.Format("2006-01-02")
	}
	if pkgID != nil {
		c.Package = &models.Package{
			ID:          *pkgID,
			UID:         deref(pkgUID),
			Name:        deref(pkgName),
			SpeedMbps:   derefInt(pkgSpeed),
			Price:       deref(pkgPrice),
			Description: deref(pkgDesc),
		}
	}
	if usrID != nil {
		c.User = &models.UserLite{
			ID:        *usrID,
			UID:       deref(usrUID),
			FirstName: deref(usrFirst),
			LastName:  deref(usrLast),
			Phone:     deref(usrPhone),
			Email:     deref(usrEmail),
		}
	}

	return c, nil
}

func parseStartDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("parse connection_start_date: %w", err)
	}
	return &t, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
