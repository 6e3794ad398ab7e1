package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/monline/billing/internal/models"
)

const userColumns = `id, uid, first_name, last_name, phone, email, gender,
	image, kind, is_staff, password_hash, status, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a new user and fills in its generated id.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (uid, first_name, last_name, phone, email, gender,
			image, kind, is_staff, password_hash, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		u.UID, u.FirstName, u.LastName, u.Phone, u.Email, u.Gender,
		u.Image, u.Kind, u.IsStaff, u.Password, u.Status,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByUID retrieves an active user by uid
func (r *UserRepository) GetByUID(ctx context.Context, uid string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1 AND status = 'ACTIVE'`
	return r.scanUser(r.pool.QueryRow(ctx, query, uid))
}

// GetByID retrieves an active user by numeric id
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND status = 'ACTIVE'`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

// GetByPhone retrieves an active user by phone number (the login identifier)
func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone = $1 AND status = 'ACTIVE'`
	return r.scanUser(r.pool.QueryRow(ctx, query, phone))
}

// List returns one page of active users plus the unpaged total.
func (r *UserRepository) List(ctx context.Context, page, pageSize int) ([]*models.User, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE status = 'ACTIVE'`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	limit, offset := limitOffset(page, pageSize)
	query := `SELECT ` + userColumns + `
		FROM users WHERE status = 'ACTIVE'
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}

	return users, total, rows.Err()
}

// Update persists all mutable fields of a user
func (r *UserRepository) Update(ctx context.Context, u *models.User) error {
	query := `
		UPDATE users SET
			first_name = $1, last_name = $2, phone = $3, email = $4,
			gender = $5, image = $6, kind = $7, is_staff = $8,
			password_hash = $9, updated_at = now()
		WHERE id = $10
	`

	_, err := r.pool.Exec(ctx, query,
		u.FirstName, u.LastName, u.Phone, u.Email,
		u.Gender, u.Image, u.Kind, u.IsStaff,
		u.Password, u.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

// Delete soft-deletes a user by uid
func (r *UserRepository) Delete(ctx context.Context, uid string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET status = 'REMOVED', updated_at = now() WHERE uid = $1 AND status = 'ACTIVE'`, uid)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) scanUser(row pgx.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.ID, &u.UID, &u.FirstName, &u.LastName, &u.Phone, &u.Email, &u.Gender,
		&u.Image, &u.Kind, &u.IsStaff, &u.Password, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}
