package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/monline/billing/internal/models"
)

// ErrInUse is returned when a delete would orphan dependent rows.
var ErrInUse = errors.New("resource is in use")

const packageColumns = `id, uid, name, speed_mbps, price::text, description, created_at, updated_at`

type PackageRepository struct {
	pool *pgxpool.Pool
}

func NewPackageRepository(pool *pgxpool.Pool) *PackageRepository {
	return &PackageRepository{pool: pool}
}

// Create inserts a new package and fills in its generated id.
func (r *PackageRepository) Create(ctx context.Context, p *models.Package) error {
	query := `
		INSERT INTO packages (uid, name, speed_mbps, price, description)
		VALUES ($1, $2, $3, $4::numeric, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		p.UID, p.Name, p.SpeedMbps, p.Price, p.Description,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert package: %w", err)
	}

	return nil
}

// GetByUID retrieves an active package by uid
func (r *PackageRepository) GetByUID(ctx context.Context, uid string) (*models.Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages WHERE uid = $1 AND status = 'ACTIVE'`
	return r.scanPackage(r.pool.QueryRow(ctx, query, uid))
}

// GetByID retrieves an active package by numeric id
func (r *PackageRepository) GetByID(ctx context.Context, id int64) (*models.Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages WHERE id = $1 AND status = 'ACTIVE'`
	return r.scanPackage(r.pool.QueryRow(ctx, query, id))
}

// List returns one page of active packages plus the unpaged total.
func (r *PackageRepository) List(ctx context.Context, page, pageSize int) ([]*models.Package, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM packages WHERE status = 'ACTIVE'`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count packages: %w", err)
	}

	limit, offset := limitOffset(page, pageSize)
	query := `SELECT ` + packageColumns + `
		FROM packages WHERE status = 'ACTIVE'
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query packages: %w", err)
	}
	defer rows.Close()

	packages := []*models.Package{}
	for rows.Next() {
		p, err := r.scanPackage(rows)
		if err != nil {
			return nil, 0, err
		}
		packages = append(packages, p)
	}

	return packages, total, rows.Err()
}

// Update persists all mutable fields of a package
func (r *PackageRepository) Update(ctx context.Context, p *models.Package) error {
	query := `
		UPDATE packages SET
			name = $1, speed_mbps = $2, price = $3::numeric, description = $4, updated_at = now()
		WHERE id = $5
	`

	_, err := r.pool.Exec(ctx, query, p.Name, p.SpeedMbps, p.Price, p.Description, p.ID)
	if err != nil {
		return fmt.Errorf("update package: %w", err)
	}

	return nil
}

// Delete soft-deletes a package. Packages still referenced by active
// customers refuse deletion with ErrInUse.
func (r *PackageRepository) Delete(ctx context.Context, uid string) error {
	var inUse int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM customers c
		JOIN packages p ON p.id = c.package_id
		WHERE p.uid = $1 AND c.status = 'ACTIVE'
	`, uid).Scan(&inUse)
	if err != nil {
		return fmt.Errorf("count package customers: %w", err)
	}
	if inUse > 0 {
		return ErrInUse
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE packages SET status = 'REMOVED', updated_at = now() WHERE uid = $1 AND status = 'ACTIVE'`, uid)
	if err != nil {
		return fmt.Errorf("delete package: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PackageRepository) scanPackage(row pgx.Row) (*models.Package, error) {
	p := &models.Package{}
	err := row.Scan(
		&p.ID, &p.UID, &p.Name, &p.SpeedMbps, &p.Price, &p.Description,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan package: %w", err)
	}
	return p, nil
}
