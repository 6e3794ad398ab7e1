package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the schema if it does not exist yet. Statements are
// idempotent so the server can run this on every start.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			uid UUID NOT NULL UNIQUE,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL DEFAULT '',
			gender TEXT NOT NULL DEFAULT 'UNKNOWN',
			image TEXT NOT NULL DEFAULT '',
			kind TEXT NOT NULL DEFAULT 'CUSTOMER',
			is_staff BOOLEAN NOT NULL DEFAULT FALSE,
			password_hash TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'ACTIVE',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS packages (
			id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			uid UUID NOT NULL UNIQUE,
			name TEXT NOT NULL,
			speed_mbps INTEGER NOT NULL DEFAULT 10,
			price NUMERIC(10,2) NOT NULL DEFAULT 0,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'ACTIVE',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS customers (
			id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			uid UUID NOT NULL UNIQUE,
			name TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			nid TEXT NOT NULL DEFAULT '',
			user_id BIGINT REFERENCES users(id) ON DELETE SET NULL,
			package_id BIGINT REFERENCES packages(id) ON DELETE SET NULL,
			connection_start_date DATE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			is_free BOOLEAN NOT NULL DEFAULT FALSE,
			ip_address TEXT NOT NULL DEFAULT '',
			mac_address TEXT NOT NULL DEFAULT '',
			username TEXT NOT NULL DEFAULT '',
			password TEXT NOT NULL DEFAULT '',
			connection_type TEXT NOT NULL DEFAULT 'DHCP',
			credentials JSONB,
			status TEXT NOT NULL DEFAULT 'ACTIVE',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS payments (
			id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			uid UUID NOT NULL UNIQUE,
			customer_id BIGINT NOT NULL REFERENCES customers(id) ON DELETE CASCADE,
			entry_by_id BIGINT REFERENCES users(id) ON DELETE SET NULL,
			bill_amount NUMERIC(10,2) NOT NULL DEFAULT 0,
			amount NUMERIC(10,2) NOT NULL DEFAULT 0,
			billing_month TEXT NOT NULL DEFAULT 'JANUARY',
			payment_method TEXT NOT NULL DEFAULT 'CASH',
			paid BOOLEAN NOT NULL DEFAULT FALSE,
			transaction_id TEXT NOT NULL DEFAULT '',
			payment_date TIMESTAMPTZ,
			note TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'ACTIVE',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_customers_username ON customers (username)`,
		`CREATE INDEX IF NOT EXISTS idx_customers_package ON customers (package_id)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_customer ON payments (customer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_month ON payments (billing_month)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	return nil
}
