package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'report_status') THEN
			CREATE TYPE report_status AS ENUM ('active', 'deleted', 'spam');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS reports (
		id BIGSERIAL PRIMARY KEY,
		uuid UUID NOT NULL UNIQUE DEFAULT uuid_generate_v4(),
		types TEXT[] NOT NULL,
		description TEXT,
		latitude DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL,
		address TEXT,
		city TEXT,
		voivodeship TEXT,
		postal_code TEXT,
		contact_email TEXT,
		reported_at TIMESTAMPTZ NOT NULL,
		status report_status NOT NULL DEFAULT 'active',
		delete_token UUID,
		ip_address TEXT,
		user_agent TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_reports_status ON reports (status);`,
	`CREATE INDEX IF NOT EXISTS idx_reports_reported_at ON reports (reported_at);`,
	`CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports (created_at);`,
	`CREATE INDEX IF NOT EXISTS idx_reports_city ON reports (city);`,
	`CREATE INDEX IF NOT EXISTS idx_reports_voivodeship ON reports (voivodeship);`,
	`CREATE INDEX IF NOT EXISTS idx_reports_coords ON reports (latitude, longitude);`,
	`CREATE TABLE IF NOT EXISTS report_photos (
		id BIGSERIAL PRIMARY KEY,
		report_id BIGINT NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		filename TEXT NOT NULL,
		size BIGINT NOT NULL,
		mime_type VARCHAR(64) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_report_photos_report_id ON report_photos (report_id);`,
	`CREATE TABLE IF NOT EXISTS admin_users (
		id SERIAL PRIMARY KEY,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		name VARCHAR(255),
		role VARCHAR(32) NOT NULL DEFAULT 'admin',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		last_login_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
