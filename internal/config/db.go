package config

import (
	"context"
	"fmt"
	"time"

	"store_rating/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DBConfig holds database connection parameters (DB_HOST, DB_PORT, ...)
type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string `default:"disable"`
}

// DSN returns the libpq connection string for the config
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// ConnectDB establishes a connection to the PostgreSQL database
func ConnectDB(ctx context.Context, cfg DBConfig, log *logger.Logger) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	var err error

	// Retry connecting to the database a few times
	maxRetries := 5
	retryInterval := 5 * time.Second

	for i := 0; i < maxRetries; i++ {
		pool, err = pgxpool.New(ctx, cfg.DSN())
		if err == nil {
			err = pool.Ping(ctx)
			if err == nil {
				log.Info("connected to PostgreSQL", "host", cfg.Host, "db", cfg.Name)
				return pool, nil
			}
			pool.Close()
		}
		log.Warn("failed to connect to database",
			"attempt", i+1, "max_attempts", maxRetries, "retry_in", retryInterval, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}
	return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", maxRetries, err)
}

// AutoMigrate creates tables if they don't exist
func AutoMigrate(ctx context.Context, db *pgxpool.Pool, log *logger.Logger) error {
	sql := `
	CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		name VARCHAR(60) NOT NULL,
		email TEXT NOT NULL CONSTRAINT users_email_key UNIQUE,
		password_hash TEXT NOT NULL,
		address VARCHAR(400) NOT NULL,
		role TEXT NOT NULL CHECK (role IN ('admin', 'user', 'store_owner')) DEFAULT 'user',
		store_id INTEGER,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS stores (
		id SERIAL PRIMARY KEY,
		name VARCHAR(60) NOT NULL,
		email TEXT NOT NULL CONSTRAINT stores_email_key UNIQUE,
		address VARCHAR(400) NOT NULL,
		owner_id INTEGER NOT NULL UNIQUE REFERENCES users(id),
		average_rating NUMERIC(3,2) NOT NULL DEFAULT 0 CHECK (average_rating >= 0 AND average_rating <= 5),
		total_ratings INTEGER NOT NULL DEFAULT 0 CHECK (total_ratings >= 0),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	);

	DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'fk_users_store') THEN
			ALTER TABLE users ADD CONSTRAINT fk_users_store
				FOREIGN KEY (store_id) REFERENCES stores(id) DEFERRABLE INITIALLY DEFERRED;
		END IF;
	END
	$$;

	CREATE TABLE IF NOT EXISTS ratings (
		id BIGSERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id),
		store_id INTEGER NOT NULL REFERENCES stores(id),
		rating SMALLINT NOT NULL CHECK (rating BETWEEN 1 AND 5),
		comment VARCHAR(500),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT uq_ratings_user_store UNIQUE (user_id, store_id)
	);

	-- Indexes for performance
	CREATE INDEX IF NOT EXISTS idx_ratings_store_id ON ratings(store_id);
	CREATE INDEX IF NOT EXISTS idx_stores_name_address ON stores(name, address);
	CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);

    -- Function to update updated_at column
    CREATE OR REPLACE FUNCTION update_updated_at_column()
    RETURNS TRIGGER AS $$
    BEGIN
       NEW.updated_at = NOW();
       RETURN NEW;
    END;
    $$ language 'plpgsql';

    DO $$
    DECLARE
        t TEXT;
    BEGIN
        FOREACH t IN ARRAY ARRAY['users', 'stores', 'ratings'] LOOP
            IF NOT EXISTS (
                SELECT 1 FROM pg_trigger
                WHERE tgname = 'set_' || t || '_updated_at' AND tgrelid = t::regclass
            ) THEN
                EXECUTE format(
                    'CREATE TRIGGER %I BEFORE UPDATE ON %I FOR EACH ROW EXECUTE FUNCTION update_updated_at_column()',
                    'set_' || t || '_updated_at', t);
            END IF;
        END LOOP;
    END
    $$;
	`
	_, err := db.Exec(ctx, sql)
	if err != nil {
		return fmt.Errorf("unable to apply migrations: %w", err)
	}

	log.Info("AutoMigrate applied successfully")
	return nil
}

// ResetData empties every table and restarts the id sequences
func ResetData(ctx context.Context, db *pgxpool.Pool, log *logger.Logger) error {
	if _, err := db.Exec(ctx, `TRUNCATE TABLE ratings, stores, users RESTART IDENTITY CASCADE`); err != nil {
		return fmt.Errorf("unable to reset data: %w", err)
	}
	log.Warn("all users, stores and ratings deleted")
	return nil
}
