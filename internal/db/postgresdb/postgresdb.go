// Package postgresdb provides a PostgreSQL-based implementation of the storage
// interface for persisting users and short links.
// The schema is managed with goose migrations.
package postgresdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/patric-chuzhbe/linkboard/internal/models"
)

const pgUniqueViolationCode = "23505"

// PostgresDB is a PostgreSQL-backed implementation of the application storage.
type PostgresDB struct {
	database          *sql.DB
	connectionTimeout time.Duration
}

type initOptions struct {
	DBPreReset bool
}

// InitOption defines a functional option for configuring database initialization.
type InitOption func(*initOptions)

// WithDBPreReset enables or disables resetting the database schema before migration.
// It can be used for test setups or development purposes.
func WithDBPreReset(value bool) InitOption {
	return func(options *initOptions) {
		options.DBPreReset = value
	}
}

// New establishes a connection to the PostgreSQL database,
// runs schema migrations, and returns a configured PostgresDB instance.
func New(
	ctx context.Context,
	databaseDSN string,
	connectionTimeout time.Duration,
	migrationsDir string,
	optionsProto ...InitOption,
) (*PostgresDB, error) {
	options := &initOptions{
		DBPreReset: false,
	}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	database, err := sql.Open("pgx", databaseDSN)
	if err != nil {
		return nil, err
	}

	result := &PostgresDB{
		database:          database,
		connectionTimeout: connectionTimeout,
	}

	if options.DBPreReset {
		if err := result.resetDB(ctx); err != nil {
			return nil, fmt.Errorf("error while `result.resetDB()` calling: %w", err)
		}
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("error while `goose.SetDialect()` calling: %w", err)
	}

	if err := goose.Up(result.database, migrationsDir); err != nil {
		return nil, fmt.Errorf("error while `goose.Up()` calling: %w", err)
	}

	return result, nil
}

// CreateUser inserts a new user record and returns the generated ID.
// A duplicate username is reported as models.ErrUsernameTaken.
func (db *PostgresDB) CreateUser(ctx context.Context, usr *models.User) (string, error) {
	row := db.database.QueryRowContext(
		ctx,
		`INSERT INTO users (id, username, password_hash) VALUES ($1, $2, $3) RETURNING id`,
		usr.ID,
		usr.Username,
		usr.PasswordHash,
	)
	var userIDFromDB string
	err := row.Scan(&userIDFromDB)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode {
			return "", models.ErrUsernameTaken
		}
		return "", err
	}

	return userIDFromDB, nil
}

// GetUserByUsername fetches a user by their unique username.
func (db *PostgresDB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	row := db.database.QueryRowContext(
		ctx,
		`SELECT id, username, password_hash FROM users WHERE username = $1`,
		username,
	)

	return scanUser(row)
}

// GetUserByID fetches a user by their UUID.
func (db *PostgresDB) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	row := db.database.QueryRowContext(
		ctx,
		`SELECT id, username, password_hash FROM users WHERE id = $1`,
		userID,
	)

	return scanUser(row)
}

// InsertLink persists a new short link record.
func (db *PostgresDB) InsertLink(ctx context.Context, link *models.ShortLink) error {
	_, err := db.database.ExecContext(
		ctx,
		`
			INSERT INTO short_links (id, short, "full", owner_id, clicks, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)
		`,
		link.ID,
		link.Short,
		link.Full,
		link.OwnerID,
		link.Clicks,
		link.CreatedAt,
	)

	return err
}

// GetLinkByID fetches a short link by its UUID.
func (db *PostgresDB) GetLinkByID(ctx context.Context, linkID string) (*models.ShortLink, error) {
	row := db.database.QueryRowContext(
		ctx,
		`SELECT id, short, "full", owner_id, clicks, created_at FROM short_links WHERE id = $1`,
		linkID,
	)

	return scanLink(row)
}

// GetLinksByOwner returns the links owned by the given user and nothing else.
func (db *PostgresDB) GetLinksByOwner(ctx context.Context, ownerID string) ([]models.ShortLink, error) {
	rows, err := db.database.QueryContext(
		ctx,
		`
			SELECT id, short, "full", owner_id, clicks, created_at
				FROM short_links
				WHERE owner_id = $1
				ORDER BY created_at
		`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []models.ShortLink{}
	for rows.Next() {
		var link models.ShortLink
		err = rows.Scan(&link.ID, &link.Short, &link.Full, &link.OwnerID, &link.Clicks, &link.CreatedAt)
		if err != nil {
			return nil, err
		}

		result = append(result, link)
	}

	err = rows.Err()
	if err != nil {
		return nil, err
	}

	return result, nil
}

// DeleteLink removes a short link by its UUID.
func (db *PostgresDB) DeleteLink(ctx context.Context, linkID string) error {
	result, err := db.database.ExecContext(
		ctx,
		`DELETE FROM short_links WHERE id = $1`,
		linkID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrNotFound
	}

	return nil
}

// IsShortExists checks if the specified short code exists in the database.
func (db *PostgresDB) IsShortExists(ctx context.Context, short string) (bool, error) {
	row := db.database.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM short_links WHERE short = $1`,
		short,
	)
	var shortCount int
	err := row.Scan(&shortCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, err
	}

	return shortCount > 0, nil
}

// RegisterClick increments the click counter of the link with the given short
// code and returns its full URL. The increment and the read happen in a
// single statement, so concurrent redirects never lose updates.
func (db *PostgresDB) RegisterClick(ctx context.Context, short string) (string, error) {
	row := db.database.QueryRowContext(
		ctx,
		`UPDATE short_links SET clicks = clicks + 1 WHERE short = $1 RETURNING "full"`,
		short,
	)
	var full string
	err := row.Scan(&full)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", models.ErrNotFound
		}
		return "", err
	}

	return full, nil
}

// Ping verifies connectivity with the PostgreSQL database within the configured timeout.
func (db *PostgresDB) Ping(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, db.connectionTimeout)
	defer cancel()

	return db.database.PingContext(ctxWithTimeout)
}

// Close closes the database connection and releases any associated resources.
func (db *PostgresDB) Close() error {
	return db.database.Close()
}

func (db *PostgresDB) resetDB(ctx context.Context) error {
	_, err := db.database.ExecContext(
		ctx,
		`
			DO $$
			DECLARE
				r RECORD;
			BEGIN
				FOR r IN (SELECT tablename FROM pg_tables WHERE schemaname = 'public') LOOP
					EXECUTE 'DROP TABLE IF EXISTS ' || quote_ident(r.tablename) || ' CASCADE';
				END LOOP;
			END $$;
		`,
	)
	if err != nil {
		return fmt.Errorf("error while `db.database.ExecContext()` calling: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var usr models.User
	err := row.Scan(&usr.ID, &usr.Username, &usr.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}

	return &usr, nil
}

func scanLink(row rowScanner) (*models.ShortLink, error) {
	var link models.ShortLink
	err := row.Scan(&link.ID, &link.Short, &link.Full, &link.OwnerID, &link.Clicks, &link.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}

	return &link, nil
}
