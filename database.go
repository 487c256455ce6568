package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

var (
	// ErrInvalidEmail is returned when a user is synced without a usable email address
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrInvalidClerkID is returned when a user is synced without a Clerk id
	ErrInvalidClerkID = errors.New("invalid clerk id")
	// ErrUserNotFound is returned when no user matches the given Clerk id
	ErrUserNotFound = errors.New("user not found")
)

// UserSyncer upserts users keyed by their Clerk id
type UserSyncer interface {
	SyncUser(ctx context.Context, req SyncUserRequest) error
}

// Database handles all database operations for user records
type Database struct {
	db *sql.DB
}

// User represents a user entry in the database
type User struct {
	ID        string
	ClerkID   string
	Email     string
	Name      string
	Image     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

const timeFormat = time.RFC3339

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	clerk_id   TEXT NOT NULL UNIQUE,
	email      TEXT NOT NULL,
	name       TEXT NOT NULL,
	image      TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// NewDatabase opens the SQLite database at filePath and ensures the schema exists
func NewDatabase(filePath string) (*Database, error) {
	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to ":memory:" gets its own database.
	if filePath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("Database initialized", zap.String("path", filePath))
	return &Database{db: db}, nil
}

// validateEmail checks that an email address is present and plausibly formed
func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: empty email", ErrInvalidEmail)
	}

	if strings.Count(email, "@") != 1 {
		return fmt.Errorf("%w: invalid format", ErrInvalidEmail)
	}

	if strings.ContainsAny(email, " \n\r\t") {
		return fmt.Errorf("%w: contains whitespace", ErrInvalidEmail)
	}

	return nil
}

// SyncUser inserts the user or updates the existing row with the same Clerk id
func (d *Database) SyncUser(ctx context.Context, req SyncUserRequest) error {
	if req.ClerkID == "" {
		return fmt.Errorf("%w: empty clerk id", ErrInvalidClerkID)
	}
	if err := validateEmail(req.Email); err != nil {
		return err
	}

	now := time.Now().UTC().Format(timeFormat)
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO users (id, clerk_id, email, name, image, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(clerk_id) DO UPDATE SET
			email = excluded.email,
			name = excluded.name,
			image = excluded.image,
			updated_at = excluded.updated_at`,
		uuid.NewString(), req.ClerkID, req.Email, req.Name, nullString(req.Image), now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	logger.Info("User synced",
		zap.String("clerkId", req.ClerkID),
		zap.String("email", req.Email))
	return nil
}

// GetUserByClerkID returns the user with the given Clerk id
func (d *Database) GetUserByClerkID(ctx context.Context, clerkID string) (*User, error) {
	var (
		user                 User
		image                sql.NullString
		createdAt, updatedAt string
	)

	err := d.db.QueryRowContext(ctx, `
		SELECT id, clerk_id, email, name, image, created_at, updated_at
		FROM users WHERE clerk_id = ?`, clerkID).
		Scan(&user.ID, &user.ClerkID, &user.Email, &user.Name, &image, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, clerkID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	if image.Valid {
		user.Image = &image.String
	}
	if user.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if user.UpdatedAt, err = time.Parse(timeFormat, updatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return &user, nil
}

// Close closes the underlying database handle
func (d *Database) Close() error {
	return d.db.Close()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
