package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserRepo manages the credential table.
//
// Schema assumption (managed outside the app):
//
//	CREATE TABLE IF NOT EXISTS users (
//	  username TEXT PRIMARY KEY,
//	  password_hash TEXT NOT NULL,
//	  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type UserRepo struct{}

// NewUserRepo creates a new repository instance.
func NewUserRepo() *UserRepo {
	return &UserRepo{}
}

// ErrUserExists is returned by Create when the username is taken.
var ErrUserExists = errors.New("username already exists")

// Create stores a new user with a bcrypt-hashed password.
func (r *UserRepo) Create(ctx context.Context, username, password string) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	tag, err := pool.Exec(ctx,
		`INSERT INTO users (username, password_hash) VALUES ($1, $2) ON CONFLICT (username) DO NOTHING`,
		username, string(hash))
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserExists
	}
	return nil
}

// Authenticate checks a username/password pair. A missing user and a
// wrong password both report false without distinguishing which.
func (r *UserRepo) Authenticate(ctx context.Context, username, password string) (bool, error) {
	pool := GetPool()
	if pool == nil {
		return false, fmt.Errorf("database pool not initialized")
	}

	var hash string
	err := pool.QueryRow(ctx,
		`SELECT password_hash FROM users WHERE username = $1`, username).Scan(&hash)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return false, nil
	}
	return true, nil
}
