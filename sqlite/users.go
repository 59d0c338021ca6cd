package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/avdeevm/authpair"
)

// Users implements authpair.UserStore on SQLite.
type Users struct {
	db *sql.DB
}

// FindByLogin returns the account for login or authpair.ErrUserNotFound.
func (u *Users) FindByLogin(ctx context.Context, login string) (*authpair.UserRecord, error) {
	return u.findOne(ctx, "SELECT id, login, password_hash FROM users WHERE login = ?", login)
}

// FindByID returns the account for id or authpair.ErrUserNotFound.
func (u *Users) FindByID(ctx context.Context, id string) (*authpair.UserRecord, error) {
	return u.findOne(ctx, "SELECT id, login, password_hash FROM users WHERE id = ?", id)
}

func (u *Users) findOne(ctx context.Context, query, arg string) (*authpair.UserRecord, error) {
	var rec authpair.UserRecord
	err := u.db.QueryRowContext(ctx, query, arg).Scan(&rec.ID, &rec.Login, &rec.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authpair.ErrUserNotFound
		}
		return nil, fmt.Errorf("sqlite: query user: %w", err)
	}
	return &rec, nil
}

// Create inserts the account, assigning a fresh UUID when user.ID is
// empty. A duplicate login fails with authpair.ErrConflict.
func (u *Users) Create(ctx context.Context, user *authpair.UserRecord) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	_, err := u.db.ExecContext(ctx,
		"INSERT INTO users (id, login, password_hash) VALUES (?, ?, ?)",
		user.ID, user.Login, user.PasswordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return authpair.ErrConflict
		}
		return fmt.Errorf("sqlite: insert user: %w", err)
	}
	return nil
}

// isUniqueViolation matches the driver's constraint error text; the
// modernc driver does not expose a typed error for it.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
