package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Avatars implements authpair.AvatarStore on SQLite.
type Avatars struct {
	db *sql.DB
}

// FindByLogin returns the avatar path stored for login, or "" when the
// account has none.
func (a *Avatars) FindByLogin(ctx context.Context, login string) (string, error) {
	var path string
	err := a.db.QueryRowContext(ctx, "SELECT path FROM avatars WHERE login = ?", login).Scan(&path)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("sqlite: query avatar: %w", err)
	}
	return path, nil
}

// Set stores or replaces the avatar path for login.
func (a *Avatars) Set(ctx context.Context, login, path string) error {
	_, err := a.db.ExecContext(ctx,
		"INSERT INTO avatars (login, path) VALUES (?, ?) ON CONFLICT(login) DO UPDATE SET path = excluded.path",
		login, path,
	)
	if err != nil {
		return fmt.Errorf("sqlite: upsert avatar: %w", err)
	}
	return nil
}

// Remove deletes the avatar for login, if any.
func (a *Avatars) Remove(ctx context.Context, login string) error {
	if _, err := a.db.ExecContext(ctx, "DELETE FROM avatars WHERE login = ?", login); err != nil {
		return fmt.Errorf("sqlite: delete avatar: %w", err)
	}
	return nil
}
