package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"chadcinema-backend-go/internal/models"
	"chadcinema-backend-go/internal/store"
)

func (s *Store) Create(ctx context.Context, user models.User) error {
	var exists bool
	if err := s.db.GetContext(ctx, &exists, `
SELECT EXISTS(
  SELECT 1 FROM users
  WHERE lower(email) = $1 OR lower(username) = $2
)`, strings.ToLower(user.Email), strings.ToLower(user.Username)); err != nil {
		return err
	}
	if exists {
		return store.ErrConflict
	}
	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO users (id, email, username, pin, role, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, user.ID, user.Email, user.Username, user.PINHash, user.Role, createdAt)
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		// Lost the race between the existence check and the insert.
		return store.ErrConflict
	}
	return err
}

func (s *Store) ByEmail(ctx context.Context, email string) (*models.User, error) {
	user := models.User{}
	err := s.db.GetContext(ctx, &user, `
SELECT id, email, username, pin, role, created_at
FROM users
WHERE lower(email) = $1
`, strings.ToLower(email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) ByID(ctx context.Context, id string) (*models.User, error) {
	user := models.User{}
	err := s.db.GetContext(ctx, &user, `
SELECT id, email, username, pin, role, created_at
FROM users
WHERE id = $1
`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) Watchlist(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	err := s.db.SelectContext(ctx, &ids, `
SELECT content_id FROM watchlist_items
WHERE user_id = $1
ORDER BY seq ASC
`, userID)
	return ids, err
}

// AddToWatchlist is a single atomic statement; concurrent adds for the same
// user cannot lose each other's entry.
func (s *Store) AddToWatchlist(ctx context.Context, userID, contentID string) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO watchlist_items (user_id, content_id, added_at)
VALUES ($1,$2,$3)
ON CONFLICT (user_id, content_id) DO NOTHING
`, userID, contentID, time.Now().UTC())
	return err
}

func (s *Store) RemoveFromWatchlist(ctx context.Context, userID, contentID string) error {
	_, err := s.db.ExecContext(ctx, `
DELETE FROM watchlist_items
WHERE user_id = $1 AND content_id = $2
`, userID, contentID)
	return err
}

func (s *Store) History(ctx context.Context, userID string) ([]models.HistoryEntry, error) {
	entries := []models.HistoryEntry{}
	err := s.db.SelectContext(ctx, &entries, `
SELECT seq, user_id, content_id, progress, updated_at
FROM history_entries
WHERE user_id = $1
ORDER BY seq ASC
`, userID)
	return entries, err
}
