package postgres

import (
	"context"
	"time"
)

const historyLimit = 100

// TrackView commits the three tracking effects as one transaction: the
// content watch counter, the append-only event row, and the user's history
// upsert plus truncation to the newest entries by insertion order.
func (s *Store) TrackView(ctx context.Context, userID, contentID string, watchTime, progress int) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `
UPDATE content SET watch_count = watch_count + 1 WHERE id = $1
`, contentID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
INSERT INTO watch_events (user_id, content_id, watch_time, progress, watched_at)
VALUES ($1,$2,$3,$4,$5)
`, userID, contentID, watchTime, progress, now); err != nil {
		return err
	}
	// Upserting keeps the original seq, so a repeat view updates the entry
	// in place instead of moving it to the end.
	if _, err := tx.ExecContext(ctx, `
INSERT INTO history_entries (user_id, content_id, progress, updated_at)
VALUES ($1,$2,$3,$4)
ON CONFLICT (user_id, content_id) DO UPDATE SET
  progress = EXCLUDED.progress,
  updated_at = EXCLUDED.updated_at
`, userID, contentID, progress, now); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
DELETE FROM history_entries
WHERE user_id = $1 AND seq NOT IN (
  SELECT seq FROM history_entries
  WHERE user_id = $1
  ORDER BY seq DESC
  LIMIT $2
)
`, userID, historyLimit); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) RecentContentIDs(ctx context.Context, userID string, limit int) ([]string, error) {
	ids := []string{}
	err := s.db.SelectContext(ctx, &ids, `
SELECT content_id FROM watch_events
WHERE user_id = $1
ORDER BY watched_at DESC, id DESC
LIMIT $2
`, userID, limit)
	return ids, err
}
