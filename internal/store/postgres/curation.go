package postgres

import (
	"context"
	"time"
)

func (s *Store) WeeklyIDs(ctx context.Context, week, day string) ([]string, error) {
	ids := []string{}
	err := s.db.SelectContext(ctx, &ids, `
SELECT content_id FROM weekly_assignments
WHERE week = $1 AND day = $2 AND content_id <> ''
ORDER BY id ASC
`, week, day)
	return ids, err
}

func (s *Store) WeeklyByDay(ctx context.Context, week string) (map[string][]string, error) {
	rows := []struct {
		Day       string `db:"day"`
		ContentID string `db:"content_id"`
	}{}
	if err := s.db.SelectContext(ctx, &rows, `
SELECT day, content_id FROM weekly_assignments
WHERE week = $1 AND content_id <> ''
ORDER BY id ASC
`, week); err != nil {
		return nil, err
	}
	result := map[string][]string{}
	for _, row := range rows {
		result[row.Day] = append(result[row.Day], row.ContentID)
	}
	return result, nil
}

func (s *Store) ReplaceWeekly(ctx context.Context, week, day string, contentIDs []string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
DELETE FROM weekly_assignments WHERE week = $1 AND day = $2
`, week, day); err != nil {
		return err
	}
	now := time.Now().UTC()
	for _, contentID := range contentIDs {
		contentType := "movie"
		if day == "series" {
			contentType = "series"
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO weekly_assignments (week, day, content_id, content_type, created_at)
VALUES ($1,$2,$3,$4,$5)
`, week, day, contentID, contentType, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) HeroIDs(ctx context.Context) ([]string, error) {
	ids := []string{}
	err := s.db.SelectContext(ctx, &ids, `
SELECT content_id FROM hero_carousel
WHERE is_active AND content_id <> ''
ORDER BY position ASC
`)
	return ids, err
}

// ReplaceHero swaps the whole carousel set in one transaction.
func (s *Store) ReplaceHero(ctx context.Context, contentIDs []string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM hero_carousel`); err != nil {
		return err
	}
	now := time.Now().UTC()
	for position, contentID := range contentIDs {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO hero_carousel (content_id, position, is_active, created_at)
VALUES ($1,$2,TRUE,$3)
`, contentID, position, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}
