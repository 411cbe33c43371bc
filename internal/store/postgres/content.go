package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"chadcinema-backend-go/internal/models"
	"chadcinema-backend-go/internal/store"

	"github.com/jmoiron/sqlx"
)

// numericRating casts the text rating column for ordering; anything that is
// not a plain decimal sorts as zero.
const numericRating = `CASE WHEN c.rating ~ '^[0-9]+(\.[0-9]+)?$' THEN c.rating::numeric ELSE 0 END`

func (s *Store) Upsert(ctx context.Context, item models.ContentItem, genres []string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, `
INSERT INTO content (id, title, year, image, description, director, rating, duration, type, industry,
                     cast_members, episodes, urls, download_links, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$15)
ON CONFLICT (id) DO UPDATE SET
  title = EXCLUDED.title,
  year = EXCLUDED.year,
  image = EXCLUDED.image,
  description = EXCLUDED.description,
  director = EXCLUDED.director,
  rating = EXCLUDED.rating,
  duration = EXCLUDED.duration,
  type = EXCLUDED.type,
  industry = EXCLUDED.industry,
  cast_members = EXCLUDED.cast_members,
  episodes = EXCLUDED.episodes,
  urls = EXCLUDED.urls,
  download_links = EXCLUDED.download_links,
  updated_at = EXCLUDED.updated_at
`, item.ID, item.Title, item.Year, item.Image, item.Description, item.Director, item.Rating,
		item.Duration, item.Type, item.Industry, item.Cast, item.Episodes, item.URLs,
		item.DownloadLinks, now); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM content_genres WHERE content_id = $1`, item.ID); err != nil {
		return err
	}
	for i, genre := range genres {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO content_genres (content_id, genre, position)
VALUES ($1,$2,$3)
ON CONFLICT (content_id, genre) DO NOTHING
`, item.ID, genre, i); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) Get(ctx context.Context, id string) (*models.ContentItem, error) {
	item := models.ContentItem{}
	err := s.db.GetContext(ctx, &item, `
SELECT id, title, year, image, description, director, rating, duration, type, industry,
       cast_members, episodes, urls, download_links, watch_count, created_at, updated_at
FROM content
WHERE id = $1
`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	genres, err := s.GenresFor(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	item.Genres = genres[id]
	if item.Genres == nil {
		item.Genres = []string{}
	}
	return &item, nil
}

func (s *Store) Trending(ctx context.Context, limit int) ([]string, error) {
	ids := []string{}
	err := s.db.SelectContext(ctx, &ids, `
SELECT id FROM content
ORDER BY watch_count DESC, created_at DESC
LIMIT $1
`, limit)
	return ids, err
}

func (s *Store) ByCategory(ctx context.Context, category string, limit int) ([]models.ContentItem, error) {
	items := []models.ContentItem{}
	err := s.db.SelectContext(ctx, &items, `
SELECT id, title, year, image, description, director, rating, duration, type, industry,
       cast_members, episodes, urls, download_links, watch_count, created_at, updated_at
FROM content
WHERE industry = $1 OR type = $1
ORDER BY watch_count DESC, created_at DESC
LIMIT $2
`, category, limit)
	if err != nil {
		return nil, err
	}
	return s.attachGenres(ctx, items)
}

func (s *Store) Search(ctx context.Context, term string, limit int) ([]models.ContentItem, error) {
	like := "%" + strings.ToLower(term) + "%"
	items := []models.ContentItem{}
	err := s.db.SelectContext(ctx, &items, `
SELECT DISTINCT c.id, c.title, c.year, c.image, c.description, c.director, c.rating, c.duration,
       c.type, c.industry, c.cast_members, c.episodes, c.urls, c.download_links,
       c.watch_count, c.created_at, c.updated_at
FROM content c
LEFT JOIN content_genres g ON g.content_id = c.id
WHERE lower(c.title) LIKE $1 OR lower(c.description) LIKE $1 OR lower(g.genre) LIKE $1
ORDER BY c.watch_count DESC
LIMIT $2
`, like, limit)
	if err != nil {
		return nil, err
	}
	return s.attachGenres(ctx, items)
}

func (s *Store) ByGenres(ctx context.Context, genres, exclude []string, limit int) ([]string, error) {
	if len(genres) == 0 {
		return []string{}, nil
	}
	query := `
SELECT c.id
FROM content c
WHERE EXISTS (
  SELECT 1 FROM content_genres g
  WHERE g.content_id = c.id AND g.genre IN (?)
)`
	args := []interface{}{genres}
	if len(exclude) > 0 {
		query += `
  AND c.id NOT IN (?)`
		args = append(args, exclude)
	}
	query += `
ORDER BY ` + numericRating + ` DESC, c.watch_count DESC
LIMIT ?`
	args = append(args, limit)

	expanded, expandedArgs, err := sqlx.In(query, args...)
	if err != nil {
		return nil, err
	}
	ids := []string{}
	err = s.db.SelectContext(ctx, &ids, s.db.Rebind(expanded), expandedArgs...)
	return ids, err
}

func (s *Store) GenresFor(ctx context.Context, ids []string) (map[string][]string, error) {
	if len(ids) == 0 {
		return map[string][]string{}, nil
	}
	query, args, err := sqlx.In(`
SELECT content_id, genre
FROM content_genres
WHERE content_id IN (?)
ORDER BY content_id, position
`, ids)
	if err != nil {
		return nil, err
	}
	rows := []struct {
		ContentID string `db:"content_id"`
		Genre     string `db:"genre"`
	}{}
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	result := make(map[string][]string, len(ids))
	for _, row := range rows {
		result[row.ContentID] = append(result[row.ContentID], row.Genre)
	}
	return result, nil
}

func (s *Store) attachGenres(ctx context.Context, items []models.ContentItem) ([]models.ContentItem, error) {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	genres, err := s.GenresFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Genres = genres[items[i].ID]
		if items[i].Genres == nil {
			items[i].Genres = []string{}
		}
	}
	return items, nil
}
