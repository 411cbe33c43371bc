// Package store defines the storage contracts the service layer and HTTP
// handlers depend on. The postgres subpackage is the production
// implementation; the memory subpackage backs the tests.
package store

import (
	"context"
	"errors"

	"chadcinema-backend-go/internal/models"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

type ContentStore interface {
	// Upsert replaces every field of the item except watch_count, which is
	// preserved across re-syncs, and swaps the genre relation wholesale.
	Upsert(ctx context.Context, item models.ContentItem, genres []string) error
	Get(ctx context.Context, id string) (*models.ContentItem, error)
	Trending(ctx context.Context, limit int) ([]string, error)
	ByCategory(ctx context.Context, category string, limit int) ([]models.ContentItem, error)
	Search(ctx context.Context, term string, limit int) ([]models.ContentItem, error)
	// ByGenres returns ids of items whose genre set intersects genres,
	// excluding the given ids, ordered by numeric rating descending
	// (non-numeric ratings rank as zero) then watch_count descending.
	ByGenres(ctx context.Context, genres, exclude []string, limit int) ([]string, error)
	// GenresFor maps each known id to its ordered genre list. Unknown ids
	// are simply absent from the result.
	GenresFor(ctx context.Context, ids []string) (map[string][]string, error)
}

type UserStore interface {
	// Create returns ErrConflict when the email or username is taken.
	Create(ctx context.Context, user models.User) error
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByID(ctx context.Context, id string) (*models.User, error)
	Watchlist(ctx context.Context, userID string) ([]string, error)
	AddToWatchlist(ctx context.Context, userID, contentID string) error
	RemoveFromWatchlist(ctx context.Context, userID, contentID string) error
	History(ctx context.Context, userID string) ([]models.HistoryEntry, error)
}

type WatchStore interface {
	// TrackView applies the three tracking effects together: content
	// watch_count +1, one appended watch event, and the user's history
	// entry upserted then truncated to the newest 100 by insertion order.
	TrackView(ctx context.Context, userID, contentID string, watchTime, progress int) error
	// RecentContentIDs returns content ids ordered by watched_at
	// descending, duplicates included.
	RecentContentIDs(ctx context.Context, userID string, limit int) ([]string, error)
}

type CurationStore interface {
	WeeklyIDs(ctx context.Context, week, day string) ([]string, error)
	WeeklyByDay(ctx context.Context, week string) (map[string][]string, error)
	ReplaceWeekly(ctx context.Context, week, day string, contentIDs []string) error
	HeroIDs(ctx context.Context) ([]string, error)
	ReplaceHero(ctx context.Context, contentIDs []string) error
}

type MetricStore interface {
	InsertSample(ctx context.Context, sample models.ServerMetricSample) error
	LatestSamples(ctx context.Context, limit int) ([]models.ServerMetricSample, error)
}
