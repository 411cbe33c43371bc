// Package memory is a mutex-guarded in-memory implementation of the store
// interfaces, used by the tests. Its query semantics mirror the postgres
// store: trending order, genre intersection, rating parsing, history
// truncation.
package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"chadcinema-backend-go/internal/models"
	"chadcinema-backend-go/internal/store"
)

const historyLimit = 100

type Store struct {
	mu sync.RWMutex

	contents map[string]models.ContentItem
	genres   map[string][]string

	users     map[string]models.User
	watchlist map[string][]models.WatchlistItem
	history   map[string][]models.HistoryEntry
	events    []models.WatchEvent

	weekly []models.WeeklyAssignment
	hero   []models.HeroEntry

	samples []models.ServerMetricSample

	seq int64
}

func New() *Store {
	return &Store{
		contents:  map[string]models.ContentItem{},
		genres:    map[string][]string{},
		users:     map[string]models.User{},
		watchlist: map[string][]models.WatchlistItem{},
		history:   map[string][]models.HistoryEntry{},
	}
}

func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

// ---- ContentStore ----

func (s *Store) Upsert(ctx context.Context, item models.ContentItem, genres []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.contents[item.ID]; ok {
		item.WatchCount = existing.WatchCount
		item.CreatedAt = existing.CreatedAt
	} else if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	item.UpdatedAt = time.Now().UTC()
	s.contents[item.ID] = item
	s.genres[item.ID] = append([]string(nil), genres...)
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*models.ContentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.contents[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	item.Genres = append([]string{}, s.genres[id]...)
	return &item, nil
}

func (s *Store) Trending(ctx context.Context, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.sortedByPopularity()
	ids := make([]string, 0, limit)
	for _, item := range items {
		if len(ids) == limit {
			break
		}
		ids = append(ids, item.ID)
	}
	return ids, nil
}

func (s *Store) ByCategory(ctx context.Context, category string, limit int) ([]models.ContentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.ContentItem{}
	for _, item := range s.sortedByPopularity() {
		if len(out) == limit {
			break
		}
		if item.Industry == category || item.Type == category {
			item.Genres = append([]string{}, s.genres[item.ID]...)
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *Store) Search(ctx context.Context, term string, limit int) ([]models.ContentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	term = strings.ToLower(term)
	out := []models.ContentItem{}
	for _, item := range s.sortedByPopularity() {
		if len(out) == limit {
			break
		}
		if strings.Contains(strings.ToLower(item.Title), term) ||
			strings.Contains(strings.ToLower(item.Description), term) ||
			genreMatches(s.genres[item.ID], term) {
			item.Genres = append([]string{}, s.genres[item.ID]...)
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *Store) ByGenres(ctx context.Context, genres, exclude []string, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := map[string]bool{}
	for _, genre := range genres {
		wanted[genre] = true
	}
	excluded := map[string]bool{}
	for _, id := range exclude {
		excluded[id] = true
	}
	matched := []models.ContentItem{}
	for id, item := range s.contents {
		if excluded[id] {
			continue
		}
		for _, genre := range s.genres[id] {
			if wanted[genre] {
				matched = append(matched, item)
				break
			}
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		ri, rj := parseRating(matched[i].Rating), parseRating(matched[j].Rating)
		if ri != rj {
			return ri > rj
		}
		if matched[i].WatchCount != matched[j].WatchCount {
			return matched[i].WatchCount > matched[j].WatchCount
		}
		return matched[i].ID < matched[j].ID
	})
	ids := make([]string, 0, limit)
	for _, item := range matched {
		if len(ids) == limit {
			break
		}
		ids = append(ids, item.ID)
	}
	return ids, nil
}

func (s *Store) GenresFor(ctx context.Context, ids []string) (map[string][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := map[string][]string{}
	for _, id := range ids {
		if genres, ok := s.genres[id]; ok {
			result[id] = append([]string{}, genres...)
		}
	}
	return result, nil
}

func (s *Store) sortedByPopularity() []models.ContentItem {
	items := make([]models.ContentItem, 0, len(s.contents))
	for _, item := range s.contents {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].WatchCount != items[j].WatchCount {
			return items[i].WatchCount > items[j].WatchCount
		}
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
	return items
}

func genreMatches(genres []string, term string) bool {
	for _, genre := range genres {
		if strings.Contains(strings.ToLower(genre), term) {
			return true
		}
	}
	return false
}

func parseRating(raw string) float64 {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 {
		return 0
	}
	return value
}

// ---- UserStore ----

func (s *Store) Create(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) || strings.EqualFold(existing.Username, user.Username) {
			return store.ErrConflict
		}
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	s.users[user.ID] = user
	return nil
}

func (s *Store) ByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			u := user
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &user, nil
}

func (s *Store) Watchlist(ctx context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := []string{}
	for _, item := range s.watchlist[userID] {
		ids = append(ids, item.ContentID)
	}
	return ids, nil
}

func (s *Store) AddToWatchlist(ctx context.Context, userID, contentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.watchlist[userID] {
		if item.ContentID == contentID {
			return nil
		}
	}
	s.watchlist[userID] = append(s.watchlist[userID], models.WatchlistItem{
		Seq:       s.nextSeq(),
		UserID:    userID,
		ContentID: contentID,
		AddedAt:   time.Now().UTC(),
	})
	return nil
}

func (s *Store) RemoveFromWatchlist(ctx context.Context, userID, contentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.watchlist[userID]
	for i, item := range items {
		if item.ContentID == contentID {
			s.watchlist[userID] = append(items[:i:i], items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *Store) History(ctx context.Context, userID string) ([]models.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.HistoryEntry{}, s.history[userID]...), nil
}

// ---- WatchStore ----

func (s *Store) TrackView(ctx context.Context, userID, contentID string, watchTime, progress int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if item, ok := s.contents[contentID]; ok {
		item.WatchCount++
		s.contents[contentID] = item
	}
	s.events = append(s.events, models.WatchEvent{
		ID:        s.nextSeq(),
		UserID:    userID,
		ContentID: contentID,
		WatchTime: watchTime,
		Progress:  progress,
		WatchedAt: now,
	})
	entries := s.history[userID]
	updated := false
	for i := range entries {
		if entries[i].ContentID == contentID {
			entries[i].Progress = progress
			entries[i].UpdatedAt = now
			updated = true
			break
		}
	}
	if !updated {
		entries = append(entries, models.HistoryEntry{
			Seq:       s.nextSeq(),
			UserID:    userID,
			ContentID: contentID,
			Progress:  progress,
			UpdatedAt: now,
		})
	}
	if len(entries) > historyLimit {
		entries = entries[len(entries)-historyLimit:]
	}
	s.history[userID] = entries
	return nil
}

func (s *Store) RecentContentIDs(ctx context.Context, userID string, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := []string{}
	for i := len(s.events) - 1; i >= 0 && len(ids) < limit; i-- {
		if s.events[i].UserID == userID {
			ids = append(ids, s.events[i].ContentID)
		}
	}
	return ids, nil
}

// ---- CurationStore ----

func (s *Store) WeeklyIDs(ctx context.Context, week, day string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := []string{}
	for _, a := range s.weekly {
		if a.Week == week && a.Day == day && a.ContentID != "" {
			ids = append(ids, a.ContentID)
		}
	}
	return ids, nil
}

func (s *Store) WeeklyByDay(ctx context.Context, week string) (map[string][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := map[string][]string{}
	for _, a := range s.weekly {
		if a.Week == week && a.ContentID != "" {
			result[a.Day] = append(result[a.Day], a.ContentID)
		}
	}
	return result, nil
}

func (s *Store) ReplaceWeekly(ctx context.Context, week, day string, contentIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.weekly[:0]
	for _, a := range s.weekly {
		if !(a.Week == week && a.Day == day) {
			kept = append(kept, a)
		}
	}
	s.weekly = kept
	now := time.Now().UTC()
	for _, contentID := range contentIDs {
		contentType := "movie"
		if day == "series" {
			contentType = "series"
		}
		s.weekly = append(s.weekly, models.WeeklyAssignment{
			ID:          s.nextSeq(),
			Week:        week,
			Day:         day,
			ContentID:   contentID,
			ContentType: contentType,
			CreatedAt:   now,
		})
	}
	return nil
}

func (s *Store) HeroIDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := append([]models.HeroEntry{}, s.hero...)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Position < entries[j].Position })
	ids := []string{}
	for _, entry := range entries {
		if entry.IsActive && entry.ContentID != "" {
			ids = append(ids, entry.ContentID)
		}
	}
	return ids, nil
}

func (s *Store) ReplaceHero(ctx context.Context, contentIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hero = s.hero[:0]
	now := time.Now().UTC()
	for position, contentID := range contentIDs {
		s.hero = append(s.hero, models.HeroEntry{
			ID:        s.nextSeq(),
			ContentID: contentID,
			Position:  position,
			IsActive:  true,
			CreatedAt: now,
		})
	}
	return nil
}

// ---- MetricStore ----

func (s *Store) InsertSample(ctx context.Context, sample models.ServerMetricSample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.samples = append(s.samples, sample)
	return nil
}

func (s *Store) LatestSamples(ctx context.Context, limit int) ([]models.ServerMetricSample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.ServerMetricSample{}
	for i := len(s.samples) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.samples[i])
	}
	return out, nil
}
