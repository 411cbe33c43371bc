package services

import (
	"context"
	"sort"
	"strconv"

	"chadcinema-backend-go/internal/store"
)

const (
	// DefaultTrendingLimit caps trending and recommendation output.
	DefaultTrendingLimit = 20
	// recentWatchWindow is how many of the newest watch events feed the
	// genre-affinity computation.
	recentWatchWindow = 20
	// topGenreCount is how many preferred genres drive the catalog query.
	topGenreCount = 3
)

// Trending returns content ids ordered by watch_count descending, ties
// broken by creation time descending.
func Trending(ctx context.Context, contents store.ContentStore, limit int) ([]string, error) {
	if limit < 1 {
		limit = DefaultTrendingLimit
	}
	return contents.Trending(ctx, limit)
}

// Recommendations derives the user's preferred genres from their recent
// watch events and returns unseen catalog ids matching them, ranked by
// rating then popularity. Users without history, or whose watched items
// resolve to no genres, get the trending list verbatim.
func Recommendations(ctx context.Context, contents store.ContentStore, watches store.WatchStore, userID string) ([]string, error) {
	watched, err := watches.RecentContentIDs(ctx, userID, recentWatchWindow)
	if err != nil {
		return nil, err
	}
	if len(watched) == 0 {
		return Trending(ctx, contents, DefaultTrendingLimit)
	}
	genresByID, err := contents.GenresFor(ctx, distinct(watched))
	if err != nil {
		return nil, err
	}
	top := TopGenres(watched, genresByID, topGenreCount)
	if len(top) == 0 {
		return Trending(ctx, contents, DefaultTrendingLimit)
	}
	ids, err := contents.ByGenres(ctx, top, watched, DefaultTrendingLimit)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// TopGenres counts genre occurrences across the watched id list. The list
// may repeat an id for repeat views; each repetition counts its genres
// again, so repeated viewing reinforces genre weight. Ties are broken by
// genre name ascending so the result does not depend on storage return
// order.
func TopGenres(watched []string, genresByID map[string][]string, n int) []string {
	counts := map[string]int{}
	for _, id := range watched {
		for _, genre := range genresByID[id] {
			counts[genre]++
		}
	}
	genres := make([]string, 0, len(counts))
	for genre := range counts {
		genres = append(genres, genre)
	}
	sort.Slice(genres, func(i, j int) bool {
		if counts[genres[i]] != counts[genres[j]] {
			return counts[genres[i]] > counts[genres[j]]
		}
		return genres[i] < genres[j]
	})
	if len(genres) > n {
		genres = genres[:n]
	}
	return genres
}

// ParseRating maps a rating string to its numeric value for ranking;
// non-numeric or missing ratings rank as zero.
func ParseRating(raw string) float64 {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value < 0 {
		return 0
	}
	return value
}

func distinct(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
