package memory

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"chadcinema-backend-go/internal/models"
	"chadcinema-backend-go/internal/store"
)

func TestTrackViewEffects(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.Upsert(ctx, models.ContentItem{ID: "c1", Title: "One"}, nil); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := s.TrackView(ctx, "u1", "c1", 60, 25); err != nil {
		t.Fatalf("TrackView: %v", err)
	}
	if err := s.TrackView(ctx, "u1", "c1", 120, 80); err != nil {
		t.Fatalf("TrackView: %v", err)
	}

	item, err := s.Get(ctx, "c1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if item.WatchCount != 2 {
		t.Errorf("watch count = %d, want 2", item.WatchCount)
	}

	recent, err := s.RecentContentIDs(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("RecentContentIDs: %v", err)
	}
	// Both events survive; repetition is what feeds genre affinity.
	if !reflect.DeepEqual(recent, []string{"c1", "c1"}) {
		t.Errorf("recent = %v, want [c1 c1]", recent)
	}

	history, err := s.History(ctx, "u1")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("len(history) = %d, want 1 entry per content", len(history))
	}
	if history[0].Progress != 80 {
		t.Errorf("progress = %d, want latest value 80", history[0].Progress)
	}
}

func TestHistoryCap(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i := 0; i < 110; i++ {
		id := fmt.Sprintf("c%03d", i)
		if err := s.Upsert(ctx, models.ContentItem{ID: id}, nil); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
		if err := s.TrackView(ctx, "u1", id, 10, 5); err != nil {
			t.Fatalf("TrackView: %v", err)
		}
	}

	history, err := s.History(ctx, "u1")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 100 {
		t.Fatalf("len(history) = %d, want 100", len(history))
	}
	for _, entry := range history {
		if entry.ContentID == "c005" {
			t.Error("oldest entries should be evicted once the cap is hit")
		}
	}
}

func TestWatchlistAddRemove(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "a"} {
		if err := s.AddToWatchlist(ctx, "u1", id); err != nil {
			t.Fatalf("AddToWatchlist: %v", err)
		}
	}
	ids, err := s.Watchlist(ctx, "u1")
	if err != nil {
		t.Fatalf("Watchlist: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"a", "b"}) {
		t.Errorf("watchlist = %v, want deduplicated [a b]", ids)
	}

	if err := s.RemoveFromWatchlist(ctx, "u1", "a"); err != nil {
		t.Fatalf("RemoveFromWatchlist: %v", err)
	}
	if err := s.RemoveFromWatchlist(ctx, "u1", "missing"); err != nil {
		t.Fatalf("RemoveFromWatchlist missing id: %v", err)
	}
	ids, err = s.Watchlist(ctx, "u1")
	if err != nil {
		t.Fatalf("Watchlist: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"b"}) {
		t.Errorf("watchlist = %v, want [b]", ids)
	}
}

func TestCreateUserConflict(t *testing.T) {
	s := New()
	ctx := context.Background()

	base := models.User{ID: "u1", Username: "alice", Email: "alice@example.com", PINHash: "x"}
	if err := s.Create(ctx, base); err != nil {
		t.Fatalf("Create: %v", err)
	}

	tests := []struct {
		name string
		user models.User
	}{
		{"same email", models.User{ID: "u2", Username: "other", Email: "ALICE@example.com"}},
		{"same username", models.User{ID: "u3", Username: "Alice", Email: "new@example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Create(ctx, tt.user); !errors.Is(err, store.ErrConflict) {
				t.Errorf("Create = %v, want ErrConflict", err)
			}
		})
	}

	if _, err := s.ByEmail(ctx, "nobody@example.com"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("ByEmail = %v, want ErrNotFound", err)
	}
}

func TestTrendingOrder(t *testing.T) {
	s := New()
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	items := []struct {
		id      string
		views   int
		created time.Time
	}{
		{"old-popular", 5, base},
		{"new-popular", 5, base.Add(time.Hour)},
		{"quiet", 0, base},
	}
	for _, item := range items {
		if err := s.Upsert(ctx, models.ContentItem{ID: item.id, CreatedAt: item.created}, nil); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
		for i := 0; i < item.views; i++ {
			if err := s.TrackView(ctx, "u1", item.id, 0, 0); err != nil {
				t.Fatalf("TrackView: %v", err)
			}
		}
	}

	got, err := s.Trending(ctx, 2)
	if err != nil {
		t.Fatalf("Trending: %v", err)
	}
	want := []string{"new-popular", "old-popular"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Trending = %v, want %v", got, want)
	}
}

func TestByGenresIntersection(t *testing.T) {
	s := New()
	ctx := context.Background()

	upsert := func(id, rating string, genres ...string) {
		t.Helper()
		if err := s.Upsert(ctx, models.ContentItem{ID: id, Rating: rating}, genres); err != nil {
			t.Fatalf("Upsert(%s): %v", id, err)
		}
	}
	upsert("action-high", "9.0", "Action")
	upsert("action-low", "3.0", "Action")
	upsert("sci-fi", "8.0", "Sci-Fi")
	// A genre whose name contains another genre's name must not match it.
	upsert("fiction", "9.9", "Science Fiction")

	got, err := s.ByGenres(ctx, []string{"Action", "Sci-Fi"}, []string{"action-low"}, 10)
	if err != nil {
		t.Fatalf("ByGenres: %v", err)
	}
	want := []string{"action-high", "sci-fi"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ByGenres = %v, want %v", got, want)
	}
}

func TestSearchMatchesTitleDescriptionGenre(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.Upsert(ctx, models.ContentItem{ID: "t1", Title: "The Dark River"}, nil); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := s.Upsert(ctx, models.ContentItem{ID: "d1", Title: "x", Description: "a dark tale"}, nil); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := s.Upsert(ctx, models.ContentItem{ID: "g1", Title: "y"}, []string{"Dark Comedy"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := s.Upsert(ctx, models.ContentItem{ID: "n1", Title: "Bright"}, nil); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := s.Search(ctx, "DARK", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	found := map[string]bool{}
	for _, item := range got {
		found[item.ID] = true
	}
	for _, id := range []string{"t1", "d1", "g1"} {
		if !found[id] {
			t.Errorf("Search missing %s", id)
		}
	}
	if found["n1"] {
		t.Error("Search matched unrelated item")
	}
}

func TestGetNotFound(t *testing.T) {
	s := New()
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get = %v, want ErrNotFound", err)
	}
}

func TestMetricSamplesNewestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := s.InsertSample(ctx, models.ServerMetricSample{ID: fmt.Sprintf("s%d", i)})
		if err != nil {
			t.Fatalf("InsertSample: %v", err)
		}
	}
	got, err := s.LatestSamples(ctx, 2)
	if err != nil {
		t.Fatalf("LatestSamples: %v", err)
	}
	if len(got) != 2 || got[0].ID != "s2" || got[1].ID != "s1" {
		t.Errorf("LatestSamples = %v, want newest first s2, s1", got)
	}
}
