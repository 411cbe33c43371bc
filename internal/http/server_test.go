package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"chadcinema-backend-go/internal/config"
	"chadcinema-backend-go/internal/models"
	"chadcinema-backend-go/internal/services"
	"chadcinema-backend-go/internal/store/memory"
)

func newTestServer(t *testing.T) (*Server, *memory.Store, http.Handler) {
	t.Helper()
	st := memory.New()
	cfg := config.Config{
		JWTSecret:         "test-secret",
		JWTIssuer:         "chadcinema",
		AccessTTLSeconds:  3600,
		RefreshTTLSeconds: 7200,
		CorsOrigins:       []string{"*"},
	}
	server := NewServer(Stores{
		Contents: st,
		Users:    st,
		Watches:  st,
		Curation: st,
		Metrics:  st,
	}, cfg, services.NewMetricsHub())
	return server, st, server.Router()
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func seedUser(t *testing.T, st *memory.Store, id, username, email, pin, role string) {
	t.Helper()
	hash, err := services.HashPIN(pin)
	if err != nil {
		t.Fatalf("HashPIN: %v", err)
	}
	err = st.Create(context.Background(), models.User{
		ID:       id,
		Username: username,
		Email:    email,
		PINHash:  hash,
		Role:     role,
	})
	if err != nil {
		t.Fatalf("Create user: %v", err)
	}
}

func accessToken(t *testing.T, server *Server, userID, username, role string) string {
	t.Helper()
	token, _, err := server.Tokens.CreateAccessToken(userID, username, role)
	if err != nil {
		t.Fatalf("CreateAccessToken: %v", err)
	}
	return token
}

func TestHealth(t *testing.T) {
	_, _, router := newTestServer(t)
	rec := doJSON(t, router, http.MethodGet, "/api/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	decodeBody(t, rec, &body)
	if body["status"] != "healthy" {
		t.Errorf("status field = %q, want healthy", body["status"])
	}
}

func TestSignup(t *testing.T) {
	_, _, router := newTestServer(t)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/signup", "", SignupRequest{
		Email:    "New@Example.com",
		Username: "newbie",
		PIN:      "1234",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	t.Run("duplicate email conflicts", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/auth/signup", "", SignupRequest{
			Email:    "new@example.com",
			Username: "other",
			PIN:      "5678",
		})
		if rec.Code != http.StatusConflict {
			t.Errorf("status = %d, want 409", rec.Code)
		}
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/auth/signup", "", SignupRequest{
			Email: "x@example.com",
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestLoginAndVerify(t *testing.T) {
	_, st, router := newTestServer(t)
	seedUser(t, st, "u1", "alice", "alice@example.com", "4821", "user")

	rec := doJSON(t, router, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email: "ALICE@example.com",
		PIN:   "4821",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", rec.Code, rec.Body.String())
	}
	var login LoginResponse
	decodeBody(t, rec, &login)
	if login.Token == "" || login.RefreshToken == "" {
		t.Fatal("login response missing tokens")
	}
	if login.User.Username != "alice" {
		t.Errorf("username = %q, want alice", login.User.Username)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/auth/verify", login.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("verify status = %d: %s", rec.Code, rec.Body.String())
	}
	var user UserResponse
	decodeBody(t, rec, &user)
	if user.ID != "u1" {
		t.Errorf("verify id = %q, want u1", user.ID)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	_, st, router := newTestServer(t)
	seedUser(t, st, "u1", "alice", "alice@example.com", "4821", "user")

	tests := []struct {
		name string
		req  LoginRequest
	}{
		{"wrong pin", LoginRequest{Email: "alice@example.com", PIN: "0000"}},
		{"unknown email", LoginRequest{Email: "nobody@example.com", PIN: "4821"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodPost, "/api/auth/login", "", tt.req)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
			var body ErrorResponse
			decodeBody(t, rec, &body)
			if body.Error != "Invalid credentials" {
				t.Errorf("error = %q, want Invalid credentials", body.Error)
			}
		})
	}
}

func TestRefreshFlow(t *testing.T) {
	server, st, router := newTestServer(t)
	seedUser(t, st, "u1", "alice", "alice@example.com", "4821", "user")

	refresh, err := server.Tokens.CreateRefreshToken("u1")
	if err != nil {
		t.Fatalf("CreateRefreshToken: %v", err)
	}
	rec := doJSON(t, router, http.MethodPost, "/api/auth/refresh", "", RefreshRequest{RefreshToken: refresh})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var login LoginResponse
	decodeBody(t, rec, &login)
	if login.Token == "" {
		t.Error("refresh did not issue a new access token")
	}

	t.Run("access token cannot refresh", func(t *testing.T) {
		access := accessToken(t, server, "u1", "alice", "user")
		rec := doJSON(t, router, http.MethodPost, "/api/auth/refresh", "", RefreshRequest{RefreshToken: access})
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}

func seedCatalogItem(t *testing.T, st *memory.Store, id, rating string, views int, genres ...string) {
	t.Helper()
	ctx := context.Background()
	err := st.Upsert(ctx, models.ContentItem{
		ID:     id,
		Title:  id,
		Type:   "movie",
		Rating: rating,
	}, genres)
	if err != nil {
		t.Fatalf("Upsert(%s): %v", id, err)
	}
	for i := 0; i < views; i++ {
		if err := st.TrackView(ctx, "seed", id, 0, 0); err != nil {
			t.Fatalf("TrackView(%s): %v", id, err)
		}
	}
}

func TestTrendingEndpoint(t *testing.T) {
	_, st, router := newTestServer(t)
	seedCatalogItem(t, st, "hot", "7.0", 5)
	seedCatalogItem(t, st, "cold", "9.0", 0)

	rec := doJSON(t, router, http.MethodGet, "/api/content/trending?limit=1", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var ids []string
	decodeBody(t, rec, &ids)
	if !reflect.DeepEqual(ids, []string{"hot"}) {
		t.Errorf("ids = %v, want [hot]", ids)
	}
}

func TestContentDetail(t *testing.T) {
	_, st, router := newTestServer(t)
	err := st.Upsert(context.Background(), models.ContentItem{
		ID:    "m1",
		Title: "Movie One",
		Cast:  []byte(`["A", "B"]`),
		URLs:  []byte(`{"480p": "http://x"}`),
	}, []string{"Action"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	rec := doJSON(t, router, http.MethodGet, "/api/content/detail/m1", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var detail ContentDetailDTO
	decodeBody(t, rec, &detail)
	if detail.Title != "Movie One" {
		t.Errorf("title = %q", detail.Title)
	}
	if !reflect.DeepEqual(detail.Genres, []string{"Action"}) {
		t.Errorf("genres = %v, want [Action]", detail.Genres)
	}
	if !reflect.DeepEqual(detail.Cast, []string{"A", "B"}) {
		t.Errorf("cast = %v, want [A B]", detail.Cast)
	}

	t.Run("missing id is 404", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/content/detail/nope", "", nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestSearchEmptyQuery(t *testing.T) {
	_, st, router := newTestServer(t)
	seedCatalogItem(t, st, "anything", "5.0", 0)

	rec := doJSON(t, router, http.MethodGet, "/api/content/search", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var items []ContentCardDTO
	decodeBody(t, rec, &items)
	if len(items) != 0 {
		t.Errorf("items = %v, want empty for blank query", items)
	}
}

func TestWeeklyInvalidDay(t *testing.T) {
	_, _, router := newTestServer(t)
	rec := doJSON(t, router, http.MethodGet, "/api/content/weekly/funday", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body ErrorResponse
	decodeBody(t, rec, &body)
	if body.Error != "Invalid day" {
		t.Errorf("error = %q, want Invalid day", body.Error)
	}
}

func TestUserEndpointsRequireAuth(t *testing.T) {
	_, _, router := newTestServer(t)
	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/user/watchlist"},
		{http.MethodPost, "/api/user/track-view"},
		{http.MethodGet, "/api/user/recommendations"},
		{http.MethodGet, "/api/user/history"},
	}
	for _, p := range paths {
		rec := doJSON(t, router, p.method, p.path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s = %d, want 401", p.method, p.path, rec.Code)
		}
	}
}

func TestWatchlistFlow(t *testing.T) {
	server, st, router := newTestServer(t)
	seedUser(t, st, "u1", "alice", "alice@example.com", "4821", "user")
	token := accessToken(t, server, "u1", "alice", "user")

	rec := doJSON(t, router, http.MethodPost, "/api/user/watchlist/add", token, WatchlistRequest{ContentID: "m1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("add status = %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, router, http.MethodPost, "/api/user/watchlist/add", token, WatchlistRequest{ContentID: "m1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("repeat add status = %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/user/watchlist", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var ids []string
	decodeBody(t, rec, &ids)
	if !reflect.DeepEqual(ids, []string{"m1"}) {
		t.Errorf("watchlist = %v, want [m1]", ids)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/user/watchlist/remove", token, WatchlistRequest{ContentID: "m1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("remove status = %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodGet, "/api/user/watchlist", token, nil)
	decodeBody(t, rec, &ids)
	if len(ids) != 0 {
		t.Errorf("watchlist = %v, want empty", ids)
	}

	t.Run("blank content id rejected", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/user/watchlist/add", token, WatchlistRequest{})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestTrackViewAndHistory(t *testing.T) {
	server, st, router := newTestServer(t)
	seedUser(t, st, "u1", "alice", "alice@example.com", "4821", "user")
	seedCatalogItem(t, st, "m1", "7.0", 0)
	token := accessToken(t, server, "u1", "alice", "user")

	rec := doJSON(t, router, http.MethodPost, "/api/user/track-view", token, TrackViewRequest{
		ContentID: "m1",
		WatchTime: 300,
		Progress:  40,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("track status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/api/user/history", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("history status = %d", rec.Code)
	}
	var entries []HistoryEntryDTO
	decodeBody(t, rec, &entries)
	if len(entries) != 1 {
		t.Fatalf("len(history) = %d, want 1", len(entries))
	}
	if entries[0].ContentID != "m1" || entries[0].Progress != 40 {
		t.Errorf("entry = %+v, want m1 at 40%%", entries[0])
	}

	item, err := st.Get(context.Background(), "m1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if item.WatchCount != 1 {
		t.Errorf("watch count = %d, want 1", item.WatchCount)
	}
}

func TestRecommendationsEndpoint(t *testing.T) {
	server, st, router := newTestServer(t)
	seedUser(t, st, "u1", "alice", "alice@example.com", "4821", "user")
	seedCatalogItem(t, st, "seen", "5.0", 0, "Action")
	seedCatalogItem(t, st, "suggested", "8.0", 0, "Action")
	token := accessToken(t, server, "u1", "alice", "user")

	rec := doJSON(t, router, http.MethodPost, "/api/user/track-view", token, TrackViewRequest{ContentID: "seen", Progress: 90})
	if rec.Code != http.StatusOK {
		t.Fatalf("track status = %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/user/recommendations", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var ids []string
	decodeBody(t, rec, &ids)
	if !reflect.DeepEqual(ids, []string{"suggested"}) {
		t.Errorf("recommendations = %v, want [suggested]", ids)
	}
}

func TestAdminGating(t *testing.T) {
	server, st, router := newTestServer(t)
	seedUser(t, st, "u1", "alice", "alice@example.com", "4821", "user")
	seedUser(t, st, "a1", "root", "root@example.com", "0000", "admin")

	t.Run("no token", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/admin/weekly-assignments", "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("non-admin forbidden", func(t *testing.T) {
		token := accessToken(t, server, "u1", "alice", "user")
		rec := doJSON(t, router, http.MethodGet, "/api/admin/weekly-assignments", token, nil)
		if rec.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rec.Code)
		}
	})

	t.Run("admin allowed", func(t *testing.T) {
		token := accessToken(t, server, "a1", "root", "admin")
		rec := doJSON(t, router, http.MethodGet, "/api/admin/weekly-assignments", token, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}
	})
}

func TestAdminWeeklyRoundTrip(t *testing.T) {
	server, st, router := newTestServer(t)
	seedUser(t, st, "a1", "root", "root@example.com", "0000", "admin")
	token := accessToken(t, server, "a1", "root", "admin")

	rec := doJSON(t, router, http.MethodPost, "/api/admin/weekly-assignments", token, WeeklyReplaceRequest{
		Day:        "friday",
		ContentIDs: []string{"m1", "m2"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("replace status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/api/content/weekly/friday", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("read status = %d", rec.Code)
	}
	var ids []string
	decodeBody(t, rec, &ids)
	if !reflect.DeepEqual(ids, []string{"m1", "m2"}) {
		t.Errorf("friday = %v, want [m1 m2]", ids)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/content/weekly/all", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("all status = %d", rec.Code)
	}
	var all map[string][]string
	decodeBody(t, rec, &all)
	if len(all) != len(services.WeekDays) {
		t.Errorf("len(all) = %d, want %d day keys", len(all), len(services.WeekDays))
	}
}

func TestAdminHeroRoundTrip(t *testing.T) {
	server, st, router := newTestServer(t)
	seedUser(t, st, "a1", "root", "root@example.com", "0000", "admin")
	token := accessToken(t, server, "a1", "root", "admin")

	rec := doJSON(t, router, http.MethodPost, "/api/admin/hero/carousel", token, HeroReplaceRequest{
		ContentIDs: []string{"h1", "h2"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("replace status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/api/hero/carousel", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("read status = %d", rec.Code)
	}
	var ids []string
	decodeBody(t, rec, &ids)
	if !reflect.DeepEqual(ids, []string{"h1", "h2"}) {
		t.Errorf("carousel = %v, want [h1 h2]", ids)
	}
}
