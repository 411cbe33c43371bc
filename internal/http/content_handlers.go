package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"chadcinema-backend-go/internal/models"
	"chadcinema-backend-go/internal/services"
	"chadcinema-backend-go/internal/store"

	"github.com/go-chi/chi/v5"
)

type ContentCardDTO struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Year        string   `json:"year"`
	Image       string   `json:"image"`
	Description string   `json:"description"`
	Genres      []string `json:"genres"`
	Cast        []string `json:"cast"`
	Director    string   `json:"director"`
	Rating      string   `json:"rating"`
	Duration    string   `json:"duration"`
	Type        string   `json:"type"`
	Industry    string   `json:"industry"`
	WatchCount  int      `json:"watch_count"`
}

type ContentDetailDTO struct {
	ContentCardDTO
	Episodes      json.RawMessage `json:"episodes"`
	URLs          json.RawMessage `json:"urls"`
	DownloadLinks json.RawMessage `json:"download_links"`
	CreatedAt     string          `json:"created_at"`
	UpdatedAt     string          `json:"updated_at"`
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) Trending(w http.ResponseWriter, r *http.Request) {
	limit := parseInt(r.URL.Query().Get("limit"), services.DefaultTrendingLimit)
	ids, err := services.Trending(r.Context(), s.Stores.Contents, limit)
	if err != nil {
		WriteInternal(w)
		return
	}
	WriteJSON(w, http.StatusOK, ids)
}

func (s *Server) ByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	limit := parseInt(r.URL.Query().Get("limit"), 50)
	items, err := s.Stores.Contents.ByCategory(r.Context(), category, limit)
	if err != nil {
		WriteInternal(w)
		return
	}
	WriteJSON(w, http.StatusOK, toCards(items))
}

func (s *Server) ContentDetail(w http.ResponseWriter, r *http.Request) {
	contentID := chi.URLParam(r, "contentID")
	item, err := s.Stores.Contents.Get(r.Context(), contentID)
	if errors.Is(err, store.ErrNotFound) {
		WriteError(w, http.StatusNotFound, "Content not found")
		return
	}
	if err != nil {
		WriteInternal(w)
		return
	}
	WriteJSON(w, http.StatusOK, ContentDetailDTO{
		ContentCardDTO: toCard(*item),
		Episodes:       rawArrayOrEmpty(item.Episodes),
		URLs:           rawObjectOrEmpty(item.URLs),
		DownloadLinks:  rawObjectOrEmpty(item.DownloadLinks),
		CreatedAt:      item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      item.UpdatedAt.UTC().Format(time.RFC3339),
	})
}

func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		WriteJSON(w, http.StatusOK, []ContentCardDTO{})
		return
	}
	items, err := s.Stores.Contents.Search(r.Context(), query, 50)
	if err != nil {
		WriteInternal(w)
		return
	}
	WriteJSON(w, http.StatusOK, toCards(items))
}

func toCard(item models.ContentItem) ContentCardDTO {
	genres := item.Genres
	if genres == nil {
		genres = []string{}
	}
	cast := []string{}
	// Malformed cast data degrades to an empty list.
	_ = json.Unmarshal(item.Cast, &cast)
	return ContentCardDTO{
		ID:          item.ID,
		Title:       item.Title,
		Year:        item.Year,
		Image:       item.Image,
		Description: item.Description,
		Genres:      genres,
		Cast:        cast,
		Director:    item.Director,
		Rating:      item.Rating,
		Duration:    item.Duration,
		Type:        item.Type,
		Industry:    item.Industry,
		WatchCount:  item.WatchCount,
	}
}

func toCards(items []models.ContentItem) []ContentCardDTO {
	cards := make([]ContentCardDTO, 0, len(items))
	for _, item := range items {
		cards = append(cards, toCard(item))
	}
	return cards
}

func rawArrayOrEmpty(raw []byte) json.RawMessage {
	if json.Valid(raw) && len(raw) > 0 {
		return raw
	}
	return json.RawMessage("[]")
}

func rawObjectOrEmpty(raw []byte) json.RawMessage {
	if json.Valid(raw) && len(raw) > 0 {
		return raw
	}
	return json.RawMessage("{}")
}

func parseInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
