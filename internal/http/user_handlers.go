package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"chadcinema-backend-go/internal/services"
)

type WatchlistRequest struct {
	ContentID string `json:"contentId"`
}

type TrackViewRequest struct {
	ContentID string `json:"contentId"`
	WatchTime int    `json:"watchTime"`
	Progress  int    `json:"progress"`
}

type HistoryEntryDTO struct {
	ContentID string `json:"contentId"`
	Progress  int    `json:"progress"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) Watchlist(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Stores.Users.Watchlist(r.Context(), CurrentUserID(r))
	if err != nil {
		WriteInternal(w)
		return
	}
	WriteJSON(w, http.StatusOK, ids)
}

func (s *Server) WatchlistAdd(w http.ResponseWriter, r *http.Request) {
	contentID, ok := decodeContentID(w, r)
	if !ok {
		return
	}
	if err := s.Stores.Users.AddToWatchlist(r.Context(), CurrentUserID(r), contentID); err != nil {
		WriteInternal(w)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) WatchlistRemove(w http.ResponseWriter, r *http.Request) {
	contentID, ok := decodeContentID(w, r)
	if !ok {
		return
	}
	if err := s.Stores.Users.RemoveFromWatchlist(r.Context(), CurrentUserID(r), contentID); err != nil {
		WriteInternal(w)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) TrackView(w http.ResponseWriter, r *http.Request) {
	var req TrackViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	contentID := strings.TrimSpace(req.ContentID)
	if contentID == "" {
		WriteError(w, http.StatusBadRequest, "contentId required")
		return
	}
	if err := s.Stores.Watches.TrackView(r.Context(), CurrentUserID(r), contentID, req.WatchTime, req.Progress); err != nil {
		WriteInternal(w)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) Recommendations(w http.ResponseWriter, r *http.Request) {
	ids, err := services.Recommendations(r.Context(), s.Stores.Contents, s.Stores.Watches, CurrentUserID(r))
	if err != nil {
		WriteInternal(w)
		return
	}
	WriteJSON(w, http.StatusOK, ids)
}

func (s *Server) History(w http.ResponseWriter, r *http.Request) {
	entries, err := s.Stores.Users.History(r.Context(), CurrentUserID(r))
	if err != nil {
		WriteInternal(w)
		return
	}
	items := make([]HistoryEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, HistoryEntryDTO{
			ContentID: entry.ContentID,
			Progress:  entry.Progress,
			Timestamp: entry.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	WriteJSON(w, http.StatusOK, items)
}

func decodeContentID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req WatchlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return "", false
	}
	contentID := strings.TrimSpace(req.ContentID)
	if contentID == "" {
		WriteError(w, http.StatusBadRequest, "contentId required")
		return "", false
	}
	return contentID, true
}
