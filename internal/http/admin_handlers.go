package httpapi

import (
	"encoding/json"
	"net/http"

	"chadcinema-backend-go/internal/services"
)

type WeeklyReplaceRequest struct {
	Day        string   `json:"day"`
	ContentIDs []string `json:"content_ids"`
}

type HeroReplaceRequest struct {
	ContentIDs []string `json:"content_ids"`
}

func (s *Server) AdminWeeklyAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := services.AllWeeklyContent(r.Context(), s.Stores.Curation)
	if err != nil {
		WriteInternal(w)
		return
	}
	WriteJSON(w, http.StatusOK, assignments)
}

func (s *Server) AdminReplaceWeekly(w http.ResponseWriter, r *http.Request) {
	var req WeeklyReplaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	err := services.ReplaceWeekly(r.Context(), s.Stores.Curation, req.Day, req.ContentIDs)
	if mapServiceError(w, err) {
		return
	}
	if err != nil {
		WriteInternal(w)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) AdminReplaceHero(w http.ResponseWriter, r *http.Request) {
	var req HeroReplaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := services.ReplaceHero(r.Context(), s.Stores.Curation, req.ContentIDs); err != nil {
		WriteInternal(w)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
