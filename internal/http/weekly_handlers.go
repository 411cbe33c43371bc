package httpapi

import (
	"net/http"

	"chadcinema-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

func (s *Server) WeeklyByDay(w http.ResponseWriter, r *http.Request) {
	day := chi.URLParam(r, "day")
	ids, err := services.WeeklyContent(r.Context(), s.Stores.Curation, day)
	if mapServiceError(w, err) {
		return
	}
	if err != nil {
		WriteInternal(w)
		return
	}
	WriteJSON(w, http.StatusOK, ids)
}

func (s *Server) WeeklyToday(w http.ResponseWriter, r *http.Request) {
	ids, err := services.TodayContent(r.Context(), s.Stores.Curation)
	if err != nil {
		WriteInternal(w)
		return
	}
	WriteJSON(w, http.StatusOK, ids)
}

func (s *Server) WeeklyAll(w http.ResponseWriter, r *http.Request) {
	assignments, err := services.AllWeeklyContent(r.Context(), s.Stores.Curation)
	if err != nil {
		WriteInternal(w)
		return
	}
	WriteJSON(w, http.StatusOK, assignments)
}

func (s *Server) HeroCarousel(w http.ResponseWriter, r *http.Request) {
	ids, err := services.HeroCarousel(r.Context(), s.Stores.Curation)
	if err != nil {
		WriteInternal(w)
		return
	}
	WriteJSON(w, http.StatusOK, ids)
}

func mapServiceError(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}
	if serr, ok := err.(services.ServiceError); ok {
		WriteError(w, serr.Status, serr.Message)
		return true
	}
	return false
}
