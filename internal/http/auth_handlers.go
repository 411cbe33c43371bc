package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"chadcinema-backend-go/internal/models"
	"chadcinema-backend-go/internal/services"
	"chadcinema-backend-go/internal/store"

	"github.com/google/uuid"
)

type SignupRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	PIN      string `json:"pin"`
}

type LoginRequest struct {
	Email string `json:"email"`
	PIN   string `json:"pin"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type LoginResponse struct {
	User         UserResponse `json:"user"`
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresAt    int64        `json:"expiresAt"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (s *Server) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)
	if email == "" || username == "" || strings.TrimSpace(req.PIN) == "" {
		WriteError(w, http.StatusBadRequest, "Email, username and PIN required")
		return
	}
	hash, err := services.HashPIN(req.PIN)
	if err != nil {
		WriteInternal(w)
		return
	}
	err = s.Stores.Users.Create(r.Context(), models.User{
		ID:       uuid.NewString(),
		Email:    email,
		Username: username,
		PINHash:  hash,
		Role:     "user",
	})
	if errors.Is(err, store.ErrConflict) {
		WriteError(w, http.StatusConflict, "User already exists")
		return
	}
	if err != nil {
		WriteInternal(w)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]bool{"success": true})
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || strings.TrimSpace(req.PIN) == "" {
		WriteError(w, http.StatusBadRequest, "Email and PIN required")
		return
	}
	user, err := s.Stores.Users.ByEmail(r.Context(), email)
	if errors.Is(err, store.ErrNotFound) {
		WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		WriteInternal(w)
		return
	}
	if !services.VerifyPIN(req.PIN, user.PINHash) {
		WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	access, exp, err := s.Tokens.CreateAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		WriteInternal(w)
		return
	}
	refresh, err := s.Tokens.CreateRefreshToken(user.ID)
	if err != nil {
		WriteInternal(w)
		return
	}
	WriteJSON(w, http.StatusOK, LoginResponse{
		User: UserResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		},
		Token:        access,
		RefreshToken: refresh,
		ExpiresAt:    exp,
	})
}

func (s *Server) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	token, claims, err := s.Tokens.ParseToken(req.RefreshToken)
	if err != nil || !token.Valid || claims["typ"] != "refresh" {
		WriteError(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	userID, _ := claims["sub"].(string)
	user, err := s.Stores.Users.ByID(r.Context(), userID)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	access, exp, err := s.Tokens.CreateAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		WriteInternal(w)
		return
	}
	refresh, err := s.Tokens.CreateRefreshToken(user.ID)
	if err != nil {
		WriteInternal(w)
		return
	}
	WriteJSON(w, http.StatusOK, LoginResponse{
		User: UserResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		},
		Token:        access,
		RefreshToken: refresh,
		ExpiresAt:    exp,
	})
}

func (s *Server) Verify(w http.ResponseWriter, r *http.Request) {
	user, err := s.Stores.Users.ByID(r.Context(), CurrentUserID(r))
	if errors.Is(err, store.ErrNotFound) {
		WriteError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		WriteInternal(w)
		return
	}
	WriteJSON(w, http.StatusOK, UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}
