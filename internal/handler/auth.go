package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"github.com/mzielinski/habitloop/internal/auth"
	"github.com/mzielinski/habitloop/internal/model"
	"github.com/mzielinski/habitloop/internal/store"
)

type AuthHandler struct {
	userStore *store.UserStore
	tokens    *auth.Tokens
	logger    *slog.Logger
}

func NewAuthHandler(us *store.UserStore, tokens *auth.Tokens, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{userStore: us, tokens: tokens, logger: logger}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeError(w, http.StatusBadRequest, "invalid email address")
		return
	}
	if len(req.Password) < auth.MinPasswordLength {
		writeError(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	existing, err := h.userStore.GetByEmail(req.Email)
	if err != nil {
		h.logger.Error("register lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}
	if existing != nil {
		writeError(w, http.StatusBadRequest, "a user with this email already exists")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	user, err := h.userStore.Create(req.Email, req.Name, hash)
	if err != nil {
		h.logger.Error("create user", "error", err)
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		h.logger.Error("issue token", "error", err)
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	h.logger.Info("user registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, authResponse{User: user, Token: token})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.userStore.GetByEmail(req.Email)
	if err != nil {
		h.logger.Error("login lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}
	// Same response for unknown email and wrong password.
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		h.logger.Error("issue token", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{User: user, Token: token})
}

// Me returns the authenticated user, letting clients verify a stored token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	user, err := h.userStore.GetByID(userID)
	if err != nil {
		h.logger.Error("get user", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "user no longer exists")
		return
	}

	writeJSON(w, http.StatusOK, map[string]*model.User{"user": user})
}
