package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"fasms/internal/auth"
	"fasms/internal/store"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	admins *store.AdministratorStore
	tokens *auth.TokenManager
	logger *slog.Logger
}

func NewAuthHandler(admins *store.AdministratorStore, tokens *auth.TokenManager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{admins: admins, tokens: tokens, logger: logger}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (req *credentialsRequest) validate() []FieldError {
	var errs []FieldError
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		errs = append(errs, FieldError{Field: "username", Message: "username is required"})
	}
	if req.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	}
	return errs
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	existing, err := h.admins.GetByUsername(req.Username)
	if err != nil {
		h.logger.Error("look up administrator", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to register administrator")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "username already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	admin, err := h.admins.Create(req.Username, string(hash))
	if err != nil {
		// A concurrent registration can slip past the lookup above.
		if store.IsDuplicateUsername(err) {
			writeError(w, http.StatusConflict, "username already registered")
			return
		}
		h.logger.Error("create administrator", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to register administrator")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"username":  admin.Username,
		"is_active": admin.IsActive,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	admin, err := h.admins.GetByUsername(req.Username)
	if err != nil {
		h.logger.Error("look up administrator", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to log in")
		return
	}
	if admin == nil || !admin.IsActive {
		writeError(w, http.StatusUnauthorized, "incorrect username or password")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.HashedPassword), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "incorrect username or password")
		return
	}

	token, err := h.tokens.Issue(admin.Username)
	if err != nil {
		h.logger.Error("issue token", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}
