// Package handlers exposes the shop over JSON/HTTP: login, catalog browsing,
// the per-user cart, checkout, orders, payments and back-office creation.
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/diewo77/go-shop/internal/apperr"
	"github.com/diewo77/go-shop/internal/auth"
	"github.com/diewo77/go-shop/internal/httpx"
	"github.com/diewo77/go-shop/internal/i18n"
	"github.com/diewo77/go-shop/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the user lookup needed by login.
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthHandler handles login and logout.
type AuthHandler struct {
	users UserStore
	carts *CartRegistry
	log   *zap.Logger
}

func NewAuthHandler(users UserStore, carts *CartRegistry, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{users: users, carts: carts, log: log}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userView struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Kind  string `json:"kind"`
	Role  string `json:"role,omitempty"`
}

// Login checks the credentials and sets the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.Decode(r, &req); err != nil {
		badRequest(w, r, "malformed login body")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		h.invalidCredentials(w, r)
		return
	}

	user, err := h.users.FindUserByEmail(r.Context(), req.Email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			h.invalidCredentials(w, r)
			return
		}
		writeError(w, r, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		h.invalidCredentials(w, r)
		return
	}

	auth.CreateSession(w, user.ID)
	h.log.Info("user logged in", zap.Uint("user_id", user.ID), zap.String("kind", string(user.Kind)))
	httpx.JSON(w, http.StatusOK, userView{
		ID: user.ID, Email: user.Email, Name: user.Name,
		Kind: string(user.Kind), Role: user.Role,
	})
}

func (h *AuthHandler) invalidCredentials(w http.ResponseWriter, r *http.Request) {
	lang := i18n.LangFrom(r.Context())
	httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", i18n.T(lang, "invalid_credentials"), nil)
}

// Logout clears the session and drops the user's cart.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if uid, ok := auth.UserIDFromContext(r.Context()); ok {
		h.carts.Drop(uid)
	}
	auth.ClearSession(w)
	w.WriteHeader(http.StatusNoContent)
}
