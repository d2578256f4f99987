package handler

import (
	"net/http"

	"go-checklist-api/internal/auth"
	"go-checklist-api/internal/model"
	"go-checklist-api/internal/service"
	"go-checklist-api/internal/validation"
)

type AuthHandler struct {
	service   *service.AuthService
	transport *auth.CookieTransport
}

func NewAuthHandler(service *service.AuthService, transport *auth.CookieTransport) *AuthHandler {
	return &AuthHandler{service: service, transport: transport}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload model.RegisterRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.service.Register(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, user, nil)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload model.LoginRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	// A missing username or password is a malformed request and gets 400
	// with field errors; only complete credentials reach the uniform 401.
	if err := validation.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.transport.Attach(w, result.Token)
	writeSuccess(w, http.StatusOK, model.LoginResponse{
		JWT:     result.Token,
		Message: "You have successfully logged in",
		User:    result.User,
	}, nil)
}

// User reads the session itself so it can tell a deleted user (404) apart
// from a bad token (401).
func (h *AuthHandler) User(w http.ResponseWriter, r *http.Request) {
	token, _ := h.transport.Extract(r)

	user, err := h.service.CurrentUser(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, user, nil)
}

// Logout always succeeds. Tokens already handed out stay valid until they
// expire.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.transport.Clear(w)
	writeSuccess(w, http.StatusOK, model.MessageResponse{Message: "Successfully logged out"}, nil)
}
