package backendtwin

import (
	"encoding/json"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (credentialsRequest, bool) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		detail(w, http.StatusBadRequest, "Invalid request body")
		return req, false
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		fieldErrors(w, "username", "field required")
		return req, false
	}
	if req.Password == "" {
		fieldErrors(w, "password", "field required")
		return req, false
	}
	return req, true
}

// Register handles POST /auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.cost)
	if err != nil {
		detail(w, http.StatusInternalServerError, "Could not hash password")
		return
	}
	if !h.store.addUser(req.Username, hash) {
		detail(w, http.StatusConflict, "Username already taken")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"username": req.Username})
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	hash, found := h.store.userHash(req.Username)
	if !found || bcrypt.CompareHashAndPassword(hash, []byte(req.Password)) != nil {
		detail(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}
	token, err := h.tokens.issue(req.Username)
	if err != nil {
		detail(w, http.StatusInternalServerError, "Could not issue token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": token})
}
