package auth

import (
	"encoding/json"
	"net/http"

	"github.com/georgemunganga/novashop/internal/core/errx"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/signup", h.signUp)
		r.Post("/signin", h.signIn)
		r.Post("/signout", h.signOut)
		r.Get("/me", h.me)
	})
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Seller   bool   `json:"seller"`
}

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errx.Invalid("invalid JSON body"))
		return
	}

	u, err := h.service.SignUp(r.Context(), req.Email, req.Password, req.Seller)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, u)
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errx.Invalid("invalid JSON body"))
		return
	}

	session, err := h.service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, session)
}

func (h *Handler) signOut(w http.ResponseWriter, r *http.Request) {
	if token := TokenFrom(r.Context()); token != "" {
		if err := h.service.SignOut(r.Context(), token); err != nil {
			respondError(w, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	u := UserFrom(r.Context())
	if u == nil {
		respondError(w, errx.Unauthorized("sign in required"))
		return
	}
	respond(w, http.StatusOK, u)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, err error) {
	respond(w, errx.StatusOf(err), map[string]string{"error": errx.MessageOf(err)})
}
