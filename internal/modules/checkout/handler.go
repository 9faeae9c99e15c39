package checkout

import (
	"encoding/json"
	"net/http"

	"github.com/georgemunganga/novashop/internal/core/errx"
	"github.com/georgemunganga/novashop/internal/modules/auth"
	"github.com/georgemunganga/novashop/internal/modules/shop"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service  Service
	sessions *shop.Sessions
	trackers *Trackers
	baseURL  string
}

// NewHandler wires checkout to the shop sessions. Trackers are dropped when
// their shop session closes.
func NewHandler(service Service, sessions *shop.Sessions, trackers *Trackers, baseURL string) *Handler {
	sessions.OnClose(trackers.Drop)
	return &Handler{service: service, sessions: sessions, trackers: trackers, baseURL: baseURL}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/checkout", func(r chi.Router) {
		r.Use(h.sessions.Middleware)
		r.Post("/", h.checkout)
		r.Post("/confirm", h.confirm)
	})
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	res, err := h.service.Checkout(ctx, Request{
		Buyer:   auth.UserFrom(ctx),
		Items:   shop.StoreFrom(ctx).Cart(),
		BaseURL: h.baseURL,
		Tracker: h.trackers.For(shop.SessionIDFrom(ctx)),
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, res)
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errx.Invalid("invalid JSON body"))
		return
	}

	ctx := r.Context()
	if err := h.service.Confirm(ctx, auth.UserFrom(ctx), req.SessionID); err != nil {
		respondError(w, err)
		return
	}
	store := shop.StoreFrom(ctx)
	store.ClearCart()
	respond(w, http.StatusOK, shop.NewCartView(store.Cart()))
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, err error) {
	respond(w, errx.StatusOf(err), map[string]string{"error": errx.MessageOf(err)})
}
