package shop

import (
	"encoding/json"
	"net/http"

	"github.com/georgemunganga/novashop/internal/core/errx"
	"github.com/georgemunganga/novashop/internal/modules/auth"
	"github.com/georgemunganga/novashop/internal/modules/catalog"
	"github.com/georgemunganga/novashop/internal/modules/pricing"
	logx "github.com/georgemunganga/novashop/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	sessions *Sessions
}

func NewHandler(sessions *Sessions) *Handler {
	return &Handler{sessions: sessions}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Group(func(r chi.Router) {
		r.Use(h.sessions.Middleware)

		r.Get("/api/v1/products", h.listProducts)
		r.Post("/api/v1/products", h.addProduct)
		r.Post("/api/v1/products/refresh", h.refreshProducts)

		r.Get("/api/v1/cart", h.getCart)
		r.Post("/api/v1/cart/items", h.addCartItem)
		r.Delete("/api/v1/cart/items/{id}", h.removeCartItem)
		r.Delete("/api/v1/cart", h.clearCart)
	})
	r.Delete("/api/v1/session", h.closeSession)
}

// CartView is the cart as returned to clients.
type CartView struct {
	Items []CartItem `json:"items"`
	pricing.PricedOrder
	Formatted FormattedTotals `json:"formatted"`
}

type FormattedTotals struct {
	Subtotal   string `json:"subtotal"`
	Commission string `json:"commission"`
	Total      string `json:"total"`
}

func NewCartView(items []CartItem) CartView {
	if items == nil {
		items = []CartItem{}
	}
	priced := pricing.Price(items)
	return CartView{
		Items:       items,
		PricedOrder: priced,
		Formatted: FormattedTotals{
			Subtotal:   priced.Subtotal.String(),
			Commission: priced.Commission.String(),
			Total:      priced.Total.String(),
		},
	}
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	store := StoreFrom(r.Context())
	respond(w, http.StatusOK, map[string]interface{}{
		"products": store.Products(),
		"loading":  store.Loading(),
	})
}

func (h *Handler) refreshProducts(w http.ResponseWriter, r *http.Request) {
	products, err := StoreFrom(r.Context()).FetchProducts(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, products)
}

func (h *Handler) addProduct(w http.ResponseWriter, r *http.Request) {
	var req catalog.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errx.Invalid("invalid JSON body"))
		return
	}

	store := StoreFrom(r.Context())
	p, err := store.AddProduct(r.Context(), auth.UserFrom(r.Context()), req)
	if err != nil {
		respondError(w, err)
		return
	}
	if _, err := store.FetchProducts(r.Context()); err != nil {
		logx.Warn().Err(err).Str("product_id", p.ID).Msg("refresh after add failed")
	}
	respond(w, http.StatusCreated, p)
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, NewCartView(StoreFrom(r.Context()).Cart()))
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		respondError(w, errx.Invalid("product_id is required"))
		return
	}

	store := StoreFrom(r.Context())
	if err := store.AddToCartByID(req.ProductID); err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, NewCartView(store.Cart()))
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	store := StoreFrom(r.Context())
	store.RemoveFromCart(chi.URLParam(r, "id"))
	respond(w, http.StatusOK, NewCartView(store.Cart()))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	store := StoreFrom(r.Context())
	store.ClearCart()
	respond(w, http.StatusOK, NewCartView(store.Cart()))
}

func (h *Handler) closeSession(w http.ResponseWriter, r *http.Request) {
	if id := r.Header.Get(SessionHeader); id != "" {
		h.sessions.Close(id)
	}
	w.WriteHeader(http.StatusNoContent)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, err error) {
	respond(w, errx.StatusOf(err), map[string]string{"error": errx.MessageOf(err)})
}
