package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/georgemunganga/novashop/internal/modules/auth"
	"github.com/georgemunganga/novashop/internal/modules/catalog"
	"github.com/georgemunganga/novashop/internal/modules/role"
	"github.com/georgemunganga/novashop/internal/modules/shop"
	"github.com/georgemunganga/novashop/internal/modules/user"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog struct{ products []*catalog.Product }

func (c stubCatalog) ListProducts(context.Context) ([]*catalog.Product, error) {
	return c.products, nil
}

func (c stubCatalog) CreateProduct(context.Context, catalog.Owner, catalog.CreateProductRequest) (*catalog.Product, error) {
	return nil, nil
}

type noRoles struct{}

func (noRoles) Check(context.Context, uuid.UUID, role.Role) (bool, error) { return false, nil }

func setupRouter(u *user.User) (*chi.Mux, *shop.Sessions) {
	sessions := shop.NewSessions(stubCatalog{products: []*catalog.Product{
		{ID: "h", Title: "Sonic Headphones", Price: 12999},
	}}, noRoles{}, shop.DefaultSessionsConfig)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if u != nil {
				req = req.WithContext(auth.WithUser(req.Context(), u))
			}
			next.ServeHTTP(w, req)
		})
	})
	shop.NewHandler(sessions).RegisterRoutes(r)
	NewHandler(NewService(NewSandboxGateway()), sessions, NewTrackers(), "http://localhost:3000").RegisterRoutes(r)
	return r, sessions
}

func openSession(t *testing.T, r http.Handler) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	id := rec.Header().Get(shop.SessionHeader)
	require.NotEmpty(t, id)
	return id
}

func post(r http.Handler, path, session string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(shop.SessionHeader, session)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_CheckoutAndConfirm(t *testing.T) {
	u := &user.User{ID: uuid.New(), Email: "ada@example.com"}
	r, sessions := setupRouter(u)
	sid := openSession(t, r)

	rec := post(r, "/api/v1/checkout", sid, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "empty cart")

	post(r, "/api/v1/cart/items", sid, map[string]string{"product_id": "h"})
	rec = post(r, "/api/v1/checkout", sid, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var res Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, Redirecting, res.State)
	assert.Contains(t, res.URL, "/payment-success?session_id="+res.SessionID)

	store, _ := sessions.Get(sid)
	assert.Len(t, store.Cart(), 1, "checkout leaves the cart alone")

	rec = post(r, "/api/v1/checkout/confirm", sid, map[string]string{"session_id": res.SessionID})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.Cart())
}

func TestHandler_CheckoutAnonymous(t *testing.T) {
	r, _ := setupRouter(nil)
	sid := openSession(t, r)
	post(r, "/api/v1/cart/items", sid, map[string]string{"product_id": "h"})

	rec := post(r, "/api/v1/checkout", sid, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_ConfirmUnknownSessionKeepsCart(t *testing.T) {
	u := &user.User{ID: uuid.New()}
	r, sessions := setupRouter(u)
	sid := openSession(t, r)
	post(r, "/api/v1/cart/items", sid, map[string]string{"product_id": "h"})

	rec := post(r, "/api/v1/checkout/confirm", sid, map[string]string{"session_id": "cs_nope"})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	store, _ := sessions.Get(sid)
	assert.Len(t, store.Cart(), 1)
}
