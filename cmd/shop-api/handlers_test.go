package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/tienda-ecom/internal/cart"
	"github.com/MikeMC777/tienda-ecom/internal/catalog"
	"github.com/MikeMC777/tienda-ecom/internal/logger"
	"github.com/MikeMC777/tienda-ecom/internal/order"
	"github.com/MikeMC777/tienda-ecom/internal/shop"
	"github.com/MikeMC777/tienda-ecom/internal/store"
	"github.com/MikeMC777/tienda-ecom/internal/testutil"
	"github.com/MikeMC777/tienda-ecom/internal/user"
)

type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }

type api struct {
	r      *gin.Engine
	bauble catalog.Item
	widget catalog.Item
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.SQLite(t, store.Models()...)
	ctx := context.Background()

	items := catalog.NewGormRepo(db)
	a := &api{
		bauble: catalog.Item{Name: "Christmas Tree Bauble", Description: "Red and Sparkly Bauble", Price: decimal.RequireFromString("17.99")},
		widget: catalog.Item{Name: "Round Widget", Description: "A widget that is round", Price: decimal.RequireFromString("2.99")},
	}
	require.NoError(t, items.Create(ctx, &a.bauble))
	require.NoError(t, items.Create(ctx, &a.widget))

	svc := shop.NewService(shop.Deps{
		Items:  items,
		Carts:  cart.NewGormRepo(db),
		Orders: order.NewGormRepo(db),
		Users:  user.NewGormRepo(db),
		Hasher: plainHasher{},
		Now:    func() time.Time { return time.Date(2024, 12, 24, 12, 0, 0, 0, time.UTC) },
	})
	a.r = newRouter(svc, logger.Nop(), routerOptions{})
	return a
}

func (a *api) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	return w
}

func (a *api) register(t *testing.T, username string) map[string]any {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/user/create", user.CreateUserRequest{
		Username: username, Password: username + "_password", ConfirmPassword: username + "_password",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[map[string]any](t, w)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func assertEmpty(t *testing.T, w *httptest.ResponseRecorder, code int) {
	t.Helper()
	assert.Equal(t, code, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestCreateUser(t *testing.T) {
	a := newAPI(t)

	got := a.register(t, "mickey_mouse")
	assert.Equal(t, "mickey_mouse", got["username"])
	assert.NotContains(t, got, "password")
	c, ok := got["cart"].(map[string]any)
	require.True(t, ok, "cart should be an object")
	assert.Empty(t, c["items"])
	assert.Equal(t, "0", c["total"])

	cases := []struct {
		name string
		body any
	}{
		{"short password", user.CreateUserRequest{Username: "pluto", Password: "123456", ConfirmPassword: "123456"}},
		{"mismatch", user.CreateUserRequest{Username: "pluto", Password: "pluto_password", ConfirmPassword: "other_password"}},
		{"blank username", user.CreateUserRequest{Username: "  ", Password: "pluto_password", ConfirmPassword: "pluto_password"}},
		{"taken", user.CreateUserRequest{Username: "mickey_mouse", Password: "pluto_password", ConfirmPassword: "pluto_password"}},
		{"malformed json", `{"username":`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assertEmpty(t, a.do(t, http.MethodPost, "/api/user/create", tc.body), http.StatusBadRequest)
		})
	}

	w := a.do(t, http.MethodGet, "/api/user/pluto", nil)
	assertEmpty(t, w, http.StatusNotFound)
}

func TestFindUser(t *testing.T) {
	a := newAPI(t)
	created := a.register(t, "goofy")
	id := int64(created["id"].(float64))

	w := a.do(t, http.MethodGet, "/api/user/goofy", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(id), decode[map[string]any](t, w)["id"])

	w = a.do(t, http.MethodGet, "/api/user/id/"+jsonID(id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "goofy", decode[map[string]any](t, w)["username"])

	assertEmpty(t, a.do(t, http.MethodGet, "/api/user/id/9999", nil), http.StatusNotFound)
	assertEmpty(t, a.do(t, http.MethodGet, "/api/user/id/abc", nil), http.StatusBadRequest)
	assertEmpty(t, a.do(t, http.MethodGet, "/api/user/donald", nil), http.StatusNotFound)
}

func TestItems(t *testing.T) {
	a := newAPI(t)

	w := a.do(t, http.MethodGet, "/api/item", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]catalog.Item](t, w), 2)

	w = a.do(t, http.MethodGet, "/api/item/"+jsonID(a.bauble.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	it := decode[catalog.Item](t, w)
	assert.Equal(t, "Christmas Tree Bauble", it.Name)
	assert.True(t, it.Price.Equal(decimal.RequireFromString("17.99")))

	raw := decode[map[string]any](t, a.do(t, http.MethodGet, "/api/item/"+jsonID(a.bauble.ID), nil))
	assert.Equal(t, "17.99", raw["price"], "money is an exact decimal string")

	assertEmpty(t, a.do(t, http.MethodGet, "/api/item/9999", nil), http.StatusNotFound)
	assertEmpty(t, a.do(t, http.MethodGet, "/api/item/abc", nil), http.StatusBadRequest)

	w = a.do(t, http.MethodGet, "/api/item/name/Round%20Widget", nil)
	require.Equal(t, http.StatusOK, w.Code)
	found := decode[[]catalog.Item](t, w)
	require.Len(t, found, 1)
	assert.Equal(t, a.widget.ID, found[0].ID)

	assertEmpty(t, a.do(t, http.MethodGet, "/api/item/name/Triangle", nil), http.StatusNotFound)
}

func TestCart(t *testing.T) {
	a := newAPI(t)
	a.register(t, "goofy")

	w := a.do(t, http.MethodPost, "/api/cart/addToCart", shop.ModifyCartRequest{Username: "goofy", ItemID: a.bauble.ID, Quantity: 2})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	c := decode[map[string]any](t, w)
	assert.Equal(t, "35.98", c["total"])
	assert.Len(t, c["items"], 2)

	w = a.do(t, http.MethodPost, "/api/cart/removeFromCart", shop.ModifyCartRequest{Username: "goofy", ItemID: a.bauble.ID, Quantity: 1})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "17.99", decode[map[string]any](t, w)["total"])

	cases := []struct {
		name string
		path string
		body any
		code int
	}{
		{"unknown user", "/api/cart/addToCart", shop.ModifyCartRequest{Username: "donald", ItemID: a.bauble.ID, Quantity: 1}, http.StatusNotFound},
		{"unknown item", "/api/cart/addToCart", shop.ModifyCartRequest{Username: "goofy", ItemID: 9999, Quantity: 1}, http.StatusNotFound},
		{"zero quantity", "/api/cart/addToCart", shop.ModifyCartRequest{Username: "goofy", ItemID: a.bauble.ID, Quantity: 0}, http.StatusBadRequest},
		{"not in cart", "/api/cart/removeFromCart", shop.ModifyCartRequest{Username: "goofy", ItemID: a.widget.ID, Quantity: 1}, http.StatusNotFound},
		{"malformed json", "/api/cart/removeFromCart", "not json", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assertEmpty(t, a.do(t, http.MethodPost, tc.path, tc.body), tc.code)
		})
	}
}

func TestOrders(t *testing.T) {
	a := newAPI(t)
	a.register(t, "goofy")

	w := a.do(t, http.MethodGet, "/api/order/history/goofy", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	a.do(t, http.MethodPost, "/api/cart/addToCart", shop.ModifyCartRequest{Username: "goofy", ItemID: a.widget.ID, Quantity: 7})

	w = a.do(t, http.MethodPost, "/api/order/submit/goofy", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	o := decode[map[string]any](t, w)
	assert.NotNil(t, o["id"])
	assert.Equal(t, "20.93", o["total"])
	assert.Len(t, o["items"], 7)
	assert.Equal(t, "goofy", o["user"].(map[string]any)["username"])

	w = a.do(t, http.MethodGet, "/api/order/history/goofy", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	// cart survives submission
	w = a.do(t, http.MethodGet, "/api/user/goofy", nil)
	assert.Equal(t, "20.93", decode[map[string]any](t, w)["cart"].(map[string]any)["total"])

	assertEmpty(t, a.do(t, http.MethodPost, "/api/order/submit/donald", nil), http.StatusNotFound)
	assertEmpty(t, a.do(t, http.MethodGet, "/api/order/history/donald", nil), http.StatusNotFound)
}

func TestHealthz(t *testing.T) {
	a := newAPI(t)
	w := a.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())

	gin.SetMode(gin.TestMode)
	r := newRouter(nil, logger.Nop(), routerOptions{Ping: func(*gin.Context) error { return errors.New("down") }})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRequestIDHeader(t *testing.T) {
	a := newAPI(t)
	w := a.do(t, http.MethodGet, "/api/item", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func jsonID(id int64) string { return strconv.FormatInt(id, 10) }
