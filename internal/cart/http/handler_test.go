package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itaipu/go-shop/internal/apperr"
	"github.com/itaipu/go-shop/internal/cart/domain"
)

type cartServiceMock struct {
	cart *domain.Cart
	err  error

	gotCartID    string
	gotProductID int64
	gotQuantity  int
}

func (m *cartServiceMock) CreateCart(context.Context) (*domain.Cart, error) {
	return m.cart, m.err
}

func (m *cartServiceMock) GetCart(_ context.Context, cartID string) (*domain.Cart, error) {
	m.gotCartID = cartID
	return m.cart, m.err
}

func (m *cartServiceMock) AddItem(_ context.Context, cartID string, productID int64, quantity int) (*domain.Cart, error) {
	m.gotCartID, m.gotProductID, m.gotQuantity = cartID, productID, quantity
	return m.cart, m.err
}

func (m *cartServiceMock) RemoveItem(_ context.Context, cartID string, productID int64) (*domain.Cart, error) {
	m.gotCartID, m.gotProductID = cartID, productID
	return m.cart, m.err
}

func (m *cartServiceMock) UpdateItemQuantity(_ context.Context, cartID string, productID int64, quantity int) (*domain.Cart, error) {
	m.gotCartID, m.gotProductID, m.gotQuantity = cartID, productID, quantity
	return m.cart, m.err
}

func (m *cartServiceMock) ClearCart(_ context.Context, cartID string) (*domain.Cart, error) {
	m.gotCartID = cartID
	return m.cart, m.err
}

func newRouter(service CartService) *chi.Mux {
	handler := NewCartHandler(service, time.Second)
	r := chi.NewRouter()
	r.Route("/api/cart", func(r chi.Router) {
		r.Post("/", handler.CreateCart)
		r.Get("/{cartId}", handler.GetCart)
		r.Delete("/{cartId}", handler.ClearCart)
		r.Post("/{cartId}/items", handler.AddItem)
		r.Put("/{cartId}/items/{productId}", handler.UpdateItemQuantity)
		r.Delete("/{cartId}/items/{productId}", handler.RemoveItem)
	})
	return r
}

func sampleCart() *domain.Cart {
	return &domain.Cart{
		ID:              "cart-1",
		Items:           []domain.CartItem{},
		TotalPrice:      decimal.RequireFromString("30.00"),
		DefaultCurrency: "BRL",
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestCreateCart_Returns201(t *testing.T) {
	mock := &cartServiceMock{cart: sampleCart()}
	router := newRouter(mock)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cart", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	var cart domain.Cart
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&cart))
	assert.Equal(t, "cart-1", cart.ID)
	assert.Equal(t, "BRL", cart.DefaultCurrency)
}

func TestCreateCart_Failure500(t *testing.T) {
	mock := &cartServiceMock{err: apperr.Internal("failed to create cart", nil)}
	router := newRouter(mock)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cart", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal_error", decodeError(t, rec).Code)
}

func TestGetCart_NotFound404(t *testing.T) {
	mock := &cartServiceMock{err: apperr.NotFound("cart not found")}
	router := newRouter(mock)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cart/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "not_found", body.Code)
	assert.Equal(t, "missing", mock.gotCartID)
}

func TestGetCart_Success(t *testing.T) {
	mock := &cartServiceMock{cart: sampleCart()}
	router := newRouter(mock)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cart/cart-1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"id": "cart-1",
		"items": [],
		"totalPrice": "30",
		"defaultCurrency": "BRL",
		"totalsInOtherCurrencies": null
	}`, rec.Body.String())
}

func TestAddItem_Success(t *testing.T) {
	mock := &cartServiceMock{cart: sampleCart()}
	router := newRouter(mock)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cart/cart-1/items?productId=7&quantity=3", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cart-1", mock.gotCartID)
	assert.Equal(t, int64(7), mock.gotProductID)
	assert.Equal(t, 3, mock.gotQuantity)
}

// The mutation endpoints collapse an absent cart into 400, unlike GetCart's
// 404. The kind in the body still says not_found.
func TestAddItem_AbsentCartIs400(t *testing.T) {
	mock := &cartServiceMock{err: apperr.NotFound("cart not found")}
	router := newRouter(mock)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cart/missing/items?productId=7&quantity=3", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Code)
}

func TestAddItem_BadQuantity400(t *testing.T) {
	mock := &cartServiceMock{cart: sampleCart()}
	router := newRouter(mock)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cart/cart-1/items?productId=7&quantity=abc", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", decodeError(t, rec).Code)
	assert.Zero(t, mock.gotQuantity, "service must not be reached on a parse error")
}

func TestAddItem_MissingProductID400(t *testing.T) {
	mock := &cartServiceMock{cart: sampleCart()}
	router := newRouter(mock)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/cart/cart-1/items?quantity=3", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateItemQuantity_Success(t *testing.T) {
	mock := &cartServiceMock{cart: sampleCart()}
	router := newRouter(mock)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/cart/cart-1/items/7?quantity=5", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), mock.gotProductID)
	assert.Equal(t, 5, mock.gotQuantity)
}

func TestUpdateItemQuantity_ServiceFailure400(t *testing.T) {
	mock := &cartServiceMock{err: apperr.Invalid("insufficient stock")}
	router := newRouter(mock)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/cart/cart-1/items/7?quantity=99", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", decodeError(t, rec).Code)
}

func TestRemoveItem_Success(t *testing.T) {
	mock := &cartServiceMock{cart: sampleCart()}
	router := newRouter(mock)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/cart/cart-1/items/7", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), mock.gotProductID)
}

func TestClearCart_Success(t *testing.T) {
	mock := &cartServiceMock{cart: sampleCart()}
	router := newRouter(mock)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/cart/cart-1", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cart-1", mock.gotCartID)
}

func TestClearCart_AbsentCartIs400(t *testing.T) {
	mock := &cartServiceMock{err: apperr.NotFound("cart not found")}
	router := newRouter(mock)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/cart/missing", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Code)
}
