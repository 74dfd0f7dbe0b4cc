package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/itaipu/go-shop/internal/apperr"
	"github.com/itaipu/go-shop/internal/cart/domain"
)

type CartService interface {
	CreateCart(ctx context.Context) (*domain.Cart, error)
	GetCart(ctx context.Context, cartID string) (*domain.Cart, error)
	AddItem(ctx context.Context, cartID string, productID int64, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, cartID string, productID int64) (*domain.Cart, error)
	UpdateItemQuantity(ctx context.Context, cartID string, productID int64, quantity int) (*domain.Cart, error)
	ClearCart(ctx context.Context, cartID string) (*domain.Cart, error)
}

// CartHandler keeps the status mapping of the original API: only GetCart
// distinguishes not-found; the mutation endpoints collapse every failure,
// including an absent cart, into 400. The machine-readable kind in the
// error body is where the real classification lives.
type CartHandler struct {
	service CartService
	timeout time.Duration
}

func NewCartHandler(service CartService, timeout time.Duration) *CartHandler {
	return &CartHandler{
		service: service,
		timeout: timeout,
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (h *CartHandler) CreateCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cart, err := h.service.CreateCart(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, string(apperr.KindOf(err)), err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, cart)
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cart, err := h.service.GetCart(ctx, chi.URLParam(r, "cartId"))
	if err != nil {
		respondError(w, http.StatusNotFound, string(apperr.KindOf(err)), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cartID := chi.URLParam(r, "cartId")

	productID, err := strconv.ParseInt(r.URL.Query().Get("productId"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, string(apperr.KindInvalid), "productId must be an integer")
		return
	}
	quantity, err := strconv.Atoi(r.URL.Query().Get("quantity"))
	if err != nil {
		respondError(w, http.StatusBadRequest, string(apperr.KindInvalid), "quantity must be an integer")
		return
	}

	cart, err := h.service.AddItem(ctx, cartID, productID, quantity)
	if err != nil {
		respondError(w, http.StatusBadRequest, string(apperr.KindOf(err)), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cartID := chi.URLParam(r, "cartId")

	productID, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, string(apperr.KindInvalid), "productId must be an integer")
		return
	}

	cart, err := h.service.RemoveItem(ctx, cartID, productID)
	if err != nil {
		respondError(w, http.StatusBadRequest, string(apperr.KindOf(err)), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cartID := chi.URLParam(r, "cartId")

	productID, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, string(apperr.KindInvalid), "productId must be an integer")
		return
	}
	quantity, err := strconv.Atoi(r.URL.Query().Get("quantity"))
	if err != nil {
		respondError(w, http.StatusBadRequest, string(apperr.KindInvalid), "quantity must be an integer")
		return
	}

	cart, err := h.service.UpdateItemQuantity(ctx, cartID, productID, quantity)
	if err != nil {
		respondError(w, http.StatusBadRequest, string(apperr.KindOf(err)), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	cart, err := h.service.ClearCart(ctx, chi.URLParam(r, "cartId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, string(apperr.KindOf(err)), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
