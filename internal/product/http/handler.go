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
	"github.com/itaipu/go-shop/internal/product/domain"
)

type ProductService interface {
	GetAllProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetProductsByCategory(ctx context.Context, category string) ([]*domain.Product, error)
	SearchProducts(ctx context.Context, name string) ([]*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, product *domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type ProductHandler struct {
	service ProductService
	timeout time.Duration
}

func NewProductHandler(service ProductService, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		service: service,
		timeout: timeout,
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.service.GetAllProducts(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, string(apperr.KindOf(err)), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, emptyIfNil(products))
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusNotFound, string(apperr.KindInvalid), "product id must be an integer")
		return
	}

	product, err := h.service.GetProduct(ctx, id)
	if err != nil {
		respondError(w, http.StatusNotFound, string(apperr.KindOf(err)), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) GetByCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.service.GetProductsByCategory(ctx, chi.URLParam(r, "category"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, string(apperr.KindOf(err)), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, emptyIfNil(products))
}

func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.service.SearchProducts(ctx, r.URL.Query().Get("name"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, string(apperr.KindOf(err)), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, emptyIfNil(products))
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var product domain.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		respondError(w, http.StatusBadRequest, string(apperr.KindInvalid), "invalid JSON body")
		return
	}

	created, err := h.service.CreateProduct(ctx, &product)
	if err != nil {
		respondError(w, http.StatusBadRequest, string(apperr.KindOf(err)), err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, string(apperr.KindInvalid), "product id must be an integer")
		return
	}

	var product domain.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		respondError(w, http.StatusBadRequest, string(apperr.KindInvalid), "invalid JSON body")
		return
	}

	updated, err := h.service.UpdateProduct(ctx, id, &product)
	if err != nil {
		respondError(w, http.StatusBadRequest, string(apperr.KindOf(err)), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, string(apperr.KindInvalid), "product id must be an integer")
		return
	}

	if err := h.service.DeleteProduct(ctx, id); err != nil {
		respondError(w, http.StatusBadRequest, string(apperr.KindOf(err)), err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func emptyIfNil(products []*domain.Product) []*domain.Product {
	if products == nil {
		return []*domain.Product{}
	}
	return products
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
