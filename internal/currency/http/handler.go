package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/itaipu/go-shop/internal/apperr"
	"github.com/itaipu/go-shop/internal/currency/domain"
)

type CurrencyService interface {
	GetQuote(ctx context.Context, from, to string) (*domain.CurrencyQuote, error)
	GetMultipleQuotes(ctx context.Context, base, currencies string) ([]*domain.CurrencyQuote, error)
	AvailableCurrencies() []string
}

type CurrencyHandler struct {
	service CurrencyService
	timeout time.Duration
}

func NewCurrencyHandler(service CurrencyService, timeout time.Duration) *CurrencyHandler {
	return &CurrencyHandler{
		service: service,
		timeout: timeout,
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (h *CurrencyHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	from := chi.URLParam(r, "from")
	to := chi.URLParam(r, "to")

	quote, err := h.service.GetQuote(ctx, from, to)
	if err != nil {
		// Every quote failure surfaces as 400 at this boundary, including
		// not-found pairs.
		respondError(w, http.StatusBadRequest, string(apperr.KindOf(err)), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

func (h *CurrencyHandler) GetMultipleQuotes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	base := chi.URLParam(r, "base")
	currencies := r.URL.Query().Get("currencies")

	quotes, err := h.service.GetMultipleQuotes(ctx, base, currencies)
	if err != nil {
		respondError(w, http.StatusBadRequest, string(apperr.KindOf(err)), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, quotes)
}

func (h *CurrencyHandler) GetAvailableCurrencies(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.service.AvailableCurrencies())
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
