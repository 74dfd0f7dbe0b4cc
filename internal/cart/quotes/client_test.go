package quotes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetQuote_Success(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":"BRL","codein":"USD","bid":"0.20","ask":"0.21","timestamp":"1700000000"}`))
	}))
	defer server.Close()

	sut := NewClient(server.URL, time.Second)
	quote, err := sut.GetQuote(context.Background(), "BRL", "USD")
	require.NoError(t, err)

	assert.Equal(t, "/api/currency/quote/BRL/USD", gotPath)
	assert.Equal(t, "BRL", quote.Code)
	assert.Equal(t, "USD", quote.CodeIn)
	assert.True(t, quote.Bid.Equal(decimal.RequireFromString("0.20")))
}

func TestGetQuote_Non200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"quote not found for pair BRL-XYZ","code":"not_found"}`))
	}))
	defer server.Close()

	sut := NewClient(server.URL, time.Second)
	quote, err := sut.GetQuote(context.Background(), "BRL", "XYZ")
	require.ErrorContains(t, err, "400")
	assert.Nil(t, quote)
}

func TestGetQuote_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	sut := NewClient(server.URL, time.Second)
	_, err := sut.GetQuote(context.Background(), "BRL", "USD")
	require.ErrorContains(t, err, "decode quote response")
}
