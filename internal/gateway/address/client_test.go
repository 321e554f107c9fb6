package address

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupResolvesPostalCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1500001", r.URL.Query().Get("zipcode"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":200,"results":[{"zipcode":"1500001","address1":"東京都","address2":"渋谷区","address3":"神宮前"}]}`))
	}))
	defer server.Close()

	client := New(server.URL, time.Second)
	results, err := client.Lookup(context.Background(), "150-0001")
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "東京都", results[0].Prefecture)
	assert.Equal(t, "渋谷区", results[0].City)
	assert.Equal(t, "神宮前", results[0].Street)
}

func TestLookupRejectsMalformedPostalCode(t *testing.T) {
	client := New("http://localhost:0", time.Second)
	_, err := client.Lookup(context.Background(), "12345")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "7桁")
}

func TestLookupEmptyResultsIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":200,"results":[]}`))
	}))
	defer server.Close()

	client := New(server.URL, time.Second)
	_, err := client.Lookup(context.Background(), "9999999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookupUpstreamErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(server.URL, time.Second)
	_, err := client.Lookup(context.Background(), "1500001")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "住所検索に失敗しました")
}
