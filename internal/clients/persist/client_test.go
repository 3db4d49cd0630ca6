package persist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	stored := map[string]SavedApp{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/apps":
			var app SavedApp
			require.NoError(t, json.NewDecoder(r.Body).Decode(&app))
			stored["app-1"] = app
			json.NewEncoder(w).Encode(map[string]string{"id": "app-1"})
		case r.Method == http.MethodGet && r.URL.Path == "/apps/app-1":
			json.NewEncoder(w).Encode(stored["app-1"])
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := New(srv.URL, 5*time.Second)

	id, err := client.Save(context.Background(), SavedApp{
		HTML:     "<h1>Hi</h1>",
		Messages: []json.RawMessage{json.RawMessage(`{"role":"user","content":"hi"}`)},
	})
	require.NoError(t, err)
	assert.Equal(t, "app-1", id)

	app, err := client.Load(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hi</h1>", app.HTML)
	assert.Len(t, app.Messages, 1)
}

func TestLoadNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := New(srv.URL, 5*time.Second)
	_, err := client.Load(context.Background(), "missing")
	assert.ErrorContains(t, err, "not found")
}

func TestSaveServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(srv.URL, 2*time.Second)
	client.http.RetryMax = 0
	_, err := client.Save(context.Background(), SavedApp{HTML: "<p>x</p>"})
	assert.Error(t, err)
}
