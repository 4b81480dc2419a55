package service_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shortly/internal/service"

	"github.com/stretchr/testify/assert"
)

func TestTitleFetcher(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><head><title>  Example &amp; Co </title></head><body>hi</body></html>"))
	})
	mux.HandleFunc("/untitled", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>no title here</body></html>"))
	})
	mux.HandleFunc("/empty", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<title></title>"))
	})
	mux.HandleFunc("/svg", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><svg><title></title></svg><head><title>Real</title></head></body></html>`))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "<title>Not Found</title>", http.StatusNotFound)
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	fetcher := service.NewTitleFetcher(200 * time.Millisecond)

	tests := []struct {
		name      string
		url       string
		wantTitle string
		wantOK    bool
	}{
		{"title", srv.URL + "/ok", "Example & Co", true},
		{"no title element", srv.URL + "/untitled", "", false},
		{"empty title", srv.URL + "/empty", "", false},
		{"empty svg title before real one", srv.URL + "/svg", "Real", true},
		{"non-200", srv.URL + "/missing", "", false},
		{"timeout", srv.URL + "/slow", "", false},
		{"bad scheme", "ftp://example.org/", "", false},
		{"unparseable url", "://nope", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, ok := fetcher.FetchTitle(context.Background(), tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantTitle, title)
		})
	}
}
