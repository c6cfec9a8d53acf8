package yandex

import (
	"CodeNarrator/internal/config"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNew_RequiresKey(t *testing.T) {
	if _, err := New(config.Defaults().YandexTTS, nil); err == nil {
		t.Fatal("expected error for empty API key")
	}
}

func TestSynthesize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Api-Key secret" {
			t.Errorf("unexpected authorization %q", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("voice") != "jane" || r.PostForm.Get("format") != "mp3" || r.PostForm.Get("text") != "Привет" {
			t.Errorf("unexpected form %v", r.PostForm)
		}
		_, _ = w.Write([]byte{0x00, 0x01})
	}))
	defer srv.Close()

	cfg := config.Defaults().YandexTTS
	cfg.APIKey = "secret"
	c, err := New(cfg, srv.Client())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	rc, err := c.WithEndpoint(srv.URL).Synthesize(context.Background(), "Привет", "jane")
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	if string(got) != "\x00\x01" {
		t.Errorf("unexpected audio %v", got)
	}
}

func TestSynthesize_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad voice", http.StatusBadRequest)
	}))
	defer srv.Close()

	cfg := config.Defaults().YandexTTS
	cfg.APIKey = "secret"
	c, _ := New(cfg, srv.Client())
	_, err := c.WithEndpoint(srv.URL).Synthesize(context.Background(), "x", "jane")
	if err == nil || !strings.Contains(err.Error(), "status=400") {
		t.Fatalf("expected status error, got %v", err)
	}
}
