package gemini

import (
	"CodeNarrator/internal/config"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSynthesize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var rp requestPayload
		if err := json.NewDecoder(r.Body).Decode(&rp); err != nil {
			t.Errorf("decode: %v", err)
		}
		if rp.Input.Text != "Привет" || rp.Voice.VoiceName != "Puck" || rp.AudioConfig.AudioEncoding != "MP3" {
			t.Errorf("unexpected payload %+v", rp)
		}
		if rp.Input.Prompt != "" {
			t.Errorf("empty prompt must be omitted, got %q", rp.Input.Prompt)
		}
		_ = json.NewEncoder(w).Encode(jsonAudioResponse{AudioContent: base64.StdEncoding.EncodeToString([]byte{0x00, 0x01})})
	}))
	defer srv.Close()

	cfg := config.Defaults().GeminiTTS
	cfg.Endpoint = srv.URL
	c := New(cfg, nil).WithHTTPClient(srv.Client())

	rc, err := c.Synthesize(context.Background(), "Привет", "Puck")
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
		http.Error(w, `{"error":{"message":"invalid voice"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	cfg := config.Defaults().GeminiTTS
	cfg.Endpoint = srv.URL
	_, err := New(cfg, nil).WithHTTPClient(srv.Client()).Synthesize(context.Background(), "x", "Kore")
	if err == nil || !strings.Contains(err.Error(), "invalid voice") {
		t.Fatalf("expected error with body, got %v", err)
	}
}
