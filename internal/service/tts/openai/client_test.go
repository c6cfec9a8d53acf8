package openai

import (
	"CodeNarrator/internal/ai"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/v3"
)

func TestSynthesize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/speech" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body["model"] != "tts-1" || body["voice"] != "verse" || body["response_format"] != "mp3" {
			t.Errorf("unexpected body %v", body)
		}
		if _, ok := body["speed"]; ok {
			t.Error("zero speed must not be sent")
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte{0x00, 0x01})
	}))
	defer srv.Close()

	oc := ai.NewOpenAIClient("test-key", srv.URL+"/v1", srv.Client())
	c := New(&oc, "tts-1", []string{"alloy", "verse"}, 0, nil)

	rc, err := c.Synthesize(context.Background(), "opis", "verse")
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
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"message":"rate limited"}}`)
	}))
	defer srv.Close()

	oc := ai.NewOpenAIClient("test-key", srv.URL+"/v1", srv.Client())
	_, err := New(&oc, "tts-1", []string{"alloy"}, 1, nil).Synthesize(context.Background(), "x", "alloy")

	var apiErr *openai.Error
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429 api error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected one call without retries, got %d", calls)
	}
}
