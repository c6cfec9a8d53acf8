package web

import (
	"CodeNarrator/internal/app/narrator"
	"CodeNarrator/internal/config"
	"CodeNarrator/internal/service"
	"CodeNarrator/internal/service/narration"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"go.uber.org/zap/zaptest"
)

type fakeDescriber struct {
	text  string
	err   error
	calls int
}

func (f *fakeDescriber) Describe(context.Context, string) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeNarrator struct {
	err   error
	calls int
}

func (f *fakeNarrator) Voices() []string { return []string{"alloy", "verse"} }

func (f *fakeNarrator) Narrate(_ context.Context, _ string, voice string) (*narration.Artifact, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &narration.Artifact{Data: []byte{0x00, 0x01}, Format: "mp3", Voice: voice}, nil
}

func testConfig() *config.Config {
	cfg := config.Defaults()
	cfg.RateLimitPerMinute = 0
	return cfg
}

func newTestServer(t *testing.T, app *narrator.App) *httptest.Server {
	t.Helper()
	s := New(testConfig(), app, zaptest.NewLogger(t).Sugar())
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func newApp(t *testing.T, d *fakeDescriber, n *fakeNarrator) *narrator.App {
	return narrator.New(d, n, 1, 64<<10, zaptest.NewLogger(t).Sugar())
}

func postForm(t *testing.T, ts *httptest.Server, form url.Values) (int, string) {
	t.Helper()
	resp, err := http.PostForm(ts.URL+"/", form)
	if err != nil {
		t.Fatalf("post form: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func postJSON(t *testing.T, ts *httptest.Server, body string) (int, describeResponse) {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/describe", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post json: %v", err)
	}
	defer resp.Body.Close()
	var out describeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, out
}

func TestIndex(t *testing.T) {
	ts := newTestServer(t, newApp(t, &fakeDescriber{}, &fakeNarrator{}))

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	page := string(b)
	for _, want := range []string{`name="code"`, `value="detailed"`, `<option value="verse"`, `id="voice" name="voice" disabled`} {
		if !strings.Contains(page, want) {
			t.Errorf("page must contain %q", want)
		}
	}
}

func TestSubmit_EmptyCode(t *testing.T) {
	d := &fakeDescriber{text: "T"}
	ts := newTestServer(t, newApp(t, d, &fakeNarrator{}))

	status, page := postForm(t, ts, url.Values{"code": {"  "}, "level": {"general"}})
	if status != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", status)
	}
	if !strings.Contains(page, `class="warning"`) {
		t.Error("empty input must render a warning")
	}
	if d.calls != 0 {
		t.Error("describer must not be called")
	}
}

func TestSubmit_WithAudio(t *testing.T) {
	ts := newTestServer(t, newApp(t, &fakeDescriber{text: "Код печатает единицу."}, &fakeNarrator{}))

	status, page := postForm(t, ts, url.Values{
		"code": {"print(1)"}, "level": {"detailed"}, "audio": {"on"}, "voice": {"verse"},
	})
	if status != http.StatusOK {
		t.Fatalf("unexpected status %d", status)
	}
	for _, want := range []string{"Код печатает единицу.", `src="data:audio/mpeg;base64,AAE="`, `download="code-description.mp3"`, `<option value="verse" selected>`} {
		if !strings.Contains(page, want) {
			t.Errorf("page must contain %q", want)
		}
	}
}

func TestSubmit_NarrationFailureKeepsDescription(t *testing.T) {
	n := &fakeNarrator{err: service.NarrationFailure(errors.New("quota exceeded"))}
	ts := newTestServer(t, newApp(t, &fakeDescriber{text: "Opis"}, n))

	status, page := postForm(t, ts, url.Values{"code": {"x"}, "audio": {"on"}, "voice": {"alloy"}})
	if status != http.StatusOK {
		t.Fatalf("unexpected status %d", status)
	}
	if !strings.Contains(page, "Opis") || !strings.Contains(page, "quota exceeded") {
		t.Errorf("expected description and narration error:\n%s", page)
	}
	if strings.Contains(page, "<audio") {
		t.Error("no player expected on narration failure")
	}
}

func TestSubmit_UnknownLevel(t *testing.T) {
	d := &fakeDescriber{text: "T"}
	ts := newTestServer(t, newApp(t, d, &fakeNarrator{}))

	status, _ := postForm(t, ts, url.Values{"code": {"x"}, "level": {"verbose"}})
	if status != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", status)
	}
	if d.calls != 0 {
		t.Error("describer must not be called")
	}
}

func TestAPIDescribe(t *testing.T) {
	ts := newTestServer(t, newApp(t, &fakeDescriber{text: "T"}, &fakeNarrator{}))

	status, out := postJSON(t, ts, `{"code":"print(1)","level":"general","audio":true,"voice":"alloy"}`)
	if status != http.StatusOK {
		t.Fatalf("unexpected status %d: %+v", status, out.Error)
	}
	if out.RequestID == "" || out.Description != "T" {
		t.Errorf("unexpected response %+v", out)
	}
	if out.Audio == nil || out.Audio.DataBase64 != "AAE=" || out.Audio.Format != "mp3" || out.Audio.Voice != "alloy" {
		t.Errorf("unexpected audio %+v", out.Audio)
	}
}

func TestAPIDescribe_Errors(t *testing.T) {
	tests := []struct {
		name   string
		d      *fakeDescriber
		body   string
		status int
		kind   string
	}{
		{"empty", &fakeDescriber{text: "T"}, `{"code":" "}`, http.StatusUnprocessableEntity, string(service.KindEmptyInput)},
		{"level", &fakeDescriber{text: "T"}, `{"code":"x","level":"verbose"}`, http.StatusBadRequest, kindInvalidRequest},
		{"json", &fakeDescriber{text: "T"}, `{"code":`, http.StatusBadRequest, kindInvalidRequest},
		{"provider", &fakeDescriber{err: service.DescriptionFailure(errors.New("timeout"))}, `{"code":"x"}`, http.StatusBadGateway, string(service.KindDescription)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, newApp(t, tt.d, &fakeNarrator{}))
			status, out := postJSON(t, ts, tt.body)
			if status != tt.status {
				t.Errorf("expected %d, got %d", tt.status, status)
			}
			if out.Error == nil || out.Error.Kind != tt.kind {
				t.Errorf("expected error kind %s, got %+v", tt.kind, out.Error)
			}
		})
	}
}

func TestConfigurationError(t *testing.T) {
	app := narrator.NewUnavailable(service.ConfigurationFailure(errors.New("credential not found")), zaptest.NewLogger(t).Sugar())
	ts := newTestServer(t, app)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable || !strings.Contains(string(b), "Нет ключа API") {
		t.Errorf("expected configuration page, got %d", resp.StatusCode)
	}
	if strings.Contains(string(b), "<form") {
		t.Error("form must not be rendered without credentials")
	}

	status, _ := postForm(t, ts, url.Values{"code": {"x"}})
	if status != http.StatusServiceUnavailable {
		t.Errorf("expected 503 on submit, got %d", status)
	}

	status, out := postJSON(t, ts, `{"code":"x"}`)
	if status != http.StatusServiceUnavailable || out.Error == nil || out.Error.Kind != string(service.KindConfiguration) {
		t.Errorf("expected configuration error, got %d %+v", status, out.Error)
	}
}

func TestVoicesAndHealth(t *testing.T) {
	ts := newTestServer(t, newApp(t, &fakeDescriber{}, &fakeNarrator{}))

	resp, err := http.Get(ts.URL + "/api/voices")
	if err != nil {
		t.Fatal(err)
	}
	var out voicesResponse
	_ = json.NewDecoder(resp.Body).Decode(&out)
	resp.Body.Close()
	if len(out.Voices) != 2 || out.Default != "alloy" {
		t.Errorf("unexpected voices %+v", out)
	}

	resp, err = http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("unexpected health status %d", resp.StatusCode)
	}
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, newApp(t, &fakeDescriber{}, &fakeNarrator{}))

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/api/describe", nil)
	req.Header.Set("Origin", "https://example.org")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected wildcard origin, got %q", got)
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitPerMinute = 1
	ts := httptest.NewServer(New(cfg, newApp(t, &fakeDescriber{}, &fakeNarrator{}), zaptest.NewLogger(t).Sugar()).Handler())
	defer ts.Close()

	codes := make([]int, 0, 2)
	for range 2 {
		resp, err := http.Get(ts.URL + "/api/voices")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		codes = append(codes, resp.StatusCode)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("unexpected statuses %v", codes)
	}
}

func TestWebsocketStages(t *testing.T) {
	ts := newTestServer(t, newApp(t, &fakeDescriber{text: "T"}, &fakeNarrator{}))

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(describeRequest{Code: "print(1)", Level: "general", Audio: true, Voice: "verse"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var got []string
	var description string
	var audio *audioDTO
	for {
		var e wsEvent
		if err := conn.ReadJSON(&e); err != nil {
			t.Fatalf("read: %v", err)
		}
		got = append(got, e.Type)
		if e.Type == "description" {
			description = e.Description
		}
		if e.Type == "audio" {
			audio = e.Audio
		}
		if e.Type == "done" {
			break
		}
	}
	want := []string{"describing", "description", "narrating", "audio", "done"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("expected stages %v, got %v", want, got)
	}
	if description != "T" || audio == nil || audio.DataBase64 != "AAE=" {
		t.Errorf("unexpected payload: %q %+v", description, audio)
	}

	// Ошибка валидации приходит событием, соединение остаётся открытым
	if err := conn.WriteJSON(describeRequest{Code: " "}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var e wsEvent
	if err := conn.ReadJSON(&e); err != nil {
		t.Fatalf("read: %v", err)
	}
	if e.Type != "error" || e.Error == nil || e.Error.Kind != string(service.KindEmptyInput) {
		t.Errorf("expected empty input error event, got %+v", e)
	}
}
