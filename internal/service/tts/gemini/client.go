package gemini

import (
	"CodeNarrator/internal/config"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
)

// По умолчанию используем Cloud TTS v1beta1 text:synthesize, совместимый с Gemini-TTS.
const defaultEndpoint = "https://texttospeech.googleapis.com/v1beta1/text:synthesize"

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// Ответ с base64 в audioContent больше самого MP3 примерно на треть.
const maxResponseBytes = 40 << 20

// Client реализует синтез речи через Cloud Text-to-Speech: Gemini-TTS.
type Client struct {
	cfg    config.GeminiTTSConfig
	http   func(ctx context.Context) (*http.Client, error)
	logger *zap.SugaredLogger
}

// New создаёт клиента с OAuth2 HTTP-клиентом из ADC/metadata. API Key не используется.
func New(cfg config.GeminiTTSConfig, logger *zap.SugaredLogger) *Client {
	return &Client{
		cfg: cfg,
		http: func(ctx context.Context) (*http.Client, error) {
			return google.DefaultClient(ctx, cloudPlatformScope)
		},
		logger: logger,
	}
}

// WithHTTPClient подменяет HTTP-клиент (без ADC).
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = func(context.Context) (*http.Client, error) { return hc, nil }
	return c
}

func (c *Client) Voices() []string { return slices.Clone(c.cfg.Voices) }

type requestPayload struct {
	Input struct {
		Prompt string `json:"prompt,omitempty"`
		Text   string `json:"text,omitempty"`
	} `json:"input"`
	Voice struct {
		ModelName    string `json:"modelName,omitempty"`
		LanguageCode string `json:"languageCode,omitempty"`
		VoiceName    string `json:"name,omitempty"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string  `json:"audioEncoding,omitempty"`
		SpeakingRate  float64 `json:"speakingRate,omitempty"`
	} `json:"audioConfig"`
}

type jsonAudioResponse struct {
	AudioContent string `json:"audioContent"`
}

// Synthesize выполняет запрос к Gemini-TTS и возвращает декодированный MP3.
func (c *Client) Synthesize(ctx context.Context, text string, voice string) (io.ReadCloser, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("gemini tts: empty input text")
	}

	var rp requestPayload
	rp.Input.Text = text
	// Стилевой промпт пустым не отправляем
	if p := strings.TrimSpace(c.cfg.Prompt); p != "" {
		rp.Input.Prompt = p
	}
	rp.Voice.ModelName = strings.TrimSpace(c.cfg.ModelName)
	rp.Voice.LanguageCode = strings.TrimSpace(c.cfg.Language)
	rp.Voice.VoiceName = strings.TrimSpace(voice)
	rp.AudioConfig.AudioEncoding = "MP3"
	rp.AudioConfig.SpeakingRate = c.cfg.SpeakingRate

	body, err := json.Marshal(&rp)
	if err != nil {
		return nil, err
	}

	endpoint := strings.TrimSpace(c.cfg.Endpoint)
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	httpClient, err := c.http(ctx)
	if err != nil {
		return nil, fmt.Errorf("gemini tts: ADC credentials not found, set GOOGLE_APPLICATION_CREDENTIALS: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if c.logger != nil {
		c.logger.Infow("Gemini TTS request completed", "status", resp.StatusCode, "voice", voice, "took", time.Since(started).String())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if len(b) == 0 {
			b = []byte(resp.Status)
		}
		return nil, fmt.Errorf("gemini tts error: status=%d, body=%s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var jr jsonAudioResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&jr); err != nil {
		return nil, fmt.Errorf("gemini tts: decode json response: %w", err)
	}
	if strings.TrimSpace(jr.AudioContent) == "" {
		return nil, errors.New("gemini tts: empty audioContent in response")
	}
	data, err := base64.StdEncoding.DecodeString(jr.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("gemini tts: base64 decode: %w", err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
