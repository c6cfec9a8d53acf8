package yandex

import (
	"CodeNarrator/internal/config"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
)

const defaultEndpoint = "https://tts.api.cloud.yandex.net/speech/v1/tts:synthesize"

// Client реализует синтез речи через Yandex SpeechKit.
type Client struct {
	http     *http.Client
	endpoint string
	cfg      config.YandexTTSConfig
}

// New проверяет ключ сразу: без него провайдер не может работать.
func New(cfg config.YandexTTSConfig, hc *http.Client) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("yandex tts: empty API key (set YC_TTS_API_KEY in .env/ENV or pass via flag)")
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{http: hc, endpoint: defaultEndpoint, cfg: cfg}, nil
}

// WithEndpoint подменяет адрес API.
func (c *Client) WithEndpoint(endpoint string) *Client {
	c.endpoint = endpoint
	return c
}

func (c *Client) Voices() []string { return slices.Clone(c.cfg.Voices) }

// Synthesize выполняет запрос к Yandex TTS и возвращает тело ответа потоком.
func (c *Client) Synthesize(ctx context.Context, text string, voice string) (io.ReadCloser, error) {
	form := url.Values{}
	form.Set("text", text)
	form.Set("voice", voice)
	form.Set("format", "mp3")
	form.Set("speed", c.cfg.Speed)
	form.Set("emotion", strings.ToLower(c.cfg.Emotion))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Api-Key "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if len(b) == 0 {
			b = []byte(resp.Status)
		}
		return nil, fmt.Errorf("yandex tts error: status=%d, body=%s", resp.StatusCode, bytes.TrimSpace(b))
	}

	return resp.Body, nil
}
