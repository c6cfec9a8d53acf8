package openai

import (
	"context"
	"io"
	"slices"
	"time"

	"github.com/openai/openai-go/v3"
	"go.uber.org/zap"
)

// Client синтез речи через OpenAI audio/speech.
type Client struct {
	client *openai.Client
	model  string
	voices []string
	speed  float64
	logger *zap.SugaredLogger
}

func New(client *openai.Client, model string, voices []string, speed float64, logger *zap.SugaredLogger) *Client {
	return &Client{client: client, model: model, voices: slices.Clone(voices), speed: speed, logger: logger}
}

func (c *Client) Voices() []string { return slices.Clone(c.voices) }

// Synthesize запрашивает MP3 и возвращает тело ответа без буферизации.
func (c *Client) Synthesize(ctx context.Context, text string, voice string) (io.ReadCloser, error) {
	params := openai.AudioSpeechNewParams{
		Input:          text,
		Model:          c.model,
		Voice:          openai.AudioSpeechNewParamsVoice(voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
	}
	if c.speed > 0 {
		params.Speed = openai.Float(c.speed)
	}

	started := time.Now()
	resp, err := c.client.Audio.Speech.New(ctx, params)
	if err != nil {
		return nil, err
	}
	if c.logger != nil {
		c.logger.Infow("OpenAI TTS request completed", "model", c.model, "voice", voice, "took", time.Since(started).String())
	}
	return resp.Body, nil
}
