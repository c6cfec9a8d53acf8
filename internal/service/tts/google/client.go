package google

import (
	"CodeNarrator/internal/config"
	"bytes"
	"context"
	"io"
	"slices"
	"strings"
	"time"

	gctts "cloud.google.com/go/texttospeech/apiv1"
	ttspb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"go.uber.org/zap"
)

// Client реализует синтез речи через Google Cloud Text-to-Speech.
// Учётные данные берутся из ADC (GOOGLE_APPLICATION_CREDENTIALS).
type Client struct {
	cfg    config.GoogleTTSConfig
	logger *zap.SugaredLogger
}

func New(cfg config.GoogleTTSConfig, logger *zap.SugaredLogger) *Client {
	return &Client{cfg: cfg, logger: logger}
}

func (c *Client) Voices() []string { return slices.Clone(c.cfg.Voices) }

// Request собирает запрос синтеза MP3 для голоса Standard/Wavenet.
func (c *Client) Request(text, voice string) *ttspb.SynthesizeSpeechRequest {
	audio := &ttspb.AudioConfig{
		AudioEncoding: ttspb.AudioEncoding_MP3,
		SpeakingRate:  c.cfg.SpeakingRate,
		Pitch:         c.cfg.Pitch,
		VolumeGainDb:  c.cfg.VolumeGainDb,
	}
	if ep := strings.TrimSpace(c.cfg.EffectsProfileID); ep != "" {
		audio.EffectsProfileId = []string{ep}
	}
	return &ttspb.SynthesizeSpeechRequest{
		Input:       &ttspb.SynthesisInput{InputSource: &ttspb.SynthesisInput_Text{Text: text}},
		Voice:       &ttspb.VoiceSelectionParams{LanguageCode: c.cfg.Language, Name: voice},
		AudioConfig: audio,
	}
}

// Synthesize выполняет запрос к Google TTS. SDK отдаёт аудио целиком, оборачиваем его в поток.
func (c *Client) Synthesize(ctx context.Context, text string, voice string) (io.ReadCloser, error) {
	ttsClient, err := gctts.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	defer ttsClient.Close()

	started := time.Now()
	resp, err := ttsClient.SynthesizeSpeech(ctx, c.Request(text, voice))
	if err != nil {
		return nil, err
	}
	if c.logger != nil {
		c.logger.Infow("Google TTS synthesize completed", "voice", voice, "took", time.Since(started).String())
	}
	return io.NopCloser(bytes.NewReader(resp.GetAudioContent())), nil
}

// ListVoices запрашивает у Google TTS голоса для языка.
func ListVoices(ctx context.Context, language string) ([]*ttspb.Voice, error) {
	ttsClient, err := gctts.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	defer ttsClient.Close()

	resp, err := ttsClient.ListVoices(ctx, &ttspb.ListVoicesRequest{LanguageCode: language})
	if err != nil {
		return nil, err
	}
	return resp.GetVoices(), nil
}
