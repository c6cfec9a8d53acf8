package tts

import (
	"CodeNarrator/internal/ai"
	"CodeNarrator/internal/config"
	"CodeNarrator/internal/service/tts/gemini"
	"CodeNarrator/internal/service/tts/google"
	ttsopenai "CodeNarrator/internal/service/tts/openai"
	"CodeNarrator/internal/service/tts/yandex"
	"fmt"

	"go.uber.org/zap"
)

// New создаёт провайдера синтеза речи по cfg.TTSService. keys — найденные ключи API.
func New(cfg *config.Config, keys map[string]string, logger *zap.SugaredLogger) (Synthesizer, error) {
	switch cfg.TTSService {
	case config.TTSOpenAI:
		oc := ai.NewOpenAIClient(keys[config.KeyOpenAI], cfg.Completion.BaseURL, nil)
		logger.Infow("Провайдер TTS: OpenAI", "model", cfg.OpenAITTS.Model, "voices", cfg.OpenAITTS.Voices)
		return ttsopenai.New(&oc, cfg.OpenAITTS.Model, cfg.OpenAITTS.Voices, cfg.OpenAITTS.Speed, logger), nil
	case config.TTSGoogle:
		logger.Infow("Провайдер TTS: Google Cloud", "language", cfg.GoogleTTS.Language)
		return google.New(cfg.GoogleTTS, logger), nil
	case config.TTSGemini:
		logger.Infow("Провайдер TTS: Gemini-TTS", "model", cfg.GeminiTTS.ModelName)
		return gemini.New(cfg.GeminiTTS, logger), nil
	case config.TTSYandex:
		ycfg := cfg.YandexTTS
		if k := keys[config.KeyYandex]; k != "" {
			ycfg.APIKey = k
		}
		yc, err := yandex.New(ycfg, nil)
		if err != nil {
			return nil, err
		}
		logger.Infow("Провайдер TTS: Yandex SpeechKit")
		return yc, nil
	default:
		return nil, fmt.Errorf("unknown tts service %q", cfg.TTSService)
	}
}
