package narrator

import (
	"CodeNarrator/internal/ai"
	"CodeNarrator/internal/config"
	"CodeNarrator/internal/prompt"
	"CodeNarrator/internal/service"
	"CodeNarrator/internal/service/description"
	"CodeNarrator/internal/service/narration"
	"CodeNarrator/internal/service/tts"
	"context"

	"go.uber.org/zap"
)

// FromConfig находит ключи и создаёт провайдеров. При ошибке конфигурации
// возвращает приложение в режиме недоступности и *service.Failure.
func FromConfig(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*App, error) {
	unavailable := func(err error) (*App, error) {
		f := service.ConfigurationFailure(err)
		logger.Errorw("Ошибка конфигурации, запросы обслуживаться не будут", "error", err)
		return NewUnavailable(f, logger), f
	}

	keys, err := cfg.ResolveAll()
	if err != nil {
		return unavailable(err)
	}

	completer, err := ai.New(ctx, cfg, keys, logger)
	if err != nil {
		return unavailable(err)
	}
	synth, err := tts.New(cfg, keys, logger)
	if err != nil {
		return unavailable(err)
	}

	desc := description.New(completer, cfg.CompletionModel(), cfg.Completion.Temperature, prompt.SystemPrompt(cfg.ResponseLanguage), logger)
	narr := narration.New(synth, cfg.Audio.TempDir, cfg.Audio.MaxBytes, logger)
	return New(desc, narr, cfg.MaxInFlight, cfg.MaxCodeBytes, logger), nil
}
