// Package description генерирует текстовое описание кода через провайдера описания.
package description

import (
	"CodeNarrator/internal/ai"
	"CodeNarrator/internal/service"
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrEmptyCompletion провайдер вернул пустой текст.
var ErrEmptyCompletion = errors.New("completion is empty")

// Service отправляет системный промпт и промпт пользователя, возвращает очищенный текст.
type Service struct {
	completer    ai.Completer
	model        string
	temperature  float64
	systemPrompt string
	logger       *zap.SugaredLogger
}

func New(completer ai.Completer, model string, temperature float64, systemPrompt string, logger *zap.SugaredLogger) *Service {
	return &Service{
		completer:    completer,
		model:        model,
		temperature:  temperature,
		systemPrompt: systemPrompt,
		logger:       logger,
	}
}

// Describe возвращает описание без пробелов по краям. Любая ошибка провайдера
// возвращается как *service.Failure с KindDescription. Повторов нет.
func (s *Service) Describe(ctx context.Context, prompt string) (string, error) {
	started := time.Now()
	text, err := s.completer.Complete(ctx, ai.Request{
		Model:        s.model,
		SystemPrompt: s.systemPrompt,
		UserPrompt:   prompt,
		Temperature:  s.temperature,
	})
	if err != nil {
		s.logger.Warnw("Не удалось получить описание", "model", s.model, "error", err)
		return "", service.DescriptionFailure(err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		s.logger.Warnw("Провайдер вернул пустое описание", "model", s.model)
		return "", service.DescriptionFailure(ErrEmptyCompletion)
	}
	s.logger.Infow("Описание получено", "model", s.model, "chars", len([]rune(text)), "took", time.Since(started).String())
	return text, nil
}
