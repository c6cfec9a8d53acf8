// Package narrator обрабатывает одну отправку формы: проверка ввода, промпт,
// описание и, по запросу, озвучка.
package narrator

import (
	"CodeNarrator/internal/prompt"
	"CodeNarrator/internal/service"
	"CodeNarrator/internal/service/narration"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// ErrCodeTooLarge код больше допустимого размера.
var ErrCodeTooLarge = errors.New("code is too large")

type Describer interface {
	Describe(ctx context.Context, prompt string) (string, error)
}

type Narrator interface {
	Narrate(ctx context.Context, text, voice string) (*narration.Artifact, error)
	Voices() []string
}

// Request одна отправка формы.
type Request struct {
	Code      string
	Level     prompt.Level
	WithAudio bool
	Voice     string
}

// Result итог отправки. NarrationFailure заполняется, если описание получено, а озвучка нет.
type Result struct {
	RequestID        string
	Description      string
	Audio            *narration.Artifact
	NarrationFailure *service.Failure
}

// Stage этап обработки для подписчиков прогресса.
type Stage string

const (
	StageDescribing  Stage = "describing"
	StageDescription Stage = "description"
	StageNarrating   Stage = "narrating"
	StageAudio       Stage = "audio"
	StageError       Stage = "error"
	StageDone        Stage = "done"
)

// Event событие прогресса.
type Event struct {
	RequestID   string
	Stage       Stage
	Description string
	Audio       *narration.Artifact
	Failure     *service.Failure
	Err         error // причина для StageError, в том числе не Failure
}

// Progress получает события прогресса синхронно, в порядке этапов. nil — без подписчика.
type Progress func(Event)

type App struct {
	describer    Describer
	narrator     Narrator
	sem          *semaphore.Weighted
	maxCodeBytes int
	unavailable  *service.Failure
	logger       *zap.SugaredLogger
}

// New maxInFlight — сколько отправок обрабатывается одновременно, остальные ждут.
func New(describer Describer, narrator Narrator, maxInFlight, maxCodeBytes int, logger *zap.SugaredLogger) *App {
	return &App{
		describer:    describer,
		narrator:     narrator,
		sem:          semaphore.NewWeighted(int64(max(1, maxInFlight))),
		maxCodeBytes: maxCodeBytes,
		logger:       logger,
	}
}

// NewUnavailable приложение без провайдеров: любая отправка получает failure.
func NewUnavailable(failure *service.Failure, logger *zap.SugaredLogger) *App {
	return &App{unavailable: failure, sem: semaphore.NewWeighted(1), logger: logger}
}

// Unavailable возвращает ошибку конфигурации, если провайдеры не созданы.
func (a *App) Unavailable() *service.Failure { return a.unavailable }

// Voices голоса провайдера озвучки, первый — по умолчанию.
func (a *App) Voices() []string {
	if a.narrator == nil {
		return nil
	}
	return a.narrator.Voices()
}

// Run обрабатывает отправку. Ошибки конфигурации, пустого ввода и описания
// возвращаются как *service.Failure; ошибка озвучки остаётся в Result.
func (a *App) Run(ctx context.Context, req Request, progress Progress) (*Result, error) {
	res := &Result{RequestID: uuid.NewString()}
	emit := func(e Event) {
		if progress != nil {
			e.RequestID = res.RequestID
			progress(e)
		}
	}
	fail := func(err error) (*Result, error) {
		f, _ := service.AsFailure(err)
		emit(Event{Stage: StageError, Failure: f, Err: err})
		emit(Event{Stage: StageDone})
		return res, err
	}

	if a.unavailable != nil {
		return fail(a.unavailable)
	}
	if strings.TrimSpace(req.Code) == "" {
		return fail(service.EmptyInputFailure())
	}
	if a.maxCodeBytes > 0 && len(req.Code) > a.maxCodeBytes {
		return fail(fmt.Errorf("%w: %d bytes, limit %d", ErrCodeTooLarge, len(req.Code), a.maxCodeBytes))
	}

	if err := a.sem.Acquire(ctx, 1); err != nil {
		return fail(err)
	}
	defer a.sem.Release(1)

	log := a.logger.With("request_id", res.RequestID)
	log.Infow("Обработка кода", "level", req.Level.String(), "bytes", len(req.Code), "audio", req.WithAudio)

	emit(Event{Stage: StageDescribing})
	desc, err := a.describer.Describe(ctx, prompt.Build(req.Code, req.Level))
	if err != nil {
		return fail(err)
	}
	res.Description = desc
	emit(Event{Stage: StageDescription, Description: desc})

	if req.WithAudio {
		emit(Event{Stage: StageNarrating})
		art, nerr := a.narrator.Narrate(ctx, desc, req.Voice)
		if nerr != nil {
			f, ok := service.AsFailure(nerr)
			if !ok {
				f = service.NarrationFailure(nerr)
			}
			res.NarrationFailure = f
			emit(Event{Stage: StageError, Failure: f, Err: f})
		} else {
			res.Audio = art
			emit(Event{Stage: StageAudio, Audio: art})
		}
	}

	emit(Event{Stage: StageDone})
	return res, nil
}
