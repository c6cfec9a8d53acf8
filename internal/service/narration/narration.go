// Package narration озвучивает описание: синтез MP3 через временный файл.
package narration

import (
	"CodeNarrator/internal/service"
	"CodeNarrator/internal/service/tts"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"go.uber.org/zap"
)

// FilePattern шаблон имени временного файла, по нему же работает Cleaner.
const FilePattern = "code-narration-*.mp3"

// Format формат аудио, который отдаёт сервис.
const Format = "mp3"

var (
	// ErrUnknownVoice голос не поддерживается провайдером.
	ErrUnknownVoice = errors.New("unknown voice")
	// ErrAudioTooLarge ответ провайдера больше лимита.
	ErrAudioTooLarge = errors.New("audio exceeds size limit")
)

// Artifact озвучка в памяти. Живёт только в пределах одного ответа.
type Artifact struct {
	Data     []byte
	Format   string
	Voice    string
	Duration time.Duration
}

// Service синтезирует речь и собирает Artifact.
type Service struct {
	synth    tts.Synthesizer
	tempDir  string
	maxBytes int64
	logger   *zap.SugaredLogger
}

// New tempDir пустой — системный каталог временных файлов.
func New(synth tts.Synthesizer, tempDir string, maxBytes int64, logger *zap.SugaredLogger) *Service {
	return &Service{synth: synth, tempDir: tempDir, maxBytes: maxBytes, logger: logger}
}

// Voices голоса провайдера, первый — по умолчанию.
func (s *Service) Voices() []string { return s.synth.Voices() }

// Narrate озвучивает text голосом voice (пустой — голос по умолчанию).
// Ошибки возвращаются как *service.Failure с KindNarration.
func (s *Service) Narrate(ctx context.Context, text, voice string) (*Artifact, error) {
	if voice == "" {
		voice = tts.DefaultVoice(s.synth)
	}
	if !slices.Contains(s.synth.Voices(), voice) {
		return nil, service.NarrationFailure(fmt.Errorf("%w: %q", ErrUnknownVoice, voice))
	}

	started := time.Now()
	data, err := s.stage(ctx, text, voice)
	if err != nil {
		s.logger.Warnw("Не удалось синтезировать речь", "voice", voice, "error", err)
		return nil, service.NarrationFailure(err)
	}

	art := &Artifact{Data: data, Format: Format, Voice: voice}
	if d, derr := tts.Duration(data); derr == nil {
		art.Duration = d
	} else {
		s.logger.Debugw("Не удалось определить длительность MP3", "error", derr)
	}
	s.logger.Infow("Озвучка готова", "voice", voice, "bytes", len(data), "duration", art.Duration.String(), "took", time.Since(started).String())
	return art, nil
}

// stage пишет поток провайдера во временный файл и читает его обратно.
// Файл закрывается и удаляется при любом исходе.
func (s *Service) stage(ctx context.Context, text, voice string) ([]byte, error) {
	rc, err := s.synth.Synthesize(ctx, text, voice)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	f, err := os.CreateTemp(s.tempDir, FilePattern)
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		_ = f.Close()
		if rerr := os.Remove(f.Name()); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
			s.logger.Warnw("Не удалось удалить временный файл", "path", f.Name(), "error", rerr)
		}
	}()

	n, err := io.Copy(f, io.LimitReader(rc, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("stream audio: %w", err)
	}
	if n > s.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrAudioTooLarge, s.maxBytes)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return io.ReadAll(f)
}
