// Package tts синтез речи: общий интерфейс провайдеров и выбор провайдера по конфигурации.
package tts

import (
	"context"
	"io"
)

// Synthesizer абстракция TTS. Возвращает поток MP3, закрывать его должен вызывающий.
// voice — один из Voices(); пустой voice означает голос по умолчанию.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, voice string) (io.ReadCloser, error)
	Voices() []string
}

// DefaultVoice первый голос из списка провайдера.
func DefaultVoice(s Synthesizer) string {
	if v := s.Voices(); len(v) > 0 {
		return v[0]
	}
	return ""
}
