// Package player воспроизводит MP3 через звуковую карту. Используется только CLI.
package player

import (
	"context"
	"io"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
)

// Player воспроизводит MP3 потоком.
type Player interface {
	Play(ctx context.Context, r io.ReadCloser) error
}

// Default реализует Player с заданной громкостью: усиление 2^volume,
// отрицательные значения тише, 0 — без изменений.
type Default struct{ volume float64 }

func NewWithVolume(volume float64) *Default { return &Default{volume: volume} }

func (d *Default) wrap(s beep.Streamer) beep.Streamer {
	return &effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   d.volume,
		Silent:   false,
	}
}

// Play блокируется до конца записи или отмены ctx.
func (d *Default) Play(ctx context.Context, r io.ReadCloser) error {
	streamer, format, err := mp3.Decode(r)
	if err != nil {
		return err
	}
	defer streamer.Close()

	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return err
	}
	defer speaker.Close()

	done := make(chan struct{})
	speaker.Play(beep.Seq(d.wrap(streamer), beep.Callback(func() { close(done) })))
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}
}
