package tts

import (
	"bytes"
	"io"
	"time"

	"github.com/faiface/beep/mp3"
)

// Duration длительность MP3 по заголовкам кадров.
func Duration(data []byte) (time.Duration, error) {
	streamer, format, err := mp3.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return 0, err
	}
	defer streamer.Close()
	return format.SampleRate.D(streamer.Len()), nil
}
