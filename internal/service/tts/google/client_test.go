package google

import (
	"CodeNarrator/internal/config"
	"testing"

	ttspb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
)

func TestRequest(t *testing.T) {
	cfg := config.Defaults().GoogleTTS
	c := New(cfg, nil)

	req := c.Request("Привет", "ru-RU-Wavenet-B")
	if req.GetInput().GetText() != "Привет" {
		t.Errorf("unexpected input %v", req.GetInput())
	}
	if req.GetVoice().GetName() != "ru-RU-Wavenet-B" || req.GetVoice().GetLanguageCode() != "ru-RU" {
		t.Errorf("unexpected voice %v", req.GetVoice())
	}
	if req.GetAudioConfig().GetAudioEncoding() != ttspb.AudioEncoding_MP3 {
		t.Errorf("expected MP3 encoding, got %v", req.GetAudioConfig().GetAudioEncoding())
	}
	if got := req.GetAudioConfig().GetEffectsProfileId(); len(got) != 1 || got[0] != "headphone-class-device" {
		t.Errorf("unexpected effects profile %v", got)
	}

	voices := c.Voices()
	voices[0] = "changed"
	if c.Voices()[0] == "changed" {
		t.Error("Voices must return a copy")
	}
}
