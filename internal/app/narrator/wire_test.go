package narrator

import (
	"CodeNarrator/internal/config"
	"CodeNarrator/internal/service"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestFromConfig_MissingCredential(t *testing.T) {
	t.Setenv(config.KeyOpenAI, "")
	cfg := config.Defaults()
	cfg.Credentials.SecretsDir = t.TempDir()
	cfg.Credentials.DotEnvPath = filepath.Join(t.TempDir(), ".env")

	app, err := FromConfig(context.Background(), cfg, zaptest.NewLogger(t).Sugar())
	if !service.IsKind(err, service.KindConfiguration) || !errors.Is(err, config.ErrMissingCredential) {
		t.Fatalf("expected configuration failure, got %v", err)
	}
	if app == nil || app.Unavailable() == nil {
		t.Fatal("expected unavailable app")
	}
}

func TestFromConfig_Stub(t *testing.T) {
	cfg := config.Defaults()
	cfg.Completion.Provider = config.CompletionStub
	cfg.TTSService = config.TTSGemini

	app, err := FromConfig(context.Background(), cfg, zaptest.NewLogger(t).Sugar())
	if err != nil {
		t.Fatalf("from config: %v", err)
	}
	res, err := app.Run(context.Background(), Request{Code: "x"}, nil)
	if err != nil || res.Description == "" {
		t.Fatalf("stub run failed: %+v, %v", res, err)
	}
	if len(app.Voices()) == 0 {
		t.Error("voices expected from gemini config")
	}
}
