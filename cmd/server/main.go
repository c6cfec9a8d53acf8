package main

import (
	"CodeNarrator/internal/app/narrator"
	"CodeNarrator/internal/config"
	"CodeNarrator/internal/service/narration"
	"CodeNarrator/internal/web"
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Веб-форма Code Narrator: вставить код, получить описание и, по желанию, озвучку.
func main() {
	cfg := config.NewConfig()

	logger, err := zap.NewProduction()
	if cfg.DebugMode {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sugar.Infow("Starting app",
		"DebugMode", cfg.DebugMode,
		"completion", cfg.Completion.Provider,
		"model", cfg.CompletionModel(),
		"tts", cfg.TTSService,
	)

	// Без ключа сервер всё равно стартует и на любой запрос показывает сообщение о конфигурации
	app, err := narrator.FromConfig(ctx, cfg, sugar)
	if err == nil {
		cleaner := narration.NewCleaner(sugar)
		go cleaner.Run(ctx, cfg.Audio.TempDir, cfg.Audio.TempTTL, cfg.Audio.TempTTL)
	}

	srv := web.New(cfg, app, sugar)
	if err := srv.Start(ctx); err != nil {
		sugar.Fatalw("failed to start http server", "error", err)
	}

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeoutCause(context.Background(), 10*time.Second, errors.New("shutdown timeout"))
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		sugar.Warnw("graceful shutdown error", "error", err)
	}
	sugar.Infow("server stopped")
}
