package main

import (
	"CodeNarrator/internal/config"
	"CodeNarrator/internal/service/narration"
	"CodeNarrator/internal/service/tts"
	"CodeNarrator/internal/service/tts/player"
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

// Утилита для проверки голосов: синтезирует произвольный текст выбранным сервисом TTS,
// сохраняет mp3 и/или сразу проигрывает.
func main() {
	fs := flag.NewFlagSet("say", flag.ExitOnError)
	text := fs.String("text", "Привет! Это проверка голоса для озвучки описаний кода.", "текст для синтеза речи")
	voice := fs.String("voice", "", "голос (пусто — первый из списка сервиса)")
	out := fs.String("out", "", "имя выходного mp3 (пусто — не сохранять)")
	play := fs.Bool("play", true, "сразу воспроизвести результат")
	volume := fs.Float64("volume", 0, "громкость воспроизведения: 0 — как есть, -1 — вдвое тише, 1 — вдвое громче")

	cfg, err := config.Load(fs, os.Args[1:])
	if err != nil {
		fmt.Println("config:", err)
		os.Exit(1)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	defer func() {
		_ = logger.Sync()
	}()

	// Нужен только ключ сервиса TTS
	keys := map[string]string{}
	var ttsKey string
	switch cfg.TTSService {
	case config.TTSOpenAI:
		ttsKey = config.KeyOpenAI
	case config.TTSYandex:
		ttsKey = config.KeyYandex
	}
	if ttsKey != "" && (ttsKey != config.KeyYandex || cfg.YandexTTS.APIKey == "") {
		v, src, err := config.ResolveCredential(cfg.Resolvers(), ttsKey)
		if err != nil {
			fmt.Println("Ошибка: отсутствует API-ключ:", err)
			os.Exit(1)
		}
		sugar.Debugw("Ключ найден", "source", src)
		keys[ttsKey] = v
	}

	synth, err := tts.New(cfg, keys, sugar)
	if err != nil {
		fmt.Println("Ошибка:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	art, err := narration.New(synth, cfg.Audio.TempDir, cfg.Audio.MaxBytes, sugar).Narrate(ctx, *text, *voice)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	sugar.Infow("Синтез завершён", "voice", art.Voice, "bytes", len(art.Data), "duration", art.Duration.String())

	if *out != "" {
		if err := os.WriteFile(*out, art.Data, 0o644); err != nil {
			fmt.Println("Ошибка записи файла:", err)
			os.Exit(1)
		}
		fmt.Println("Файл сохранён:", *out)
	}
	if *play {
		if err := player.NewWithVolume(*volume).Play(ctx, io.NopCloser(bytes.NewReader(art.Data))); err != nil {
			fmt.Println("Ошибка воспроизведения:", err)
			os.Exit(1)
		}
	}
}
