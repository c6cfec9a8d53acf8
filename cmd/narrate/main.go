package main

import (
	"CodeNarrator/internal/app/narrator"
	"CodeNarrator/internal/config"
	"CodeNarrator/internal/prompt"
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

// Описание кода из файла или stdin в терминале:
//
//	narrate -file main.go -level detailed -audio -out opis.mp3 -play
func main() {
	fs := flag.NewFlagSet("narrate", flag.ExitOnError)
	file := fs.String("file", "", "файл с кодом (пусто — читать stdin)")
	levelName := fs.String("level", "general", "уровень детализации: general|detailed")
	withAudio := fs.Bool("audio", false, "сгенерировать озвучку")
	voice := fs.String("voice", "", "голос озвучки (пусто — по умолчанию)")
	out := fs.String("out", "", "куда сохранить mp3")
	play := fs.Bool("play", false, "проиграть озвучку")
	volume := fs.Float64("volume", 0, "громкость воспроизведения: 0 — как есть, -1 — вдвое тише")

	cfg, err := config.Load(fs, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	// Логи только в режиме дебага, stdout занят описанием
	logger := zap.NewNop()
	if cfg.DebugMode {
		if logger, err = zap.NewDevelopment(); err != nil {
			panic(err)
		}
	}
	sugar := logger.Sugar()
	defer func() {
		_ = logger.Sync()
	}()

	level, err := prompt.ParseLevel(*levelName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	code, err := readCode(*file)
	if err != nil {
		fmt.Fprintln(os.Stderr, "не удалось прочитать код:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := narrator.FromConfig(ctx, cfg, sugar)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	audio := *withAudio || *out != "" || *play
	res, err := app.Run(ctx, narrator.Request{Code: code, Level: level, WithAudio: audio, Voice: *voice}, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(res.Description)

	if res.NarrationFailure != nil {
		fmt.Fprintln(os.Stderr, res.NarrationFailure.Message)
		os.Exit(3)
	}
	if res.Audio == nil {
		return
	}
	if *out != "" {
		if err := os.WriteFile(*out, res.Audio.Data, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, "не удалось сохранить mp3:", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "mp3 сохранён: %s (%s, голос %s)\n", *out, res.Audio.Duration, res.Audio.Voice)
	}
	if *play {
		if err := player.NewWithVolume(*volume).Play(ctx, io.NopCloser(bytes.NewReader(res.Audio.Data))); err != nil {
			fmt.Fprintln(os.Stderr, "не удалось проиграть mp3:", err)
			os.Exit(1)
		}
	}
}

func readCode(path string) (string, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}
