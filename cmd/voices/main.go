package main

import (
	"CodeNarrator/internal/config"
	ttsgoogle "CodeNarrator/internal/service/tts/google"
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
)

// Печатает голоса выбранного сервиса TTS. Для Google Cloud TTS запрашивает
// у API полный список голосов языка из конфига и отмечает настроенные.
func main() {
	cfg := config.NewConfig()

	var voices []string
	switch cfg.TTSService {
	case config.TTSOpenAI:
		voices = cfg.OpenAITTS.Voices
	case config.TTSGemini:
		voices = cfg.GeminiTTS.Voices
	case config.TTSYandex:
		voices = cfg.YandexTTS.Voices
	case config.TTSGoogle:
		if err := listGoogle(cfg.GoogleTTS); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("Голоса %s (первый — по умолчанию):\n", cfg.TTSService)
	for _, v := range voices {
		fmt.Println(" -", v)
	}
}

func listGoogle(gc config.GoogleTTSConfig) error {
	ctx, cancel := context.WithTimeoutCause(context.Background(), 15*time.Second, errors.New("google tts voices request timeout"))
	defer cancel()

	// Проверим ADC заранее, чтобы ошибка была понятнее ошибки SDK
	if _, err := google.FindDefaultCredentials(ctx, "https://www.googleapis.com/auth/cloud-platform"); err != nil {
		return fmt.Errorf("не удалось найти учётные данные Google (ADC): %w", err)
	}

	lang := gc.Language
	if lang == "" {
		lang = "ru-RU"
	}
	list, err := ttsgoogle.ListVoices(ctx, lang)
	if err != nil {
		return fmt.Errorf("ошибка при запросе голосов: %w", err)
	}

	fmt.Printf("Google TTS, язык %s, голосов: %d (* — настроен)\n", lang, len(list))
	for _, v := range list {
		mark := " "
		if slices.Contains(gc.Voices, v.GetName()) {
			mark = "*"
		}
		fmt.Printf("%s %-28s %-8s %d Hz  %s\n", mark, v.GetName(), v.GetSsmlGender().String(), v.GetNaturalSampleRateHertz(), strings.Join(v.GetLanguageCodes(), ","))
	}
	return nil
}
