package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Поддерживаемые провайдеры генерации текста.
const (
	CompletionOpenAI    = "openai"
	CompletionResponses = "responses"
	CompletionGemini    = "gemini"
	CompletionStub      = "stub"
)

// Имена ключей API.
const (
	KeyOpenAI = "OPENAI_API_KEY"
	KeyGemini = "GEMINI_API_KEY"
	KeyYandex = "YC_TTS_API_KEY"
)

// Поддерживаемые сервисы синтеза речи.
const (
	TTSOpenAI = "openai"
	TTSGoogle = "google"
	TTSGemini = "gemini"
	TTSYandex = "yandex"
)

type Config struct {
	DebugMode          bool          `env:"DEBUG_MODE"`                    // Режим дебага: development-логгер, подробные логи
	HTTPAddr           string        `env:"HTTP_ADDR"`                     // Адрес веб-формы, напр. 127.0.0.1:8501
	HTTPWriteTimeout   time.Duration `env:"HTTP_WRITE_TIMEOUT"`            // Должен покрывать оба запроса к провайдерам
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE"`         // Запросов в минуту с одного IP; 0 — без ограничения
	CORSOrigins        []string      `env:"CORS_ORIGINS" envSeparator:";"` // Разрешённые Origin для /api
	MaxInFlight        int           `env:"MAX_IN_FLIGHT"`                 // Сколько отправок обрабатывается одновременно
	MaxCodeBytes       int           `env:"MAX_CODE_BYTES"`                // Максимальный размер вставленного кода

	// Ответ модели
	ResponseLanguage string `env:"RESPONSE_LANGUAGE"` // Инструкция о языке ответа, добавляется к системному промпту
	Completion       CompletionConfig

	Credentials CredentialsConfig

	// Общий переключатель сервиса TTS и конфиги провайдеров
	TTSService string `env:"TTS_SERVICE"` // openai|google|gemini|yandex, по умолчанию openai
	OpenAITTS  OpenAITTSConfig
	GoogleTTS  GoogleTTSConfig
	GeminiTTS  GeminiTTSConfig
	YandexTTS  YandexTTSConfig

	Audio AudioConfig
}

// CompletionConfig параметры генерации описания.
type CompletionConfig struct {
	Provider    string  `env:"COMPLETION_PROVIDER"`    // openai|responses|gemini|stub
	Model       string  `env:"COMPLETION_MODEL"`       // Пусто — модель по умолчанию для провайдера
	Temperature float64 `env:"COMPLETION_TEMPERATURE"` // Низкая температура — почти детерминированный ответ
	BaseURL     string  `env:"OPENAI_BASE_URL"`        // Совместимый с OpenAI endpoint (опционально)
}

// CredentialsConfig откуда брать ключ API.
type CredentialsConfig struct {
	SecretsDir string `env:"SECRETS_DIR"` // Каталог смонтированных секретов (файл на ключ)
	DotEnvPath string `env:"DOTENV_PATH"` // Путь к .env
}

// OpenAITTSConfig синтез речи через OpenAI audio/speech.
type OpenAITTSConfig struct {
	Model  string   `env:"OPENAI_TTS_MODEL"`                   // tts-1 по умолчанию
	Voices []string `env:"OPENAI_TTS_VOICES" envSeparator:";"` // Первый голос — голос по умолчанию
	Speed  float64  `env:"OPENAI_TTS_SPEED"`                   // 0.25..4.0, 0 — не передавать
}

// YandexTTSConfig конфигурация для синтеза речи через Yandex SpeechKit.
type YandexTTSConfig struct {
	APIKey  string   // Только из флага. Иначе ключ ищется цепочкой секреты -> .env -> ENV
	Voices  []string `env:"YC_TTS_VOICES" envSeparator:";"` // Доступные голоса, первый — по умолчанию
	Speed   string   `env:"YC_TTS_SPEED"`                   // Скорость синтеза (1.0 по умолчанию в API)
	Emotion string   `env:"YC_TTS_EMOTION"`                 // Эмоциональная окраска: neutral|good|evil
}

// GoogleTTSConfig конфигурация для синтеза речи через Google Cloud Text-to-Speech.
type GoogleTTSConfig struct {
	// Путь к файлу ключа сервисного аккаунта. Фактически читается из ENV GOOGLE_APPLICATION_CREDENTIALS.
	CredentialsPath string   `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	Language        string   `env:"GOOGLE_TTS_LANGUAGE"`
	Voices          []string `env:"GOOGLE_TTS_VOICES" envSeparator:";"`
	SpeakingRate    float64  `env:"GOOGLE_TTS_SPEAKING_RATE"`
	Pitch           float64  `env:"GOOGLE_TTS_PITCH"`
	VolumeGainDb    float64  `env:"GOOGLE_TTS_VOLUME_DB"`
	// Эффект профиля устройства воспроизведения, напр. headphone-class-device
	EffectsProfileID string `env:"GOOGLE_TTS_EFFECTS_PROFILE_ID"`
}

// GeminiTTSConfig Cloud Text-to-Speech: Gemini-TTS (REST v1beta1).
type GeminiTTSConfig struct {
	Endpoint     string   `env:"GEMINI_TTS_ENDPOINT"`
	ModelName    string   `env:"GEMINI_TTS_MODEL"`
	Language     string   `env:"GEMINI_TTS_LANGUAGE"`
	Voices       []string `env:"GEMINI_TTS_VOICES" envSeparator:";"`
	Prompt       string   `env:"GEMINI_TTS_PROMPT"` // Стилевой промпт для озвучки, пустым не отправляется
	SpeakingRate float64  `env:"GEMINI_TTS_SPEAKING_RATE"`
}

// AudioConfig промежуточное хранение аудио.
type AudioConfig struct {
	TempDir  string        `env:"AUDIO_TEMP_DIR"`  // Пусто — системный temp
	TempTTL  time.Duration `env:"AUDIO_TEMP_TTL"`  // Забытые файлы старше TTL удаляет уборщик
	MaxBytes int64         `env:"MAX_AUDIO_BYTES"` // Ограничение на размер ответа TTS
}

// Defaults возвращает конфигурацию с предустановленными значениями по умолчанию.
// Эти значения перекрываются .env, переменными окружения и флагами CLI.
func Defaults() *Config {
	return &Config{
		DebugMode:          false,
		HTTPAddr:           "127.0.0.1:8501",
		HTTPWriteTimeout:   3 * time.Minute,
		RateLimitPerMinute: 20,
		CORSOrigins:        []string{"*"},
		MaxInFlight:        1,
		MaxCodeBytes:       64 << 10,
		ResponseLanguage:   "Отвечай на русском языке.",
		Completion: CompletionConfig{
			Provider:    CompletionOpenAI,
			Temperature: 0.2,
		},
		Credentials: CredentialsConfig{
			SecretsDir: "/run/secrets",
			DotEnvPath: ".env",
		},
		TTSService: TTSOpenAI,
		OpenAITTS: OpenAITTSConfig{
			Model:  "tts-1",
			Voices: []string{"alloy", "ash", "coral", "echo", "fable", "nova", "onyx", "sage", "shimmer"},
		},
		GoogleTTS: GoogleTTSConfig{
			CredentialsPath:  "service-account.json",
			Language:         "ru-RU",
			Voices:           []string{"ru-RU-Standard-A", "ru-RU-Standard-B", "ru-RU-Wavenet-A", "ru-RU-Wavenet-B"},
			SpeakingRate:     1.0,
			EffectsProfileID: "headphone-class-device",
		},
		GeminiTTS: GeminiTTSConfig{
			ModelName:    "gemini-2.5-flash-tts",
			Language:     "ru-RU",
			Voices:       []string{"Kore", "Puck", "Charon", "Aoede", "Zephyr"},
			SpeakingRate: 1.0,
		},
		YandexTTS: YandexTTSConfig{
			Voices:  []string{"filipp", "alena", "jane", "omazh", "zahar", "ermil"},
			Speed:   "1.0",
			Emotion: "neutral",
		},
		Audio: AudioConfig{
			TempTTL:  15 * time.Minute,
			MaxBytes: 25 << 20,
		},
	}
}

// NewConfig загружает конфигурацию приложения из .env, окружения и флагов командной строки.
func NewConfig() *Config {
	cfg, err := Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load собирает конфигурацию: дефолты -> .env -> ENV -> флаги из args.
// Флаги регистрируются в fs, поэтому вызывающий может добавить свои до вызова.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	dotenv := os.Getenv("DOTENV_PATH")
	if dotenv == "" {
		dotenv = ".env"
	}
	_ = godotenv.Load(dotenv)

	// Стартуем с дефолтов, затем перекрываем .env/окружением и флагами
	cfg := Defaults()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	fs.BoolVar(&cfg.DebugMode, "debug-mode", cfg.DebugMode, "включить режим дебага")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "адрес веб-формы, напр. 127.0.0.1:8501")
	fs.DurationVar(&cfg.HTTPWriteTimeout, "http-write-timeout", cfg.HTTPWriteTimeout, "таймаут записи ответа HTTP")
	fs.IntVar(&cfg.RateLimitPerMinute, "rate-limit-per-minute", cfg.RateLimitPerMinute, "запросов в минуту с одного IP (0 — без ограничения)")
	fs.IntVar(&cfg.MaxInFlight, "max-in-flight", cfg.MaxInFlight, "сколько отправок обрабатывается одновременно")
	fs.IntVar(&cfg.MaxCodeBytes, "max-code-bytes", cfg.MaxCodeBytes, "максимальный размер кода в байтах")
	fs.StringVar(&cfg.ResponseLanguage, "response-language", cfg.ResponseLanguage, "инструкция о языке ответа модели")
	// Генерация описания
	fs.StringVar(&cfg.Completion.Provider, "completion-provider", cfg.Completion.Provider, "провайдер описания: openai|responses|gemini|stub")
	fs.StringVar(&cfg.Completion.Model, "completion-model", cfg.Completion.Model, "модель описания (пусто — по умолчанию для провайдера)")
	fs.Float64Var(&cfg.Completion.Temperature, "completion-temperature", cfg.Completion.Temperature, "температура сэмплирования")
	fs.StringVar(&cfg.Completion.BaseURL, "openai-base-url", cfg.Completion.BaseURL, "совместимый с OpenAI endpoint")
	// Ключи
	fs.StringVar(&cfg.Credentials.SecretsDir, "secrets-dir", cfg.Credentials.SecretsDir, "каталог смонтированных секретов")
	fs.StringVar(&cfg.Credentials.DotEnvPath, "dotenv-path", cfg.Credentials.DotEnvPath, "путь к .env с ключом API")
	// TTS
	fs.StringVar(&cfg.TTSService, "tts-service", cfg.TTSService, "выбор сервиса TTS: openai|google|gemini|yandex")
	fs.StringVar(&cfg.OpenAITTS.Model, "openai-tts-model", cfg.OpenAITTS.Model, "модель OpenAI TTS, напр. tts-1")
	fs.StringVar(&cfg.YandexTTS.APIKey, "yc-tts-api-key", cfg.YandexTTS.APIKey, "API ключ Yandex SpeechKit TTS (перекрывает секреты, .env и ENV)")
	fs.StringVar(&cfg.GoogleTTS.CredentialsPath, "google-tts-credentials", cfg.GoogleTTS.CredentialsPath, "путь к service-account.json")
	fs.StringVar(&cfg.GoogleTTS.Language, "google-tts-language", cfg.GoogleTTS.Language, "язык синтеза, напр. ru-RU")
	fs.StringVar(&cfg.GeminiTTS.ModelName, "gemini-tts-model", cfg.GeminiTTS.ModelName, "модель Gemini-TTS")
	// Аудио
	fs.StringVar(&cfg.Audio.TempDir, "audio-temp-dir", cfg.Audio.TempDir, "каталог для временных mp3 (пусто — системный)")
	fs.DurationVar(&cfg.Audio.TempTTL, "audio-temp-ttl", cfg.Audio.TempTTL, "через сколько забытые mp3 удаляются")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.Completion.Provider = strings.ToLower(strings.TrimSpace(cfg.Completion.Provider))
	cfg.TTSService = strings.ToLower(strings.TrimSpace(cfg.TTSService))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Если ENV пуст, но в конфиге указан существующий файл ключа Google — выставляем ENV для ADC.
	if cfg.TTSService == TTSGoogle || cfg.TTSService == TTSGemini {
		if strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")) == "" {
			if cp := strings.TrimSpace(cfg.GoogleTTS.CredentialsPath); cp != "" {
				if _, err := os.Stat(cp); err == nil {
					_ = os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", cp)
				}
			}
		}
	}

	return cfg, nil
}

// Validate проверяет значения, которые нельзя исправить молча.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains([]string{CompletionOpenAI, CompletionResponses, CompletionGemini, CompletionStub}, c.Completion.Provider) {
		errs = append(errs, fmt.Errorf("unknown completion provider %q", c.Completion.Provider))
	}
	if !slices.Contains([]string{TTSOpenAI, TTSGoogle, TTSGemini, TTSYandex}, c.TTSService) {
		errs = append(errs, fmt.Errorf("unknown tts service %q", c.TTSService))
	}
	if c.Completion.Temperature < 0 || c.Completion.Temperature > 2 {
		errs = append(errs, fmt.Errorf("completion temperature %.2f out of range [0, 2]", c.Completion.Temperature))
	}
	if c.MaxInFlight < 1 {
		errs = append(errs, errors.New("max in flight must be at least 1"))
	}
	if c.MaxCodeBytes <= 0 {
		errs = append(errs, errors.New("max code bytes must be positive"))
	}
	if c.Audio.MaxBytes <= 0 {
		errs = append(errs, errors.New("max audio bytes must be positive"))
	}
	return errors.Join(errs...)
}

// CompletionModel возвращает модель описания с учётом дефолта провайдера.
func (c *Config) CompletionModel() string {
	if m := strings.TrimSpace(c.Completion.Model); m != "" {
		return m
	}
	switch c.Completion.Provider {
	case CompletionGemini:
		return "gemini-2.5-flash"
	case CompletionStub:
		return "stub"
	default:
		return "gpt-4o-mini"
	}
}

// CredentialKeys имена ключей API, без которых приложение не может обслуживать запросы.
// Ключ OpenAI нужен и описанию (openai|responses), и синтезу речи через OpenAI.
// Ключ Yandex нужен только синтезу через SpeechKit.
func (c *Config) CredentialKeys() []string {
	var keys []string
	switch c.Completion.Provider {
	case CompletionOpenAI, CompletionResponses:
		keys = append(keys, KeyOpenAI)
	case CompletionGemini:
		keys = append(keys, KeyGemini)
	}
	if c.TTSService == TTSOpenAI && !slices.Contains(keys, KeyOpenAI) {
		keys = append(keys, KeyOpenAI)
	}
	if c.TTSService == TTSYandex {
		keys = append(keys, KeyYandex)
	}
	return keys
}
