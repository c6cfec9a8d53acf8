package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// ErrMissingCredential ни один источник не вернул ключ API.
var ErrMissingCredential = errors.New("credential not found")

// Resolver один источник ключей API. found=false — источник ключа не содержит,
// ошибка — источник есть, но прочитать его не удалось.
type Resolver interface {
	Name() string
	Resolve(key string) (value string, found bool, err error)
}

// SecretsDirResolver читает ключ из каталога смонтированных секретов: <dir>/<KEY>.
// Так секреты отдают Docker и Kubernetes.
type SecretsDirResolver struct{ Dir string }

func (r SecretsDirResolver) Name() string { return "secrets:" + r.Dir }

func (r SecretsDirResolver) Resolve(key string) (string, bool, error) {
	if strings.TrimSpace(r.Dir) == "" {
		return "", false, nil
	}
	b, err := os.ReadFile(filepath.Join(r.Dir, key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	v := strings.TrimSpace(string(b))
	return v, v != "", nil
}

// DotEnvResolver читает ключ из .env, не трогая окружение процесса.
type DotEnvResolver struct{ Path string }

func (r DotEnvResolver) Name() string { return "dotenv:" + r.Path }

func (r DotEnvResolver) Resolve(key string) (string, bool, error) {
	if strings.TrimSpace(r.Path) == "" {
		return "", false, nil
	}
	vals, err := godotenv.Read(r.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	v := strings.TrimSpace(vals[key])
	return v, v != "", nil
}

// EnvResolver переменные окружения процесса.
type EnvResolver struct{}

func (EnvResolver) Name() string { return "env" }

func (EnvResolver) Resolve(key string) (string, bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != "", nil
}

// Resolvers цепочка источников в порядке приоритета: секреты, .env, окружение.
func (c *Config) Resolvers() []Resolver {
	return []Resolver{
		SecretsDirResolver{Dir: c.Credentials.SecretsDir},
		DotEnvResolver{Path: c.Credentials.DotEnvPath},
		EnvResolver{},
	}
}

// ResolveCredential проходит цепочку по порядку, побеждает первое непустое значение.
// Ошибка чтения одного источника не прерывает цепочку, но попадает в итоговую ошибку,
// если ключ так и не найден. Возвращает значение и имя источника.
func ResolveCredential(resolvers []Resolver, key string) (string, string, error) {
	var errs []error
	for _, r := range resolvers {
		v, ok, err := r.Resolve(key)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Name(), err))
			continue
		}
		if ok {
			return v, r.Name(), nil
		}
	}
	errs = append([]error{fmt.Errorf("%w: %s", ErrMissingCredential, key)}, errs...)
	return "", "", errors.Join(errs...)
}

// explicitCredential ключ, явно заданный флагом командной строки.
func (c *Config) explicitCredential(key string) string {
	if key == KeyYandex {
		return strings.TrimSpace(c.YandexTTS.APIKey)
	}
	return ""
}

// ResolveAll находит все ключи из CredentialKeys. Результат: имя ключа -> значение.
// Ключ из флага побеждает цепочку источников.
func (c *Config) ResolveAll() (map[string]string, error) {
	out := make(map[string]string)
	resolvers := c.Resolvers()
	for _, key := range c.CredentialKeys() {
		if v := c.explicitCredential(key); v != "" {
			out[key] = v
			continue
		}
		v, _, err := ResolveCredential(resolvers, key)
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	return out, nil
}
