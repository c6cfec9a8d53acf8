package service

import (
	"errors"
	"fmt"
)

// Kind категория ошибки обработки запроса.
type Kind string

const (
	KindConfiguration Kind = "configuration"
	KindEmptyInput    Kind = "empty_input"
	KindDescription   Kind = "description"
	KindNarration     Kind = "narration"
)

// Failure ошибка как значение результата: категория, сообщение для пользователя и причина.
type Failure struct {
	Kind    Kind
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Message, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

func (f *Failure) Unwrap() error { return f.Err }

// ConfigurationFailure отсутствует ключ API или конфигурация провайдера неверна.
func ConfigurationFailure(err error) *Failure {
	return &Failure{
		Kind:    KindConfiguration,
		Message: "Нет ключа API. Добавьте ключ в каталог секретов или локально в файл .env. Никогда не коммитьте ключ в репозиторий.",
		Err:     err,
	}
}

// EmptyInputFailure код не вставлен.
func EmptyInputFailure() *Failure {
	return &Failure{Kind: KindEmptyInput, Message: "Сначала вставьте исходный код."}
}

// DescriptionFailure провайдер описания вернул ошибку.
func DescriptionFailure(err error) *Failure {
	return &Failure{Kind: KindDescription, Message: fmt.Sprintf("Не удалось сгенерировать описание: %v", err), Err: err}
}

// NarrationFailure провайдер синтеза речи вернул ошибку.
func NarrationFailure(err error) *Failure {
	return &Failure{Kind: KindNarration, Message: fmt.Sprintf("Не удалось сгенерировать аудио: %v", err), Err: err}
}

// AsFailure достаёт *Failure из цепочки ошибок.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// IsKind сообщает, что err — Failure указанной категории.
func IsKind(err error, kind Kind) bool {
	f, ok := AsFailure(err)
	return ok && f.Kind == kind
}
