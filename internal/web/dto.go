package web

import (
	"CodeNarrator/internal/app/narrator"
	"CodeNarrator/internal/prompt"
	"CodeNarrator/internal/service"
	"CodeNarrator/internal/service/narration"
	"context"
	"encoding/base64"
	"errors"
	"net/http"
)

// Категории ошибок, которые не являются service.Failure.
const (
	kindInvalidRequest = "invalid_request"
	kindTooLarge       = "too_large"
	kindCancelled      = "cancelled"
)

type describeRequest struct {
	Code  string `json:"code"`
	Level string `json:"level"`
	Audio bool   `json:"audio"`
	Voice string `json:"voice"`
}

type audioDTO struct {
	Format          string  `json:"format"`
	Voice           string  `json:"voice"`
	DurationSeconds float64 `json:"duration_seconds"`
	DataBase64      string  `json:"data_base64"`
}

type errorDTO struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type describeResponse struct {
	RequestID      string    `json:"request_id,omitempty"`
	Description    string    `json:"description,omitempty"`
	Audio          *audioDTO `json:"audio,omitempty"`
	Error          *errorDTO `json:"error,omitempty"`
	NarrationError *errorDTO `json:"narration_error,omitempty"`
}

type voicesResponse struct {
	Voices  []string `json:"voices"`
	Default string   `json:"default,omitempty"`
}

func (d describeRequest) toRequest() (narrator.Request, error) {
	level, err := prompt.ParseLevel(d.Level)
	if err != nil {
		return narrator.Request{}, err
	}
	return narrator.Request{Code: d.Code, Level: level, WithAudio: d.Audio, Voice: d.Voice}, nil
}

func toAudioDTO(a *narration.Artifact) *audioDTO {
	if a == nil {
		return nil
	}
	return &audioDTO{
		Format:          a.Format,
		Voice:           a.Voice,
		DurationSeconds: a.Duration.Seconds(),
		DataBase64:      base64.StdEncoding.EncodeToString(a.Data),
	}
}

func failureDTO(f *service.Failure) *errorDTO {
	if f == nil {
		return nil
	}
	return &errorDTO{Kind: string(f.Kind), Message: f.Message}
}

// classify сопоставляет ошибку обработки с HTTP-статусом и телом ошибки.
func classify(err error) (int, *errorDTO) {
	if f, ok := service.AsFailure(err); ok {
		status := http.StatusBadGateway
		switch f.Kind {
		case service.KindConfiguration:
			status = http.StatusServiceUnavailable
		case service.KindEmptyInput:
			status = http.StatusUnprocessableEntity
		}
		return status, failureDTO(f)
	}
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.Is(err, prompt.ErrUnknownLevel):
		return http.StatusBadRequest, &errorDTO{Kind: kindInvalidRequest, Message: "Неизвестный уровень детализации."}
	case errors.Is(err, narrator.ErrCodeTooLarge), errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge, &errorDTO{Kind: kindTooLarge, Message: "Код слишком большой."}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, &errorDTO{Kind: kindCancelled, Message: "Запрос отменён."}
	default:
		return http.StatusBadRequest, &errorDTO{Kind: kindInvalidRequest, Message: err.Error()}
	}
}
