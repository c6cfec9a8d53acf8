// Package prompt собирает текст запроса к модели по коду и уровню детализации.
package prompt

import (
	"errors"
	"fmt"
	"strings"
)

// Level уровень детализации описания.
type Level int

const (
	General Level = iota
	Detailed
)

// ErrUnknownLevel значение уровня не распознано.
var ErrUnknownLevel = errors.New("unknown detail level")

func (l Level) String() string {
	switch l {
	case General:
		return "general"
	case Detailed:
		return "detailed"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel разбирает значение из формы. Пустое значение — General.
// Принимаются и подписи старой формы.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "general", "ogólny", "общий":
		return General, nil
	case "detailed", "szczegółowy", "подробный":
		return Detailed, nil
	}
	return General, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

const header = "Задача: объясни, что делает код ниже.\n" +
	"Если есть потенциальные ошибки или пограничная логика, кратко упомяни их в конце.\n\n"

const generalInstructions = "📌 **Режим ОБЩИЙ**: опиши в 2–5 предложениях цель и общее поведение программы." +
	" Не цитируй код, пересказывай. Добавь возможные применения или пример использования.\n\n"

const detailedInstructions = "📌 **Режим ПОДРОБНЫЙ**: опиши шаг за шагом с номерами строк." +
	" Группируй строки в блоки, когда это имеет смысл (напр. 1–5: импорты, 6–12: определение функции)." +
	" Для каждого блока дай краткое предметное пояснение. Не копируй строки кода целиком.\n\n"

const systemPrompt = "Ты ассистент, который понятно объясняет код старшеклассникам." +
	" Используй простой язык, но сохраняй профессиональную терминологию, когда она помогает."

// Instructions текст инструкций для уровня.
func Instructions(level Level) string {
	if level == Detailed {
		return detailedInstructions
	}
	return generalInstructions
}

// Build возвращает промпт: заголовок, инструкции уровня и код в блоке ```code.
// Код вставляется без изменений.
func Build(code string, level Level) string {
	var b strings.Builder
	b.Grow(len(header) + len(detailedInstructions) + len(code) + 16)
	b.WriteString(header)
	b.WriteString(Instructions(level))
	b.WriteString("```code\n")
	b.WriteString(code)
	b.WriteString("\n```")
	return b.String()
}

// SystemPrompt системная инструкция с инструкцией о языке ответа.
func SystemPrompt(languageInstruction string) string {
	lang := strings.TrimSpace(languageInstruction)
	if lang == "" {
		return systemPrompt
	}
	return systemPrompt + " " + lang
}
