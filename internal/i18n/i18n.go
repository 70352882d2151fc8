// Package i18n holds the localized prompts shown by the UI shell.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys. The English text doubles as the key.
const (
	MsgCompletedTitle = "Sequence completed"
	MsgCongrats       = "Congratulations! You completed the sequence!"
	MsgTyped          = "Characters typed: %d"
	MsgErrors         = "Errors: %d"
	MsgRate           = "Characters per minute: %.2f"
	MsgAccuracy       = "Accuracy: %.1f%%"
	MsgElapsed        = "Time: %.1f s"
	MsgContinue       = "Do you want to continue?"
	MsgExitTitle      = "Exit or continue"
	MsgExitPrompt     = "Do you want to continue or finish?"
	MsgDifficulty     = "Difficulty %d/%d"
	MsgRuns           = "Runs: %d"
	MsgRateLive       = "CPM %.1f"
	MsgHelpType       = "type"
	MsgHelpDifficulty = "difficulty"
	MsgHelpExit       = "exit"
	MsgHelpQuit       = "quit"
	MsgHelpContinue   = "continue"
	MsgHelpFinish     = "finish"
	MsgHelpHistory    = "history"
	MsgHistoryTitle   = "Completed runs"
)

var russian = map[string]string{
	MsgCompletedTitle: "Последовательность завершена",
	MsgCongrats:       "Поздравляем! Вы завершили последовательность!",
	MsgTyped:          "Введено символов: %d",
	MsgErrors:         "Ошибки: %d",
	MsgRate:           "Символов в минуту: %.2f",
	MsgAccuracy:       "Точность: %.1f%%",
	MsgElapsed:        "Время: %.1f с",
	MsgContinue:       "Хотите продолжить?",
	MsgExitTitle:      "Выйти или продолжить",
	MsgExitPrompt:     "Желаете продолжить или закончить?",
	MsgDifficulty:     "Сложность %d/%d",
	MsgRuns:           "Завершено: %d",
	MsgRateLive:       "Зн/мин %.1f",
	MsgHelpType:       "печатать",
	MsgHelpDifficulty: "сложность",
	MsgHelpExit:       "выход",
	MsgHelpQuit:       "выйти",
	MsgHelpContinue:   "продолжить",
	MsgHelpFinish:     "закончить",
	MsgHelpHistory:    "история",
	MsgHistoryTitle:   "Завершённые попытки",
}

var supportedTags = []language.Tag{
	language.English,
	language.Russian,
}

var tagMatcher = language.NewMatcher(supportedTags)

func init() {
	for key, text := range russian {
		if err := message.SetString(language.Russian, key, text); err != nil {
			panic(err)
		}
		if err := message.SetString(language.English, key, key); err != nil {
			panic(err)
		}
	}
}

// Supported returns the list of supported language tags.
func Supported() []language.Tag {
	tags := make([]language.Tag, len(supportedTags))
	copy(tags, supportedTags)
	return tags
}

// SupportedNames returns the supported locales as a comma-separated list.
func SupportedNames() string {
	names := make([]string, 0, len(supportedTags))
	for _, tag := range Supported() {
		names = append(names, tag.String())
	}
	return strings.Join(names, ", ")
}

// Default returns the default language tag.
func Default() language.Tag {
	return language.English
}

// ParseTag resolves a locale string such as "ru" or "en-US" to a supported tag.
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Default(), false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return Default(), false
	}
	_, idx, confidence := tagMatcher.Match(tag)
	if confidence == language.No {
		return Default(), false
	}
	return supportedTags[idx], true
}

// Printer returns a message printer for the supplied tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}
