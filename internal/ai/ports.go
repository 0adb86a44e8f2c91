package ai

import (
	"context"
	"errors"
)

// Lang is one of the two languages the bridge translates between.
type Lang string

const (
	LangKorean  Lang = "ko" // what Telegram users write
	LangEnglish Lang = "en" // what the operator reads and writes
)

func (l Lang) Valid() bool {
	return l == LangKorean || l == LangEnglish
}

// Name is the human-readable language name used in prompts.
func (l Lang) Name() string {
	switch l {
	case LangKorean:
		return "Korean"
	case LangEnglish:
		return "English"
	}
	return string(l)
}

// ErrEmptyTranslation is returned when the provider answers with no text.
var ErrEmptyTranslation = errors.New("ai: translation returned empty result")

// Translator is the external translation provider. It knows nothing about Telegram or the inbox.
type Translator interface {
	Translate(ctx context.Context, text string, from, to Lang) (string, error)
}
