package internal

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TargetLang is the Youdao language code every request translates into.
const TargetLang = "zh-CHS"

var ErrEmptyText = errors.New("text to translate is empty")

var singleWordRe = regexp.MustCompile(`^[A-Za-z]+(?:['-][A-Za-z]+)*$`)

type TranslationRequest struct {
	ID           string    `json:"id"`
	Text         string    `json:"text"`
	IsSingleWord bool      `json:"is_single_word"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewTranslationRequest trims text and derives IsSingleWord from it.
func NewTranslationRequest(text string) (TranslationRequest, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return TranslationRequest{}, ErrEmptyText
	}
	return TranslationRequest{
		ID:           uuid.New().String(),
		Text:         text,
		IsSingleWord: IsSingleWord(text),
		Timestamp:    time.Now(),
	}, nil
}

// IsSingleWord reports whether text is one run of ASCII letters, optionally
// joined by single apostrophes or hyphens ("don't", "well-known").
func IsSingleWord(text string) bool {
	return singleWordRe.MatchString(text)
}
