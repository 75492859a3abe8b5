// Package chunker splits text that is too long for a single backend request
// into ordered segments. Splits happen after sentence-terminal punctuation
// (ASCII and full-width), and any sentence that is still too long is cut
// into fixed-size windows. Lengths are counted in runes.
package chunker

import (
	"strings"
)

// MaxSegmentRunes is the longest segment the web endpoint is sent.
const MaxSegmentRunes = 120

// Segment is Split with MaxSegmentRunes.
func Segment(text string) []string {
	return Split(text, MaxSegmentRunes)
}

// Split normalises text and breaks it into pieces of at most maxRunes runes.
//
// Text that fits is returned as a single element, so Split may be called
// unconditionally. An empty slice is returned only for blank input.
// Concatenating the result without separators reproduces the normalised
// text minus the spaces that followed sentence terminators.
func Split(text string, maxRunes int) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return []string{}
	}
	if maxRunes <= 0 || len([]rune(normalized)) <= maxRunes {
		return []string{normalized}
	}

	sentences := splitSentences(normalized)
	if len(sentences) == 0 {
		sentences = []string{normalized}
	}

	var segments []string
	for _, s := range sentences {
		if len([]rune(s)) <= maxRunes {
			segments = append(segments, s)
			continue
		}
		segments = append(segments, hardSplit(s, maxRunes)...)
	}
	return segments
}

// Normalize collapses every whitespace run into one space and trims the ends.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func isTerminator(r rune) bool {
	switch r {
	case '.', '!', '?', ';', ':', '。', '！', '？', '；', '：':
		return true
	}
	return false
}

// splitSentences cuts after each terminator, keeping it on the left piece.
// Pieces are trimmed and empty ones dropped.
func splitSentences(text string) []string {
	var parts []string
	start := 0
	for i, r := range text {
		if !isTerminator(r) {
			continue
		}
		end := i + len(string(r))
		if p := strings.TrimSpace(text[start:end]); p != "" {
			parts = append(parts, p)
		}
		start = end
	}
	if p := strings.TrimSpace(text[start:]); p != "" {
		parts = append(parts, p)
	}
	return parts
}

func hardSplit(text string, maxRunes int) []string {
	runes := []rune(text)
	windows := make([]string, 0, (len(runes)+maxRunes-1)/maxRunes)
	for i := 0; i < len(runes); i += maxRunes {
		end := i + maxRunes
		if end > len(runes) {
			end = len(runes)
		}
		windows = append(windows, string(runes[i:end]))
	}
	return windows
}
