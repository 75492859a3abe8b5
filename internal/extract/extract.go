// Package extract pulls translated text out of Youdao response bodies.
//
// Every function here is total: a body of the wrong shape yields an empty
// string or slice, never an error, so callers can treat "nothing usable" as
// a single miss case.
package extract

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// MaxMeanings caps the number of dictionary senses returned for a word.
const MaxMeanings = 8

// MeaningSeparator joins senses, matching the dictionary's own punctuation.
const MeaningSeparator = "；"

// Primary reads the web endpoint shape {translateResult: [[{tgt}]]}.
// The outer array is flattened one level and every string tgt is
// concatenated in order.
func Primary(data gjson.Result) string {
	tr := data.Get("translateResult")
	if !tr.IsArray() {
		return ""
	}

	var sb strings.Builder
	for _, item := range tr.Array() {
		if item.IsArray() {
			for _, part := range item.Array() {
				sb.WriteString(stringAt(part, "tgt"))
			}
			continue
		}
		sb.WriteString(stringAt(item, "tgt"))
	}
	return strings.TrimSpace(sb.String())
}

// Fallback reads the dictionary endpoint. A fanyi.tran string wins when
// present; otherwise the first sense of every ec.word[].trs[].tr[] entry is
// joined.
func Fallback(data gjson.Result) string {
	if tran := data.Get("fanyi.tran"); tran.Type == gjson.String {
		return strings.TrimSpace(tran.Str)
	}

	var senses []string
	for _, tr := range trEntries(data) {
		if first := tr.Get("l.i.0"); first.Type == gjson.String {
			senses = append(senses, first.Str)
		}
	}
	return strings.TrimSpace(strings.Join(senses, MeaningSeparator))
}

// WordMeanings returns up to MaxMeanings distinct "pos senses" lines for a
// single-word dictionary response, in first-seen order.
func WordMeanings(data gjson.Result) []string {
	words := data.Get("ec.word")
	if !words.IsArray() || len(words.Array()) == 0 {
		return []string{}
	}

	seen := make(map[string]struct{})
	meanings := []string{}
	for _, tr := range trEntries(data) {
		item := meaningOf(tr)
		if item == "" {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		meanings = append(meanings, item)
		if len(meanings) == MaxMeanings {
			break
		}
	}
	return meanings
}

// FormatMeanings renders meanings as a numbered list, one per line.
func FormatMeanings(meanings []string) string {
	lines := make([]string, len(meanings))
	for i, m := range meanings {
		lines[i] = fmt.Sprintf("%d. %s", i+1, m)
	}
	return strings.Join(lines, "\n")
}

// OpenAPI reads the authenticated endpoint shape {translation: [...],
// errorCode}. hasTranslation reports whether the translation array was
// present at all, which separates an empty answer from a business error.
func OpenAPI(data gjson.Result) (text string, hasTranslation bool, errorCode string) {
	tr := data.Get("translation")
	if tr.IsArray() {
		hasTranslation = true
		var sb strings.Builder
		for _, part := range tr.Array() {
			sb.WriteString(scalarString(part))
		}
		text = strings.TrimSpace(sb.String())
	}
	errorCode = strings.TrimSpace(scalarString(data.Get("errorCode")))
	return text, hasTranslation, errorCode
}

// trEntries flattens ec.word[].trs[].tr[] into one ordered slice.
func trEntries(data gjson.Result) []gjson.Result {
	var out []gjson.Result
	for _, word := range arrayAt(data, "ec.word") {
		for _, trs := range arrayAt(word, "trs") {
			out = append(out, arrayAt(trs, "tr")...)
		}
	}
	return out
}

func meaningOf(tr gjson.Result) string {
	var senses []string
	for _, part := range arrayAt(tr, "l.i") {
		if s := strings.TrimSpace(scalarString(part)); s != "" {
			senses = append(senses, s)
		}
	}
	if len(senses) == 0 {
		return ""
	}

	meaning := strings.Join(senses, MeaningSeparator)
	if pos := strings.TrimSpace(stringAt(tr, "pos")); pos != "" {
		return pos + " " + meaning
	}
	return meaning
}

func arrayAt(r gjson.Result, path string) []gjson.Result {
	v := r.Get(path)
	if !v.IsArray() {
		return nil
	}
	return v.Array()
}

func stringAt(r gjson.Result, path string) string {
	if !r.IsObject() {
		return ""
	}
	v := r.Get(path)
	if v.Type != gjson.String {
		return ""
	}
	return v.Str
}

// scalarString renders strings, numbers and booleans; objects, arrays and
// null render as "".
func scalarString(r gjson.Result) string {
	switch r.Type {
	case gjson.String, gjson.Number, gjson.True, gjson.False:
		return r.String()
	}
	return ""
}
