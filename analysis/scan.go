package analysis

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/AnTengye/lawassistant/model"
)

// ContextRadius is the number of characters kept on each side of a match
const ContextRadius = 50

// ScanPhrases finds every case-insensitive, literal occurrence of each
// phrase. Results are grouped by phrase in configuration order, then by
// position. Matches of one phrase never overlap each other; matches of
// different phrases are independent. Positions and context windows are
// measured in characters, not bytes.
func ScanPhrases(text string, phrases []string) []model.PhraseMatch {
	matches := []model.PhraseMatch{}
	if text == "" || len(phrases) == 0 {
		return matches
	}

	original := []rune(text)
	lowered := string(lowerRunes(original))

	for _, phrase := range phrases {
		needle := string(lowerRunes([]rune(phrase)))
		if needle == "" {
			continue
		}
		needleLen := utf8.RuneCountInString(needle)

		byteOffset, runeOffset := 0, 0
		for {
			idx := strings.Index(lowered[byteOffset:], needle)
			if idx < 0 {
				break
			}
			start := runeOffset + utf8.RuneCountInString(lowered[byteOffset:byteOffset+idx])
			end := start + needleLen

			matches = append(matches, model.PhraseMatch{
				Phrase:   phrase,
				Context:  contextWindow(original, start, end),
				Position: start,
			})

			byteOffset += idx + len(needle)
			runeOffset = end
		}
	}

	return matches
}

func contextWindow(text []rune, start, end int) string {
	lo := max(0, start-ContextRadius)
	hi := min(len(text), end+ContextRadius)
	return strings.TrimSpace(string(text[lo:hi]))
}

// lowerRunes maps each rune to lower case one-to-one, so rune offsets in
// the result line up with the input.
func lowerRunes(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToLower(r)
	}
	return out
}

func lowerString(s string) string {
	return string(lowerRunes([]rune(s)))
}
