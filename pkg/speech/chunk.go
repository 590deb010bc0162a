package speech

import (
	"strings"
	"unicode/utf8"
)

// Split breaks text into chunks of at most limit runes. Whole sentences are
// kept together when they fit; longer sentences break between words, and a
// single word longer than limit is cut.
func Split(text string, limit int) []string {
	if limit <= 0 {
		limit = 100
	}

	var chunks []string
	var cur strings.Builder
	curLen := 0

	flush := func() {
		if curLen > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curLen = 0
		}
	}

	add := func(piece string, n int) {
		if curLen > 0 && curLen+1+n > limit {
			flush()
		}
		if curLen > 0 {
			cur.WriteByte(' ')
			curLen++
		}
		cur.WriteString(piece)
		curLen += n
	}

	for _, sentence := range sentences(text) {
		n := utf8.RuneCountInString(sentence)
		if n <= limit {
			add(sentence, n)
			continue
		}

		for _, word := range strings.Fields(sentence) {
			for utf8.RuneCountInString(word) > limit {
				flush()
				head, tail := cut(word, limit)
				chunks = append(chunks, head)
				word = tail
			}
			add(word, utf8.RuneCountInString(word))
		}
	}
	flush()

	return chunks
}

func sentences(text string) []string {
	words := strings.Fields(text)

	var out []string
	start := 0
	for i, w := range words {
		if strings.ContainsAny(w[len(w)-1:], ".!?") || i == len(words)-1 {
			out = append(out, strings.Join(words[start:i+1], " "))
			start = i + 1
		}
	}
	return out
}

func cut(word string, limit int) (string, string) {
	i := 0
	for pos := range word {
		if i == limit {
			return word[:pos], word[pos:]
		}
		i++
	}
	return word, ""
}
