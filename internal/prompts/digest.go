package prompts

import "strings"

// DigestContextLimit is how many characters of a result ground its spoken digest.
const DigestContextLimit = 1000

// Digest builds the prompt for a short spoken summary of text. Only the
// first DigestContextLimit characters are included.
func Digest(text string) string {
	var sb strings.Builder
	sb.WriteString("Summarize the following marketing content in 3-4 conversational sentences ")
	sb.WriteString("suitable for being read aloud. Use plain spoken language with no headings, ")
	sb.WriteString("lists, or markdown.\n\nContent:\n")
	sb.WriteString(Truncate(text, DigestContextLimit))
	return sb.String()
}

// Truncate returns at most limit characters (runes) of text.
func Truncate(text string, limit int) string {
	n := 0
	for i := range text {
		if n == limit {
			return text[:i]
		}
		n++
	}
	return text
}
