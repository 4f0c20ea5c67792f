package prompt

import (
	"regexp"
	"strings"
)

// FallbackReply replaces model output that cleans down to nothing useful.
const FallbackReply = "I understand you're going through something difficult. Can you help me understand what you're feeling right now?"

const minReplyLength = 10

var (
	controlTagRe = regexp.MustCompile(`<\|.*?\|>`)
	newlineRunRe = regexp.MustCompile(`(\n)+`)

	// filler openers, matched case-sensitively on word boundaries
	fillerPhraseRe = regexp.MustCompile(`\b(I wish you|I hope that|I will)\b`)

	whitespaceRunRe = regexp.MustCompile(`\s+`)
)

// Clean scrubs raw model output into a user-facing reply. Never returns the
// raw text and never returns an empty string.
func (c *Composer) Clean(raw string) string {
	response := strings.ReplaceAll(raw, "\u00a0", " ")
	response = strings.TrimSpace(response)
	response = controlTagRe.ReplaceAllString(response, "")
	response = strings.ReplaceAll(response, "'", "")
	response = newlineRunRe.ReplaceAllString(response, "\n")
	response = fillerPhraseRe.ReplaceAllString(response, "")
	response = whitespaceRunRe.ReplaceAllString(response, " ")
	response = strings.TrimSpace(response)

	if len(response) < minReplyLength {
		return FallbackReply
	}

	return response
}
