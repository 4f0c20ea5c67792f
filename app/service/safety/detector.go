package safety

import (
	"strings"

	"github.com/samber/do"
)

// crisis keywords, matched case-insensitively against the
// whitespace-stripped utterance
var crisisKeywords = []string{
	"suicide",
	"hurt myself",
	"kill myself",
	"harm",
	"murder",
	"i don't want to live",
}

type Detector struct {
	keywords []string
}

func New(_ *do.Injector) (*Detector, error) {
	keywords := make([]string, 0, len(crisisKeywords))
	for _, k := range crisisKeywords {
		keywords = append(keywords, stripWhitespace(strings.ToLower(k)))
	}

	return &Detector{keywords: keywords}, nil
}

// Detect reports whether the utterance contains crisis language.
func (d *Detector) Detect(utterance string) bool {
	if utterance == "" {
		return false
	}

	normalized := stripWhitespace(strings.ToLower(utterance))

	for _, keyword := range d.keywords {
		if strings.Contains(normalized, keyword) {
			return true
		}
	}

	return false
}

func stripWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
