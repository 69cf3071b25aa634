package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	TagNegation = "Negation"
	TagContrast = "Mixed/Contrast"
	TagLongText = "Long Text"
	TagSimple   = "Simple"
)

const longTextThreshold = 150

var (
	negationPattern = regexp.MustCompile(`\b(not|no|never|n't|cannot)\b`)
	contrastPattern = regexp.MustCompile(`\b(but|however|although|though|while)\b`)
)

// DetectComplexityTags labels a sample by linguistic difficulty. A sample can
// carry several tags; one with none of the markers is tagged Simple.
func DetectComplexityTags(text string) []string {
	var tags []string
	lower := strings.ToLower(text)

	if negationPattern.MatchString(lower) {
		tags = append(tags, TagNegation)
	}
	if contrastPattern.MatchString(lower) {
		tags = append(tags, TagContrast)
	}
	if utf8.RuneCountInString(text) > longTextThreshold {
		tags = append(tags, TagLongText)
	}
	if len(tags) == 0 {
		tags = append(tags, TagSimple)
	}
	return tags
}
