package notebook

import (
	"regexp"
	"strings"
)

// challengeMarkers holds the single-line marker comment per language.
var challengeMarkers = map[Language]*regexp.Regexp{
	Python:     regexp.MustCompile(`(?i)^#\s*CODE_RUNNER:\s*(.+)$`),
	JavaScript: regexp.MustCompile(`(?i)^//\s*CODE_RUNNER:\s*(.+)$`),
	Java:       regexp.MustCompile(`(?i)^//\s*CODE_RUNNER:\s*(.+)$`),
}

// ExtractChallenge returns the text of the first CODE_RUNNER marker comment
// in source, written with the comment token of lang.
func ExtractChallenge(source string, lang Language) (string, bool) {
	marker, ok := challengeMarkers[lang]
	if !ok {
		return "", false
	}

	for _, line := range strings.Split(source, "\n") {
		if m := marker.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}

// isChallengeMarker reports whether line is a marker comment for lang.
func isChallengeMarker(line string, lang Language) bool {
	marker, ok := challengeMarkers[lang]
	return ok && marker.MatchString(strings.TrimSpace(line))
}
