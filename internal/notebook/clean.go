package notebook

import (
	"strings"
	"unicode"
)

// CleanCode returns the part of a cell that learners see and run: cell
// magics, CODE_RUNNER markers and, for Java, the trailing main(null) driver
// lines are removed, then surrounding blank lines are trimmed.
// CleanCode is idempotent.
func CleanCode(source string, lang Language) string {
	source = strings.ReplaceAll(source, "\r\n", "\n")

	var kept []string
	for _, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, JSMagic):
			continue
		case strings.HasPrefix(trimmed, MagicPrefix):
			continue
		case isChallengeMarker(line, lang):
			continue
		}
		kept = append(kept, line)
	}

	// Only the last non-blank line is a driver candidate; repeating keeps the result a fixed point.
	if lang == Java {
		for {
			i := lastContentLine(kept)
			if i < 0 || !javaMainCall.MatchString(strings.TrimSpace(kept[i])) {
				break
			}
			kept = append(kept[:i], kept[i+1:]...)
		}
	}

	return trimBlankLines(strings.Join(kept, "\n"))
}

// trimBlankLines strips trailing whitespace and blank leading lines,
// keeping the indentation of the first code line.
func trimBlankLines(s string) string {
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	for s != "" {
		line, rest, found := strings.Cut(s, "\n")
		if strings.TrimSpace(line) != "" {
			break
		}
		if !found {
			return ""
		}
		s = rest
	}
	return s
}
