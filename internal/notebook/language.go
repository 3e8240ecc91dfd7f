package notebook

import (
	"regexp"
	"strings"
)

// Language is the source language of a code cell.
type Language string

// Supported code-runner languages.
const (
	Python     Language = "python"
	JavaScript Language = "javascript"
	Java       Language = "java"
)

// Cell magics understood by the classifier and the cleaner.
const (
	// JSMagic switches a cell of a Python kernel to JavaScript.
	JSMagic = "%%js"

	// MagicPrefix starts any cell magic line.
	MagicPrefix = "%%"
)

// javaMainCall matches the IJava idiom that runs a class from a cell, e.g. "Main.main(null);".
var javaMainCall = regexp.MustCompile(`^\w+\.main\s*\(\s*null\s*\)\s*;?\s*$`)

// Classify returns the language of a code cell's source.
// The %%js magic on the first line wins over a trailing Java main call;
// anything else is Python.
func Classify(source string) Language {
	lines := strings.Split(source, "\n")

	if strings.HasPrefix(strings.TrimSpace(lines[0]), JSMagic) {
		return JavaScript
	}

	if i := lastContentLine(lines); i >= 0 && javaMainCall.MatchString(strings.TrimSpace(lines[i])) {
		return Java
	}

	return Python
}

// lastContentLine returns the index of the last non-blank line, or -1.
func lastContentLine(lines []string) int {
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			return i
		}
	}
	return -1
}
