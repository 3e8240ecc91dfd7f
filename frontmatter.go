package nb2md

import (
	"fmt"
	"strings"

	"github.com/alnah/go-nb2md/internal/notebook"
	"github.com/alnah/go-nb2md/internal/yamlutil"
)

// FrontMatterDelimiter opens and closes a front matter block.
const FrontMatterDelimiter = "---"

// Front matter keys read by the converter.
const (
	KeyPermalink       = "permalink"
	KeyChallengeSubmit = "challenge_submit"
)

// FrontMatter is the metadata block of a page. Keys keep the order they had
// in the notebook so the rewritten block reads like the original.
type FrontMatter struct {
	items yamlutil.MapSlice
}

// ExtractFrontMatter parses the front matter held by the first cell of a
// notebook. A cell that does not start with the delimiter yields an empty
// FrontMatter. Text that is not a YAML mapping returns ErrFrontMatterParse.
func ExtractFrontMatter(cell *notebook.Cell) (FrontMatter, error) {
	if !hasFrontMatter(cell) {
		return FrontMatter{}, nil
	}

	parts := strings.SplitN(cell.Source, FrontMatterDelimiter, 3)
	if strings.TrimSpace(parts[1]) == "" {
		return FrontMatter{}, nil
	}
	items, err := yamlutil.UnmarshalMapping([]byte(parts[1]))
	if err != nil {
		return FrontMatter{}, fmt.Errorf("%w: %w", ErrFrontMatterParse, err)
	}
	return FrontMatter{items: items}, nil
}

func hasFrontMatter(cell *notebook.Cell) bool {
	return cell != nil && strings.HasPrefix(cell.Source, FrontMatterDelimiter)
}

// Len returns the number of top-level keys.
func (fm FrontMatter) Len() int {
	return len(fm.items)
}

// Get returns the value stored under key.
func (fm FrontMatter) Get(key string) (any, bool) {
	for _, item := range fm.items {
		if k, ok := item.Key.(string); ok && k == key {
			return item.Value, true
		}
	}
	return nil, false
}

// Keys returns the top-level keys in document order.
func (fm FrontMatter) Keys() []string {
	keys := make([]string, 0, len(fm.items))
	for _, item := range fm.items {
		keys = append(keys, fmt.Sprint(item.Key))
	}
	return keys
}

// Permalink returns the page permalink, or "" when unset.
func (fm FrontMatter) Permalink() string {
	v, ok := fm.Get(KeyPermalink)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// ChallengeSubmit reports whether the page asks for a lesson submit button.
func (fm FrontMatter) ChallengeSubmit() bool {
	v, ok := fm.Get(KeyChallengeSubmit)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "on", "1":
			return true
		}
	}
	return false
}

// Marshal renders the block prepended to the converted page, delimiters
// and trailing blank line included.
func (fm FrontMatter) Marshal() (string, error) {
	var body string
	if len(fm.items) > 0 {
		out, err := yamlutil.Marshal(fm.items)
		if err != nil {
			return "", fmt.Errorf("serializing front matter: %w", err)
		}
		body = strings.TrimRight(string(out), "\n")
	}
	return FrontMatterDelimiter + "\n" + body + "\n" + FrontMatterDelimiter + "\n\n", nil
}
