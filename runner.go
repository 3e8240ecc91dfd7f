package nb2md

import (
	"slices"
	"strconv"
	"strings"

	"github.com/alnah/go-nb2md/internal/notebook"
	"github.com/alnah/go-nb2md/internal/pipeline"
)

// UnknownLessonKey is the lesson key used when a page has no permalink.
const UnknownLessonKey = "unknown-lesson"

// RunnerMetadata is what the page template needs to render a code runner.
type RunnerMetadata struct {
	Challenge string
	Language  string
	RunnerID  string
	Code      string // cleaned source shown in the runner
}

// RunnerTable maps code-cell ordinals to the runner built for that cell.
// Ordinals are 0-based and counted over code cells only, which is how the
// injector counts fenced blocks in the exported markdown.
type RunnerTable struct {
	runners   map[int]RunnerMetadata
	codeCells int
}

// PrepareRunners classifies every code cell, builds runner metadata for the
// cells carrying a challenge marker and clears their outputs.
// Runner ids are numbered over runner cells only.
func PrepareRunners(cells []*notebook.Cell, permalink string) *RunnerTable {
	table := &RunnerTable{runners: make(map[int]RunnerMetadata)}

	for _, cell := range cells {
		if !cell.IsCode() {
			continue
		}
		ordinal := table.codeCells
		table.codeCells++

		lang := notebook.Classify(cell.Source)
		challenge, ok := notebook.ExtractChallenge(cell.Source, lang)
		if !ok {
			continue
		}

		table.runners[ordinal] = RunnerMetadata{
			Challenge: challenge,
			Language:  string(lang),
			RunnerID:  RunnerID(permalink, len(table.runners)),
			Code:      notebook.CleanCode(cell.Source, lang),
		}
		cell.ClearOutputs()
	}
	return table
}

// Len returns the number of runners.
func (t *RunnerTable) Len() int {
	return len(t.runners)
}

// CodeCells returns the number of code cells seen.
func (t *RunnerTable) CodeCells() int {
	return t.codeCells
}

// Lookup returns the runner for a code-cell ordinal.
func (t *RunnerTable) Lookup(ordinal int) (RunnerMetadata, bool) {
	r, ok := t.runners[ordinal]
	return r, ok
}

// Ordinals returns the code-cell ordinals that have a runner, ascending.
func (t *RunnerTable) Ordinals() []int {
	ordinals := make([]int, 0, len(t.runners))
	for o := range t.runners {
		ordinals = append(ordinals, o)
	}
	slices.Sort(ordinals)
	return ordinals
}

// RunnerID builds the id of the nth runner of a page.
// "/csa/frqs/2019/3", 0 gives "csa-frqs-2019-3-0".
func RunnerID(permalink string, n int) string {
	return slug(permalink) + "-" + strconv.Itoa(n)
}

// LessonKey builds the key identifying a page to the submit button.
func LessonKey(permalink string) string {
	if permalink == "" {
		return UnknownLessonKey
	}
	return slug(permalink)
}

func slug(permalink string) string {
	return strings.ReplaceAll(strings.Trim(permalink, "/"), "/", "-")
}

// toPipelineRunners converts the table to the injector's lookup.
func toPipelineRunners(t *RunnerTable) pipeline.Runners {
	runners := make(pipeline.Runners, len(t.runners))
	for ordinal, r := range t.runners {
		runners[ordinal] = pipeline.Runner{
			Challenge: r.Challenge,
			Code:      r.Code,
			RunnerID:  r.RunnerID,
			Language:  r.Language,
		}
	}
	return runners
}
