package pipeline

import (
	"strconv"
	"strings"
)

// Runner is the code-runner data attached to one code cell.
type Runner struct {
	Challenge string
	Code      string
	RunnerID  string
	Language  string
}

// RunnerLookup finds the runner for a code-cell ordinal (0-based, counted
// over code cells only).
type RunnerLookup interface {
	Lookup(ordinal int) (Runner, bool)
}

// Runners is a map-backed RunnerLookup.
type Runners map[int]Runner

// Lookup implements RunnerLookup.
func (r Runners) Lookup(ordinal int) (Runner, bool) {
	runner, ok := r[ordinal]
	return runner, ok
}

// Submit requests the trailing lesson submit button.
type Submit struct {
	LessonKey string
}

// InjectStats describes one injection pass.
type InjectStats struct {
	CodeBlocks int // fenced blocks seen
	Runners    int // blocks replaced by a code runner
}

// InjectRunners replaces the fenced blocks of runner cells with capture
// blocks and a code-runner include, and appends the submit button when
// submit is non-nil.
//
// The Nth fenced block is matched to code-cell ordinal N. Blocks without a
// runner, including blocks past the last code cell, are copied unchanged.
func InjectRunners(markdown string, runners RunnerLookup, submit *Submit) string {
	out, _ := InjectRunnersStats(markdown, runners, submit)
	return out
}

// InjectRunnersStats is InjectRunners, also reporting what it saw.
func InjectRunnersStats(markdown string, runners RunnerLookup, submit *Submit) (string, InjectStats) {
	if runners == nil {
		runners = Runners(nil)
	}

	lines := strings.Split(markdown, "\n")
	result := make([]string, 0, len(lines))

	var (
		stats   InjectStats
		inBlock bool
		block   []string
	)

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, Fence) && !inBlock:
			inBlock = true
			block = []string{line}
		case strings.HasPrefix(line, Fence):
			inBlock = false
			block = append(block, line)

			if runner, ok := runners.Lookup(stats.CodeBlocks); ok {
				result = appendRunner(result, stats.Runners, runner, block)
				stats.Runners++
			} else {
				result = append(result, block...)
			}
			stats.CodeBlocks++
			block = nil
		case inBlock:
			block = append(block, line)
		default:
			result = append(result, line)
		}
	}

	// Unterminated fence: keep what the exporter produced.
	if inBlock {
		result = append(result, block...)
	}

	if submit != nil {
		result = append(result,
			"",
			`{% include lesson-submit-button.html lesson_key="`+submit.LessonKey+`" %}`,
			"",
		)
	}

	return strings.Join(result, "\n"), stats
}

// appendRunner emits the three named captures and the include for runner n.
func appendRunner(result []string, n int, runner Runner, block []string) []string {
	idx := strconv.Itoa(n)
	challenge, code, source := "challenge"+idx, "code"+idx, "source"+idx

	result = append(result,
		"",
		"{% capture "+challenge+" %}",
		runner.Challenge,
		"{% endcapture %}",
		"",
		"{% capture "+code+" %}",
		runner.Code,
		"{% endcapture %}",
		"",
		"{% capture "+source+" %}",
	)
	result = append(result, block...)
	return append(result,
		"{% endcapture %}",
		"",
		`{% include code-runner.html runner_id="`+runner.RunnerID+`" language="`+runner.Language+
			`" challenge=`+challenge+` code=`+code+` source=`+source+` %}`,
		"",
	)
}
