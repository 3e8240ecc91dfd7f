package main

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Cleaned    bool // a stale output was removed after the failure
	Err        error
	Duration   time.Duration
}

// convertBatch converts files concurrently with the given number of workers.
// Results keep the order of files. Once ctx is done, remaining files are
// marked with the context error.
func convertBatch(ctx context.Context, conv fileConverter, files []string, workers int, now func() time.Time) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := workers
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > len(files) {
		concurrency = len(files)
	}

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx],
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertOne(ctx, conv, files[idx], now)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertOne converts a single file and returns the result.
func convertOne(ctx context.Context, conv fileConverter, path string, now func() time.Time) ConversionResult {
	start := now()
	result := ConversionResult{InputPath: path}

	fr, err := conv.ConvertFile(ctx, path)
	if fr != nil {
		result.OutputPath = fr.Destination
		result.Cleaned = fr.Cleaned
	}
	result.Err = err
	result.Duration = now().Sub(start)
	return result
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResultsWithWriter outputs conversion results using the provided writers.
// Returns the number of failures.
func printResultsWithWriter(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			if verbose && r.Cleaned {
				fmt.Fprintf(env.Stderr, "  removed %s\n", r.OutputPath)
			}
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
