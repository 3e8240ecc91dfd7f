package main

import (
	"runtime"

	"github.com/alnah/go-nb2md/internal/config"
)

// resolvePoolSize determines the number of batch workers.
// Priority: explicit value > GOMAXPROCS (adjusted by automaxprocs for containers).
// The result is kept between 1 and config.MaxWorkers.
func resolvePoolSize(workers int) int {
	n := workers
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}

	if n < 1 {
		return 1
	}
	if n > config.MaxWorkers {
		return config.MaxWorkers
	}
	return n
}
