// Package probe runs the preflight checks that gate mission startup.
package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// checkTimeout bounds a single check so a wedged dependency cannot
// stall startup indefinitely.
const checkTimeout = 5 * time.Second

// CheckFunc performs one preflight check. A nil return means the
// simulation may rely on the checked component.
type CheckFunc func(ctx context.Context) error

// Probe is a named preflight check. Critical failures keep the
// application on the ground; non-critical ones are logged and waved
// through.
type Probe struct {
	Name     string
	Check    CheckFunc
	Critical bool
}

// Result is the outcome of one check.
type Result struct {
	Name     string
	Critical bool
	Err      error
	Elapsed  time.Duration
}

// RunAll executes the checks in order, each bounded by its own
// timeout, logging every outcome before returning. A nil log falls
// back to the default logger.
func RunAll(ctx context.Context, log *slog.Logger, probes []Probe) []Result {
	if log == nil {
		log = slog.Default()
	}

	results := make([]Result, len(probes))
	for i, p := range probes {
		start := time.Now()
		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := p.Check(checkCtx)
		cancel()

		r := Result{
			Name:     p.Name,
			Critical: p.Critical,
			Err:      err,
			Elapsed:  time.Since(start),
		}
		results[i] = r

		if err != nil {
			log.Error("preflight check failed",
				"check", r.Name,
				"critical", r.Critical,
				"elapsed", r.Elapsed.Round(time.Millisecond),
				"error", err)
		} else {
			log.Info("preflight check passed",
				"check", r.Name,
				"elapsed", r.Elapsed.Round(time.Millisecond))
		}
	}
	return results
}

// Verdict joins the errors of failed critical checks. A nil return
// means startup may proceed.
func Verdict(results []Result) error {
	var failures []error
	for _, r := range results {
		if r.Err != nil && r.Critical {
			failures = append(failures, fmt.Errorf("%s: %w", r.Name, r.Err))
		}
	}
	return errors.Join(failures...)
}
