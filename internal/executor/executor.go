// Package executor runs sanitized commands under timeout and retry
// control and keeps a bounded ledger of every attempt.
package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/cmdgate/internal/classify"
	"github.com/doeshing/cmdgate/internal/domain"
	"github.com/doeshing/cmdgate/internal/ports"
	"github.com/doeshing/cmdgate/internal/sanitize"
)

// DefaultCapacity bounds the execution ledger.
const DefaultCapacity = 1000

// Executor drives the Pending -> {Succeeded | Failed | TimedOut}
// lifecycle for each attempt. Execute never returns an error: every
// outcome, including validation refusals and timeouts, surfaces as a
// populated ExecutionRecord.
type Executor struct {
	runner     ports.CommandRunner
	sanitizer  *sanitize.Sanitizer
	classifier *classify.Classifier
	log        ports.Logger

	seq      uint64
	mu       sync.Mutex
	ledger   []domain.ExecutionRecord
	capacity int
}

// New builds an executor with the default ledger capacity.
func New(runner ports.CommandRunner, s *sanitize.Sanitizer, c *classify.Classifier, log ports.Logger) *Executor {
	return &Executor{
		runner:     runner,
		sanitizer:  s,
		classifier: c,
		log:        log,
		capacity:   DefaultCapacity,
	}
}

// Execute runs one command under the options' timeout, retrying
// non-timeout failures when configured. Only the final attempt's
// record is logged to the ledger.
func (e *Executor) Execute(ctx context.Context, command string, opts domain.ExecOptions) domain.ExecutionRecord {
	if ctx == nil {
		ctx = context.Background()
	}
	opts = opts.Normalized()

	for {
		rec, retryable := e.attempt(ctx, command, opts)
		if !rec.Success && retryable && opts.RetryOnFailure && opts.MaxRetries > 0 {
			opts.MaxRetries--
			e.log.Warn("retrying failed command", map[string]interface{}{
				"command":         rec.SanitizedCommand,
				"error":           rec.Error,
				"retries_left":    opts.MaxRetries,
				"last_attempt_id": rec.ID,
			})
			continue
		}
		if !opts.NoLog {
			e.append(rec)
		}
		return rec
	}
}

// attempt performs exactly one sanitize/validate/run cycle. The second
// return value reports whether a retry would make sense: validation
// refusals and timeouts are never retried.
func (e *Executor) attempt(ctx context.Context, command string, opts domain.ExecOptions) (domain.ExecutionRecord, bool) {
	start := time.Now()
	sanitized := command
	var report *domain.SanitizationReport
	if !opts.NoSanitize {
		rep := e.sanitizer.Report(command)
		sanitized = rep.Sanitized
		report = &rep
	}

	rec := domain.ExecutionRecord{
		ID:               e.nextID(),
		Timestamp:        start,
		OriginalCommand:  command,
		SanitizedCommand: sanitized,
		Sanitization:     report,
		Category:         e.classifier.Category(sanitized),
		RiskLevel:        e.classifier.Risk(sanitized),
	}

	if !opts.NoValidate {
		result := e.sanitizer.Validate(sanitized)
		if !result.IsValid {
			rec.Error = "Command validation failed: " + strings.Join(result.Issues, ", ")
			rec.ExecutionTimeMS = time.Since(start).Milliseconds()
			return rec, false
		}
	}

	timeout := time.Duration(opts.TimeoutMS) * time.Millisecond
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		res domain.RunnerResult
		err error
	}
	// Buffered so a result arriving after the deadline is dropped,
	// never double-recorded.
	done := make(chan outcome, 1)
	go func() {
		res, err := e.runner.Run(cctx, sanitized)
		done <- outcome{res: res, err: err}
	}()

	select {
	case out := <-done:
		rec.ExecutionTimeMS = time.Since(start).Milliseconds()
		if out.err != nil {
			if errors.Is(out.err, context.DeadlineExceeded) {
				rec.TimeoutUsed = true
				rec.Error = fmt.Sprintf("Command timed out after %d ms", opts.TimeoutMS)
				return rec, false
			}
			rec.Error = out.err.Error()
			if stderr := strings.TrimSpace(out.res.Stderr); stderr != "" {
				rec.Error = rec.Error + ": " + stderr
			}
			return rec, true
		}
		rec.Success = true
		rec.Output = strings.TrimSpace(out.res.Stdout)
		return rec, false
	case <-cctx.Done():
		rec.ExecutionTimeMS = time.Since(start).Milliseconds()
		if errors.Is(cctx.Err(), context.DeadlineExceeded) {
			rec.TimeoutUsed = true
			rec.Error = fmt.Sprintf("Command timed out after %d ms", opts.TimeoutMS)
		} else {
			rec.Error = "execution canceled"
		}
		return rec, false
	}
}

// ExecuteAll runs commands sequentially, each starting only after the
// previous record was produced. It stops at the first failure unless
// retries are enabled.
func (e *Executor) ExecuteAll(ctx context.Context, commands []string, opts domain.ExecOptions) []domain.ExecutionRecord {
	var records []domain.ExecutionRecord
	for _, command := range commands {
		rec := e.Execute(ctx, command, opts)
		records = append(records, rec)
		if !rec.Success && !opts.RetryOnFailure {
			break
		}
	}
	return records
}

// ExecuteAllParallel fans all commands out concurrently and waits for
// every one. The returned slice matches input order regardless of
// completion order.
func (e *Executor) ExecuteAllParallel(ctx context.Context, commands []string, opts domain.ExecOptions) []domain.ExecutionRecord {
	records := make([]domain.ExecutionRecord, len(commands))
	var wg sync.WaitGroup
	for i, command := range commands {
		wg.Add(1)
		go func(i int, command string) {
			defer wg.Done()
			records[i] = e.Execute(ctx, command, opts)
		}(i, command)
	}
	wg.Wait()
	return records
}

// Stats aggregates the current ledger.
func (e *Executor) Stats() domain.ExecutionStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	stats := domain.ExecutionStats{
		Total:           len(e.ledger),
		LedgerOccupancy: len(e.ledger),
	}
	for _, rec := range e.ledger {
		if rec.Success {
			stats.Successes++
		} else {
			stats.Failures++
		}
		if rec.TimeoutUsed {
			stats.Timeouts++
		}
		stats.TotalTimeMS += rec.ExecutionTimeMS
	}
	if stats.Total > 0 {
		stats.SuccessRate = float64(stats.Successes) / float64(stats.Total) * 100.0
		stats.AverageTimeMS = float64(stats.TotalTimeMS) / float64(stats.Total)
	}
	return stats
}

// Recent returns up to limit records, newest first.
func (e *Executor) Recent(limit int) []domain.ExecutionRecord {
	return e.filtered(limit, func(domain.ExecutionRecord) bool { return true })
}

// Failed returns up to limit failed records, newest first.
func (e *Executor) Failed(limit int) []domain.ExecutionRecord {
	return e.filtered(limit, func(rec domain.ExecutionRecord) bool { return !rec.Success })
}

// TimedOut returns up to limit timed-out records, newest first.
func (e *Executor) TimedOut(limit int) []domain.ExecutionRecord {
	return e.filtered(limit, func(rec domain.ExecutionRecord) bool { return rec.TimeoutUsed })
}

// Reset clears the execution ledger.
func (e *Executor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ledger = nil
}

func (e *Executor) filtered(limit int, keep func(domain.ExecutionRecord) bool) []domain.ExecutionRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []domain.ExecutionRecord
	for i := len(e.ledger) - 1; i >= 0; i-- {
		if !keep(e.ledger[i]) {
			continue
		}
		out = append(out, e.ledger[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

func (e *Executor) append(rec domain.ExecutionRecord) {
	e.mu.Lock()
	e.ledger = append(e.ledger, rec)
	if len(e.ledger) > e.capacity {
		e.ledger = e.ledger[len(e.ledger)-e.capacity:]
	}
	e.mu.Unlock()

	e.log.Info("command executed", map[string]interface{}{
		"id":          rec.ID,
		"success":     rec.Success,
		"duration_ms": rec.ExecutionTimeMS,
		"timeout":     rec.TimeoutUsed,
		"category":    string(rec.Category),
		"risk":        string(rec.RiskLevel),
	})
}

func (e *Executor) nextID() string {
	n := atomic.AddUint64(&e.seq, 1)
	return fmt.Sprintf("exec-%06d-%s", n, uuid.NewString()[:8])
}
