// Package filter parses blocks of AI-generated text into discrete
// candidate commands and partitions them into safe and unsafe buckets.
// Only the safe subset is ever handed to the executor.
package filter

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/cmdgate/internal/classify"
	"github.com/doeshing/cmdgate/internal/domain"
	"github.com/doeshing/cmdgate/internal/ports"
	"github.com/doeshing/cmdgate/internal/sanitize"
)

// DefaultCapacity bounds the processing history, matching the monitor
// ledger.
const DefaultCapacity = 10000

// Filter classifies extracted candidates via the sanitizer and keeps
// running processing statistics.
type Filter struct {
	sanitizer  *sanitize.Sanitizer
	classifier *classify.Classifier
	log        ports.Logger

	seq      uint64
	mu       sync.Mutex
	history  []domain.ProcessingRecord
	stats    domain.FilterStatistics
	capacity int
}

// New builds a filter with the default history capacity.
func New(s *sanitize.Sanitizer, c *classify.Classifier, log ports.Logger) *Filter {
	return &Filter{
		sanitizer:  s,
		classifier: c,
		log:        log,
		capacity:   DefaultCapacity,
		stats: domain.FilterStatistics{
			ByCategory:  make(map[domain.Category]int),
			ByRiskLevel: make(map[domain.RiskLevel]int),
		},
	}
}

// Process extracts candidate commands from one AI response, validates
// each and partitions them. A command lands in the safe bucket only
// when validation finds nothing wrong with it.
func (f *Filter) Process(text string) domain.FilteredCommands {
	candidates := f.extract(text)

	result := domain.FilteredCommands{
		ExtractedCommands: candidates,
	}
	var processed []domain.ProcessedCommand
	for _, candidate := range candidates {
		validation := f.sanitizer.Validate(candidate)
		cmd := domain.ProcessedCommand{
			Original:  candidate,
			Sanitized: validation.SanitizedText,
			Issues:    validation.Issues,
			Category:  f.classifier.Category(validation.SanitizedText),
			RiskLevel: f.classifier.Risk(validation.SanitizedText),
		}
		processed = append(processed, cmd)
		if validation.IsValid {
			result.SafeCommands = append(result.SafeCommands, cmd)
		} else {
			result.UnsafeCommands = append(result.UnsafeCommands, cmd)
		}
	}

	f.mu.Lock()
	f.stats.ResponsesProcessed++
	f.stats.CommandsExtracted += len(candidates)
	f.stats.SafeCommands += len(result.SafeCommands)
	f.stats.UnsafeCommands += len(result.UnsafeCommands)
	for _, cmd := range processed {
		f.stats.ByCategory[cmd.Category]++
		f.stats.ByRiskLevel[cmd.RiskLevel]++
	}
	f.history = append(f.history, domain.ProcessingRecord{
		ID:             f.nextID(),
		Timestamp:      time.Now(),
		ResponseLength: len(text),
		Extracted:      len(candidates),
		Safe:           len(result.SafeCommands),
		Unsafe:         len(result.UnsafeCommands),
	})
	if len(f.history) > f.capacity {
		f.history = f.history[len(f.history)-f.capacity:]
	}
	result.Statistics = copyStats(f.stats)
	f.mu.Unlock()

	f.log.Debug("ai response filtered", map[string]interface{}{
		"extracted": len(candidates),
		"safe":      len(result.SafeCommands),
		"unsafe":    len(result.UnsafeCommands),
	})
	return result
}

// History returns up to limit processing records, newest first.
func (f *Filter) History(limit int) []domain.ProcessingRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.ProcessingRecord
	for i := len(f.history) - 1; i >= 0; i-- {
		out = append(out, f.history[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// Statistics returns a copy of the running counters.
func (f *Filter) Statistics() domain.FilterStatistics {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyStats(f.stats)
}

// Clear resets the processing history and counters.
func (f *Filter) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.history = nil
	f.stats = domain.FilterStatistics{
		ByCategory:  make(map[domain.Category]int),
		ByRiskLevel: make(map[domain.RiskLevel]int),
	}
}

func (f *Filter) nextID() string {
	n := atomic.AddUint64(&f.seq, 1)
	return fmt.Sprintf("proc-%06d-%s", n, uuid.NewString()[:8])
}

func copyStats(stats domain.FilterStatistics) domain.FilterStatistics {
	out := stats
	out.ByCategory = make(map[domain.Category]int, len(stats.ByCategory))
	for k, v := range stats.ByCategory {
		out.ByCategory[k] = v
	}
	out.ByRiskLevel = make(map[domain.RiskLevel]int, len(stats.ByRiskLevel))
	for k, v := range stats.ByRiskLevel {
		out.ByRiskLevel[k] = v
	}
	return out
}
