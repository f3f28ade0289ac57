package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// ProgressReporter reports progress for long-running operations.
type ProgressReporter interface {
	Start(total time.Duration)
	Update(calls, admitted int64)
	Finish()
	Error(err error)
}

// BenchProgress implements a text-based progress reporter for timed load
// runs. The bar tracks elapsed time against the configured duration while
// the counters track admission results.
type BenchProgress struct {
	mu       sync.Mutex
	total    time.Duration
	calls    int64
	admitted int64
	started  time.Time
	writer   io.Writer
}

// NewProgressReporter creates a new progress reporter that writes to w.
// If w is nil, it defaults to os.Stdout.
func NewProgressReporter(w io.Writer) ProgressReporter {
	if w == nil {
		w = os.Stdout
	}
	return &BenchProgress{
		writer: w,
	}
}

// Start initializes the progress reporter with the run duration.
func (p *BenchProgress) Start(total time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
	p.calls = 0
	p.admitted = 0
	p.started = time.Now()

	p.render()
}

// Update updates the call counters.
func (p *BenchProgress) Update(calls, admitted int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls = calls
	p.admitted = admitted
	p.render()
}

// Finish marks the run as complete and prints the summary line.
func (p *BenchProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := time.Since(p.started)
	if p.total > 0 && elapsed > p.total {
		elapsed = p.total
	}
	rate := float64(p.calls) / elapsed.Seconds()

	fmt.Fprintf(p.writer, "\rCompleted: %d calls, %d admitted, %d rejected in %.1fs (%.1f call/s)\n",
		p.calls, p.admitted, p.calls-p.admitted, elapsed.Seconds(), rate)
}

// Error reports an error during the run.
func (p *BenchProgress) Error(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.writer, "\n✗ Error: %v\n", err)
}

func (p *BenchProgress) render() {
	if p.total <= 0 {
		return
	}

	elapsed := time.Since(p.started)
	fraction := float64(elapsed) / float64(p.total)
	if fraction > 1 {
		fraction = 1
	}

	barWidth := 40
	filled := int(float64(barWidth) * fraction)

	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	rate := float64(p.calls) / elapsed.Seconds()

	fmt.Fprintf(p.writer, "\rProgress: [%s] %.1f%% %d calls, %d admitted (%.1f call/s)",
		bar, fraction*100, p.calls, p.admitted, rate)
}
