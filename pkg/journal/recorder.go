package journal

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Config contains configuration for the journal recorder.
type Config struct {
	// Enabled enables decision recording. When false, Record is a no-op.
	Enabled bool

	// AsyncBuffer is the size of the async write channel buffer.
	// Default: 1024
	AsyncBuffer int

	// WriteTimeout is the timeout for writing a record to storage.
	// Default: 5 seconds
	WriteTimeout time.Duration
}

// DefaultConfig returns the default recorder configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		AsyncBuffer:  1024,
		WriteTimeout: 5 * time.Second,
	}
}

// Recorder writes admission decisions to storage asynchronously.
//
// Record enqueues onto a buffered channel drained by a single background
// worker. The admission path never waits on storage: when the buffer is
// full the record is dropped, counted, and logged instead of blocking.
type Recorder struct {
	storage    Storage
	config     *Config
	recordChan chan *Record
	wg         sync.WaitGroup
	done       chan struct{}
	closeOnce  sync.Once
	logger     *slog.Logger
	dropped    atomic.Int64
}

// NewRecorder creates a journal recorder writing to the given storage
// backend and starts its background worker.
func NewRecorder(storage Storage, config *Config) *Recorder {
	if config == nil {
		config = DefaultConfig()
	}
	if config.AsyncBuffer <= 0 {
		config.AsyncBuffer = 1024
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 5 * time.Second
	}

	r := &Recorder{
		storage:    storage,
		config:     config,
		recordChan: make(chan *Record, config.AsyncBuffer),
		done:       make(chan struct{}),
		logger:     slog.Default().With("component", "journal.recorder"),
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Info("journal recorder initialized",
		"enabled", config.Enabled,
		"async_buffer", config.AsyncBuffer,
		"write_timeout", config.WriteTimeout,
	)

	return r
}

// Record enqueues an admission decision for async writing.
//
// It assigns an ID and timestamp when the record carries none and returns
// immediately. A full buffer drops the record and returns ErrBufferFull;
// callers on the admission path are expected to ignore that error beyond
// logging it.
func (r *Recorder) Record(ctx context.Context, record *Record) error {
	if !r.config.Enabled {
		return nil
	}

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}

	select {
	case <-r.done:
		return ErrRecorderClosed
	default:
	}

	select {
	case r.recordChan <- record:
		return nil
	default:
		dropped := r.dropped.Add(1)
		r.logger.Warn("journal buffer full, dropping record",
			"record_id", record.ID,
			"resource", record.Resource,
			"dropped_total", dropped,
		)
		return ErrBufferFull
	}
}

// Dropped returns how many records have been dropped due to a full buffer.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Close shuts down the recorder, draining the buffer and waiting for all
// pending writes to complete. It does not close the storage backend.
func (r *Recorder) Close() error {
	r.closeOnce.Do(func() {
		r.logger.Info("shutting down journal recorder")
		close(r.done)
		r.wg.Wait()
		r.logger.Info("journal recorder shut down",
			"dropped_total", r.dropped.Load(),
		)
	})
	return nil
}

// worker drains the record channel and writes records to storage.
func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case record := <-r.recordChan:
			r.writeRecord(record)

		case <-r.done:
			// Drain remaining records before exit
			for {
				select {
				case record := <-r.recordChan:
					r.writeRecord(record)
				default:
					return
				}
			}
		}
	}
}

// writeRecord writes a single record to storage.
func (r *Recorder) writeRecord(record *Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	start := time.Now()

	if err := r.storage.Store(ctx, record); err != nil {
		r.logger.Error("failed to store journal record",
			"record_id", record.ID,
			"resource", record.Resource,
			"error", err,
		)
		return
	}

	duration := time.Since(start)

	r.logger.Debug("decision recorded",
		"record_id", record.ID,
		"resource", record.Resource,
		"decision", record.Decision,
	)

	if duration > r.config.WriteTimeout/2 {
		r.logger.Warn("slow journal write",
			"record_id", record.ID,
			"duration_ms", duration.Milliseconds(),
			"threshold_ms", (r.config.WriteTimeout / 2).Milliseconds(),
		)
	}
}
