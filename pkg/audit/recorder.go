package audit

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// writeTimeout bounds each background insert so a wedged database cannot
// stall the drain goroutine forever.
const writeTimeout = 5 * time.Second

// Recorder accepts call records from request handlers and writes them to
// the store in the background. Record never blocks: when the buffer is full
// the record is dropped and counted.
type Recorder struct {
	store   *Store
	records chan *Call
	dropped atomic.Int64
	wg      sync.WaitGroup
	done    chan struct{}
	closed  sync.Once
	logger  *slog.Logger
}

// NewRecorder starts a recorder draining into store. bufferSize bounds the
// number of records queued ahead of the writer.
func NewRecorder(store *Store, bufferSize int, logger *slog.Logger) *Recorder {
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := &Recorder{
		store:   store,
		records: make(chan *Call, bufferSize),
		done:    make(chan struct{}),
		logger:  logger.With("component", "audit.recorder"),
	}

	r.wg.Add(1)
	go r.drain()

	r.logger.Info("audit recorder started", "buffer_size", bufferSize)
	return r
}

// Record enqueues one call record. Missing ID and CreatedAt fields are
// filled in. Returns false if the record was dropped because the buffer is
// full or the recorder is closed.
func (r *Recorder) Record(call *Call) bool {
	if call.ID == "" {
		call.ID = uuid.NewString()
	}
	if call.CreatedAt.IsZero() {
		call.CreatedAt = time.Now()
	}

	select {
	case <-r.done:
		return false
	default:
	}

	select {
	case r.records <- call:
		return true
	default:
		dropped := r.dropped.Add(1)
		if dropped%100 == 1 {
			r.logger.Warn("audit buffer full, dropping records", "dropped_total", dropped)
		}
		return false
	}
}

// Dropped reports how many records have been dropped since start.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Close stops accepting records, flushes the queue, and waits for the
// writer to finish. Safe to call more than once.
func (r *Recorder) Close() error {
	r.closed.Do(func() { close(r.done) })
	r.wg.Wait()
	return nil
}

// drain writes queued records until Close, then flushes what remains.
func (r *Recorder) drain() {
	defer r.wg.Done()
	for {
		select {
		case call := <-r.records:
			r.write(call)
		case <-r.done:
			for {
				select {
				case call := <-r.records:
					r.write(call)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(call *Call) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := r.store.Insert(ctx, call); err != nil {
		r.logger.Error("failed to write audit record",
			"error", err,
			"service", call.Service,
			"request_id", call.RequestID,
		)
	}
}
