package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tbp-ucsd/membership-api/internal/api/metrics"
	"github.com/tbp-ucsd/membership-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// Dispatcher writes audit entries asynchronously. Entries are routed to a
// fixed set of workers by consistent hashing on the account (or email), so
// entries about one account are written in order.
//
// Record never blocks: when a worker's buffer is full the entry is dropped
// and logged.
type Dispatcher struct {
	workers []chan ports.AuditEntry
	repo    ports.AuditRepository
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.AuditEntry, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.AuditEntry, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers drain their buffers and stop
// when ctx is cancelled; Wait blocks until they have.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has stopped.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Record enqueues an entry for the worker responsible for its account.
func (d *Dispatcher) Record(entry ports.AuditEntry) {
	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}

	idx := d.shardIndex(shardKey(entry))
	select {
	case d.workers[idx] <- entry:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.AuditWritesTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().
			Str("action", entry.Action).
			Str("account_id", entry.AccountID).
			Int("worker_id", idx).
			Msg("audit queue full, entry dropped")
	}
}

func shardKey(e ports.AuditEntry) string {
	if e.AccountID != "" {
		return e.AccountID
	}
	return e.Email
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.AuditEntry) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case entry := <-ch:
			d.write(context.WithoutCancel(ctx), id, entry)
		}
	}
}

// drain writes whatever is still buffered after shutdown was requested.
func (d *Dispatcher) drain(id int, ch <-chan ports.AuditEntry) {
	for {
		select {
		case entry := <-ch:
			d.write(context.Background(), id, entry)
		default:
			return
		}
	}
}

func (d *Dispatcher) write(ctx context.Context, id int, entry ports.AuditEntry) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	start := time.Now()
	err := d.repo.Insert(ctx, entry)
	metrics.AuditWriteDuration.Observe(time.Since(start).Seconds())
	metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(d.workers[id])))

	if err != nil {
		metrics.AuditWritesTotal.WithLabelValues("error").Inc()
		d.log.Error().Err(err).
			Str("action", entry.Action).
			Str("account_id", entry.AccountID).
			Int("worker_id", id).
			Msg("audit write failed")
		return
	}
	metrics.AuditWritesTotal.WithLabelValues("ok").Inc()
}
