package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/massage-portal/client-portal/internal/api/metrics"
	"github.com/massage-portal/client-portal/internal/core/domain"
	"github.com/massage-portal/client-portal/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes activity events to a fixed set of workers using
// consistent hashing on the account key, so one account's events are
// persisted in the order they were recorded.
type Dispatcher struct {
	workers []chan domain.ActivityEvent
	service ports.ActivityService
	log     zerolog.Logger
	done    chan struct{}
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.ActivityService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.ActivityEvent, numWorkers),
		service: service,
		log:     log,
		done:    make(chan struct{}),
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.ActivityEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers drain what is already
// queued and stop when ctx is cancelled; Done is closed once all have exited.
func (d *Dispatcher) Start(ctx context.Context) {
	exited := make(chan struct{}, len(d.workers))
	for i, ch := range d.workers {
		i, ch := i, ch
		go func() {
			d.runWorker(ctx, i, ch)
			exited <- struct{}{}
		}()
	}
	go func() {
		for range d.workers {
			<-exited
		}
		close(d.done)
	}()
}

// Done is closed after every worker has stopped.
func (d *Dispatcher) Done() <-chan struct{} { return d.done }

// Record enqueues event without blocking. When the worker queue is full the
// event is dropped and counted.
func (d *Dispatcher) Record(event domain.ActivityEvent) {
	idx := d.shardIndex(event.Key())
	select {
	case d.workers[idx] <- event:
		metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.ActivityDroppedTotal.Inc()
		d.log.Warn().
			Str("type", string(event.Type)).
			Str("user_id", event.UserID).
			Int("worker_id", idx).
			Msg("activity queue full, event dropped")
	}
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.ActivityEvent) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case event := <-ch:
			d.process(context.WithoutCancel(ctx), id, event)
			metrics.ActivityQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
		}
	}
}

// drain persists events still buffered at shutdown.
func (d *Dispatcher) drain(id int, ch <-chan domain.ActivityEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case event := <-ch:
			d.process(ctx, id, event)
		default:
			return
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, id int, event domain.ActivityEvent) {
	start := time.Now()
	err := d.service.Process(ctx, event)
	result := "ok"
	if err != nil {
		result = "error"
		d.log.Error().Err(err).
			Str("type", string(event.Type)).
			Str("user_id", event.UserID).
			Int("worker_id", id).
			Msg("activity processing failed")
	}
	metrics.ActivityProcessingDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
}
