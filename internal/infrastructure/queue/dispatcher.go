package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/streetfare/booking-api/internal/api/metrics"
	"github.com/streetfare/booking-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes fan-out events to a fixed set of workers using
// consistent hashing on the request id, so both events of one request land
// on the same worker. Lifecycle operations enqueue after their transition
// commits and never wait for delivery; a full worker channel drops the
// event rather than blocking the request path.
type Dispatcher struct {
	workers []chan ports.FanoutEvent
	service ports.FanoutService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.FanoutService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.FanoutEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.FanoutEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands an event to the worker responsible for its request id
// without blocking the caller.
func (d *Dispatcher) Enqueue(event ports.FanoutEvent) {
	idx := d.shardIndex(event.RequestID)
	select {
	case d.workers[idx] <- event:
		metrics.FanoutQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.log.Warn().
			Str("request_id", event.RequestID).
			Str("kind", string(event.Kind)).
			Msg("fan-out queue full, event dropped")
	}
}

// shardIndex maps a request id deterministically to a worker index.
func (d *Dispatcher) shardIndex(requestID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(requestID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.FanoutEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.FanoutQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
			if err := d.service.Process(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("request_id", event.RequestID).
					Str("kind", string(event.Kind)).
					Int("worker_id", id).
					Msg("fan-out processing failed")
			}
		}
	}
}
