package queue

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/rs/zerolog"

	"github.com/viptransport/booking-api/internal/api/metrics"
	"github.com/viptransport/booking-api/internal/core/ports"
)

const (
	defaultWorkers = 2
	channelBuffer  = 256
	sendTimeout    = 15 * time.Second
)

// Dispatcher routes outbound email to a fixed set of workers using consistent
// hashing on the recipient, keeping per-recipient delivery ordered while the
// request path stays non-blocking.
type Dispatcher struct {
	workers []chan ports.SendEmailParams
	sender  ports.EmailSender
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sender ports.EmailSender, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.SendEmailParams, numWorkers),
		sender:  sender,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.SendEmailParams, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands an email to the worker responsible for its recipient.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(params ports.SendEmailParams) {
	d.workers[d.shardIndex(params.To)] <- params
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(to string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(to))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.SendEmailParams) {
	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			return
		case params, ok := <-ch:
			if !ok {
				return
			}
			d.deliver(ctx, id, params)
		}
	}
}

// drain flushes mail still buffered when the worker's context is cancelled.
// Accepted email is delivered even during shutdown; each send gets a fresh
// deadline because the worker context is already dead.
func (d *Dispatcher) drain(id int, ch <-chan ports.SendEmailParams) {
	for {
		select {
		case params, ok := <-ch:
			if !ok {
				return
			}
			d.deliver(context.Background(), id, params)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, id int, params ports.SendEmailParams) {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	err := d.sender.SendEmail(sendCtx, params)
	cancel()
	if err != nil {
		metrics.EmailsSentTotal.WithLabelValues(params.Tag, "failure").Inc()
		d.log.Error().Err(err).
			Str("tag", params.Tag).
			Int("worker_id", id).
			Msg("email delivery failed")
		return
	}
	metrics.EmailsSentTotal.WithLabelValues(params.Tag, "success").Inc()
}
