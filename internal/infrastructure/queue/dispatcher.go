package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/cashback-api/cashback-system/internal/core/domain"
	"github.com/cashback-api/cashback-system/internal/core/ports"
	"github.com/cashback-api/cashback-system/internal/metrics"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// ErrStopped is returned by Enqueue once the dispatcher context is cancelled
// or Close has been called.
var ErrStopped = errors.New("queue: dispatcher stopped")

// ResultHandler receives the outcome of every ingested transaction. err is a
// *domain.ValidationError for rejected rows. It is called from the worker
// goroutines and must be safe for concurrent use.
type ResultHandler func(in ports.TransactionInput, res *ports.IngestResult, err error)

// Dispatcher routes raw transactions to a fixed set of workers using
// consistent hashing on the customer CPF, so sales of one customer are
// ingested in the order they were enqueued.
type Dispatcher struct {
	workers  []chan ports.TransactionInput
	service  ports.TransactionService
	onResult ResultHandler
	log      zerolog.Logger
	wg       sync.WaitGroup

	mu       sync.RWMutex
	closed   bool
	done     chan struct{}
	stopOnce sync.Once
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used. onResult may be nil.
func NewDispatcher(numWorkers int, service ports.TransactionService, onResult ResultHandler, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan ports.TransactionInput, numWorkers),
		service:  service,
		onResult: onResult,
		log:      log,
		done:     make(chan struct{}),
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.TransactionInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled
// or after Close once their channel is drained.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
	go func() {
		select {
		case <-ctx.Done():
			d.stop()
		case <-d.done:
		}
	}()
}

// Enqueue sends a transaction to the worker responsible for its customer.
// It blocks while that worker's buffer is full and returns ErrStopped if the
// dispatcher stops in the meantime.
func (d *Dispatcher) Enqueue(in ports.TransactionInput) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrStopped
	}
	select {
	case <-d.done:
		return ErrStopped
	default:
	}

	idx := d.shardIndex(in)
	select {
	case d.workers[idx] <- in:
	case <-d.done:
		return ErrStopped
	}
	metrics.IngestQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	return nil
}

// EnqueueBatch enqueues multiple transactions preserving per-customer
// ordering. It returns how many were accepted before the first error.
func (d *Dispatcher) EnqueueBatch(batch []ports.TransactionInput) (int, error) {
	for i, in := range batch {
		if err := d.Enqueue(in); err != nil {
			return i, err
		}
	}
	return len(batch), nil
}

// Close stops accepting work and waits for the workers to drain their queues.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
	d.stop()
}

func (d *Dispatcher) stop() {
	d.stopOnce.Do(func() { close(d.done) })
}

// shardIndex maps a customer CPF deterministically to a worker index. Inputs
// without a CPF all land on the same worker; the service rejects them.
func (d *Dispatcher) shardIndex(in ports.TransactionInput) int {
	var cpf int64
	if in.Customer != nil && in.Customer.CPF != nil {
		cpf = *in.Customer.CPF
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(strconv.FormatInt(cpf, 10)))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.TransactionInput) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for {
		select {
		case <-ctx.Done():
			if pending := len(ch); pending > 0 {
				d.log.Warn().
					Int("worker_id", id).
					Int("dropped", pending).
					Msg("worker stopped with pending transactions")
			}
			return
		case in, ok := <-ch:
			if !ok {
				return
			}
			metrics.IngestQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.process(ctx, id, in)
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, id int, in ports.TransactionInput) {
	res, err := d.service.Ingest(ctx, in)
	if err != nil && !errors.Is(err, domain.ErrValidation) {
		d.log.Error().Err(err).
			Int("worker_id", id).
			Msg("transaction ingestion failed")
	}
	if d.onResult != nil {
		d.onResult(in, res, err)
	}
}
