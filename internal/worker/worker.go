package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/cuongbtq/job-board/internal/worker/domain"
)

// Store answers the integrity questions the worker asks
type Store interface {
	JobExists(ctx context.Context, jobID int64) (bool, error)
	CountApplicationsByJob(ctx context.Context, jobID int64) (int, error)
	CountApplicationsByResume(ctx context.Context, resumeURL string) (int, error)
}

// Consumer opens a delivery stream on the events queue
type Consumer interface {
	Consume(consumerTag string, prefetchCount int) (<-chan amqp.Delivery, error)
}

// Config holds worker configuration
type Config struct {
	Logger        *slog.Logger
	Store         Store
	Consumer      Consumer
	WorkerID      string
	QueueName     string
	Concurrency   int
	PrefetchCount int
	EventTimeout  time.Duration
}

// Worker consumes change events and reports data left inconsistent by them
type Worker struct {
	logger        *slog.Logger
	store         Store
	consumer      Consumer
	workerID      string
	queueName     string
	concurrency   int
	prefetchCount int
	eventTimeout  time.Duration
	eventsChan    chan *domain.EventMessage
	wg            sync.WaitGroup
	stopChan      chan struct{}
	stopOnce      sync.Once
}

// NewWorker creates a new worker instance
func NewWorker(cfg *Config) *Worker {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	eventTimeout := cfg.EventTimeout
	if eventTimeout <= 0 {
		eventTimeout = 30 * time.Second
	}

	return &Worker{
		logger:        cfg.Logger,
		store:         cfg.Store,
		consumer:      cfg.Consumer,
		workerID:      cfg.WorkerID,
		queueName:     cfg.QueueName,
		concurrency:   concurrency,
		prefetchCount: cfg.PrefetchCount,
		eventTimeout:  eventTimeout,
		eventsChan:    make(chan *domain.EventMessage, concurrency),
		stopChan:      make(chan struct{}),
	}
}

// Start consumes events until ctx is canceled or Stop is called. It returns
// domain.ErrDeliveriesClosed if the broker closes the delivery channel.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting worker",
		slog.String("worker_id", w.workerID),
		slog.Int("concurrency", w.concurrency),
		slog.Duration("event_timeout", w.eventTimeout),
	)

	deliveries, err := w.setupConsumer()
	if err != nil {
		return err
	}

	w.spawnWorkerPool(ctx)

	dispatchErr := make(chan error, 1)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		dispatchErr <- w.startMessageDispatcher(ctx, deliveries)
	}()

	select {
	case <-ctx.Done():
		w.logger.Info("Worker context canceled, stopping...")
		return nil
	case err := <-dispatchErr:
		return err
	}
}

// Stop gracefully stops the worker and waits for in-flight events
func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.stopOnce.Do(func() {
		close(w.stopChan)
	})
	w.wg.Wait()
	w.logger.Info("Worker stopped")
}
