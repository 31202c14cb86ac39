package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrPoolClosed = errors.New("worker pool closed")
	ErrQueueFull  = errors.New("worker queue full")
)

type Task func(ctx context.Context) error

type job struct {
	name string
	task Task
}

// Pool runs submitted tasks on a fixed number of goroutines. Task errors are
// logged, not returned.
type Pool struct {
	workers int
	tasks   chan job
	wg      sync.WaitGroup
	mu      sync.RWMutex
	rate    <-chan time.Time
	ticker  *time.Ticker
	closed  bool
	started bool
	logger  *zap.Logger
}

func NewPool(workers, buffer int, logger *zap.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{
		workers: workers,
		tasks:   make(chan job, buffer),
		logger:  logger,
	}
}

// SetRateLimit caps task starts per second across all workers. Zero or less
// removes the cap.
func (p *Pool) SetRateLimit(rps int) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
		p.rate = nil
	}
	if rps <= 0 {
		return
	}
	t := time.NewTicker(time.Second / time.Duration(rps))
	p.ticker = t
	p.rate = t.C
}

// Submit queues t without blocking.
func (p *Pool) Submit(name string, t Task) error {
	if p == nil || t == nil {
		return nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.tasks <- job{name: name, task: t}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start launches the workers. Tasks receive ctx; cancelling it stops the
// workers without draining the queue.
func (p *Pool) Start(ctx context.Context) {
	if p == nil {
		return
	}
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case j, ok := <-p.tasks:
					if !ok {
						return
					}
					p.mu.RLock()
					rate := p.rate
					p.mu.RUnlock()
					if rate != nil {
						select {
						case <-ctx.Done():
							return
						case <-rate:
						}
					}
					p.run(ctx, j)
				}
			}
		}()
	}
}

func (p *Pool) run(ctx context.Context, j job) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("task panicked", zap.String("task", j.name), zap.Any("panic", r))
		}
	}()
	start := time.Now()
	if err := j.task(ctx); err != nil {
		p.logger.Warn("task failed", zap.String("task", j.name), zap.Duration("took", time.Since(start)), zap.Error(err))
		return
	}
	p.logger.Debug("task done", zap.String("task", j.name), zap.Duration("took", time.Since(start)))
}

// Close stops accepting tasks and waits for queued ones to finish or for ctx
// to expire.
func (p *Pool) Close(ctx context.Context) error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
		p.rate = nil
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
