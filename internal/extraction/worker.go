package extraction

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type job struct {
	ctx        context.Context
	receiptURL string
	reply      chan jobResult
}

type jobResult struct {
	receipt *ExtractedReceipt
	err     error
}

// Pool bounds concurrent calls to the extraction backend. Receipt reads
// are slow and rate limited upstream, so requests queue here instead of
// fanning out unbounded.
type Pool struct {
	extractor ExtractorAPI
	jobs      chan job
	timeout   time.Duration
	logger    *slog.Logger

	stopOnce sync.Once
	done     chan struct{}
	wg       sync.WaitGroup
}

func NewPool(extractor ExtractorAPI, workers, queueSize int, timeout time.Duration, logger *slog.Logger) *Pool {
	if workers <= 0 {
		workers = 2
	}
	if queueSize <= 0 {
		queueSize = 32
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	p := &Pool{
		extractor: extractor,
		jobs:      make(chan job, queueSize),
		timeout:   timeout,
		logger:    logger,
		done:      make(chan struct{}),
	}

	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	return p
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			return
		case j := <-p.jobs:
			ctx, cancel := context.WithTimeout(j.ctx, p.timeout)
			receipt, err := p.extractor.Extract(ctx, j.receiptURL)
			cancel()

			if err != nil {
				p.logger.Warn("receipt extraction failed",
					"worker", id,
					"error", err)
			}
			j.reply <- jobResult{receipt: receipt, err: err}
		}
	}
}

// Submit queues the extraction and waits for its result. A full queue or
// a cancelled caller context returns the context error.
func (p *Pool) Submit(ctx context.Context, receiptURL string) (*ExtractedReceipt, error) {
	j := job{ctx: ctx, receiptURL: receiptURL, reply: make(chan jobResult, 1)}

	select {
	case p.jobs <- j:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-j.reply:
		return res.receipt, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (p *Pool) Shutdown() {
	p.stopOnce.Do(func() {
		close(p.done)
	})
	p.wg.Wait()
}
