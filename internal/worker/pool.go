package worker

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Pool runs fire-and-forget background jobs (vector sync, summarization)
// with bounded retry. Jobs outlive the request that submitted them, so each
// attempt gets its own timeout-bound context detached from the caller.
type Pool struct {
	jobs        chan job
	log         *logrus.Logger
	maxAttempts int
	attemptTTL  time.Duration
	baseBackoff time.Duration

	wg       sync.WaitGroup
	stopOnce sync.Once
}

type job struct {
	name string
	fn   func(ctx context.Context) error
}

type Config struct {
	Workers     int
	QueueSize   int
	MaxAttempts int           // default 3
	AttemptTTL  time.Duration // default 60s
	BaseBackoff time.Duration // default 1s, doubled per retry
}

func NewPool(cfg Config, log *logrus.Logger) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.AttemptTTL <= 0 {
		cfg.AttemptTTL = 60 * time.Second
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = time.Second
	}

	p := &Pool{
		jobs:        make(chan job, cfg.QueueSize),
		log:         log,
		maxAttempts: cfg.MaxAttempts,
		attemptTTL:  cfg.AttemptTTL,
		baseBackoff: cfg.BaseBackoff,
	}
	for i := 0; i < cfg.Workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

// Submit enqueues a job. When the queue is full the job is dropped with a
// log entry; background work is best-effort and must never block a request.
func (p *Pool) Submit(name string, fn func(ctx context.Context) error) {
	select {
	case p.jobs <- job{name: name, fn: fn}:
	default:
		p.log.WithField("job", name).Warn("worker queue full, job dropped")
	}
}

// Stop closes the queue and waits for in-flight jobs to finish.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() { close(p.jobs) })
	p.wg.Wait()
}

func (p *Pool) run() {
	defer p.wg.Done()
	for j := range p.jobs {
		p.execute(j)
	}
}

func (p *Pool) execute(j job) {
	var err error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), p.attemptTTL)
		err = j.fn(ctx)
		cancel()
		if err == nil {
			return
		}

		p.log.WithFields(logrus.Fields{
			"job":     j.name,
			"attempt": attempt,
		}).WithError(err).Warn("background job failed")

		if attempt < p.maxAttempts {
			time.Sleep(p.baseBackoff << (attempt - 1))
		}
	}
	p.log.WithField("job", j.name).WithError(err).Error("background job dropped after retries")
}
