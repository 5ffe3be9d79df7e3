package kernel

import (
	"context"
	"runtime"
	"strconv"
	"time"

	"github.com/pendulolabs/pendulo/pkg/logger"
	"github.com/pendulolabs/pendulo/pkg/metrics"
)

// Default pool configuration constants.
const (
	defaultQueueSize      = 64
	workerShutdownTimeout = 30 * time.Second
)

// task pairs a job with the channel its submitter waits on.
type task struct {
	ctx   context.Context
	job   Job
	reply chan outcome
}

type outcome struct {
	res *Result
	err error
}

// Pool runs kernel jobs on a fixed set of workers behind a bounded queue.
type Pool struct {
	kernel      *Kernel
	tasks       chan task
	workerCount int
	queueSize   int

	shutdown chan struct{}
	done     []chan struct{}

	logger logger.Logger
}

// NewPool creates a worker pool around the given kernel.
func NewPool(kernel *Kernel, opts ...PoolOption) *Pool {
	p := &Pool{
		kernel:      kernel,
		workerCount: runtime.NumCPU(),
		queueSize:   defaultQueueSize,
		shutdown:    make(chan struct{}),
		logger:      logger.Get().Named("kernel-pool"),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.workerCount < 1 {
		p.workerCount = 1
	}
	if p.queueSize < 1 {
		p.queueSize = defaultQueueSize
	}
	p.tasks = make(chan task, p.queueSize)
	p.done = make([]chan struct{}, p.workerCount)
	for i := range p.done {
		p.done[i] = make(chan struct{})
	}
	return p
}

// Start launches the workers. They run until ctx is canceled or Stop is
// called.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workerCount; i++ {
		go p.run(ctx, i)
	}
}

func (p *Pool) run(ctx context.Context, id int) {
	defer close(p.done[id])

	name := "worker-" + strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case t := <-p.tasks:
			metrics.UpdateKernelQueueDepth(len(p.tasks))

			start := time.Now()
			res, err := p.kernel.Run(t.ctx, t.job)
			metrics.RecordKernelDuration(float64(time.Since(start).Milliseconds()))

			if err != nil {
				p.logger.Error(t.ctx, "kernel run failed",
					logger.String("worker", name),
					logger.String("job_id", t.job.ID.String()),
					logger.Error(err),
				)
			}
			select {
			case t.reply <- outcome{res: res, err: err}:
			case <-t.ctx.Done():
			}
		}
	}
}

// Submit queues a job and blocks until a worker finishes it or ctx ends.
// The job runs on t.ctx, so submitters that must not be interrupted pass a
// context detached from the request.
func (p *Pool) Submit(ctx context.Context, job Job) (*Result, error) {
	t := task{ctx: ctx, job: job, reply: make(chan outcome, 1)}

	select {
	case p.tasks <- t:
		metrics.UpdateKernelQueueDepth(len(p.tasks))
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.shutdown:
		return nil, ErrPoolClosed
	}

	select {
	case out := <-t.reply:
		return out.res, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Stop signals the workers and waits for each to drain, bounded by a
// per-worker timeout.
func (p *Pool) Stop() {
	close(p.shutdown)
	for i, done := range p.done {
		select {
		case <-done:
		case <-time.After(workerShutdownTimeout):
			p.logger.Warn(context.Background(), "worker shutdown timed out",
				logger.Int("worker_id", i))
		}
	}
}
