package batch

import (
	"context"
	"io"
	"sync"

	"github.com/dipdup-io/near-abi/pkg/codec"
	"github.com/dipdup-io/near-abi/pkg/contract"
	"github.com/dipdup-io/workerpool"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// errors
var (
	ErrInvalidTask = errors.New("invalid task")
)

// Task - one view call of the batch
type Task struct {
	Contract string `yaml:"contract"`
	Method   string `yaml:"method"`
	Args     Args   `yaml:"args,omitempty"`
	Kwargs   Kwargs `yaml:"kwargs,omitempty"`
}

func (t Task) arguments() ([]any, error) {
	switch {
	case len(t.Kwargs) > 0 && len(t.Args) > 0:
		return nil, errors.Wrapf(ErrInvalidTask, "%s.%s: args and kwargs are mutually exclusive", t.Contract, t.Method)
	case len(t.Kwargs) > 0:
		return []any{codec.Object(t.Kwargs)}, nil
	default:
		return []any(t.Args), nil
	}
}

// Result -
type Result struct {
	Task  Task
	Value any
	Err   error
}

// ReadTasks - decodes YAML or JSON list of tasks
func ReadTasks(r io.Reader) ([]Task, error) {
	var tasks []Task
	if err := yaml.NewDecoder(r).Decode(&tasks); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "decoding tasks")
	}
	for i := range tasks {
		if tasks[i].Contract == "" || tasks[i].Method == "" {
			return nil, errors.Wrapf(ErrInvalidTask, "task #%d: contract and method are required", i)
		}
	}
	return tasks, nil
}

// Binder - returns contract binding by account id
type Binder func(ctx context.Context, contractID string) (*contract.Contract, error)

// Runner - executes view tasks concurrently
type Runner struct {
	bind         Binder
	workersCount int
}

// NewRunner -
func NewRunner(bind Binder, workersCount int) *Runner {
	if workersCount < 1 {
		workersCount = 10
	}
	return &Runner{
		bind:         bind,
		workersCount: workersCount,
	}
}

type job struct {
	index  int
	viewer contract.Viewer
}

type collector struct {
	mx       sync.Mutex
	results  []Result
	finished []bool
	pending  int
	closed   bool
	done     chan struct{}
}

func newCollector(tasks []Task) *collector {
	c := &collector{
		results:  make([]Result, len(tasks)),
		finished: make([]bool, len(tasks)),
		pending:  len(tasks),
		done:     make(chan struct{}),
	}
	for i := range tasks {
		c.results[i].Task = tasks[i]
	}
	if c.pending == 0 {
		close(c.done)
	}
	return c
}

func (c *collector) set(index int, value any, err error) {
	c.mx.Lock()
	defer c.mx.Unlock()

	if c.closed || c.finished[index] {
		return
	}
	c.results[index].Value = value
	c.results[index].Err = err
	c.finished[index] = true

	c.pending--
	if c.pending == 0 {
		close(c.done)
	}
}

// close - marks unfinished results with err, later results are dropped
func (c *collector) close(err error) []Result {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.closed = true
	for i := range c.finished {
		if !c.finished[i] {
			c.results[i].Err = err
			c.finished[i] = true
		}
	}
	return c.results
}

// Run - executes tasks and returns results in the order of tasks. Every contract is bound once per run.
// Tasks unfinished when ctx is cancelled get the context error.
func (r *Runner) Run(ctx context.Context, tasks []Task) []Result {
	c := newCollector(tasks)

	jobs := r.prepare(ctx, tasks, c)
	if len(jobs) == 0 {
		return c.close(nil)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// tasks queued or running, so adding a task never waits for a worker
	slots := make(chan struct{}, r.workersCount)

	pool := workerpool.NewPool(func(ctx context.Context, j job) {
		defer func() { <-slots }()

		value, err := j.viewer.View(ctx)
		if err != nil {
			log.Err(err).Int("task", j.index).Msg("batch view")
		}
		c.set(j.index, value, err)
	}, r.workersCount)
	pool.Start(runCtx)

enqueue:
	for i := range jobs {
		select {
		case <-runCtx.Done():
			break enqueue
		case slots <- struct{}{}:
			pool.AddTask(jobs[i])
		}
	}

	select {
	case <-c.done:
	case <-ctx.Done():
	}

	cancel()
	results := c.close(ctx.Err())
	if err := pool.Close(); err != nil {
		log.Err(err).Msg("closing batch pool")
	}
	return results
}

func (r *Runner) prepare(ctx context.Context, tasks []Task, c *collector) []job {
	var (
		contracts = make(map[string]*contract.Contract)
		bindErrs  = make(map[string]error)
		jobs      = make([]job, 0, len(tasks))
	)

	for i := range tasks {
		binding, err := r.binding(ctx, tasks[i].Contract, contracts, bindErrs)
		if err != nil {
			c.set(i, nil, err)
			continue
		}

		args, err := tasks[i].arguments()
		if err != nil {
			c.set(i, nil, err)
			continue
		}

		call, err := binding.Call(tasks[i].Method, args...)
		if err != nil {
			c.set(i, nil, err)
			continue
		}

		viewer, ok := call.(contract.Viewer)
		if !ok {
			c.set(i, nil, errors.Wrapf(contract.ErrNotView, "%s.%s", tasks[i].Contract, tasks[i].Method))
			continue
		}
		jobs = append(jobs, job{index: i, viewer: viewer})
	}
	return jobs
}

func (r *Runner) binding(ctx context.Context, contractID string, contracts map[string]*contract.Contract, bindErrs map[string]error) (*contract.Contract, error) {
	if err, ok := bindErrs[contractID]; ok {
		return nil, err
	}
	if binding, ok := contracts[contractID]; ok {
		return binding, nil
	}

	binding, err := r.bind(ctx, contractID)
	if err != nil {
		err = errors.Wrapf(err, "binding %s", contractID)
		bindErrs[contractID] = err
		return nil, err
	}
	contracts[contractID] = binding
	return binding, nil
}
