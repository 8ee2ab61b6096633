package mu

import (
	"runtime"
	"sync"
)

// futureState is the host-side completion record for one Async image,
// addressed by a handle index the way a Stream image addresses its
// hostStream (§9's image-slot-holds-raw-bits constraint means the
// actual channel/result pair can't live in the image itself).
type futureState struct {
	mu        sync.Mutex
	done      chan struct{}
	completed bool
	result    Tag
	err       *Exception
	detached  bool
}

// futurePool is a bounded worker pool executing deferred thunks,
// grounded directly on xyproto-flapc's parallel.go/parallel_test.go
// goroutine+channel+WaitGroup fan-out (no third-party concurrency
// library appears anywhere in the retrieval pack).
type futurePool struct {
	env     *Env
	jobs    chan func()
	wg      sync.WaitGroup
	closeCh chan struct{}
	once    sync.Once

	tableMu sync.Mutex
	table   []*futureState
}

func newFuturePool(env *Env, workers int) *futurePool {
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers < 2 {
			workers = 2
		}
	}
	p := &futurePool{env: env, jobs: make(chan func(), 64), closeCh: make(chan struct{})}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *futurePool) worker() {
	defer p.wg.Done()
	for {
		select {
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			job()
		case <-p.closeCh:
			return
		}
	}
}

func (p *futurePool) stop() {
	p.once.Do(func() {
		close(p.closeCh)
	})
}

func (p *futurePool) register(st *futureState) int {
	p.tableMu.Lock()
	defer p.tableMu.Unlock()
	p.table = append(p.table, st)
	return len(p.table) - 1
}

func (p *futurePool) get(handle int) *futureState {
	p.tableMu.Lock()
	defer p.tableMu.Unlock()
	return p.table[handle]
}

// submit runs fn asynchronously and builds the Async image tracking
// its completion. A thunk's exception is kept for Force to re-raise;
// Poll reports nil for a future whose thunk raised, detached or not.
func (env *Env) submit(fn Tag, argv []Tag, detached bool) Tag {
	st := &futureState{done: make(chan struct{}), detached: detached}
	handle := env.futures.register(st)

	env.futures.jobs <- func() {
		result, exc := env.ApplyValues(fn, argv)
		st.mu.Lock()
		st.completed = true
		st.result = result
		st.err = exc
		st.mu.Unlock()
		close(st.done)
	}

	id, allocExc := env.Heap.alloc(asyncSlots, ImageAsync)
	if allocExc != nil {
		panic(allocExc)
	}
	env.Heap.WriteImage(id, []Tag{MakeFixnum(int64(handle)), fn, NilTag})
	return NewIndirect(0, id)
}

// Defer submits fn(args...) eagerly (args already evaluated by the
// caller) and returns immediately with the Async handle (mu:defer).
func (env *Env) Defer(fn Tag, argv []Tag) Tag { return env.submit(fn, argv, false) }

// Detach is fire-and-forget: poll returns the value once complete,
// nil otherwise, and there is no way to cancel (mu:detach).
func (env *Env) Detach(fn Tag, argv []Tag) Tag { return env.submit(fn, argv, true) }

func (env *Env) futureHandle(t Tag) *futureState {
	slots := env.Heap.ImageSlice(t.ImageID())
	return env.futures.get(int(FixnumValue(slots[0])))
}

// Poll reports completion without blocking: the Async's value once
// complete, NilTag otherwise.
func (env *Env) Poll(t Tag) Tag {
	st := env.futureHandle(t)
	st.mu.Lock()
	defer st.mu.Unlock()
	if !st.completed {
		return NilTag
	}
	if st.err != nil {
		return NilTag
	}
	return st.result
}

// Force blocks until the future's value is set, re-raising any
// exception the thunk raised (mu:force).
func (env *Env) Force(t Tag) (Tag, *Exception) {
	st := env.futureHandle(t)
	<-st.done
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.err != nil {
		return Tag(0), st.err
	}
	return st.result, nil
}
