package mu

import (
	"os"
	"sync"
	"time"

	"github.com/putnamjm/mu-go/internal/logging"
)

// Env is the process-wide collection described in §3: a heap, a root
// vector, a dynamic-binding stack, a lexical-binding map, the
// namespace registry, well-known namespace handles, and bookkeeping.
type Env struct {
	Heap *Heap

	namespaces *namespaceRegistry
	lexical    *lexicalStacks

	dynMu        sync.RWMutex
	dynamicStack []dynamicEntry

	rootMu sync.RWMutex
	root   []Tag

	KeywordNS Tag
	MuNS      Tag
	NullNS    Tag

	StartTime time.Time

	profileMu sync.Mutex
	Profile   map[string]int64

	streamsMu sync.Mutex
	streams   []*hostStream

	Stdin, Stdout, Stderr Tag

	GCMode string
	Log    *logging.Logger

	futures *futurePool
}

// New builds a fresh Env: allocates the heap, registers the
// well-known namespaces, wires the stdio stream triple, starts the
// future worker pool, and populates the mu namespace's native function
// table (§6).
func New(pages int, gcMode string) (*Env, error) {
	h, err := NewHeap(pages)
	if err != nil {
		return nil, err
	}
	env := &Env{
		Heap:       h,
		namespaces: newNamespaceRegistry(),
		lexical:    newLexicalStacks(),
		StartTime:  time.Now(),
		Profile:    make(map[string]int64),
		GCMode:     gcMode,
		Log:        logging.New(os.Stderr, false),
	}
	env.KeywordNS = env.namespaces.create("keyword", true)
	env.MuNS = env.namespaces.create("mu", true)
	env.NullNS = env.namespaces.create("null", false)

	if gcMode == "auto" {
		h.onExhausted = env.GC
	}

	env.futures = newFuturePool(env, 0)

	env.Stdin = env.registerStdioStream(os.Stdin, "input")
	env.Stdout = env.registerStdioStream(os.Stdout, "output")
	env.Stderr = env.registerStdioStream(os.Stderr, "output")

	registerBuiltins(env)

	return env, nil
}

// Close releases the heap arena and stops the future worker pool.
func (env *Env) Close() error {
	env.futures.stop()
	return env.Heap.Close()
}

// AddGCRoot registers an explicit root-vector entry (§4.8 step 5).
func (env *Env) AddGCRoot(t Tag) {
	env.rootMu.Lock()
	defer env.rootMu.Unlock()
	env.root = append(env.root, t)
}

func (env *Env) roots() []Tag {
	env.rootMu.RLock()
	defer env.rootMu.RUnlock()
	out := make([]Tag, len(env.root))
	copy(out, env.root)
	return out
}

// EnableLogging turns on diagnostic output (GC begin/end lines) to
// os.Stderr.
func (env *Env) EnableLogging() { env.Log = logging.New(os.Stderr, true) }
