package expr

import (
	"container/list"
	"sync"

	"github.com/matzehuels/graphplane/pkg/observability"
)

// DefaultMemoSize is the number of expressions a [Memo] compiler keeps.
const DefaultMemoSize = 1024

// memoEntry caches the outcome of one compilation, failures included.
type memoEntry struct {
	expression string
	fn         Func
	err        error
}

// MemoCompiler reuses compiled code per expression text. Only compiled
// programs are kept; evaluated positions never are. The least recently used
// expression is evicted once the memo holds its capacity.
// It is safe for concurrent use.
type MemoCompiler struct {
	inner Compiler
	size  int

	mu      sync.Mutex
	entries map[string]*list.Element
	lru     *list.List // front = most recent
}

// Memo wraps c with per-expression memoisation holding up to
// DefaultMemoSize expressions. A nil c uses NewCompiler.
func Memo(c Compiler) *MemoCompiler {
	return MemoSize(c, DefaultMemoSize)
}

// MemoSize is Memo with an explicit capacity. A non-positive size uses
// DefaultMemoSize.
func MemoSize(c Compiler, size int) *MemoCompiler {
	if c == nil {
		c = NewCompiler()
	}
	if size <= 0 {
		size = DefaultMemoSize
	}
	return &MemoCompiler{
		inner:   c,
		size:    size,
		entries: make(map[string]*list.Element),
		lru:     list.New(),
	}
}

// Compile returns the memoised result for expression, compiling on first use.
func (m *MemoCompiler) Compile(expression string) (Func, error) {
	if e, ok := m.get(expression); ok {
		observability.Engine().OnCompile(true, e.err)
		return e.fn, e.err
	}

	fn, err := m.inner.Compile(expression)
	m.put(&memoEntry{expression: expression, fn: fn, err: err})

	observability.Engine().OnCompile(false, err)
	return fn, err
}

func (m *MemoCompiler) get(expression string) (*memoEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	el, ok := m.entries[expression]
	if !ok {
		return nil, false
	}
	m.lru.MoveToFront(el)
	return el.Value.(*memoEntry), true
}

func (m *MemoCompiler) put(e *memoEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Another goroutine may have compiled the same text meanwhile.
	if el, ok := m.entries[e.expression]; ok {
		el.Value = e
		m.lru.MoveToFront(el)
		return
	}
	m.entries[e.expression] = m.lru.PushFront(e)
	for m.lru.Len() > m.size {
		oldest := m.lru.Back()
		m.lru.Remove(oldest)
		delete(m.entries, oldest.Value.(*memoEntry).expression)
	}
}

// Len returns the number of memoised expressions.
func (m *MemoCompiler) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lru.Len()
}

// Ensure MemoCompiler implements Compiler.
var _ Compiler = (*MemoCompiler)(nil)
