package catalog

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/AppleLamps/grokipedia-sdk/internal/logger"
	"github.com/AppleLamps/grokipedia-sdk/pkg/slugindex"
)

// State reports where the manager is in the load lifecycle.
type State int32

const (
	StateUnloaded State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Manager owns the published index and serializes loads. Concurrent
// Load calls share one build via singleflight, and Reload swaps in the
// replacement index atomically: readers always see either the old
// complete index or the new complete index.
type Manager struct {
	loader  *Loader
	group   singleflight.Group
	current atomic.Pointer[slugindex.Index]
	state   atomic.Int32

	mu      sync.Mutex
	lastErr error

	logger *log.Logger
}

// NewManager wraps loader. Nothing is loaded until Load, LoadAsync or
// Reload is called.
func NewManager(loader *Loader) *Manager {
	return &Manager{
		loader: loader,
		logger: logger.New("catalog"),
	}
}

// Load returns the published index, building it on first use. All
// callers racing on the first load share a single build.
func (m *Manager) Load() (*slugindex.Index, error) {
	if ix := m.current.Load(); ix != nil {
		return ix, nil
	}
	return m.build()
}

// Reload builds a fresh index from disk and publishes it. If the build
// fails while an index is already published, the old index stays live
// and the manager stays ready.
func (m *Manager) Reload() (*slugindex.Index, error) {
	return m.build()
}

func (m *Manager) build() (*slugindex.Index, error) {
	v, err, _ := m.group.Do("build", func() (any, error) {
		m.state.Store(int32(StateLoading))
		ix, buildErr := m.loader.Build()
		m.mu.Lock()
		defer m.mu.Unlock()
		if buildErr != nil {
			m.lastErr = buildErr
			if m.current.Load() != nil {
				// Keep serving the previous index.
				m.state.Store(int32(StateReady))
				m.logger.Warnf("reload failed, keeping previous index: %v", buildErr)
			} else {
				m.state.Store(int32(StateFailed))
			}
			return nil, buildErr
		}
		m.lastErr = nil
		m.current.Store(ix)
		m.state.Store(int32(StateReady))
		return ix, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*slugindex.Index), nil
}

// Current returns the published index without triggering a load, nil
// if nothing has been published yet.
func (m *Manager) Current() *slugindex.Index {
	return m.current.Load()
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	return State(m.state.Load())
}

// LastError returns the most recent load error, nil after a success.
func (m *Manager) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// Future is the handle returned by LoadAsync. Done is closed once the
// load settles; Index and Err are valid after that.
type Future struct {
	done chan struct{}
	ix   *slugindex.Index
	err  error
}

// Done returns a channel closed when the load has finished.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the load settles or ctx is cancelled. On
// cancellation the load keeps running in the background; a later Wait
// or Load still observes its result.
func (f *Future) Wait(ctx context.Context) (*slugindex.Index, error) {
	select {
	case <-f.done:
		return f.ix, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// LoadAsync starts the load in the background and returns immediately.
func (m *Manager) LoadAsync() *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.ix, f.err = m.Load()
	}()
	return f
}
