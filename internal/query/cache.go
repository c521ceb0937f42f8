package query

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Fetcher runs one procedure invocation. The context is cancelled when
// the attempt is superseded or the entry is invalidated; implementations
// should pass it through to the transport.
type Fetcher func(ctx context.Context) (any, error)

// Result is the message a fetch attempt delivers back to the event loop.
// Seq ties it to the attempt that produced it; Apply drops results whose
// seq no longer matches the entry.
type Result struct {
	Key  Key
	Seq  uint64
	Data any
	Err  error
}

type entry struct {
	state  State
	seq    uint64
	cancel context.CancelFunc
}

// Cache is the process-wide keyed store for remote invocations. It is
// owned by the event loop: Execute, Refetch, Apply and Invalidate must
// only be called from Update, which is what makes the single-writer
// model hold without locks. Fetch goroutines never touch the map; they
// only report back through Result messages.
type Cache struct {
	entries map[Key]*entry
	// seq numbers attempts across the whole cache, so a result from
	// before an Invalidate can never collide with a recreated entry.
	seq uint64
}

func NewCache() *Cache {
	return &Cache{entries: make(map[Key]*entry)}
}

// State returns the current snapshot for a request. Disabled and unknown
// requests are idle.
func (c *Cache) State(req Request) State {
	if !req.Enabled() {
		return State{Status: StatusIdle}
	}
	e := c.entries[req.Key()]
	if e == nil {
		return State{Status: StatusIdle}
	}
	return e.state
}

// Loading reports whether an attempt for this request is in flight.
func (c *Cache) Loading(req Request) bool {
	return c.State(req).Status == StatusLoading
}

// Execute starts a fetch for the request and returns the command that
// runs it, or nil when nothing should happen:
//   - disabled request: permanently idle, no network
//   - already loading: the caller attaches to the in-flight attempt
//   - already successful: read-through, cached data stands (use Refetch
//     to force a reload)
func (c *Cache) Execute(req Request, fetch Fetcher) tea.Cmd {
	if !req.Enabled() {
		return nil
	}
	key := req.Key()
	if e, ok := c.entries[key]; ok {
		switch e.state.Status {
		case StatusLoading, StatusSuccess:
			return nil
		}
	}
	return c.launch(key, fetch)
}

// Refetch re-runs the procedure for the request. The status moves to
// loading but the previously displayed data stays in place
// (stale-while-revalidate). Calling it again while an attempt is in
// flight is a no-op, so a reload trigger cannot stack requests.
func (c *Cache) Refetch(req Request, fetch Fetcher) tea.Cmd {
	if !req.Enabled() {
		return nil
	}
	key := req.Key()
	if e, ok := c.entries[key]; ok && e.state.Status == StatusLoading {
		return nil
	}
	return c.launch(key, fetch)
}

func (c *Cache) launch(key Key, fetch Fetcher) tea.Cmd {
	e := c.entries[key]
	if e == nil {
		e = &entry{}
		c.entries[key] = e
	}
	if e.cancel != nil {
		e.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	c.seq++
	e.seq = c.seq
	seq := e.seq
	// Data carries over for stale display; a new attempt clears the error.
	e.state.Status = StatusLoading
	e.state.Err = nil
	return func() tea.Msg {
		data, err := fetch(ctx)
		if ctx.Err() != nil {
			// Cancelled attempts report their own seq; Apply drops them.
			return Result{Key: key, Seq: seq, Err: ctx.Err()}
		}
		return Result{Key: key, Seq: seq, Data: data, Err: err}
	}
}

// Apply folds a fetch result into the cache. It returns false, leaving
// every entry untouched, when the result is stale: its entry was
// invalidated or a newer attempt has since started. This is the
// anti-stale-overwrite property the rest of the app relies on.
func (c *Cache) Apply(msg Result) bool {
	e := c.entries[msg.Key]
	if e == nil || e.seq != msg.Seq {
		return false
	}
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	if msg.Err != nil {
		e.state.Status = StatusError
		e.state.Err = msg.Err
		return true
	}
	e.state = State{Status: StatusSuccess, Data: msg.Data, FetchedAt: time.Now()}
	return true
}

// Invalidate evicts the entry for a request and cancels any in-flight
// attempt. Pages call this when their active key changes so the old
// key's response can never land.
func (c *Cache) Invalidate(req Request) {
	if !req.Enabled() {
		return
	}
	key := req.Key()
	if e, ok := c.entries[key]; ok {
		if e.cancel != nil {
			e.cancel()
		}
		delete(c.entries, key)
	}
}

// Reset evicts everything, cancelling all in-flight attempts.
func (c *Cache) Reset() {
	for key, e := range c.entries {
		if e.cancel != nil {
			e.cancel()
		}
		delete(c.entries, key)
	}
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	return len(c.entries)
}
