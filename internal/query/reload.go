package query

import tea "github.com/charmbracelet/bubbletea"

// Reloader is the single reload trigger a page wires to its refresh key.
// Reload is idempotent: while an attempt for the request is in flight it
// returns nil instead of queueing a second call. It never touches
// pagination or panel state.
type Reloader struct {
	cache *Cache
}

func NewReloader(cache *Cache) *Reloader {
	return &Reloader{cache: cache}
}

// Reload refetches the page's current active request. No-op for disabled
// requests and while a fetch is already running.
func (r *Reloader) Reload(req Request, fetch Fetcher) tea.Cmd {
	if !req.Enabled() || r.cache.Loading(req) {
		return nil
	}
	return r.cache.Refetch(req, fetch)
}

// Loading surfaces the cache's in-flight flag so callers can disable or
// animate the trigger control.
func (r *Reloader) Loading(req Request) bool {
	return r.cache.Loading(req)
}
