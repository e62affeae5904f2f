package service

import (
	"context"
	"sync"
)

// ─────────────────────────────────────────────────────────────
// inflight: at most one action per session or scheduled job
// ─────────────────────────────────────────────────────────────

// inflight tracks the keys with an action in progress. SessionRegistry keys it
// by browser session ID so a second request on the same session is refused;
// NodeMonitor keys it by job name so an overlapping cron tick is skipped.
// The zero value is ready to use.
type inflight struct {
	mu      sync.Mutex
	keys    map[string]struct{}
	drained chan struct{} // closed when the last key ends; nil while idle
}

// Begin claims key. It returns false when an action for key is already running.
func (f *inflight) Begin(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.keys == nil {
		f.keys = make(map[string]struct{})
	}
	if _, busy := f.keys[key]; busy {
		return false
	}
	if len(f.keys) == 0 {
		f.drained = make(chan struct{})
	}
	f.keys[key] = struct{}{}
	return true
}

// End releases key. Ending a key that is not running does nothing.
func (f *inflight) End(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.keys[key]; !busy {
		return
	}
	delete(f.keys, key)
	if len(f.keys) == 0 {
		close(f.drained)
		f.drained = nil
	}
}

// Wait blocks until no action is running or ctx is done. Shutdown uses it to
// let in-progress sessions and checks finish.
func (f *inflight) Wait(ctx context.Context) {
	f.mu.Lock()
	drained := f.drained
	f.mu.Unlock()
	if drained == nil {
		return
	}
	select {
	case <-drained:
	case <-ctx.Done():
	}
}
