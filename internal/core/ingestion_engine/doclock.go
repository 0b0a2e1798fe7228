package ingestion_engine

import "sync"

// docLocks enforces at most one active ingestion run per document id within
// this process. Concurrent duplicate starts would otherwise write duplicate
// embedding records.
type docLocks struct {
	mu     sync.Mutex
	active map[string]struct{}
}

// tryLock claims the id. The returned release func must be called when the
// run ends; ok is false when another run already holds the id.
func (l *docLocks) tryLock(id string) (release func(), ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.active == nil {
		l.active = make(map[string]struct{})
	}
	if _, busy := l.active[id]; busy {
		return nil, false
	}
	l.active[id] = struct{}{}
	return func() {
		l.mu.Lock()
		delete(l.active, id)
		l.mu.Unlock()
	}, true
}
