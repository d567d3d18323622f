package rollcall

import "sync"

// messageLocks serializes read-modify-write cycles per tracking message,
// keyed by (channel, timestamp). Entries are reference-counted and removed
// once the last holder releases, so the table does not grow with every
// message ever tracked.
type messageLocks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newMessageLocks() *messageLocks {
	return &messageLocks{entries: make(map[string]*lockEntry)}
}

// lock acquires the mutex for one (channel, timestamp) pair and returns the
// release func.
func (l *messageLocks) lock(channelID, timestamp string) func() {
	key := channelID + "/" + timestamp

	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &lockEntry{}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.entries, key)
		}
		l.mu.Unlock()
	}
}
