package importer

import "sync"

// Gate admits one import at a time within a process. Every caller that can
// trigger an import against a shared Importer must hold the same Gate, since
// the Importer's batches share one unit of work. The zero value is open.
type Gate struct {
	mu sync.Mutex
}

// NewGate returns an open gate.
func NewGate() *Gate {
	return &Gate{}
}

// TryAcquire takes the gate without waiting and reports whether it did.
func (g *Gate) TryAcquire() bool {
	return g.mu.TryLock()
}

// Release opens the gate taken by a successful TryAcquire.
func (g *Gate) Release() {
	g.mu.Unlock()
}
