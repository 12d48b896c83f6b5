package pose

import "sync"

// Mailbox is a single-slot, latest-value-wins handoff between the camera
// callback goroutine and the render tick. The detector may outpace or lag
// the render loop; either way the tick consumes at most the newest signal
// and never queues a backlog.
type Mailbox struct {
	mu  sync.Mutex
	sig *Signal
}

// Put replaces the slot with the given signal.
func (m *Mailbox) Put(sig Signal) {
	m.mu.Lock()
	m.sig = &sig
	m.mu.Unlock()
}

// Take removes and returns the latest signal, or nil if nothing new
// arrived since the last Take.
func (m *Mailbox) Take() *Signal {
	m.mu.Lock()
	sig := m.sig
	m.sig = nil
	m.mu.Unlock()
	return sig
}
