package pose

import (
	"sync"
	"testing"

	"cogentcore.org/core/math32"
)

func TestMailbox_TakeEmpty(t *testing.T) {
	var m Mailbox
	if sig := m.Take(); sig != nil {
		t.Errorf("expected nil from empty mailbox, got %v", sig)
	}
}

func TestMailbox_LatestWins(t *testing.T) {
	var m Mailbox

	m.Put(Signal{Position: math32.Vec2(0.1, 0.1)})
	m.Put(Signal{Position: math32.Vec2(0.9, 0.9)})

	sig := m.Take()
	if sig == nil {
		t.Fatal("expected a signal")
	}
	if sig.Position.X != 0.9 {
		t.Errorf("expected the latest signal, got position %v", sig.Position)
	}
}

func TestMailbox_TakeClears(t *testing.T) {
	var m Mailbox

	m.Put(Signal{})
	if m.Take() == nil {
		t.Fatal("expected a signal on first take")
	}
	if m.Take() != nil {
		t.Error("expected nil on second take")
	}
}

func TestMailbox_ConcurrentAccess(t *testing.T) {
	var m Mailbox
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			m.Put(Signal{DepthScale: float32(i)})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			m.Take()
		}
	}()
	wg.Wait()
}
