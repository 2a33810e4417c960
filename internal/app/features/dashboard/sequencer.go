// internal/app/features/dashboard/sequencer.go
package dashboard

import "sync"

// Sequencer tracks the most recent assembly per viewer so that a slower,
// older call cannot overwrite a newer one.
type Sequencer struct {
	mu    sync.Mutex
	next  uint64
	slots map[string]*slot
}

// slot is the per-viewer state. deliver is held while a result is written,
// so a newer call for the same viewer cannot deliver until it is done.
type slot struct {
	deliver sync.Mutex
	latest  uint64
	refs    int
}

// NewSequencer returns an empty Sequencer.
func NewSequencer() *Sequencer {
	return &Sequencer{slots: make(map[string]*slot)}
}

// Ticket identifies one call started by Begin.
type Ticket struct {
	s      *Sequencer
	slot   *slot
	viewer string
	n      uint64
}

// Begin starts a call for viewer, superseding any call already in flight for
// the same viewer. Every ticket must be released with Finish.
func (s *Sequencer) Begin(viewer string) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl := s.slots[viewer]
	if sl == nil {
		sl = &slot{}
		s.slots[viewer] = sl
	}
	s.next++
	sl.latest = s.next
	sl.refs++
	return Ticket{s: s, slot: sl, viewer: viewer, n: s.next}
}

// Current reports whether no newer call has begun for the ticket's viewer.
func (t Ticket) Current() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return t.slot.latest == t.n
}

// Settle runs deliver if t is still current and reports whether it ran. The
// check and deliver happen under the viewer's delivery lock, so a call that
// begins after the check delivers strictly after this one.
func (t Ticket) Settle(deliver func()) bool {
	t.slot.deliver.Lock()
	defer t.slot.deliver.Unlock()
	if !t.Current() {
		return false
	}
	deliver()
	return true
}

// Finish releases t. The viewer is forgotten once no call is in flight.
func (t Ticket) Finish() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.slot.refs--
	if t.slot.refs <= 0 && t.s.slots[t.viewer] == t.slot {
		delete(t.s.slots, t.viewer)
	}
}

// inFlight reports how many viewers have calls outstanding.
func (s *Sequencer) inFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}
