package access

import "sync"

// Sequencer serializes resolutions for one session. Auth-state changes can
// overlap, and the resolver call each one triggers is never cancelled; the
// sequencer guarantees a resolution started earlier can never overwrite
// one started later, so stale (status, role) pairs are dropped instead of
// briefly shadowing fresh ones.
type Sequencer struct {
	mu         sync.Mutex
	nextSeq    uint64
	appliedSeq uint64
	current    Resolution
}

func NewSequencer() *Sequencer {
	return &Sequencer{}
}

// Begin allocates the sequence number for a resolution that is about to
// start.
func (s *Sequencer) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSeq++
	return s.nextSeq
}

// Apply records a completed resolution. It returns false, leaving the
// current resolution untouched, when a resolution begun later has already
// been applied.
func (s *Sequencer) Apply(seq uint64, resolution Resolution) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.appliedSeq {
		return false
	}
	s.appliedSeq = seq
	s.current = resolution
	return true
}

// Current returns the most recently applied resolution.
func (s *Sequencer) Current() Resolution {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Reset clears the applied resolution on sign-out. Pending resolutions
// begun before the reset are still dropped when they complete.
func (s *Sequencer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSeq++
	s.appliedSeq = s.nextSeq
	s.current = Resolution{}
}
