package domain

import (
	"context"
	"sync"
)

// UsedSet accumulates candidate ids chosen by earlier selection strategies
// within one generation request.
type UsedSet map[string]struct{}

func (u UsedSet) Contains(id string) bool {
	_, ok := u[id]
	return ok
}

// With returns a copy of u extended with the ids of the given candidates.
// u itself is left untouched.
func (u UsedSet) With(cands []Candidate) UsedSet {
	out := make(UsedSet, len(u)+len(cands))
	for id := range u {
		out[id] = struct{}{}
	}
	for _, c := range cands {
		out[c.ID] = struct{}{}
	}
	return out
}

// GenerationSession is the per-call state of one "generate routes" request.
// It is created at the start of the call and discarded at the end; it must
// never be stored on a long-lived object.
//
// Variant pipelines may run concurrently, so the failed-mode memory is
// guarded, and the first attempt at a mode gates the others until it has a
// verdict (see ClaimMode). UsedSet is finalized before those pipelines start
// and is only read afterwards.
type GenerationSession struct {
	mu          sync.Mutex
	failedModes map[TransportMode]struct{}
	verdicts    map[TransportMode]chan struct{}

	Used UsedSet
}

// NewGenerationSession returns an empty session for one generate call.
func NewGenerationSession() *GenerationSession {
	return &GenerationSession{
		failedModes: make(map[TransportMode]struct{}),
		verdicts:    make(map[TransportMode]chan struct{}),
		Used:        UsedSet{},
	}
}

// ClaimMode reports whether the caller makes the first attempt at mode in
// this session. A claimer must call SettleMode once its attempt is over.
// Other callers block until that happens (or ctx ends), after which
// ModeFailed holds the verdict.
func (s *GenerationSession) ClaimMode(ctx context.Context, mode TransportMode) (bool, error) {
	s.mu.Lock()
	ch, ok := s.verdicts[mode]
	if !ok {
		s.verdicts[mode] = make(chan struct{})
		s.mu.Unlock()
		return true, nil
	}
	s.mu.Unlock()

	select {
	case <-ch:
		return false, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// SettleMode records the outcome of the claimed attempt at mode and releases
// the callers waiting in ClaimMode. Only the first call per mode has effect
// on the gate; failed is always recorded.
func (s *GenerationSession) SettleMode(mode TransportMode, failed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if failed {
		s.failedModes[mode] = struct{}{}
	}

	ch, ok := s.verdicts[mode]
	if !ok {
		ch = make(chan struct{})
		s.verdicts[mode] = ch
	}
	select {
	case <-ch:
	default:
		close(ch)
	}
}

// MarkModeFailed remembers that mode timed out in this session.
func (s *GenerationSession) MarkModeFailed(mode TransportMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failedModes[mode] = struct{}{}
}

// ModeFailed reports whether mode timed out earlier in this session.
func (s *GenerationSession) ModeFailed(mode TransportMode) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.failedModes[mode]
	return ok
}

// FailedModes returns a snapshot of the modes recorded as failed.
func (s *GenerationSession) FailedModes() []TransportMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TransportMode, 0, len(s.failedModes))
	for m := range s.failedModes {
		out = append(out, m)
	}
	return out
}
