// Package arena implements Felico's generational-handle arena: a dense
// append-only store whose handles embed a per-arena random cookie and
// a per-slot generation counter, so a handle outlived by a remove
// fails validation instead of aliasing whatever reoccupies its slot
// (spec.md §4.7).
package arena

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// Handle identifies one arena slot. The zero Handle is never valid:
// Add always returns a Handle with index >= 0, and a fresh arena's
// randomized cookie makes an unset cookie field fail validation.
type Handle struct {
	cookie     uint8
	generation uint8
	index      uint32
}

var (
	// ErrWrongCookie is returned when a handle minted by a different
	// arena is presented to Get/Remove.
	ErrWrongCookie = errors.New("Wrong cookie used to access arena")
	// ErrStaleGeneration is returned when a handle's slot has been
	// removed and reoccupied since the handle was minted.
	ErrStaleGeneration = errors.New("Generation mismatch")
)

type slotState uint8

const (
	occupied slotState = iota
	free
)

type slot[T any] struct {
	state      slotState
	generation uint8
	value      T
}

// Arena is a generational store of values of type T.
type Arena[T any] struct {
	cookie   uint8
	slots    []slot[T]
	freelist []uint32
}

// New creates an empty Arena with a freshly randomized cookie.
func New[T any]() *Arena[T] {
	return &Arena[T]{cookie: uint8(1 + rand.IntN(255))}
}

// Add stores value in a new or reused slot and returns its handle. A
// reused slot keeps its post-removal generation, matching the Free
// state's generation established by Remove.
func (a *Arena[T]) Add(value T) Handle {
	if n := len(a.freelist); n > 0 {
		idx := a.freelist[n-1]
		a.freelist = a.freelist[:n-1]
		s := &a.slots[idx]
		s.state = occupied
		s.value = value
		return Handle{cookie: a.cookie, generation: s.generation, index: idx}
	}
	idx := uint32(len(a.slots))
	a.slots = append(a.slots, slot[T]{state: occupied, generation: 0, value: value})
	return Handle{cookie: a.cookie, generation: 0, index: idx}
}

func (a *Arena[T]) validate(h Handle) (*slot[T], error) {
	if h.cookie != a.cookie {
		return nil, ErrWrongCookie
	}
	if int(h.index) >= len(a.slots) {
		return nil, ErrWrongCookie
	}
	s := &a.slots[h.index]
	if s.generation != h.generation {
		return nil, ErrStaleGeneration
	}
	if s.state == free {
		return nil, fmt.Errorf("Arena is free at index %d", h.index)
	}
	return s, nil
}

// Get returns the value stored at h, or an error if h is invalid.
func (a *Arena[T]) Get(h Handle) (T, error) {
	s, err := a.validate(h)
	if err != nil {
		var zero T
		return zero, err
	}
	return s.value, nil
}

// Remove invalidates h's slot, bumping its generation and returning it
// to the freelist for reuse by a later Add.
func (a *Arena[T]) Remove(h Handle) error {
	s, err := a.validate(h)
	if err != nil {
		return err
	}
	s.state = free
	s.generation++
	var zero T
	s.value = zero
	a.freelist = append(a.freelist, h.index)
	return nil
}

// Stats summarizes an arena's occupancy for introspection/debugging.
type Stats struct {
	Len    int
	Live   int
	Free   int
	Cookie uint8
}

// Stats reports the arena's current slot counts and cookie.
func (a *Arena[T]) Stats() Stats {
	st := Stats{Len: len(a.slots), Cookie: a.cookie}
	for i := range a.slots {
		if a.slots[i].state == occupied {
			st.Live++
		} else {
			st.Free++
		}
	}
	return st
}
