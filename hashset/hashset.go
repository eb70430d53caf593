// Package hashset provides Set, an open-addressing hash set using Robin
// Hood hashing.
//
// Set keeps one byte of "wealth" per slot next to the stored value:
// 0 marks an empty slot and 255-d marks a value stored d slots after its
// ideal bucket. Inserts take slots from wealthier (less displaced) values
// and give them to poorer ones, which keeps probe chains short and lets
// the table stay 7/8 full.
//
// Hash functions must spread entropy into the high bits: buckets are
// chosen from the top of the 32-bit hash, so identity hashes of small
// integers cluster badly. Use the helpers in this package.
//
// A Set is not safe for concurrent use.
package hashset

import (
	"iter"
)

const (
	maxWealth = 255

	// Above this capacity the table grows by 1/8 instead of 1/2.
	largeCapacity = 1 << 20
)

// Set is a set of comparable values with a caller-supplied hash.
type Set[T comparable] struct {
	values []T
	wealth []byte
	count  int

	// lowestWealth is the lowest wealth any value has been placed with
	// since the last reset. Lookups never need to probe further than
	// maxWealth-lowestWealth slots. It is not raised again on Remove.
	lowestWealth byte

	hash func(T) uint32
}

// New returns an empty set sized for capacity values before growing.
func New[T comparable](hash func(T) uint32, capacity int) *Set[T] {
	if capacity < 0 {
		capacity = 0
	}
	s := &Set[T]{hash: hash}
	s.reset(capacity + (capacity >> 3) + 1)
	return s
}

func (s *Set[T]) reset(size int) {
	s.values = make([]T, size)
	s.wealth = make([]byte, size)
	s.count = 0
	s.lowestWealth = maxWealth
}

// Len returns the number of values in the set.
func (s *Set[T]) Len() int {
	return s.count
}

// Capacity returns the number of slots currently allocated.
func (s *Set[T]) Capacity() int {
	return len(s.wealth)
}

// Clear removes every value, keeping the allocated slots.
func (s *Set[T]) Clear() {
	clear(s.values)
	clear(s.wealth)
	s.count = 0
	s.lowestWealth = maxWealth
}

// bucket maps a hash to [0, capacity) by treating it as a fixed-point
// fraction of the capacity.
func (s *Set[T]) bucket(hash uint32) int {
	return int((uint64(hash) * uint64(len(s.wealth))) >> 32)
}

func (s *Set[T]) next(bucket int) int {
	bucket++
	if bucket >= len(s.wealth) {
		bucket = 0
	}
	return bucket
}

// Contains reports whether value is in the set.
func (s *Set[T]) Contains(value T) bool {
	return s.indexOf(value) != -1
}

// indexOf scans every slot a value could have been displaced to. Empty
// slots do not end the scan: Remove leaves holes in probe chains.
func (s *Set[T]) indexOf(value T) int {
	bucket := s.bucket(s.hash(value))
	for wealth := maxWealth; wealth >= int(s.lowestWealth); wealth-- {
		if s.wealth[bucket] != 0 && s.values[bucket] == value {
			return bucket
		}
		bucket = s.next(bucket)
	}
	return -1
}

// Remove deletes value from the set and reports whether it was present.
// Later entries are not shifted back.
func (s *Set[T]) Remove(value T) bool {
	index := s.indexOf(value)
	if index == -1 {
		return false
	}

	var zero T
	s.wealth[index] = 0
	s.values[index] = zero
	s.count--
	return true
}

// Add inserts value and reports whether it was added; false means it was
// already present.
func (s *Set[T]) Add(value T) bool {
	// A remove can open a hole earlier in value's probe chain than where a
	// copy already sits, so duplicates are found by lookup, not by probing.
	if s.indexOf(value) != -1 {
		return false
	}
	s.insert(value)
	return true
}

// insert places a value known to be absent.
func (s *Set[T]) insert(value T) {
	if s.count >= len(s.wealth)-(len(s.wealth)>>3) {
		s.expand()
	}

	bucket := s.bucket(s.hash(value))
	for wealth := byte(maxWealth); wealth > 0; wealth-- {
		found := s.wealth[bucket]

		if found == 0 {
			s.wealth[bucket] = wealth
			s.values[bucket] = value
			if wealth < s.lowestWealth {
				s.lowestWealth = wealth
			}
			s.count++
			return
		}

		if found >= wealth {
			// The resident is at least as close to home as the carried
			// value: the carried value takes the slot and the resident
			// moves on with its own wealth.
			moved := s.values[bucket]
			s.wealth[bucket] = wealth
			s.values[bucket] = value
			if wealth < s.lowestWealth {
				s.lowestWealth = wealth
			}

			value = moved
			wealth = found
		}

		bucket = s.next(bucket)
	}

	// Something would land more than 255 slots from home.
	s.expand()
	s.insert(value)
}

// expand rebuilds the table at 1.5x (1.125x once large) the current size.
func (s *Set[T]) expand() {
	shift := 1
	if len(s.wealth) >= largeCapacity {
		shift = 3
	}
	size := len(s.wealth) + (len(s.wealth) >> shift)
	if size == len(s.wealth) {
		size++
	}

	oldValues, oldWealth := s.values, s.wealth
	s.reset(size)

	for i, w := range oldWealth {
		if w > 0 {
			s.insert(oldValues[i])
		}
	}
}

// All returns the values of the set in slot order. Each range over the
// returned sequence starts again from the first slot. The set must not be
// modified while a range is in progress.
func (s *Set[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i, w := range s.wealth {
			if w == 0 {
				continue
			}
			if !yield(s.values[i]) {
				return
			}
		}
	}
}

// DistanceMean returns the average distance of values from their ideal bucket.
func (s *Set[T]) DistanceMean() float64 {
	if s.count == 0 {
		return 0
	}
	var distance uint64
	for _, w := range s.wealth {
		if w > 0 {
			distance += uint64(maxWealth - w)
		}
	}
	return float64(distance) / float64(s.count)
}

// DistanceDistribution returns, for each distance, how many values sit
// that far from their ideal bucket.
func (s *Set[T]) DistanceDistribution() [256]int {
	var result [256]int
	for _, w := range s.wealth {
		if w > 0 {
			result[maxWealth-w]++
		}
	}
	return result
}
