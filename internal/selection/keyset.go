// Package selection keeps the detail view's filter in step with the cells a
// user selects in the grid.
//
// The state is a set of location keys. Every selected cell contributes its
// column label ("B"), its displayed row number ("3") and the cell address
// ("B3"). [Reduce] folds one widget event into the set and [FilterExpression]
// derives the detail filter from it; both are pure. [Synchronizer] wires them
// to a widget and a detail view.
package selection

import "slices"

// KeySet is an insertion-ordered set of location keys. The zero value is an
// empty set. Values are treated as immutable: Add and Remove return new sets.
type KeySet struct {
	keys []string
}

// NewKeySet returns a set holding keys in first-seen order.
func NewKeySet(keys ...string) KeySet {
	return KeySet{}.Add(keys...)
}

// Add returns a set that also contains keys. Empty and already present keys
// are skipped.
func (s KeySet) Add(keys ...string) KeySet {
	out := KeySet{keys: slices.Clone(s.keys)}
	for _, k := range keys {
		if k == "" || slices.Contains(out.keys, k) {
			continue
		}
		out.keys = append(out.keys, k)
	}
	return out
}

// Remove returns a set without keys. Absent keys are ignored.
func (s KeySet) Remove(keys ...string) KeySet {
	out := KeySet{keys: make([]string, 0, len(s.keys))}
	for _, k := range s.keys {
		if !slices.Contains(keys, k) {
			out.keys = append(out.keys, k)
		}
	}
	return out
}

func (s KeySet) Contains(key string) bool { return slices.Contains(s.keys, key) }

func (s KeySet) Len() int { return len(s.keys) }

// Keys returns the keys in insertion order.
func (s KeySet) Keys() []string { return slices.Clone(s.keys) }
