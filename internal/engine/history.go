package engine

import "golang.org/x/exp/maps"

// History is the set of position hashes that count as repetitions for a
// search: an optional seed supplied by the caller plus the hashes of the
// positions on the current search path.
//
// A History is immutable. With returns an extended copy that shares its
// parent, so sibling subtrees never observe each other's path.
type History struct {
	seed map[uint64]struct{}
	path *pathNode
}

type pathNode struct {
	hash   uint64
	parent *pathNode
}

// NewHistory returns a history seeded with the given hashes.
func NewHistory(hashes ...uint64) History {
	if len(hashes) == 0 {
		return History{}
	}
	seed := make(map[uint64]struct{}, len(hashes))
	for _, h := range hashes {
		seed[h] = struct{}{}
	}
	return History{seed: seed}
}

// With returns a history that also contains hash.
func (h History) With(hash uint64) History {
	return History{
		seed: h.seed,
		path: &pathNode{hash: hash, parent: h.path},
	}
}

// Contains reports whether hash has been seen.
func (h History) Contains(hash uint64) bool {
	if _, ok := h.seed[hash]; ok {
		return true
	}
	for n := h.path; n != nil; n = n.parent {
		if n.hash == hash {
			return true
		}
	}
	return false
}

// Hashes returns every distinct hash in the history, in no particular order.
func (h History) Hashes() []uint64 {
	set := maps.Clone(h.seed)
	if set == nil {
		set = make(map[uint64]struct{})
	}
	for n := h.path; n != nil; n = n.parent {
		set[n.hash] = struct{}{}
	}
	return maps.Keys(set)
}

// Len returns the number of distinct hashes in the history.
func (h History) Len() int {
	return len(h.Hashes())
}

// Digest folds the distinct hashes into a single value. Two histories with
// the same contents have the same digest regardless of insertion order.
func (h History) Digest() uint64 {
	var d uint64
	for _, k := range h.Hashes() {
		d ^= k
	}
	return d
}
