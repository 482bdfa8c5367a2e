// Package tlb implements a set-associative translation cache mapping
// virtual page numbers to the host and device addresses that currently
// back them.
package tlb

import (
	"sync"

	"github.com/abhishekprajapatt/gpu-vmm/uvm/addr"
)

// Entry is one cached translation.
type Entry struct {
	VPN        addr.VPN
	HostAddr   []byte
	DeviceAddr addr.DeviceAddr
	Valid      bool
}

type way struct {
	entry     Entry
	lastUseUs int64
	occupied  bool
}

// TLB is a fixed-size set-associative translation cache.
type TLB struct {
	mu sync.Mutex

	associativity int
	numSets       int
	sets          [][]way

	hits   uint64
	misses uint64

	clock int64
}

// New builds a TLB with size entries spread over size/associativity sets.
func New(size, associativity int) *TLB {
	if associativity <= 0 {
		associativity = 1
	}
	numSets := size / associativity
	if numSets <= 0 {
		numSets = 1
	}

	sets := make([][]way, numSets)
	for i := range sets {
		sets[i] = make([]way, 0, associativity)
	}

	return &TLB{
		associativity: associativity,
		numSets:       numSets,
		sets:          sets,
	}
}

// Lookup searches the set for vpn. On hit it refreshes the entry's
// recency, increments the hit counter and returns (entry, true). On miss
// it increments the miss counter and returns (Entry{}, false).
func (t *TLB) Lookup(vpn addr.VPN) (Entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	set := t.sets[addr.SetIndex(vpn, t.numSets)]
	for i := range set {
		if set[i].occupied && set[i].entry.VPN == vpn {
			t.clock++
			set[i].lastUseUs = t.clock
			t.hits++
			return set[i].entry, true
		}
	}

	t.misses++
	return Entry{}, false
}

// Insert installs entry for vpn, overwriting an existing way for the same
// VPN in place, filling an empty way if one exists, or evicting the
// least-recently-used way in the set otherwise.
func (t *TLB) Insert(vpn addr.VPN, e Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := addr.SetIndex(vpn, t.numSets)
	set := t.sets[idx]
	t.clock++

	for i := range set {
		if set[i].occupied && set[i].entry.VPN == vpn {
			set[i].entry = e
			set[i].lastUseUs = t.clock
			return
		}
	}

	if len(set) < t.associativity {
		set = append(set, way{entry: e, lastUseUs: t.clock, occupied: true})
		t.sets[idx] = set
		return
	}

	victim := 0
	for i := 1; i < len(set); i++ {
		if set[i].lastUseUs < set[victim].lastUseUs {
			victim = i
		}
	}
	set[victim] = way{entry: e, lastUseUs: t.clock, occupied: true}
}

// Invalidate removes vpn's entry from its set, if present.
func (t *TLB) Invalidate(vpn addr.VPN) {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := addr.SetIndex(vpn, t.numSets)
	set := t.sets[idx]
	for i := range set {
		if set[i].occupied && set[i].entry.VPN == vpn {
			t.sets[idx] = append(set[:i], set[i+1:]...)
			return
		}
	}
}

// Flush clears every set.
func (t *TLB) Flush() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.sets {
		t.sets[i] = t.sets[i][:0]
	}
}

// HitRate returns hits / (hits+misses), or 0 if there have been no lookups.
func (t *TLB) HitRate() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	total := t.hits + t.misses
	if total == 0 {
		return 0
	}
	return float64(t.hits) / float64(total)
}

// Stats returns the raw hit/miss counters.
func (t *TLB) Stats() (hits, misses uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hits, t.misses
}

// ResetStats zeroes the hit/miss counters without touching cached entries.
func (t *TLB) ResetStats() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.hits, t.misses = 0, 0
}
