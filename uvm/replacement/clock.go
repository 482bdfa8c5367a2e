package replacement

import (
	"sync"

	"github.com/abhishekprajapatt/gpu-vmm/uvm/addr"
)

type clockEntry struct {
	vpn     addr.VPN
	referenced bool
}

// CLOCK approximates LRU with a circular reference-bit sweep. SelectVictim
// returns and removes the entry the hand currently points to when that
// entry's bit is clear, advancing the hand past the removed slot — not
// past some other slot, which is the defect this rendition corrects (the
// hand must never advance before the inspected slot is removed, or the
// removal and the inspection target diverge).
type CLOCK struct {
	mu       sync.Mutex
	maxPages int
	entries  []clockEntry
	handPos  int
	index    map[addr.VPN]int
}

// NewCLOCK constructs a CLOCK policy with the given candidate-pool
// capacity. A non-positive maxPages means unbounded.
func NewCLOCK(maxPages int) *CLOCK {
	return &CLOCK{
		maxPages: maxPages,
		index:    make(map[addr.VPN]int),
	}
}

// OnAllocated appends vpn to the end of the circular buffer. If capacity is
// then exceeded, the candidate under the hand is dropped.
func (p *CLOCK) OnAllocated(vpn addr.VPN) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.index[vpn]; exists {
		return
	}

	p.entries = append(p.entries, clockEntry{vpn: vpn})
	p.reindexFrom(0)

	if p.maxPages > 0 && len(p.entries) > p.maxPages {
		p.removeAt(p.handPos % len(p.entries))
	}
}

// OnAccess sets vpn's reference bit.
func (p *CLOCK) OnAccess(vpn addr.VPN) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if i, ok := p.index[vpn]; ok {
		p.entries[i].referenced = true
	}
}

// OnFreed removes vpn from the circular buffer and fixes up the hand.
func (p *CLOCK) OnFreed(vpn addr.VPN) {
	p.mu.Lock()
	defer p.mu.Unlock()

	i, ok := p.index[vpn]
	if !ok {
		return
	}
	p.removeAt(i)
}

// SelectVictim sweeps from the hand: a clear reference bit is returned and
// removed immediately, with the hand left pointing at the slot that took
// its place; a set bit is cleared and the hand advances. If a full sweep
// finds nothing clear, the entry at the hand is taken unconditionally.
func (p *CLOCK) SelectVictim() addr.VPN {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.entries)
	if n == 0 {
		return 0
	}

	for sweeps := 0; sweeps < n; sweeps++ {
		p.handPos %= len(p.entries)
		if !p.entries[p.handPos].referenced {
			vpn := p.entries[p.handPos].vpn
			p.removeAt(p.handPos)
			return vpn
		}
		p.entries[p.handPos].referenced = false
		p.handPos++
	}

	p.handPos %= len(p.entries)
	vpn := p.entries[p.handPos].vpn
	p.removeAt(p.handPos)
	return vpn
}

// removeAt deletes entries[i], reindexes the tail, and keeps the hand
// pointing at the same logical successor rather than skipping an entry.
func (p *CLOCK) removeAt(i int) {
	vpn := p.entries[i].vpn
	p.entries = append(p.entries[:i], p.entries[i+1:]...)
	delete(p.index, vpn)
	p.reindexFrom(i)

	if len(p.entries) == 0 {
		p.handPos = 0
		return
	}
	if p.handPos > i {
		p.handPos--
	}
	p.handPos %= len(p.entries)
}

func (p *CLOCK) reindexFrom(start int) {
	for i := start; i < len(p.entries); i++ {
		p.index[p.entries[i].vpn] = i
	}
}
