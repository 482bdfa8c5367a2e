// Package pagetable holds the per-VPN residency descriptors that the rest
// of the UVM stack consults to decide whether a page needs to fault,
// migrate, or evict.
package pagetable

import (
	"sync"

	"github.com/abhishekprajapatt/gpu-vmm/uvm/addr"
)

// Entry is the residency descriptor for one virtual page.
type Entry struct {
	VPN addr.VPN

	Valid          bool
	ResidentHost   bool
	ResidentDevice bool
	Dirty          bool
	Pinned         bool

	HostAddr   []byte
	DeviceAddr addr.DeviceAddr

	LastAccessUs int64
	AccessCount  uint64
}

// PageTable maps VPNs to Entry. A single reader-writer lock guards the
// map: lookups and metadata reads take the read side, range allocation and
// flag mutation take the write side.
type PageTable struct {
	mu      sync.RWMutex
	entries map[addr.VPN]*Entry
}

// New creates an empty PageTable.
func New() *PageTable {
	return &PageTable{
		entries: make(map[addr.VPN]*Entry),
	}
}

// AllocateRange creates n fresh, valid, non-resident entries starting at
// start. It fails (returns false) if any VPN in the range already has a
// live entry; no entries are silently overwritten.
func (pt *PageTable) AllocateRange(start addr.VPN, n uint64) bool {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	for i := uint64(0); i < n; i++ {
		if _, exists := pt.entries[start+addr.VPN(i)]; exists {
			return false
		}
	}
	for i := uint64(0); i < n; i++ {
		vpn := start + addr.VPN(i)
		pt.entries[vpn] = &Entry{VPN: vpn, Valid: true}
	}
	return true
}

// DeallocateRange removes the entries for [start, start+n).
func (pt *PageTable) DeallocateRange(start addr.VPN, n uint64) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	for i := uint64(0); i < n; i++ {
		delete(pt.entries, start+addr.VPN(i))
	}
}

// Lookup returns a copy of the entry for vpn, or (Entry{}, false) if none
// exists. It never creates an entry as a side effect.
func (pt *PageTable) Lookup(vpn addr.VPN) (Entry, bool) {
	pt.mu.RLock()
	defer pt.mu.RUnlock()

	e, ok := pt.entries[vpn]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Mutate runs fn against the live entry for vpn under the write lock and
// reports whether an entry existed to mutate. fn must not retain the
// pointer it receives.
func (pt *PageTable) Mutate(vpn addr.VPN, fn func(e *Entry)) bool {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	e, ok := pt.entries[vpn]
	if !ok {
		return false
	}
	fn(e)
	return true
}

// SetHostResident records host residency (or its absence) and the host
// slot backing it.
func (pt *PageTable) SetHostResident(vpn addr.VPN, resident bool, slot []byte) bool {
	return pt.Mutate(vpn, func(e *Entry) {
		e.ResidentHost = resident
		if resident {
			e.HostAddr = slot
		} else {
			e.HostAddr = nil
		}
	})
}

// SetDeviceResident records device residency (or its absence) and the
// device slot address backing it.
func (pt *PageTable) SetDeviceResident(vpn addr.VPN, resident bool, da addr.DeviceAddr) bool {
	return pt.Mutate(vpn, func(e *Entry) {
		e.ResidentDevice = resident
		if resident {
			e.DeviceAddr = da
		} else {
			e.DeviceAddr = 0
		}
	})
}

// MarkDirty sets the dirty flag.
func (pt *PageTable) MarkDirty(vpn addr.VPN) bool {
	return pt.Mutate(vpn, func(e *Entry) { e.Dirty = true })
}

// ClearDirty clears the dirty flag.
func (pt *PageTable) ClearDirty(vpn addr.VPN) bool {
	return pt.Mutate(vpn, func(e *Entry) { e.Dirty = false })
}

// SetPinned sets or clears the pinned flag.
func (pt *PageTable) SetPinned(vpn addr.VPN, pinned bool) bool {
	return pt.Mutate(vpn, func(e *Entry) { e.Pinned = pinned })
}

// UpdateAccess bumps the access counter and timestamp.
func (pt *PageTable) UpdateAccess(vpn addr.VPN, nowUs int64) bool {
	return pt.Mutate(vpn, func(e *Entry) {
		e.LastAccessUs = nowUs
		e.AccessCount++
	})
}

// Entries returns a snapshot of every valid entry.
func (pt *PageTable) Entries() []Entry {
	pt.mu.RLock()
	defer pt.mu.RUnlock()

	out := make([]Entry, 0, len(pt.entries))
	for _, e := range pt.entries {
		if e.Valid {
			out = append(out, *e)
		}
	}
	return out
}

// Clear drops every entry.
func (pt *PageTable) Clear() {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.entries = make(map[addr.VPN]*Entry)
}
