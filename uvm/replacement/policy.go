// Package replacement implements the page-replacement policies that
// choose which resident device page to evict under memory pressure.
package replacement

import "github.com/abhishekprajapatt/gpu-vmm/uvm/addr"

// Policy tracks the device-resident working set and selects eviction
// victims. Implementations are internally synchronized.
type Policy interface {
	// OnAllocated admits vpn into the candidate pool.
	OnAllocated(vpn addr.VPN)
	// OnAccess signals that vpn was just accessed.
	OnAccess(vpn addr.VPN)
	// OnFreed removes vpn from the candidate pool.
	OnFreed(vpn addr.VPN)
	// SelectVictim picks one candidate to evict, or 0 if the pool is empty.
	SelectVictim() addr.VPN
}

// Kind names a selectable replacement policy.
type Kind int

const (
	// LRUKind selects the least-recently-accessed candidate.
	LRUKind Kind = iota
	// CLOCKKind approximates LRU with a circular reference-bit sweep.
	CLOCKKind
)

// New constructs a Policy of the given kind with the given candidate-pool
// capacity.
func New(kind Kind, maxPages int) Policy {
	switch kind {
	case CLOCKKind:
		return NewCLOCK(maxPages)
	default:
		return NewLRU(maxPages)
	}
}
