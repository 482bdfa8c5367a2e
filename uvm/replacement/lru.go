package replacement

import (
	"container/list"
	"sync"

	"github.com/abhishekprajapatt/gpu-vmm/uvm/addr"
)

// LRU orders candidates by recency of access. The candidate pool is a
// doubly linked list (most-recently-used at the tail) with a side map for
// O(1) membership and node lookup, so OnAccess can splice a touched page
// to the tail instead of merely checking whether it is present.
type LRU struct {
	mu       sync.Mutex
	maxPages int
	order    *list.List
	nodes    map[addr.VPN]*list.Element
}

// NewLRU constructs an LRU policy with the given candidate-pool capacity.
// A non-positive maxPages means unbounded.
func NewLRU(maxPages int) *LRU {
	return &LRU{
		maxPages: maxPages,
		order:    list.New(),
		nodes:    make(map[addr.VPN]*list.Element),
	}
}

// OnAllocated appends vpn to the most-recently-used end. If the pool now
// exceeds its capacity, the least-recently-used candidate is dropped.
func (p *LRU) OnAllocated(vpn addr.VPN) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.nodes[vpn]; exists {
		return
	}

	p.nodes[vpn] = p.order.PushBack(vpn)

	if p.maxPages > 0 && p.order.Len() > p.maxPages {
		front := p.order.Front()
		p.order.Remove(front)
		delete(p.nodes, front.Value.(addr.VPN))
	}
}

// OnAccess moves vpn to the most-recently-used end, so a page touched
// right before eviction pressure is not the next victim.
func (p *LRU) OnAccess(vpn addr.VPN) {
	p.mu.Lock()
	defer p.mu.Unlock()

	node, ok := p.nodes[vpn]
	if !ok {
		return
	}
	p.order.MoveToBack(node)
}

// OnFreed removes vpn from the candidate pool.
func (p *LRU) OnFreed(vpn addr.VPN) {
	p.mu.Lock()
	defer p.mu.Unlock()

	node, ok := p.nodes[vpn]
	if !ok {
		return
	}
	p.order.Remove(node)
	delete(p.nodes, vpn)
}

// SelectVictim removes and returns the least-recently-used candidate, or 0
// if the pool is empty.
func (p *LRU) SelectVictim() addr.VPN {
	p.mu.Lock()
	defer p.mu.Unlock()

	front := p.order.Front()
	if front == nil {
		return 0
	}

	vpn := front.Value.(addr.VPN)
	p.order.Remove(front)
	delete(p.nodes, vpn)
	return vpn
}
