package uvm

import (
	"github.com/abhishekprajapatt/gpu-vmm/uvm/addr"
	"github.com/abhishekprajapatt/gpu-vmm/uvm/pagetable"
	"github.com/abhishekprajapatt/gpu-vmm/uvm/tlb"
)

// tlbAdapter adapts the tlb package's address-only Entry to the richer
// pagetable.Entry the facade otherwise passes around, so the facade never
// has to duplicate residency fields in two shapes.
type tlbAdapter struct {
	t *tlb.TLB
}

func newTLBAdapter(size, associativity int) *tlbAdapter {
	return &tlbAdapter{t: tlb.New(size, associativity)}
}

func (a *tlbAdapter) Lookup(vpn addr.VPN) (pagetable.Entry, bool) {
	e, ok := a.t.Lookup(vpn)
	if !ok {
		return pagetable.Entry{}, false
	}
	return pagetable.Entry{
		VPN:            vpn,
		Valid:          true,
		ResidentHost:   e.HostAddr != nil,
		ResidentDevice: e.DeviceAddr != 0,
		HostAddr:       e.HostAddr,
		DeviceAddr:     e.DeviceAddr,
	}, true
}

func (a *tlbAdapter) Insert(vpn addr.VPN, e pagetable.Entry) {
	a.t.Insert(vpn, tlb.Entry{
		VPN:        vpn,
		HostAddr:   e.HostAddr,
		DeviceAddr: e.DeviceAddr,
		Valid:      true,
	})
}

func (a *tlbAdapter) Invalidate(vpn addr.VPN) { a.t.Invalidate(vpn) }
func (a *tlbAdapter) Flush()                  { a.t.Flush() }
func (a *tlbAdapter) HitRate() float64        { return a.t.HitRate() }
func (a *tlbAdapter) ResetStats()             { a.t.ResetStats() }
