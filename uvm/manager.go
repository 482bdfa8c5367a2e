// Package uvm is the facade over the page table, page allocator, TLB,
// replacement policy, and migration manager: it exposes allocate/free/
// touch/read/write and drives fault resolution and eviction.
package uvm

import (
	"sync"
	"time"

	"github.com/abhishekprajapatt/gpu-vmm/uvm/addr"
	"github.com/abhishekprajapatt/gpu-vmm/uvm/ledger"
	"github.com/abhishekprajapatt/gpu-vmm/uvm/migration"
	"github.com/abhishekprajapatt/gpu-vmm/uvm/pagetable"
	"github.com/abhishekprajapatt/gpu-vmm/uvm/replacement"
)

// PageAllocator is the subset of pageallocator.Allocator the facade
// depends on. Declaring it as an interface lets tests substitute a
// go.uber.org/mock double for the real bitmap allocator.
type PageAllocator interface {
	AllocateHost() ([]byte, bool)
	DeallocateHost(slot []byte)
	AllocateDevice() addr.DeviceAddr
	DeallocateDevice(da addr.DeviceAddr)
	AvailableHostPages() int
	TotalHostPages() int
	AvailableDevicePages() int
	TotalDevicePages() int
	UsedHostPages() int
	UsedDevicePages() int
}

// Migrator is the subset of migration.Manager the facade depends on.
type Migrator interface {
	MigrateHostToDevice(vpn addr.VPN, hostSlot []byte, deviceAddr addr.DeviceAddr, n uint64) migration.Result
	MigrateDeviceToHost(vpn addr.VPN, deviceAddr addr.DeviceAddr, hostSlot []byte, n uint64) migration.Result
	AsyncMigrateHostToDevice(vpn addr.VPN, hostSlot []byte, deviceAddr addr.DeviceAddr, n uint64)
	AsyncMigrateDeviceToHost(vpn addr.VPN, deviceAddr addr.DeviceAddr, hostSlot []byte, n uint64)
	PendingMigrations() int
	WaitForMigrations()
	Shutdown()
}

type allocation struct {
	startVPN addr.VPN
	numPages uint64
}

// Manager is the unified-virtual-memory facade. Exactly one instance is
// meant to be live per process; obtain it through Initialize/Instance.
type Manager struct {
	mu sync.RWMutex

	cfg Config
	log *Logger

	alloc   PageAllocator
	pt      *pagetable.PageTable
	tlb     *tlbAdapter
	policy  replacement.Policy
	migrate Migrator
	ledger  *ledger.Ledger

	counters PerfCounters

	nextVPN      addr.VPN
	allocations  map[addr.Address]allocation
	deviceLedger map[addr.VPN]struct{}
}

// newManager builds a Manager from already-constructed dependencies. It is
// the seam unit tests use to inject mocks; Initialize uses it with the
// real concrete implementations.
func newManager(cfg Config, alloc PageAllocator, pt *pagetable.PageTable, t *tlbAdapter, policy replacement.Policy, mig Migrator, evLedger *ledger.Ledger) *Manager {
	m := &Manager{
		cfg:          cfg,
		log:          NewLogger(cfg.LogLevel),
		alloc:        alloc,
		pt:           pt,
		tlb:          t,
		policy:       policy,
		migrate:      mig,
		ledger:       evLedger,
		nextVPN:      1,
		allocations:  make(map[addr.Address]allocation),
		deviceLedger: make(map[addr.VPN]struct{}),
	}
	return m
}

// Allocate reserves ceil(bytes/PageSize) pages of virtual address space,
// backs each with a host slot, and returns the base virtual address, or 0
// if the host pool cannot satisfy the request (any slots already taken
// for this call are released first). If prefetch is true, each page is
// also given a device slot and synchronously migrated host-to-device;
// failure to do so is logged and the page is left host-only.
func (m *Manager) Allocate(bytes uint64, prefetch bool) addr.Address {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := addr.PagesFor(bytes, m.cfg.PageSize)
	start := m.nextVPN

	if !m.pt.AllocateRange(start, n) {
		m.log.Errorf("allocate: vpn range [%d,%d) already live", start, uint64(start)+n)
		return 0
	}

	slots := make([][]byte, 0, n)
	for i := uint64(0); i < n; i++ {
		slot, ok := m.alloc.AllocateHost()
		if !ok {
			for _, s := range slots {
				m.alloc.DeallocateHost(s)
			}
			m.pt.DeallocateRange(start, n)
			m.log.Warnf("allocate: host pool exhausted after %d/%d pages", len(slots), n)
			return 0
		}
		slots = append(slots, slot)
	}

	m.nextVPN += addr.VPN(n)

	for i := uint64(0); i < n; i++ {
		vpn := start + addr.VPN(i)
		m.pt.SetHostResident(vpn, true, slots[i])
		m.policy.OnAllocated(vpn)

		if prefetch {
			m.prefetchPageLocked(vpn, slots[i])
		}
	}

	base := start.VAddr(m.cfg.PageSize)
	m.allocations[base] = allocation{startVPN: start, numPages: n}
	return base
}

func (m *Manager) prefetchPageLocked(vpn addr.VPN, hostSlot []byte) {
	da := m.alloc.AllocateDevice()
	if da == 0 {
		m.log.Debugf("prefetch: device pool exhausted for vpn %d, staying host-only", vpn)
		return
	}

	res := m.migrate.MigrateHostToDevice(vpn, hostSlot, da, m.cfg.PageSize)
	if !res.OK {
		m.alloc.DeallocateDevice(da)
		return
	}

	m.deviceLedger[vpn] = struct{}{}
	m.counters.incPrefetches()
}

// Free releases every page in the allocation that began at vaddr: both
// domain slots, the TLB entries, the replacement-policy membership, and
// the page-table entries. An unmapped vaddr is a logged no-op. The
// allocation's page count is read back from the facade's own bookkeeping
// rather than re-derived by scanning the page table, which is both
// simpler and avoids the overcounting a VPN-range scan is prone to when
// multiple allocations are adjacent.
func (m *Manager) Free(vaddr addr.Address) {
	m.mu.Lock()
	defer m.mu.Unlock()

	al, ok := m.allocations[vaddr]
	if !ok {
		m.log.Warnf("free: vaddr 0x%x is not a live allocation", uint64(vaddr))
		return
	}
	delete(m.allocations, vaddr)

	for i := uint64(0); i < al.numPages; i++ {
		vpn := al.startVPN + addr.VPN(i)
		m.freePageLocked(vpn)
	}

	m.pt.DeallocateRange(al.startVPN, al.numPages)
}

func (m *Manager) freePageLocked(vpn addr.VPN) {
	e, ok := m.pt.Lookup(vpn)
	if !ok {
		return
	}
	if e.ResidentHost && e.HostAddr != nil {
		m.alloc.DeallocateHost(e.HostAddr)
	}
	if e.ResidentDevice {
		m.alloc.DeallocateDevice(e.DeviceAddr)
	}

	delete(m.deviceLedger, vpn)
	m.policy.OnFreed(vpn)
	m.tlb.Invalidate(vpn)
}

// TouchPage translates vaddr, guaranteeing host residency (resolving a
// fault if necessary) whenever the entry is not currently host-resident —
// not only when the VPN has never been allocated. Checking residency
// rather than existence is required so a page that has been migrated away
// from the host domain is pulled back on its next touch instead of being
// treated as already satisfied. On is_write, the page is marked dirty.
func (m *Manager) TouchPage(vaddr addr.Address, isWrite bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	vpn := vaddr.ToVPN(m.cfg.PageSize)

	if _, hit := m.tlbLookup(vpn); !hit {
		m.counters.recordTLB(false)
	} else {
		m.counters.recordTLB(true)
	}

	e, ok := m.pt.Lookup(vpn)
	if !ok {
		m.log.Errorf("touch: vaddr 0x%x has no live mapping", uint64(vaddr))
		return false
	}

	if !e.ResidentHost {
		m.counters.incPageFaults()
		if !m.resolveFaultLocked(vpn, domainHost) {
			return false
		}
		e, _ = m.pt.Lookup(vpn)
	}

	m.pt.UpdateAccess(vpn, nowMicros())
	if isWrite {
		m.pt.MarkDirty(vpn)
	}
	m.policy.OnAccess(vpn)
	m.tlbInsert(vpn, e)

	return true
}

// ReadFromVAddr ensures host residency for vaddr and copies n bytes from
// its host slot into out.
func (m *Manager) ReadFromVAddr(vaddr addr.Address, out []byte, n uint64) bool {
	if !m.TouchPage(vaddr, false) {
		return false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	vpn := vaddr.ToVPN(m.cfg.PageSize)
	e, ok := m.pt.Lookup(vpn)
	if !ok || !e.ResidentHost {
		return false
	}

	offset := uint64(vaddr) - uint64(vpn.VAddr(m.cfg.PageSize))
	copy(out, e.HostAddr[offset:offset+n])
	return true
}

// WriteToVAddr ensures host residency for vaddr, copies n bytes from buf
// into its host slot, and marks the page dirty.
func (m *Manager) WriteToVAddr(vaddr addr.Address, buf []byte, n uint64) bool {
	if !m.TouchPage(vaddr, true) {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	vpn := vaddr.ToVPN(m.cfg.PageSize)
	e, ok := m.pt.Lookup(vpn)
	if !ok || !e.ResidentHost {
		return false
	}

	offset := uint64(vaddr) - uint64(vpn.VAddr(m.cfg.PageSize))
	copy(e.HostAddr[offset:offset+n], buf)
	m.pt.MarkDirty(vpn)
	return true
}

type domain int

const (
	domainHost domain = iota
	domainDevice
)

// MapToHost forces host residency for vaddr's page, migrating from the
// device domain if the page is device-resident.
func (m *Manager) MapToHost(vaddr addr.Address) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resolveFaultLocked(vaddr.ToVPN(m.cfg.PageSize), domainHost)
}

// MapToDevice forces device residency for vaddr's page, evicting a victim
// if the device pool is full.
func (m *Manager) MapToDevice(vaddr addr.Address) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters.incKernelLaunches()
	return m.resolveFaultLocked(vaddr.ToVPN(m.cfg.PageSize), domainDevice)
}

// PrefetchToDevice is MapToDevice without the implied kernel-launch
// counter bump, for callers that are warming the device ahead of use
// rather than about to run a kernel against it.
func (m *Manager) PrefetchToDevice(vaddr addr.Address) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	ok := m.resolveFaultLocked(vaddr.ToVPN(m.cfg.PageSize), domainDevice)
	if ok {
		m.counters.incPrefetches()
	}
	return ok
}

// resolveFaultLocked implements the fault-resolution algorithm: it is a
// no-op if the target is already resident, otherwise it allocates (or
// evicts for) a target-domain slot, migrates from the source domain if
// one is resident, and marks the target resident. Unlike allocating a
// device slot and marking the page resident regardless of whether the
// slot allocation actually succeeded, a second, post-eviction allocation
// failure aborts the fault outright — the access is lost rather than the
// page table lying about residency.
func (m *Manager) resolveFaultLocked(vpn addr.VPN, target domain) bool {
	e, ok := m.pt.Lookup(vpn)
	if !ok {
		m.log.Errorf("fault: vpn %d has no live mapping", vpn)
		return false
	}

	if (target == domainHost && e.ResidentHost) || (target == domainDevice && e.ResidentDevice) {
		return true
	}

	switch target {
	case domainDevice:
		return m.resolveDeviceFaultLocked(vpn, e)
	default:
		return m.resolveHostFaultLocked(vpn, e)
	}
}

func (m *Manager) resolveDeviceFaultLocked(vpn addr.VPN, e pagetable.Entry) bool {
	da := m.alloc.AllocateDevice()
	if da == 0 {
		m.evictFromDeviceLocked()
		da = m.alloc.AllocateDevice()
		if da == 0 {
			m.log.Warnf("fault: device pool exhausted, aborting fault for vpn %d", vpn)
			return false
		}
	}

	if e.ResidentHost {
		res := m.migrate.MigrateHostToDevice(vpn, e.HostAddr, da, m.cfg.PageSize)
		if !res.OK {
			m.alloc.DeallocateDevice(da)
			m.log.Errorf("fault: migration aborted for vpn %d, vpn no longer live", vpn)
			return false
		}
	} else {
		m.pt.SetDeviceResident(vpn, true, da)
	}

	m.deviceLedger[vpn] = struct{}{}
	m.policy.OnAllocated(vpn)
	return true
}

func (m *Manager) resolveHostFaultLocked(vpn addr.VPN, e pagetable.Entry) bool {
	slot, ok := m.alloc.AllocateHost()
	if !ok {
		m.log.Warnf("fault: host pool exhausted, aborting fault for vpn %d", vpn)
		return false
	}

	if e.ResidentDevice {
		res := m.migrate.MigrateDeviceToHost(vpn, e.DeviceAddr, slot, m.cfg.PageSize)
		if !res.OK {
			m.alloc.DeallocateHost(slot)
			m.log.Errorf("fault: migration aborted for vpn %d, vpn no longer live", vpn)
			return false
		}
	} else {
		m.pt.SetHostResident(vpn, true, slot)
	}

	return true
}

// evictFromDeviceLocked selects a victim via the replacement policy
// (falling back to any ledger member if the policy has none queued),
// migrates it back to the host domain if it is dirty, releases its
// device slot, and removes it from residency tracking.
func (m *Manager) evictFromDeviceLocked() {
	victim := m.policy.SelectVictim()
	if victim == 0 {
		victim = m.anyLedgerMember()
	}
	if victim == 0 {
		return
	}

	e, ok := m.pt.Lookup(victim)
	if !ok {
		delete(m.deviceLedger, victim)
		return
	}

	if e.Pinned {
		// A pinned victim must never be evicted; the policy already
		// excludes pinned pages from its candidate pool, so reaching here
		// means the ledger fallback picked one. Skip it.
		return
	}

	if e.Dirty && e.ResidentHost {
		m.migrate.MigrateDeviceToHost(victim, e.DeviceAddr, e.HostAddr, m.cfg.PageSize)
	}

	m.alloc.DeallocateDevice(e.DeviceAddr)
	m.pt.SetDeviceResident(victim, false, 0)
	delete(m.deviceLedger, victim)
	m.counters.incEvictions()
	m.tlb.Invalidate(victim)
}

func (m *Manager) anyLedgerMember() addr.VPN {
	for vpn := range m.deviceLedger {
		return vpn
	}
	return 0
}

// Pin marks every page in the allocation starting at vaddr ineligible for
// eviction.
func (m *Manager) Pin(vaddr addr.Address) {
	m.mu.Lock()
	defer m.mu.Unlock()

	al, ok := m.allocations[vaddr]
	if !ok {
		return
	}
	for i := uint64(0); i < al.numPages; i++ {
		vpn := al.startVPN + addr.VPN(i)
		m.pt.SetPinned(vpn, true)
		m.policy.OnFreed(vpn)
	}
}

// Unpin reverses Pin and re-admits the pages to the replacement policy's
// candidate pool.
func (m *Manager) Unpin(vaddr addr.Address) {
	m.mu.Lock()
	defer m.mu.Unlock()

	al, ok := m.allocations[vaddr]
	if !ok {
		return
	}
	for i := uint64(0); i < al.numPages; i++ {
		vpn := al.startVPN + addr.VPN(i)
		m.pt.SetPinned(vpn, false)
		if _, resident := m.deviceLedger[vpn]; resident {
			m.policy.OnAllocated(vpn)
		}
	}
}

// SyncAllMigrations blocks until every outstanding asynchronous migration
// has completed.
func (m *Manager) SyncAllMigrations() {
	m.migrate.WaitForMigrations()
}

// PendingMigrations reports the number of asynchronous migration jobs
// still queued or executing.
func (m *Manager) PendingMigrations() int {
	return m.migrate.PendingMigrations()
}

// Stats returns a snapshot of the performance counters.
func (m *Manager) Stats() PerfSnapshot {
	return m.counters.Snapshot()
}

// ResetStats zeroes the performance counters and the TLB's hit/miss
// counters.
func (m *Manager) ResetStats() {
	m.counters.Reset()
	m.tlb.ResetStats()
}

// PrintStats logs a single diagnostic line summarizing the counters and
// pool occupancy.
func (m *Manager) PrintStats() {
	s := m.Stats()
	m.log.Infof("%s host_used=%d/%d device_used=%d/%d tlb_hit_rate=%.4f",
		s.String(),
		m.alloc.UsedHostPages(), m.alloc.TotalHostPages(),
		m.alloc.UsedDevicePages(), m.alloc.TotalDevicePages(),
		m.tlb.HitRate())
}

// AvailableHostPages and friends expose raw pool occupancy for tests and
// diagnostics without requiring a full Stats() snapshot.
func (m *Manager) AvailableHostPages() int   { return m.alloc.AvailableHostPages() }
func (m *Manager) TotalHostPages() int       { return m.alloc.TotalHostPages() }
func (m *Manager) AvailableDevicePages() int { return m.alloc.AvailableDevicePages() }
func (m *Manager) TotalDevicePages() int     { return m.alloc.TotalDevicePages() }

func (m *Manager) tlbLookup(vpn addr.VPN) (pagetable.Entry, bool) {
	return m.tlb.Lookup(vpn)
}

func (m *Manager) tlbInsert(vpn addr.VPN, e pagetable.Entry) {
	m.tlb.Insert(vpn, e)
}

func (m *Manager) emitLedgerEvent(res migration.Result) {
	if m.ledger == nil {
		return
	}
	dir := "host_to_device"
	if res.Direction == migration.DeviceToHost {
		dir = "device_to_host"
	}
	m.ledger.Append(ledger.Event{
		VPN:         uint64(res.VPN),
		Direction:   dir,
		Bytes:       res.Bytes,
		ElapsedUs:   res.ElapsedUs,
		TimestampUs: nowMicros(),
	})
}

func nowMicros() int64 { return time.Now().UnixMicro() }

// closeDown shuts every owned subsystem down in reverse-dependency order:
// migration workers first (so no in-flight job mutates the page table
// after it is considered gone), then the optional ledger.
func (m *Manager) closeDown() {
	m.migrate.Shutdown()
	if m.ledger != nil {
		if err := m.ledger.Close(); err != nil {
			m.log.Warnf("shutdown: ledger close failed: %v", err)
		}
	}
}
