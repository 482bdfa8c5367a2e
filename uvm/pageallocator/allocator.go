// Package pageallocator implements the dual-domain fixed-size-slot
// allocator that backs the host and device memory pools.
package pageallocator

import (
	"log"
	"sync"

	"github.com/abhishekprajapatt/gpu-vmm/uvm/addr"
)

// deviceBase is the fixed nonzero base of the synthetic device address
// range, chosen so that zero remains the "unallocated" sentinel for
// addr.DeviceAddr.
const deviceBase addr.DeviceAddr = 0x100000000

// Config configures an Allocator's two pools.
type Config struct {
	PageSize       uint64
	HostPoolBytes  uint64
	DeviceMemBytes uint64
}

// Allocator owns the host pool (a contiguous byte buffer) and the device
// pool (a synthetic numeric address range), each partitioned into
// PageSize slots and tracked by a dense occupancy bitmap.
type Allocator struct {
	mu sync.Mutex

	pageSize uint64

	hostPool   []byte
	hostUsed   []bool
	hostTotal  int
	hostFree   int

	deviceUsed  []bool
	deviceTotal int
	deviceFree  int
}

// New constructs an Allocator from cfg. Pool sizes are rounded down to a
// whole number of pages.
func New(cfg Config) *Allocator {
	hostPages := int(cfg.HostPoolBytes / cfg.PageSize)
	devicePages := int(cfg.DeviceMemBytes / cfg.PageSize)

	return &Allocator{
		pageSize:    cfg.PageSize,
		hostPool:    make([]byte, uint64(hostPages)*cfg.PageSize),
		hostUsed:    make([]bool, hostPages),
		hostTotal:   hostPages,
		hostFree:    hostPages,
		deviceUsed:  make([]bool, devicePages),
		deviceTotal: devicePages,
		deviceFree:  devicePages,
	}
}

// AllocateHost reserves one host slot, returning the byte slice backing it
// and true, or (nil, false) if the host pool is exhausted.
func (a *Allocator) AllocateHost() ([]byte, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := 0; i < a.hostTotal; i++ {
		if !a.hostUsed[i] {
			a.hostUsed[i] = true
			a.hostFree--
			start := uint64(i) * a.pageSize
			return a.hostPool[start : start+a.pageSize : start+a.pageSize], true
		}
	}
	return nil, false
}

// DeallocateHost releases a slot previously returned by AllocateHost. A
// slice outside the pool's backing array, or one already free, is logged
// and otherwise ignored rather than failing the process.
func (a *Allocator) DeallocateHost(slot []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()

	idx, ok := a.hostSlotIndex(slot)
	if !ok || !a.hostUsed[idx] {
		log.Printf("pageallocator: ignoring deallocation of a host slot that is outside the pool or already free")
		return
	}
	a.hostUsed[idx] = false
	a.hostFree++
}

func (a *Allocator) hostSlotIndex(slot []byte) (int, bool) {
	if len(slot) == 0 {
		return 0, false
	}
	base := &a.hostPool[0]
	off := uintptrOffset(base, &slot[0])
	if off < 0 {
		return 0, false
	}
	idx := off / int(a.pageSize)
	if idx < 0 || idx >= a.hostTotal {
		return 0, false
	}
	return idx, true
}

// AllocateDevice reserves one device slot, returning its synthetic address,
// or 0 if the device pool is exhausted.
func (a *Allocator) AllocateDevice() addr.DeviceAddr {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := 0; i < a.deviceTotal; i++ {
		if !a.deviceUsed[i] {
			a.deviceUsed[i] = true
			a.deviceFree--
			return deviceBase + addr.DeviceAddr(uint64(i)*a.pageSize)
		}
	}
	return 0
}

// DeallocateDevice releases a slot previously returned by AllocateDevice.
// An out-of-range or already-free address is a no-op.
func (a *Allocator) DeallocateDevice(da addr.DeviceAddr) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if da < deviceBase {
		return
	}
	idx := int(uint64(da-deviceBase) / a.pageSize)
	if idx < 0 || idx >= a.deviceTotal || !a.deviceUsed[idx] {
		return
	}
	a.deviceUsed[idx] = false
	a.deviceFree++
}

// AvailableHostPages reports the number of free host slots.
func (a *Allocator) AvailableHostPages() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hostFree
}

// TotalHostPages reports the host pool's total slot count.
func (a *Allocator) TotalHostPages() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hostTotal
}

// AvailableDevicePages reports the number of free device slots.
func (a *Allocator) AvailableDevicePages() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.deviceFree
}

// TotalDevicePages reports the device pool's total slot count.
func (a *Allocator) TotalDevicePages() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.deviceTotal
}

// UsedHostPages reports the number of occupied host slots.
func (a *Allocator) UsedHostPages() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hostTotal - a.hostFree
}

// UsedDevicePages reports the number of occupied device slots.
func (a *Allocator) UsedDevicePages() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.deviceTotal - a.deviceFree
}
