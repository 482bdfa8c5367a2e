package uvm

import (
	"fmt"
	"sync/atomic"
)

// PerfCounters tracks the running totals the facade accumulates while
// servicing faults, migrations, and translations. Every field is updated
// with sync/atomic so counters may be read consistently from any
// goroutine without taking the facade lock.
type PerfCounters struct {
	pageFaults             uint64
	hostToDeviceMigrations uint64
	deviceToHostMigrations uint64
	bytesMigrated          uint64
	migrationTimeUs        uint64
	tlbHits                uint64
	tlbMisses              uint64
	evictions              uint64
	kernelLaunches         uint64
	prefetches             uint64
}

// PerfSnapshot is a point-in-time copy of PerfCounters, safe to print or
// compare without touching the live counters. HostRSSBytes is not one of
// the atomic counters above; it is sampled fresh from the OS by Snapshot.
type PerfSnapshot struct {
	PageFaults             uint64
	HostToDeviceMigrations uint64
	DeviceToHostMigrations uint64
	BytesMigrated          uint64
	MigrationTimeUs        uint64
	TLBHits                uint64
	TLBMisses              uint64
	Evictions              uint64
	KernelLaunches         uint64
	Prefetches             uint64
	HostRSSBytes           uint64
}

func (c *PerfCounters) incPageFaults()       { atomic.AddUint64(&c.pageFaults, 1) }
func (c *PerfCounters) incEvictions()        { atomic.AddUint64(&c.evictions, 1) }
func (c *PerfCounters) incKernelLaunches()   { atomic.AddUint64(&c.kernelLaunches, 1) }
func (c *PerfCounters) incPrefetches()       { atomic.AddUint64(&c.prefetches, 1) }

func (c *PerfCounters) recordMigration(hostToDevice bool, bytes uint64, elapsedUs int64) {
	if hostToDevice {
		atomic.AddUint64(&c.hostToDeviceMigrations, 1)
	} else {
		atomic.AddUint64(&c.deviceToHostMigrations, 1)
	}
	atomic.AddUint64(&c.bytesMigrated, bytes)
	if elapsedUs > 0 {
		atomic.AddUint64(&c.migrationTimeUs, uint64(elapsedUs))
	}
}

func (c *PerfCounters) recordTLB(hit bool) {
	if hit {
		atomic.AddUint64(&c.tlbHits, 1)
	} else {
		atomic.AddUint64(&c.tlbMisses, 1)
	}
}

// Snapshot takes a consistent-enough point-in-time read of every counter.
func (c *PerfCounters) Snapshot() PerfSnapshot {
	return PerfSnapshot{
		PageFaults:             atomic.LoadUint64(&c.pageFaults),
		HostToDeviceMigrations: atomic.LoadUint64(&c.hostToDeviceMigrations),
		DeviceToHostMigrations: atomic.LoadUint64(&c.deviceToHostMigrations),
		BytesMigrated:          atomic.LoadUint64(&c.bytesMigrated),
		MigrationTimeUs:        atomic.LoadUint64(&c.migrationTimeUs),
		TLBHits:                atomic.LoadUint64(&c.tlbHits),
		TLBMisses:              atomic.LoadUint64(&c.tlbMisses),
		Evictions:              atomic.LoadUint64(&c.evictions),
		KernelLaunches:         atomic.LoadUint64(&c.kernelLaunches),
		Prefetches:             atomic.LoadUint64(&c.prefetches),
		HostRSSBytes:           hostRSSBytes(),
	}
}

// Reset zeroes every counter.
func (c *PerfCounters) Reset() {
	atomic.StoreUint64(&c.pageFaults, 0)
	atomic.StoreUint64(&c.hostToDeviceMigrations, 0)
	atomic.StoreUint64(&c.deviceToHostMigrations, 0)
	atomic.StoreUint64(&c.bytesMigrated, 0)
	atomic.StoreUint64(&c.migrationTimeUs, 0)
	atomic.StoreUint64(&c.tlbHits, 0)
	atomic.StoreUint64(&c.tlbMisses, 0)
	atomic.StoreUint64(&c.evictions, 0)
	atomic.StoreUint64(&c.kernelLaunches, 0)
	atomic.StoreUint64(&c.prefetches, 0)
}

// String renders the snapshot the way a diagnostics dump would.
func (s PerfSnapshot) String() string {
	return fmt.Sprintf(
		"page_faults=%d h2d_migrations=%d d2h_migrations=%d bytes_migrated=%d "+
			"migration_time_us=%d tlb_hits=%d tlb_misses=%d evictions=%d "+
			"kernel_launches=%d prefetches=%d host_rss_bytes=%d",
		s.PageFaults, s.HostToDeviceMigrations, s.DeviceToHostMigrations,
		s.BytesMigrated, s.MigrationTimeUs, s.TLBHits, s.TLBMisses,
		s.Evictions, s.KernelLaunches, s.Prefetches, s.HostRSSBytes)
}
