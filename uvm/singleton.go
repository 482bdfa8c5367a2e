package uvm

import (
	"fmt"
	"sync"

	"github.com/abhishekprajapatt/gpu-vmm/uvm/ledger"
	"github.com/abhishekprajapatt/gpu-vmm/uvm/migration"
	"github.com/abhishekprajapatt/gpu-vmm/uvm/pageallocator"
	"github.com/abhishekprajapatt/gpu-vmm/uvm/pagetable"
	"github.com/abhishekprajapatt/gpu-vmm/uvm/replacement"
)

var (
	instanceMutex sync.Mutex
	instance      *Manager
	instantiated  bool
)

// Initialize constructs the process-wide Manager from cfg. It is
// idempotent: a second call while an instance is already live logs a
// warning and returns ErrAlreadyInitialized without disturbing the
// existing instance.
func Initialize(cfg Config) error {
	instanceMutex.Lock()
	defer instanceMutex.Unlock()

	if instantiated {
		NewLogger(cfg.LogLevel).Warnf("initialize: manager already initialized, ignoring")
		return ErrAlreadyInitialized
	}

	if cfg.PageSize == 0 || cfg.DeviceMemory == 0 || cfg.HostPoolBytes == 0 {
		return ErrInvalidConfig
	}

	pt := pagetable.New()

	alloc := pageallocator.New(pageallocator.Config{
		PageSize:       cfg.PageSize,
		HostPoolBytes:  cfg.HostPoolBytes,
		DeviceMemBytes: cfg.DeviceMemory,
	})

	maxDevicePages := int(cfg.DeviceMemory / cfg.PageSize)
	policy := replacement.New(cfg.ReplacementPolicy, maxDevicePages)

	var evLedger *ledger.Ledger
	if cfg.MigrationEventLedger {
		l, err := ledger.Open(cfg.LedgerPath)
		if err != nil {
			return fmt.Errorf("uvm: initialize ledger: %w", err)
		}
		evLedger = l
	}

	m := newManager(cfg, alloc, pt, newTLBAdapter(cfg.TLBSize, cfg.TLBAssociativity), policy, nil, evLedger)

	mig := migration.New(pt, migration.Config{
		AsyncEnabled:         true,
		MaxConcurrent:        cfg.MaxConcurrentMigrations,
		BandwidthBytesPerSec: cfg.BandwidthBytesPerSec,
	}, func(res migration.Result) {
		hostToDevice := res.Direction == migration.HostToDevice
		m.counters.recordMigration(hostToDevice, res.Bytes, res.ElapsedUs)
		m.emitLedgerEvent(res)
	})
	m.migrate = mig

	instance = m
	instantiated = true
	return nil
}

// Instance returns the process-wide Manager, or ErrNotInitialized if
// Initialize has not been called.
func Instance() (*Manager, error) {
	instanceMutex.Lock()
	defer instanceMutex.Unlock()

	if !instantiated {
		return nil, ErrNotInitialized
	}
	return instance, nil
}

// Shutdown tears down the process-wide Manager, if any, in
// reverse-dependency order, and clears the singleton so a later
// Initialize call can start fresh. Safe to call repeatedly.
func Shutdown() {
	instanceMutex.Lock()
	defer instanceMutex.Unlock()

	if !instantiated {
		return
	}

	instance.closeDown()
	instance = nil
	instantiated = false
}
