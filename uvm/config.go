package uvm

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/abhishekprajapatt/gpu-vmm/uvm/replacement"
)

// Config is the manager's full set of tunables. Construct one with
// ConfigBuilder rather than a literal, matching the builder idiom used
// throughout this codebase's component constructors.
type Config struct {
	PageSize                uint64
	VirtualAddressSpace     uint64
	DeviceMemory            uint64
	HostPoolBytes           uint64
	TLBSize                 int
	TLBAssociativity        int
	ReplacementPolicy       replacement.Kind
	UsePinnedHostMemory     bool
	UseDeviceSimulator      bool
	EnablePrefetch          bool
	LogLevel                LogLevel
	MaxConcurrentMigrations int
	BandwidthBytesPerSec    uint64
	MigrationEventLedger    bool
	LedgerPath              string
}

// ConfigBuilder constructs a Config through chainable With* calls,
// terminated by Build.
type ConfigBuilder struct {
	cfg Config
}

// NewConfigBuilder returns a builder seeded with the defaults documented
// for every tunable.
func NewConfigBuilder() ConfigBuilder {
	return ConfigBuilder{cfg: Config{
		PageSize:                64 * 1024,
		VirtualAddressSpace:     256 * 1024 * 1024 * 1024,
		DeviceMemory:            4 * 1024 * 1024 * 1024,
		HostPoolBytes:           1 * 1024 * 1024 * 1024,
		TLBSize:                 1024,
		TLBAssociativity:        8,
		ReplacementPolicy:       replacement.LRUKind,
		UsePinnedHostMemory:     true,
		UseDeviceSimulator:      false,
		EnablePrefetch:          true,
		LogLevel:                LevelInfo,
		MaxConcurrentMigrations: 4,
		MigrationEventLedger:    false,
	}}
}

func (b ConfigBuilder) WithPageSize(n uint64) ConfigBuilder { b.cfg.PageSize = n; return b }
func (b ConfigBuilder) WithVirtualAddressSpace(n uint64) ConfigBuilder {
	b.cfg.VirtualAddressSpace = n
	return b
}
func (b ConfigBuilder) WithDeviceMemory(n uint64) ConfigBuilder { b.cfg.DeviceMemory = n; return b }

// WithHostPoolSize sets the independent host pool size. The original this
// module is built against derives its host pool size from device memory,
// which has no counterpart in a system meant to model two genuinely
// independent domains; this builder exposes it directly instead (see
// DESIGN.md for the open-question writeup).
func (b ConfigBuilder) WithHostPoolSize(n uint64) ConfigBuilder { b.cfg.HostPoolBytes = n; return b }

func (b ConfigBuilder) WithTLBSize(n int) ConfigBuilder            { b.cfg.TLBSize = n; return b }
func (b ConfigBuilder) WithTLBAssociativity(n int) ConfigBuilder   { b.cfg.TLBAssociativity = n; return b }
func (b ConfigBuilder) WithReplacementPolicy(k replacement.Kind) ConfigBuilder {
	b.cfg.ReplacementPolicy = k
	return b
}
func (b ConfigBuilder) WithUsePinnedHostMemory(v bool) ConfigBuilder {
	b.cfg.UsePinnedHostMemory = v
	return b
}
func (b ConfigBuilder) WithUseDeviceSimulator(v bool) ConfigBuilder {
	b.cfg.UseDeviceSimulator = v
	return b
}
func (b ConfigBuilder) WithEnablePrefetch(v bool) ConfigBuilder { b.cfg.EnablePrefetch = v; return b }
func (b ConfigBuilder) WithLogLevel(l LogLevel) ConfigBuilder   { b.cfg.LogLevel = l; return b }
func (b ConfigBuilder) WithMaxConcurrentMigrations(n int) ConfigBuilder {
	b.cfg.MaxConcurrentMigrations = n
	return b
}
func (b ConfigBuilder) WithBandwidthBytesPerSec(n uint64) ConfigBuilder {
	b.cfg.BandwidthBytesPerSec = n
	return b
}
func (b ConfigBuilder) WithMigrationEventLedger(enabled bool, path string) ConfigBuilder {
	b.cfg.MigrationEventLedger = enabled
	b.cfg.LedgerPath = path
	return b
}

// Build returns the assembled Config.
func (b ConfigBuilder) Build() Config { return b.cfg }

// LoadDotEnv loads the .env file at path into the process environment
// (via godotenv.Load, which does not override variables that are already
// set) and then overlays any recognized UVM_* variables found in the
// process environment onto base. A UVM_* variable that was already set in
// the environment therefore wins over the file and is applied even if the
// file does not mention it. Absent or unparsable variables leave the
// corresponding base field untouched; a missing file returns base together
// with the load error. This is a convenience on top of, never a
// replacement for, ConfigBuilder.
func LoadDotEnv(path string, base Config) (Config, error) {
	if err := godotenv.Load(path); err != nil {
		return base, err
	}

	cfg := base

	if v, ok := os.LookupEnv("UVM_PAGE_SIZE"); ok {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.PageSize = n
		}
	}
	if v, ok := os.LookupEnv("UVM_DEVICE_MEMORY"); ok {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.DeviceMemory = n
		}
	}
	if v, ok := os.LookupEnv("UVM_HOST_POOL_SIZE"); ok {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.HostPoolBytes = n
		}
	}
	if v, ok := os.LookupEnv("UVM_TLB_SIZE"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TLBSize = n
		}
	}
	if v, ok := os.LookupEnv("UVM_TLB_ASSOCIATIVITY"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TLBAssociativity = n
		}
	}
	if v, ok := os.LookupEnv("UVM_REPLACEMENT_POLICY"); ok {
		switch v {
		case "CLOCK", "clock":
			cfg.ReplacementPolicy = replacement.CLOCKKind
		case "LRU", "lru":
			cfg.ReplacementPolicy = replacement.LRUKind
		}
	}
	if v, ok := os.LookupEnv("UVM_LOG_LEVEL"); ok {
		if lvl, ok := ParseLogLevel(v); ok {
			cfg.LogLevel = lvl
		}
	}
	if v, ok := os.LookupEnv("UVM_MAX_CONCURRENT_MIGRATIONS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxConcurrentMigrations = n
		}
	}

	return cfg, nil
}
