package uvm

import (
	"os"

	"github.com/shirou/gopsutil/process"
)

// hostRSSBytes reports the current process's resident set size, mirroring
// the single-snapshot use of gopsutil/process for live telemetry. Any
// failure to read it (permissions, an unsupported platform) degrades to 0
// rather than propagating an error through Stats.
func hostRSSBytes() uint64 {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0
	}
	mem, err := p.MemoryInfo()
	if err != nil || mem == nil {
		return 0
	}
	return mem.RSS
}
