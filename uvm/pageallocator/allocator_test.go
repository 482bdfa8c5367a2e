package pageallocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		PageSize:       4096,
		HostPoolBytes:  4096 * 4,
		DeviceMemBytes: 4096 * 2,
	}
}

func TestNewRoundsPoolsDownToWholePages(t *testing.T) {
	a := New(testConfig())
	assert.Equal(t, 4, a.TotalHostPages())
	assert.Equal(t, 2, a.TotalDevicePages())
	assert.Equal(t, 4, a.AvailableHostPages())
	assert.Equal(t, 2, a.AvailableDevicePages())
}

func TestAllocateHostExhaustion(t *testing.T) {
	a := New(testConfig())

	var slots [][]byte
	for i := 0; i < 4; i++ {
		slot, ok := a.AllocateHost()
		require.True(t, ok)
		slots = append(slots, slot)
	}

	_, ok := a.AllocateHost()
	assert.False(t, ok, "fifth allocation must fail once the host pool is full")
	assert.Equal(t, 0, a.AvailableHostPages())
	assert.Equal(t, 4, a.UsedHostPages())
}

func TestAllocateHostReturnsDistinctNonOverlappingSlots(t *testing.T) {
	a := New(testConfig())

	s1, _ := a.AllocateHost()
	s2, _ := a.AllocateHost()

	s1[0] = 0xAA
	s2[0] = 0xBB

	assert.Equal(t, byte(0xAA), s1[0])
	assert.Equal(t, byte(0xBB), s2[0])
	assert.Len(t, s1, int(testConfig().PageSize))
}

func TestDeallocateHostFreesSlotForReuse(t *testing.T) {
	a := New(testConfig())

	slot, _ := a.AllocateHost()
	a.DeallocateHost(slot)

	assert.Equal(t, 4, a.AvailableHostPages())

	_, ok := a.AllocateHost()
	assert.True(t, ok)
}

func TestDeallocateHostIgnoresForeignSlice(t *testing.T) {
	a := New(testConfig())
	foreign := make([]byte, 4096)

	a.DeallocateHost(foreign)

	assert.Equal(t, 4, a.AvailableHostPages(), "deallocating a slice outside the pool must be a no-op")
}

func TestDeallocateHostIgnoresDoubleFree(t *testing.T) {
	a := New(testConfig())
	slot, _ := a.AllocateHost()

	a.DeallocateHost(slot)
	a.DeallocateHost(slot)

	assert.Equal(t, 4, a.AvailableHostPages())
}

func TestAllocateDeviceExhaustionAndSentinel(t *testing.T) {
	a := New(testConfig())

	d1 := a.AllocateDevice()
	d2 := a.AllocateDevice()
	require.NotZero(t, d1)
	require.NotZero(t, d2)
	require.NotEqual(t, d1, d2)

	d3 := a.AllocateDevice()
	assert.Zero(t, d3, "device pool is exhausted and must return the zero sentinel")
}

func TestDeallocateDeviceFreesAddressForReuse(t *testing.T) {
	a := New(testConfig())

	d1 := a.AllocateDevice()
	a.DeallocateDevice(d1)

	assert.Equal(t, 2, a.AvailableDevicePages())

	d2 := a.AllocateDevice()
	assert.NotZero(t, d2)
}

func TestDeallocateDeviceIgnoresOutOfRangeAddress(t *testing.T) {
	a := New(testConfig())

	a.DeallocateDevice(1)

	assert.Equal(t, 2, a.AvailableDevicePages(), "an address below deviceBase must be ignored")
}
