package tlb_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/abhishekprajapatt/gpu-vmm/uvm/addr"
	"github.com/abhishekprajapatt/gpu-vmm/uvm/tlb"
)

var _ = Describe("TLB", func() {
	var t *tlb.TLB

	BeforeEach(func() {
		t = tlb.New(16, 4)
	})

	It("misses on a VPN that was never inserted", func() {
		_, found := t.Lookup(addr.VPN(1))
		Expect(found).To(BeFalse())

		hits, misses := t.Stats()
		Expect(hits).To(Equal(uint64(0)))
		Expect(misses).To(Equal(uint64(1)))
	})

	It("hits on a VPN that was just inserted", func() {
		t.Insert(addr.VPN(7), tlb.Entry{VPN: 7, DeviceAddr: 0x1000, Valid: true})

		e, found := t.Lookup(addr.VPN(7))
		Expect(found).To(BeTrue())
		Expect(e.DeviceAddr).To(Equal(addr.DeviceAddr(0x1000)))

		hits, misses := t.Stats()
		Expect(hits).To(Equal(uint64(1)))
		Expect(misses).To(Equal(uint64(0)))
	})

	It("tracks ten hits and one miss across distinct VPNs", func() {
		for i := addr.VPN(0); i < 10; i++ {
			t.Insert(i, tlb.Entry{VPN: i, Valid: true})
		}
		for i := addr.VPN(0); i < 10; i++ {
			_, found := t.Lookup(i)
			Expect(found).To(BeTrue())
		}
		_, found := t.Lookup(addr.VPN(999))
		Expect(found).To(BeFalse())

		hits, misses := t.Stats()
		Expect(hits).To(Equal(uint64(10)))
		Expect(misses).To(Equal(uint64(1)))
	})

	It("evicts the least-recently-used way within a set when full", func() {
		small := tlb.New(2, 2)
		small.Insert(addr.VPN(0), tlb.Entry{VPN: 0, Valid: true})
		small.Insert(addr.VPN(1<<10), tlb.Entry{VPN: 1 << 10, Valid: true})

		_, hit0 := small.Lookup(addr.VPN(0))
		Expect(hit0).To(BeTrue())

		small.Insert(addr.VPN(2<<10), tlb.Entry{VPN: 2 << 10, Valid: true})

		_, stillThere := small.Lookup(addr.VPN(0))
		Expect(stillThere).To(BeTrue(), "recently used entry should survive eviction")
	})

	It("removes an entry on Invalidate", func() {
		t.Insert(addr.VPN(3), tlb.Entry{VPN: 3, Valid: true})
		t.Invalidate(addr.VPN(3))

		_, found := t.Lookup(addr.VPN(3))
		Expect(found).To(BeFalse())
	})

	It("clears every entry on Flush without resetting counters", func() {
		t.Insert(addr.VPN(1), tlb.Entry{VPN: 1, Valid: true})
		t.Lookup(addr.VPN(1))
		t.Flush()

		_, found := t.Lookup(addr.VPN(1))
		Expect(found).To(BeFalse())

		hits, _ := t.Stats()
		Expect(hits).To(Equal(uint64(1)), "flush must not reset stats")
	})

	It("resets only the counters on ResetStats", func() {
		t.Insert(addr.VPN(1), tlb.Entry{VPN: 1, Valid: true})
		t.Lookup(addr.VPN(1))
		t.ResetStats()

		hits, misses := t.Stats()
		Expect(hits).To(Equal(uint64(0)))
		Expect(misses).To(Equal(uint64(0)))

		_, found := t.Lookup(addr.VPN(1))
		Expect(found).To(BeTrue(), "reset stats must not evict entries")
	})
})
