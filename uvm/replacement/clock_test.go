package replacement

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/abhishekprajapatt/gpu-vmm/uvm/addr"
)

var _ = Describe("CLOCK", func() {
	var p *CLOCK

	BeforeEach(func() {
		p = NewCLOCK(0)
	})

	It("returns 0 once the pool is empty", func() {
		Expect(p.SelectVictim()).To(Equal(addr.VPN(0)))
	})

	It("evicts the entry under the hand when unreferenced, without skipping its successor", func() {
		p.OnAllocated(1)
		p.OnAllocated(2)
		p.OnAllocated(3)

		first := p.SelectVictim()
		Expect(first).To(Equal(addr.VPN(1)))

		second := p.SelectVictim()
		Expect(second).To(Equal(addr.VPN(2)), "the hand must land on 2, not skip past it to 3")

		third := p.SelectVictim()
		Expect(third).To(Equal(addr.VPN(3)))
	})

	It("spares a referenced entry on the first pass and clears its bit", func() {
		p.OnAllocated(1)
		p.OnAllocated(2)
		p.OnAccess(1)

		victim := p.SelectVictim()
		Expect(victim).To(Equal(addr.VPN(2)), "the referenced entry 1 must survive the first sweep")

		victim2 := p.SelectVictim()
		Expect(victim2).To(Equal(addr.VPN(1)), "1's reference bit was cleared on the prior sweep, so it is now evictable")
	})

	It("takes the entry at the hand unconditionally when every bit is set", func() {
		p.OnAllocated(1)
		p.OnAllocated(2)
		p.OnAllocated(3)
		p.OnAccess(1)
		p.OnAccess(2)
		p.OnAccess(3)

		victim := p.SelectVictim()
		Expect(victim).To(Equal(addr.VPN(1)))
	})

	It("removes a freed entry and keeps the hand consistent", func() {
		p.OnAllocated(1)
		p.OnAllocated(2)
		p.OnAllocated(3)

		p.OnFreed(2)

		victim := p.SelectVictim()
		Expect(victim).To(Equal(addr.VPN(1)))
		victim2 := p.SelectVictim()
		Expect(victim2).To(Equal(addr.VPN(3)))
	})

	It("drops the candidate under the hand once capacity is exceeded", func() {
		bounded := NewCLOCK(2)
		bounded.OnAllocated(1)
		bounded.OnAllocated(2)
		bounded.OnAllocated(3)

		Expect(bounded.SelectVictim()).To(Equal(addr.VPN(2)))
		Expect(bounded.SelectVictim()).To(Equal(addr.VPN(3)))
	})
})
