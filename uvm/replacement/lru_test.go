package replacement

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/abhishekprajapatt/gpu-vmm/uvm/addr"
)

var _ = Describe("LRU", func() {
	var p *LRU

	BeforeEach(func() {
		p = NewLRU(0)
	})

	It("selects the oldest candidate first", func() {
		p.OnAllocated(1)
		p.OnAllocated(2)
		p.OnAllocated(3)

		Expect(p.SelectVictim()).To(Equal(addr.VPN(1)))
		Expect(p.SelectVictim()).To(Equal(addr.VPN(2)))
		Expect(p.SelectVictim()).To(Equal(addr.VPN(3)))
	})

	It("returns 0 once the pool is empty", func() {
		Expect(p.SelectVictim()).To(Equal(addr.VPN(0)))
	})

	It("protects a recently accessed page from being the next victim", func() {
		p.OnAllocated(1)
		p.OnAllocated(2)
		p.OnAllocated(3)

		p.OnAccess(1)

		Expect(p.SelectVictim()).To(Equal(addr.VPN(2)))
		Expect(p.SelectVictim()).To(Equal(addr.VPN(3)))
		Expect(p.SelectVictim()).To(Equal(addr.VPN(1)))
	})

	It("drops the oldest candidate once capacity is exceeded", func() {
		bounded := NewLRU(2)
		bounded.OnAllocated(1)
		bounded.OnAllocated(2)
		bounded.OnAllocated(3)

		Expect(bounded.SelectVictim()).To(Equal(addr.VPN(2)))
		Expect(bounded.SelectVictim()).To(Equal(addr.VPN(3)))
	})

	It("removes a freed page from the candidate pool", func() {
		p.OnAllocated(1)
		p.OnAllocated(2)
		p.OnFreed(1)

		Expect(p.SelectVictim()).To(Equal(addr.VPN(2)))
		Expect(p.SelectVictim()).To(Equal(addr.VPN(0)))
	})

	It("ignores OnAccess for a page outside the pool", func() {
		p.OnAllocated(1)
		p.OnAccess(99)

		Expect(p.SelectVictim()).To(Equal(addr.VPN(1)))
	})
})
