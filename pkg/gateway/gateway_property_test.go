package gateway_test

import (
	"context"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/velamesh/ipa-core/internal/memnet"
	"github.com/velamesh/ipa-core/pkg/gateway"
	"github.com/velamesh/ipa-core/pkg/party"
)

var _ = Describe("Gateway rendezvous", func() {
	var (
		ring   *memnet.Ring
		g1, g2 *gateway.Gateway
		ctx    context.Context
		cancel context.CancelFunc
	)

	BeforeEach(func() {
		ring = memnet.NewRing(16)
		g1 = gateway.NewGateway(party.H1, ring.For(party.H1))
		g2 = gateway.NewGateway(party.H2, ring.For(party.H2))
		ctx, cancel = context.WithTimeout(context.Background(), 2*time.Second)
	})

	AfterEach(func() {
		cancel()
		ring.Close()
	})

	It("delivers every send to its matching receive regardless of arrival order", func() {
		m1 := g1.Mesh("property/any-order")
		m2 := g2.Mesh("property/any-order")

		const n = 20
		results := make(chan [2]int, n)
		for i := 0; i < n; i++ {
			go func(record int) {
				v, err := gateway.Receive[int](ctx, m2, party.H1, gateway.RecordID(record))
				Expect(err).NotTo(HaveOccurred())
				results <- [2]int{record, v}
			}(i)
		}
		time.Sleep(10 * time.Millisecond)
		for i := 0; i < n; i++ {
			Expect(gateway.Send(ctx, m1, party.H2, gateway.RecordID(i), i*i)).To(Succeed())
		}

		seen := make(map[int]bool)
		for i := 0; i < n; i++ {
			var got [2]int
			Eventually(results).Should(Receive(&got))
			Expect(got[1]).To(Equal(got[0] * got[0]))
			seen[got[0]] = true
		}
		Expect(seen).To(HaveLen(n))
	})

	It("delivers each send buffered ahead of its receive to the receive for its record", func() {
		m1 := g1.Mesh("property/fifo")
		m2 := g2.Mesh("property/fifo")

		const n = 10
		for i := 0; i < n; i++ {
			Expect(gateway.Send(ctx, m1, party.H2, gateway.RecordID(i), fmt.Sprintf("msg-%d", i))).To(Succeed())
		}
		for i := 0; i < n; i++ {
			v, err := gateway.Receive[string](ctx, m2, party.H1, gateway.RecordID(i))
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(fmt.Sprintf("msg-%d", i)))
		}
	})

	It("keeps distinct steps from interfering with each other", func() {
		mA1 := g1.Mesh("property/step-a")
		mB1 := g1.Mesh("property/step-b")
		mA2 := g2.Mesh("property/step-a")
		mB2 := g2.Mesh("property/step-b")

		Expect(gateway.Send(ctx, mA1, party.H2, gateway.RecordID(0), "a")).To(Succeed())
		Expect(gateway.Send(ctx, mB1, party.H2, gateway.RecordID(0), "b")).To(Succeed())

		vb, err := gateway.Receive[string](ctx, mB2, party.H1, gateway.RecordID(0))
		Expect(err).NotTo(HaveOccurred())
		Expect(vb).To(Equal("b"))

		va, err := gateway.Receive[string](ctx, mA2, party.H1, gateway.RecordID(0))
		Expect(err).NotTo(HaveOccurred())
		Expect(va).To(Equal("a"))
	})
})
