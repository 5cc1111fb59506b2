package signing

import (
	"strings"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestSigning(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Signing Suite")
}

var _ = ginkgo.Describe("PaymentSignature", func() {
	const secret = "test_gateway_secret"

	ginkgo.It("is deterministic for the same order and payment", func() {
		a := PaymentSignature(secret, "order_1", "pay_1")
		b := PaymentSignature(secret, "order_1", "pay_1")
		gomega.Expect(a).To(gomega.Equal(b))
	})

	ginkgo.It("produces 64 hex characters", func() {
		sig := PaymentSignature(secret, "order_1", "pay_1")
		gomega.Expect(sig).To(gomega.HaveLen(64))
		gomega.Expect(sig).To(gomega.MatchRegexp(`^[0-9a-f]{64}$`))
	})

	ginkgo.It("changes when the secret changes", func() {
		a := PaymentSignature(secret, "order_1", "pay_1")
		b := PaymentSignature("other_secret", "order_1", "pay_1")
		gomega.Expect(a).ToNot(gomega.Equal(b))
	})

	ginkgo.It("binds order and payment ids so they cannot be swapped", func() {
		a := PaymentSignature(secret, "order_1", "pay_1")
		b := PaymentSignature(secret, "pay_1", "order_1")
		gomega.Expect(a).ToNot(gomega.Equal(b))
	})
})

var _ = ginkgo.Describe("VerifyPaymentSignature", func() {
	const secret = "test_gateway_secret"

	ginkgo.It("accepts the matching signature", func() {
		sig := PaymentSignature(secret, "order_1", "pay_1")
		gomega.Expect(VerifyPaymentSignature(secret, "order_1", "pay_1", sig)).To(gomega.BeTrue())
	})

	ginkgo.It("rejects a signature with any single character flipped", func() {
		sig := PaymentSignature(secret, "order_1", "pay_1")
		for i := 0; i < len(sig); i++ {
			flipped := []byte(sig)
			if flipped[i] == 'a' {
				flipped[i] = 'b'
			} else {
				flipped[i] = 'a'
			}
			gomega.Expect(VerifyPaymentSignature(secret, "order_1", "pay_1", string(flipped))).To(gomega.BeFalse())
		}
	})

	ginkgo.It("rejects an empty signature", func() {
		gomega.Expect(VerifyPaymentSignature(secret, "order_1", "pay_1", "")).To(gomega.BeFalse())
	})

	ginkgo.It("rejects a signature computed for another order", func() {
		sig := PaymentSignature(secret, "order_2", "pay_1")
		gomega.Expect(VerifyPaymentSignature(secret, "order_1", "pay_1", sig)).To(gomega.BeFalse())
	})
})

var _ = ginkgo.Describe("ReceiptToken", func() {
	const secret = "test_receipt_secret"

	ginkgo.It("is 32 lowercase hex characters", func() {
		token := ReceiptToken(secret, 42, "order_42")
		gomega.Expect(token).To(gomega.HaveLen(32))
		gomega.Expect(token).To(gomega.Equal(strings.ToLower(token)))
		gomega.Expect(token).To(gomega.MatchRegexp(`^[0-9a-f]{32}$`))
	})

	ginkgo.It("differs per transaction", func() {
		a := ReceiptToken(secret, 1, "order_1")
		b := ReceiptToken(secret, 2, "order_1")
		gomega.Expect(a).ToNot(gomega.Equal(b))
	})

	ginkgo.It("verifies only the exact token", func() {
		token := ReceiptToken(secret, 7, "order_7")
		gomega.Expect(VerifyReceiptToken(secret, 7, "order_7", token)).To(gomega.BeTrue())
		tampered := []byte(token)
		if tampered[31] == 'f' {
			tampered[31] = '0'
		} else {
			tampered[31] = 'f'
		}
		gomega.Expect(VerifyReceiptToken(secret, 7, "order_7", string(tampered))).To(gomega.BeFalse())
		gomega.Expect(VerifyReceiptToken(secret, 8, "order_7", token)).To(gomega.BeFalse())
		gomega.Expect(VerifyReceiptToken("wrong", 7, "order_7", token)).To(gomega.BeFalse())
	})
})
