package receipt

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	apperrors "github.com/frahmantamala/course-platform/internal"
	courseDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/course"
	transactionDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/transaction"
)

func TestReceipt(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Receipt Module Suite")
}

type mockReceiptRepository struct {
	transactions map[int64]*transactionDatamodel.Transaction
	courses      map[int64]*courseDatamodel.Course
}

func (m *mockReceiptRepository) GetTransaction(id int64) (*transactionDatamodel.Transaction, error) {
	if t, ok := m.transactions[id]; ok {
		return t, nil
	}
	return nil, errors.New("transaction not found")
}

func (m *mockReceiptRepository) GetCourse(id int64) (*courseDatamodel.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, errors.New("course not found")
}

var _ = ginkgo.Describe("ReceiptService", func() {
	const secret = "test_receipt_secret"

	var (
		service  *Service
		mockRepo *mockReceiptRepository
		ctx      context.Context
	)

	ginkgo.BeforeEach(func() {
		mockRepo = &mockReceiptRepository{
			transactions: map[int64]*transactionDatamodel.Transaction{
				42: {
					ID:        42,
					UserID:    7,
					CourseID:  1,
					OrderID:   "order_42",
					PaymentID: "pay_42",
					Amount:    4999,
					Currency:  "INR",
					Status:    transactionDatamodel.StatusSuccess,
				},
				43: {
					ID:       43,
					UserID:   7,
					CourseID: 1,
					OrderID:  "order_43",
					Amount:   4999,
					Currency: "INR",
					Status:   transactionDatamodel.StatusPending,
				},
			},
			courses: map[int64]*courseDatamodel.Course{
				1: {ID: 1, Title: "Go From Scratch"},
			},
		}
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = NewService(mockRepo, secret, lg)
		ctx = context.Background()
	})

	ginkgo.It("returns the receipt for a valid token", func() {
		token := service.TokenFor(42, "order_42")

		r, err := service.GetReceipt(ctx, 42, token)

		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(r.OrderID).To(gomega.Equal("order_42"))
		gomega.Expect(r.PaymentID).To(gomega.Equal("pay_42"))
		gomega.Expect(r.CourseTitle).To(gomega.Equal("Go From Scratch"))
		gomega.Expect(r.Amount).To(gomega.Equal(int64(4999)))
	})

	ginkgo.It("rejects a wrong token", func() {
		token := service.TokenFor(42, "order_other")

		_, err := service.GetReceipt(ctx, 42, token)

		gomega.Expect(err).To(gomega.Equal(apperrors.ErrTransactionNotFound))
	})

	ginkgo.It("rejects a token borrowed from another transaction", func() {
		token := service.TokenFor(43, "order_43")

		_, err := service.GetReceipt(ctx, 42, token)

		gomega.Expect(err).To(gomega.Equal(apperrors.ErrTransactionNotFound))
	})

	ginkgo.It("answers identically for an unknown transaction", func() {
		token := service.TokenFor(999, "order_999")

		_, err := service.GetReceipt(ctx, 999, token)

		gomega.Expect(err).To(gomega.Equal(apperrors.ErrTransactionNotFound))
	})

	ginkgo.It("refuses a receipt for a non-successful transaction", func() {
		token := service.TokenFor(43, "order_43")

		_, err := service.GetReceipt(ctx, 43, token)

		gomega.Expect(err).To(gomega.Equal(apperrors.ErrTransactionNotFound))
	})

	ginkgo.It("still serves the receipt when the course row is gone", func() {
		delete(mockRepo.courses, 1)
		token := service.TokenFor(42, "order_42")

		r, err := service.GetReceipt(ctx, 42, token)

		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(r.CourseTitle).To(gomega.BeEmpty())
	})
})
