package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	apperrors "github.com/frahmantamala/course-platform/internal"
	courseDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/course"
	eventDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/event"
	orderDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/order"
	"github.com/frahmantamala/course-platform/internal/gateway"
)

func TestCheckout(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Checkout Module Suite")
}

type mockCheckoutRepository struct {
	courses       map[int64]*courseDatamodel.Course
	events        map[int64]*eventDatamodel.Event
	orders        []*orderDatamodel.PendingOrder
	registrations []*eventDatamodel.Registration
	returnError   bool
	errorToReturn error
}

func newMockCheckoutRepository() *mockCheckoutRepository {
	return &mockCheckoutRepository{
		courses: map[int64]*courseDatamodel.Course{
			1: {ID: 1, Title: "Go From Scratch", Amount: 4999, Currency: "INR", IsPublished: true},
		},
		events: map[int64]*eventDatamodel.Event{
			10: {ID: 10, Title: "Live Workshop", Amount: 999, Currency: "INR", IsPublished: true},
		},
	}
}

func (m *mockCheckoutRepository) GetCourse(id int64) (*courseDatamodel.Course, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, errors.New("course not found")
}

func (m *mockCheckoutRepository) GetEvent(id int64) (*eventDatamodel.Event, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if e, ok := m.events[id]; ok {
		return e, nil
	}
	return nil, errors.New("event not found")
}

func (m *mockCheckoutRepository) CreateOrder(o *orderDatamodel.PendingOrder) error {
	if m.returnError {
		return m.errorToReturn
	}
	m.orders = append(m.orders, o)
	return nil
}

func (m *mockCheckoutRepository) CreateRegistration(reg *eventDatamodel.Registration) error {
	if m.returnError {
		return m.errorToReturn
	}
	m.registrations = append(m.registrations, reg)
	return nil
}

type mockGateway struct {
	created  []gateway.CreateOrderRequest
	failWith error
	nextID   int
}

func (m *mockGateway) CreateOrder(_ context.Context, req gateway.CreateOrderRequest) (*gateway.Order, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	m.created = append(m.created, req)
	m.nextID++
	return &gateway.Order{
		ID:       fmt.Sprintf("order_test_%d", m.nextID),
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Status:   "created",
	}, nil
}

var _ = ginkgo.Describe("CheckoutService", func() {
	var (
		service  *Service
		mockRepo *mockCheckoutRepository
		gw       *mockGateway
		ctx      context.Context
	)

	buyer := UserDetails{
		Email:     "buyer@example.com",
		Phone:     "9876543210",
		FirstName: "Buyer",
	}

	ginkgo.BeforeEach(func() {
		mockRepo = newMockCheckoutRepository()
		gw = &mockGateway{}
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = NewService(mockRepo, gw, lg)
		ctx = context.Background()
	})

	ginkgo.Describe("CreateOrder for a course", func() {
		ginkgo.It("creates a gateway order in minor units and records a pending order", func() {
			resp, err := service.CreateOrder(ctx, &CreateOrderDTO{
				CourseID:    1,
				Amount:      4999,
				Currency:    "INR",
				UserDetails: buyer,
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(resp.ID).ToNot(gomega.BeEmpty())
			gomega.Expect(resp.Amount).To(gomega.Equal(int64(4999 * MinorUnitMultiplier)))

			gomega.Expect(gw.created).To(gomega.HaveLen(1))
			gomega.Expect(gw.created[0].Amount).To(gomega.Equal(int64(499900)))

			gomega.Expect(mockRepo.orders).To(gomega.HaveLen(1))
			pending := mockRepo.orders[0]
			gomega.Expect(pending.ItemType).To(gomega.Equal(orderDatamodel.ItemTypeCourse))
			gomega.Expect(pending.ItemID).To(gomega.Equal(int64(1)))
			gomega.Expect(pending.Status).To(gomega.Equal(orderDatamodel.StatusPending))
			gomega.Expect(pending.GatewayOrderID).To(gomega.Equal(resp.ID))
		})

		ginkgo.It("does not create a registration for a course order", func() {
			_, err := service.CreateOrder(ctx, &CreateOrderDTO{
				CourseID:    1,
				Amount:      4999,
				Currency:    "INR",
				UserDetails: buyer,
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.registrations).To(gomega.BeEmpty())
		})

		ginkgo.It("rejects an amount that does not match the course price", func() {
			_, err := service.CreateOrder(ctx, &CreateOrderDTO{
				CourseID:    1,
				Amount:      1,
				Currency:    "INR",
				UserDetails: buyer,
			})

			gomega.Expect(err).To(gomega.HaveOccurred())
			var appErr *apperrors.AppError
			gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(apperrors.ErrCodeAmountMismatch))

			// nothing reached the gateway or the database
			gomega.Expect(gw.created).To(gomega.BeEmpty())
			gomega.Expect(mockRepo.orders).To(gomega.BeEmpty())
		})

		ginkgo.It("returns not found for an unknown course", func() {
			_, err := service.CreateOrder(ctx, &CreateOrderDTO{
				CourseID:    999,
				Amount:      4999,
				Currency:    "INR",
				UserDetails: buyer,
			})

			gomega.Expect(err).To(gomega.Equal(apperrors.ErrCourseNotFound))
		})

		ginkgo.It("surfaces a gateway failure without recording an order", func() {
			gw.failWith = errors.New("gateway down")

			_, err := service.CreateOrder(ctx, &CreateOrderDTO{
				CourseID:    1,
				Amount:      4999,
				Currency:    "INR",
				UserDetails: buyer,
			})

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(mockRepo.orders).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("CreateOrder for an event", func() {
		ginkgo.It("records both a pending order and a pending registration", func() {
			resp, err := service.CreateOrder(ctx, &CreateOrderDTO{
				EventID:     10,
				Amount:      999,
				Currency:    "INR",
				UserDetails: buyer,
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.orders).To(gomega.HaveLen(1))
			gomega.Expect(mockRepo.orders[0].ItemType).To(gomega.Equal(orderDatamodel.ItemTypeEvent))

			gomega.Expect(mockRepo.registrations).To(gomega.HaveLen(1))
			reg := mockRepo.registrations[0]
			gomega.Expect(reg.EventID).To(gomega.Equal(int64(10)))
			gomega.Expect(reg.Email).To(gomega.Equal(buyer.Email))
			gomega.Expect(reg.GatewayOrderID).To(gomega.Equal(resp.ID))
			gomega.Expect(reg.PaymentStatus).To(gomega.Equal(eventDatamodel.PaymentStatusPending))
		})

		ginkgo.It("returns not found for an unknown event", func() {
			_, err := service.CreateOrder(ctx, &CreateOrderDTO{
				EventID:     999,
				Amount:      999,
				Currency:    "INR",
				UserDetails: buyer,
			})

			gomega.Expect(err).To(gomega.Equal(apperrors.ErrEventNotFound))
		})
	})

	ginkgo.Describe("validation", func() {
		ginkgo.It("rejects a request with neither item id", func() {
			_, err := service.CreateOrder(ctx, &CreateOrderDTO{
				Amount:      4999,
				Currency:    "INR",
				UserDetails: buyer,
			})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("rejects a request with both item ids", func() {
			_, err := service.CreateOrder(ctx, &CreateOrderDTO{
				CourseID:    1,
				EventID:     10,
				Amount:      4999,
				Currency:    "INR",
				UserDetails: buyer,
			})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("rejects an unsupported currency", func() {
			_, err := service.CreateOrder(ctx, &CreateOrderDTO{
				CourseID:    1,
				Amount:      4999,
				Currency:    "EUR",
				UserDetails: buyer,
			})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("rejects a missing phone number", func() {
			_, err := service.CreateOrder(ctx, &CreateOrderDTO{
				CourseID: 1,
				Amount:   4999,
				Currency: "INR",
				UserDetails: UserDetails{
					Email: "buyer@example.com",
				},
			})
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(gw.created).To(gomega.BeEmpty())
		})
	})
})
