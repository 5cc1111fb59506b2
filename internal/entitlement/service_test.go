package entitlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	apperrors "github.com/frahmantamala/course-platform/internal"
	"github.com/frahmantamala/course-platform/internal/checkout"
	courseDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/course"
	eventDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/event"
	orderDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/order"
	transactionDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/transaction"
	userDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/user"
	"github.com/frahmantamala/course-platform/internal/core/events"
	"github.com/frahmantamala/course-platform/internal/signing"
)

func TestEntitlement(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Entitlement Module Suite")
}

const testKeySecret = "test_gateway_key_secret"

type mockEntitlementRepository struct {
	courses map[int64]*courseDatamodel.Course
	events  map[int64]*eventDatamodel.Event
	users   map[string]*userDatamodel.User

	paidOrders    map[string]*orderDatamodel.PendingOrder
	purchases     map[string]*userDatamodel.PurchasedCourse
	transactions  map[string]*transactionDatamodel.Transaction
	registrations map[string]*eventDatamodel.Registration
	notifiedFlags map[string]bool
	linkSentFlags map[string]bool

	writeCount    int
	returnError   bool
	errorToReturn error
}

func newMockEntitlementRepository() *mockEntitlementRepository {
	return &mockEntitlementRepository{
		courses: map[int64]*courseDatamodel.Course{
			1: {ID: 1, Title: "Go From Scratch", Amount: 4999, Currency: "INR", IsPublished: true},
		},
		events: map[int64]*eventDatamodel.Event{
			10: {
				ID:       10,
				Title:    "Live Workshop",
				Amount:   999,
				Currency: "INR",
				JoinLink: "https://meet.example.com/workshop",
				StartsAt: time.Now().Add(48 * time.Hour),
			},
		},
		users: map[string]*userDatamodel.User{
			"buyer@example.com": {ID: 7, Email: "buyer@example.com", IsActive: true},
		},
		paidOrders:    make(map[string]*orderDatamodel.PendingOrder),
		purchases:     make(map[string]*userDatamodel.PurchasedCourse),
		transactions:  make(map[string]*transactionDatamodel.Transaction),
		registrations: make(map[string]*eventDatamodel.Registration),
		notifiedFlags: make(map[string]bool),
		linkSentFlags: make(map[string]bool),
	}
}

func (m *mockEntitlementRepository) GetCourse(id int64) (*courseDatamodel.Course, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, errors.New("course not found")
}

func (m *mockEntitlementRepository) GetEvent(id int64) (*eventDatamodel.Event, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if e, ok := m.events[id]; ok {
		return e, nil
	}
	return nil, errors.New("event not found")
}

func (m *mockEntitlementRepository) GetUserByEmail(email string) (*userDatamodel.User, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

func (m *mockEntitlementRepository) GetOrderByGatewayID(gatewayOrderID string) (*orderDatamodel.PendingOrder, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	o, ok := m.paidOrders[gatewayOrderID]
	if !ok {
		return nil, errors.New("order not found")
	}
	ord := *o
	ord.Notified = m.notifiedFlags[gatewayOrderID]
	return &ord, nil
}

func (m *mockEntitlementRepository) GetRegistration(eventID int64, email, gatewayOrderID string) (*eventDatamodel.Registration, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	reg, ok := m.registrations[gatewayOrderID]
	if !ok || reg.EventID != eventID || reg.Email != email {
		return nil, errors.New("registration not found")
	}
	r := *reg
	r.JoinLinkSent = m.linkSentFlags[gatewayOrderID]
	return &r, nil
}

func (m *mockEntitlementRepository) MarkOrderPaid(o *orderDatamodel.PendingOrder) error {
	if m.returnError {
		return m.errorToReturn
	}
	m.writeCount++
	// upsert keyed on the gateway order id, like the unique index does
	m.paidOrders[o.GatewayOrderID] = o
	return nil
}

func (m *mockEntitlementRepository) GrantCoursePurchase(p *userDatamodel.PurchasedCourse) error {
	if m.returnError {
		return m.errorToReturn
	}
	m.writeCount++
	key := purchaseKey(p.UserID, p.CourseID)
	if _, exists := m.purchases[key]; exists {
		// conflict target (user_id, course_id) does nothing on replay
		return nil
	}
	m.purchases[key] = p
	return nil
}

func (m *mockEntitlementRepository) RecordTransaction(t *transactionDatamodel.Transaction) error {
	if m.returnError {
		return m.errorToReturn
	}
	m.writeCount++
	if _, exists := m.transactions[t.OrderID]; exists {
		return nil
	}
	m.transactions[t.OrderID] = t
	return nil
}

func (m *mockEntitlementRepository) MarkRegistrationPaid(reg *eventDatamodel.Registration) error {
	if m.returnError {
		return m.errorToReturn
	}
	m.writeCount++
	m.registrations[reg.GatewayOrderID] = reg
	return nil
}

func (m *mockEntitlementRepository) SetOrderNotified(gatewayOrderID string, notified bool) error {
	if m.returnError {
		return m.errorToReturn
	}
	m.notifiedFlags[gatewayOrderID] = notified
	return nil
}

func (m *mockEntitlementRepository) SetJoinLinkSent(eventID int64, email, gatewayOrderID string, sent bool) error {
	if m.returnError {
		return m.errorToReturn
	}
	m.linkSentFlags[gatewayOrderID] = sent
	return nil
}

func purchaseKey(userID, courseID int64) string {
	return fmt.Sprintf("%d:%d", userID, courseID)
}

type mockNotifier struct {
	receipts  []string
	joinLinks []string
	failWith  error
}

func (m *mockNotifier) SendPurchaseReceipt(_ context.Context, email, itemName string, amount int64, currency, orderID, paymentID string) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.receipts = append(m.receipts, email)
	return nil
}

func (m *mockNotifier) SendJoinLink(_ context.Context, email, eventName, joinLink string, startsAt time.Time) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.joinLinks = append(m.joinLinks, email)
	return nil
}

type capturingBus struct {
	published []events.Event
}

func (b *capturingBus) Publish(_ context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *capturingBus) typesPublished() []string {
	types := make([]string, 0, len(b.published))
	for _, e := range b.published {
		types = append(types, e.EventType())
	}
	return types
}

var _ = ginkgo.Describe("EntitlementService", func() {
	var (
		service  *Service
		mockRepo *mockEntitlementRepository
		notifier *mockNotifier
		bus      *capturingBus
		ctx      context.Context
	)

	buyer := checkout.UserDetails{
		Email: "buyer@example.com",
		Phone: "9876543210",
	}

	signedCourseDTO := func() *VerifyPaymentDTO {
		dto := &VerifyPaymentDTO{
			GatewayOrderID:   "order_course_1",
			GatewayPaymentID: "pay_course_1",
			CourseID:         1,
			UserDetails:      buyer,
		}
		dto.GatewaySignature = signing.PaymentSignature(testKeySecret, dto.GatewayOrderID, dto.GatewayPaymentID)
		return dto
	}

	signedEventDTO := func() *VerifyPaymentDTO {
		dto := &VerifyPaymentDTO{
			GatewayOrderID:   "order_event_1",
			GatewayPaymentID: "pay_event_1",
			EventID:          10,
			UserDetails:      buyer,
		}
		dto.GatewaySignature = signing.PaymentSignature(testKeySecret, dto.GatewayOrderID, dto.GatewayPaymentID)
		return dto
	}

	ginkgo.BeforeEach(func() {
		mockRepo = newMockEntitlementRepository()
		notifier = &mockNotifier{}
		bus = &capturingBus{}
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = NewService(mockRepo, notifier, bus, testKeySecret, lg)
		ctx = context.Background()
	})

	ginkgo.Describe("signature verification", func() {
		ginkgo.It("rejects a tampered signature before touching the repository", func() {
			dto := signedCourseDTO()
			dto.GatewaySignature = signing.PaymentSignature("wrong_secret", dto.GatewayOrderID, dto.GatewayPaymentID)

			_, err := service.VerifyPayment(ctx, dto)

			gomega.Expect(err).To(gomega.HaveOccurred())
			appErr, ok := apperrors.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(apperrors.ErrCodeSignatureMismatch))
			gomega.Expect(mockRepo.writeCount).To(gomega.BeZero())
			gomega.Expect(bus.published).To(gomega.BeEmpty())
		})

		ginkgo.It("rejects a signature for a different order id", func() {
			dto := signedCourseDTO()
			dto.GatewaySignature = signing.PaymentSignature(testKeySecret, "order_other", dto.GatewayPaymentID)

			_, err := service.VerifyPayment(ctx, dto)

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(mockRepo.writeCount).To(gomega.BeZero())
		})
	})

	ginkgo.Describe("course payment", func() {
		ginkgo.It("marks the order paid, grants the purchase and records the transaction", func() {
			resp, err := service.VerifyPayment(ctx, signedCourseDTO())

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(resp.OrderID).To(gomega.Equal("order_course_1"))
			gomega.Expect(resp.ItemName).To(gomega.Equal("Go From Scratch"))

			paid := mockRepo.paidOrders["order_course_1"]
			gomega.Expect(paid).ToNot(gomega.BeNil())
			gomega.Expect(paid.Status).To(gomega.Equal(orderDatamodel.StatusPaid))
			gomega.Expect(paid.PaidAt).ToNot(gomega.BeNil())

			gomega.Expect(mockRepo.purchases).To(gomega.HaveLen(1))
			txn := mockRepo.transactions["order_course_1"]
			gomega.Expect(txn).ToNot(gomega.BeNil())
			gomega.Expect(txn.Status).To(gomega.Equal(transactionDatamodel.StatusSuccess))
			gomega.Expect(txn.UserID).To(gomega.Equal(int64(7)))
		})

		ginkgo.It("sends the receipt and records the notified flag", func() {
			_, err := service.VerifyPayment(ctx, signedCourseDTO())

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(notifier.receipts).To(gomega.ConsistOf("buyer@example.com"))
			gomega.Expect(mockRepo.notifiedFlags["order_course_1"]).To(gomega.BeTrue())
		})

		ginkgo.It("publishes entitlement granted and order paid events", func() {
			_, err := service.VerifyPayment(ctx, signedCourseDTO())

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(bus.typesPublished()).To(gomega.ConsistOf(
				events.EventTypeEntitlementGranted,
				events.EventTypeOrderPaid,
			))
		})

		ginkgo.It("keeps the entitlement when the receipt email fails", func() {
			notifier.failWith = errors.New("smtp down")

			resp, err := service.VerifyPayment(ctx, signedCourseDTO())

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(resp).ToNot(gomega.BeNil())
			gomega.Expect(mockRepo.purchases).To(gomega.HaveLen(1))
			gomega.Expect(mockRepo.notifiedFlags["order_course_1"]).To(gomega.BeFalse())
			gomega.Expect(bus.typesPublished()).To(gomega.ContainElement(events.EventTypeNotificationFailed))
		})

		ginkgo.It("converges on the same state when the callback is replayed", func() {
			_, err := service.VerifyPayment(ctx, signedCourseDTO())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.VerifyPayment(ctx, signedCourseDTO())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(mockRepo.purchases).To(gomega.HaveLen(1))
			gomega.Expect(mockRepo.transactions).To(gomega.HaveLen(1))
			gomega.Expect(mockRepo.paidOrders).To(gomega.HaveLen(1))
		})

		ginkgo.It("does not resend the receipt when the replayed callback was already delivered", func() {
			_, err := service.VerifyPayment(ctx, signedCourseDTO())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(notifier.receipts).To(gomega.HaveLen(1))

			_, err = service.VerifyPayment(ctx, signedCourseDTO())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(notifier.receipts).To(gomega.HaveLen(1))
			gomega.Expect(mockRepo.notifiedFlags["order_course_1"]).To(gomega.BeTrue())
		})

		ginkgo.It("retries the receipt on replay when the first send failed", func() {
			notifier.failWith = errors.New("smtp down")
			_, err := service.VerifyPayment(ctx, signedCourseDTO())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.notifiedFlags["order_course_1"]).To(gomega.BeFalse())

			notifier.failWith = nil
			_, err = service.VerifyPayment(ctx, signedCourseDTO())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(notifier.receipts).To(gomega.ConsistOf("buyer@example.com"))
			gomega.Expect(mockRepo.notifiedFlags["order_course_1"]).To(gomega.BeTrue())
		})

		ginkgo.It("fails before any write when the buyer has no account", func() {
			dto := signedCourseDTO()
			dto.UserDetails.Email = "stranger@example.com"

			_, err := service.VerifyPayment(ctx, dto)

			gomega.Expect(err).To(gomega.Equal(apperrors.ErrUserNotFound))
			gomega.Expect(mockRepo.writeCount).To(gomega.BeZero())
			gomega.Expect(mockRepo.paidOrders).To(gomega.BeEmpty())
		})

		ginkgo.It("returns not found for an unknown course", func() {
			dto := signedCourseDTO()
			dto.CourseID = 999
			dto.GatewaySignature = signing.PaymentSignature(testKeySecret, dto.GatewayOrderID, dto.GatewayPaymentID)

			_, err := service.VerifyPayment(ctx, dto)

			gomega.Expect(err).To(gomega.Equal(apperrors.ErrCourseNotFound))
			gomega.Expect(mockRepo.writeCount).To(gomega.BeZero())
		})
	})

	ginkgo.Describe("event payment", func() {
		ginkgo.It("marks the registration paid and sends the join link", func() {
			resp, err := service.VerifyPayment(ctx, signedEventDTO())

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(resp.ItemName).To(gomega.Equal("Live Workshop"))

			reg := mockRepo.registrations["order_event_1"]
			gomega.Expect(reg).ToNot(gomega.BeNil())
			gomega.Expect(reg.PaymentStatus).To(gomega.Equal(eventDatamodel.PaymentStatusPaid))
			gomega.Expect(reg.PaidAt).ToNot(gomega.BeNil())

			gomega.Expect(notifier.joinLinks).To(gomega.ConsistOf("buyer@example.com"))
			gomega.Expect(mockRepo.linkSentFlags["order_event_1"]).To(gomega.BeTrue())
		})

		ginkgo.It("keeps the registration when the join link email fails", func() {
			notifier.failWith = errors.New("smtp down")

			_, err := service.VerifyPayment(ctx, signedEventDTO())

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.registrations).To(gomega.HaveLen(1))
			gomega.Expect(mockRepo.linkSentFlags["order_event_1"]).To(gomega.BeFalse())
			gomega.Expect(bus.typesPublished()).To(gomega.ContainElement(events.EventTypeNotificationFailed))
		})

		ginkgo.It("does not resend the join link on a replayed callback", func() {
			_, err := service.VerifyPayment(ctx, signedEventDTO())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(notifier.joinLinks).To(gomega.HaveLen(1))

			_, err = service.VerifyPayment(ctx, signedEventDTO())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(notifier.joinLinks).To(gomega.HaveLen(1))
			gomega.Expect(mockRepo.linkSentFlags["order_event_1"]).To(gomega.BeTrue())
		})

		ginkgo.It("does not require a registered account", func() {
			dto := signedEventDTO()
			dto.UserDetails.Email = "guest@example.com"

			_, err := service.VerifyPayment(ctx, dto)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.registrations["order_event_1"].Email).To(gomega.Equal("guest@example.com"))
		})

		ginkgo.It("returns not found for an unknown event", func() {
			dto := signedEventDTO()
			dto.EventID = 999

			_, err := service.VerifyPayment(ctx, dto)

			gomega.Expect(err).To(gomega.Equal(apperrors.ErrEventNotFound))
			gomega.Expect(mockRepo.writeCount).To(gomega.BeZero())
		})
	})

	ginkgo.Describe("validation", func() {
		ginkgo.It("rejects a request naming both a course and an event", func() {
			dto := signedCourseDTO()
			dto.EventID = 10

			_, err := service.VerifyPayment(ctx, dto)

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(mockRepo.writeCount).To(gomega.BeZero())
		})

		ginkgo.It("rejects a request missing the payment id", func() {
			dto := signedCourseDTO()
			dto.GatewayPaymentID = ""

			_, err := service.VerifyPayment(ctx, dto)

			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})
})
