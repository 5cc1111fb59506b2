package testimonial

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	apperrors "github.com/frahmantamala/course-platform/internal"
	testimonialDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/testimonial"
)

func TestTestimonial(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Testimonial Module Suite")
}

type mockTestimonialRepository struct {
	rows          map[int64]*testimonialDatamodel.Testimonial
	nextID        int64
	returnError   bool
	errorToReturn error
}

func newMockTestimonialRepository() *mockTestimonialRepository {
	m := &mockTestimonialRepository{
		rows:   make(map[int64]*testimonialDatamodel.Testimonial),
		nextID: 100,
	}
	m.rows[1] = &testimonialDatamodel.Testimonial{
		ID: 1, Name: "Approved Learner", Message: "Great course", Rating: 5, IsApproved: true,
	}
	m.rows[2] = &testimonialDatamodel.Testimonial{
		ID: 2, Name: "Pending Learner", Message: "Waiting for review", Rating: 4,
	}
	return m
}

func (m *mockTestimonialRepository) ListApproved() ([]testimonialDatamodel.Testimonial, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	var out []testimonialDatamodel.Testimonial
	for _, t := range m.rows {
		if t.IsApproved {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *mockTestimonialRepository) ListAll() ([]testimonialDatamodel.Testimonial, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	var out []testimonialDatamodel.Testimonial
	for _, t := range m.rows {
		out = append(out, *t)
	}
	return out, nil
}

func (m *mockTestimonialRepository) GetByID(id int64) (*testimonialDatamodel.Testimonial, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if t, ok := m.rows[id]; ok {
		return t, nil
	}
	return nil, errors.New("testimonial not found")
}

func (m *mockTestimonialRepository) Create(t *testimonialDatamodel.Testimonial) error {
	if m.returnError {
		return m.errorToReturn
	}
	m.nextID++
	t.ID = m.nextID
	m.rows[t.ID] = t
	return nil
}

func (m *mockTestimonialRepository) SetApproved(id int64, approved bool) error {
	if m.returnError {
		return m.errorToReturn
	}
	m.rows[id].IsApproved = approved
	return nil
}

func (m *mockTestimonialRepository) Delete(id int64) error {
	if m.returnError {
		return m.errorToReturn
	}
	delete(m.rows, id)
	return nil
}

var _ = ginkgo.Describe("TestimonialService", func() {
	var (
		service  *Service
		mockRepo *mockTestimonialRepository
		ctx      context.Context
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockTestimonialRepository()
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = NewService(mockRepo, lg)
		ctx = context.Background()
	})

	ginkgo.Describe("ListApproved", func() {
		ginkgo.It("hides unmoderated submissions", func() {
			rows, err := service.ListApproved(ctx)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(rows).To(gomega.HaveLen(1))
			gomega.Expect(rows[0].Name).To(gomega.Equal("Approved Learner"))
		})
	})

	ginkgo.Describe("Submit", func() {
		ginkgo.It("stores the submission unapproved", func() {
			t, err := service.Submit(ctx, &SubmitDTO{
				Name: "New Learner", Message: "Loved it", Rating: 5,
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(t.ID).ToNot(gomega.BeZero())
			gomega.Expect(t.IsApproved).To(gomega.BeFalse())
		})

		ginkgo.It("rejects a rating outside 1 to 5", func() {
			_, err := service.Submit(ctx, &SubmitDTO{
				Name: "Over Rater", Message: "Six stars", Rating: 6,
			})
			gomega.Expect(err).To(gomega.HaveOccurred())

			_, err = service.Submit(ctx, &SubmitDTO{
				Name: "Zero Rater", Message: "No stars", Rating: 0,
			})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("Approve", func() {
		ginkgo.It("publishes a pending submission", func() {
			gomega.Expect(service.Approve(ctx, 2, true)).To(gomega.Succeed())

			rows, err := service.ListApproved(ctx)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(rows).To(gomega.HaveLen(2))
		})

		ginkgo.It("can take an approved testimonial back down", func() {
			gomega.Expect(service.Approve(ctx, 1, false)).To(gomega.Succeed())

			rows, err := service.ListApproved(ctx)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(rows).To(gomega.BeEmpty())
		})

		ginkgo.It("returns not found for an unknown id", func() {
			err := service.Approve(ctx, 999, true)
			gomega.Expect(err).To(gomega.Equal(apperrors.ErrTestimonialNotFound))
		})
	})

	ginkgo.Describe("Delete", func() {
		ginkgo.It("removes the testimonial", func() {
			gomega.Expect(service.Delete(ctx, 1)).To(gomega.Succeed())
			gomega.Expect(service.Delete(ctx, 1)).To(gomega.Equal(apperrors.ErrTestimonialNotFound))
		})
	})
})
