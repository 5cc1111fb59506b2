package event

import (
	"time"

	errors "github.com/frahmantamala/course-platform/internal"
	"github.com/frahmantamala/course-platform/internal/core/common/validation"
)

// EventSummary is the public listing view. The join link is only ever
// delivered by email to paid registrants, never through the API.
type EventSummary struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Speaker     string    `json:"speaker"`
	Amount      int64     `json:"amount"`
	Currency    string    `json:"currency"`
	StartsAt    time.Time `json:"startsAt"`
}

type CreateEventDTO struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Speaker     string    `json:"speaker"`
	Amount      int64     `json:"amount"`
	Currency    string    `json:"currency"`
	JoinLink    string    `json:"joinLink"`
	StartsAt    time.Time `json:"startsAt"`
	IsPublished bool      `json:"isPublished"`
}

func (d *CreateEventDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("title", d.Title).Required().MaxLength(255)
	validator.Field("amount", d.Amount).MinInt(0, errors.ErrCodeInvalidAmount)
	validator.Field("startsAt", d.StartsAt).NotPast()
	if d.Currency != "" {
		validator.Field("currency", d.Currency).OneOf("INR", "USD")
	}
	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type UpdateEventDTO struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Speaker     *string    `json:"speaker,omitempty"`
	Amount      *int64     `json:"amount,omitempty"`
	Currency    *string    `json:"currency,omitempty"`
	JoinLink    *string    `json:"joinLink,omitempty"`
	StartsAt    *time.Time `json:"startsAt,omitempty"`
	IsPublished *bool      `json:"isPublished,omitempty"`
}

func (d *UpdateEventDTO) Validate() error {
	validator := validation.NewValidator()
	if d.Title != nil {
		validator.Field("title", *d.Title).Required().MaxLength(255)
	}
	if d.Amount != nil {
		validator.Field("amount", *d.Amount).MinInt(0, errors.ErrCodeInvalidAmount)
	}
	if d.Currency != nil {
		validator.Field("currency", *d.Currency).OneOf("INR", "USD")
	}
	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type RegistrationView struct {
	ID            int64      `json:"id"`
	EventID       int64      `json:"eventId"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	FirstName     string     `json:"firstName"`
	LastName      string     `json:"lastName"`
	PaymentStatus string     `json:"paymentStatus"`
	JoinLinkSent  bool       `json:"joinLinkSent"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
}
