package checkout

import (
	errors "github.com/frahmantamala/course-platform/internal"
	"github.com/frahmantamala/course-platform/internal/core/common/validation"
)

// UserDetails is the buyer contact block shared by course and event
// checkout. Phone is mandatory; email is optional but validated.
type UserDetails struct {
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type CreateOrderDTO struct {
	CourseID    int64       `json:"courseId,omitempty"`
	EventID     int64       `json:"eventId,omitempty"`
	Amount      int64       `json:"amount"`
	Currency    string      `json:"currency"`
	UserDetails UserDetails `json:"userDetails"`
}

// OrderResponse is the gateway order handle returned to the client. It
// never carries the gateway key secret.
type OrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

func (d *CreateOrderDTO) Validate() error {
	if d.CourseID == 0 && d.EventID == 0 {
		return errors.NewValidationError("courseId or eventId is required", errors.ErrCodeValidationFailed)
	}
	if d.CourseID != 0 && d.EventID != 0 {
		return errors.NewValidationError("only one of courseId or eventId may be set", errors.ErrCodeValidationFailed)
	}

	validator := validation.NewValidator()
	validator.Field("amount", d.Amount).Required().MinInt(1, errors.ErrCodeInvalidAmount)
	validator.Field("currency", d.Currency).Required().OneOf("INR", "USD")
	validator.Field("phone", d.UserDetails.Phone).Required().Phone()
	validator.Field("email", d.UserDetails.Email).Email()

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
