package entitlement

import (
	errors "github.com/frahmantamala/course-platform/internal"
	"github.com/frahmantamala/course-platform/internal/core/common/validation"
	"github.com/frahmantamala/course-platform/internal/checkout"
)

type VerifyPaymentDTO struct {
	GatewayOrderID   string               `json:"gatewayOrderId"`
	GatewayPaymentID string               `json:"gatewayPaymentId"`
	GatewaySignature string               `json:"gatewaySignature"`
	CourseID         int64                `json:"courseId,omitempty"`
	EventID          int64                `json:"eventId,omitempty"`
	UserDetails      checkout.UserDetails `json:"userDetails"`
}

// VerificationResponse confirms a committed payment. The raw signature
// and gateway secret are never echoed back.
type VerificationResponse struct {
	PaymentID string `json:"paymentId"`
	OrderID   string `json:"orderId"`
	ItemName  string `json:"itemName"`
}

func (d *VerifyPaymentDTO) Validate() error {
	if d.CourseID == 0 && d.EventID == 0 {
		return errors.NewValidationError("courseId or eventId is required", errors.ErrCodeValidationFailed)
	}
	if d.CourseID != 0 && d.EventID != 0 {
		return errors.NewValidationError("only one of courseId or eventId may be set", errors.ErrCodeValidationFailed)
	}

	validator := validation.NewValidator()
	validator.Field("gatewayOrderId", d.GatewayOrderID).Required()
	validator.Field("gatewayPaymentId", d.GatewayPaymentID).Required()
	validator.Field("gatewaySignature", d.GatewaySignature).Required()
	validator.Field("phone", d.UserDetails.Phone).Required().Phone()
	validator.Field("email", d.UserDetails.Email).Email()

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
