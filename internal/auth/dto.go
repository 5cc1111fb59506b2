package auth

import (
	"github.com/frahmantamala/course-platform/internal/core/common/validation"
)

type RegisterDTO struct {
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

type SendOTPDTO struct {
	Email string `json:"email"`
}

type VerifyOTPDTO struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (d RegisterDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("email", d.Email).Required().Email()
	validator.Field("phone", d.Phone).Required().Phone()
	validator.Field("password", d.Password).Required().MinLength(8).MaxLength(72)
	validator.Field("firstName", d.FirstName).Required().MaxLength(100)
	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

func (d LoginDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("email", d.Email).Required().Email()
	validator.Field("password", d.Password).Required()
	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

func (d RefreshTokenDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("refresh_token", d.RefreshToken).Required()
	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

func (d SendOTPDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("email", d.Email).Required().Email()
	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

func (d VerifyOTPDTO) Validate() error {
	validator := validation.NewValidator()
	validator.Field("email", d.Email).Required().Email()
	validator.Field("otp", d.OTP).Required().MinLength(4).MaxLength(4)
	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
