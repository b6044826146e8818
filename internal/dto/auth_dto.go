package dto

// SendOtpRequest captures the payload for requesting a login code.
type SendOtpRequest struct {
	Email          string `json:"email" validate:"required,email"`
	OrganizationID string `json:"organization_id" validate:"required"`
}

// VerifyOtpRequest captures the payload for verifying a login code.
type VerifyOtpRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Otp            string `json:"otp" validate:"required,len=6,numeric"`
	OrganizationID string `json:"organization_id" validate:"required"`
}

// LoginResponse is returned after a successful OTP verification. CustomToken
// is the session credential the client signs in with; IsFirstLogin tells the
// presentation layer to prompt for a real display name.
type LoginResponse struct {
	CustomToken  string                `json:"customToken"`
	IsFirstLogin bool                  `json:"is_first_login"`
	Admin        AdminResponse         `json:"admin"`
	Organization *OrganizationResponse `json:"organization"`
}
