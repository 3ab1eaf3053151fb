// Data transfer objects for account provisioning.
package accounts

// NewAccountRequest is the provisioning payload. The validate tags carry the
// structural rules; policy rules (password strength, email uniqueness) are
// checked by the service so that every violation is reported together.
type NewAccountRequest struct {
	FirstName       string `json:"first_name" validate:"required" example:"Ada"`
	LastName        string `json:"last_name" validate:"required" example:"Lovelace"`
	Email           string `json:"email" validate:"required,email" example:"ada@example.com"`
	Password        string `json:"password" validate:"required" example:"strongpassword123"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password" example:"strongpassword123"`
	// Role is optional and defaults to MODERATOR. Requesting ADMIN requires
	// the caller to hold the ADMIN role itself.
	Role string `json:"role,omitempty" example:"MODERATOR"`
}
