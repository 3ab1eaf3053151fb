// Package accounts implements moderator account provisioning: validated,
// unique identity fields and a salted one-way password hash. The raw password
// never crosses this boundary.
package accounts

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/townhall-go/apperror"
	"github.com/user/townhall-go/auth"
	"github.com/user/townhall-go/config"
)

// Service provisions new accounts against the user store.
type Service struct {
	store    auth.UserStore
	policy   config.ProvisionConfig
	validate *validator.Validate
}

// NewService creates a Service with the given password policy.
func NewService(store auth.UserStore, policy config.ProvisionConfig) *Service {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report violations under the JSON field names the client actually sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Service{store: store, policy: policy, validate: v}
}

// Provision validates the request, collecting every violated rule rather
// than stopping at the first, and creates the account on success. Only an
// ADMIN caller may provision accounts; there is no self-service signup. The
// stored password is bcrypt-hashed; the returned User never carries the hash
// in its serialized form.
func (s *Service) Provision(ctx context.Context, req NewAccountRequest) (*auth.User, error) {
	// The gate runs before any validation or storage work.
	if _, err := auth.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	violations := s.collectViolations(req)

	// Role assignment: default MODERATOR. The caller already passed the gate
	// as ADMIN, so an explicit ADMIN request needs no further check.
	role := req.Role
	switch role {
	case "":
		role = auth.RoleModerator
	case auth.RoleModerator, auth.RoleAdmin:
	default:
		violations = append(violations, apperror.FieldViolation{
			Field:   "role",
			Message: "role must be ADMIN or MODERATOR",
		})
	}

	// Email uniqueness, case-insensitive. A transient storage fault here is
	// not a validation problem and is surfaced as retryable.
	if req.Email != "" {
		exists, err := s.store.EmailExists(ctx, req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			violations = append(violations, apperror.FieldViolation{
				Field:   "email",
				Message: "email already registered",
			})
		}
	}

	if len(violations) > 0 {
		return nil, apperror.NewFieldValidationError("account request is invalid", violations)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	user := &auth.User{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          strings.ToLower(req.Email),
		HashedPassword: string(hashedPassword),
		Role:           role,
	}

	// The unique constraint remains the final arbiter: a concurrent
	// provisioning of the same email loses here with a Conflict.
	created, err := s.store.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// collectViolations gathers structural and policy violations. It never
// short-circuits: the caller gets the complete list in one pass.
func (s *Service) collectViolations(req NewAccountRequest) []apperror.FieldViolation {
	var violations []apperror.FieldViolation

	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				violations = append(violations, apperror.FieldViolation{
					Field:   fe.Field(),
					Message: violationMessage(fe),
				})
			}
		} else {
			violations = append(violations, apperror.FieldViolation{
				Field:   "",
				Message: "request is not valid",
			})
		}
	}

	// Password strength policy. Skipped when the password is absent; the
	// required violation already covers that.
	if req.Password != "" {
		if len(req.Password) < s.policy.MinPasswordLength {
			violations = append(violations, apperror.FieldViolation{
				Field:   "password",
				Message: "password is too short",
			})
		}
		if isPurelyNumeric(req.Password) {
			violations = append(violations, apperror.FieldViolation{
				Field:   "password",
				Message: "password must not be purely numeric",
			})
		}
	}

	return violations
}

// violationMessage renders a validator rule failure as a client-facing
// message.
func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "eqfield":
		return "passwords do not match"
	default:
		return "is invalid"
	}
}

func isPurelyNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}
