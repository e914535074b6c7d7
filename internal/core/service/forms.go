package service

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/cityfeedback/portal/internal/core/domain"
)

// LoginForm is the credential pair typed into the login page.
type LoginForm struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// SignupForm is the self-registration form. New accounts are always citizens.
type SignupForm struct {
	Email           string `json:"email" form:"email" validate:"required,email"`
	Password        string `json:"password" form:"password" validate:"required,password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" validate:"eqfield=Password"`
}

// CreateFeedbackForm is the citizen submission form. Fields are trimmed before
// validation.
type CreateFeedbackForm struct {
	Title    string `json:"title" form:"title" validate:"required"`
	Category string `json:"category" form:"category" validate:"required,category"`
	Content  string `json:"content" form:"content" validate:"required"`
}

func (f *CreateFeedbackForm) trim() {
	f.Title = strings.TrimSpace(f.Title)
	f.Category = strings.TrimSpace(f.Category)
	f.Content = strings.TrimSpace(f.Content)
}

// CreateUserForm is the admin account creation form.
type CreateUserForm struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
	Role     string `json:"role" form:"role" validate:"required,role"`
}

// ChangeRoleForm reassigns a user's role.
type ChangeRoleForm struct {
	Role string `json:"role" form:"role" validate:"required,role"`
}

// ChangePasswordForm sets a new password for a user.
type ChangePasswordForm struct {
	Password string `json:"password" form:"password" validate:"required"`
}

// StatusForm carries a status change with an optional comment.
type StatusForm struct {
	Status  string `json:"status" form:"status" validate:"required"`
	Comment string `json:"comment" form:"comment"`
}

// CommentForm carries a standalone comment.
type CommentForm struct {
	Content string `json:"content" form:"content" validate:"required"`
}

// FormValidator wraps go-playground/validator with the portal's custom rules.
// It satisfies echo.Validator, so the web portal assigns it directly.
type FormValidator struct {
	v *validator.Validate
}

// NewFormValidator registers the custom "password", "category" and "role"
// rules.
func NewFormValidator() *FormValidator {
	v := validator.New()
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return strongPassword(fl.Field().String())
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return domain.Category(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return domain.Role(fl.Field().String()).Valid()
	})
	return &FormValidator{v: v}
}

// Validate checks i and returns an error wrapping domain.ErrValidation with
// one human-readable message per failed field.
func (fv *FormValidator) Validate(i any) error {
	if err := fv.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "password":
		return field + " must be at least 8 characters and contain a letter and a digit"
	case "eqfield":
		return "passwords do not match"
	case "category":
		return field + " must be one of: " + joinCodes(domain.Categories)
	case "role":
		return field + " must be one of: " + joinCodes(domain.Roles)
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

func strongPassword(pw string) bool {
	if len([]rune(pw)) < 8 {
		return false
	}
	var letter, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}

func joinCodes[T ~string](codes []T) string {
	s := make([]string, len(codes))
	for i, c := range codes {
		s[i] = string(c)
	}
	return strings.Join(s, ", ")
}
