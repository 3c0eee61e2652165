package user

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/wicaksana/internal-portal/internal"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type CreateUserDTO struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (d *CreateUserDTO) Validate() error {
	d.Username = strings.TrimSpace(d.Username)
	d.Email = strings.TrimSpace(d.Email)
	d.Name = strings.TrimSpace(d.Name)

	if d.Username == "" {
		return NewValidationError("username is required")
	}
	if !emailRegex.MatchString(d.Email) {
		return NewValidationError("email must be a valid email address")
	}
	if d.Name == "" {
		return NewValidationError("name is required")
	}
	if len(d.Password) < 8 {
		return NewValidationError("password must be at least 8 characters")
	}
	if _, err := internal.ParseRole(d.Role); err != nil {
		return NewValidationError(fmt.Sprintf("role %q is not valid", d.Role))
	}
	return nil
}

type UpdateUserDTO struct {
	Name     *string `json:"name,omitempty"`
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func (d *UpdateUserDTO) Validate() error {
	if d.Name == nil && d.Role == nil && d.IsActive == nil {
		return NewValidationError("at least one field must be provided")
	}
	if d.Name != nil && strings.TrimSpace(*d.Name) == "" {
		return NewValidationError("name cannot be empty")
	}
	if d.Role != nil {
		if _, err := internal.ParseRole(*d.Role); err != nil {
			return NewValidationError(fmt.Sprintf("role %q is not valid", *d.Role))
		}
	}
	return nil
}

type ValidationError struct {
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}
