package user

import (
	"time"

	"github.com/wicaksana/internal-portal/internal"
	userDatamodel "github.com/wicaksana/internal-portal/internal/core/datamodel/user"
)

type User struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"tenant_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	passwordHash string
}

func (u *User) PasswordHash() string { return u.passwordHash }

func (u *User) ParsedRole() (internal.Role, error) {
	return internal.ParseRole(u.Role)
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		TenantID:     u.TenantID,
		Username:     u.Username,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.passwordHash,
		Role:         u.Role,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(dm *userDatamodel.User) *User {
	return &User{
		ID:           dm.ID,
		TenantID:     dm.TenantID,
		Username:     dm.Username,
		Email:        dm.Email,
		Name:         dm.Name,
		Role:         dm.Role,
		IsActive:     dm.IsActive,
		CreatedAt:    dm.CreatedAt,
		UpdatedAt:    dm.UpdatedAt,
		passwordHash: dm.PasswordHash,
	}
}
