package postgres

import (
	"database/sql"
	"errors"

	"gorm.io/gorm"

	"github.com/wicaksana/internal-portal/internal"
	"github.com/wicaksana/internal-portal/internal/auth"
	userDatamodel "github.com/wicaksana/internal-portal/internal/core/datamodel/user"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetPasswordForUsername(username string) (string, int64, error) {
	var passwordHash string
	var userID int64
	query := `SELECT id, password_hash FROM users WHERE username = ? AND is_active = true`

	row := r.db.Raw(query, username).Row()
	if err := row.Scan(&userID, &passwordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", 0, auth.ErrUserNotFound
		}
		return "", 0, err
	}
	return passwordHash, userID, nil
}

func (r *Repository) GetAuthUser(userID int64) (*auth.AuthUser, error) {
	var row userDatamodel.User
	err := r.db.Where("id = ?", userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}

	role, err := internal.ParseRole(row.Role)
	if err != nil {
		return nil, err
	}

	return &auth.AuthUser{
		ID:       row.ID,
		TenantID: row.TenantID,
		Username: row.Username,
		Email:    row.Email,
		Role:     role,
		IsActive: row.IsActive,
	}, nil
}
