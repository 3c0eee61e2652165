package permission

// UpsertGrantDTO is the transport shape for creating or replacing a grant.
type UpsertGrantDTO struct {
	CanView   bool `json:"can_view"`
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
}

// ConfidentialAccessDTO names the user being put on a document's allow-list.
type ConfidentialAccessDTO struct {
	UserID int64 `json:"user_id"`
}

func (d ConfidentialAccessDTO) Validate() error {
	if d.UserID <= 0 {
		return ValidationError{Msg: "user_id is required"}
	}
	return nil
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

type EffectivePermissionsResponse struct {
	UserID      int64                 `json:"user_id"`
	Permissions []EffectivePermission `json:"permissions"`
}

type GrantResponse struct {
	UserID    int64  `json:"user_id"`
	Area      string `json:"area"`
	CanView   bool   `json:"can_view"`
	CanEdit   bool   `json:"can_edit"`
	CanDelete bool   `json:"can_delete"`
}
