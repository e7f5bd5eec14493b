package dto

import (
	"github.com/wekeepgrowing/nursery-backend/internal/domain/model"
)

// ProfileParams are the owner-editable profile fields.
type ProfileParams struct {
	FirstName         string          `json:"first_name"`
	MiddleName        string          `json:"middle_name"`
	LastName          string          `json:"last_name"`
	PermanentAddress  string          `json:"permanent_address"`
	MobileNumber      string          `json:"mobile_number"`
	DeliveryAddresses []model.Address `json:"delivery_addresses"`
}

// UserDetail is a user with profile as shown to super admins.
type UserDetail struct {
	*model.User
	Profile *model.Profile `json:"profile,omitempty"`
}

// ManageAdminParams is a super-admin role change from the dashboard.
type ManageAdminParams struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	Action string `json:"action"`
}
