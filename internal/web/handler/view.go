package handler

import (
	"time"

	"github.com/GoBazaar/GoBazaar/internal/db/models"
)

// RoleView is the JSON form of a role.
type RoleView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Accesses  []string  `json:"accesses"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewRoleView renders r with its accesses in catalog order.
func NewRoleView(r *models.Role) RoleView {
	return RoleView{
		ID:        r.ID,
		Name:      r.Name,
		Accesses:  r.AccessSet().Strings(),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// UserView is the JSON form of a user. Role is set when it was loaded.
type UserView struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	RoleID    *string   `json:"roleId"`
	Role      *RoleView `json:"role,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUserView renders u.
func NewUserView(u *models.User) UserView {
	v := UserView{ID: u.ID, Name: u.Name, Email: u.Email, RoleID: u.RoleID, CreatedAt: u.CreatedAt}
	if u.Role != nil {
		rv := NewRoleView(u.Role)
		v.Role = &rv
	}

	return v
}
