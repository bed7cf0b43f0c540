package models

import "time"

// User roles. Role is fixed at registration and governs default capability;
// per-project rights are decided by the policy engine.
const (
	RoleLead = "lead"
	RoleDev  = "dev"
)

// User represents a registered account. Leads create and own projects,
// devs join them as invited members.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"` // bcrypt hash
	FullName  string    `gorm:"size:200" json:"full_name"`
	Role      string    `gorm:"size:20;default:dev" json:"role"` // lead, dev
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// IsValidRole reports whether role is one of the known user roles.
func IsValidRole(role string) bool {
	return role == RoleLead || role == RoleDev
}
