package models

import (
	"time"

	"gorm.io/datatypes"
)

// Profile is the application-owned record for an identity, keyed by the
// auth provider's user uuid (1:1).
type Profile struct {
	UserID    string          `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email     string          `gorm:"column:email;type:text" json:"email"`
	FullName  *string         `gorm:"column:full_name;type:text" json:"full_name"`
	BirthDate *datatypes.Date `gorm:"column:birth_date;type:date" json:"birth_date"`
	Role      UserRole        `gorm:"column:role;type:text" json:"role"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }

func (p *Profile) IsAdmin() bool { return p != nil && p.Role == RoleAdmin }
