package models

import "time"

const (
	RoleSuperAdmin      = "SUPER_ADMIN"
	RoleRestaurantAdmin = "RESTAURANT_ADMIN"
	RoleReceptionAdmin  = "RECEPTION_ADMIN"
	RoleCustomer        = "CUSTOMER"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);unique;not null" json:"email"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	Role      string    `gorm:"type:varchar(50);not null;default:'CUSTOMER'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidRole reports whether role is one of the four platform roles.
func ValidRole(role string) bool {
	switch role {
	case RoleSuperAdmin, RoleRestaurantAdmin, RoleReceptionAdmin, RoleCustomer:
		return true
	}
	return false
}
