package models

import "time"

// StaffAssignment scopes a RECEPTION_ADMIN to the single restaurant
// they operate. A receptionist with no assignment has no scope and all
// reception operations fail.
type StaffAssignment struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	User         User       `gorm:"foreignKey:UserID" json:"-"`
	RestaurantID uint       `gorm:"not null;index" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`
}
