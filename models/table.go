package models

import "time"

// Table is a bookable physical table. Number is a string so labels
// like "12A" work; it is unique within a restaurant regardless of the
// active flag.
type Table struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	RestaurantID uint       `gorm:"not null;uniqueIndex:idx_restaurant_table_number" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE" json:"-"`
	Number       string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_restaurant_table_number" json:"number"`
	Capacity     int        `gorm:"not null" json:"capacity"`
	Active       bool       `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`
}
