package models

import "time"

const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCheckedIn = "CHECKED_IN"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
	StatusNoShow    = "NO_SHOW"
)

// ActiveStatuses are the statuses that occupy a slot. COMPLETED,
// CANCELLED and NO_SHOW free the slot again.
var ActiveStatuses = []string{StatusPending, StatusConfirmed, StatusCheckedIn}

const (
	MinPartySize = 1
	MaxPartySize = 20
)

// Reservation books a table for a date and a time-of-day label. Date is
// stored as "2006-01-02" and Time as "HH:MM"; two reservations conflict
// only when both strings match exactly (no seating-duration overlap).
type Reservation struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Code         string      `gorm:"type:varchar(36);uniqueIndex;not null" json:"code"`
	CustomerID   uint        `gorm:"not null;index" json:"customer_id"`
	Customer     User        `gorm:"foreignKey:CustomerID" json:"customer"`
	RestaurantID uint        `gorm:"not null;index" json:"restaurant_id"`
	Restaurant   Restaurant  `gorm:"foreignKey:RestaurantID" json:"restaurant"`
	TableID      *uint       `gorm:"index:idx_slot" json:"table_id,omitempty"`
	Table        *Table      `gorm:"foreignKey:TableID" json:"table,omitempty"`
	Date         string      `gorm:"type:varchar(10);not null;index:idx_slot" json:"date"`
	Time         string      `gorm:"type:varchar(5);not null;index:idx_slot" json:"time"`
	PartySize    int         `gorm:"not null" json:"party_size"`
	SpecialNotes string      `gorm:"type:text" json:"special_notes,omitempty"`
	Status       string      `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	CreatedAt    time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"not null" json:"updated_at"`
}

// ValidStatus reports whether s is a known reservation status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCheckedIn,
		StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// IsActiveStatus reports whether s occupies a slot.
func IsActiveStatus(s string) bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusCheckedIn
}

// SlotTime parses the reservation's date and time into a single instant
// in the given location.
func (r *Reservation) SlotTime(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", r.Date+" "+r.Time, loc)
}
