package services

import (
	"errors"
	"regexp"
	"time"

	"github.com/dineplan/tablebook/models"
	"gorm.io/gorm"
)

var (
	dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// occupancyWindowHours is the spread, in whole hours either side of
// now, within which a CONFIRMED or CHECKED_IN reservation marks a
// table occupied in the heuristic snapshot.
const occupancyWindowHours = 2

// TableOccupancy is one entry of an occupancy snapshot.
type TableOccupancy struct {
	TableID         uint    `json:"table_id"`
	Number          string  `json:"number"`
	Capacity        int     `json:"capacity"`
	Available       bool    `json:"available"`
	OccupyingStatus *string `json:"occupying_status,omitempty"`
}

// AvailabilityService decides whether a slot can accept a booking and
// builds display-only occupancy snapshots. A slot is the (table, date,
// time-string) triple; two time labels conflict only when equal.
type AvailabilityService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{db: db, now: time.Now}
}

// ValidateSlotInput checks the date/time label shapes and party size
// bounds before any store lookups.
func ValidateSlotInput(date, timeOfDay string, partySize int) error {
	if !dateRe.MatchString(date) {
		return ErrValidation
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ErrValidation
	}
	if !timeRe.MatchString(timeOfDay) {
		return ErrValidation
	}
	if partySize < models.MinPartySize || partySize > models.MaxPartySize {
		return ErrValidation
	}
	return nil
}

// CheckSlotAvailable reports whether the table can take a reservation
// for the given date, time and party size. It runs against tx so the
// caller can hold the check and the insert in one transaction.
//
// Returns ErrNotFound when the restaurant or table is missing or
// inactive, ErrCapacityExceeded when the party does not fit, and
// ErrConflict when an active reservation already holds the exact slot.
func (s *AvailabilityService) CheckSlotAvailable(tx *gorm.DB, restaurantID, tableID uint, date, timeOfDay string, partySize int) error {
	if tx == nil {
		tx = s.db
	}

	var restaurant models.Restaurant
	if err := tx.Where("id = ? AND active = ?", restaurantID, true).First(&restaurant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	var table models.Table
	if err := tx.Where("id = ? AND restaurant_id = ? AND active = ?", tableID, restaurantID, true).First(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if partySize > table.Capacity {
		return ErrCapacityExceeded
	}

	var count int64
	err := tx.Model(&models.Reservation{}).
		Where("table_id = ? AND date = ? AND time = ? AND status IN ?",
			tableID, date, timeOfDay, models.ActiveStatuses).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrConflict
	}
	return nil
}

// OccupancySnapshot computes, per table of the restaurant, whether it
// is occupied. With date and timeOfDay given it answers for that exact
// slot; with no time it falls back to a loose "around now" estimate
// that only counts CONFIRMED and CHECKED_IN reservations for today
// within a 2-hour window of the current hour. The heuristic is for
// listing pages only and never gates a booking.
func (s *AvailabilityService) OccupancySnapshot(restaurantID uint, date, timeOfDay string) (map[uint]TableOccupancy, error) {
	var restaurant models.Restaurant
	if err := s.db.Where("id = ? AND active = ?", restaurantID, true).First(&restaurant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var tables []models.Table
	if err := s.db.Where("restaurant_id = ? AND active = ?", restaurantID, true).Find(&tables).Error; err != nil {
		return nil, err
	}

	snapshot := make(map[uint]TableOccupancy, len(tables))
	for _, table := range tables {
		entry := TableOccupancy{
			TableID:   table.ID,
			Number:    table.Number,
			Capacity:  table.Capacity,
			Available: true,
		}

		var reservations []models.Reservation
		var err error
		if date != "" && timeOfDay != "" {
			err = s.db.Where("table_id = ? AND date = ? AND time = ? AND status IN ?",
				table.ID, date, timeOfDay, models.ActiveStatuses).
				Find(&reservations).Error
		} else {
			today := s.now().Format("2006-01-02")
			err = s.db.Where("table_id = ? AND date = ? AND status IN ?",
				table.ID, today, []string{models.StatusConfirmed, models.StatusCheckedIn}).
				Find(&reservations).Error
			if err == nil {
				reservations = filterAroundNow(reservations, s.now())
			}
		}
		if err != nil {
			return nil, err
		}

		if len(reservations) > 0 {
			status := reservations[0].Status
			entry.Available = false
			entry.OccupyingStatus = &status
		}
		snapshot[table.ID] = entry
	}
	return snapshot, nil
}

// filterAroundNow keeps reservations whose hour lies within the
// occupancy window of the current hour.
func filterAroundNow(reservations []models.Reservation, now time.Time) []models.Reservation {
	var kept []models.Reservation
	for _, r := range reservations {
		slot, err := r.SlotTime(now.Location())
		if err != nil {
			continue
		}
		diff := slot.Hour() - now.Hour()
		if diff < 0 {
			diff = -diff
		}
		if diff <= occupancyWindowHours {
			kept = append(kept, r)
		}
	}
	return kept
}
