package services

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/dineplan/tablebook/models"
	"github.com/dineplan/tablebook/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CreateReservationInput is the booking request a customer submits.
type CreateReservationInput struct {
	CustomerID   uint
	RestaurantID uint
	TableID      uint
	Date         string
	Time         string
	PartySize    int
	SpecialNotes string
}

// ManualBookingInput is a booking taken over the phone or at the door
// by staff. The customer is upserted by email and the booking starts
// CONFIRMED; the table may be left unassigned.
type ManualBookingInput struct {
	RestaurantID  uint
	TableID       *uint
	CustomerName  string
	CustomerEmail string
	Date          string
	Time          string
	PartySize     int
	SpecialNotes  string
}

// ReservationService owns the booking write paths and the scoped read
// paths. Every decision is made against the store as read inside the
// request; nothing is cached across requests.
type ReservationService struct {
	db           *gorm.DB
	availability *AvailabilityService
}

func NewReservationService(db *gorm.DB, availability *AvailabilityService) *ReservationService {
	return &ReservationService{db: db, availability: availability}
}

// slotTxOptions runs the booking check-then-insert at SERIALIZABLE.
// Under MySQL's default REPEATABLE READ the slot count is a non-locking
// snapshot read, so two racing transactions could both see zero rows
// and both insert; SERIALIZABLE makes the count a locking read and the
// second insert fails instead of committing a duplicate.
var slotTxOptions = &sql.TxOptions{Isolation: sql.LevelSerializable}

// Create places a customer booking in PENDING. The availability check
// and the insert run in one SERIALIZABLE transaction so two racing
// requests resolve to one winner; any duplicate-key error from the
// store is reported as a plain conflict.
func (s *ReservationService) Create(in CreateReservationInput) (*models.Reservation, error) {
	if err := ValidateSlotInput(in.Date, in.Time, in.PartySize); err != nil {
		return nil, err
	}

	reservation := models.Reservation{
		Code:         uuid.NewString(),
		CustomerID:   in.CustomerID,
		RestaurantID: in.RestaurantID,
		TableID:      &in.TableID,
		Date:         in.Date,
		Time:         in.Time,
		PartySize:    in.PartySize,
		SpecialNotes: in.SpecialNotes,
		Status:       models.StatusPending,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.availability.CheckSlotAvailable(tx, in.RestaurantID, in.TableID, in.Date, in.Time, in.PartySize); err != nil {
			return err
		}
		return tx.Create(&reservation).Error
	}, slotTxOptions)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, err
	}

	utils.InfoLogger.Printf("Reservation %s created: restaurant=%d table=%d slot=%s %s party=%d",
		reservation.Code, in.RestaurantID, in.TableID, in.Date, in.Time, in.PartySize)
	return s.load(reservation.ID)
}

// CreateManual places a staff booking. The actor must manage the
// restaurant; the customer record is found or created by email, and
// the reservation starts CONFIRMED instead of PENDING. With no table
// assigned only the restaurant and input shape are checked, the slot
// conflict check applying once a table is picked.
func (s *ReservationService) CreateManual(actor Actor, in ManualBookingInput) (*models.Reservation, error) {
	if err := ValidateSlotInput(in.Date, in.Time, in.PartySize); err != nil {
		return nil, err
	}
	in.CustomerEmail = strings.ToLower(strings.TrimSpace(in.CustomerEmail))
	if in.CustomerEmail == "" || in.CustomerName == "" {
		return nil, ErrValidation
	}

	var restaurant models.Restaurant
	if err := s.db.Where("id = ? AND active = ?", in.RestaurantID, true).First(&restaurant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !actor.CanManage(&restaurant) {
		return nil, ErrForbidden
	}

	customer, err := s.upsertCustomer(in.CustomerName, in.CustomerEmail)
	if err != nil {
		return nil, err
	}

	reservation := models.Reservation{
		Code:         uuid.NewString(),
		CustomerID:   customer.ID,
		RestaurantID: in.RestaurantID,
		TableID:      in.TableID,
		Date:         in.Date,
		Time:         in.Time,
		PartySize:    in.PartySize,
		SpecialNotes: in.SpecialNotes,
		Status:       models.StatusConfirmed,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if in.TableID != nil {
			if err := s.availability.CheckSlotAvailable(tx, in.RestaurantID, *in.TableID, in.Date, in.Time, in.PartySize); err != nil {
				return err
			}
		}
		return tx.Create(&reservation).Error
	}, slotTxOptions)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, err
	}

	utils.InfoLogger.Printf("Manual booking %s created by user %d for %s", reservation.Code, actor.UserID, in.CustomerEmail)
	return s.load(reservation.ID)
}

// upsertCustomer finds a CUSTOMER by email or creates one with an
// unusable random password; walk-in guests never log in until they
// reset it.
func (s *ReservationService) upsertCustomer(name, email string) (*models.User, error) {
	var customer models.User
	err := s.db.Where("email = ?", email).First(&customer).Error
	if err == nil {
		return &customer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	customer = models.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     models.RoleCustomer,
	}
	if err := s.db.Create(&customer).Error; err != nil {
		return nil, err
	}
	utils.InfoLogger.Printf("Walk-in customer created: %s", email)
	return &customer, nil
}

// ListFilters narrows a scoped reservation listing.
type ListFilters struct {
	RestaurantID uint
	CustomerID   uint
	Date         string
	Status       string
}

// List returns the reservations the actor may see, per the tenant
// scoping contract: super admins see all, owners their restaurants,
// receptionists their assigned restaurant, customers their own
// bookings. An out-of-scope filter yields an empty result, never a
// hint that the data exists.
func (s *ReservationService) List(actor Actor, filters ListFilters) ([]models.Reservation, error) {
	query := s.db.Model(&models.Reservation{}).
		Preload("Customer").Preload("Restaurant").Preload("Table")

	switch actor.Kind {
	case ActorSuperAdmin:
		// unrestricted
	case ActorRestaurantOwner:
		query = query.Joins("JOIN restaurants ON restaurants.id = reservations.restaurant_id").
			Where("restaurants.owner_id = ?", actor.UserID)
	case ActorReceptionist:
		if filters.RestaurantID != 0 && filters.RestaurantID != actor.RestaurantID {
			return []models.Reservation{}, nil
		}
		query = query.Where("reservations.restaurant_id = ?", actor.RestaurantID)
	case ActorCustomer:
		query = query.Where("reservations.customer_id = ?", actor.UserID)
	default:
		return []models.Reservation{}, nil
	}

	if filters.RestaurantID != 0 {
		query = query.Where("reservations.restaurant_id = ?", filters.RestaurantID)
	}
	if filters.CustomerID != 0 {
		query = query.Where("reservations.customer_id = ?", filters.CustomerID)
	}
	if filters.Date != "" {
		query = query.Where("reservations.date = ?", filters.Date)
	}
	if filters.Status != "" {
		query = query.Where("reservations.status = ?", filters.Status)
	}

	var reservations []models.Reservation
	if err := query.Order("reservations.date, reservations.time").Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// Get loads one reservation if the actor's scope covers it.
func (s *ReservationService) Get(actor Actor, reservationID uint) (*models.Reservation, error) {
	reservation, err := s.load(reservationID)
	if err != nil {
		return nil, err
	}

	switch actor.Kind {
	case ActorSuperAdmin:
		return reservation, nil
	case ActorRestaurantOwner:
		if reservation.Restaurant.OwnerID == actor.UserID {
			return reservation, nil
		}
	case ActorReceptionist:
		if reservation.RestaurantID == actor.RestaurantID {
			return reservation, nil
		}
	case ActorCustomer:
		if reservation.CustomerID == actor.UserID {
			return reservation, nil
		}
	}
	return nil, ErrNotFound
}

func (s *ReservationService) load(id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	err := s.db.Preload("Customer").Preload("Restaurant").Preload("Table").
		First(&reservation, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}
