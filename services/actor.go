package services

import (
	"errors"

	"github.com/dineplan/tablebook/models"
	"gorm.io/gorm"
)

// ActorKind discriminates the capability an actor holds for a request.
type ActorKind int

const (
	ActorCustomer ActorKind = iota
	ActorRestaurantOwner
	ActorReceptionist
	ActorSuperAdmin
)

// Actor is the per-request capability resolved once from the session
// role. RestaurantID is set only for receptionists (their staff scope).
type Actor struct {
	Kind         ActorKind
	UserID       uint
	RestaurantID uint
}

// ActorService resolves session identity into an Actor capability.
type ActorService struct {
	db *gorm.DB
}

func NewActorService(db *gorm.DB) *ActorService {
	return &ActorService{db: db}
}

// Resolve maps a user id and role into an Actor. For receptionists it
// looks up the StaffAssignment; a receptionist without an assignment
// has no scope and resolves to ErrForbidden.
func (s *ActorService) Resolve(userID uint, role string) (Actor, error) {
	switch role {
	case models.RoleSuperAdmin:
		return Actor{Kind: ActorSuperAdmin, UserID: userID}, nil
	case models.RoleRestaurantAdmin:
		return Actor{Kind: ActorRestaurantOwner, UserID: userID}, nil
	case models.RoleReceptionAdmin:
		var assignment models.StaffAssignment
		err := s.db.Where("user_id = ?", userID).First(&assignment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Actor{}, ErrForbidden
		}
		if err != nil {
			return Actor{}, err
		}
		return Actor{Kind: ActorReceptionist, UserID: userID, RestaurantID: assignment.RestaurantID}, nil
	case models.RoleCustomer:
		return Actor{Kind: ActorCustomer, UserID: userID}, nil
	}
	return Actor{}, ErrForbidden
}

// CanManage reports whether the actor may manage reservations of the
// given restaurant. Customers never manage; they only own.
func (a Actor) CanManage(restaurant *models.Restaurant) bool {
	switch a.Kind {
	case ActorSuperAdmin:
		return true
	case ActorRestaurantOwner:
		return restaurant.OwnerID == a.UserID
	case ActorReceptionist:
		return restaurant.ID == a.RestaurantID
	}
	return false
}
