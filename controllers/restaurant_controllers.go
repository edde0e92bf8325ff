package controllers

import (
	"net/http"

	"github.com/dineplan/tablebook/models"
	"github.com/dineplan/tablebook/services"
	"github.com/dineplan/tablebook/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RestaurantController struct {
	DB     *gorm.DB
	Actors *services.ActorService
}

func NewRestaurantController(db *gorm.DB, actors *services.ActorService) *RestaurantController {
	return &RestaurantController{DB: db, Actors: actors}
}

// CreateRestaurant registers a restaurant for an owner. Super admins
// may create on behalf of another owner via owner_id.
func (rc *RestaurantController) CreateRestaurant(c *gin.Context) {
	actor, ok := actorFromContext(c, rc.Actors)
	if !ok {
		return
	}

	var req struct {
		Name     string `json:"name" binding:"required"`
		Address  string `json:"address"`
		Phone    string `json:"phone"`
		Capacity *int   `json:"capacity"`
		OwnerID  uint   `json:"owner_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	ownerID := actor.UserID
	switch actor.Kind {
	case services.ActorSuperAdmin:
		if req.OwnerID != 0 {
			ownerID = req.OwnerID
		}
	case services.ActorRestaurantOwner:
		// owners only create for themselves
	default:
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	restaurant := models.Restaurant{
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
		Capacity: req.Capacity,
		OwnerID:  ownerID,
		Active:   true,
	}
	if err := rc.DB.Create(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Restaurant created: %s (owner=%d)", restaurant.Name, restaurant.OwnerID)
	utils.RespondJSON(c, http.StatusCreated, "Restaurant created", restaurant)
}

// GetAllRestaurants lists active restaurants for the public directory.
func (rc *RestaurantController) GetAllRestaurants(c *gin.Context) {
	var restaurants []models.Restaurant
	if err := rc.DB.Where("active = ?", true).Find(&restaurants).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of restaurants", restaurants)
}

// GetRestaurantByID returns one active restaurant.
func (rc *RestaurantController) GetRestaurantByID(c *gin.Context) {
	var restaurant models.Restaurant
	if err := rc.DB.Where("id = ? AND active = ?", c.Param("restaurant_id"), true).First(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant detail", restaurant)
}

// UpdateRestaurant edits the restaurant's listing fields.
func (rc *RestaurantController) UpdateRestaurant(c *gin.Context) {
	actor, ok := actorFromContext(c, rc.Actors)
	if !ok {
		return
	}

	var restaurant models.Restaurant
	if err := rc.DB.First(&restaurant, c.Param("restaurant_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if !actorOwnsRestaurant(actor, &restaurant) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var req struct {
		Name     string `json:"name"`
		Address  string `json:"address"`
		Phone    string `json:"phone"`
		Capacity *int   `json:"capacity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != "" {
		restaurant.Name = req.Name
	}
	if req.Address != "" {
		restaurant.Address = req.Address
	}
	if req.Phone != "" {
		restaurant.Phone = req.Phone
	}
	if req.Capacity != nil {
		restaurant.Capacity = req.Capacity
	}

	if err := rc.DB.Save(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant updated", restaurant)
}

// DeactivateRestaurant soft-deletes: the restaurant stops accepting
// bookings but its reservation history stays intact.
func (rc *RestaurantController) DeactivateRestaurant(c *gin.Context) {
	actor, ok := actorFromContext(c, rc.Actors)
	if !ok {
		return
	}

	var restaurant models.Restaurant
	if err := rc.DB.First(&restaurant, c.Param("restaurant_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if !actorOwnsRestaurant(actor, &restaurant) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	restaurant.Active = false
	if err := rc.DB.Save(&restaurant).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Restaurant %d deactivated", restaurant.ID)
	utils.RespondJSON(c, http.StatusOK, "Restaurant deactivated", gin.H{
		"id": restaurant.ID,
	})
}

// actorOwnsRestaurant gates owner-level management: the owner
// themselves or a super admin. Receptionists manage bookings, not the
// restaurant record.
func actorOwnsRestaurant(actor services.Actor, restaurant *models.Restaurant) bool {
	switch actor.Kind {
	case services.ActorSuperAdmin:
		return true
	case services.ActorRestaurantOwner:
		return restaurant.OwnerID == actor.UserID
	}
	return false
}
