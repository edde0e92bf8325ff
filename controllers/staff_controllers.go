package controllers

import (
	"errors"
	"net/http"

	"github.com/dineplan/tablebook/models"
	"github.com/dineplan/tablebook/services"
	"github.com/dineplan/tablebook/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type StaffController struct {
	DB     *gorm.DB
	Actors *services.ActorService
}

func NewStaffController(db *gorm.DB, actors *services.ActorService) *StaffController {
	return &StaffController{DB: db, Actors: actors}
}

// AssignStaff links a RECEPTION_ADMIN user to the restaurant. A
// receptionist operates exactly one restaurant; re-assigning moves
// them.
func (sc *StaffController) AssignStaff(c *gin.Context) {
	actor, ok := actorFromContext(c, sc.Actors)
	if !ok {
		return
	}

	var req struct {
		UserID uint `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var restaurant models.Restaurant
	if err := sc.DB.First(&restaurant, c.Param("restaurant_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if !actorOwnsRestaurant(actor, &restaurant) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var staff models.User
	if err := sc.DB.First(&staff, req.UserID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if staff.Role != models.RoleReceptionAdmin {
		utils.RespondError(c, http.StatusBadRequest, errors.New("user is not a reception admin"))
		return
	}

	var assignment models.StaffAssignment
	err := sc.DB.Where("user_id = ?", staff.ID).First(&assignment).Error
	switch {
	case err == nil:
		assignment.RestaurantID = restaurant.ID
		err = sc.DB.Save(&assignment).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		assignment = models.StaffAssignment{UserID: staff.ID, RestaurantID: restaurant.ID}
		err = sc.DB.Create(&assignment).Error
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Staff %d assigned to restaurant %d", staff.ID, restaurant.ID)
	utils.RespondJSON(c, http.StatusOK, "Staff assigned", assignment)
}

// RemoveStaff deletes the receptionist's assignment; they lose all
// restaurant scope immediately.
func (sc *StaffController) RemoveStaff(c *gin.Context) {
	actor, ok := actorFromContext(c, sc.Actors)
	if !ok {
		return
	}

	var restaurant models.Restaurant
	if err := sc.DB.First(&restaurant, c.Param("restaurant_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if !actorOwnsRestaurant(actor, &restaurant) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	result := sc.DB.Where("user_id = ? AND restaurant_id = ?", c.Param("user_id"), restaurant.ID).
		Delete(&models.StaffAssignment{})
	if result.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("assignment not found"))
		return
	}

	utils.InfoLogger.Printf("Staff %s removed from restaurant %d", c.Param("user_id"), restaurant.ID)
	utils.RespondJSON(c, http.StatusOK, "Staff removed", nil)
}

// GetStaff lists the restaurant's receptionists.
func (sc *StaffController) GetStaff(c *gin.Context) {
	actor, ok := actorFromContext(c, sc.Actors)
	if !ok {
		return
	}

	var restaurant models.Restaurant
	if err := sc.DB.First(&restaurant, c.Param("restaurant_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if !actorOwnsRestaurant(actor, &restaurant) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var assignments []models.StaffAssignment
	if err := sc.DB.Preload("User").Where("restaurant_id = ?", restaurant.ID).Find(&assignments).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant staff", assignments)
}
