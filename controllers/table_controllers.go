package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dineplan/tablebook/models"
	"github.com/dineplan/tablebook/services"
	"github.com/dineplan/tablebook/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TableController struct {
	DB           *gorm.DB
	Actors       *services.ActorService
	Availability *services.AvailabilityService
}

func NewTableController(db *gorm.DB, actors *services.ActorService, availability *services.AvailabilityService) *TableController {
	return &TableController{DB: db, Actors: actors, Availability: availability}
}

// CreateTable adds a table to a restaurant. The number must be unique
// within the restaurant, active or not.
func (tc *TableController) CreateTable(c *gin.Context) {
	actor, ok := actorFromContext(c, tc.Actors)
	if !ok {
		return
	}

	var req struct {
		Number   string `json:"number" binding:"required"`
		Capacity int    `json:"capacity" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	restaurantID, err := strconv.ParseUint(c.Param("restaurant_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid restaurant id"))
		return
	}

	var restaurant models.Restaurant
	if err := tc.DB.First(&restaurant, restaurantID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if !actorOwnsRestaurant(actor, &restaurant) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	table := models.Table{
		RestaurantID: restaurant.ID,
		Number:       req.Number,
		Capacity:     req.Capacity,
		Active:       true,
	}
	if err := tc.DB.Create(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondError(c, http.StatusConflict, errors.New("table number already exists in this restaurant"))
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Table %s created in restaurant %d (capacity=%d)", table.Number, restaurant.ID, table.Capacity)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetTables lists a restaurant's active tables.
func (tc *TableController) GetTables(c *gin.Context) {
	var tables []models.Table
	if err := tc.DB.Where("restaurant_id = ? AND active = ?", c.Param("restaurant_id"), true).
		Order("number").Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// UpdateTable edits capacity or the active flag. Capacity changes do
// not retroactively invalidate existing reservations.
func (tc *TableController) UpdateTable(c *gin.Context) {
	actor, ok := actorFromContext(c, tc.Actors)
	if !ok {
		return
	}

	table, restaurant, err := tc.loadTable(c)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if !actorOwnsRestaurant(actor, restaurant) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var req struct {
		Capacity *int  `json:"capacity"`
		Active   *bool `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Capacity != nil {
		if *req.Capacity <= 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("capacity must be positive"))
			return
		}
		table.Capacity = *req.Capacity
	}
	if req.Active != nil {
		table.Active = *req.Active
	}

	if err := tc.DB.Save(table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// DeleteTable removes a table unless it still holds reservations in an
// active status.
func (tc *TableController) DeleteTable(c *gin.Context) {
	actor, ok := actorFromContext(c, tc.Actors)
	if !ok {
		return
	}

	table, restaurant, err := tc.loadTable(c)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if !actorOwnsRestaurant(actor, restaurant) {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	var active int64
	if err := tc.DB.Model(&models.Reservation{}).
		Where("table_id = ? AND status IN ?", table.ID, models.ActiveStatuses).
		Count(&active).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if active > 0 {
		utils.RespondError(c, http.StatusConflict, errors.New("table still has active reservations"))
		return
	}

	if err := tc.DB.Delete(table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Table %d deleted from restaurant %d", table.ID, restaurant.ID)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{
		"id": table.ID,
	})
}

// GetOccupancy returns the display-only occupancy snapshot. With both
// date and time query parameters it answers for that exact slot;
// otherwise it estimates around the current time.
func (tc *TableController) GetOccupancy(c *gin.Context) {
	restaurantID, err := strconv.ParseUint(c.Param("restaurant_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid restaurant id"))
		return
	}

	snapshot, err := tc.Availability.OccupancySnapshot(uint(restaurantID), c.Query("date"), c.Query("time"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Occupancy snapshot", snapshot)
}

func (tc *TableController) loadTable(c *gin.Context) (*models.Table, *models.Restaurant, error) {
	var table models.Table
	if err := tc.DB.Where("id = ? AND restaurant_id = ?", c.Param("table_id"), c.Param("restaurant_id")).
		First(&table).Error; err != nil {
		return nil, nil, err
	}
	var restaurant models.Restaurant
	if err := tc.DB.First(&restaurant, table.RestaurantID).Error; err != nil {
		return nil, nil, err
	}
	return &table, &restaurant, nil
}
