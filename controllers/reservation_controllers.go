package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dineplan/tablebook/services"
	"github.com/dineplan/tablebook/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ReservationController struct {
	DB           *gorm.DB
	Actors       *services.ActorService
	Reservations *services.ReservationService
}

func NewReservationController(db *gorm.DB, actors *services.ActorService, reservations *services.ReservationService) *ReservationController {
	return &ReservationController{DB: db, Actors: actors, Reservations: reservations}
}

// CreateReservation books a table for the authenticated customer. The
// booking starts PENDING until staff confirm it.
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	actor, ok := actorFromContext(c, rc.Actors)
	if !ok {
		return
	}

	var req struct {
		RestaurantID uint   `json:"restaurant_id" binding:"required"`
		TableID      uint   `json:"table_id" binding:"required"`
		Date         string `json:"date" binding:"required"`
		Time         string `json:"time" binding:"required"`
		PartySize    int    `json:"party_size" binding:"required"`
		SpecialNotes string `json:"special_notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservation, err := rc.Reservations.Create(services.CreateReservationInput{
		CustomerID:   actor.UserID,
		RestaurantID: req.RestaurantID,
		TableID:      req.TableID,
		Date:         req.Date,
		Time:         req.Time,
		PartySize:    req.PartySize,
		SpecialNotes: req.SpecialNotes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Reservation created", reservation)
}

// CreateManualBooking takes a phone or walk-in booking on behalf of a
// guest. Staff scope is enforced in the service; the guest account is
// found or created by email and the booking starts CONFIRMED.
func (rc *ReservationController) CreateManualBooking(c *gin.Context) {
	actor, ok := actorFromContext(c, rc.Actors)
	if !ok {
		return
	}

	var req struct {
		RestaurantID  uint   `json:"restaurant_id" binding:"required"`
		TableID       *uint  `json:"table_id"`
		CustomerName  string `json:"customer_name" binding:"required"`
		CustomerEmail string `json:"customer_email" binding:"required,email"`
		Date          string `json:"date" binding:"required"`
		Time          string `json:"time" binding:"required"`
		PartySize     int    `json:"party_size" binding:"required"`
		SpecialNotes  string `json:"special_notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservation, err := rc.Reservations.CreateManual(actor, services.ManualBookingInput{
		RestaurantID:  req.RestaurantID,
		TableID:       req.TableID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Date:          req.Date,
		Time:          req.Time,
		PartySize:     req.PartySize,
		SpecialNotes:  req.SpecialNotes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Manual booking created", reservation)
}

// UpdateReservationStatus applies a lifecycle transition on behalf of
// the actor; all role rules live in the service.
func (rc *ReservationController) UpdateReservationStatus(c *gin.Context) {
	actor, ok := actorFromContext(c, rc.Actors)
	if !ok {
		return
	}

	reservationID, err := strconv.ParseUint(c.Param("reservation_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid reservation id"))
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservation, err := rc.Reservations.Transition(actor, uint(reservationID), body.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation status updated", reservation)
}

// ListReservations returns the reservations visible to the actor,
// optionally narrowed by restaurant, customer, date or status.
func (rc *ReservationController) ListReservations(c *gin.Context) {
	actor, ok := actorFromContext(c, rc.Actors)
	if !ok {
		return
	}

	filters := services.ListFilters{
		Date:   c.Query("date"),
		Status: c.Query("status"),
	}
	if v := c.Query("restaurant_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid restaurant id"))
			return
		}
		filters.RestaurantID = uint(id)
	}
	if v := c.Query("customer_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid customer id"))
			return
		}
		filters.CustomerID = uint(id)
	}

	reservations, err := rc.Reservations.List(actor, filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of reservations", reservations)
}

// GetReservationByID returns one reservation if the actor's scope
// covers it; out-of-scope ids read as not found.
func (rc *ReservationController) GetReservationByID(c *gin.Context) {
	actor, ok := actorFromContext(c, rc.Actors)
	if !ok {
		return
	}

	reservationID, err := strconv.ParseUint(c.Param("reservation_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid reservation id"))
		return
	}

	reservation, err := rc.Reservations.Get(actor, uint(reservationID))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation detail", reservation)
}
