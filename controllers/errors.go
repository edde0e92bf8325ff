package controllers

import (
	"errors"
	"net/http"

	"github.com/dineplan/tablebook/services"
	"github.com/dineplan/tablebook/utils"
	"github.com/gin-gonic/gin"
)

var ErrNoPermission = errors.New("you don't have permission for this action")

// respondServiceError maps the reservation core's error taxonomy onto
// HTTP status codes. Unknown errors stay 500 and get logged; the
// request never takes the process down.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrCapacityExceeded):
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
	case errors.Is(err, services.ErrConflict):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, services.ErrForbidden):
		utils.RespondError(c, http.StatusForbidden, err)
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrTooLateToCancel),
		errors.Is(err, services.ErrNotCancellable):
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
	case errors.Is(err, services.ErrValidation):
		utils.RespondError(c, http.StatusBadRequest, err)
	default:
		utils.ErrorLogger.Printf("unexpected service error: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

// actorFromContext resolves the per-request actor capability from the
// auth middleware's claims.
func actorFromContext(c *gin.Context, actors *services.ActorService) (services.Actor, bool) {
	userIDValue, exists := c.Get("user_id")
	if !exists {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return services.Actor{}, false
	}
	userID, ok := userIDValue.(uint)
	if !ok {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("invalid user id type"))
		return services.Actor{}, false
	}
	roleValue, _ := c.Get("role")
	role, _ := roleValue.(string)

	actor, err := actors.Resolve(userID, role)
	if err != nil {
		respondServiceError(c, err)
		return services.Actor{}, false
	}
	return actor, true
}
