package handlers

import (
	"errors"
	"net/http"

	"junkbutler/models"
	"junkbutler/services/booking"
	"junkbutler/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	Svc booking.BookingService
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Svc: svc}
}

// CreateBooking submits the booking form. Failures keep the {success:false}
// shape so the client can show the error and resubmit.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var rec models.BookingRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, models.BookingResult{Success: false, Error: "Invalid input: " + err.Error()})
		return
	}

	res, err := h.Svc.Create(c.Request.Context(), rec)
	if err != nil {
		var verr *booking.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": verr.Error(), "fields": verr.Fields})
			return
		}
		getLogger(c).Error("Booking submission failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.BookingResult{Success: false, Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *BookingHandler) CheckServiceArea(c *gin.Context) {
	res, err := h.Svc.CheckServiceArea(c.Param("zip"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	c.JSON(http.StatusOK, res)
}
