package handlers

import (
	"net/http"
	"strings"
	"time"

	"junkbutler/services/booking"
	"junkbutler/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const adminTokenTTL = 12 * time.Hour

// AdminHandler serves the dashboard operator.
type AdminHandler struct {
	Bookings     booking.BookingService
	Email        string
	PasswordHash string
}

func NewAdminHandler(bookings booking.BookingService, email, passwordHash string) *AdminHandler {
	return &AdminHandler{Bookings: bookings, Email: email, PasswordHash: passwordHash}
}

type adminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AdminHandler) Login(c *gin.Context) {
	logger := getLogger(c)

	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}
	if h.Email == "" || h.PasswordHash == "" {
		utils.JSONError(c, http.StatusServiceUnavailable, "Admin login is not configured", nil)
		return
	}
	if !strings.EqualFold(strings.TrimSpace(req.Email), h.Email) ||
		bcrypt.CompareHashAndPassword([]byte(h.PasswordHash), []byte(req.Password)) != nil {
		logger.Warn("Admin login rejected", zap.String("email", req.Email))
		utils.JSONError(c, http.StatusUnauthorized, "Invalid email or password", nil)
		return
	}

	token, err := utils.GenerateAdminToken(h.Email, adminTokenTTL)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to issue token", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "expiresIn": int(adminTokenTTL.Seconds())})
}

// UpcomingPickups lists bookings scheduled from today on.
func (h *AdminHandler) UpcomingPickups(c *gin.Context) {
	pickups, err := h.Bookings.UpcomingPickups(c.Request.Context())
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load pickups", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"pickups": pickups, "count": len(pickups)})
}
