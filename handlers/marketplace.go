package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"junkbutler/models"
	"junkbutler/services/marketplace"
	"junkbutler/utils"

	"github.com/gin-gonic/gin"
)

type MarketplaceHandler struct {
	Svc marketplace.MarketplaceService
}

func NewMarketplaceHandler(svc marketplace.MarketplaceService) *MarketplaceHandler {
	return &MarketplaceHandler{Svc: svc}
}

func marketplaceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, marketplace.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "Listing not found", nil)
	case errors.Is(err, marketplace.ErrInvalidTransition):
		utils.JSONError(c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, marketplace.ErrInvalidListing):
		utils.JSONError(c, http.StatusBadRequest, err.Error(), nil)
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Marketplace request failed", err.Error())
	}
}

// parseQuery reads category, search, stage and (for admins) status filters.
func parseQuery(c *gin.Context, allowStatus bool) (marketplace.Query, error) {
	q := marketplace.Query{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Statuses: []models.ListingStatus{models.ListingListed},
	}
	if raw := c.Query("stage"); raw != "" {
		stage, err := strconv.Atoi(raw)
		if err != nil || stage < 0 || stage > 3 {
			return q, errors.New("stage must be between 0 and 3")
		}
		q.Stage = &stage
	}
	if allowStatus {
		q.Statuses = nil
		for _, s := range strings.Split(c.Query("status"), ",") {
			if s = strings.TrimSpace(s); s != "" {
				q.Statuses = append(q.Statuses, models.ListingStatus(s))
			}
		}
	}
	return q, nil
}

// ListPublic browses the listings currently for sale.
func (h *MarketplaceHandler) ListPublic(c *gin.Context) {
	h.list(c, false)
}

// ListAdmin is the resale queue; it accepts ?status=pending,listed.
func (h *MarketplaceHandler) ListAdmin(c *gin.Context) {
	h.list(c, true)
}

func (h *MarketplaceHandler) list(c *gin.Context, admin bool) {
	q, err := parseQuery(c, admin)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	views, err := h.Svc.List(c.Request.Context(), q)
	if err != nil {
		marketplaceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": views, "count": len(views)})
}

// GetPublic hides listings still awaiting review.
func (h *MarketplaceHandler) GetPublic(c *gin.Context) {
	v, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err == nil && v.Status == models.ListingPending {
		err = marketplace.ErrNotFound
	}
	if err != nil {
		marketplaceError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *MarketplaceHandler) Create(c *gin.Context) {
	var l models.Listing
	if err := c.ShouldBindJSON(&l); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}
	v, err := h.Svc.Create(c.Request.Context(), l)
	if err != nil {
		marketplaceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

func (h *MarketplaceHandler) Approve(c *gin.Context) {
	v, err := h.Svc.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		marketplaceError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *MarketplaceHandler) MarkSold(c *gin.Context) {
	var req struct {
		Price float64 `json:"price" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}
	v, err := h.Svc.MarkSold(c.Request.Context(), c.Param("id"), req.Price)
	if err != nil {
		marketplaceError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *MarketplaceHandler) Reclaim(c *gin.Context) {
	res, err := h.Svc.Reclaim(c.Request.Context(), c.Param("id"))
	if err != nil {
		marketplaceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
