package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Estimate dialogue
	StartEstimate     gin.HandlerFunc
	GetEstimate       gin.HandlerFunc
	DiscardEstimate   gin.HandlerFunc
	SelectQuantity    gin.HandlerFunc
	ToggleItem        gin.HandlerFunc
	ContinueItems     gin.HandlerFunc
	AddPhotos         gin.HandlerFunc
	SelectResale      gin.HandlerFunc
	SendMessage       gin.HandlerFunc
	RetryMessage      gin.HandlerFunc
	DismissBanner     gin.HandlerFunc
	ResetChat         gin.HandlerFunc
	GetEstimateResult gin.HandlerFunc

	// Booking
	CreateBooking    gin.HandlerFunc
	CheckServiceArea gin.HandlerFunc

	// Marketplace
	ListListings gin.HandlerFunc
	GetListing   gin.HandlerFunc

	// Admin
	AdminLogin      gin.HandlerFunc
	UpcomingPickups gin.HandlerFunc
	AdminListings   gin.HandlerFunc
	CreateListing   gin.HandlerFunc
	ApproveListing  gin.HandlerFunc
	MarkListingSold gin.HandlerFunc
	ReclaimListing  gin.HandlerFunc

	Health gin.HandlerFunc
}

// NewHandlerBundle wires the handler structs into the bundle.
func NewHandlerBundle(est *EstimateHandler, book *BookingHandler, market *MarketplaceHandler, admin *AdminHandler) *HandlerBundle {
	return &HandlerBundle{
		StartEstimate:     est.Start,
		GetEstimate:       est.Get,
		DiscardEstimate:   est.Discard,
		SelectQuantity:    est.SelectQuantity,
		ToggleItem:        est.ToggleItem,
		ContinueItems:     est.ContinueItems,
		AddPhotos:         est.AddPhotos,
		SelectResale:      est.SelectResale,
		SendMessage:       est.SendMessage,
		RetryMessage:      est.Retry,
		DismissBanner:     est.DismissBanner,
		ResetChat:         est.Reset,
		GetEstimateResult: est.Result,

		CreateBooking:    book.CreateBooking,
		CheckServiceArea: book.CheckServiceArea,

		ListListings: market.ListPublic,
		GetListing:   market.GetPublic,

		AdminLogin:      admin.Login,
		UpcomingPickups: admin.UpcomingPickups,
		AdminListings:   market.ListAdmin,
		CreateListing:   market.Create,
		ApproveListing:  market.Approve,
		MarkListingSold: market.MarkSold,
		ReclaimListing:  market.Reclaim,

		Health: HealthHandler,
	}
}
