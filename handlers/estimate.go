package handlers

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"junkbutler/models"
	"junkbutler/services/booking"
	"junkbutler/services/estimate"
	"junkbutler/services/storage"
	"junkbutler/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EstimateHandler exposes the estimate dialogue.
type EstimateHandler struct {
	Svc    estimate.EstimateService
	Photos storage.PhotoStore
}

func NewEstimateHandler(svc estimate.EstimateService, photos storage.PhotoStore) *EstimateHandler {
	return &EstimateHandler{Svc: svc, Photos: photos}
}

// EstimateResponse is the dialogue view plus the booking form pre-filled from
// the completed estimate.
type EstimateResponse struct {
	*estimate.View
	Draft *models.BookingRecord `json:"draft,omitempty"`
}

type valueRequest struct {
	Value string `json:"value" binding:"required"`
}

type messageRequest struct {
	Text string `json:"text" binding:"required"`
}

func respond(v *estimate.View) EstimateResponse {
	out := EstimateResponse{View: v}
	if v.Estimate != nil {
		d := booking.DraftFromEstimate(*v.Estimate)
		out.Draft = &d
	}
	return out
}

// estimateError maps service errors onto HTTP statuses.
func estimateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, estimate.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "Estimate not found", nil)
	case errors.Is(err, estimate.ErrInvalidStep),
		errors.Is(err, estimate.ErrAlreadyCompleted),
		errors.Is(err, estimate.ErrNothingToRetry):
		utils.JSONError(c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, estimate.ErrUnknownOption),
		errors.Is(err, estimate.ErrNoPhotos),
		errors.Is(err, estimate.ErrEmptyMessage),
		errors.Is(err, storage.ErrUnsupportedType),
		errors.Is(err, storage.ErrTooLarge):
		utils.JSONError(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, context.Canceled):
		c.Abort()
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Failed to update estimate", err.Error())
	}
}

func (h *EstimateHandler) reply(c *gin.Context, status int, v *estimate.View, err error) {
	if err != nil {
		estimateError(c, err)
		return
	}
	c.JSON(status, respond(v))
}

func (h *EstimateHandler) Start(c *gin.Context) {
	v, err := h.Svc.Start(c.Request.Context())
	h.reply(c, http.StatusCreated, v, err)
}

func (h *EstimateHandler) Get(c *gin.Context) {
	v, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	h.reply(c, http.StatusOK, v, err)
}

func (h *EstimateHandler) Discard(c *gin.Context) {
	if err := h.Svc.Discard(c.Request.Context(), c.Param("id")); err != nil {
		estimateError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// withValue binds {"value": ...} and runs op with it.
func (h *EstimateHandler) withValue(op func(ctx context.Context, id, value string) (*estimate.View, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req valueRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
			return
		}
		v, err := op(c.Request.Context(), c.Param("id"), req.Value)
		h.reply(c, http.StatusOK, v, err)
	}
}

func (h *EstimateHandler) SelectQuantity(c *gin.Context) { h.withValue(h.Svc.SelectQuantity)(c) }

func (h *EstimateHandler) ToggleItem(c *gin.Context) { h.withValue(h.Svc.ToggleItem)(c) }

func (h *EstimateHandler) SelectResale(c *gin.Context) { h.withValue(h.Svc.SelectResale)(c) }

func (h *EstimateHandler) ContinueItems(c *gin.Context) {
	v, err := h.Svc.ContinueItems(c.Request.Context(), c.Param("id"))
	h.reply(c, http.StatusOK, v, err)
}

// AddPhotos uploads the multipart "photos" files and attaches their references.
func (h *EstimateHandler) AddPhotos(c *gin.Context) {
	id := c.Param("id")

	form, err := c.MultipartForm()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Expected multipart form with photos", err.Error())
		return
	}
	files := form.File["photos"]
	if len(files) == 0 {
		estimateError(c, estimate.ErrNoPhotos)
		return
	}

	v, err := h.Svc.UploadPhotos(c.Request.Context(), id, func(ctx context.Context) ([]string, error) {
		refs, err := storage.UploadAll(ctx, h.Photos, id, uploadsFrom(files))
		if err != nil {
			getLogger(c).Error("Photo upload failed", zap.String("session", id), zap.String("store", h.Photos.Name()), zap.Error(err))
		}
		return refs, err
	})
	h.reply(c, http.StatusOK, v, err)
}

func uploadsFrom(files []*multipart.FileHeader) []storage.Upload {
	uploads := make([]storage.Upload, 0, len(files))
	for _, fh := range files {
		uploads = append(uploads, storage.Upload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Open:        func() (io.ReadCloser, error) { return fh.Open() },
		})
	}
	return uploads
}

// SendMessage streams the assistant's reply as server-sent events.
func (h *EstimateHandler) SendMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", err.Error())
		return
	}
	id := c.Param("id")
	h.stream(c, id, func(ctx context.Context, obs estimate.Observer) (*estimate.View, error) {
		return h.Svc.SendMessage(ctx, id, req.Text, obs)
	})
}

// Retry re-runs the last conversational turn, streamed like SendMessage.
func (h *EstimateHandler) Retry(c *gin.Context) {
	id := c.Param("id")
	h.stream(c, id, func(ctx context.Context, obs estimate.Observer) (*estimate.View, error) {
		return h.Svc.Retry(ctx, id, obs)
	})
}

func (h *EstimateHandler) DismissBanner(c *gin.Context) {
	v, err := h.Svc.DismissBanner(c.Request.Context(), c.Param("id"))
	h.reply(c, http.StatusOK, v, err)
}

func (h *EstimateHandler) Reset(c *gin.Context) {
	v, err := h.Svc.Reset(c.Request.Context(), c.Param("id"))
	h.reply(c, http.StatusOK, v, err)
}

// Result returns the completed snapshot and the booking draft built from it.
func (h *EstimateHandler) Result(c *gin.Context) {
	est, err := h.Svc.Result(c.Request.Context(), c.Param("id"))
	if err != nil {
		estimateError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"estimate": est, "draft": booking.DraftFromEstimate(*est)})
}
