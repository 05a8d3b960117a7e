package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/shareit-backend/internal/booking/http"
	"github.com/nekogravitycat/shareit-backend/internal/comment"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	photoHttp "github.com/nekogravitycat/shareit-backend/internal/photo/http"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
)

// Photo uploads are limited to common web image formats.
var allowedPhotoTypes = []string{"image/jpeg", "image/png"}

type Config struct {
	DefaultPageSize int
	MaxPageSize     int
	MaxPhotoBytes   int64
}

type Handler struct {
	service      item.Service
	comments     comment.Service
	availability booking.AvailabilityView
	photos       *photoHttp.Handler
	cfg          Config
}

func NewHandler(
	service item.Service,
	comments comment.Service,
	availability booking.AvailabilityView,
	photos *photoHttp.Handler,
	cfg Config,
) *Handler {
	return &Handler{
		service:      service,
		comments:     comments,
		availability: availability,
		photos:       photos,
		cfg:          cfg,
	}
}

// details builds the full item view. Booking annotations are only filled in
// for the owner.
func (h *Handler) details(ctx context.Context, viewerID string, it *item.Item) (ItemResponse, error) {
	resp := NewItemResponse(it)

	comments, err := h.comments.ListByItem(ctx, it.ID)
	if err != nil {
		return resp, err
	}
	resp.Comments = make([]CommentResponse, len(comments))
	for i, c := range comments {
		resp.Comments[i] = NewCommentResponse(c)
	}

	if viewerID != it.OwnerID {
		return resp, nil
	}

	last, err := h.availability.LastBooking(ctx, it.ID)
	if err != nil {
		return resp, err
	}
	next, err := h.availability.NextBooking(ctx, it.ID)
	if err != nil {
		return resp, err
	}
	resp.LastBooking = bookingHttp.NewBookingShort(last)
	resp.NextBooking = bookingHttp.NewBookingShort(next)
	return resp, nil
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	it, err := h.service.Create(c.Request.Context(), auth.GetUserID(c), item.CreateRequest{
		Name:        req.Name,
		Description: req.Description,
		Available:   req.Available,
		RequestID:   req.RequestID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewItemResponse(it))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid item id", err)
		return
	}

	it, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp, err := h.details(c.Request.Context(), auth.GetUserID(c), it)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListOwn lists the caller's items with their booking annotations.
func (h *Handler) ListOwn(c *gin.Context) {
	var params request.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	from, size, err := params.Resolve(h.cfg.DefaultPageSize, h.cfg.MaxPageSize)
	if err != nil {
		response.BadRequest(c, err.Error(), nil)
		return
	}

	userID := auth.GetUserID(c)
	items, total, err := h.service.ListByOwner(c.Request.Context(), userID, from, size)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]ItemResponse, len(items))
	for i, it := range items {
		if out[i], err = h.details(c.Request.Context(), userID, it); err != nil {
			response.Error(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, response.NewPageResponse(out, from, size, total))
}

func (h *Handler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	from, size, err := req.Resolve(h.cfg.DefaultPageSize, h.cfg.MaxPageSize)
	if err != nil {
		response.BadRequest(c, err.Error(), nil)
		return
	}

	items, total, err := h.service.Search(c.Request.Context(), req.Text, from, size)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]ItemResponse, len(items))
	for i, it := range items {
		out[i] = NewItemResponse(it)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(out, from, size, total))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid item id", err)
		return
	}
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	it, err := h.service.Update(c.Request.Context(), auth.GetUserID(c), uri.ID, item.UpdateRequest{
		Name:        req.Name,
		Description: req.Description,
		Available:   req.Available,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewItemResponse(it))
}

func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid item id", err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), auth.GetUserID(c), uri.ID); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddComment lets a user who completed a rental review the item.
func (h *Handler) AddComment(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid item id", err)
		return
	}
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	cm, err := h.comments.Add(c.Request.Context(), auth.GetUserID(c), uri.ID, req.Text)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewCommentResponse(cm))
}

// UploadPhoto replaces the item's photo. Only the owner may upload.
func (h *Handler) UploadPhoto(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid item id", err)
		return
	}

	userID := auth.GetUserID(c)
	it, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if it.OwnerID != userID {
		response.Error(c, item.ErrNotOwner)
		return
	}

	h.photos.HandleUpload(c, photoHttp.UploadConfig{
		ItemID:       it.ID,
		MaxSizeBytes: h.cfg.MaxPhotoBytes,
		AllowedTypes: allowedPhotoTypes,
		AfterUpload: func(ctx context.Context, photoID string) error {
			_, err := h.service.AttachPhoto(ctx, userID, it.ID, photoID)
			return err
		},
	})
}
