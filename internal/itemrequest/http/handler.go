package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
)

type Handler struct {
	service     itemrequest.Service
	defaultSize int
	maxSize     int
}

func NewHandler(service itemrequest.Service, defaultSize, maxSize int) *Handler {
	return &Handler{service: service, defaultSize: defaultSize, maxSize: maxSize}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	r, err := h.service.Create(c.Request.Context(), auth.GetUserID(c), req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewItemRequestResponse(r))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request id", err)
		return
	}

	r, err := h.service.GetByID(c.Request.Context(), auth.GetUserID(c), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewItemRequestResponse(r))
}

// ListOwn returns every request the caller made, oldest first.
func (h *Handler) ListOwn(c *gin.Context) {
	reqs, err := h.service.ListOwn(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]ItemRequestResponse, len(reqs))
	for i, r := range reqs {
		out[i] = NewItemRequestResponse(r)
	}
	c.JSON(http.StatusOK, out)
}

// ListOthers pages through requests made by other users, newest first.
func (h *Handler) ListOthers(c *gin.Context) {
	var params request.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	from, size, err := params.Resolve(h.defaultSize, h.maxSize)
	if err != nil {
		response.BadRequest(c, err.Error(), nil)
		return
	}

	reqs, total, err := h.service.ListOthers(c.Request.Context(), auth.GetUserID(c), from, size)
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]ItemRequestResponse, len(reqs))
	for i, r := range reqs {
		out[i] = NewItemRequestResponse(r)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(out, from, size, total))
}
