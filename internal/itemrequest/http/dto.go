package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
)

type CreateRequest struct {
	Description string `json:"description" binding:"required"`
}

// AnswerResponse is an item listed in answer to a request.
type AnswerResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	OwnerID     string `json:"owner_id"`
	RequestID   string `json:"request_id"`
}

type ItemRequestResponse struct {
	ID          string           `json:"id"`
	RequesterID string           `json:"requester_id"`
	Description string           `json:"description"`
	CreatedAt   time.Time        `json:"created_at"`
	Items       []AnswerResponse `json:"items"`
}

func NewItemRequestResponse(r *itemrequest.ItemRequest) ItemRequestResponse {
	answers := make([]AnswerResponse, 0, len(r.Items))
	for _, it := range r.Items {
		answers = append(answers, newAnswer(it))
	}
	return ItemRequestResponse{
		ID:          r.ID,
		RequesterID: r.RequesterID,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		Items:       answers,
	}
}

func newAnswer(it *item.Item) AnswerResponse {
	resp := AnswerResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		OwnerID:     it.OwnerID,
	}
	if it.RequestID != nil {
		resp.RequestID = *it.RequestID
	}
	return resp
}
