package inquiry

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"venuebook/internal/pkg/response"
)

type CreateInquiryRequest struct {
	VenueID int64  `json:"venueId"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/inquiries", h.Create)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	q, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalid):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, ErrVenueNotFound):
			response.Error(c, http.StatusNotFound, "VENUE_NOT_FOUND", "Venue not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create inquiry")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"inquiryId": q.ID,
		"status":    string(q.Status),
	})
}
