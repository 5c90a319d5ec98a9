package agent

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"venuebook/internal/middleware"
	"venuebook/internal/modules/availability"
	"venuebook/internal/modules/booking"
	"venuebook/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the agent endpoints. Chat is open to anonymous
// visitors (optional auth + rate limit); confirm requires a session.
func (h *Handler) RegisterRoutes(public *gin.RouterGroup, authed *gin.RouterGroup, chatLimiter gin.HandlerFunc) {
	public.POST("/agent/chat", chatLimiter, h.Chat)
	authed.POST("/agent/confirm", h.Confirm)
}

func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if req.VenueID == 0 || strings.TrimSpace(req.Message) == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "venueId and message are required")
		return
	}

	var userID *int64
	if uid, ok := middleware.UserID(c); ok {
		userID = &uid
	}

	resp, err := h.service.Chat(c.Request.Context(), userID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) Confirm(c *gin.Context) {
	uid, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Sign in required")
		return
	}

	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "conversationId, customerName and customerEmail are required")
		return
	}

	b, err := h.service.Confirm(c.Request.Context(), uid, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, booking.CreateBookingResponse{
		BookingID:         b.ID,
		VerificationToken: b.VerificationToken,
		Status:            string(b.Status),
		TotalPrice:        b.TotalPrice,
	})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	if ve, ok := booking.AsValidation(err); ok {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", ve.Message)
		return
	}
	switch {
	case errors.Is(err, ErrVenueNotFound):
		response.Error(c, http.StatusNotFound, "VENUE_NOT_FOUND", "Venue not found")
	case errors.Is(err, ErrAgentDisabled):
		response.Error(c, http.StatusBadRequest, "AGENT_DISABLED", "This venue has not enabled the booking assistant")
	case errors.Is(err, ErrNotConfigured):
		response.Error(c, http.StatusInternalServerError, "AGENT_UNAVAILABLE", "The booking assistant is not available")
	case errors.Is(err, ErrConversationNotFound):
		response.Error(c, http.StatusNotFound, "CONVERSATION_NOT_FOUND", "Conversation not found")
	case errors.Is(err, ErrConversationForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "This conversation belongs to another customer")
	case errors.Is(err, ErrConversationBusy):
		response.Error(c, http.StatusConflict, "CONVERSATION_BUSY", "Another message is being processed; try again")
	case errors.Is(err, ErrNoDraft):
		response.Error(c, http.StatusBadRequest, "NO_DRAFT", "The conversation has no booking draft to confirm")
	case errors.Is(err, availability.ErrDateBlocked):
		response.Error(c, http.StatusConflict, "DATE_BLOCKED", "The venue has blocked this date")
	case errors.Is(err, availability.ErrDateBooked):
		response.Error(c, http.StatusConflict, "DATE_BOOKED", "Another booking already holds this date")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process the request")
	}
}
