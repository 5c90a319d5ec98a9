package booking

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"venuebook/internal/domain"
	"venuebook/internal/middleware"
	"venuebook/internal/modules/availability"
	"venuebook/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the authenticated booking endpoints. createLimiter
// throttles creation per actor.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, createLimiter gin.HandlerFunc) {
	rg.POST("/bookings", createLimiter, h.CreateBooking)
	rg.GET("/bookings", h.ListBookings)
	rg.POST("/bookings/:id/accept", h.Accept)
	rg.POST("/bookings/:id/decline", h.Decline)
	rg.POST("/bookings/:id/cancel", h.Cancel)
}

// RegisterPublicRoutes wires the single-booking lookup. It sits outside the
// auth wall because the confirmation page reads a booking by verification
// token without a session; signed-in parties reach it too.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings/:id", h.GetBooking)
}

func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	var customerID *int64
	if id, ok := middleware.UserID(c); ok {
		customerID = &id
	}

	b, err := h.service.CreateBooking(c.Request.Context(), customerID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, CreateBookingResponse{
		BookingID:         b.ID,
		VerificationToken: b.VerificationToken,
		Status:            string(b.Status),
		TotalPrice:        b.TotalPrice,
	})
}

func (h *Handler) GetBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}

	var viewerID *int64
	if uid, ok := middleware.UserID(c); ok {
		viewerID = &uid
	}

	b, err := h.service.GetForViewer(c.Request.Context(), id, viewerID, c.Query("token"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toView(b))
}

func (h *Handler) ListBookings(c *gin.Context) {
	uid, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Sign in required")
		return
	}
	role := c.GetString("role")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	views, err := h.service.ListForActor(c.Request.Context(), uid, role, limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bookings": views})
}

func (h *Handler) Accept(c *gin.Context)  { h.transition(c, h.service.Accept) }
func (h *Handler) Decline(c *gin.Context) { h.transition(c, h.service.Decline) }
func (h *Handler) Cancel(c *gin.Context)  { h.transition(c, h.service.Cancel) }

func (h *Handler) transition(c *gin.Context, fn func(ctx context.Context, bookingID, actorID int64) (*domain.BookingRequest, error)) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking id")
		return
	}
	uid, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Sign in required")
		return
	}

	b, err := fn(c.Request.Context(), id, uid)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toView(b))
}

func (h *Handler) writeError(c *gin.Context, err error) {
	if ve, ok := AsValidation(err); ok {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", ve.Message)
		return
	}
	switch {
	case errors.Is(err, availability.ErrDateBlocked):
		response.Error(c, http.StatusConflict, "DATE_BLOCKED", "The venue has blocked this date")
	case errors.Is(err, availability.ErrDateBooked):
		response.Error(c, http.StatusConflict, "DATE_BOOKED", "Another booking already holds this date")
	case errors.Is(err, ErrVenueNotFound):
		response.Error(c, http.StatusNotFound, "VENUE_NOT_FOUND", "Venue not found")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "BOOKING_NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You are not a party to this booking")
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Booking is not in a state that allows this action")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process booking")
	}
}
