package modification

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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/modifications", h.Propose)
	rg.POST("/modifications/:id/accept", h.Accept)
	rg.POST("/modifications/:id/decline", h.Decline)
	rg.POST("/modifications/:id/cancel", h.Cancel)
}

func (h *Handler) Propose(c *gin.Context) {
	var req ProposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	uid, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Sign in required")
		return
	}

	m, err := h.service.Propose(c.Request.Context(), uid, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toView(m))
}

func (h *Handler) Accept(c *gin.Context) {
	h.resolve(c, func(ctx context.Context, id, uid int64, _ string) (*domain.BookingModification, error) {
		return h.service.Accept(ctx, id, uid)
	})
}

func (h *Handler) Decline(c *gin.Context) {
	h.resolve(c, func(ctx context.Context, id, uid int64, reason string) (*domain.BookingModification, error) {
		return h.service.Decline(ctx, id, uid, reason)
	})
}

func (h *Handler) Cancel(c *gin.Context) {
	h.resolve(c, func(ctx context.Context, id, uid int64, _ string) (*domain.BookingModification, error) {
		return h.service.Cancel(ctx, id, uid)
	})
}

func (h *Handler) resolve(c *gin.Context, fn func(ctx context.Context, id, uid int64, reason string) (*domain.BookingModification, error)) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid modification id")
		return
	}
	uid, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Sign in required")
		return
	}

	var req ResolveRequest
	_ = c.ShouldBindJSON(&req)

	m, err := fn(c.Request.Context(), id, uid, req.Reason)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toView(m))
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrPendingExists):
		response.Error(c, http.StatusConflict, "PENDING_MODIFICATION_EXISTS", "This booking already has a pending proposal")
	case errors.Is(err, availability.ErrDateBooked):
		response.Error(c, http.StatusConflict, "DATE_BOOKED", "Another booking already holds the proposed date")
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrBookingNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Modification or booking not found")
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrSelfResolution), errors.Is(err, ErrOwnerOnlyPrice):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, ErrBookingNotOpen), errors.Is(err, ErrAlreadyResolved):
		response.Error(c, http.StatusConflict, "INVALID_STATE", err.Error())
	case errors.Is(err, ErrNoChanges),
		errors.Is(err, ErrReasonRequired),
		errors.Is(err, ErrReasonTooLong),
		errors.Is(err, ErrGuestsOverLimit),
		errors.Is(err, ErrDateNotFuture),
		errors.Is(err, ErrInvalidTimeRange):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process modification")
	}
}
