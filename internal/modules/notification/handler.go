package notification

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"venuebook/internal/domain"
	"venuebook/internal/middleware"
	"venuebook/internal/pkg/response"
	"venuebook/internal/repository"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/notifications", h.List)
	rg.POST("/notifications/:id/read", h.MarkRead)
}

type notificationView struct {
	ID        int64     `json:"id"`
	Category  string    `json:"category"`
	Headline  string    `json:"headline"`
	Body      string    `json:"body,omitempty"`
	RefKind   string    `json:"refKind"`
	RefID     int64     `json:"refId"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *Handler) List(c *gin.Context) {
	uid, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Sign in required")
		return
	}

	items, unread, err := h.service.List(c.Request.Context(), uid)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list notifications")
		return
	}

	views := make([]notificationView, 0, len(items))
	for _, n := range items {
		views = append(views, toView(n))
	}
	response.Success(c, http.StatusOK, gin.H{
		"notifications": views,
		"unreadCount":   unread,
	})
}

func (h *Handler) MarkRead(c *gin.Context) {
	uid, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Sign in required")
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid notification id")
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), id, uid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Notification not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update notification")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"read": true})
}

func toView(n domain.Notification) notificationView {
	return notificationView{
		ID:        n.ID,
		Category:  string(n.Category),
		Headline:  n.Headline,
		Body:      n.Body,
		RefKind:   string(n.RefKind),
		RefID:     n.RefID,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
