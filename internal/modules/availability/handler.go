package availability

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"venuebook/internal/domain"
	"venuebook/internal/pkg/response"
)

const maxQueryRange = 92 // days

// VenueCatalog resolves requested ids to venues so unpublished ones can be
// dropped from public results.
type VenueCatalog interface {
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Venue, error)
}

type Handler struct {
	gate   *Gate
	venues VenueCatalog
}

func NewHandler(gate *Gate, venues VenueCatalog) *Handler {
	return &Handler{gate: gate, venues: venues}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/availability", h.Query)
}

// Query returns open dates per venue: GET /availability?venueIds=1,2&from=...&to=...
// The result is a read-only snapshot; creating a booking re-checks the date.
func (h *Handler) Query(c *gin.Context) {
	var venueIDs []int64
	for _, raw := range strings.Split(c.Query("venueIds"), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "venueIds must be a comma-separated list of ids")
			return
		}
		venueIDs = append(venueIDs, id)
	}
	if len(venueIDs) == 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "At least one venue id is required")
		return
	}

	from, to := c.Query("from"), c.Query("to")
	fromDay, err := time.Parse(dateLayout, from)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "from must be YYYY-MM-DD")
		return
	}
	toDay, err := time.Parse(dateLayout, to)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "to must be YYYY-MM-DD")
		return
	}
	if toDay.Before(fromDay) || toDay.Sub(fromDay) > maxQueryRange*24*time.Hour {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Date range must be positive and at most 92 days")
		return
	}

	// Only published venues are visible on the public surface.
	venues, err := h.venues.GetByIDs(c.Request.Context(), venueIDs)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to query availability")
		return
	}
	visible := venueIDs[:0]
	for _, v := range venues {
		if v.Published {
			visible = append(visible, v.ID)
		}
	}

	open, err := h.gate.BatchAvailability(c.Request.Context(), visible, from, to)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to query availability")
		return
	}

	out := make(map[string][]string, len(open))
	for venueID, dates := range open {
		if dates == nil {
			dates = []string{}
		}
		out[strconv.FormatInt(venueID, 10)] = dates
	}
	response.Success(c, http.StatusOK, gin.H{"openDates": out})
}
