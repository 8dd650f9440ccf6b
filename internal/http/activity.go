package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookie/internal/entities"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 200
)

// ActivityResponse is one page of the activity log.
type ActivityResponse struct {
	Events []entities.AuditEvent `json:"events"`
	Total  int64                 `json:"total"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

// ActivityController serves the favorites activity log.
type ActivityController struct {
	activity ActivityReader
}

// NewActivityController creates a new ActivityController.
func NewActivityController(activity ActivityReader) *ActivityController {
	return &ActivityController{activity: activity}
}

// List handles GET /api/activity?type=&limit=&offset=
func (ac *ActivityController) List(c *gin.Context) {
	limit, offset, ok := parsePage(c)
	if !ok {
		return
	}

	eventType := entities.AuditEventType(c.Query("type"))
	switch eventType {
	case "", entities.AuditEventFavoriteAdd, entities.AuditEventFavoriteRemove, entities.AuditEventCoverCleanup:
	default:
		respondBadRequest(c, "unknown event type: "+string(eventType))
		return
	}

	events, total, err := ac.activity.GetEvents(c.Request.Context(), eventType, limit, offset)
	if err != nil {
		respondInternalError(c, err, "list activity")
		return
	}

	c.JSON(http.StatusOK, ActivityResponse{Events: events, Total: total, Limit: limit, Offset: offset})
}

// BookHistory handles GET /api/favorites/:id/history
func (ac *ActivityController) BookHistory(c *gin.Context) {
	id, ok := parseBookID(c, "id")
	if !ok {
		return
	}
	limit, offset, ok := parsePage(c)
	if !ok {
		return
	}

	events, total, err := ac.activity.GetBookHistory(c.Request.Context(), id, limit, offset)
	if err != nil {
		respondInternalError(c, err, "book history")
		return
	}

	c.JSON(http.StatusOK, ActivityResponse{Events: events, Total: total, Limit: limit, Offset: offset})
}

// parsePage reads limit and offset, responding with 400 when either is malformed.
func parsePage(c *gin.Context) (limit, offset int, ok bool) {
	limit, offset = defaultActivityLimit, 0

	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondBadRequest(c, "limit must be a positive integer")
			return 0, 0, false
		}
		limit = min(n, maxActivityLimit)
	}
	if raw := c.Query("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondBadRequest(c, "offset must be a non-negative integer")
			return 0, 0, false
		}
		offset = n
	}
	return limit, offset, true
}
