package admin

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/service/activity"
	"github.com/clinicore/clinic-api/internal/service/stats"
	"github.com/clinicore/clinic-api/pkg/httputil"
)

// Handler serves the admin dashboard and the audit trail. The whole group
// sits behind AdminAuth.
type Handler struct {
	stats    *stats.Service
	activity *activity.Service
}

func NewHandler(statsSvc *stats.Service, activitySvc *activity.Service) *Handler {
	return &Handler{stats: statsSvc, activity: activitySvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stats", h.Dashboard)
	r.GET("/activity-logs", h.ActivityLogs)
}

func (h *Handler) Dashboard(c *gin.Context) {
	dashboard, err := h.stats.Dashboard(c.Request.Context())
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, dashboard)
}

func (h *Handler) ActivityLogs(c *gin.Context) {
	filters := &model.ActivityLogFilters{
		Type:       c.Query("type"),
		EntityType: c.Query("entity_type"),
		Severity:   c.Query("severity"),
	}
	if err := c.ShouldBindQuery(&filters.Pagination); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}
	if v := c.Query("user_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			httputil.BadRequest(c, "invalid user_id")
			return
		}
		filters.UserID = id
	}
	if v := c.Query("from"); v != "" {
		date, err := time.Parse(time.RFC3339, v)
		if err != nil {
			httputil.BadRequest(c, "invalid from timestamp, expected RFC3339")
			return
		}
		filters.StartDate = date
	}
	if v := c.Query("to"); v != "" {
		date, err := time.Parse(time.RFC3339, v)
		if err != nil {
			httputil.BadRequest(c, "invalid to timestamp, expected RFC3339")
			return
		}
		filters.EndDate = date
	}

	entries, total, err := h.activity.List(c.Request.Context(), filters)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Paginated(c, entries, filters.Page, filters.PageSize, total)
}
