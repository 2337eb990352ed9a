package notification

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicore/clinic-api/internal/middleware"
	"github.com/clinicore/clinic-api/internal/model"
	notificationsvc "github.com/clinicore/clinic-api/internal/service/notification"
	"github.com/clinicore/clinic-api/pkg/httputil"
)

type Handler struct {
	svc *notificationsvc.Service
}

func NewHandler(svc *notificationsvc.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/notifications", h.List)
	r.GET("/notifications/unread-count", h.UnreadCount)
	r.POST("/notifications/:id/read", h.MarkRead)
	r.POST("/notifications/read-all", h.MarkAllRead)
}

func (h *Handler) List(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c)

	filters := &model.NotificationFilters{
		UserID:     userID,
		UnreadOnly: c.Query("unread") == "true",
		Type:       c.Query("type"),
	}
	if err := c.ShouldBindQuery(&filters.Pagination); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	notifications, err := h.svc.List(c.Request.Context(), filters)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, notifications)
}

func (h *Handler) UnreadCount(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c)

	count, err := h.svc.CountUnread(c.Request.Context(), userID)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, gin.H{"unread": count})
}

func (h *Handler) MarkRead(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid notification id")
		return
	}

	if err := h.svc.MarkRead(c.Request.Context(), id, userID); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, gin.H{"read": true})
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c)

	count, err := h.svc.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, gin.H{"marked_read": count})
}
