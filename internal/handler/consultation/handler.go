package consultation

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicore/clinic-api/internal/middleware"
	"github.com/clinicore/clinic-api/internal/model"
	consultationsvc "github.com/clinicore/clinic-api/internal/service/consultation"
	"github.com/clinicore/clinic-api/pkg/httputil"
)

// RoomNotifier announces lifecycle changes to connected websocket clients
type RoomNotifier interface {
	NotifyStarted(consultationID uuid.UUID)
	NotifyEnded(consultationID uuid.UUID)
}

type Handler struct {
	svc      *consultationsvc.Service
	notifier RoomNotifier
}

func NewHandler(svc *consultationsvc.Service, notifier RoomNotifier) *Handler {
	return &Handler{svc: svc, notifier: notifier}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/consultations", middleware.RequireRoles(model.RoleAdmin, model.RoleDoctor), h.Create)
	r.GET("/consultations/:id", h.Get)
	r.POST("/consultations/:id/start", middleware.RequireRoles(model.RoleAdmin, model.RoleDoctor), h.Start)
	r.POST("/consultations/:id/complete", middleware.RequireRoles(model.RoleAdmin, model.RoleDoctor), h.Complete)
	r.POST("/consultations/:id/cancel", h.Cancel)
	r.GET("/consultations/:id/messages", h.ListMessages)
	r.POST("/consultations/:id/messages", h.SendMessage)
	r.POST("/consultations/:id/messages/read", h.MarkMessagesRead)
}

func (h *Handler) Create(c *gin.Context) {
	actorID, _ := middleware.UserIDFromContext(c)

	var req model.CreateConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	consultation, err := h.svc.Create(c.Request.Context(), actorID, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Created(c, consultation)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid consultation id")
		return
	}

	consultation, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, consultation)
}

func (h *Handler) Start(c *gin.Context) {
	actorID, _ := middleware.UserIDFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid consultation id")
		return
	}

	consultation, err := h.svc.Start(c.Request.Context(), actorID, id)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	if h.notifier != nil {
		h.notifier.NotifyStarted(id)
	}
	httputil.OK(c, consultation)
}

func (h *Handler) Complete(c *gin.Context) {
	actorID, _ := middleware.UserIDFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid consultation id")
		return
	}

	var body struct {
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil && err.Error() != "EOF" {
		httputil.BadRequest(c, err.Error())
		return
	}

	consultation, err := h.svc.Complete(c.Request.Context(), actorID, id, body.Notes)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	if h.notifier != nil {
		h.notifier.NotifyEnded(id)
	}
	httputil.OK(c, consultation)
}

func (h *Handler) Cancel(c *gin.Context) {
	actorID, _ := middleware.UserIDFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid consultation id")
		return
	}

	consultation, err := h.svc.Cancel(c.Request.Context(), actorID, id)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	if h.notifier != nil {
		h.notifier.NotifyEnded(id)
	}
	httputil.OK(c, consultation)
}

func (h *Handler) SendMessage(c *gin.Context) {
	senderID, _ := middleware.UserIDFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid consultation id")
		return
	}

	var req model.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	message, err := h.svc.SendMessage(c.Request.Context(), id, senderID, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Created(c, message)
}

func (h *Handler) ListMessages(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid consultation id")
		return
	}

	filters := &model.MessageFilters{
		ConsultationID: id,
		UnreadOnly:     c.Query("unread") == "true",
	}
	if err := c.ShouldBindQuery(&filters.Pagination); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	messages, err := h.svc.ListMessages(c.Request.Context(), filters)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, messages)
}

func (h *Handler) MarkMessagesRead(c *gin.Context) {
	readerID, _ := middleware.UserIDFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid consultation id")
		return
	}

	count, err := h.svc.MarkMessagesRead(c.Request.Context(), id, readerID)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, gin.H{"marked_read": count})
}
