package waitinglist

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicore/clinic-api/internal/middleware"
	"github.com/clinicore/clinic-api/internal/model"
	waitinglistsvc "github.com/clinicore/clinic-api/internal/service/waitinglist"
	"github.com/clinicore/clinic-api/pkg/httputil"
)

type Handler struct {
	svc *waitinglistsvc.Service
}

func NewHandler(svc *waitinglistsvc.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/waiting-list", h.Join)
	r.GET("/waiting-list", h.List)
	r.GET("/waiting-list/:id", h.Get)
	r.DELETE("/waiting-list/:id", h.Leave)
}

func (h *Handler) Join(c *gin.Context) {
	actorID, _ := middleware.UserIDFromContext(c)

	var req model.CreateWaitingListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}
	// Patients can only queue themselves, with default priority.
	if middleware.RoleFromContext(c) == model.RolePatient {
		req.PatientID = actorID
		req.Priority = 0
	}

	entry, err := h.svc.Join(c.Request.Context(), actorID, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Created(c, entry)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid waiting list entry id")
		return
	}

	entry, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, entry)
}

func (h *Handler) List(c *gin.Context) {
	filters := &model.WaitingListFilters{}
	if err := c.ShouldBindQuery(&filters.Pagination); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}
	if v := c.Query("doctor_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			httputil.BadRequest(c, "invalid doctor_id")
			return
		}
		filters.DoctorID = id
	}
	if v := c.Query("notified"); v != "" {
		notified := v == "true"
		filters.Notified = &notified
	}

	// Patients see only their own entries.
	if middleware.RoleFromContext(c) == model.RolePatient {
		actorID, _ := middleware.UserIDFromContext(c)
		filters.PatientID = actorID
	}

	entries, err := h.svc.List(c.Request.Context(), filters)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, entries)
}

func (h *Handler) Leave(c *gin.Context) {
	actorID, _ := middleware.UserIDFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid waiting list entry id")
		return
	}

	if err := h.svc.Leave(c.Request.Context(), actorID, id); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, gin.H{"deleted": true})
}
