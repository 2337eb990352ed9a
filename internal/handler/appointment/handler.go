package appointment

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicore/clinic-api/internal/middleware"
	"github.com/clinicore/clinic-api/internal/model"
	appointmentsvc "github.com/clinicore/clinic-api/internal/service/appointment"
	"github.com/clinicore/clinic-api/pkg/httputil"
)

type Handler struct {
	svc *appointmentsvc.Service
}

func NewHandler(svc *appointmentsvc.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/appointments", h.Create)
	r.GET("/appointments", h.List)
	r.GET("/appointments/:id", h.Get)
	r.PUT("/appointments/:id", h.Update)
	r.POST("/appointments/:id/transition", h.Transition)

	admin := r.Group("", middleware.RequireRoles(model.RoleAdmin))
	admin.DELETE("/appointments/:id", h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	actorID, _ := middleware.UserIDFromContext(c)

	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}
	// Patients can only book for themselves.
	if middleware.RoleFromContext(c) == model.RolePatient {
		req.PatientID = actorID
	}

	appointment, err := h.svc.Create(c.Request.Context(), actorID, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Created(c, appointment)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid appointment id")
		return
	}

	appointment, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, appointment)
}

func (h *Handler) List(c *gin.Context) {
	filters := &model.AppointmentFilters{
		Status: model.AppointmentStatus(c.Query("status")),
	}
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
	if v := c.Query("patient_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			httputil.BadRequest(c, "invalid patient_id")
			return
		}
		filters.PatientID = id
	}
	if v := c.Query("from"); v != "" {
		date, err := time.Parse("2006-01-02", v)
		if err != nil {
			httputil.BadRequest(c, "invalid from date")
			return
		}
		filters.StartDate = date
	}
	if v := c.Query("to"); v != "" {
		date, err := time.Parse("2006-01-02", v)
		if err != nil {
			httputil.BadRequest(c, "invalid to date")
			return
		}
		filters.EndDate = date
	}

	// Patients see only their own bookings regardless of filters.
	if middleware.RoleFromContext(c) == model.RolePatient {
		actorID, _ := middleware.UserIDFromContext(c)
		filters.PatientID = actorID
	}

	appointments, total, err := h.svc.List(c.Request.Context(), filters)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Paginated(c, appointments, filters.Page, filters.PageSize, total)
}

func (h *Handler) Update(c *gin.Context) {
	actorID, _ := middleware.UserIDFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid appointment id")
		return
	}

	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	appointment, err := h.svc.Update(c.Request.Context(), actorID, id, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, appointment)
}

// Transition moves an appointment through its lifecycle (confirm, start,
// complete, cancel, no-show).
func (h *Handler) Transition(c *gin.Context) {
	actorID, _ := middleware.UserIDFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid appointment id")
		return
	}

	var req model.TransitionAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	appointment, err := h.svc.Transition(c.Request.Context(), actorID, id, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, appointment)
}

func (h *Handler) Delete(c *gin.Context) {
	actorID, _ := middleware.UserIDFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid appointment id")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), actorID, id); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, gin.H{"deleted": true})
}
