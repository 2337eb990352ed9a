package doctor

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicore/clinic-api/internal/middleware"
	"github.com/clinicore/clinic-api/internal/model"
	doctorsvc "github.com/clinicore/clinic-api/internal/service/doctor"
	"github.com/clinicore/clinic-api/pkg/httputil"
)

type Handler struct {
	svc *doctorsvc.Service
}

func NewHandler(svc *doctorsvc.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts read endpoints on the public group and mutations on
// the authenticated one.
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.GET("/doctors", h.List)
	public.GET("/doctors/:id", h.Get)
	public.GET("/doctors/:id/available-slots", h.AvailableSlots)
	public.GET("/doctors/:id/schedules", h.ListSchedules)

	staff := protected.Group("", middleware.RequireRoles(model.RoleAdmin, model.RoleDoctor))
	staff.POST("/doctors/:id/schedules", h.CreateSchedule)
	staff.DELETE("/doctors/:id/schedules/:scheduleId", h.DeleteSchedule)

	admin := protected.Group("", middleware.RequireRoles(model.RoleAdmin))
	admin.POST("/doctors", h.Create)
	admin.PUT("/doctors/:id", h.Update)
	admin.DELETE("/doctors/:id", h.Delete)
}

func (h *Handler) Create(c *gin.Context) {
	actorID, _ := middleware.UserIDFromContext(c)

	var req model.CreateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	doctor, err := h.svc.Create(c.Request.Context(), actorID, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Created(c, doctor)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid doctor id")
		return
	}

	doctor, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, doctor)
}

func (h *Handler) List(c *gin.Context) {
	filters := &model.DoctorFilters{SearchTerm: c.Query("search")}
	if err := c.ShouldBindQuery(&filters.Pagination); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}
	if v := c.Query("clinic_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			httputil.BadRequest(c, "invalid clinic_id")
			return
		}
		filters.ClinicID = id
	}
	if v := c.Query("specialty_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			httputil.BadRequest(c, "invalid specialty_id")
			return
		}
		filters.SpecialtyID = id
	}
	if v := c.Query("available"); v != "" {
		available := v == "true"
		filters.Available = &available
	}

	doctors, total, err := h.svc.List(c.Request.Context(), filters)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Paginated(c, doctors, filters.Page, filters.PageSize, total)
}

func (h *Handler) Update(c *gin.Context) {
	actorID, _ := middleware.UserIDFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid doctor id")
		return
	}

	var req model.UpdateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	doctor, err := h.svc.Update(c.Request.Context(), actorID, id, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, doctor)
}

func (h *Handler) Delete(c *gin.Context) {
	actorID, _ := middleware.UserIDFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid doctor id")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), actorID, id); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, gin.H{"deleted": true})
}

// AvailableSlots returns the bookable slot grid for a doctor on a day.
// The date comes in as ?date=2006-01-02.
func (h *Handler) AvailableSlots(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid doctor id")
		return
	}
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		httputil.BadRequest(c, "invalid or missing date, expected YYYY-MM-DD")
		return
	}

	slots, err := h.svc.AvailableSlots(c.Request.Context(), id, date)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, slots)
}

func (h *Handler) CreateSchedule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid doctor id")
		return
	}

	var req model.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	schedule, err := h.svc.CreateSchedule(c.Request.Context(), id, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Created(c, schedule)
}

func (h *Handler) ListSchedules(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid doctor id")
		return
	}

	schedules, err := h.svc.ListSchedules(c.Request.Context(), id)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, schedules)
}

func (h *Handler) DeleteSchedule(c *gin.Context) {
	scheduleID, err := uuid.Parse(c.Param("scheduleId"))
	if err != nil {
		httputil.BadRequest(c, "invalid schedule id")
		return
	}

	if err := h.svc.DeleteSchedule(c.Request.Context(), scheduleID); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, gin.H{"deleted": true})
}
