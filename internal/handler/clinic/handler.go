package clinic

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicore/clinic-api/internal/middleware"
	"github.com/clinicore/clinic-api/internal/model"
	clinicsvc "github.com/clinicore/clinic-api/internal/service/clinic"
	"github.com/clinicore/clinic-api/pkg/httputil"
)

type Handler struct {
	svc *clinicsvc.Service
}

func NewHandler(svc *clinicsvc.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts read endpoints on the public group and mutations on
// the authenticated one.
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.GET("/clinics", h.List)
	public.GET("/clinics/:id", h.Get)
	public.GET("/clinics/:id/departments", h.ListDepartments)

	admin := protected.Group("", middleware.RequireRoles(model.RoleAdmin))
	admin.POST("/clinics", h.Create)
	admin.PUT("/clinics/:id", h.Update)
	admin.DELETE("/clinics/:id", h.Delete)
	admin.POST("/departments", h.CreateDepartment)
	admin.DELETE("/departments/:id", h.DeleteDepartment)
}

func (h *Handler) Create(c *gin.Context) {
	actorID, _ := middleware.UserIDFromContext(c)

	var req model.CreateClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	clinic, err := h.svc.Create(c.Request.Context(), actorID, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Created(c, clinic)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid clinic id")
		return
	}

	clinic, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, clinic)
}

func (h *Handler) List(c *gin.Context) {
	clinics, err := h.svc.List(c.Request.Context())
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, clinics)
}

func (h *Handler) Update(c *gin.Context) {
	actorID, _ := middleware.UserIDFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid clinic id")
		return
	}

	var req model.UpdateClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	clinic, err := h.svc.Update(c.Request.Context(), actorID, id, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, clinic)
}

func (h *Handler) Delete(c *gin.Context) {
	actorID, _ := middleware.UserIDFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid clinic id")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), actorID, id); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, gin.H{"deleted": true})
}

func (h *Handler) CreateDepartment(c *gin.Context) {
	actorID, _ := middleware.UserIDFromContext(c)

	var req model.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	department, err := h.svc.CreateDepartment(c.Request.Context(), actorID, &req)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.Created(c, department)
}

func (h *Handler) ListDepartments(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid clinic id")
		return
	}

	departments, err := h.svc.ListDepartments(c.Request.Context(), id)
	if err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, departments)
}

func (h *Handler) DeleteDepartment(c *gin.Context) {
	actorID, _ := middleware.UserIDFromContext(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.BadRequest(c, "invalid department id")
		return
	}

	if err := h.svc.DeleteDepartment(c.Request.Context(), actorID, id); err != nil {
		httputil.Error(c, err)
		return
	}
	httputil.OK(c, gin.H{"deleted": true})
}
